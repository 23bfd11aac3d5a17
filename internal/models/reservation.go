package models

import "time"

// DateLayout is the calendar-date format used for check-in/check-out values.
const DateLayout = "2006-01-02"

type Reservation struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	Allergies   []string  `json:"allergies"`
	Diet        []string  `json:"diet"`
	Occasion    string    `json:"occasion"`
	Preferences string    `json:"preferences"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"` // always "pending"; records are never transitioned
}

// Guests returns the total party size.
func (r Reservation) Guests() int {
	return r.Adults + r.Children
}

// CheckInDate parses the check-in value; zero time when absent or malformed.
func (r Reservation) CheckInDate() time.Time {
	t, err := time.Parse(DateLayout, r.CheckIn)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DashboardStats are the counters shown at the top of the admin panel.
type DashboardStats struct {
	TotalClients   int `json:"total_clients"`
	TotalGuests    int `json:"total_guests"`
	UpcomingEvents int `json:"upcoming_events"`
}
