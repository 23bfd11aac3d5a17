package validate

import (
	"regexp"
	"strings"
	"time"

	"reservas/internal/models"
)

// Submission carries the raw form values exactly as the client sent them.
// Numbers arrive pre-parsed by the transport layer; everything else is text.
type Submission struct {
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	CheckIn     string   `json:"checkIn"`
	CheckOut    string   `json:"checkOut"`
	Adults      int      `json:"adults"`
	Children    int      `json:"children"`
	Allergies   []string `json:"allergies"`
	Diet        []string `json:"diet"`
	Occasion    string   `json:"occasion"`
	Preferences string   `json:"preferences"`
}

// Result reports per-field failures. A field missing from FieldErrors passed.
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s+\-()]+$`)
)

// Check validates a submission. Pure function: it never mutates the input and
// has no side effects; callers own any error presentation.
func Check(s Submission) Result {
	fieldErrors := make(map[string]string)

	if len(strings.TrimSpace(s.FullName)) < 3 {
		fieldErrors["fullName"] = "El nombre debe tener al menos 3 caracteres"
	}

	if !emailPattern.MatchString(s.Email) {
		fieldErrors["email"] = "Por favor ingrese un email válido"
	}

	if len(strings.TrimSpace(s.Phone)) < 8 || !phonePattern.MatchString(s.Phone) {
		fieldErrors["phone"] = "Por favor ingrese un teléfono válido"
	}

	checkIn, checkInErr := parseDate(s.CheckIn)
	if s.CheckIn == "" {
		fieldErrors["checkIn"] = "Por favor seleccione una fecha de check-in"
	} else if checkInErr != nil {
		fieldErrors["checkIn"] = "Fecha de check-in inválida"
	}

	checkOut, checkOutErr := parseDate(s.CheckOut)
	switch {
	case s.CheckOut == "":
		fieldErrors["checkOut"] = "Por favor seleccione una fecha de check-out"
	case checkOutErr != nil:
		fieldErrors["checkOut"] = "Fecha de check-out inválida"
	case checkInErr == nil && s.CheckIn != "" && !checkOut.After(checkIn):
		fieldErrors["checkOut"] = "La fecha de check-out debe ser posterior al check-in"
	}

	if s.Adults < 1 {
		fieldErrors["adults"] = "Debe haber al menos 1 adulto"
	}
	if s.Children < 0 {
		fieldErrors["children"] = "El número de niños no puede ser negativo"
	}

	if len(fieldErrors) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, FieldErrors: fieldErrors}
}

// parseDate interprets a calendar date at day precision; time of day never
// participates in the check-out comparison.
func parseDate(value string) (time.Time, error) {
	return time.Parse(models.DateLayout, value)
}
