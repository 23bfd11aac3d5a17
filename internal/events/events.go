package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventReservationCreated   = "reservation_created"
	EventReservationsCleared  = "reservations_cleared"
	EventSelectionConfirmed   = "selection_confirmed"
	EventCredentialConfigured = "credential_configured"
)

// ReservationEventPayload is the minimal reservation snapshot carried to
// event consumers (notifier, sheets sync).
type ReservationEventPayload struct {
	ReservationID int64     `json:"reservation_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Guests        int       `json:"guests"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// ClearedEventPayload reports a bulk deletion.
type ClearedEventPayload struct {
	Removed int `json:"removed"`
}

// SelectionEventPayload reports a confirmed menu selection.
type SelectionEventPayload struct {
	TotalItems    int  `json:"total_items"`
	DistinctItems int  `json:"distinct_items"`
	CartCleared   bool `json:"cart_cleared"`
}

// Event is a lightweight in-process domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event. Handlers run synchronously on the publishing
// goroutine; a handler that needs concurrency spawns its own.
type Handler func(event *Event) error

// Bus provides in-process pub/sub.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for the event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handler errors are the
// handler's problem; publishing never fails because a consumer did.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
