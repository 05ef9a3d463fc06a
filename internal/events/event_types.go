package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/event-reservation/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationUpdated   EventType = "reservation.status_changed"
	EventEventCreated         EventType = "event.created"
	EventEventUpdated         EventType = "event.updated"
	EventEventDeleted         EventType = "event.deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EventID   string    `json:"event_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps a fresh event envelope.
func New(eventType EventType, eventID string, actor Actor, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EventID:   eventID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ReservationPayload accompanies reservation lifecycle events.
type ReservationPayload struct {
	ReservationID  string                   `json:"reservation_id"`
	UserID         string                   `json:"user_id"`
	Status         domain.ReservationStatus `json:"status"`
	SeatsRemaining *int                     `json:"seats_remaining,omitempty"`
}

// EventPayload accompanies event lifecycle events.
type EventPayload struct {
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Capacity int       `json:"capacity"`
	HostID   string    `json:"host_id"`
}
