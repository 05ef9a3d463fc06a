package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/event-reservation/internal/domain"
)

// legacyDateLayout is the form submitted by the web client's date picker.
const legacyDateLayout = "2006-01-02 15:04:05"

// EventRequest creates or updates an event. Absent fields are left unchanged on update.
type EventRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Location        *string `json:"location"`
	MaxParticipants *int    `json:"maxParticipants"`
}

// CreateEventResponse is returned after an event is created.
type CreateEventResponse struct {
	EventID string `json:"eventId"`
}

// EventResponse is the wire shape of an event.
type EventResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	MaxParticipants int       `json:"maxParticipants"`
	SeatsRemaining  int       `json:"seatsRemaining"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	HostFirstName   *string   `json:"hostFirstName,omitempty"`
	HostLastName    *string   `json:"hostLastName,omitempty"`
}

// EventDetailResponse is the event with the reservations visible to the caller.
type EventDetailResponse struct {
	Event        EventResponse         `json:"event"`
	Reservations []ReservationResponse `json:"reservations"`
	UserID       string                `json:"userId"`
}

// ParseEventDate accepts RFC 3339 or "YYYY-MM-DD HH:mm:ss" (interpreted as UTC).
func ParseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(legacyDateLayout, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// NewEventResponse maps a domain event.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Date:            event.Date,
		Location:        event.Location,
		MaxParticipants: event.Capacity,
		SeatsRemaining:  event.SeatsRemaining(),
		CreatedBy:       event.CreatedBy,
		CreatedAt:       event.CreatedAt,
		HostFirstName:   event.HostFirstName,
		HostLastName:    event.HostLastName,
	}
}

// NewEventList maps a slice of events, never returning nil.
func NewEventList(events []domain.Event) []EventResponse {
	items := make([]EventResponse, 0, len(events))
	for i := range events {
		items = append(items, NewEventResponse(&events[i]))
	}
	return items
}
