package dto

import (
	"time"

	"github.com/spec-kit/event-reservation/internal/domain"
)

// ReservationRequest names the event to reserve or cancel.
type ReservationRequest struct {
	EventID string `json:"eventId"`
}

// ReservationCreatedResponse is returned after a seat is booked.
type ReservationCreatedResponse struct {
	ReservationID  string `json:"reservationId"`
	EventID        string `json:"eventId"`
	SeatsRemaining int    `json:"seatsRemaining"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ReservationStatusRequest changes a reservation's status.
type ReservationStatusRequest struct {
	Status domain.ReservationStatus `json:"status"`
}

// ReservationResponse is the wire shape of a reservation.
type ReservationResponse struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"userId"`
	EventID       string                   `json:"eventId"`
	Status        domain.ReservationStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
	UserFirstName *string                  `json:"userFirstName,omitempty"`
	UserLastName  *string                  `json:"userLastName,omitempty"`
	UserEmail     *string                  `json:"userEmail,omitempty"`
}

// NewReservationResponse maps a domain reservation.
func NewReservationResponse(res *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            res.ID,
		UserID:        res.UserID,
		EventID:       res.EventID,
		Status:        res.Status,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
		UserFirstName: res.UserFirstName,
		UserLastName:  res.UserLastName,
		UserEmail:     res.UserEmail,
	}
}

// NewReservationList maps a slice of reservations, never returning nil.
func NewReservationList(list []domain.Reservation) []ReservationResponse {
	items := make([]ReservationResponse, 0, len(list))
	for i := range list {
		items = append(items, NewReservationResponse(&list[i]))
	}
	return items
}
