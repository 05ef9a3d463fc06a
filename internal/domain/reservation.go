package domain

import "time"

// ReservationStatus enumerates lifecycle states for a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	}
	return false
}

// Active reports whether the reservation holds a seat.
func (s ReservationStatus) Active() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// Reservation is a user's claim on one seat of an event.
type Reservation struct {
	ID        string
	UserID    string
	EventID   string
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated by host/admin listings.
	UserFirstName *string
	UserLastName  *string
	UserEmail     *string
}
