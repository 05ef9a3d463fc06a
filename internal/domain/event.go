package domain

import "time"

// Event is a reservable happening owned by a host.
type Event struct {
	ID            string
	Title         string
	Description   string
	Date          time.Time
	Location      string
	Capacity      int
	ReservedCount int
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined from the host account.
	HostFirstName *string
	HostLastName  *string
}

// SeatsRemaining derives the free seats from capacity and active reservations.
func (e *Event) SeatsRemaining() int {
	remaining := e.Capacity - e.ReservedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.ReservedCount >= e.Capacity
}

// OwnedBy reports whether userID hosts the event.
func (e *Event) OwnedBy(userID string) bool {
	return e.CreatedBy == userID
}
