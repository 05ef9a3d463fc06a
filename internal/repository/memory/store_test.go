package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/repository"
)

func seedUser(t *testing.T, s *Store, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, PasswordHash: "x", FirstName: "F", LastName: "L", Role: role}
	require.NoError(t, s.Users().Create(context.Background(), user))
	return user
}

func seedEvent(t *testing.T, s *Store, host *domain.User, capacity int) *domain.Event {
	t.Helper()
	event := &domain.Event{
		Title:     "Gala",
		Date:      time.Now().Add(24 * time.Hour),
		Capacity:  capacity,
		CreatedBy: host.ID,
	}
	require.NoError(t, s.Events().Create(context.Background(), event))
	return event
}

func TestUserEmailUnique(t *testing.T) {
	s := New()
	seedUser(t, s, "a@example.com", domain.RoleUser)

	err := s.Users().Create(context.Background(), &domain.User{Email: "a@example.com", Role: domain.RoleUser})
	require.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestBookAndCancel(t *testing.T) {
	ctx := context.Background()
	s := New()
	host := seedUser(t, s, "host@example.com", domain.RoleHost)
	user := seedUser(t, s, "user@example.com", domain.RoleUser)
	event := seedEvent(t, s, host, 2)

	result, err := s.Reservations().Book(ctx, user.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SeatsRemaining)
	assert.Equal(t, domain.ReservationStatusConfirmed, result.Reservation.Status)

	_, err = s.Reservations().Book(ctx, user.ID, event.ID)
	require.ErrorIs(t, err, repository.ErrAlreadyReserved)

	got, err := s.Events().GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SeatsRemaining())

	_, err = s.Reservations().Cancel(ctx, user.ID, event.ID)
	require.NoError(t, err)
	_, err = s.Reservations().Cancel(ctx, user.ID, event.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err = s.Events().GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SeatsRemaining())
}

func TestBookUnknownEvent(t *testing.T) {
	s := New()
	user := seedUser(t, s, "user@example.com", domain.RoleUser)

	_, err := s.Reservations().Book(context.Background(), user.ID, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentBookingNeverOverbooks(t *testing.T) {
	ctx := context.Background()
	s := New()
	host := seedUser(t, s, "host@example.com", domain.RoleHost)
	event := seedEvent(t, s, host, 5)

	const attempts = 25
	users := make([]*domain.User, attempts)
	for i := range users {
		users[i] = seedUser(t, s, fmt.Sprintf("u%d@example.com", i), domain.RoleUser)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, full := 0, 0
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := s.Reservations().Book(ctx, userID, event.ID)
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				succeeded++
			case repository.ErrEventFull:
				full++
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, full)

	got, err := s.Events().GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SeatsRemaining())
}

func TestUpdateCapacityBelowReserved(t *testing.T) {
	ctx := context.Background()
	s := New()
	host := seedUser(t, s, "host@example.com", domain.RoleHost)
	event := seedEvent(t, s, host, 3)
	for i := 0; i < 2; i++ {
		u := seedUser(t, s, fmt.Sprintf("u%d@example.com", i), domain.RoleUser)
		_, err := s.Reservations().Book(ctx, u.ID, event.ID)
		require.NoError(t, err)
	}

	event.Capacity = 1
	require.ErrorIs(t, s.Events().Update(ctx, event), repository.ErrCapacityBelowReserved)

	event.Capacity = 2
	require.NoError(t, s.Events().Update(ctx, event))
	assert.Equal(t, 2, event.ReservedCount)
}

func TestCascadeDeletes(t *testing.T) {
	ctx := context.Background()
	s := New()
	host := seedUser(t, s, "host@example.com", domain.RoleHost)
	user := seedUser(t, s, "user@example.com", domain.RoleUser)
	first := seedEvent(t, s, host, 3)
	second := seedEvent(t, s, host, 3)

	booked, err := s.Reservations().Book(ctx, user.ID, first.ID)
	require.NoError(t, err)
	_, err = s.Reservations().Book(ctx, user.ID, second.ID)
	require.NoError(t, err)

	require.NoError(t, s.Events().Delete(ctx, first.ID))
	_, err = s.Reservations().GetByID(ctx, booked.Reservation.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Users().Delete(ctx, host.ID))
	_, err = s.Events().GetByID(ctx, second.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := s.Events().List(ctx, repository.EventFilter{ReservedBy: &user.ID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateStatusRechecksCapacity(t *testing.T) {
	ctx := context.Background()
	s := New()
	host := seedUser(t, s, "host@example.com", domain.RoleHost)
	a := seedUser(t, s, "a@example.com", domain.RoleUser)
	b := seedUser(t, s, "b@example.com", domain.RoleUser)
	event := seedEvent(t, s, host, 1)

	first, err := s.Reservations().Book(ctx, a.ID, event.ID)
	require.NoError(t, err)

	_, err = s.Reservations().UpdateStatus(ctx, first.Reservation.ID, domain.ReservationStatusCancelled)
	require.NoError(t, err)

	_, err = s.Reservations().Book(ctx, b.ID, event.ID)
	require.NoError(t, err)

	_, err = s.Reservations().UpdateStatus(ctx, first.Reservation.ID, domain.ReservationStatusConfirmed)
	require.ErrorIs(t, err, repository.ErrEventFull)
}

func TestTokenRevocation(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Tokens().Revoke(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, s.Tokens().Revoke(ctx, "stale", time.Now().Add(-time.Minute)))

	revoked, err := s.Tokens().IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.Tokens().IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}
