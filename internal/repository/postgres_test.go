package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/persistence"
	"github.com/spec-kit/event-reservation/internal/repository"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(pool, zap.NewNop()))
	return pool
}

func createUser(t *testing.T, users repository.UserRepository, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	require.NoError(t, users.Create(context.Background(), user))
	t.Cleanup(func() { _ = users.Delete(context.Background(), user.ID) })
	return user
}

func createEvent(t *testing.T, events repository.EventRepository, hostID string, capacity int) *domain.Event {
	t.Helper()
	event := &domain.Event{
		Title:     "Conference",
		Date:      time.Now().Add(48 * time.Hour).UTC(),
		Location:  "Hall A",
		Capacity:  capacity,
		CreatedBy: hostID,
	}
	require.NoError(t, events.Create(context.Background(), event))
	return event
}

func TestPostgresEmailTaken(t *testing.T) {
	pool := openTestPool(t)
	users := repository.NewUserRepository(pool)

	existing := createUser(t, users, domain.RoleUser)
	err := users.Create(context.Background(), &domain.User{
		Email:        existing.Email,
		PasswordHash: "hash",
		FirstName:    "Dup",
		LastName:     "User",
		Role:         domain.RoleUser,
	})
	require.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestPostgresGetByMalformedID(t *testing.T) {
	pool := openTestPool(t)

	_, err := repository.NewEventRepository(pool).GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgresBookCancelAndCascade(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	users := repository.NewUserRepository(pool)
	events := repository.NewEventRepository(pool)
	reservations := repository.NewReservationRepository(pool)

	host := createUser(t, users, domain.RoleHost)
	guest := createUser(t, users, domain.RoleUser)
	event := createEvent(t, events, host.ID, 2)

	booked, err := reservations.Book(ctx, guest.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, booked.SeatsRemaining)

	_, err = reservations.Book(ctx, guest.ID, event.ID)
	require.ErrorIs(t, err, repository.ErrAlreadyReserved)

	listed, err := reservations.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].UserEmail)
	assert.Equal(t, guest.Email, *listed[0].UserEmail)

	mine, err := events.List(ctx, repository.EventFilter{ReservedBy: &guest.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].ReservedCount)

	_, err = reservations.Cancel(ctx, guest.ID, event.ID)
	require.NoError(t, err)
	_, err = reservations.Cancel(ctx, guest.ID, event.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	booked, err = reservations.Book(ctx, guest.ID, event.ID)
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, event.ID))
	_, err = reservations.GetByID(ctx, booked.Reservation.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgresCapacityBelowReserved(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	users := repository.NewUserRepository(pool)
	events := repository.NewEventRepository(pool)
	reservations := repository.NewReservationRepository(pool)

	host := createUser(t, users, domain.RoleHost)
	event := createEvent(t, events, host.ID, 2)
	for i := 0; i < 2; i++ {
		guest := createUser(t, users, domain.RoleUser)
		_, err := reservations.Book(ctx, guest.ID, event.ID)
		require.NoError(t, err)
	}

	event.Capacity = 1
	require.ErrorIs(t, events.Update(ctx, event), repository.ErrCapacityBelowReserved)
}

func TestPostgresConcurrentLastSeat(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	users := repository.NewUserRepository(pool)
	events := repository.NewEventRepository(pool)
	reservations := repository.NewReservationRepository(pool)

	host := createUser(t, users, domain.RoleHost)
	event := createEvent(t, events, host.ID, 1)
	first := createUser(t, users, domain.RoleUser)
	second := createUser(t, users, domain.RoleUser)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, userID := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = reservations.Book(ctx, userID, event.ID)
		}(i, userID)
	}
	wg.Wait()

	succeeded, full := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrEventFull):
			full++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, full)

	got, err := events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SeatsRemaining())
}
