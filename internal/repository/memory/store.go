// Package memory provides in-process implementations of the repository
// interfaces with the same semantics as the Postgres ones. A single mutex
// serializes every operation, which stands in for the event row lock.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/repository"
)

// Store holds all tables.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	events       map[string]domain.Event
	reservations map[string]domain.Reservation
	revoked      map[string]time.Time
	now          func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		events:       make(map[string]domain.Event),
		reservations: make(map[string]domain.Reservation),
		revoked:      make(map[string]time.Time),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Events returns the event repository view of the store.
func (s *Store) Events() repository.EventRepository { return eventRepo{s} }

// Reservations returns the reservation repository view of the store.
func (s *Store) Reservations() repository.ReservationRepository { return reservationRepo{s} }

// Tokens returns the token denylist view of the store.
func (s *Store) Tokens() repository.TokenRepository { return tokenRepo{s} }

// reservedCount must be called with s.mu held.
func (s *Store) reservedCount(eventID string) int {
	count := 0
	for _, res := range s.reservations {
		if res.EventID == eventID && res.Status.Active() {
			count++
		}
	}
	return count
}

// hydrate must be called with s.mu held.
func (s *Store) hydrate(event domain.Event) domain.Event {
	event.ReservedCount = s.reservedCount(event.ID)
	event.HostFirstName, event.HostLastName = nil, nil
	if host, ok := s.users[event.CreatedBy]; ok {
		first, last := host.FirstName, host.LastName
		event.HostFirstName, event.HostLastName = &first, &last
	}
	return event
}

// deleteEvent must be called with s.mu held.
func (s *Store) deleteEvent(id string) {
	delete(s.events, id)
	for resID, res := range s.reservations {
		if res.EventID == id {
			delete(s.reservations, resID)
		}
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	for eventID, event := range r.s.events {
		if event.CreatedBy == id {
			r.s.deleteEvent(eventID)
		}
	}
	for resID, res := range r.s.reservations {
		if res.UserID == id {
			delete(r.s.reservations, resID)
		}
	}
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[event.CreatedBy]; !ok {
		return repository.ErrNotFound
	}
	now := r.s.now()
	event.ID = uuid.NewString()
	event.CreatedAt, event.UpdatedAt = now, now
	event.ReservedCount = 0
	r.s.events[event.ID] = *event
	return nil
}

func (r eventRepo) Update(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.events[event.ID]
	if !ok {
		return repository.ErrNotFound
	}
	reserved := r.s.reservedCount(event.ID)
	if event.Capacity < reserved {
		return repository.ErrCapacityBelowReserved
	}
	current.Title = event.Title
	current.Description = event.Description
	current.Date = event.Date
	current.Location = event.Location
	current.Capacity = event.Capacity
	current.UpdatedAt = r.s.now()
	r.s.events[event.ID] = current

	event.CreatedBy = current.CreatedBy
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = current.UpdatedAt
	event.ReservedCount = reserved
	return nil
}

func (r eventRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteEvent(id)
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	event, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	hydrated := r.s.hydrate(event)
	return &hydrated, nil
}

func (r eventRepo) List(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var events []domain.Event
	for _, event := range r.s.events {
		if filter.CreatedBy != nil && event.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.ReservedBy != nil && !r.hasActiveReservation(*filter.ReservedBy, event.ID) {
			continue
		}
		events = append(events, r.s.hydrate(event))
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r eventRepo) hasActiveReservation(userID, eventID string) bool {
	for _, res := range r.s.reservations {
		if res.UserID == userID && res.EventID == eventID && res.Status.Active() {
			return true
		}
	}
	return false
}

type reservationRepo struct{ s *Store }

func (r reservationRepo) Book(_ context.Context, userID, eventID string) (*repository.BookingResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[eventID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}

	existing, found := r.find(userID, eventID)
	if found && existing.Status.Active() {
		return nil, repository.ErrAlreadyReserved
	}
	reserved := r.s.reservedCount(eventID)
	if reserved >= event.Capacity {
		return nil, repository.ErrEventFull
	}

	now := r.s.now()
	res := existing
	if !found {
		res = domain.Reservation{
			ID:        uuid.NewString(),
			UserID:    userID,
			EventID:   eventID,
			CreatedAt: now,
		}
	}
	res.Status = domain.ReservationStatusConfirmed
	res.UpdatedAt = now
	r.s.reservations[res.ID] = res

	return &repository.BookingResult{Reservation: res, SeatsRemaining: event.Capacity - reserved - 1}, nil
}

func (r reservationRepo) Cancel(_ context.Context, userID, eventID string) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, found := r.find(userID, eventID)
	if !found {
		return nil, repository.ErrNotFound
	}
	delete(r.s.reservations, res.ID)
	return &res, nil
}

func (r reservationRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (r reservationRepo) ListByEvent(_ context.Context, eventID string) ([]domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []domain.Reservation
	for _, res := range r.s.reservations {
		if res.EventID != eventID {
			continue
		}
		user, ok := r.s.users[res.UserID]
		if !ok {
			continue
		}
		first, last, email := user.FirstName, user.LastName, user.Email
		res.UserFirstName, res.UserLastName, res.UserEmail = &first, &last, &email
		list = append(list, res)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r reservationRepo) UpdateStatus(_ context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	event, ok := r.s.events[res.EventID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !res.Status.Active() && status.Active() && r.s.reservedCount(event.ID) >= event.Capacity {
		return nil, repository.ErrEventFull
	}
	res.Status = status
	res.UpdatedAt = r.s.now()
	r.s.reservations[id] = res
	return &res, nil
}

func (r reservationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

// find must be called with s.mu held.
func (r reservationRepo) find(userID, eventID string) (domain.Reservation, bool) {
	for _, res := range r.s.reservations {
		if res.UserID == userID && res.EventID == eventID {
			return res, true
		}
	}
	return domain.Reservation{}, false
}

type tokenRepo struct{ s *Store }

func (r tokenRepo) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, exp := range r.s.revoked {
		if !exp.After(now) {
			delete(r.s.revoked, id)
		}
	}
	if expiresAt.After(now) {
		r.s.revoked[tokenID] = expiresAt
	}
	return nil
}

func (r tokenRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	exp, ok := r.s.revoked[tokenID]
	return ok && exp.After(r.s.now()), nil
}

var (
	_ repository.UserRepository        = userRepo{}
	_ repository.EventRepository       = eventRepo{}
	_ repository.ReservationRepository = reservationRepo{}
	_ repository.TokenRepository       = tokenRepo{}
)
