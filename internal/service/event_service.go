package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/events"
	"github.com/spec-kit/event-reservation/internal/repository"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// EventService coordinates event CRUD with ownership rules.
type EventService struct {
	events       repository.EventRepository
	reservations repository.ReservationRepository
	publisher    publisher
}

// EventDependencies bundles repositories for the event service.
type EventDependencies struct {
	EventRepo       repository.EventRepository
	ReservationRepo repository.ReservationRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{
		events:       deps.EventRepo,
		reservations: deps.ReservationRepo,
		publisher:    publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
	}
}

// EventInput describes a new event.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
}

// EventPatch describes a partial event update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Capacity    *int
}

// EventDetail is an event together with the reservations visible to the caller.
type EventDetail struct {
	Event        *domain.Event
	Reservations []domain.Reservation
}

// Create stores a new event hosted by the caller.
func (s *EventService) Create(ctx context.Context, principal auth.Principal, in EventInput) (*domain.Event, error) {
	event := &domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		Location:    strings.TrimSpace(in.Location),
		Capacity:    in.Capacity,
		CreatedBy:   principal.UserID,
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, translate(err, "host")
	}
	s.publisher.publish(ctx, events.New(events.EventEventCreated, event.ID, actorOf(principal), eventPayload(event)))
	return event, nil
}

// ListAll returns every event, soonest first.
func (s *EventService) ListAll(ctx context.Context) ([]domain.Event, error) {
	list, err := s.events.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, translate(err, "event")
	}
	return list, nil
}

// ListManaged returns the events the caller may manage: its own for hosts and
// all of them for administrators.
func (s *EventService) ListManaged(ctx context.Context, principal auth.Principal) ([]domain.Event, error) {
	filter := repository.EventFilter{}
	if !principal.IsAdmin() {
		filter.CreatedBy = &principal.UserID
	}
	list, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, translate(err, "event")
	}
	return list, nil
}

// Get returns the event with reservations. The owning host and administrators
// see every reservation; anyone else sees only their own.
func (s *EventService) Get(ctx context.Context, principal auth.Principal, id string) (*EventDetail, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "event")
	}
	reservations, err := s.reservations.ListByEvent(ctx, id)
	if err != nil {
		return nil, translate(err, "event")
	}

	if !principal.IsAdmin() && !event.OwnedBy(principal.UserID) {
		own := make([]domain.Reservation, 0, 1)
		for _, res := range reservations {
			if res.UserID == principal.UserID {
				own = append(own, res)
			}
		}
		reservations = own
	}
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	return &EventDetail{Event: event, Reservations: reservations}, nil
}

// Update applies patch to an event owned by the caller, or any event for administrators.
func (s *EventService) Update(ctx context.Context, principal auth.Principal, id string, patch EventPatch) (*domain.Event, error) {
	event, err := s.authorize(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		event.Date = patch.Date.UTC()
	}
	if patch.Location != nil {
		event.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, translate(err, "event")
	}
	s.publisher.publish(ctx, events.New(events.EventEventUpdated, event.ID, actorOf(principal), eventPayload(event)))
	return event, nil
}

// Delete removes an event and, by cascade, its reservations.
func (s *EventService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	event, err := s.authorize(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return translate(err, "event")
	}
	s.publisher.publish(ctx, events.New(events.EventEventDeleted, id, actorOf(principal), eventPayload(event)))
	return nil
}

func (s *EventService) authorize(ctx context.Context, principal auth.Principal, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "event")
	}
	if !principal.IsAdmin() && !event.OwnedBy(principal.UserID) {
		return nil, apperrors.NewForbidden(apperrors.ReasonNotOwner, "only the event host may modify this event")
	}
	return event, nil
}

func validateEvent(event *domain.Event) error {
	switch {
	case event.Title == "":
		return apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	case event.Date.IsZero():
		return apperrors.NewValidationError("date is required", map[string]any{"field": "date"})
	case event.Capacity <= 0:
		return apperrors.NewValidationError("maxParticipants must be positive", map[string]any{"field": "maxParticipants"})
	}
	return nil
}

func actorOf(principal auth.Principal) events.Actor {
	return events.Actor{UserID: principal.UserID, Role: principal.Role}
}

func eventPayload(event *domain.Event) events.EventPayload {
	return events.EventPayload{
		Title:    event.Title,
		Date:     event.Date,
		Capacity: event.Capacity,
		HostID:   event.CreatedBy,
	}
}
