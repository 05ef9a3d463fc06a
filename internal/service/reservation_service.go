package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/events"
	"github.com/spec-kit/event-reservation/internal/repository"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// ReservationService books and releases seats.
type ReservationService struct {
	reservations repository.ReservationRepository
	events       repository.EventRepository
	publisher    publisher
}

// ReservationDependencies bundles repositories for the reservation service.
type ReservationDependencies struct {
	ReservationRepo repository.ReservationRepository
	EventRepo       repository.EventRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewReservationService constructs the service.
func NewReservationService(deps ReservationDependencies) *ReservationService {
	return &ReservationService{
		reservations: deps.ReservationRepo,
		events:       deps.EventRepo,
		publisher:    publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
	}
}

// Reserve claims one seat of eventID for the caller.
func (s *ReservationService) Reserve(ctx context.Context, principal auth.Principal, eventID string) (*repository.BookingResult, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, apperrors.NewValidationError("eventId is required", map[string]any{"field": "eventId"})
	}

	result, err := s.reservations.Book(ctx, principal.UserID, eventID)
	if err != nil {
		return nil, translate(err, "event")
	}

	remaining := result.SeatsRemaining
	s.publisher.publish(ctx, events.New(events.EventReservationCreated, eventID, actorOf(principal), events.ReservationPayload{
		ReservationID:  result.Reservation.ID,
		UserID:         principal.UserID,
		Status:         result.Reservation.Status,
		SeatsRemaining: &remaining,
	}))
	return result, nil
}

// Cancel releases the caller's seat on eventID.
func (s *ReservationService) Cancel(ctx context.Context, principal auth.Principal, eventID string) error {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return apperrors.NewValidationError("eventId is required", map[string]any{"field": "eventId"})
	}

	res, err := s.reservations.Cancel(ctx, principal.UserID, eventID)
	if err != nil {
		return translate(err, "reservation")
	}
	s.publisher.publish(ctx, events.New(events.EventReservationCancelled, eventID, actorOf(principal), events.ReservationPayload{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Status:        domain.ReservationStatusCancelled,
	}))
	return nil
}

// ListReservedEvents returns the events the caller holds an active reservation for.
func (s *ReservationService) ListReservedEvents(ctx context.Context, principal auth.Principal) ([]domain.Event, error) {
	list, err := s.events.List(ctx, repository.EventFilter{ReservedBy: &principal.UserID})
	if err != nil {
		return nil, translate(err, "event")
	}
	return list, nil
}

// ListForEvent returns every reservation of eventID with user display fields.
func (s *ReservationService) ListForEvent(ctx context.Context, eventID string) ([]domain.Reservation, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, translate(err, "event")
	}
	list, err := s.reservations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, translate(err, "event")
	}
	if list == nil {
		list = []domain.Reservation{}
	}
	return list, nil
}

// UpdateStatus moves a reservation of eventID to status.
func (s *ReservationService) UpdateStatus(ctx context.Context, principal auth.Principal, eventID, reservationID string, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be PENDING, CONFIRMED or CANCELLED", map[string]any{"field": "status"})
	}
	if _, err := s.lookup(ctx, eventID, reservationID); err != nil {
		return nil, err
	}

	updated, err := s.reservations.UpdateStatus(ctx, reservationID, status)
	if err != nil {
		return nil, translate(err, "reservation")
	}
	s.publisher.publish(ctx, events.New(events.EventReservationUpdated, eventID, actorOf(principal), events.ReservationPayload{
		ReservationID: updated.ID,
		UserID:        updated.UserID,
		Status:        updated.Status,
	}))
	return updated, nil
}

// Delete removes a reservation of eventID.
func (s *ReservationService) Delete(ctx context.Context, principal auth.Principal, eventID, reservationID string) error {
	res, err := s.lookup(ctx, eventID, reservationID)
	if err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, reservationID); err != nil {
		return translate(err, "reservation")
	}
	s.publisher.publish(ctx, events.New(events.EventReservationCancelled, eventID, actorOf(principal), events.ReservationPayload{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Status:        domain.ReservationStatusCancelled,
	}))
	return nil
}

// lookup loads a reservation and checks it belongs to eventID.
func (s *ReservationService) lookup(ctx context.Context, eventID, reservationID string) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, translate(err, "reservation")
	}
	if res.EventID != eventID {
		return nil, apperrors.NewNotFound("reservation", nil)
	}
	return res, nil
}
