package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/events"
	"github.com/spec-kit/event-reservation/internal/repository"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// translate maps repository sentinels onto the API error taxonomy. resource
// names the entity used in NotFound messages.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrAlreadyReserved):
		return apperrors.NewConflict(apperrors.ReasonAlreadyReserved, "event already reserved")
	case errors.Is(err, repository.ErrEventFull):
		return apperrors.NewConflict(apperrors.ReasonEventFull, "event is fully booked")
	case errors.Is(err, repository.ErrEmailTaken):
		return apperrors.NewConflict(apperrors.ReasonEmailTaken, "email already registered")
	case errors.Is(err, repository.ErrCapacityBelowReserved):
		return apperrors.NewConflict(apperrors.ReasonCapacityBelowReserved, "capacity is below the number of reserved seats")
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.NewInternalError(err)
}

// publisher delivers domain events without failing the originating request.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed",
			zap.String("type", string(event.Type)),
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}
