package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/config"
	"github.com/spec-kit/event-reservation/internal/events"
)

// NotificationService turns domain events into outbound notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// Subscriptions lists the event types the service listens to.
func (n *NotificationService) Subscriptions() []events.EventType {
	return []events.EventType{
		events.EventReservationCreated,
		events.EventReservationCancelled,
		events.EventReservationUpdated,
		events.EventEventUpdated,
		events.EventEventDeleted,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventReservationCreated, n.handleReservationChanged)
	n.dispatcher.Subscribe(events.EventReservationCancelled, n.handleReservationChanged)
	n.dispatcher.Subscribe(events.EventReservationUpdated, n.handleReservationChanged)
	n.dispatcher.Subscribe(events.EventEventUpdated, n.handleEventChanged)
	n.dispatcher.Subscribe(events.EventEventDeleted, n.handleEventChanged)
}

// handleReservationChanged confirms the change to the guest.
func (n *NotificationService) handleReservationChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("event_id", event.EventID), zap.Any("payload", event.Payload))
	n.sendEmail(ctx, event)
	n.sendWebhook(ctx, event)
	return nil
}

// handleEventChanged informs guests that the event they booked changed or was removed.
func (n *NotificationService) handleEventChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("event_id", event.EventID), zap.String("actor", event.Actor.UserID))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) sendEmail(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhook(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.Type)))
}
