package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/service"
)

// StartNotificationWorker attaches the notification handlers to the dispatcher.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()

	types := make([]string, 0, len(notifications.Subscriptions()))
	for _, t := range notifications.Subscriptions() {
		types = append(types, string(t))
	}
	logger.Info("notification worker started", zap.Strings("events", types))
}
