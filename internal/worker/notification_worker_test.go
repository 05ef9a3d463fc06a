package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/event-reservation/internal/config"
	"github.com/spec-kit/event-reservation/internal/events"
	"github.com/spec-kit/event-reservation/internal/service"
)

func TestStartNotificationWorkerSubscribes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/reservations",
	})

	StartNotificationWorker(notifications, logger)
	require.Equal(t, 1, logs.FilterMessage("notification worker started").Len())

	err := dispatcher.Publish(context.Background(),
		events.New(events.EventReservationCreated, "evt-1", events.Actor{UserID: "u1"}, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage(string(events.EventReservationCreated)).Len())
	assert.Equal(t, 1, logs.FilterMessage("email notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("webhook notification").Len())
}

func TestStartNotificationWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil, zap.NewNop()) })
}
