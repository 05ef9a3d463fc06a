package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventReservationCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventEventDeleted, func(_ context.Context, e Event) error {
		t.Fatalf("unexpected delivery of %s", e.Type)
		return nil
	})

	err := d.Publish(context.Background(), New(EventReservationCreated, "evt-1", Actor{UserID: "u1"}, nil))
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventReservationCreated}, got)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventEventCreated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventEventCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), New(EventEventCreated, "evt-1", Actor{}, nil))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewStampsEnvelope(t *testing.T) {
	e := New(EventReservationCancelled, "evt-9", Actor{UserID: "u2"}, ReservationPayload{ReservationID: "r1"})

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "evt-9", e.EventID)
	assert.Equal(t, "r1", e.Payload.(ReservationPayload).ReservationID)
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := false
	d.Subscribe(EventEventUpdated, func(context.Context, Event) error {
		panic("template missing")
	})
	d.Subscribe(EventEventUpdated, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventEventUpdated, "evt-1", Actor{}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic: template missing")
	assert.Contains(t, err.Error(), string(EventEventUpdated))
	assert.True(t, delivered)
}
