package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-reservation/internal/domain"
)

func TestParseEventDate(t *testing.T) {
	want := time.Date(2030, 5, 17, 19, 30, 0, 0, time.UTC)

	got, err := ParseEventDate("2030-05-17T21:30:00+02:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = ParseEventDate(" 2030-05-17 19:30:00 ")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseEventDate("17/05/2030")
	require.Error(t, err)
}

func TestNewEventResponseDerivesSeats(t *testing.T) {
	event := &domain.Event{ID: "e1", Capacity: 10, ReservedCount: 3}

	resp := NewEventResponse(event)
	assert.Equal(t, 10, resp.MaxParticipants)
	assert.Equal(t, 7, resp.SeatsRemaining)
}

func TestListsNeverNil(t *testing.T) {
	assert.NotNil(t, NewEventList(nil))
	assert.NotNil(t, NewReservationList(nil))
}
