package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccountEventBusPublishesToSubscribers(t *testing.T) {
	bus := NewAccountEventBus(zap.NewNop())

	var received []Event
	bus.Subscribe(EventManagerCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})
	bus.Subscribe(EventUserInvited, func(_ context.Context, event Event) error {
		t.Fatal("handler for another event type must not fire")
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: EventManagerCreated, UserID: "u-1"})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "u-1", received[0].UserID)
}

func TestAccountEventBusContinuesPastHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	bus := NewAccountEventBus(zap.New(core))

	var secondRan bool
	bus.Subscribe(EventProfileSyncFailed, func(context.Context, Event) error {
		return errors.New("smtp unreachable")
	})
	bus.Subscribe(EventProfileSyncFailed, func(context.Context, Event) error {
		secondRan = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: EventProfileSyncFailed, UserID: "u-9"})
	require.NoError(t, err)
	assert.True(t, secondRan)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "account event handler failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, string(EventProfileSyncFailed), fields["event_type"])
	assert.Equal(t, "u-9", fields["user_id"])
}
