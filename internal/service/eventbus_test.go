package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	ch := bus.Subscribe("abc12345")
	bus.Publish("abc12345", Event{Type: "status", Status: "done"})

	select {
	case evt := <-ch:
		assert.Equal(t, "done", evt.Status)
	default:
		t.Fatal("expected a buffered event")
	}

	// Other media IDs do not receive the event.
	other := bus.Subscribe("other123")
	bus.Publish("abc12345", Event{Type: "status", Status: "failed"})
	select {
	case <-other:
		t.Fatal("unexpected event for other media")
	default:
	}
}

func TestEventBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()

	ch := bus.Subscribe("abc12345")
	bus.Unsubscribe("abc12345", ch)

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe is a no-op.
	bus.Publish("abc12345", Event{Type: "status", Status: "done"})
}

func TestEventBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewEventBus()

	ch := bus.Subscribe("abc12345")
	for range 32 {
		bus.Publish("abc12345", Event{Type: "status", Status: "converting"})
	}

	// Channel buffer is 16; the rest were dropped, not blocked on.
	assert.Len(t, ch, 16)
}
