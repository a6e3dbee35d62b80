package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/src/events"
)

type mockObserver struct {
	received []events.Event
}

func (m *mockObserver) Handle(e events.Event) {
	m.received = append(m.received, e)
}

func TestBusSubscribePublish(t *testing.T) {
	bus := events.NewBus()
	obs := &mockObserver{}
	bus.Subscribe(obs)

	bus.Publish(events.Event{
		Type:    events.EventCommandExecuted,
		Command: "test",
		Raw:     "test command",
	})

	require.Len(t, obs.received, 1)
	assert.Equal(t, "test", obs.received[0].Command)
	assert.False(t, obs.received[0].Timestamp.IsZero())
}

func TestBusMultipleObservers(t *testing.T) {
	bus := events.NewBus()
	obs1 := &mockObserver{}
	var seen []events.EventType
	bus.Subscribe(obs1)
	bus.Subscribe(events.ListenerFunc(func(e events.Event) { seen = append(seen, e.Type) }))

	bus.Publish(events.Event{Type: events.EventWorkspaceSaved})

	assert.Len(t, obs1.received, 1)
	assert.Equal(t, []events.EventType{events.EventWorkspaceSaved}, seen)
}

func TestBusKeepsExplicitTimestamp(t *testing.T) {
	bus := events.NewBus()
	obs := &mockObserver{}
	bus.Subscribe(obs)
	at := time.Unix(42, 0)

	bus.Publish(events.Event{Type: events.EventDocumentOpened, Timestamp: at, DocID: "d"})

	require.Len(t, obs.received, 1)
	assert.Equal(t, at, obs.received[0].Timestamp)
	assert.Equal(t, "d", obs.received[0].DocID)
}

func TestBusFiltersByType(t *testing.T) {
	bus := events.NewBus()
	obs := &mockObserver{}
	bus.Subscribe(obs, events.EventWorkspaceSaved, events.EventDocumentClosed)

	bus.Publish(events.Event{Type: events.EventCommandExecuted})
	bus.Publish(events.Event{Type: events.EventWorkspaceSaved})
	bus.Publish(events.Event{Type: events.EventDocumentClosed})

	require.Len(t, obs.received, 2)
	assert.Equal(t, events.EventWorkspaceSaved, obs.received[0].Type)
	assert.Equal(t, events.EventDocumentClosed, obs.received[1].Type)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	first := &mockObserver{}
	second := &mockObserver{}
	unsubscribe := bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(events.Event{Type: events.EventWorkspaceSaved})
	unsubscribe()
	unsubscribe()
	bus.Publish(events.Event{Type: events.EventWorkspaceSaved})

	assert.Len(t, first.received, 1)
	assert.Len(t, second.received, 2)
}

func TestBusListenerMayPublish(t *testing.T) {
	bus := events.NewBus()
	obs := &mockObserver{}
	bus.Subscribe(events.ListenerFunc(func(e events.Event) {
		bus.Publish(events.Event{Type: events.EventWorkspaceSaved, Command: "nested"})
	}), events.EventCommandExecuted)
	bus.Subscribe(obs, events.EventWorkspaceSaved)

	done := make(chan struct{})
	go func() {
		bus.Publish(events.Event{Type: events.EventCommandExecuted})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish from a listener blocked")
	}
	require.Len(t, obs.received, 1)
	assert.Equal(t, "nested", obs.received[0].Command)
}
