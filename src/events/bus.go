package events

import (
	"sync"
	"time"
)

// EventType identifies published event categories.
type EventType string

const (
	// EventCommandExecuted is emitted after a REPL command completes.
	EventCommandExecuted EventType = "command_executed"
	// EventWorkspaceLoaded is emitted once the session has hydrated.
	EventWorkspaceLoaded EventType = "workspace_loaded"
	// EventWorkspaceSaved is emitted after a successful save.
	EventWorkspaceSaved EventType = "workspace_saved"
	// EventWorkspaceQuarantined is emitted when a corrupt file was moved aside.
	EventWorkspaceQuarantined EventType = "workspace_quarantined"
	// EventDocumentOpened is emitted when a document gets a tab.
	EventDocumentOpened EventType = "document_opened"
	// EventDocumentClosed is emitted when a tab is closed.
	EventDocumentClosed EventType = "document_closed"
)

// Event describes something that happened to the workspace or one of its
// documents. DocID is empty for workspace wide events.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Command   string
	Raw       string
	DocID     string
	Metadata  map[string]string
}

// Listener consumes published events.
type Listener interface {
	Handle(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Handle implements Listener.
func (f ListenerFunc) Handle(e Event) { f(e) }

type subscription struct {
	id       uint64
	listener Listener
	types    map[EventType]bool
}

func (s subscription) wants(t EventType) bool {
	return len(s.types) == 0 || s.types[t]
}

// Bus fans events out to listeners in subscription order. Listeners run on
// the publishing goroutine and may themselves publish or subscribe.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers listener for the given types, or for every type when
// none are given. The returned function removes the subscription.
func (b *Bus) Subscribe(listener Listener, types ...EventType) (unsubscribe func()) {
	sub := subscription{listener: listener}
	if len(types) > 0 {
		sub.types = make(map[EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	b.mu.Lock()
	b.nextID++
	sub.id = b.nextID
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub.id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to the interested listeners. A zero timestamp is
// set to now.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()
	for _, sub := range subs {
		if sub.wants(event.Type) {
			sub.listener.Handle(event)
		}
	}
}
