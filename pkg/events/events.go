// Package events fans setup lifecycle events out to live subscribers and an
// optional MQTT broker.
package events

import (
	"sync"
	"time"
)

// Kind names an event. The value doubles as the SSE event name.
type Kind string

const (
	SetupCreated Kind = "setup-created"
	SetupDeleted Kind = "setup-deleted"
)

type Event struct {
	Kind      Kind      `json:"kind"`
	SetupID   string    `json:"setup_id"`
	Name      string    `json:"name,omitempty"`
	IsCurrent bool      `json:"is_current"`
	At        time.Time `json:"at"`
}

// Publisher receives every event. Publish must not block the caller for long.
type Publisher interface {
	Publish(e Event)
}

// Multi publishes to every non-nil publisher in order.
type Multi []Publisher

func (m Multi) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}

// subscriberBuffer is how many events a slow subscriber may fall behind
// before further events are dropped for it.
const subscriberBuffer = 16

// Notifier provides a way to notify SSE subscribers about setup changes
type Notifier struct {
	subscribers map[chan Event]struct{}
	mu          sync.RWMutex
}

// NewNotifier creates a new Notifier
func NewNotifier() *Notifier {
	return &Notifier{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe adds a new subscriber that will receive every published event
func (n *Notifier) Subscribe() chan Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	n.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.subscribers[ch]; !ok {
		return
	}
	delete(n.subscribers, ch)
	close(ch)
}

func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// Publish sends e to all subscribers
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subscribers {
		select {
		case ch <- e:
		default:
			// Subscriber is full, drop the event for it
		}
	}
}
