package events

import "sync"

// Topics published by the core. The rendering layer subscribes to these to
// know when to re-read state.
const (
	TopicCatalog     = "catalog.updated"
	TopicSuggestions = "suggestions.updated"
	TopicCategories  = "categories.updated"
	TopicProduct     = "product.updated"
	TopicCart        = "cart.updated"
)

// Event represents a message passed through the broker.
type Event struct {
	Topic string `json:"topic"`
	Data  any    `json:"data,omitempty"`
}

// Broker implements a simple in-memory pub/sub system.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for all topics. The returned channel
// receives events until Unsubscribe is called with it.
func (b *Broker) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 8) // buffered so publishers never block
	b.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		if (<-chan Event)(ch) == sub {
			delete(b.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Publish sends an event to all subscribers.
func (b *Broker) Publish(topic string, data any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{Topic: topic, Data: data}
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not draining; drop rather than block the core.
		}
	}
}
