// Package eventbus is the in-process publish/subscribe channel between the
// domain services and their side-effect consumers (SMS, websocket pushes):
// producers publish a topic with a payload, subscribers receive it
// asynchronously.
package eventbus

import "sync"

const (
	TopicEnquiryCreated = "enquiry.created"
	TopicEnquiryUpdated = "enquiry.updated"
	TopicMessageCreated = "message.created"
	TopicOrderUpdated   = "order.updated"
	TopicCartUpdated    = "cart.updated"
)

type Event struct {
	Topic   string
	Payload interface{}
}

type Handler func(Event)

type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish delivers the event to every subscriber on its own goroutine.
// Delivery is fire-and-forget: a slow or failing handler never blocks the
// publisher or other handlers.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[ev.Topic]))
	copy(handlers, b.subs[ev.Topic])
	b.mu.RUnlock()
	for _, h := range handlers {
		go h(ev)
	}
}
