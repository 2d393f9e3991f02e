package events

import (
	"context"
	"sync"
)

// Subscription receives the events of a single user.
type Subscription struct {
	userID string
	ch     chan Event
	closed bool
}

// Events returns the channel of delivered events. It is closed on
// Unsubscribe or when the broker closes.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Broker is an in-process fan-out of events keyed by user id. A subscriber
// that does not keep up misses events instead of blocking publishers.
type Broker struct {
	mu     sync.Mutex
	buffer int
	subs   map[string]map[*Subscription]struct{}
	closed bool
}

// NewBroker returns a broker whose subscriptions buffer up to buffer events.
func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{
		buffer: buffer,
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a subscription for userID. Subscribing to a closed
// broker returns an already closed subscription.
func (b *Broker) Subscribe(userID string) *Subscription {
	s := &Subscription{userID: userID, ch: make(chan Event, b.buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		s.closed = true
		close(s.ch)
		return s
	}
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*Subscription]struct{})
	}
	b.subs[userID][s] = struct{}{}
	return s
}

// Unsubscribe removes s and closes its channel. It is safe to call more than once.
func (b *Broker) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.closed {
		return
	}
	if set, ok := b.subs[s.userID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(b.subs, s.userID)
		}
	}
	s.closed = true
	close(s.ch)
}

// Publish delivers e to the subscriptions of e.UserID without blocking.
func (b *Broker) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for s := range b.subs[e.UserID] {
		select {
		case s.ch <- e:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of live subscriptions of userID.
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}

// Close ends every subscription. Later publishes are dropped.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, set := range b.subs {
		for s := range set {
			s.closed = true
			close(s.ch)
		}
	}
	b.subs = make(map[string]map[*Subscription]struct{})
}
