// Package changefeed fans out row changes of the items table to live subscribers.
package changefeed

import (
	"sync"

	"github.com/mdouchement/sharedlist/pkg/libsl"
	"github.com/sirupsen/logrus"
)

// DefaultBuffer is the number of pending events a subscriber can hold.
const DefaultBuffer = 64

// A Broker publishes change events to all its subscribers.
// A subscriber that does not keep up is dropped: its channel is closed.
type Broker struct {
	mu          sync.Mutex
	subscribers map[uint64]chan libsl.ChangeEvent
	next        uint64
	buffer      int
	closed      bool
}

// NewBroker returns a new Broker.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &Broker{
		subscribers: make(map[uint64]chan libsl.ChangeEvent),
		buffer:      buffer,
	}
}

// Subscribe registers a new subscriber.
// The returned function unregisters it and must be called once done.
func (b *Broker) Subscribe() (<-chan libsl.ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan libsl.ChangeEvent, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subscribers[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.drop(id)
	}
}

// Publish sends the event to all subscribers without blocking.
func (b *Broker) Publish(ev libsl.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			logrus.WithField("subscriber", id).Warn("change feed subscriber is too slow, dropping it")
			b.drop(id)
		}
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close disconnects all the subscribers.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id := range b.subscribers {
		b.drop(id)
	}
}

func (b *Broker) drop(id uint64) {
	ch, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(ch)
}
