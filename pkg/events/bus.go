package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBusClosed is returned when subscribing to a bus that was shut down.
var ErrBusClosed = errors.New("event bus closed")

// DefaultBufferSize is the per-subscription channel capacity.
const DefaultBufferSize = 100

// Bus fans control-plane events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	subscribers map[Topic]map[*Subscription]struct{}
	mu          sync.RWMutex
	seq         atomic.Uint64
	bufferSize  int

	shutdown   chan struct{}
	shutdownMu sync.Mutex
	isShutdown bool
}

// Subscription receives events for one or more topics.
type Subscription struct {
	topics    []Topic
	channel   chan Event
	bus       *Bus
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBus creates an event bus. A non-positive buffer size selects
// DefaultBufferSize.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		subscribers: make(map[Topic]map[*Subscription]struct{}),
		bufferSize:  bufferSize,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers for the given topics; TopicAll matches everything.
// The subscription ends when ctx is cancelled, Unsubscribe is called, or
// the bus shuts down, and its channel is then closed.
func (b *Bus) Subscribe(ctx context.Context, topics ...Topic) (*Subscription, error) {
	b.shutdownMu.Lock()
	defer b.shutdownMu.Unlock()
	if b.isShutdown {
		return nil, ErrBusClosed
	}
	if len(topics) == 0 {
		topics = []Topic{TopicAll}
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topics:  topics,
		channel: make(chan Event, b.bufferSize),
		bus:     b,
		cancel:  cancel,
	}

	b.mu.Lock()
	for _, topic := range topics {
		if b.subscribers[topic] == nil {
			b.subscribers[topic] = make(map[*Subscription]struct{})
		}
		b.subscribers[topic][sub] = struct{}{}
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish stamps the event with a sequence number and time and delivers it
// to every matching subscriber. It returns the stamped event and how many
// subscribers missed it because their buffer was full.
func (b *Bus) Publish(e Event) (Event, int) {
	e.Seq = b.seq.Add(1)
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	b.shutdownMu.Lock()
	closed := b.isShutdown
	b.shutdownMu.Unlock()
	if closed {
		return e, 0
	}

	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subscribers[e.Topic])+len(b.subscribers[TopicAll]))
	for sub := range b.subscribers[e.Topic] {
		targets = append(targets, sub)
	}
	for sub := range b.subscribers[TopicAll] {
		if _, dup := b.subscribers[e.Topic][sub]; !dup {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	dropped := 0
	for _, sub := range targets {
		if !sub.offer(e) {
			dropped++
		}
	}
	return e, dropped
}

// SubscriberCount returns the number of subscriptions on a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes every subscription. Later publishes are discarded.
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the subscription's event channel.
func (s *Subscription) Channel() <-chan Event {
	return s.channel
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	for _, topic := range s.topics {
		if subs := s.bus.subscribers[topic]; subs != nil {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.bus.subscribers, topic)
			}
		}
	}
	s.bus.mu.Unlock()

	s.close()
}

// offer delivers without blocking. The send may race with close, so a
// closed channel is treated as a miss.
func (s *Subscription) offer(e Event) (delivered bool) {
	defer func() {
		if recover() != nil {
			delivered = false
		}
	}()
	select {
	case s.channel <- e:
		return true
	default:
		return false
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
