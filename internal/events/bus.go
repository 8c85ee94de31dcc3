package events

import (
	"sync"
	"time"
)

const defaultSubscriberCapacity = 256

// Logger is the minimal surface the bus needs for drop diagnostics.
type Logger interface {
	Printf(format string, args ...any)
}

// BusOption customizes Bus construction.
type BusOption func(*Bus)

// BusWithLogger injects a logger for drop/diagnostic messages.
func BusWithLogger(logger Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

// BusWithSubscriberCapacity overrides the buffered channel size per subscriber.
func BusWithSubscriberCapacity(cap int) BusOption {
	return func(b *Bus) {
		if cap > 0 {
			b.channelSize = cap
		}
	}
}

// BusWithClock overrides the clock used to stamp published events.
func BusWithClock(clock func() time.Time) BusOption {
	return func(b *Bus) {
		if clock != nil {
			b.now = clock
		}
	}
}

// Bus fans registry notifications out to subscribers over buffered channels.
// Delivery never blocks the publisher; a subscriber that falls behind loses
// events and the loss is counted rather than stalling mutations.
type Bus struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	sequence    uint64
	channelSize int
	closed      bool
	now         func() time.Time
	logger      Logger
}

// Subscription represents one active listener on the bus.
type Subscription struct {
	Events <-chan Event
	cancel func()
}

// Close detaches the listener and closes its channel.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// NewBus constructs a bus with sane defaults.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subscribers: map[*subscriber]struct{}{},
		channelSize: defaultSubscriberCapacity,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Subscribe registers a listener for every event published from now on.
func (b *Bus) Subscribe() Subscription {
	sub := newSubscriber(b.channelSize, b.logger)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.close()
		return Subscription{Events: sub.channel()}
	}
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()
	return Subscription{
		Events: sub.channel(),
		cancel: func() {
			b.removeSubscriber(sub)
		},
	}
}

// Publish stamps the event with the next sequence number and the current
// clock reading, then delivers it to every subscriber.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.sequence++
	event.Sequence = b.sequence
	event.Time = b.now().UTC()
	subs := make([]*subscriber, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()
	for _, sub := range subs {
		sub.deliver(event)
	}
}

// Close detaches every subscriber and closes their channels. Publishing after
// Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscriber, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.subscribers = map[*subscriber]struct{}{}
	b.mu.Unlock()
	for _, sub := range subs {
		sub.close()
	}
}

func (b *Bus) removeSubscriber(sub *subscriber) {
	b.mu.Lock()
	_, ok := b.subscribers[sub]
	if ok {
		delete(b.subscribers, sub)
	}
	b.mu.Unlock()
	if ok {
		sub.close()
	}
}

type subscriber struct {
	mu      sync.Mutex
	ch      chan Event
	closed  bool
	dropped int
	logger  Logger
}

func newSubscriber(size int, logger Logger) *subscriber {
	return &subscriber{
		ch:     make(chan Event, size),
		logger: logger,
	}
}

func (s *subscriber) channel() <-chan Event { return s.ch }

func (s *subscriber) deliver(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- event:
	default:
		s.dropped++
		if s.logger != nil {
			s.logger.Printf("events: subscriber full, dropped event seq=%d kind=%s (total dropped %d)", event.Sequence, event.Kind, s.dropped)
		}
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
