package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 64

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// whose queue is full misses the event.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	next    uint64
	closed  bool
	dropped atomic.Uint64
	hooks   []func(Event)
	logger  *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{subs: make(map[uint64]chan Event), logger: logger}
}

// OnPublish registers fn to run synchronously for every published event.
// fn must be quick.
func (b *Bus) OnPublish(fn func(Event)) {
	b.mu.Lock()
	b.hooks = append(b.hooks, fn)
	b.mu.Unlock()
}

// Subscribe returns a channel of events and a cancel func that closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, fn := range b.hooks {
		fn(ev)
	}
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
			b.logger.Debug("notification dropped", "subscriber", id, "kind", ev.Kind)
		}
	}
}

// Dropped is the number of deliveries skipped because a queue was full.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
