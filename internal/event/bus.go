package event

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/figurine/internal/event/topic"
)

// Stats contains bus statistics.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
	Subscribers   int
}

// Bus delivers events synchronously to matching subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*subscription
	order  map[string]uint64
	seq    uint64
	closed bool
	logger *slog.Logger

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an empty bus. A nil logger discards panic reports.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		subs:   make(map[string]*subscription),
		order:  make(map[string]uint64),
		logger: logger,
	}
}

// Subscribe registers fn for topics matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, fn HandlerFunc) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &subscription{
		id:       uuid.NewString(),
		pattern:  pattern,
		handler:  fn,
		onCancel: b.remove,
	}
	b.seq++
	b.subs[sub.id] = sub
	b.order[sub.id] = b.seq
	return sub, nil
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
	delete(b.order, id)
}

// Publish delivers ev to every active matching subscriber in subscription
// order. Handlers run in the caller's goroutine.
func (b *Bus) Publish(ev Enveloper) {
	env := ev.Envelope()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	var targets []*subscription
	for _, s := range b.subs {
		if env.Topic.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return b.order[targets[i].id] < b.order[targets[j].id]
	})
	b.mu.RUnlock()

	b.published.Add(1)
	for _, s := range targets {
		if !s.IsActive() {
			continue
		}
		b.deliver(s, env)
	}
}

func (b *Bus) deliver(s *subscription, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			b.logger.Error("event handler panicked",
				"topic", env.Topic.String(), "subscription", s.id, "panic", r)
		}
	}()
	s.handler(env)
	b.delivered.Add(1)
}

// Close cancels every subscription and rejects new ones.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.closed = true
	b.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerPanics: b.panics.Load(),
		Subscribers:   n,
	}
}
