package surface

import (
	"sort"
	"sync"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
)

// listenerSet stores typed callbacks keyed by registration order.
type listenerSet struct {
	mu   sync.Mutex
	next uint64
	fns  map[uint64]any
}

func newListenerSet() listenerSet {
	return listenerSet{fns: make(map[uint64]any)}
}

type listenerHandle struct {
	set  *listenerSet
	id   uint64
	once sync.Once
}

func (h *listenerHandle) Cancel() {
	h.once.Do(func() {
		h.set.mu.Lock()
		defer h.set.mu.Unlock()
		delete(h.set.fns, h.id)
	})
}

func (s *listenerSet) add(fn any) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.fns[s.next] = fn
	return &listenerHandle{set: s, id: s.next}
}

func (s *listenerSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// snapshot returns the callbacks in registration order so dispatch runs
// without holding the lock.
func (s *listenerSet) snapshot() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.fns[id])
	}
	return out
}

func (s *listenerSet) pointerFuncs() []func(pointer.Event) {
	var out []func(pointer.Event)
	for _, fn := range s.snapshot() {
		if f, ok := fn.(func(pointer.Event)); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *listenerSet) keyFuncs() []func(key.Event) {
	var out []func(key.Event)
	for _, fn := range s.snapshot() {
		if f, ok := fn.(func(key.Event)); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *listenerSet) resizeFuncs() []func(geom.Size) {
	var out []func(geom.Size)
	for _, fn := range s.snapshot() {
		if f, ok := fn.(func(geom.Size)); ok {
			out = append(out, f)
		}
	}
	return out
}
