// Package bounds tracks the usable content area of the document surface.
//
// The content area is the container size minus a fixed padding on every
// side. Container resizes arrive in bursts while the user drags a window
// edge, so the tracker debounces them: the area is recomputed once the
// container has been stable for the configured delay.
package bounds

import (
	"sync"
	"time"

	"github.com/dshills/figurine/internal/engine/geom"
)

// DefaultPadding is subtracted from each side of the container.
const DefaultPadding = 20.0

// DefaultDebounce is how long a container size must be stable before the
// content area is recomputed.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc is called with the new content area after recomputation.
type ChangeFunc func(area geom.Size)

// Option configures a Tracker.
type Option func(*Tracker)

// WithPadding sets the padding subtracted from each side.
func WithPadding(p float64) Option {
	return func(t *Tracker) {
		if p >= 0 {
			t.padding = p
		}
	}
}

// WithDebounce sets the debounce delay. Zero applies resizes immediately.
func WithDebounce(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.debounce = d
		}
	}
}

// WithOnChange sets the recomputation callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(t *Tracker) {
		t.onChange = fn
	}
}

// Tracker computes the content area from container dimensions.
type Tracker struct {
	mu sync.Mutex

	padding  float64
	debounce time.Duration
	onChange ChangeFunc

	container geom.Size
	area      geom.Size

	pending    *geom.Size
	timer      *time.Timer
	generation uint64
	stopped    bool
}

// New creates a tracker for a container of the given initial size.
func New(container geom.Size, opts ...Option) *Tracker {
	t := &Tracker{
		padding:  DefaultPadding,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.container = container
	t.area = t.compute(container)
	return t
}

// ContentArea returns the current content area.
func (t *Tracker) ContentArea() geom.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.area
}

// Container returns the last applied container size.
func (t *Tracker) Container() geom.Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.container
}

// Padding returns the padding subtracted from each side.
func (t *Tracker) Padding() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.padding
}

// SetDebounce changes the debounce delay for subsequent notifications.
func (t *Tracker) SetDebounce(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d >= 0 {
		t.debounce = d
	}
}

// Notify records a container resize. The content area is recomputed after
// the debounce delay unless another resize arrives first.
func (t *Tracker) Notify(container geom.Size) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending = &container
	t.generation++

	if t.debounce == 0 {
		t.mu.Unlock()
		t.Flush()
		return
	}

	gen := t.generation
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.debounce, func() { t.fire(gen) })
	t.mu.Unlock()
}

// fire applies the pending resize if no newer notification superseded it.
func (t *Tracker) fire(gen uint64) {
	t.mu.Lock()
	stale := gen != t.generation
	t.mu.Unlock()
	if !stale {
		t.Flush()
	}
}

// Flush applies a pending resize immediately. It reports whether the
// content area changed.
func (t *Tracker) Flush() bool {
	t.mu.Lock()
	if t.pending == nil || t.stopped {
		t.mu.Unlock()
		return false
	}
	container := *t.pending
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	area := t.compute(container)
	changed := area != t.area
	t.container = container
	t.area = area
	fn := t.onChange
	t.mu.Unlock()

	// Called without the lock so the callback may read the tracker.
	if changed && fn != nil {
		fn(area)
	}
	return changed
}

// Pending reports whether a resize is waiting for the debounce delay.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// Stop cancels any pending resize. Later notifications are ignored.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) compute(container geom.Size) geom.Size {
	return geom.Size{
		W: max(0, container.W-2*t.padding),
		H: max(0, container.H-2*t.padding),
	}
}
