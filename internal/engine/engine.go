package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/figurine/internal/engine/affordance"
	"github.com/dshills/figurine/internal/engine/bounds"
	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/keyboard"
	"github.com/dshills/figurine/internal/engine/layout"
	"github.com/dshills/figurine/internal/engine/registry"
	"github.com/dshills/figurine/internal/engine/selection"
	"github.com/dshills/figurine/internal/engine/transform"
	"github.com/dshills/figurine/internal/event"
	"github.com/dshills/figurine/internal/event/topic"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
	"github.com/dshills/figurine/internal/logging"
	"github.com/dshills/figurine/internal/surface"
)

// Engine is the interaction engine for one document surface.
type Engine struct {
	mu sync.Mutex

	surf   surface.Surface
	logger *slog.Logger
	bus    *event.Bus
	ownBus bool

	padding      float64
	debounce     time.Duration
	flowFraction float64
	keys         keyboard.Config
	confirmer    Confirmer

	solver    constraint.Solver
	tracker   *bounds.Tracker
	registry  *registry.Registry
	selection *selection.Controller
	sessions  *transform.Manager
	adjuster  *keyboard.Adjuster
	layout    *layout.Switcher

	mode transform.Mode

	mounted   bool
	unmounted bool
	scope     *affordance.Scope
	subs      []surface.Subscription

	running atomic.Bool
	pending outbox
}

// New creates an engine over surf. The engine does nothing until mounted.
func New(surf surface.Surface, opts ...Option) (*Engine, error) {
	e := &Engine{
		surf:         surf,
		padding:      DefaultPadding,
		debounce:     DefaultDebounce,
		flowFraction: DefaultFlowWidthFraction,
		keys:         keyboard.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	base := e.logger
	e.logger = logging.WithComponent(base, "engine")
	if e.bus == nil {
		e.bus = event.NewBus(logging.WithComponent(base, "bus"))
		e.ownBus = true
	}

	e.solver = constraint.New()
	adj, err := keyboard.New(e.solver, e.keys)
	if err != nil {
		return nil, fmt.Errorf("keyboard bindings: %w", err)
	}
	e.adjuster = adj
	e.tracker = bounds.New(surf.ContainerSize(),
		bounds.WithPadding(e.padding),
		bounds.WithDebounce(e.debounce),
		bounds.WithOnChange(e.onAreaChange),
	)
	e.registry = registry.New(e.solver, logging.WithComponent(base, "registry"))
	e.selection = selection.New(e.registry)
	e.sessions = transform.NewManager(e.solver)
	e.layout = layout.NewSwitcher(e.solver, e.flowFraction)
	return e, nil
}

// update runs fn under the engine lock, then publishes the notifications
// fn queued.
func (e *Engine) update(fn func()) {
	e.mu.Lock()
	fn()
	out := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, ev := range out {
		e.bus.Publish(ev)
	}
}

// Mount installs the affordance styles, registers input listeners and
// binds the images already in the document.
func (e *Engine) Mount() error {
	e.mu.Lock()
	if e.mounted || e.unmounted {
		e.mu.Unlock()
		return ErrAlreadyMounted
	}
	e.mu.Unlock()

	// The container may have changed since New.
	e.tracker.Notify(e.surf.ContainerSize())
	e.tracker.Flush()

	var err error
	e.update(func() {
		scope, aerr := affordance.Acquire(e.surf)
		if aerr != nil {
			err = fmt.Errorf("mount: %w", aerr)
			return
		}
		e.scope = scope
		e.subs = append(e.subs,
			e.surf.OnPointer(func(ev pointer.Event) { e.HandlePointer(ev) }),
			e.surf.OnKey(e.onKey),
			e.surf.OnResize(e.tracker.Notify),
		)
		e.mounted = true

		area := e.tracker.ContentArea()
		for _, obj := range e.registry.Scan(e.surf.Images(), e.layout.DiscoveryEnvelope(area)) {
			post(&e.pending, TopicObjectDiscovered, ObjectDiscovered{Object: obj.Clone()})
		}
		e.logger.Info("engine mounted", "objects", e.registry.Len(), "area", area.String())
	})
	return err
}

func (e *Engine) onKey(ev key.Event) {
	if _, err := e.HandleKey(context.Background(), ev); err != nil {
		e.logger.Error("key handling failed", "key", ev.String(), logging.Err(err))
	}
}

// Unmount cancels every listener, closes any open session and removes the
// affordance styles. It is safe to call more than once.
func (e *Engine) Unmount() {
	e.update(func() {
		if !e.mounted {
			return
		}
		for _, s := range e.subs {
			s.Cancel()
		}
		e.subs = nil
		if s, ok := e.sessions.Cancel(); ok {
			e.logger.Debug("session cancelled on unmount", "target", s.Target)
		}
		e.scope.Release()
		e.scope = nil
		e.mounted = false
		e.unmounted = true
		e.logger.Info("engine unmounted")
	})
	e.tracker.Stop()
	if e.ownBus {
		e.bus.Close()
	}
}

// Mounted reports whether the engine is mounted.
func (e *Engine) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounted
}

// Run consumes the surface's mutation stream until it closes or ctx ends.
// The stream cannot be restarted, so Run may be called only once.
func (e *Engine) Run(ctx context.Context) error {
	if !e.Mounted() {
		return ErrNotMounted
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	stream := e.surf.Mutations()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-stream:
			if !ok {
				e.logger.Info("mutation stream closed")
				return nil
			}
			e.ApplyMutation(m)
		}
	}
}

// ApplyMutation handles one structural change: image inserts are bound,
// removals detach the object and clear its selection.
func (e *Engine) ApplyMutation(m surface.Mutation) {
	e.update(func() {
		ev, ok := e.registry.Apply(m, e.layout.DiscoveryEnvelope(e.tracker.ContentArea()))
		if !ok {
			return
		}
		if ev.Removed {
			e.detachLocked(ev.Object.ID, selection.ReasonRemoved, false)
			return
		}
		post(&e.pending, TopicObjectDiscovered, ObjectDiscovered{Object: ev.Object.Clone()})
	})
}

// detachLocked drops every reference to an object that left the registry.
func (e *Engine) detachLocked(id string, reason selection.Reason, deleted bool) {
	if e.sessions.Drop(id) {
		e.logger.Debug("session dropped", "target", id)
	}
	if ch, ok := e.selection.Forget(id, reason); ok {
		e.selectionChangedLocked(ch)
	}
	post(&e.pending, TopicObjectRemoved, ObjectRemoved{ID: id, Deleted: deleted})
}

// selectionChangedLocked publishes a selection transition. Losing the
// selection also clears the mode and any open session.
func (e *Engine) selectionChangedLocked(ch selection.Change) {
	post(&e.pending, TopicSelectionChanged, SelectionChanged{
		Previous: ch.Previous,
		Current:  ch.Current,
		Reason:   ch.Reason.String(),
	})
	if s, ok := e.sessions.Open(); ok && s.Target != ch.Current {
		e.sessions.Cancel()
	}
	if ch.Current == "" {
		e.setModeLocked(transform.ModeNone)
	}
}

func (e *Engine) setModeLocked(m transform.Mode) bool {
	if m == e.mode {
		return false
	}
	if s, ok := e.sessions.Open(); ok && s.Mode != m {
		e.sessions.Cancel()
	}
	prev := e.mode
	e.mode = m
	post(&e.pending, TopicModeChanged, ModeChanged{Previous: prev, Current: m})
	return true
}

// geometryChangedLocked publishes the new bounds if they differ.
func (e *Engine) geometryChangedLocked(id string, before, after geom.Rect) {
	if before != after {
		post(&e.pending, TopicGeometryChanged, GeometryChanged{ID: id, Bounds: after})
	}
}

// onAreaChange is the bounds tracker callback. It is never called with
// the engine lock held.
func (e *Engine) onAreaChange(area geom.Size) {
	e.update(func() {
		post(&e.pending, TopicAreaChanged, AreaChanged{Area: area})
		e.reclampLocked(area)
		e.logger.Debug("content area changed", "area", area.String())
	})
}

// reclampLocked brings every object back inside area, scaling uniformly
// where an object no longer fits.
func (e *Engine) reclampLocked(area geom.Size) {
	for _, obj := range e.registry.All() {
		before := obj.Bounds()
		r := e.solver.Refit(before, e.layout.Envelope(obj, area))
		obj.Apply(r)
		e.geometryChangedLocked(obj.ID, before, obj.Bounds())
	}
}

// HandlePointer processes a pointer event. It reports whether the event
// changed selection or drove a session.
//
// A pointer-down on an unselected object selects it; with a mode active the
// drag starts in the same gesture. A pointer-down while a session is open
// is ignored.
func (e *Engine) HandlePointer(ev pointer.Event) bool {
	var handled bool
	e.update(func() {
		if !e.mounted {
			return
		}
		handled = e.pointerLocked(ev)
	})
	return handled
}

func (e *Engine) pointerLocked(ev pointer.Event) bool {
	switch ev.Action {
	case pointer.ActionDown:
		if e.sessions.Active() {
			return false
		}
		hit, _ := e.hitTestLocked(ev.Position)
		ch, changed := e.selection.Click(hit)
		if changed {
			e.selectionChangedLocked(ch)
		}
		if hit == "" {
			return changed
		}
		obj, _ := e.registry.Get(hit)
		began := e.sessions.Begin(obj, e.mode, ev.Position)
		if began {
			e.logger.Debug("session began", "target", hit, "mode", e.mode.String())
		}
		return changed || began

	case pointer.ActionMove:
		s, ok := e.sessions.Open()
		if !ok {
			return false
		}
		obj, ok := e.registry.Get(s.Target)
		if !ok {
			e.sessions.Cancel()
			return false
		}
		before := obj.Bounds()
		if _, ok := e.sessions.Update(ev, e.layout.Envelope(obj, e.tracker.ContentArea())); !ok {
			return false
		}
		e.geometryChangedLocked(obj.ID, before, obj.Bounds())
		return true

	case pointer.ActionUp:
		_, ok := e.sessions.End()
		return ok

	case pointer.ActionCancel:
		_, ok := e.sessions.Cancel()
		return ok
	}
	return false
}

// HandleKey processes a key event. Delete asks the Confirmer; the error is
// the surface's removal failure, if any.
func (e *Engine) HandleKey(ctx context.Context, ev key.Event) (bool, error) {
	var handled, del bool
	e.update(func() {
		if !e.mounted {
			return
		}
		act, ok := e.adjuster.Resolve(ev)
		if !ok {
			return
		}
		if act.Command == keyboard.CmdDelete {
			_, del = e.selection.Current()
			return
		}
		handled = e.commandLocked(act)
	})
	if del {
		return e.Delete(ctx)
	}
	return handled, nil
}

func (e *Engine) commandLocked(act keyboard.Action) bool {
	id, ok := e.selection.Current()
	if !ok {
		return false
	}
	obj, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	area := e.tracker.ContentArea()

	switch act.Command {
	case keyboard.CmdModeMove:
		return e.setModeLocked(transform.ModeMove)
	case keyboard.CmdModeResize:
		return e.setModeLocked(transform.ModeResize)
	case keyboard.CmdToggleLayout:
		return e.setWrapModeLocked(obj, e.layout.ToggleTarget(obj), area)
	case keyboard.CmdCancel:
		e.sessions.Cancel()
		if ch, ok := e.selection.Clear(selection.ReasonEscape); ok {
			e.selectionChangedLocked(ch)
		}
		return true
	case keyboard.CmdReset:
		before := obj.Bounds()
		if _, ok := e.adjuster.Reset(obj, e.mode, e.layout.Envelope(obj, area)); !ok {
			return false
		}
		e.geometryChangedLocked(obj.ID, before, obj.Bounds())
		return true
	case keyboard.CmdNudge:
		before := obj.Bounds()
		if _, ok := e.adjuster.Nudge(obj, e.mode, act.Delta, e.layout.Envelope(obj, area)); !ok {
			return false
		}
		e.geometryChangedLocked(obj.ID, before, obj.Bounds())
		return true
	}
	return false
}

// Delete removes the selected object after confirmation. Declining, or
// having nothing selected, changes nothing and reports false.
func (e *Engine) Delete(ctx context.Context) (bool, error) {
	e.mu.Lock()
	id, ok := e.selection.Current()
	confirmer := e.confirmer
	mounted := e.mounted
	e.mu.Unlock()

	if !ok || !mounted {
		return false, nil
	}
	if confirmer == nil || !confirmer.Confirm(ctx, id) {
		e.logger.Debug("delete declined", "id", id)
		return false, nil
	}

	if err := e.surf.Remove(ctx, id); err != nil && !errors.Is(err, surface.ErrNodeNotFound) {
		return false, fmt.Errorf("delete %s: %w", id, err)
	}

	e.update(func() {
		if _, ok := e.registry.Forget(id); ok {
			e.detachLocked(id, selection.ReasonDeleted, true)
		}
		// Forgetting the selection clears the mode. A selection made
		// while the prompt was open is left alone.
		if ch, ok := e.selection.Forget(id, selection.ReasonDeleted); ok {
			e.selectionChangedLocked(ch)
		}
		e.logger.Info("object deleted", "id", id)
	})
	return true, nil
}

// Subscribe registers fn for notifications matching pattern.
func (e *Engine) Subscribe(pattern topic.Topic, fn event.HandlerFunc) (event.Subscription, error) {
	return e.bus.Subscribe(pattern, fn)
}

// Bus returns the notification bus.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// Tunables are the settings that may change while the engine runs.
type Tunables struct {
	Keyboard          keyboard.Config
	Debounce          time.Duration
	FlowWidthFraction float64
}

// Reconfigure applies new tunables. Invalid key bindings leave every
// setting unchanged. Objects are re-clamped when the flow width cap
// changes.
func (e *Engine) Reconfigure(t Tunables) error {
	var err error
	e.update(func() {
		if err = e.adjuster.Configure(t.Keyboard); err != nil {
			err = fmt.Errorf("keyboard bindings: %w", err)
			return
		}
		e.keys = e.adjuster.Config()
		e.tracker.SetDebounce(t.Debounce)
		if t.FlowWidthFraction != e.layout.FlowFraction() {
			e.layout.SetFlowFraction(t.FlowWidthFraction)
			e.reclampLocked(e.tracker.ContentArea())
		}
		e.logger.Info("engine reconfigured")
	})
	return err
}
