package engine

import (
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/layout"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/engine/selection"
	"github.com/dshills/figurine/internal/engine/transform"
)

// Selection returns the selected object id.
func (e *Engine) Selection() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Current()
}

// Mode returns the interaction mode.
func (e *Engine) Mode() transform.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// WrapMode returns the wrap mode of the selected object.
func (e *Engine) WrapMode() (object.WrapMode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.selectedLocked()
	if !ok {
		return object.WrapLeft, false
	}
	return obj.WrapMode, true
}

// Opacity returns the opacity of the selected object on the given scale.
func (e *Engine) Opacity(scale object.Scale) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.selectedLocked()
	if !ok {
		return 0, false
	}
	return object.FromInternal(obj.Opacity, scale), true
}

// ContentArea returns the current content area.
func (e *Engine) ContentArea() geom.Size {
	return e.tracker.ContentArea()
}

// Object returns a copy of the object with the given id.
func (e *Engine) Object(id string) (object.Object, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.registry.Get(id)
	if !ok {
		return object.Object{}, false
	}
	return obj.Clone(), true
}

// Objects returns copies of every bound object in discovery order.
func (e *Engine) Objects() []object.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	all := e.registry.All()
	out := make([]object.Object, 0, len(all))
	for _, obj := range all {
		out = append(out, obj.Clone())
	}
	return out
}

// Placements returns where every object is drawn, bottom first.
func (e *Engine) Placements() []layout.Placement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout.Place(e.registry.All(), e.tracker.ContentArea())
}

// HitTest returns the topmost object under p, in content coordinates.
func (e *Engine) HitTest(p geom.Point) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hitTestLocked(p)
}

func (e *Engine) hitTestLocked(p geom.Point) (string, bool) {
	return layout.HitTest(e.layout.Place(e.registry.All(), e.tracker.ContentArea()), p)
}

func (e *Engine) selectedLocked() (*object.Object, bool) {
	id, ok := e.selection.Current()
	if !ok {
		return nil, false
	}
	return e.registry.Get(id)
}

// Select selects id programmatically.
func (e *Engine) Select(id string) bool {
	var ok bool
	e.update(func() {
		var ch selection.Change
		if ch, ok = e.selection.Select(id, selection.ReasonProgrammatic); ok {
			e.selectionChangedLocked(ch)
		}
	})
	return ok
}

// ClearSelection deselects the selected object.
func (e *Engine) ClearSelection() bool {
	var ok bool
	e.update(func() {
		e.sessions.Cancel()
		var ch selection.Change
		if ch, ok = e.selection.Clear(selection.ReasonProgrammatic); ok {
			e.selectionChangedLocked(ch)
		}
	})
	return ok
}

// SetMode sets the interaction mode. It is a no-op without a selection.
func (e *Engine) SetMode(m transform.Mode) bool {
	var ok bool
	e.update(func() {
		if _, selected := e.selection.Current(); !selected {
			return
		}
		ok = e.setModeLocked(m)
	})
	return ok
}

// SetWrapMode switches the selected object's wrap mode.
func (e *Engine) SetWrapMode(m object.WrapMode) bool {
	var ok bool
	e.update(func() {
		obj, selected := e.selectedLocked()
		if !selected {
			return
		}
		ok = e.setWrapModeLocked(obj, m, e.tracker.ContentArea())
	})
	return ok
}

func (e *Engine) setWrapModeLocked(obj *object.Object, m object.WrapMode, area geom.Size) bool {
	if s, open := e.sessions.Open(); open && s.Target == obj.ID {
		e.sessions.Cancel()
	}
	before := obj.Bounds()
	ch, ok := e.layout.Set(obj, m, area)
	if !ok {
		return false
	}
	post(&e.pending, TopicLayoutChanged, LayoutChanged{ID: obj.ID, From: ch.From, To: ch.To})
	e.geometryChangedLocked(obj.ID, before, ch.Bounds)
	return true
}

// SetOpacity sets the selected object's opacity. value is read on scale
// and clamped to its range.
func (e *Engine) SetOpacity(value float64, scale object.Scale) bool {
	var ok bool
	e.update(func() {
		obj, selected := e.selectedLocked()
		if !selected {
			return
		}
		v := object.ToInternal(value, scale)
		if v == obj.Opacity {
			return
		}
		obj.Opacity = v
		ok = true
		post(&e.pending, TopicOpacityChanged, OpacityChanged{ID: obj.ID, Opacity: v})
	})
	return ok
}
