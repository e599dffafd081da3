// Package layout switches objects between flow placement and overlay
// placement and computes where every object is drawn.
package layout

import (
	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
)

// Switcher changes wrap modes.
type Switcher struct {
	solver       constraint.Solver
	flowFraction float64
}

// NewSwitcher creates a switcher. flowFraction caps the width of flow
// objects relative to the content width.
func NewSwitcher(solver constraint.Solver, flowFraction float64) *Switcher {
	s := &Switcher{solver: solver}
	s.SetFlowFraction(flowFraction)
	return s
}

// SetFlowFraction changes the flow width cap. Values outside (0,1] mean
// the full width.
func (s *Switcher) SetFlowFraction(f float64) {
	if f <= 0 || f > 1 {
		f = 1
	}
	s.flowFraction = f
}

// FlowFraction returns the flow width cap.
func (s *Switcher) FlowFraction() float64 {
	return s.flowFraction
}

// Envelope returns the clamping envelope for obj in its current mode.
func (s *Switcher) Envelope(obj *object.Object, area geom.Size) constraint.Envelope {
	return constraint.EnvelopeFor(obj.WrapMode, area, s.flowFraction)
}

// DiscoveryEnvelope returns the envelope a newly bound object is fitted
// into. New objects start in the default flow mode.
func (s *Switcher) DiscoveryEnvelope(area geom.Size) constraint.Envelope {
	return constraint.EnvelopeFor(object.WrapLeft, area, s.flowFraction)
}

// Change describes an applied switch.
type Change struct {
	From   object.WrapMode
	To     object.WrapMode
	Bounds geom.Rect
}

// Toggle switches a flow object to overlay, and an overlay object back to
// the flow mode it last used.
func (s *Switcher) Toggle(obj *object.Object, area geom.Size) (Change, bool) {
	if obj == nil {
		return Change{}, false
	}
	return s.Set(obj, s.ToggleTarget(obj), area)
}

// ToggleTarget returns the mode Toggle would switch obj to.
func (s *Switcher) ToggleTarget(obj *object.Object) object.WrapMode {
	if obj.WrapMode.IsFlow() {
		return object.Overlay
	}
	if !obj.FlowMode.IsFlow() {
		return object.WrapLeft
	}
	return obj.FlowMode
}

// Set switches obj to mode and re-clamps it in the new envelope.
//
// The first entry into overlay places the object at (0,0). Later entries
// reuse the stored position. Opacity is never touched.
func (s *Switcher) Set(obj *object.Object, mode object.WrapMode, area geom.Size) (Change, bool) {
	if obj == nil || obj.WrapMode == mode {
		return Change{}, false
	}
	from := obj.WrapMode
	obj.WrapMode = mode

	env := s.Envelope(obj, area)
	current := geom.RectFrom(obj.Position, obj.Size)
	var r geom.Rect
	if mode == object.Overlay {
		if !obj.HasPosition {
			obj.Position = geom.Point{}
			obj.HasPosition = true
		}
		r = s.solver.Clamp(constraint.MoveTo(obj.Position), current, env, false)
	} else {
		obj.FlowMode = mode
		r = s.solver.Clamp(constraint.Proposal{}, current, env, false)
	}
	obj.Apply(r)
	return Change{From: from, To: mode, Bounds: obj.Bounds()}, true
}

// Placement is where an object is drawn.
type Placement struct {
	ID    string
	Rect  geom.Rect
	Style object.Style
}

// Place computes the drawn rectangles in stacking order, bottom first:
// flow objects in document order, then overlay objects in document order.
//
// Flow objects are stacked vertically separated by the flow margin; left
// and right floats hug their edge and centred objects sit in the middle.
// Text itself is not laid out.
func (s *Switcher) Place(objs []*object.Object, area geom.Size) []Placement {
	out := make([]Placement, 0, len(objs))
	y := 0.0
	for _, o := range objs {
		if !o.WrapMode.IsFlow() {
			continue
		}
		st := object.StyleFor(o, s.flowFraction)
		var x float64
		switch o.WrapMode {
		case object.WrapRight:
			x = max(0, area.W-o.Size.W)
		case object.WrapCenter:
			x = max(0, (area.W-o.Size.W)/2)
		}
		out = append(out, Placement{
			ID:    o.ID,
			Rect:  geom.Rect{Left: x, Top: y, Width: o.Size.W, Height: o.Size.H},
			Style: st,
		})
		y += o.Size.H + st.Margin
	}
	for _, o := range objs {
		if o.WrapMode != object.Overlay {
			continue
		}
		out = append(out, Placement{
			ID:    o.ID,
			Rect:  o.Bounds(),
			Style: object.StyleFor(o, s.flowFraction),
		})
	}
	return out
}

// HitTest returns the topmost placement containing p.
func HitTest(placements []Placement, p geom.Point) (string, bool) {
	for i := len(placements) - 1; i >= 0; i-- {
		if placements[i].Rect.Contains(p) {
			return placements[i].ID, true
		}
	}
	return "", false
}
