// Package constraint clamps proposed object geometry against the content
// area and the minimum-size floor.
//
// Every function here is pure: the solver never mutates objects, it only
// computes the nearest valid rectangle. Requests are never rejected.
package constraint

import (
	"math"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
)

// Envelope describes the space an object may occupy.
type Envelope struct {
	// Area is the current content area.
	Area geom.Size

	// Flow is true for objects in a flow wrap mode. Flow objects are
	// clamped at the origin; their position belongs to text flow.
	Flow bool

	// FlowWidthFraction caps the width of flow objects relative to
	// Area.W. Values outside (0,1] mean the full width.
	FlowWidthFraction float64
}

// EnvelopeFor builds the envelope for an object in wrap mode m.
func EnvelopeFor(m object.WrapMode, area geom.Size, flowFraction float64) Envelope {
	return Envelope{Area: area, Flow: m.IsFlow(), FlowWidthFraction: flowFraction}
}

// widthLimit returns the widest an object may be, measured from x = 0.
func (e Envelope) widthLimit() float64 {
	if e.Flow && e.FlowWidthFraction > 0 && e.FlowWidthFraction < 1 {
		return e.Area.W * e.FlowWidthFraction
	}
	return e.Area.W
}

// Proposal is a partial rectangle. Nil fields keep the current value.
type Proposal struct {
	Position *geom.Point
	Size     *geom.Size
}

// MoveTo proposes a new top-left corner.
func MoveTo(p geom.Point) Proposal {
	return Proposal{Position: &p}
}

// ResizeTo proposes new dimensions.
func ResizeTo(s geom.Size) Proposal {
	return Proposal{Size: &s}
}

// Solver clamps geometry. The zero value uses object.MinSize.
type Solver struct {
	MinSize float64
}

// New returns a solver with the default minimum size.
func New() Solver {
	return Solver{MinSize: object.MinSize}
}

func (s Solver) min() float64 {
	if s.MinSize <= 0 {
		return object.MinSize
	}
	return s.MinSize
}

// Clamp merges proposed into current and returns the nearest rectangle
// that satisfies the envelope and the minimum size.
//
// A size change is bounded by the space between the current position and
// the content edge. A position change keeps the size and slides the
// rectangle back inside the area. With lockAspect the width:height ratio of
// the proposed size survives clamping unless the minimum size and the area
// cannot both be met.
func (s Solver) Clamp(proposed Proposal, current geom.Rect, env Envelope, lockAspect bool) geom.Rect {
	r := current
	if env.Flow {
		r.Left, r.Top = 0, 0
	}

	if proposed.Size != nil {
		r.Width, r.Height = proposed.Size.W, proposed.Size.H
		if lockAspect {
			r = s.fitRatio(r, env)
		}
		r = s.clampSizeFrom(r, r.Left, r.Top, env)
	}

	if proposed.Position != nil && !env.Flow {
		r.Left, r.Top = proposed.Position.X, proposed.Position.Y
	}

	r = s.clampSizeFrom(r, 0, 0, env)
	return clampPosition(r, env)
}

// Move clamps a translation of start by delta.
func (s Solver) Move(start geom.Rect, delta geom.Point, env Envelope) geom.Rect {
	return s.Clamp(MoveTo(start.Origin().Add(delta)), start, env, false)
}

// Resize clamps a bottom-right resize of start by delta. Dragging toward
// the bottom-right grows the object.
//
// With lockAspect the dominant axis of delta drives the new size and the
// other dimension follows the starting ratio.
func (s Solver) Resize(start geom.Rect, delta geom.Point, env Envelope, lockAspect bool) geom.Rect {
	size := geom.Size{W: start.Width + delta.X, H: start.Height + delta.Y}
	if lockAspect {
		ratio := start.Size().Ratio()
		if math.Abs(delta.X) >= math.Abs(delta.Y) {
			size.H = size.W / ratio
		} else {
			size.W = size.H * ratio
		}
	}
	return s.Clamp(ResizeTo(size), start, env, lockAspect)
}

// FitWidth scales a newly discovered object so it is no wider than the
// content area, preserving its aspect ratio. Objects smaller than the
// minimum size are scaled up to it; if that scale-up overshoots the area
// width, the width is cut back and the ratio gives way.
func (s Solver) FitWidth(natural geom.Size, area geom.Size) geom.Size {
	if natural.W <= 0 || natural.H <= 0 {
		return geom.Size{W: s.min(), H: s.min()}
	}
	size := natural
	if area.W > 0 && size.W > area.W {
		size = size.Scale(area.W / size.W)
	}
	if size.W < s.min() || size.H < s.min() {
		size = size.Scale(math.Max(s.min()/size.W, s.min()/size.H))
	}
	if area.W > 0 && size.W > area.W {
		size.W = math.Max(area.W, s.min())
	}
	return size
}

// Refit brings current back inside env. A size that no longer fits is
// scaled down uniformly, measured from the origin, and the position then
// slides back inside the area. Sizes that already fit are kept.
func (s Solver) Refit(current geom.Rect, env Envelope) geom.Rect {
	r := current
	if env.Flow {
		r.Left, r.Top = 0, 0
	}
	fitted := s.fitRatio(geom.Rect{Width: r.Width, Height: r.Height}, env)
	r.Width, r.Height = fitted.Width, fitted.Height
	r = s.clampSizeFrom(r, 0, 0, env)
	return clampPosition(r, env)
}

// fitRatio scales r uniformly so it fits the space left of its position,
// then uniformly up to the minimum size.
func (s Solver) fitRatio(r geom.Rect, env Envelope) geom.Rect {
	if r.Width <= 0 || r.Height <= 0 {
		return r
	}
	maxW := env.widthLimit() - r.Left
	maxH := env.Area.H - r.Top

	f := 1.0
	if r.Width > maxW {
		f = math.Min(f, maxW/r.Width)
	}
	if r.Height > maxH {
		f = math.Min(f, maxH/r.Height)
	}
	if f > 0 && f < 1 {
		r.Width *= f
		r.Height *= f
	}

	if r.Width < s.min() || r.Height < s.min() {
		g := math.Max(s.min()/r.Width, s.min()/r.Height)
		r.Width *= g
		r.Height *= g
	}
	return r
}

// clampSizeFrom bounds the size by the space between (left, top) and the
// content edge. The minimum size wins over the area.
func (s Solver) clampSizeFrom(r geom.Rect, left, top float64, env Envelope) geom.Rect {
	r.Width = geom.Clamp(r.Width, s.min(), env.widthLimit()-left)
	r.Height = geom.Clamp(r.Height, s.min(), env.Area.H-top)
	return r
}

// clampPosition slides r inside the area. Flow objects sit at the origin.
func clampPosition(r geom.Rect, env Envelope) geom.Rect {
	if env.Flow {
		r.Left, r.Top = 0, 0
		return r
	}
	r.Left = geom.Clamp(r.Left, 0, env.Area.W-r.Width)
	r.Top = geom.Clamp(r.Top, 0, env.Area.H-r.Height)
	return r
}
