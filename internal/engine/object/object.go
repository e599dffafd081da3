// Package object defines the embedded object model: one interactive image
// inside the document surface, its placement scheme and its opacity.
package object

import (
	"github.com/dshills/figurine/internal/engine/geom"
)

// MinSize is the smallest width or height an object may have.
const MinSize = 50.0

// WrapMode is the placement scheme of an object.
type WrapMode uint8

const (
	// WrapLeft floats the object left with text flowing on its right.
	WrapLeft WrapMode = iota
	// WrapRight floats the object right with text flowing on its left.
	WrapRight
	// WrapCenter centres the object on its own line.
	WrapCenter
	// Overlay positions the object absolutely above the text.
	Overlay
)

// String returns the mode name used in configuration and snapshots.
func (m WrapMode) String() string {
	switch m {
	case WrapLeft:
		return "wrap-left"
	case WrapRight:
		return "wrap-right"
	case WrapCenter:
		return "wrap-center"
	case Overlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// IsFlow reports whether the object participates in text flow.
func (m WrapMode) IsFlow() bool {
	return m == WrapLeft || m == WrapRight || m == WrapCenter
}

// ParseWrapMode parses a mode name as produced by String.
func ParseWrapMode(s string) (WrapMode, bool) {
	switch s {
	case "wrap-left", "left":
		return WrapLeft, true
	case "wrap-right", "right":
		return WrapRight, true
	case "wrap-center", "center":
		return WrapCenter, true
	case "overlay", "absolute":
		return Overlay, true
	}
	return WrapLeft, false
}

// Object is one embedded image.
//
// Position is meaningful only in Overlay mode; HasPosition records whether
// it has ever been set so the first overlay entry can default to (0,0).
// Opacity is stored in [0,1]; see Scale for the external forms.
type Object struct {
	ID     string
	Source string

	Position    geom.Point
	HasPosition bool

	Size         geom.Size
	Natural      geom.Size
	ExplicitSize bool

	WrapMode WrapMode
	// FlowMode is the flow mode restored when leaving Overlay.
	FlowMode WrapMode

	Opacity  float64
	Selected bool

	// Interactive marks objects bound by the registry and eligible for
	// selection.
	Interactive bool
}

// Bounds returns the object's rectangle. Flow objects report their size at
// the origin since their position is owned by text flow.
func (o *Object) Bounds() geom.Rect {
	if o.WrapMode == Overlay {
		return geom.RectFrom(o.Position, o.Size)
	}
	return geom.RectFrom(geom.Point{}, o.Size)
}

// Apply stores a clamped rectangle. The position is only recorded for
// overlay objects.
func (o *Object) Apply(r geom.Rect) {
	if o.WrapMode == Overlay {
		o.Position = r.Origin()
		o.HasPosition = true
	}
	o.Size = r.Size()
}

// Clone returns a copy safe to hand to callers outside the engine.
func (o *Object) Clone() Object {
	return *o
}
