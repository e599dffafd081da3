package object

import "github.com/dshills/figurine/internal/engine/geom"

// Scale is an external opacity scale. The engine stores opacity in [0,1]
// and converts at every boundary.
type Scale uint8

const (
	// ScaleUnit is the reader form: [0,1].
	ScaleUnit Scale = iota
	// ScaleEditor is the editor slider: [0.1,1.0]. Fully transparent
	// images cannot be picked again, hence the floor.
	ScaleEditor
	// ScalePercent is the percentage form: [0,100].
	ScalePercent
)

// String returns the scale name.
func (s Scale) String() string {
	switch s {
	case ScaleUnit:
		return "unit"
	case ScaleEditor:
		return "editor"
	case ScalePercent:
		return "percent"
	default:
		return "unknown"
	}
}

// ParseScale parses a scale name.
func ParseScale(s string) (Scale, bool) {
	switch s {
	case "unit", "reader":
		return ScaleUnit, true
	case "editor":
		return ScaleEditor, true
	case "percent":
		return ScalePercent, true
	}
	return ScaleUnit, false
}

// Range returns the inclusive bounds of the scale.
func (s Scale) Range() (lo, hi float64) {
	switch s {
	case ScaleEditor:
		return 0.1, 1
	case ScalePercent:
		return 0, 100
	default:
		return 0, 1
	}
}

// ToInternal converts a value on scale s into the internal [0,1] form,
// clamping it to the scale's range first.
func ToInternal(v float64, s Scale) float64 {
	lo, hi := s.Range()
	v = geom.Clamp(v, lo, hi)
	if s == ScalePercent {
		return v / 100
	}
	return v
}

// FromInternal converts an internal [0,1] value to scale s. Values below
// the editor floor are reported at the floor.
func FromInternal(v float64, s Scale) float64 {
	v = geom.Clamp(v, 0, 1)
	switch s {
	case ScalePercent:
		return v * 100
	case ScaleEditor:
		return geom.Clamp(v, 0.1, 1)
	default:
		return v
	}
}
