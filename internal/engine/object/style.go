package object

// Float is the CSS-like float of a flow object.
type Float uint8

const (
	FloatNone Float = iota
	FloatLeft
	FloatRight
)

// Style is the rendering hook derived from an object's wrap mode. The
// surface applies it; the engine never renders.
type Style struct {
	Float Float
	// Absolute is true for overlay objects.
	Absolute bool
	// Centered places a flow object on its own line.
	Centered bool
	// Margin is the gap kept between a flow object and the text.
	Margin float64
	// ZIndex lifts overlay objects above text.
	ZIndex int
	// MaxWidthFraction caps the width of flow objects relative to the
	// content width.
	MaxWidthFraction float64
	Opacity          float64
}

// Flow placement constants.
const (
	FlowMargin    = 8.0
	OverlayZIndex = 10
)

// StyleFor derives the style hooks for o. flowFraction is the configured
// width cap for flow objects.
func StyleFor(o *Object, flowFraction float64) Style {
	s := Style{Opacity: o.Opacity, MaxWidthFraction: flowFraction, Margin: FlowMargin}
	switch o.WrapMode {
	case WrapLeft:
		s.Float = FloatLeft
	case WrapRight:
		s.Float = FloatRight
	case WrapCenter:
		s.Centered = true
	case Overlay:
		s.Absolute = true
		s.ZIndex = OverlayZIndex
		s.Margin = 0
		s.MaxWidthFraction = 1
	}
	return s
}
