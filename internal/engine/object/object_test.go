package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/figurine/internal/engine/geom"
)

func TestWrapModeStringRoundTrip(t *testing.T) {
	for _, m := range []WrapMode{WrapLeft, WrapRight, WrapCenter, Overlay} {
		got, ok := ParseWrapMode(m.String())
		assert.True(t, ok, m.String())
		assert.Equal(t, m, got)
	}
	_, ok := ParseWrapMode("sideways")
	assert.False(t, ok)
}

func TestWrapModeIsFlow(t *testing.T) {
	assert.True(t, WrapLeft.IsFlow())
	assert.True(t, WrapRight.IsFlow())
	assert.True(t, WrapCenter.IsFlow())
	assert.False(t, Overlay.IsFlow())
}

func TestBoundsFlowAtOrigin(t *testing.T) {
	o := &Object{
		WrapMode: WrapLeft,
		Position: geom.Point{X: 40, Y: 30},
		Size:     geom.Size{W: 100, H: 80},
	}
	assert.Equal(t, geom.Rect{Width: 100, Height: 80}, o.Bounds())

	o.WrapMode = Overlay
	assert.Equal(t, geom.Rect{Left: 40, Top: 30, Width: 100, Height: 80}, o.Bounds())
}

func TestApply(t *testing.T) {
	o := &Object{WrapMode: WrapLeft}
	o.Apply(geom.Rect{Left: 10, Top: 10, Width: 60, Height: 70})
	assert.False(t, o.HasPosition)
	assert.Equal(t, geom.Point{}, o.Position)
	assert.Equal(t, geom.Size{W: 60, H: 70}, o.Size)

	o.WrapMode = Overlay
	o.Apply(geom.Rect{Left: 10, Top: 20, Width: 60, Height: 70})
	assert.True(t, o.HasPosition)
	assert.Equal(t, geom.Point{X: 10, Y: 20}, o.Position)
}

func TestOpacityScales(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		scale Scale
		want  float64
	}{
		{"unit", 0.4, ScaleUnit, 0.4},
		{"unit clamps high", 3, ScaleUnit, 1},
		{"editor floor", 0.02, ScaleEditor, 0.1},
		{"editor", 0.75, ScaleEditor, 0.75},
		{"percent", 50, ScalePercent, 0.5},
		{"percent clamps low", -5, ScalePercent, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ToInternal(tt.value, tt.scale), 1e-9)
		})
	}

	assert.InDelta(t, 25.0, FromInternal(0.25, ScalePercent), 1e-9)
	assert.InDelta(t, 0.1, FromInternal(0, ScaleEditor), 1e-9)
	assert.InDelta(t, 0.0, FromInternal(0, ScaleUnit), 1e-9)

	s, ok := ParseScale("percent")
	assert.True(t, ok)
	assert.Equal(t, ScalePercent, s)
}

func TestStyleFor(t *testing.T) {
	o := &Object{WrapMode: WrapRight, Opacity: 0.5}
	s := StyleFor(o, 0.6)
	assert.Equal(t, FloatRight, s.Float)
	assert.False(t, s.Absolute)
	assert.Equal(t, 0.6, s.MaxWidthFraction)
	assert.Equal(t, FlowMargin, s.Margin)
	assert.Equal(t, 0.5, s.Opacity)

	o.WrapMode = WrapCenter
	assert.True(t, StyleFor(o, 1).Centered)

	o.WrapMode = Overlay
	s = StyleFor(o, 0.6)
	assert.True(t, s.Absolute)
	assert.Equal(t, OverlayZIndex, s.ZIndex)
	assert.Equal(t, 1.0, s.MaxWidthFraction)
	assert.Zero(t, s.Margin)
}
