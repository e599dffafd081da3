package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
)

var area = geom.Size{W: 760, H: 560}

func flowObject(id string, w, h float64) *object.Object {
	return &object.Object{
		ID:       id,
		Size:     geom.Size{W: w, H: h},
		WrapMode: object.WrapLeft,
		FlowMode: object.WrapLeft,
		Opacity:  1,
	}
}

func TestFirstOverlayEntryDefaultsToOrigin(t *testing.T) {
	s := NewSwitcher(constraint.New(), 1)
	obj := flowObject("a", 200, 100)

	ch, ok := s.Toggle(obj, area)
	require.True(t, ok)
	assert.Equal(t, object.WrapLeft, ch.From)
	assert.Equal(t, object.Overlay, ch.To)
	assert.True(t, obj.HasPosition)
	assert.Equal(t, geom.Point{}, obj.Position)
}

func TestRoundTripPreservesPositionAndOpacity(t *testing.T) {
	s := NewSwitcher(constraint.New(), 1)
	obj := flowObject("a", 200, 100)
	obj.Opacity = 0.35

	s.Toggle(obj, area)
	obj.Position = geom.Point{X: 120, Y: 90}

	s.Toggle(obj, area)
	assert.Equal(t, object.WrapLeft, obj.WrapMode)
	assert.Equal(t, 0.35, obj.Opacity)

	s.Toggle(obj, area)
	assert.Equal(t, object.Overlay, obj.WrapMode)
	assert.Equal(t, geom.Point{X: 120, Y: 90}, obj.Position)
	assert.Equal(t, 0.35, obj.Opacity)
}

func TestLeavingOverlayRestoresLastFlowMode(t *testing.T) {
	s := NewSwitcher(constraint.New(), 1)
	obj := flowObject("a", 200, 100)

	_, ok := s.Set(obj, object.WrapRight, area)
	require.True(t, ok)
	s.Toggle(obj, area)
	s.Toggle(obj, area)
	assert.Equal(t, object.WrapRight, obj.WrapMode)

	_, ok = s.Set(obj, object.WrapRight, area)
	assert.False(t, ok)
}

func TestOverlayEntryClamps(t *testing.T) {
	s := NewSwitcher(constraint.New(), 1)
	obj := flowObject("a", 200, 100)
	obj.Position = geom.Point{X: 700, Y: 500}
	obj.HasPosition = true

	ch, _ := s.Set(obj, object.Overlay, area)
	assert.Equal(t, geom.Rect{Left: 560, Top: 460, Width: 200, Height: 100}, ch.Bounds)
	assert.True(t, obj.Bounds().Within(area, 1e-9))
}

func TestFlowEntryCapsWidth(t *testing.T) {
	s := NewSwitcher(constraint.New(), 0.5)
	obj := flowObject("a", 200, 100)
	obj.WrapMode = object.Overlay
	obj.Size = geom.Size{W: 600, H: 100}

	s.Set(obj, object.WrapCenter, area)
	assert.Equal(t, 380.0, obj.Size.W)
	assert.Equal(t, object.WrapCenter, obj.FlowMode)
}

func TestSetFlowFraction(t *testing.T) {
	s := NewSwitcher(constraint.New(), 0)
	assert.Equal(t, 1.0, s.FlowFraction())
	s.SetFlowFraction(0.25)
	assert.Equal(t, 0.25, s.FlowFraction())
	s.SetFlowFraction(4)
	assert.Equal(t, 1.0, s.FlowFraction())
}

func TestPlaceAndHitTest(t *testing.T) {
	s := NewSwitcher(constraint.New(), 1)
	left := flowObject("left", 200, 100)
	right := flowObject("right", 200, 100)
	right.WrapMode = object.WrapRight
	center := flowObject("center", 160, 60)
	center.WrapMode = object.WrapCenter
	over := flowObject("over", 100, 100)
	over.WrapMode = object.Overlay
	over.Position = geom.Point{X: 50, Y: 50}

	ps := s.Place([]*object.Object{over, left, right, center}, area)
	require.Len(t, ps, 4)

	assert.Equal(t, "left", ps[0].ID)
	assert.Equal(t, geom.Rect{Width: 200, Height: 100}, ps[0].Rect)
	assert.Equal(t, "right", ps[1].ID)
	assert.Equal(t, geom.Rect{Left: 560, Top: 108, Width: 200, Height: 100}, ps[1].Rect)
	assert.Equal(t, "center", ps[2].ID)
	assert.Equal(t, geom.Rect{Left: 300, Top: 216, Width: 160, Height: 60}, ps[2].Rect)
	assert.Equal(t, "over", ps[3].ID)
	assert.True(t, ps[3].Style.Absolute)

	id, ok := HitTest(ps, geom.Point{X: 60, Y: 60})
	require.True(t, ok)
	assert.Equal(t, "over", id, "overlay is above flow")

	id, ok = HitTest(ps, geom.Point{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, "left", id)

	_, ok = HitTest(ps, geom.Point{X: 700, Y: 500})
	assert.False(t, ok)
}

func TestDiscoveryEnvelope(t *testing.T) {
	s := NewSwitcher(constraint.New(), 0.5)
	env := s.DiscoveryEnvelope(geom.Size{W: 760, H: 560})
	assert.True(t, env.Flow)
	assert.Equal(t, 0.5, env.FlowWidthFraction)
	assert.Equal(t, geom.Size{W: 760, H: 560}, env.Area)
}
