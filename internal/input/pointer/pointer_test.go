package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
)

func TestButtonString(t *testing.T) {
	tests := []struct {
		button   Button
		expected string
	}{
		{ButtonNone, "none"},
		{ButtonPrimary, "primary"},
		{ButtonMiddle, "middle"},
		{ButtonSecondary, "secondary"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.button.String())
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionNone, "none"},
		{ActionDown, "down"},
		{ActionMove, "move"},
		{ActionUp, "up"},
		{ActionCancel, "cancel"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.action.String())
	}
}

func TestShorthands(t *testing.T) {
	d := Down(3, 4)
	assert.Equal(t, ActionDown, d.Action)
	assert.Equal(t, geom.Point{X: 3, Y: 4}, d.Position)
	assert.Equal(t, ButtonPrimary, d.Button)
	assert.False(t, d.Timestamp.IsZero())

	m := Move(5, 6, key.ModShift)
	assert.True(t, m.Modifiers.HasShift())

	assert.Equal(t, ActionUp, Up(0, 0).Action)
	assert.Equal(t, ActionCancel, Cancel().Action)
}
