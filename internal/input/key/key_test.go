package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key    Key
		dx, dy int
		ok     bool
	}{
		{KeyUp, 0, -1, true},
		{KeyDown, 0, 1, true},
		{KeyLeft, -1, 0, true},
		{KeyRight, 1, 0, true},
		{KeyEnter, 0, 0, false},
		{KeyRune, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			dx, dy, ok := tt.key.Direction()
			assert.Equal(t, tt.dx, dx)
			assert.Equal(t, tt.dy, dy)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestModifierHas(t *testing.T) {
	tests := []struct {
		mod    Modifier
		check  Modifier
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModShift, ModCtrl, true},
		{ModCtrl | ModShift, ModCtrl | ModShift, true},
		{ModCtrl, ModCtrl | ModShift, false},
		{ModCtrl, ModNone, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, tt.mod.Has(tt.check), "Modifier(%d).Has(%d)", tt.mod, tt.check)
	}
}

func TestModifierString(t *testing.T) {
	assert.Equal(t, "", ModNone.String())
	assert.Equal(t, "Ctrl+Shift", (ModShift | ModCtrl).String())
	assert.Equal(t, ModCtrl|ModAlt, ParseModifiers("ctrl+ALT"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"Delete", Event{Key: KeyDelete}},
		{"<Del>", Event{Key: KeyDelete}},
		{"Escape", Event{Key: KeyEscape}},
		{"Alt+m", Event{Key: KeyRune, Rune: 'm', Modifiers: ModAlt}},
		{"<A-M>", Event{Key: KeyRune, Rune: 'm', Modifiers: ModAlt}},
		{"Ctrl+Up", Event{Key: KeyUp, Modifiers: ModCtrl}},
		{"Ctrl+Shift+Left", Event{Key: KeyLeft, Modifiers: ModCtrl | ModShift}},
		{"<C-S-Right>", Event{Key: KeyRight, Modifiers: ModCtrl | ModShift}},
		{"Alt+0", Event{Key: KeyRune, Rune: '0', Modifiers: ModAlt}},
		{"Space", Event{Key: KeyRune, Rune: ' '}},
		{"+", Event{Key: KeyRune, Rune: '+'}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.True(t, got.Equals(tt.want), "Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptySpec)

	_, err = Parse("Hyper+x")
	assert.ErrorIs(t, err, ErrInvalidSpec)

	_, err = Parse("Ctrl+nothing")
	assert.ErrorIs(t, err, ErrInvalidSpec)

	assert.Panics(t, func() { MustParse("<Q-x>") })
}

func TestEventMatches(t *testing.T) {
	ev := NewRuneEvent('M', ModAlt)
	assert.True(t, ev.Matches("Alt+m"))
	assert.False(t, ev.Matches("Alt+r"))

	arrow := NewSpecialEvent(KeyLeft, ModCtrl|ModShift)
	assert.True(t, arrow.Matches("Ctrl+Shift+Left"))
	assert.False(t, arrow.Matches("Ctrl+Left"))
	assert.True(t, arrow.WithoutModifier(ModShift).Matches("Ctrl+Left"))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "Alt+m", NewRuneEvent('m', ModAlt).String())
	assert.Equal(t, "Ctrl+Shift+Left", NewSpecialEvent(KeyLeft, ModCtrl|ModShift).String())
	assert.Equal(t, "Space", NewRuneEvent(' ', ModNone).String())
}
