package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
	"github.com/dshills/figurine/internal/renderer/core"
)

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		in   *tcell.EventKey
		want key.Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModAlt), key.NewRuneEvent('m', key.ModAlt)},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyEscape, key.ModNone)},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyDelete, key.ModNone)},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyBackspace, key.ModNone)},
		{"ctrl arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl|tcell.ModShift), key.NewSpecialEvent(key.KeyRight, key.ModCtrl|key.ModShift)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertKey(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equals(got), "got %s want %s", got, tt.want)
		})
	}

	_, ok := convertKey(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone))
	assert.False(t, ok)
}

func TestMouseTransitions(t *testing.T) {
	var term Terminal
	conv := func(x, y int, b tcell.ButtonMask, m tcell.ModMask) Event {
		return term.convertEvent(tcell.NewEventMouse(x, y, b, m))
	}

	ev := conv(3, 4, tcell.ButtonNone, tcell.ModNone)
	assert.Equal(t, EventPointer, ev.Type)
	assert.Equal(t, pointer.ActionMove, ev.Pointer.Action)
	assert.Equal(t, pointer.ButtonNone, ev.Pointer.Button)

	ev = conv(3, 4, tcell.Button1, tcell.ModNone)
	assert.Equal(t, pointer.ActionDown, ev.Pointer.Action)
	assert.Equal(t, pointer.ButtonPrimary, ev.Pointer.Button)
	assert.Equal(t, geom.Point{X: 3, Y: 4}, ev.Pointer.Position)

	ev = conv(5, 6, tcell.Button1, tcell.ModShift)
	assert.Equal(t, pointer.ActionMove, ev.Pointer.Action)
	assert.Equal(t, pointer.ButtonPrimary, ev.Pointer.Button)
	assert.True(t, ev.Pointer.Modifiers.HasShift())

	ev = conv(5, 6, tcell.ButtonNone, tcell.ModNone)
	assert.Equal(t, pointer.ActionUp, ev.Pointer.Action)
	assert.Equal(t, pointer.ButtonPrimary, ev.Pointer.Button)

	ev = conv(5, 6, tcell.WheelUp, tcell.ModNone)
	assert.Equal(t, EventNone, ev.Type)
}

func TestConvertOtherEvents(t *testing.T) {
	var term Terminal
	ev := term.convertEvent(tcell.NewEventResize(80, 24))
	assert.Equal(t, Event{Type: EventResize, Width: 80, Height: 24}, ev)

	ev = term.convertEvent(tcell.NewEventInterrupt(42))
	assert.Equal(t, EventInterrupt, ev.Type)
	assert.Equal(t, 42, ev.Data)
}

func TestConvertStyle(t *testing.T) {
	s := core.DefaultStyle().
		WithForeground(core.ColorFromRGB(10, 20, 30)).
		With(core.AttrBold)
	fg, bg, attrs := convertStyle(s).Decompose()
	assert.Equal(t, tcell.NewRGBColor(10, 20, 30), fg)
	assert.Equal(t, tcell.ColorDefault, bg)
	assert.NotZero(t, attrs&tcell.AttrBold)
}

func TestTerminalOnSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	term := NewTerminalWithScreen(screen)
	require.NoError(t, term.Init())
	defer term.Shutdown()

	w, h := term.Size()
	require.Positive(t, w)
	require.Positive(t, h)

	term.Fill(core.RectFromSize(0, 0, h, w), core.NewStyledCell('.', core.DefaultStyle()))
	term.SetCell(1, 1, core.NewStyledCell('x', core.DefaultStyle().With(core.AttrBold)))
	term.Show()

	r, _, style, _ := screen.GetContent(1, 1)
	assert.Equal(t, 'x', r)
	_, _, attrs := style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)
	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, '.', r)

	// Init queues a resize of its own; skip past it.
	term.Interrupt("wake")
	ev := term.PollEvent()
	for ev.Type == EventResize {
		ev = term.PollEvent()
	}
	assert.Equal(t, EventInterrupt, ev.Type)
	assert.Equal(t, "wake", ev.Data)
}
