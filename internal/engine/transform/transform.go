// Package transform captures pointer-driven move and resize operations.
//
// A Session lives from pointer-down over the selected object until
// pointer-up or cancellation. Every pointer move is turned into a proposal
// relative to the starting bounds, clamped by the constraint solver and
// applied immediately. There is no rollback: the last clamped state is
// final whether the session ends or is cancelled.
package transform

import (
	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/input/pointer"
)

// Mode is the interaction mode chosen through the toolbox or keyboard.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeMove
	ModeResize
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "none"
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "move":
		return ModeMove, true
	case "resize":
		return ModeResize, true
	case "none", "":
		return ModeNone, true
	}
	return ModeNone, false
}

// Session is one open interaction.
type Session struct {
	Target       string
	Mode         Mode
	StartPointer geom.Point
	StartBounds  geom.Rect

	obj *object.Object
}

// Manager owns the single open session.
type Manager struct {
	solver constraint.Solver
	open   *Session
}

// NewManager creates a manager using solver for every update.
func NewManager(solver constraint.Solver) *Manager {
	return &Manager{solver: solver}
}

// Open returns the open session.
func (m *Manager) Open() (Session, bool) {
	if m.open == nil {
		return Session{}, false
	}
	s := *m.open
	s.obj = nil
	return s, true
}

// Active reports whether a session is open.
func (m *Manager) Active() bool {
	return m.open != nil
}

// Begin opens a session over obj at the given pointer position. It is a
// no-op unless obj is selected, mode is Move or Resize and no session is
// already open.
func (m *Manager) Begin(obj *object.Object, mode Mode, at geom.Point) bool {
	if m.open != nil || obj == nil || !obj.Selected {
		return false
	}
	if mode != ModeMove && mode != ModeResize {
		return false
	}
	m.open = &Session{
		Target:       obj.ID,
		Mode:         mode,
		StartPointer: at,
		StartBounds:  obj.Bounds(),
		obj:          obj,
	}
	return true
}

// Update applies a pointer move. Resize sessions lock the aspect ratio
// while Shift is held. It returns the clamped rectangle applied to the
// target.
func (m *Manager) Update(ev pointer.Event, env constraint.Envelope) (geom.Rect, bool) {
	s := m.open
	if s == nil {
		return geom.Rect{}, false
	}
	delta := ev.Position.Sub(s.StartPointer)

	var r geom.Rect
	switch s.Mode {
	case ModeMove:
		r = m.solver.Move(s.StartBounds, delta, env)
	case ModeResize:
		r = m.solver.Resize(s.StartBounds, delta, env, ev.Modifiers.HasShift())
		s.obj.ExplicitSize = true
	default:
		return geom.Rect{}, false
	}
	s.obj.Apply(r)
	return r, true
}

// End closes the session, keeping the last clamped state.
func (m *Manager) End() (Session, bool) {
	return m.close()
}

// Cancel closes the session after capture loss or Escape. The target keeps
// its last clamped state.
func (m *Manager) Cancel() (Session, bool) {
	return m.close()
}

// Drop closes the session if it targets id, used when the target leaves
// the document.
func (m *Manager) Drop(id string) bool {
	if m.open == nil || m.open.Target != id {
		return false
	}
	m.open = nil
	return true
}

func (m *Manager) close() (Session, bool) {
	if m.open == nil {
		return Session{}, false
	}
	s := *m.open
	s.obj = nil
	m.open = nil
	return s, true
}
