// Package pointer provides the pointer (mouse, pen, touch) event model.
//
// Positions are in content-area units. Backends convert from their own
// coordinate space (terminal cells, device pixels) before dispatching.
package pointer

import (
	"time"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
)

// Button represents a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonPrimary is the primary (left) button.
	ButtonPrimary
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonSecondary is the secondary (right) button.
	ButtonSecondary
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonMiddle:
		return "middle"
	case ButtonSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Action represents the type of pointer action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionDown indicates a button press.
	ActionDown
	// ActionMove indicates movement, with or without a button held.
	ActionMove
	// ActionUp indicates a button release.
	ActionUp
	// ActionCancel indicates the pointer capture was lost.
	ActionCancel
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Event represents a pointer input event.
type Event struct {
	// Position is the pointer location in content-area units.
	Position geom.Point

	// Button is the button involved. For moves it is the held button.
	Button Button

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers key.Modifier

	// Action is the type of pointer action.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// New creates an event stamped with the current time.
func New(action Action, pos geom.Point, button Button, mods key.Modifier) Event {
	return Event{
		Position:  pos,
		Button:    button,
		Modifiers: mods,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// Down is shorthand for a primary-button press.
func Down(x, y float64) Event {
	return New(ActionDown, geom.Point{X: x, Y: y}, ButtonPrimary, key.ModNone)
}

// Move is shorthand for a primary-button drag with the given modifiers.
func Move(x, y float64, mods key.Modifier) Event {
	return New(ActionMove, geom.Point{X: x, Y: y}, ButtonPrimary, mods)
}

// Up is shorthand for a primary-button release.
func Up(x, y float64) Event {
	return New(ActionUp, geom.Point{X: x, Y: y}, ButtonPrimary, key.ModNone)
}

// Cancel is shorthand for a lost pointer capture.
func Cancel() Event {
	return New(ActionCancel, geom.Point{}, ButtonNone, key.ModNone)
}
