// Package selection implements the single-selection state machine.
//
// The controller is either idle or holds exactly one selected object.
// Selecting while another object is selected swaps the two in one
// transition; observers never see an intermediate empty state.
package selection

import (
	"github.com/dshills/figurine/internal/engine/object"
)

// Reason explains why a selection changed.
type Reason uint8

const (
	ReasonClick Reason = iota
	ReasonClickOutside
	ReasonEscape
	ReasonDeleted
	ReasonRemoved
	ReasonProgrammatic
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonClick:
		return "click"
	case ReasonClickOutside:
		return "click-outside"
	case ReasonEscape:
		return "escape"
	case ReasonDeleted:
		return "deleted"
	case ReasonRemoved:
		return "removed"
	case ReasonProgrammatic:
		return "programmatic"
	default:
		return "unknown"
	}
}

// Lookup resolves object ids.
type Lookup interface {
	Get(id string) (*object.Object, bool)
}

// Change is one observable transition. An empty ID means no selection.
type Change struct {
	Previous string
	Current  string
	Reason   Reason
}

// Controller is the selection state machine. It is not safe for concurrent
// use; the engine serialises access.
type Controller struct {
	objects Lookup
	current string
}

// New creates an idle controller.
func New(objects Lookup) *Controller {
	return &Controller{objects: objects}
}

// Current returns the selected id.
func (c *Controller) Current() (string, bool) {
	return c.current, c.current != ""
}

// Select makes id the selected object. Non-interactive or unknown objects
// cannot be selected. Selecting the current object is not a transition.
func (c *Controller) Select(id string, reason Reason) (Change, bool) {
	obj, ok := c.objects.Get(id)
	if !ok || !obj.Interactive || id == c.current {
		return Change{}, false
	}

	prev := c.current
	if old, ok := c.objects.Get(prev); ok {
		old.Selected = false
	}
	obj.Selected = true
	c.current = id
	return Change{Previous: prev, Current: id, Reason: reason}, true
}

// Clear deselects the current object.
func (c *Controller) Clear(reason Reason) (Change, bool) {
	if c.current == "" {
		return Change{}, false
	}
	prev := c.current
	if old, ok := c.objects.Get(prev); ok {
		old.Selected = false
	}
	c.current = ""
	return Change{Previous: prev, Reason: reason}, true
}

// Click handles a click whose hit test found hit, or "" when the click
// landed outside every object.
func (c *Controller) Click(hit string) (Change, bool) {
	if hit == "" {
		return c.Clear(ReasonClickOutside)
	}
	return c.Select(hit, ReasonClick)
}

// Forget clears the selection if id was selected. The object itself may
// already be gone from the lookup.
func (c *Controller) Forget(id string, reason Reason) (Change, bool) {
	if id == "" || id != c.current {
		return Change{}, false
	}
	if obj, ok := c.objects.Get(id); ok {
		obj.Selected = false
	}
	c.current = ""
	return Change{Previous: id, Reason: reason}, true
}
