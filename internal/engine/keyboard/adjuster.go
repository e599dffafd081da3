// Package keyboard turns key events into discrete adjustments of the
// selected object: mode switches, nudges, reset, layout toggle, delete and
// cancel.
//
// The Adjuster resolves events into Actions and applies the geometric ones
// through the constraint solver. Selection, confirmation and notification
// are the caller's business.
package keyboard

import (
	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/engine/transform"
	"github.com/dshills/figurine/internal/input/key"
)

// Default nudge steps.
const (
	DefaultCoarseStep = 10.0
	DefaultFineStep   = 2.0
)

// Config configures an Adjuster.
type Config struct {
	Bindings Bindings

	// Precision must be held for arrow keys to nudge.
	Precision key.Modifier
	// Fine selects the fine step when held together with Precision.
	Fine key.Modifier

	CoarseStep float64
	FineStep   float64
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Bindings:   DefaultBindings(),
		Precision:  key.ModCtrl,
		Fine:       key.ModShift,
		CoarseStep: DefaultCoarseStep,
		FineStep:   DefaultFineStep,
	}
}

// Action is a resolved key event. Delta is set for nudges and holds the
// signed step per axis.
type Action struct {
	Command Command
	Delta   geom.Point
}

// Adjuster resolves and applies keyboard adjustments.
type Adjuster struct {
	solver   constraint.Solver
	cfg      Config
	bindings []binding
}

// New creates an adjuster. Invalid bindings are reported as errors.
func New(solver constraint.Solver, cfg Config) (*Adjuster, error) {
	a := &Adjuster{solver: solver}
	if err := a.Configure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Configure replaces the configuration. Zero steps and modifiers fall back
// to the defaults. On error the previous configuration stays in effect.
func (a *Adjuster) Configure(cfg Config) error {
	def := DefaultConfig()
	if cfg.Bindings == nil {
		cfg.Bindings = def.Bindings
	}
	if cfg.Precision == key.ModNone {
		cfg.Precision = def.Precision
	}
	if cfg.Fine == key.ModNone {
		cfg.Fine = def.Fine
	}
	if cfg.CoarseStep <= 0 {
		cfg.CoarseStep = def.CoarseStep
	}
	if cfg.FineStep <= 0 {
		cfg.FineStep = def.FineStep
	}

	compiled, err := cfg.Bindings.compile()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.bindings = compiled
	return nil
}

// Config returns the active configuration.
func (a *Adjuster) Config() Config {
	return a.cfg
}

// Resolve maps ev to an action. Arrow keys without the precision modifier
// resolve to nothing.
func (a *Adjuster) Resolve(ev key.Event) (Action, bool) {
	if dx, dy, ok := ev.Key.Direction(); ok {
		step, ok := a.step(ev.Modifiers)
		if !ok {
			return Action{}, false
		}
		return Action{
			Command: CmdNudge,
			Delta:   geom.Point{X: float64(dx) * step, Y: float64(dy) * step},
		}, true
	}

	for _, b := range a.bindings {
		if ev.Equals(b.event) {
			return Action{Command: b.command}, true
		}
	}
	return Action{}, false
}

// step returns the nudge step for mods. Only the precision modifier alone
// or together with the fine modifier is accepted.
func (a *Adjuster) step(mods key.Modifier) (float64, bool) {
	switch mods {
	case a.cfg.Precision:
		return a.cfg.CoarseStep, true
	case a.cfg.Precision.With(a.cfg.Fine):
		return a.cfg.FineStep, true
	}
	return 0, false
}

// Nudge applies a nudge to obj. In Move mode delta shifts the position; in
// Resize mode the vertical component changes the height and the horizontal
// one the width. Nothing happens in any other mode.
func (a *Adjuster) Nudge(obj *object.Object, mode transform.Mode, delta geom.Point, env constraint.Envelope) (geom.Rect, bool) {
	if obj == nil {
		return geom.Rect{}, false
	}
	var r geom.Rect
	switch mode {
	case transform.ModeMove:
		r = a.solver.Move(obj.Bounds(), delta, env)
	case transform.ModeResize:
		r = a.solver.Resize(obj.Bounds(), delta, env, false)
		obj.ExplicitSize = true
	default:
		return geom.Rect{}, false
	}
	obj.Apply(r)
	return r, true
}

// Reset restores obj. In Move mode the position returns to (0,0); in
// Resize mode the explicit size is dropped and the object falls back to
// its auto-scaled natural size.
func (a *Adjuster) Reset(obj *object.Object, mode transform.Mode, env constraint.Envelope) (geom.Rect, bool) {
	if obj == nil {
		return geom.Rect{}, false
	}
	var r geom.Rect
	switch mode {
	case transform.ModeMove:
		obj.Position = geom.Point{}
		r = a.solver.Clamp(constraint.MoveTo(geom.Point{}), obj.Bounds(), env, false)
	case transform.ModeResize:
		obj.ExplicitSize = false
		size := a.solver.FitWidth(obj.Natural, env.Area)
		r = a.solver.Clamp(constraint.ResizeTo(size), obj.Bounds(), env, true)
	default:
		return geom.Rect{}, false
	}
	obj.Apply(r)
	return r, true
}
