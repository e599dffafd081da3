package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/dshills/figurine/internal/engine/bounds"
	"github.com/dshills/figurine/internal/engine/keyboard"
	"github.com/dshills/figurine/internal/event"
)

// Default configuration values.
const (
	DefaultPadding           = bounds.DefaultPadding
	DefaultDebounce          = bounds.DefaultDebounce
	DefaultFlowWidthFraction = 1.0
)

// Confirmer asks the user to confirm a destructive operation. Confirm may
// block; it is called without the engine lock held.
type Confirmer interface {
	Confirm(ctx context.Context, objectID string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, objectID string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, objectID string) bool {
	return f(ctx, objectID)
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithPadding sets the padding subtracted from each side of the container.
func WithPadding(p float64) Option {
	return func(e *Engine) {
		if p >= 0 {
			e.padding = p
		}
	}
}

// WithDebounce sets the container resize debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.debounce = d
		}
	}
}

// WithFlowWidthFraction caps flow objects to a fraction of the content
// width.
func WithFlowWidthFraction(f float64) Option {
	return func(e *Engine) {
		e.flowFraction = f
	}
}

// WithKeyboard sets the key bindings, modifiers and nudge steps.
func WithKeyboard(cfg keyboard.Config) Option {
	return func(e *Engine) {
		e.keys = cfg
	}
}

// WithConfirmer sets the delete confirmation prompt. Without one every
// delete is declined.
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) {
		e.confirmer = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithBus publishes notifications on an existing bus instead of a private
// one.
func WithBus(b *event.Bus) Option {
	return func(e *Engine) {
		e.bus = b
	}
}
