// Package app wires the interaction engine to a terminal: it loads the
// configuration, feeds a directory of images into a document surface,
// routes backend input to the engine and redraws on every notification.
package app

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dshills/figurine/internal/config"
	"github.com/dshills/figurine/internal/engine"
	"github.com/dshills/figurine/internal/renderer"
	"github.com/dshills/figurine/internal/renderer/backend"
	"github.com/dshills/figurine/internal/surface"
	"github.com/dshills/figurine/internal/surface/imagedir"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means
	// defaults and environment only.
	ConfigPath string

	// Dir overrides the image directory from the configuration.
	Dir string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Backend is the display. Nil opens the controlling terminal.
	Backend backend.Backend

	// LogOutput overrides the configured log file.
	LogOutput io.Writer
}

// Application owns every component for one session.
type Application struct {
	opts Options

	mu      sync.Mutex
	cfg     config.Config
	message string

	logger    *slog.Logger
	logCloser io.Closer

	surface  *surface.Memory
	feed     *imagedir.Feed
	engine   *engine.Engine
	backend  backend.Backend
	renderer *renderer.Renderer

	running       atomic.Bool
	redrawPending atomic.Bool
}

// New loads the configuration and builds every component. Nothing touches
// the display until Run.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

// Engine returns the interaction engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// setMessage sets the status message shown after the summary.
func (app *Application) setMessage(msg string) {
	app.mu.Lock()
	app.message = msg
	app.mu.Unlock()
}

func (app *Application) close() {
	if app.engine != nil {
		app.engine.Unmount()
	}
	if app.surface != nil {
		app.surface.Close()
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}
