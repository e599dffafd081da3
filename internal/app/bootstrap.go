package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dshills/figurine/internal/config"
	"github.com/dshills/figurine/internal/engine"
	"github.com/dshills/figurine/internal/logging"
	"github.com/dshills/figurine/internal/renderer"
	"github.com/dshills/figurine/internal/renderer/backend"
	"github.com/dshills/figurine/internal/renderer/core"
	"github.com/dshills/figurine/internal/surface"
	"github.com/dshills/figurine/internal/surface/imagedir"
)

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration, with command-line overrides
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.Dir != "" {
		cfg.Source.Dir = app.opts.Dir
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	app.cfg = cfg

	// 2. Logging
	app.logger, app.logCloser, err = openLogger(cfg.Logging, app.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Display backend
	app.backend = app.opts.Backend
	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		app.backend = term
	}

	// 4. Document surface and its directory feed
	vp := viewportFor(cfg)
	cols, rows := app.backend.Size()
	app.surface = surface.NewMemory(vp.ContainerSize(cols, rows))
	app.feed = imagedir.New(cfg.Source.Dir, app.surface,
		imagedir.WithLogger(app.logger),
		imagedir.WithDebounce(cfg.Source.Debounce.Std()),
	)

	// 5. Interaction engine
	kc, err := cfg.KeyboardConfig()
	if err != nil {
		return &InitError{Component: "keyboard", Err: err}
	}
	app.engine, err = engine.New(app.surface,
		engine.WithPadding(cfg.Engine.Padding),
		engine.WithDebounce(cfg.Engine.ResizeDebounce.Std()),
		engine.WithFlowWidthFraction(cfg.Engine.FlowWidthFraction),
		engine.WithKeyboard(kc),
		engine.WithConfirmer(engine.ConfirmFunc(app.confirm)),
		engine.WithLogger(app.logger),
	)
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}

	// 6. Renderer
	theme, err := themeFor(cfg.Terminal)
	if err != nil {
		return &InitError{Component: "renderer", Err: err}
	}
	app.renderer = renderer.New(app.backend, vp, theme)

	app.logger.Info("application initialized",
		slog.String("dir", cfg.Source.Dir),
		slog.String("config", app.opts.ConfigPath),
	)
	return nil
}

// openLogger builds the logger. The terminal belongs to the renderer, so
// without a log file or explicit writer log lines are dropped.
func openLogger(cfg config.LoggingConfig, override io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer
	out := override
	if out == nil {
		if cfg.File == "" {
			return logging.Discard(), nil, nil
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = format
	lc.Output = out
	lc.NoColor = true
	return logging.New(lc), closer, nil
}

func viewportFor(cfg config.Config) renderer.Viewport {
	return renderer.Viewport{
		CellW:   cfg.Terminal.CellWidth,
		CellH:   cfg.Terminal.CellHeight,
		Padding: cfg.Engine.Padding,
	}
}

func themeFor(tc config.TerminalConfig) (renderer.Theme, error) {
	var t renderer.Theme
	for _, c := range []struct {
		dst *core.Color
		hex string
	}{
		{&t.Background, tc.Background},
		{&t.Foreground, tc.Foreground},
		{&t.Object, tc.Object},
		{&t.Selected, tc.Selected},
	} {
		v, err := core.ColorFromHex(c.hex)
		if err != nil {
			return t, err
		}
		*c.dst = v
	}
	return t, nil
}
