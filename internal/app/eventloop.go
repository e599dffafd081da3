package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/figurine/internal/config"
	"github.com/dshills/figurine/internal/engine"
	"github.com/dshills/figurine/internal/event"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/logging"
	"github.com/dshills/figurine/internal/renderer/backend"
	"github.com/dshills/figurine/internal/renderer/statusline"
)

// redrawToken is the interrupt payload that asks for a new frame.
type redrawToken struct{}

// Run takes over the display and processes input until the user quits or
// ctx is cancelled. It returns nil on a normal quit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.close()

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer app.backend.Shutdown()

	cfg := app.Config()
	if !cfg.Terminal.Mouse {
		app.backend.DisableMouse()
	}
	app.resize(app.backend.Size())

	if n, err := app.feed.Scan(); err != nil {
		app.logger.Warn("scanning image directory", logging.Err(err))
		app.setMessage(err.Error())
	} else {
		app.logger.Info("scanned image directory", slog.Int("nodes", n))
	}

	if err := app.engine.Mount(); err != nil {
		return &InitError{Component: "engine", Err: err}
	}
	sub, err := app.engine.Subscribe("**", func(event.Envelope) { app.requestRedraw() })
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}
	defer sub.Cancel()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	app.spawn(ctx, &wg, "engine", app.engine.Run)
	if cfg.Source.Watch {
		app.spawn(ctx, &wg, "imagedir", app.feed.Run)
	}
	if app.opts.ConfigPath != "" {
		if w, err := config.NewWatcher(app.opts.ConfigPath, cfg, cfg.Source.Debounce.Std()); err != nil {
			app.logger.Warn("config watcher unavailable", logging.Err(err))
		} else {
			app.spawn(ctx, &wg, "config", func(ctx context.Context) error {
				return w.Run(ctx, app.applyConfig)
			})
		}
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		app.backend.Interrupt(nil)
	}()

	app.redraw()
	err = app.loop(ctx)
	cancel()
	wg.Wait()

	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// spawn runs fn until ctx ends and logs unexpected failures.
func (app *Application) spawn(ctx context.Context, wg *sync.WaitGroup, name string, fn func(context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error("background task failed", slog.String("task", name), logging.Err(err))
		}
	}()
}

func (app *Application) loop(ctx context.Context) error {
	for {
		ev := app.backend.PollEvent()
		if err := ctx.Err(); err != nil {
			return err
		}
		if ev.Type == backend.EventNone {
			return nil
		}
		if err := app.handleBackendEvent(ctx, ev); err != nil {
			return err
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		app.redraw()
	case backend.EventPointer:
		app.engine.HandlePointer(app.renderer.Viewport().Pointer(ev.Pointer))
	case backend.EventKey:
		return app.handleKey(ctx, ev.Key)
	case backend.EventInterrupt:
		if _, ok := ev.Data.(redrawToken); ok {
			app.redrawPending.Store(false)
			app.redraw()
		}
	}
	return nil
}

func (app *Application) handleKey(ctx context.Context, ev key.Event) error {
	if ev.Key == key.KeyRune && ev.Rune == 'c' && ev.Modifiers == key.ModCtrl {
		return ErrQuit
	}

	handled, err := app.engine.HandleKey(ctx, ev)
	if err != nil {
		sel, _ := app.engine.Selection()
		opErr := NewOperationError("delete", sel, err)
		app.logger.Warn("key command failed", logging.Err(opErr))
		app.setMessage(opErr.Error())
		app.requestRedraw()
		return nil
	}
	if handled {
		return nil
	}

	if ev.Key != key.KeyRune || !ev.Modifiers.IsEmpty() {
		return nil
	}
	switch ev.Rune {
	case 'q':
		return ErrQuit
	case '/':
		app.find(ctx)
		return nil
	}
	if app.toolbox(ev.Rune) {
		app.setMessage("")
	}
	return nil
}

// resize reports a new display size to the surface.
func (app *Application) resize(cols, rows int) {
	app.surface.SetContainerSize(app.renderer.Viewport().ContainerSize(cols, rows))
}

// requestRedraw asks the event loop for a frame. At most one request is
// queued at a time.
func (app *Application) requestRedraw() {
	if app.redrawPending.CompareAndSwap(false, true) {
		app.backend.Interrupt(redrawToken{})
	}
}

func (app *Application) redraw() {
	snap := app.engine.Snapshot()
	doc, err := snap.JSON()
	if err != nil {
		app.logger.Warn("snapshot", logging.Err(err))
		doc = "{}"
	}
	app.mu.Lock()
	msg := app.message
	app.mu.Unlock()
	app.renderer.Draw(snap, statusline.Format(doc, msg))
}

// applyConfig installs a reloaded configuration. The padding is fixed for
// the life of the engine; every other setting takes effect immediately.
func (app *Application) applyConfig(cfg config.Config, err error) {
	defer app.requestRedraw()
	if err != nil {
		app.logger.Warn("config reload failed", logging.Err(err))
		app.setMessage(NewOperationError("reload", app.opts.ConfigPath, err).Error())
		return
	}

	kc, err := cfg.KeyboardConfig()
	if err == nil {
		err = app.engine.Reconfigure(engine.Tunables{
			Keyboard:          kc,
			Debounce:          cfg.Engine.ResizeDebounce.Std(),
			FlowWidthFraction: cfg.Engine.FlowWidthFraction,
		})
	}
	if err != nil {
		app.setMessage(NewOperationError("reload", app.opts.ConfigPath, err).Error())
		return
	}

	if theme, err := themeFor(cfg.Terminal); err == nil {
		app.renderer.SetTheme(theme)
	}
	cfg.Engine.Padding = app.Config().Engine.Padding
	app.renderer.SetViewport(viewportFor(cfg))
	app.resize(app.backend.Size())

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()
	app.setMessage(fmt.Sprintf("config reloaded from %s", app.opts.ConfigPath))
	app.logger.Info("config reloaded")
}
