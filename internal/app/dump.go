package app

import (
	"context"
	"log/slog"
)

// Dump scans the image directory, mounts the engine and returns the
// resulting snapshot as JSON without touching the display. The
// application is closed afterwards.
func (app *Application) Dump(ctx context.Context) (string, error) {
	if !app.running.CompareAndSwap(false, true) {
		return "", ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.close()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	n, err := app.feed.Scan()
	if err != nil {
		return "", NewOperationError("scan", app.feed.Dir(), err)
	}
	app.logger.Debug("scanned image directory", slog.Int("nodes", n))

	if err := app.engine.Mount(); err != nil {
		return "", &InitError{Component: "engine", Err: err}
	}
	return app.engine.Snapshot().JSON()
}
