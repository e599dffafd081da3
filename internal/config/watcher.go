package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dshills/figurine/internal/config/loader"
	"github.com/dshills/figurine/internal/watch"
)

// ReloadFunc receives the result of every reload. On error cfg holds the
// last good configuration.
type ReloadFunc func(cfg Config, err error)

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	path string
	fsys loader.FileSystem
	w    *watch.Watcher
	last Config
}

// NewWatcher watches the file at path. Editors often replace files
// rather than write them, so the parent directory is watched and events
// are filtered by name.
func NewWatcher(path string, current Config, delay time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := watch.New(
		watch.WithDelay(delay),
		watch.WithFilter(func(p string) bool { return filepath.Clean(p) == abs }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching config: %w", err)
	}
	return &Watcher{path: abs, fsys: loader.DefaultFS(), w: w, last: current}, nil
}

// Run reloads on every change until ctx is cancelled. A removed file is
// ignored; the last good configuration stays in effect.
func (cw *Watcher) Run(ctx context.Context, fn ReloadFunc) error {
	defer cw.w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-cw.w.Events():
			if !ok {
				return nil
			}
			if ev.Op.Gone() {
				continue
			}
			cfg, err := LoadWith(cw.fsys, cw.path)
			if err != nil {
				fn(cw.last, err)
				continue
			}
			cw.last = cfg
			fn(cfg, nil)
		case err, ok := <-cw.w.Errors():
			if !ok {
				return nil
			}
			fn(cw.last, err)
		}
	}
}

// Close stops watching. Run returns once its context is done or the
// event stream closes.
func (cw *Watcher) Close() error {
	return cw.w.Close()
}
