// Package imagedir feeds a directory of pictures into a document surface.
//
// Every decodable image in the directory becomes an image node whose
// natural size comes from the file header. Plain text files become text
// nodes. Watching the directory turns file creation, rewrite and removal
// into surface mutations.
package imagedir

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	// Decoders registered with image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/logging"
	"github.com/dshills/figurine/internal/surface"
	"github.com/dshills/figurine/internal/watch"
)

// ErrUnsupported is returned by Probe for files that are neither images
// nor text.
var ErrUnsupported = errors.New("unsupported file")

var textExts = map[string]bool{".txt": true, ".md": true}

// Document is the part of a surface the feed writes to.
type Document interface {
	Insert(n surface.Node) (surface.Node, error)
	Remove(ctx context.Context, id string) error
	Node(id string) (surface.Node, bool)
}

// Probe builds the node for the file at path. The node ID is the file
// name, so a file keeps its identity across rewrites.
func Probe(path string) (surface.Node, error) {
	n := surface.Node{ID: filepath.Base(path), Source: path}
	if textExts[strings.ToLower(filepath.Ext(path))] {
		n.Kind = surface.KindText
		return n, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return n, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return n, fmt.Errorf("%w: %s", ErrUnsupported, path)
		}
		return n, fmt.Errorf("probing %s: %w", path, err)
	}
	if format == "" || cfg.Width <= 0 || cfg.Height <= 0 {
		return n, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	n.Kind = surface.KindImage
	n.Natural = geom.Size{W: float64(cfg.Width), H: float64(cfg.Height)}
	return n, nil
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) {
		f.logger = logging.WithComponent(l, "imagedir")
	}
}

// WithDebounce sets how long a file must be quiet before it is probed.
func WithDebounce(d time.Duration) Option {
	return func(f *Feed) {
		f.debounce = d
	}
}

// Feed mirrors a directory into a Document.
type Feed struct {
	dir      string
	doc      Document
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
}

// New creates a feed for dir.
func New(dir string, doc Document, opts ...Option) *Feed {
	f := &Feed{
		dir:      dir,
		doc:      doc,
		logger:   logging.Discard(),
		debounce: watch.DefaultDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dir returns the watched directory.
func (f *Feed) Dir() string {
	return f.dir
}

// Scan inserts every supported file in name order. Files that fail to
// probe are logged and skipped. It returns the number of nodes inserted.
func (f *Feed) Scan() (int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", f.dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	count := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if f.sync(filepath.Join(f.dir, e.Name())) {
			count++
		}
	}
	return count, nil
}

// Run watches the directory until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return errors.New("imagedir: already running")
	}
	f.running = true
	f.mu.Unlock()

	w, err := watch.New(watch.WithDelay(f.debounce), watch.WithIgnoreHidden())
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(f.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			f.handle(ctx, ev)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			f.logger.Warn("watch error", logging.Err(err))
		}
	}
}

func (f *Feed) handle(ctx context.Context, ev watch.Event) {
	id := filepath.Base(ev.Path)
	if ev.Op.Gone() {
		if _, err := os.Stat(ev.Path); err == nil {
			// Replaced in place by an editor.
			f.sync(ev.Path)
			return
		}
		f.remove(ctx, id)
		return
	}
	f.sync(ev.Path)
}

// sync inserts or refreshes the node for path. It reports whether a node
// was inserted.
func (f *Feed) sync(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	n, err := Probe(path)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			f.logger.Debug("skipping file", slog.String("path", path))
		} else {
			f.logger.Warn("probe failed", slog.String("path", path), logging.Err(err))
		}
		return false
	}

	if old, ok := f.doc.Node(n.ID); ok {
		if old == n {
			return false
		}
		f.remove(context.Background(), n.ID)
	}
	if _, err := f.doc.Insert(n); err != nil {
		f.logger.Warn("insert failed", slog.String("id", n.ID), logging.Err(err))
		return false
	}
	f.logger.Debug("inserted", slog.String("id", n.ID), slog.String("kind", n.Kind.String()))
	return true
}

func (f *Feed) remove(ctx context.Context, id string) {
	if err := f.doc.Remove(ctx, id); err != nil && !errors.Is(err, surface.ErrNodeNotFound) {
		f.logger.Warn("remove failed", slog.String("id", id), logging.Err(err))
	}
}
