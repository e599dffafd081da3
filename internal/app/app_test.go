package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/figurine/internal/config"
	"github.com/dshills/figurine/internal/config/loader"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
	"github.com/dshills/figurine/internal/renderer/backend"
)

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
}

type harness struct {
	app    *Application
	nb     *backend.NullBackend
	logs   *syncBuffer
	done   chan error
	exited chan struct{}
	stop   context.CancelFunc
}

func start(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 300, 200)

	nb := backend.NewNullBackend(80, 24)
	logs := &syncBuffer{}
	app, err := New(Options{Dir: dir, Backend: nb, LogOutput: logs, LogLevel: "debug"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{app: app, nb: nb, logs: logs, done: make(chan error, 1), exited: make(chan struct{}), stop: cancel}
	go func() {
		defer close(h.exited)
		h.done <- app.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-h.exited:
		case <-time.After(5 * time.Second):
			t.Error("Run did not exit")
		}
	})

	h.waitStatus(t, "1 objects")
	return h
}

func (h *harness) status() string {
	_, rows := h.nb.Size()
	return h.nb.Row(rows - 1)
}

func (h *harness) waitStatus(t *testing.T, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(h.status(), want)
	}, 5*time.Second, 10*time.Millisecond, "status never contained %q; last %q", want, h.status())
}

func (h *harness) key(r rune) {
	h.nb.PostEvent(backend.Event{Type: backend.EventKey, Key: key.NewRuneEvent(r, key.ModNone)})
}

// click presses and releases at a cell.
func (h *harness) click(col, row float64) {
	h.nb.PostEvent(backend.Event{Type: backend.EventPointer, Pointer: pointer.Down(col, row)})
	h.nb.PostEvent(backend.Event{Type: backend.EventPointer, Pointer: pointer.Up(col, row)})
}

func TestRunSelectEditDeleteQuit(t *testing.T) {
	h := start(t)
	assert.Contains(t, h.status(), "area 600x328")

	// Cell (10,5) maps to content (64,68), inside the 300x200 image.
	h.click(10, 5)
	h.waitStatus(t, "a.png wrap-left 100%")

	h.key('[')
	h.waitStatus(t, "a.png wrap-left 90%")

	h.key('o')
	h.waitStatus(t, "a.png overlay 90%")

	h.nb.PostEvent(backend.Event{Type: backend.EventKey, Key: key.NewSpecialEvent(key.KeyDelete, key.ModNone)})
	h.waitStatus(t, "delete a.png? (y/n)")
	h.key('y')
	h.waitStatus(t, "0 objects")

	h.key('q')
	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	assert.False(t, h.app.IsRunning())
	assert.Contains(t, h.logs.String(), "application initialized")
}

func TestDeleteDeclined(t *testing.T) {
	h := start(t)
	h.click(10, 5)
	h.waitStatus(t, "a.png")

	h.nb.PostEvent(backend.Event{Type: backend.EventKey, Key: key.NewSpecialEvent(key.KeyDelete, key.ModNone)})
	h.waitStatus(t, "(y/n)")
	h.key('n')
	h.waitStatus(t, "1 objects │ a.png wrap-left")
	assert.NotContains(t, h.status(), "(y/n)")
}

func TestFindSelectsBestMatch(t *testing.T) {
	h := start(t)

	h.key('/')
	h.key('z')
	h.waitStatus(t, "find: z (no match)")
	h.nb.PostEvent(backend.Event{Type: backend.EventKey, Key: key.NewSpecialEvent(key.KeyBackspace, key.ModNone)})
	h.key('p')
	h.key('n')
	h.waitStatus(t, "find: pn → a.png")
	h.nb.PostEvent(backend.Event{Type: backend.EventKey, Key: key.NewSpecialEvent(key.KeyEnter, key.ModNone)})
	h.waitStatus(t, "a.png wrap-left 100%")
	assert.NotContains(t, h.status(), "find:")

	sel, ok := h.app.Engine().Selection()
	assert.True(t, ok)
	assert.Equal(t, "a.png", sel)
}

func TestResizeUpdatesArea(t *testing.T) {
	h := start(t)
	h.nb.Resize(100, 31)
	h.waitStatus(t, "area 760x440")
}

func TestRunCancelledByContext(t *testing.T) {
	h := start(t)
	h.stop()
	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunTwice(t *testing.T) {
	h := start(t)
	assert.ErrorIs(t, h.app.Run(context.Background()), ErrAlreadyRunning)
}

func TestApplyConfigFailureShowsMessage(t *testing.T) {
	h := start(t)
	h.app.applyConfig(h.app.Config(), config.ErrInvalid)
	h.waitStatus(t, "reload")
}

func TestApplyConfigReconfigures(t *testing.T) {
	h := start(t)
	cfg := h.app.Config()
	cfg.Terminal.CellWidth = 10
	h.app.applyConfig(cfg, nil)
	h.waitStatus(t, "config reloaded")
	h.waitStatus(t, "area 760x328")
	assert.Equal(t, 10.0, h.app.Config().Terminal.CellWidth)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Options{ConfigPath: "figurine.ini", Backend: backend.NewNullBackend(10, 10)})
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "config", ie.Component)
	assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)

	_, err = New(Options{LogLevel: "loud", Backend: backend.NewNullBackend(10, 10)})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestOperationError(t *testing.T) {
	base := errors.New("boom")
	err := NewOperationError("delete", "a.png", base)
	assert.Equal(t, "delete a.png: boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "reload", NewOperationError("reload", "", nil).Error())
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 40, 30)
	writePNG(t, filepath.Join(dir, "a.png"), 1200, 600)

	app, err := New(Options{Dir: dir, Backend: backend.NewNullBackend(80, 24)})
	require.NoError(t, err)

	doc, err := app.Dump(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.Get(doc, "objects.#").Int())
	assert.Equal(t, 600.0, gjson.Get(doc, "area.width").Float())
	// Wider than the area, so fitted to its width.
	assert.Equal(t, 600.0, gjson.Get(doc, `objects.#(id=="a.png").bounds.width`).Float())
	assert.Equal(t, 300.0, gjson.Get(doc, `objects.#(id=="a.png").bounds.height`).Float())
	assert.False(t, app.Engine().Mounted())
}

func TestDumpMissingDir(t *testing.T) {
	app, err := New(Options{Dir: filepath.Join(t.TempDir(), "nope"), Backend: backend.NewNullBackend(80, 24)})
	require.NoError(t, err)
	_, err = app.Dump(context.Background())
	var oe *OperationError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "scan", oe.Op)
}
