package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithDelay(100 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("22"), 0o644))

	ev := next(t, w)
	assert.Equal(t, path, ev.Path)
	assert.True(t, ev.Op.Has(OpCreate))
	assert.False(t, ev.Op.Gone())

	select {
	case extra := <-w.Events():
		t.Fatalf("unexpected second event %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w, err := New(WithDelay(20 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	require.NoError(t, os.Remove(path))
	ev := next(t, w)
	assert.Equal(t, path, ev.Path)
	assert.True(t, ev.Op.Gone())
}

func TestWatcherFilters(t *testing.T) {
	dir := t.TempDir()
	w, err := New(
		WithDelay(20*time.Millisecond),
		WithIgnoreHidden(),
		WithFilter(func(p string) bool { return strings.HasSuffix(p, ".png") }),
	)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.png"), nil, 0o644))

	ev := next(t, w)
	assert.Equal(t, filepath.Join(dir, "keep.png"), ev.Path)
}

func TestWatcherFlush(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithDelay(time.Hour))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	path := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	assert.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		_, ok := w.pending[path]
		return ok
	}, 3*time.Second, 10*time.Millisecond)

	w.Flush()
	assert.Equal(t, path, next(t, w).Path)
}

func TestWatcherClose(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, w.Add(t.TempDir()), ErrClosed)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "RENAME", OpRename.String())
	assert.Equal(t, "Op(3)", (OpCreate | OpWrite).String())
}
