package imagedir

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/surface"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeBMP(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, bmp.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "a.png")
	bmpPath := filepath.Join(dir, "b.bmp")
	txtPath := filepath.Join(dir, "notes.md")
	binPath := filepath.Join(dir, "blob.bin")
	writePNG(t, pngPath, 300, 200)
	writeBMP(t, bmpPath, 40, 60)
	require.NoError(t, os.WriteFile(txtPath, []byte("# hi"), 0o644))
	require.NoError(t, os.WriteFile(binPath, []byte{1, 2, 3}, 0o644))

	n, err := Probe(pngPath)
	require.NoError(t, err)
	assert.Equal(t, surface.Node{ID: "a.png", Kind: surface.KindImage, Source: pngPath, Natural: geom.Size{W: 300, H: 200}}, n)

	n, err = Probe(bmpPath)
	require.NoError(t, err)
	assert.Equal(t, geom.Size{W: 40, H: 60}, n.Natural)

	n, err = Probe(txtPath)
	require.NoError(t, err)
	assert.Equal(t, surface.KindText, n.Kind)

	_, err = Probe(binPath)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 10, 10)
	writePNG(t, filepath.Join(dir, "a.png"), 20, 20)
	writePNG(t, filepath.Join(dir, ".hidden.png"), 20, 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	mem := surface.NewMemory(geom.Size{W: 640, H: 480})
	defer mem.Close()

	feed := New(dir, mem)
	count, err := feed.Scan()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	imgs := mem.Images()
	require.Len(t, imgs, 2)
	assert.Equal(t, "a.png", imgs[0].ID)
	assert.Equal(t, "b.png", imgs[1].ID)

	count, err = feed.Scan()
	require.NoError(t, err)
	assert.Zero(t, count, "unchanged files are not reinserted")
}

func TestScanMissingDir(t *testing.T) {
	mem := surface.NewMemory(geom.Size{})
	defer mem.Close()
	_, err := New(filepath.Join(t.TempDir(), "nope"), mem).Scan()
	assert.Error(t, err)
}

func TestRunMirrorsChanges(t *testing.T) {
	dir := t.TempDir()
	mem := surface.NewMemory(geom.Size{W: 640, H: 480})
	defer mem.Close()

	feed := New(dir, mem, WithDebounce(20*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	path := filepath.Join(dir, "pic.png")
	// Give the watcher time to register before writing.
	assert.Eventually(t, func() bool {
		writePNG(t, path, 50, 40)
		_, ok := mem.Node("pic.png")
		return ok
	}, 5*time.Second, 100*time.Millisecond)

	writePNG(t, path, 80, 40)
	assert.Eventually(t, func() bool {
		n, ok := mem.Node("pic.png")
		return ok && n.Natural.W == 80
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool {
		_, ok := mem.Node("pic.png")
		return !ok
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
