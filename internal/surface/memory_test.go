package surface

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
)

func receive(t *testing.T, ch <-chan Mutation) Mutation {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "stream closed")
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mutation")
		return Mutation{}
	}
}

func TestMemoryInsertAssignsID(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	n, err := m.Insert(Node{Kind: KindImage, Source: "a.png", Natural: geom.Size{W: 100, H: 80}})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)

	got := receive(t, m.Mutations())
	assert.Equal(t, OpInsert, got.Op)
	assert.Equal(t, n.ID, got.Node.ID)
}

func TestMemoryInsertDuplicate(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	_, err := m.Insert(Node{ID: "x", Kind: KindImage})
	require.NoError(t, err)
	_, err = m.Insert(Node{ID: "x", Kind: KindImage})
	assert.Error(t, err)
}

func TestMemoryImagesFiltersKinds(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	_, _ = m.Insert(Node{ID: "t", Kind: KindText})
	_, _ = m.Insert(Node{ID: "i1", Kind: KindImage})
	_, _ = m.Insert(Node{ID: "i2", Kind: KindImage})

	imgs := m.Images()
	require.Len(t, imgs, 2)
	assert.Equal(t, "i1", imgs[0].ID)
	assert.Equal(t, "i2", imgs[1].ID)
}

func TestMemoryRemove(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	_, _ = m.Insert(Node{ID: "i1", Kind: KindImage})
	receive(t, m.Mutations())

	require.NoError(t, m.Remove(context.Background(), "i1"))
	got := receive(t, m.Mutations())
	assert.Equal(t, OpRemove, got.Op)
	assert.Equal(t, "i1", got.Node.ID)

	err := m.Remove(context.Background(), "i1")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestMemoryProducersDoNotBlock(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	total := DefaultStreamBuffer * 3
	for i := 0; i < total; i++ {
		_, err := m.Insert(Node{Kind: KindImage})
		require.NoError(t, err)
	}
	for i := 0; i < total; i++ {
		receive(t, m.Mutations())
	}
}

func TestMemoryCloseDrainsThenCloses(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	_, _ = m.Insert(Node{ID: "i1", Kind: KindImage})
	m.Close()
	m.Close()

	got := receive(t, m.Mutations())
	assert.Equal(t, "i1", got.Node.ID)

	select {
	case _, ok := <-m.Mutations():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream not closed")
	}

	_, err := m.Insert(Node{Kind: KindImage})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStyles(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	require.NoError(t, m.InjectStyle("s", "sheet"))
	assert.ErrorIs(t, m.InjectStyle("s", "other"), ErrStyleExists)

	sheet, ok := m.Style("s")
	assert.True(t, ok)
	assert.Equal(t, "sheet", sheet)

	m.RemoveStyle("s")
	_, ok = m.Style("s")
	assert.False(t, ok)
}

func TestMemoryListeners(t *testing.T) {
	m := NewMemory(geom.Size{W: 800, H: 600})
	defer m.Close()

	var pointers, keys int
	var sizes []geom.Size
	ps := m.OnPointer(func(pointer.Event) { pointers++ })
	ks := m.OnKey(func(key.Event) { keys++ })
	rs := m.OnResize(func(s geom.Size) { sizes = append(sizes, s) })
	assert.Equal(t, 3, m.ListenerCount())

	m.DispatchPointer(pointer.Down(1, 1))
	m.DispatchKey(key.NewSpecialEvent(key.KeyEscape, key.ModNone))
	m.SetContainerSize(geom.Size{W: 400, H: 300})

	assert.Equal(t, 1, pointers)
	assert.Equal(t, 1, keys)
	assert.Equal(t, []geom.Size{{W: 400, H: 300}}, sizes)
	assert.Equal(t, geom.Size{W: 400, H: 300}, m.ContainerSize())

	ps.Cancel()
	ps.Cancel()
	ks.Cancel()
	rs.Cancel()
	assert.Zero(t, m.ListenerCount())

	m.DispatchPointer(pointer.Down(1, 1))
	assert.Equal(t, 1, pointers)
}
