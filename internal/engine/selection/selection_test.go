package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/figurine/internal/engine/object"
)

type objects map[string]*object.Object

func (o objects) Get(id string) (*object.Object, bool) {
	obj, ok := o[id]
	return obj, ok
}

func newObjects(ids ...string) objects {
	o := objects{}
	for _, id := range ids {
		o[id] = &object.Object{ID: id, Interactive: true}
	}
	return o
}

func selectedCount(o objects) int {
	n := 0
	for _, obj := range o {
		if obj.Selected {
			n++
		}
	}
	return n
}

func TestSelectSwapIsAtomic(t *testing.T) {
	objs := newObjects("a", "b")
	c := New(objs)

	ch, ok := c.Select("a", ReasonClick)
	require.True(t, ok)
	assert.Equal(t, Change{Current: "a", Reason: ReasonClick}, ch)

	ch, ok = c.Select("b", ReasonClick)
	require.True(t, ok)
	assert.Equal(t, "a", ch.Previous)
	assert.Equal(t, "b", ch.Current)
	assert.False(t, objs["a"].Selected)
	assert.True(t, objs["b"].Selected)

	_, ok = c.Select("b", ReasonClick)
	assert.False(t, ok)
}

func TestSelectRejectsUnknownAndInert(t *testing.T) {
	objs := newObjects("a")
	objs["inert"] = &object.Object{ID: "inert"}
	c := New(objs)

	_, ok := c.Select("missing", ReasonClick)
	assert.False(t, ok)
	_, ok = c.Select("inert", ReasonClick)
	assert.False(t, ok)
	_, selected := c.Current()
	assert.False(t, selected)
}

func TestForgetClearsFlag(t *testing.T) {
	objs := newObjects("a")
	c := New(objs)
	c.Select("a", ReasonClick)

	_, ok := c.Forget("a", ReasonDeleted)
	require.True(t, ok)
	assert.False(t, objs["a"].Selected)
	assert.Zero(t, selectedCount(objs))
}

func TestClickOutsideClears(t *testing.T) {
	objs := newObjects("a")
	c := New(objs)
	c.Click("a")

	ch, ok := c.Click("")
	require.True(t, ok)
	assert.Equal(t, ReasonClickOutside, ch.Reason)
	assert.Equal(t, "a", ch.Previous)
	assert.False(t, objs["a"].Selected)

	_, ok = c.Click("")
	assert.False(t, ok)
}

func TestForget(t *testing.T) {
	objs := newObjects("a", "b")
	c := New(objs)
	c.Select("a", ReasonClick)

	_, ok := c.Forget("b", ReasonRemoved)
	assert.False(t, ok)

	delete(objs, "a")
	ch, ok := c.Forget("a", ReasonRemoved)
	require.True(t, ok)
	assert.Equal(t, ReasonRemoved, ch.Reason)
	_, selected := c.Current()
	assert.False(t, selected)
}

func TestSelectionExclusivity(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	objs := newObjects(ids...)
	c := New(objs)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			c.Click(ids[rng.Intn(len(ids))])
		case 1:
			c.Click("")
		case 2:
			c.Clear(ReasonEscape)
		}
		assert.LessOrEqual(t, selectedCount(objs), 1)
		if id, ok := c.Current(); ok {
			assert.True(t, objs[id].Selected)
		}
	}
}
