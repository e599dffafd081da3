package affordance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInjector struct {
	sheets  map[string]string
	removed int
	fail    error
}

func newFakeInjector() *fakeInjector {
	return &fakeInjector{sheets: make(map[string]string)}
}

func (f *fakeInjector) InjectStyle(id, sheet string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sheets[id] = sheet
	return nil
}

func (f *fakeInjector) RemoveStyle(id string) {
	delete(f.sheets, id)
	f.removed++
}

func TestAcquireRelease(t *testing.T) {
	inj := newFakeInjector()
	scope, err := Acquire(inj)
	require.NoError(t, err)

	sheet, ok := inj.sheets[StyleID]
	require.True(t, ok)
	assert.Contains(t, sheet, "."+ClassSelected+" {")
	assert.Contains(t, sheet, "cursor: move;")

	scope.Release()
	scope.Release()
	assert.Empty(t, inj.sheets)
	assert.Equal(t, 1, inj.removed)
}

func TestAcquireFailure(t *testing.T) {
	inj := newFakeInjector()
	inj.fail = errors.New("boom")
	scope, err := Acquire(inj)
	assert.Error(t, err)
	assert.Nil(t, scope)

	// A nil scope releases safely.
	scope.Release()
	assert.Zero(t, inj.removed)
}

func TestSheetStableOrder(t *testing.T) {
	rules := []Rule{{Class: "a", Properties: map[string]string{"z": "1", "b": "2"}}}
	assert.Equal(t, ".a { b: 2; z: 1; }\n", Sheet(rules))
}
