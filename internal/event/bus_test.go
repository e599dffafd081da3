package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/figurine/internal/event/topic"
)

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBus(nil)

	var got []string
	sub, err := b.Subscribe("selection.*", func(env Envelope) {
		got = append(got, env.Payload.(string))
	})
	require.NoError(t, err)
	assert.True(t, sub.IsActive())
	assert.Equal(t, topic.Topic("selection.*"), sub.Topic())

	b.Publish(New[string]("selection.changed", "img-1", "test"))
	b.Publish(New[string]("mode.changed", "move", "test"))

	assert.Equal(t, []string{"img-1"}, got)
}

func TestDeliveryOrderFollowsSubscriptionOrder(t *testing.T) {
	b := NewBus(nil)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_, err := b.Subscribe("**", func(Envelope) { order = append(order, i) })
		require.NoError(t, err)
	}

	b.Publish(New("object.removed", 1, "test"))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := NewBus(nil)

	calls := 0
	sub, err := b.Subscribe("object.**", func(Envelope) { calls++ })
	require.NoError(t, err)

	b.Publish(New("object.geometry.changed", struct{}{}, "test"))
	sub.Cancel()
	sub.Cancel()
	b.Publish(New("object.geometry.changed", struct{}{}, "test"))

	assert.Equal(t, 1, calls)
	assert.False(t, sub.IsActive())
	assert.Equal(t, 0, b.Stats().Subscribers)
}

func TestPanickingHandlerIsRecovered(t *testing.T) {
	b := NewBus(nil)

	reached := false
	_, err := b.Subscribe("mode.changed", func(Envelope) { panic("boom") })
	require.NoError(t, err)
	_, err = b.Subscribe("mode.changed", func(Envelope) { reached = true })
	require.NoError(t, err)

	assert.NotPanics(t, func() { b.Publish(New("mode.changed", "resize", "test")) })
	assert.True(t, reached)
	assert.Equal(t, uint64(1), b.Stats().HandlerPanics)
}

func TestSubscribeErrors(t *testing.T) {
	b := NewBus(nil)

	_, err := b.Subscribe("a.b", nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = b.Subscribe("", func(Envelope) {})
	assert.ErrorIs(t, err, ErrInvalidTopic)

	sub, err := b.Subscribe("a.b", func(Envelope) {})
	require.NoError(t, err)
	b.Close()
	assert.False(t, sub.IsActive())

	_, err = b.Subscribe("a.b", func(Envelope) {})
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestEventMetadata(t *testing.T) {
	ev := New("area.changed", 42, "bounds")
	env := ev.Envelope()
	assert.NotEmpty(t, env.Metadata.ID)
	assert.Equal(t, "bounds", env.Metadata.Source)
	assert.False(t, env.Metadata.Timestamp.IsZero())
}
