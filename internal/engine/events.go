package engine

import (
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/engine/transform"
	"github.com/dshills/figurine/internal/event"
	"github.com/dshills/figurine/internal/event/topic"
)

// Notification topics.
const (
	TopicSelectionChanged topic.Topic = "selection.changed"
	TopicModeChanged      topic.Topic = "mode.changed"
	TopicObjectDiscovered topic.Topic = "object.discovered"
	TopicObjectRemoved    topic.Topic = "object.removed"
	TopicGeometryChanged  topic.Topic = "object.geometry.changed"
	TopicLayoutChanged    topic.Topic = "object.layout.changed"
	TopicOpacityChanged   topic.Topic = "object.opacity.changed"
	TopicAreaChanged      topic.Topic = "area.changed"
)

const eventSource = "engine"

// SelectionChanged is published on every selection transition. Empty ids
// mean no selection.
type SelectionChanged struct {
	Previous string
	Current  string
	Reason   string
}

// ModeChanged is published when the interaction mode changes.
type ModeChanged struct {
	Previous transform.Mode
	Current  transform.Mode
}

// ObjectDiscovered is published when an image is bound.
type ObjectDiscovered struct {
	Object object.Object
}

// ObjectRemoved is published when an object leaves the registry. Deleted
// is true for confirmed deletes issued through the engine.
type ObjectRemoved struct {
	ID      string
	Deleted bool
}

// GeometryChanged is published after an object's bounds change.
type GeometryChanged struct {
	ID     string
	Bounds geom.Rect
}

// LayoutChanged is published after a wrap mode switch.
type LayoutChanged struct {
	ID   string
	From object.WrapMode
	To   object.WrapMode
}

// OpacityChanged is published after an opacity change. Opacity is in the
// internal [0,1] form.
type OpacityChanged struct {
	ID      string
	Opacity float64
}

// AreaChanged is published after the content area is recomputed.
type AreaChanged struct {
	Area geom.Size
}

// outbox collects notifications produced under the engine lock.
type outbox []event.Enveloper

// post queues a typed notification.
func post[T any](o *outbox, t topic.Topic, payload T) {
	*o = append(*o, event.New(t, payload, eventSource))
}
