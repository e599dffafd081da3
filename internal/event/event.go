package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/figurine/internal/event/topic"
)

// Event is a typed notification.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "selection.changed").
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// New creates an event with the given type and payload.
func New[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// Envelope is the type-erased form handed to handlers.
type Envelope struct {
	Topic    topic.Topic
	Payload  any
	Metadata Metadata
}

// Envelope converts the event to its type-erased form.
func (e Event[T]) Envelope() Envelope {
	return Envelope{Topic: e.Type, Payload: e.Payload, Metadata: e.Metadata}
}

// Enveloper is implemented by every Event[T].
type Enveloper interface {
	Envelope() Envelope
}
