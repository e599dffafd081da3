package event

import (
	"sync/atomic"

	"github.com/dshills/figurine/internal/event/topic"
)

// HandlerFunc receives delivered events.
type HandlerFunc func(env Envelope)

// Subscription is the handle returned by Subscribe.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// IsActive returns true until the subscription is cancelled.
	IsActive() bool

	// Cancel permanently stops delivery. Safe to call more than once.
	Cancel()
}

type subscription struct {
	id        string
	pattern   topic.Topic
	handler   HandlerFunc
	cancelled atomic.Bool
	onCancel  func(id string)
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }
func (s *subscription) IsActive() bool     { return !s.cancelled.Load() }

func (s *subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	if s.onCancel != nil {
		s.onCancel(s.id)
	}
}
