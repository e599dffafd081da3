// Package surface defines the boundary between the interaction engine and
// the document surface that owns text flow and the embedded image nodes.
//
// The engine consumes five capabilities: the container size, a scan of the
// image nodes already present, a push stream of structural mutations, a
// removal operation and style injection. Input arrives through listeners
// that return explicit Subscription handles.
package surface

import (
	"context"
	"errors"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
)

// Errors returned by surfaces.
var (
	// ErrNodeNotFound is returned when removing a node that is not present.
	ErrNodeNotFound = errors.New("node not found")

	// ErrStyleExists is returned when a style id is injected twice.
	ErrStyleExists = errors.New("style already injected")

	// ErrClosed is returned by operations on a closed surface.
	ErrClosed = errors.New("surface closed")
)

// Kind classifies document nodes.
type Kind uint8

const (
	KindOther Kind = iota
	KindText
	KindImage
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// Node is a document node as seen by the engine.
type Node struct {
	ID      string
	Kind    Kind
	Source  string
	Natural geom.Size
}

// Op is a structural mutation kind.
type Op uint8

const (
	OpInsert Op = iota + 1
	OpRemove
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Mutation is one structural change notification.
type Mutation struct {
	Op   Op
	Node Node
}

// Subscription is returned by listener registration. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// Container reports the current pixel dimensions of the content container.
type Container interface {
	ContainerSize() geom.Size
	// OnResize registers fn for container resize notifications.
	OnResize(fn func(geom.Size)) Subscription
}

// ImageSource exposes the embedded image nodes.
type ImageSource interface {
	// Images returns the image nodes currently in the document.
	Images() []Node
	// Mutations returns the structural change stream. The stream is
	// unbounded and cannot be restarted; it is closed when the surface
	// goes away.
	Mutations() <-chan Mutation
}

// Remover deletes nodes from the document.
type Remover interface {
	Remove(ctx context.Context, id string) error
}

// StyleInjector installs and removes shared style sheets.
type StyleInjector interface {
	InjectStyle(id, sheet string) error
	RemoveStyle(id string)
}

// InputSource delivers pointer and keyboard events.
type InputSource interface {
	OnPointer(fn func(pointer.Event)) Subscription
	OnKey(fn func(key.Event)) Subscription
}

// Surface is everything the engine needs from the document.
type Surface interface {
	Container
	ImageSource
	Remover
	StyleInjector
	InputSource
}
