package surface

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
)

// DefaultStreamBuffer is the mutation channel capacity of a Memory surface.
const DefaultStreamBuffer = 256

// Memory is an in-process document surface. It backs the terminal demo
// and the tests: callers insert and remove nodes, resize the container and
// dispatch input, and Memory turns those into the notifications the engine
// consumes.
type Memory struct {
	mu sync.Mutex

	size   geom.Size
	nodes  []Node
	styles map[string]string

	mutations chan Mutation
	queue     []Mutation
	wake      chan struct{}
	closed    bool

	listeners listenerSet
}

// NewMemory creates a surface with the given container size.
func NewMemory(size geom.Size) *Memory {
	m := &Memory{
		size:      size,
		styles:    make(map[string]string),
		mutations: make(chan Mutation, DefaultStreamBuffer),
		wake:      make(chan struct{}, 1),
		listeners: newListenerSet(),
	}
	go m.pump()
	return m
}

// pump forwards queued mutations to the stream so producers never block on
// a slow consumer.
func (m *Memory) pump() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			if m.closed {
				m.mu.Unlock()
				close(m.mutations)
				return
			}
			m.mu.Unlock()
			<-m.wake
			continue
		}
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		m.mutations <- next
	}
}

// enqueue must be called with m.mu held.
func (m *Memory) enqueue(mut Mutation) {
	m.queue = append(m.queue, mut)
	m.signal()
}

func (m *Memory) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// ContainerSize implements Container.
func (m *Memory) ContainerSize() geom.Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// SetContainerSize resizes the container and notifies resize listeners.
func (m *Memory) SetContainerSize(size geom.Size) {
	m.mu.Lock()
	m.size = size
	m.mu.Unlock()

	for _, fn := range m.listeners.resizeFuncs() {
		fn(size)
	}
}

// OnResize implements Container.
func (m *Memory) OnResize(fn func(geom.Size)) Subscription {
	return m.listeners.add(fn)
}

// Insert adds a node and publishes an insert mutation. A node without an
// ID gets a fresh one. The returned node carries the assigned ID.
func (m *Memory) Insert(n Node) (Node, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Node{}, ErrClosed
	}
	for _, existing := range m.nodes {
		if existing.ID == n.ID {
			return Node{}, fmt.Errorf("insert %s: duplicate node id", n.ID)
		}
	}
	m.nodes = append(m.nodes, n)
	m.enqueue(Mutation{Op: OpInsert, Node: n})
	return n, nil
}

// Remove implements Remover and publishes a remove mutation.
func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for i, n := range m.nodes {
		if n.ID == id {
			m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
			m.enqueue(Mutation{Op: OpRemove, Node: n})
			return nil
		}
	}
	return fmt.Errorf("remove %s: %w", id, ErrNodeNotFound)
}

// Node returns the node with the given id.
func (m *Memory) Node(id string) (Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Images implements ImageSource.
func (m *Memory) Images() []Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Node
	for _, n := range m.nodes {
		if n.Kind == KindImage {
			out = append(out, n)
		}
	}
	return out
}

// Mutations implements ImageSource.
func (m *Memory) Mutations() <-chan Mutation {
	return m.mutations
}

// InjectStyle implements StyleInjector.
func (m *Memory) InjectStyle(id, sheet string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.styles[id]; ok {
		return fmt.Errorf("inject %s: %w", id, ErrStyleExists)
	}
	m.styles[id] = sheet
	return nil
}

// RemoveStyle implements StyleInjector.
func (m *Memory) RemoveStyle(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.styles, id)
}

// Style returns an injected sheet.
func (m *Memory) Style(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.styles[id]
	return s, ok
}

// OnPointer implements InputSource.
func (m *Memory) OnPointer(fn func(pointer.Event)) Subscription {
	return m.listeners.add(fn)
}

// OnKey implements InputSource.
func (m *Memory) OnKey(fn func(key.Event)) Subscription {
	return m.listeners.add(fn)
}

// DispatchPointer delivers ev to every pointer listener.
func (m *Memory) DispatchPointer(ev pointer.Event) {
	for _, fn := range m.listeners.pointerFuncs() {
		fn(ev)
	}
}

// DispatchKey delivers ev to every key listener.
func (m *Memory) DispatchKey(ev key.Event) {
	for _, fn := range m.listeners.keyFuncs() {
		fn(ev)
	}
}

// ListenerCount returns the number of live listeners of every kind.
func (m *Memory) ListenerCount() int {
	return m.listeners.count()
}

// Close ends the mutation stream once queued mutations are delivered.
// Further inserts and removals fail.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.signal()
}
