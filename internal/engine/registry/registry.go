// Package registry binds embedded image nodes of the document surface to
// interactive objects.
package registry

import (
	"log/slog"
	"sync"

	"github.com/dshills/figurine/internal/engine/constraint"
	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/surface"
)

// Registry holds the bound objects in discovery order.
type Registry struct {
	mu sync.RWMutex

	solver constraint.Solver
	logger *slog.Logger

	objects map[string]*object.Object
	order   []string
}

// New creates an empty registry.
func New(solver constraint.Solver, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		solver:  solver,
		logger:  logger,
		objects: make(map[string]*object.Object),
	}
}

// Discover binds node if it is an image not yet bound. The new object is
// auto-scaled to the content width and then fitted into env without
// changing its aspect ratio. The bool result is true only on first
// discovery. Re-discovery returns the existing object untouched.
func (r *Registry) Discover(node surface.Node, env constraint.Envelope) (*object.Object, bool) {
	if node.Kind != surface.KindImage || node.ID == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if obj, ok := r.objects[node.ID]; ok {
		return obj, false
	}

	obj := &object.Object{
		ID:          node.ID,
		Source:      node.Source,
		Natural:     node.Natural,
		Size:        r.fit(node.Natural, env),
		WrapMode:    object.WrapLeft,
		FlowMode:    object.WrapLeft,
		Opacity:     1,
		Interactive: true,
	}
	r.objects[node.ID] = obj
	r.order = append(r.order, node.ID)

	r.logger.Debug("object discovered",
		"id", obj.ID,
		"natural", node.Natural.String(),
		"size", obj.Size.String(),
	)
	return obj, true
}

func (r *Registry) fit(natural geom.Size, env constraint.Envelope) geom.Size {
	size := r.solver.FitWidth(natural, env.Area)
	return r.solver.Refit(geom.Rect{Width: size.W, Height: size.H}, env).Size()
}

// Scan discovers every node and returns the newly bound objects.
func (r *Registry) Scan(nodes []surface.Node, env constraint.Envelope) []*object.Object {
	var bound []*object.Object
	for _, n := range nodes {
		if obj, ok := r.Discover(n, env); ok {
			bound = append(bound, obj)
		}
	}
	return bound
}

// Forget unbinds id. It reports whether the object was bound.
func (r *Registry) Forget(id string) (*object.Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[id]
	if !ok {
		return nil, false
	}
	delete(r.objects, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Debug("object forgotten", "id", id)
	return obj, true
}

// Get returns the bound object for id.
func (r *Registry) Get(id string) (*object.Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objects[id]
	return obj, ok
}

// All returns the bound objects in discovery order.
func (r *Registry) All() []*object.Object {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*object.Object, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

// Len returns the number of bound objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Event is the registry's interpretation of one surface mutation.
type Event struct {
	Object *object.Object
	// Removed is true when the object was unbound.
	Removed bool
}

// Apply interprets a structural mutation. Inserts of non-image nodes,
// already-bound images and removals of unknown nodes produce no event.
func (r *Registry) Apply(m surface.Mutation, env constraint.Envelope) (Event, bool) {
	switch m.Op {
	case surface.OpInsert:
		obj, ok := r.Discover(m.Node, env)
		if !ok {
			return Event{}, false
		}
		return Event{Object: obj}, true
	case surface.OpRemove:
		obj, ok := r.Forget(m.Node.ID)
		if !ok {
			return Event{}, false
		}
		return Event{Object: obj, Removed: true}, true
	}
	return Event{}, false
}
