package engine

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/engine/transform"
)

// Snapshot is a consistent view of the engine for the toolbox and for
// diagnostics.
type Snapshot struct {
	Area      geom.Size
	Selection string
	Mode      transform.Mode
	// Session is set while a pointer session is open.
	Session *transform.Session
	Objects []ObjectState
}

// ObjectState is one object in a Snapshot. Bounds is where the object is
// drawn; for flow objects that is the computed flow placement.
type ObjectState struct {
	ID           string
	Source       string
	WrapMode     object.WrapMode
	Bounds       geom.Rect
	Position     geom.Point
	HasPosition  bool
	ExplicitSize bool
	Opacity      float64
	Selected     bool
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	area := e.tracker.ContentArea()
	snap := Snapshot{Area: area, Mode: e.mode}
	snap.Selection, _ = e.selection.Current()
	if s, ok := e.sessions.Open(); ok {
		snap.Session = &s
	}

	objs := e.registry.All()
	drawn := make(map[string]geom.Rect, len(objs))
	for _, p := range e.layout.Place(objs, area) {
		drawn[p.ID] = p.Rect
	}
	for _, o := range objs {
		snap.Objects = append(snap.Objects, ObjectState{
			ID:           o.ID,
			Source:       o.Source,
			WrapMode:     o.WrapMode,
			Bounds:       drawn[o.ID],
			Position:     o.Position,
			HasPosition:  o.HasPosition,
			ExplicitSize: o.ExplicitSize,
			Opacity:      o.Opacity,
			Selected:     o.Selected,
		})
	}
	return snap
}

// JSON renders the snapshot as a JSON document. Opacity is reported on the
// unit scale and as a percentage.
func (s Snapshot) JSON() (string, error) {
	doc := "{}"
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}

	set("area.width", s.Area.W)
	set("area.height", s.Area.H)
	if s.Selection != "" {
		set("selection", s.Selection)
	} else {
		set("selection", nil)
	}
	set("mode", s.Mode.String())
	if s.Session != nil {
		set("session.target", s.Session.Target)
		set("session.mode", s.Session.Mode.String())
		set("session.start.x", s.Session.StartPointer.X)
		set("session.start.y", s.Session.StartPointer.Y)
	}
	if err == nil {
		doc, err = sjson.SetRaw(doc, "objects", "[]")
	}

	for _, o := range s.Objects {
		raw, oerr := o.json()
		if oerr != nil {
			return "", oerr
		}
		if err == nil {
			doc, err = sjson.SetRaw(doc, "objects.-1", raw)
		}
	}
	if err != nil {
		return "", fmt.Errorf("snapshot json: %w", err)
	}
	return doc, nil
}

func (o ObjectState) json() (string, error) {
	doc := "{}"
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}
	set("id", o.ID)
	set("source", o.Source)
	set("wrap", o.WrapMode.String())
	set("bounds.left", o.Bounds.Left)
	set("bounds.top", o.Bounds.Top)
	set("bounds.width", o.Bounds.Width)
	set("bounds.height", o.Bounds.Height)
	if o.HasPosition {
		set("position.left", o.Position.X)
		set("position.top", o.Position.Y)
	}
	set("explicitSize", o.ExplicitSize)
	set("opacity", o.Opacity)
	set("opacityPercent", object.FromInternal(o.Opacity, object.ScalePercent))
	set("selected", o.Selected)
	if err != nil {
		return "", fmt.Errorf("object %s: %w", o.ID, err)
	}
	return doc, nil
}
