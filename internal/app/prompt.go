package app

import (
	"context"
	"fmt"

	"github.com/dshills/figurine/internal/engine"
	"github.com/dshills/figurine/internal/engine/object"
	"github.com/dshills/figurine/internal/input/fuzzy"
	"github.com/dshills/figurine/internal/input/key"
	"github.com/dshills/figurine/internal/input/pointer"
	"github.com/dshills/figurine/internal/renderer/backend"
)

// OpacityStep is the percentage change per toolbox key press.
const OpacityStep = 10.0

// confirm asks whether to delete id. It runs on the event loop goroutine
// and reads the answer straight from the backend: y or Enter accepts,
// any other key or a click declines.
func (app *Application) confirm(ctx context.Context, id string) bool {
	app.setMessage(fmt.Sprintf("delete %s? (y/n)", id))
	defer app.endPrompt()
	app.redraw()

	k, ok := app.promptKey(ctx)
	if !ok {
		return false
	}
	return k.Key == key.KeyEnter || (k.Key == key.KeyRune && (k.Rune == 'y' || k.Rune == 'Y'))
}

// find reads a query and selects the best fuzzy match among the object
// IDs. Enter accepts, Escape or a click cancels.
func (app *Application) find(ctx context.Context) bool {
	defer app.endPrompt()

	var query []rune
	for {
		ids := objectIDs(app.engine)
		best, found := fuzzy.Best(string(query), ids)
		msg := "find: " + string(query)
		switch {
		case found && len(query) > 0:
			msg += " → " + best.Text
		case len(query) > 0:
			msg += " (no match)"
		}
		app.setMessage(msg)
		app.redraw()

		k, ok := app.promptKey(ctx)
		if !ok {
			return false
		}
		switch {
		case k.Key == key.KeyEnter:
			return found && len(query) > 0 && app.engine.Select(best.Text)
		case k.Key == key.KeyEscape:
			return false
		case k.Key == key.KeyBackspace:
			if len(query) > 0 {
				query = query[:len(query)-1]
			}
		case k.Key == key.KeyRune && !k.Modifiers.HasCtrl() && !k.Modifiers.HasAlt():
			query = append(query, k.Rune)
		}
	}
}

func objectIDs(e *engine.Engine) []string {
	objs := e.Objects()
	ids := make([]string, len(objs))
	for i, o := range objs {
		ids[i] = o.ID
	}
	return ids
}

// promptKey waits for the next key while a prompt is showing. Resizes
// and redraw requests are served in place. It reports false when the
// prompt should be abandoned: a click, shutdown or a closed backend.
func (app *Application) promptKey(ctx context.Context) (key.Event, bool) {
	for {
		ev := app.backend.PollEvent()
		if ctx.Err() != nil {
			return key.Event{}, false
		}
		switch ev.Type {
		case backend.EventNone:
			return key.Event{}, false
		case backend.EventKey:
			return ev.Key, true
		case backend.EventPointer:
			if ev.Pointer.Action == pointer.ActionDown {
				return key.Event{}, false
			}
		case backend.EventResize:
			app.resize(ev.Width, ev.Height)
			app.redraw()
		case backend.EventInterrupt:
			if ev.Data == nil {
				// Shutdown request; let the main loop see it too.
				app.backend.Interrupt(nil)
				return key.Event{}, false
			}
			app.redrawPending.Store(false)
			app.redraw()
		}
	}
}

// endPrompt clears the prompt message and asks for a fresh frame.
func (app *Application) endPrompt() {
	app.setMessage("")
	app.requestRedraw()
}

// toolbox handles the single-key toolbox shortcuts for the selected
// object. It reports whether anything changed.
//
//	l r c o   wrap left, right, centre, overlay
//	[ ]       opacity down, up
func (app *Application) toolbox(r rune) bool {
	switch r {
	case 'l':
		return app.engine.SetWrapMode(object.WrapLeft)
	case 'r':
		return app.engine.SetWrapMode(object.WrapRight)
	case 'c':
		return app.engine.SetWrapMode(object.WrapCenter)
	case 'o':
		return app.engine.SetWrapMode(object.Overlay)
	case '[', ']':
		cur, ok := app.engine.Opacity(object.ScalePercent)
		if !ok {
			return false
		}
		if r == '[' {
			return app.engine.SetOpacity(cur-OpacityStep, object.ScalePercent)
		}
		return app.engine.SetOpacity(cur+OpacityStep, object.ScalePercent)
	}
	return false
}
