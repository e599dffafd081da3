package renderer

import (
	"sync"

	"github.com/dshills/figurine/internal/engine"
	"github.com/dshills/figurine/internal/engine/transform"
	"github.com/dshills/figurine/internal/renderer/backend"
	"github.com/dshills/figurine/internal/renderer/core"
)

// Theme holds the colours used for drawing.
type Theme struct {
	Background core.Color
	Foreground core.Color
	Object     core.Color
	Selected   core.Color
}

// DefaultTheme returns the stock theme.
func DefaultTheme() Theme {
	return Theme{
		Background: core.MustHex("#1e1e2e"),
		Foreground: core.MustHex("#cdd6f4"),
		Object:     core.MustHex("#89b4fa"),
		Selected:   core.MustHex("#f9e2af"),
	}
}

// Renderer draws snapshots.
type Renderer struct {
	mu      sync.Mutex
	backend backend.Backend
	vp      Viewport
	theme   Theme
}

// New creates a renderer.
func New(b backend.Backend, vp Viewport, theme Theme) *Renderer {
	return &Renderer{backend: b, vp: vp, theme: theme}
}

// Viewport returns the current viewport.
func (r *Renderer) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vp
}

// SetViewport replaces the viewport.
func (r *Renderer) SetViewport(vp Viewport) {
	r.mu.Lock()
	r.vp = vp
	r.mu.Unlock()
}

// SetTheme replaces the theme.
func (r *Renderer) SetTheme(t Theme) {
	r.mu.Lock()
	r.theme = t
	r.mu.Unlock()
}

// Draw paints the snapshot and the status line, then shows the frame.
func (r *Renderer) Draw(snap engine.Snapshot, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols, rows := r.backend.Size()
	base := core.DefaultStyle().WithForeground(r.theme.Foreground).WithBackground(r.theme.Background)
	r.backend.Fill(core.RectFromSize(0, 0, rows, cols), core.NewStyledCell(' ', base))

	content := core.RectFromSize(0, 0, max(rows-StatusRows, 0), cols)
	for _, o := range snap.Objects {
		var mode transform.Mode
		if o.Selected {
			mode = snap.Mode
		}
		r.drawObject(o, mode, content)
	}

	if rows > 0 {
		bar := base.With(core.AttrReverse)
		r.backend.Fill(core.RectFromSize(rows-1, 0, 1, cols), core.NewStyledCell(' ', bar))
		r.text(0, rows-1, core.Truncate(status, cols), bar)
	}
	r.backend.Show()
}

func (r *Renderer) drawObject(o engine.ObjectState, mode transform.Mode, clip core.ScreenRect) {
	rect := r.vp.ToCells(o.Bounds).Intersection(clip)
	if rect.IsEmpty() {
		return
	}

	// Opacity fades the fill toward the background.
	fill := r.theme.Background.Blend(r.theme.Object, o.Opacity)
	style := core.DefaultStyle().WithForeground(r.theme.Foreground).WithBackground(fill)
	r.backend.Fill(rect, core.NewStyledCell(' ', style))

	if o.Selected {
		r.frame(rect, style.WithForeground(r.theme.Selected).With(core.AttrBold), mode)
	}

	label := o.ID
	if !o.WrapMode.IsFlow() {
		label = "⧉ " + label
	}
	inner := rect
	if o.Selected && rect.Width() > 2 && rect.Height() > 2 {
		inner = core.ScreenRect{Top: rect.Top + 1, Left: rect.Left + 1, Bottom: rect.Bottom - 1, Right: rect.Right - 1}
	}
	r.text(inner.Left, inner.Top, core.Truncate(label, inner.Width()), style)
}

// frame draws a border. Resize mode marks the bottom-right handle.
func (r *Renderer) frame(rect core.ScreenRect, style core.Style, mode transform.Mode) {
	h, v := '─', '│'
	if mode == transform.ModeMove {
		h, v = '━', '┃'
	}
	right, bottom := rect.Right-1, rect.Bottom-1
	for x := rect.Left; x <= right; x++ {
		r.backend.SetCell(x, rect.Top, core.NewStyledCell(h, style))
		r.backend.SetCell(x, bottom, core.NewStyledCell(h, style))
	}
	for y := rect.Top; y <= bottom; y++ {
		r.backend.SetCell(rect.Left, y, core.NewStyledCell(v, style))
		r.backend.SetCell(right, y, core.NewStyledCell(v, style))
	}
	r.backend.SetCell(rect.Left, rect.Top, core.NewStyledCell('┌', style))
	r.backend.SetCell(right, rect.Top, core.NewStyledCell('┐', style))
	r.backend.SetCell(rect.Left, bottom, core.NewStyledCell('└', style))
	handle := '┘'
	if mode == transform.ModeResize {
		handle = '◢'
	}
	r.backend.SetCell(right, bottom, core.NewStyledCell(handle, style))
}

// text writes s from (x,y). Wide runes take their continuation cells.
func (r *Renderer) text(x, y int, s string, style core.Style) {
	for _, ch := range s {
		w := core.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.backend.SetCell(x, y, core.Cell{Rune: ch, Width: w, Style: style})
		for i := 1; i < w; i++ {
			r.backend.SetCell(x+i, y, core.Cell{Style: style})
		}
		x += w
	}
}
