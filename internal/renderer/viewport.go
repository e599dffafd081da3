package renderer

import (
	"math"

	"github.com/dshills/figurine/internal/engine/geom"
	"github.com/dshills/figurine/internal/input/pointer"
	"github.com/dshills/figurine/internal/renderer/core"
)

// StatusRows is the number of rows reserved below the content.
const StatusRows = 1

// Viewport maps between cells and content units.
type Viewport struct {
	CellW, CellH float64
	Padding      float64
}

// ContainerSize returns the container size in units for a display of
// cols by rows cells.
func (v Viewport) ContainerSize(cols, rows int) geom.Size {
	return geom.Size{
		W: float64(max(cols, 0)) * v.CellW,
		H: float64(max(rows-StatusRows, 0)) * v.CellH,
	}
}

// ToUnits returns the content position of the centre of a cell.
func (v Viewport) ToUnits(col, row float64) geom.Point {
	return geom.Point{
		X: (col+0.5)*v.CellW - v.Padding,
		Y: (row+0.5)*v.CellH - v.Padding,
	}
}

// Pointer converts a pointer event from cells to content units.
func (v Viewport) Pointer(ev pointer.Event) pointer.Event {
	ev.Position = v.ToUnits(ev.Position.X, ev.Position.Y)
	return ev
}

// ToCells returns the cells covered by a content rectangle. Any partly
// covered cell counts.
func (v Viewport) ToCells(r geom.Rect) core.ScreenRect {
	return core.ScreenRect{
		Left:   int(math.Floor((r.Left + v.Padding) / v.CellW)),
		Top:    int(math.Floor((r.Top + v.Padding) / v.CellH)),
		Right:  int(math.Ceil((r.Right() + v.Padding) / v.CellW)),
		Bottom: int(math.Ceil((r.Bottom() + v.Padding) / v.CellH)),
	}
}
