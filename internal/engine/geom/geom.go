// Package geom holds the value types shared by the engine: points, sizes
// and rectangles in content-area units. All values are float64; callers
// round only when rendering.
package geom

import (
	"fmt"
	"math"
)

// Point is a position or a displacement.
type Point struct {
	X float64
	Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width and height.
type Size struct {
	W float64
	H float64
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.W == 0 && s.H == 0
}

// Ratio returns W/H, or 1 when the height is not positive.
func (s Size) Ratio() float64 {
	if s.H <= 0 {
		return 1
	}
	return s.W / s.H
}

// Scale returns the size multiplied by f.
func (s Size) Scale(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// RectFrom builds a rectangle from a position and a size.
func RectFrom(p Point, s Size) Rect {
	return Rect{Left: p.X, Top: p.Y, Width: s.W, Height: s.H}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.Width, H: r.Height}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() &&
		p.Y >= r.Top && p.Y <= r.Bottom()
}

// Within reports whether r lies inside an area of the given size anchored
// at the origin. eps absorbs float noise.
func (r Rect) Within(area Size, eps float64) bool {
	return r.Left >= -eps && r.Top >= -eps &&
		r.Right() <= area.W+eps && r.Bottom() <= area.H+eps
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Left, r.Top, r.Width, r.Height)
}

// Clamp limits v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
