// Package geom provides the document-space geometry shared by the layout,
// surface and scroll packages.
//
// Coordinates follow the raster convention: X grows to the right and Y grows
// downward. All values are in document units (points); device pixels only
// appear where a surface is rasterized.
package geom

import "math"

// Epsilon is the tolerance used when comparing laid-out positions.
const Epsilon = 1e-10

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle described by its origin and size.
type Rect struct {
	Origin Point
	Size   Size
}

// R is a convenience function to create a Rect from origin and size.
func R(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.Size.Width }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.Size.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Size.IsEmpty()
}

// Offset returns r moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

// Inset returns r shrunk by dx on the left and right and by dy on the top
// and bottom. Negative values grow the rectangle.
func (r Rect) Inset(dx, dy float64) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	r.Size.Width -= 2 * dx
	r.Size.Height -= 2 * dy
	return r
}

// Intersects reports whether r and s overlap with a non-empty area.
func (r Rect) Intersects(s Rect) bool {
	if r.IsEmpty() || s.IsEmpty() {
		return false
	}
	return r.MinX() < s.MaxX() && s.MinX() < r.MaxX() &&
		r.MinY() < s.MaxY() && s.MinY() < r.MaxY()
}

// OverlapsY reports whether the vertical spans of r and s overlap.
// Horizontal extents are ignored, which matches how text fragments span the
// full container width.
func (r Rect) OverlapsY(s Rect) bool {
	return r.MinY() < s.MaxY() && s.MinY() < r.MaxY()
}

// Union returns the smallest rectangle containing both r and s.
// An empty rectangle does not contribute to the result.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	minX := math.Min(r.MinX(), s.MinX())
	minY := math.Min(r.MinY(), s.MinY())
	maxX := math.Max(r.MaxX(), s.MaxX())
	maxY := math.Max(r.MaxY(), s.MaxY())
	return R(minX, minY, maxX-minX, maxY-minY)
}

// NearlyEqual reports whether a and b differ by at most Epsilon.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
