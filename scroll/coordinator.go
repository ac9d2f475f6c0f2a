// Package scroll owns the scroll position and the scrollable extent of a
// laid-out document.
//
// All values are in document coordinates along the block axis (Y). The
// Coordinator never lays anything out itself; it is told the measured extent
// after each layout pass and asks for a new pass through its needs-layout
// hook whenever the offset or visible size changes.
package scroll

import (
	"math"

	"github.com/gogpu/vtext/geom"
)

// DefaultPrefetchMargin is the distance added above and below the visible
// rectangle when computing the layout viewport.
const DefaultPrefetchMargin = 100

// Coordinator tracks the content offset, content extent and visible size.
//
// Coordinator is not safe for concurrent use.
type Coordinator struct {
	offset float64
	extent float64
	size   geom.Size
	margin float64

	onNeedsLayout func()
}

// New creates a coordinator for a visible area of the given size in
// document units.
func New(size geom.Size) *Coordinator {
	return &Coordinator{size: size, margin: DefaultPrefetchMargin}
}

// OnNeedsLayout registers fn to be called whenever the coordinator changes
// state that invalidates the current layout.
func (c *Coordinator) OnNeedsLayout(fn func()) {
	c.onNeedsLayout = fn
}

// Offset returns the current content offset.
func (c *Coordinator) Offset() float64 { return c.offset }

// Extent returns the current content extent.
func (c *Coordinator) Extent() float64 { return c.extent }

// Size returns the visible size.
func (c *Coordinator) Size() geom.Size { return c.size }

// PrefetchMargin returns the vertical prefetch margin.
func (c *Coordinator) PrefetchMargin() float64 { return c.margin }

// SetPrefetchMargin sets the vertical prefetch margin. Negative values are
// treated as zero.
func (c *Coordinator) SetPrefetchMargin(m float64) {
	c.margin = math.Max(0, m)
}

// SetSize changes the visible size and reports whether it changed. The
// offset is clamped to the new MaxOffset.
func (c *Coordinator) SetSize(size geom.Size) bool {
	if size == c.size {
		return false
	}
	c.size = size
	c.clampOffset()
	c.needsLayout()
	return true
}

// Visible returns the visible rectangle in document coordinates.
func (c *Coordinator) Visible() geom.Rect {
	return geom.Rect{Origin: geom.Pt(0, c.offset), Size: c.size}
}

// Viewport returns the visible rectangle expanded by the prefetch margin.
func (c *Coordinator) Viewport() geom.Rect {
	return c.Visible().Inset(0, -c.margin)
}

// MaxOffset returns the largest offset that still shows content.
func (c *Coordinator) MaxOffset() float64 {
	return math.Max(0, c.extent-c.size.Height)
}

// ScrollTo moves the offset to y, clamped to [0, MaxOffset], and reports
// whether it changed.
func (c *Coordinator) ScrollTo(y float64) bool {
	y = math.Min(math.Max(y, 0), c.MaxOffset())
	return c.setOffset(y)
}

// ScrollBy moves the offset by dy, clamped like ScrollTo.
func (c *Coordinator) ScrollBy(dy float64) bool {
	return c.ScrollTo(c.offset + dy)
}

// UpdateExtent recomputes the content extent from the bottom edge of the
// last fragment in the document and the bottom edges of the records that
// were active in the last pass. It reports whether the extent changed.
//
// An empty document, with no last fragment and no active records, has a
// zero extent. Otherwise the measured bottom wins when it differs from the
// current extent by more than geom.Epsilon and lies below every active
// record, and the extent only grows to cover the active records. When the
// extent changes, an offset past the new MaxOffset is pulled back to it and
// layout is requested.
func (c *Coordinator) UpdateExtent(lastBottom float64, activeBottoms []float64) bool {
	var maxBottom float64
	for _, b := range activeBottoms {
		maxBottom = math.Max(maxBottom, b)
	}

	switch {
	case lastBottom == 0 && len(activeBottoms) == 0:
		if c.extent == 0 {
			return false
		}
		c.extent = 0
	case math.Abs(c.extent-lastBottom) > geom.Epsilon && lastBottom > maxBottom:
		c.extent = lastBottom
	case maxBottom > c.extent:
		c.extent = maxBottom
	default:
		return false
	}
	if c.clampOffset() {
		c.needsLayout()
	}
	return true
}

// ResetExtent sets the extent to zero, for documents that were cleared.
func (c *Coordinator) ResetExtent() {
	c.extent = 0
}

// ApplyOffsetCorrection shifts the offset by the average of deltas so the
// fragment the user is looking at keeps its place after fragments above it
// moved. Each delta is a previous minus new position. An empty set leaves
// the offset untouched and reports false.
func (c *Coordinator) ApplyOffsetCorrection(deltas map[float64]struct{}) bool {
	if len(deltas) == 0 {
		return false
	}
	var sum float64
	for d := range deltas {
		sum += d
	}
	return c.setOffset(c.offset - sum/float64(len(deltas)))
}

func (c *Coordinator) setOffset(y float64) bool {
	if y == c.offset {
		return false
	}
	c.offset = y
	c.needsLayout()
	return true
}

// clampOffset pulls the offset back into [0, MaxOffset] without requesting
// layout, and reports whether it moved.
func (c *Coordinator) clampOffset() bool {
	y := math.Min(math.Max(c.offset, 0), c.MaxOffset())
	if y == c.offset {
		return false
	}
	c.offset = y
	return true
}

func (c *Coordinator) needsLayout() {
	if c.onNeedsLayout != nil {
		c.onNeedsLayout()
	}
}
