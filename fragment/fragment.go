// Package fragment defines laid-out text fragments and the capability set a
// shaping oracle exposes to the viewport layout controller.
//
// A Fragment is a shaped, positioned unit of text, typically one paragraph.
// Its ID is stable for as long as the text it covers is not re-shaped; when
// the covered text or the container width changes the oracle produces a
// fragment with a fresh ID instead of mutating the old one. Fragments that
// only move (because content above them changed height) keep their ID and
// report the new Frame.
package fragment

import (
	"iter"

	"github.com/gogpu/vtext/geom"
)

// ID identifies a fragment. The zero ID is never assigned.
type ID uint64

// Range is a half-open byte range [Start, End) into the document text.
type Range struct {
	Start, End int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Fragment is an immutable snapshot of one laid-out fragment.
type Fragment struct {
	// ID is the fragment identity used as the surface cache key.
	ID ID

	// Frame is the layout rectangle in document coordinates.
	Frame geom.Rect

	// SurfaceBounds is the rendering rectangle relative to Frame.Origin.
	// It may extend past Frame when glyphs overhang the layout box.
	SurfaceBounds geom.Rect

	// Range is the span of document text this fragment renders.
	Range Range
}

// Intersects reports whether the fragment overlaps rect vertically.
// Fragments span the full container width, so only the block axis matters.
func (f Fragment) Intersects(rect geom.Rect) bool {
	return f.Frame.OverlapsY(rect)
}

// Oracle produces fragments for the current document and container width.
//
// FragmentsIntersecting returns the fragments overlapping rect in document
// order. The sequence is lazy and restartable: it may be ranged over several
// times, or re-queried with other bounds, without side effects beyond the
// oracle's own layout caching.
//
// DocumentExtentHint returns the bottom edge of the last fragment, laying
// out the whole document if needed. An empty document reports 0.
type Oracle interface {
	FragmentsIntersecting(rect geom.Rect) iter.Seq[Fragment]
	DocumentExtentHint() float64
}

// Liveness is implemented by oracles that can tell whether an identity is
// still current. The layout controller uses it to evict cached surfaces of
// superseded fragments.
type Liveness interface {
	Alive(id ID) bool
}
