package fragment

import (
	"iter"
	"slices"

	"github.com/gogpu/vtext/geom"
)

// List is an in-memory Oracle over a stacked sequence of fragments.
//
// It is useful for hosts that shape text elsewhere and only need the
// virtualization layer, and as a deterministic oracle in tests. Fragments
// are stacked top to bottom with no gaps; all of them share the list width.
// Ranges are synthetic: each fragment covers one byte.
type List struct {
	width  float64
	frags  []Fragment
	nextID ID
}

// NewList creates an empty list whose fragments are width units wide.
func NewList(width float64) *List {
	return &List{width: width, nextID: 1}
}

// Len returns the number of fragments.
func (l *List) Len() int {
	return len(l.frags)
}

// At returns the i'th fragment in document order.
func (l *List) At(i int) Fragment {
	return l.frags[i]
}

// Append adds a fragment of the given height below the last one and
// returns it.
func (l *List) Append(height float64) Fragment {
	return l.Insert(len(l.frags), height)
}

// Insert adds a fragment of the given height at index i, pushing the
// fragments after it down. Pushed fragments keep their identity.
func (l *List) Insert(i int, height float64) Fragment {
	f := Fragment{ID: l.newID()}
	l.frags = slices.Insert(l.frags, i, f)
	l.frags[i].Frame.Size = geom.Sz(l.width, height)
	l.frags[i].SurfaceBounds = geom.R(0, 0, l.width, height)
	l.restack(i)
	return l.frags[i]
}

// Resize re-shapes the i'th fragment to a new height. The fragment gets a
// fresh identity; the fragments below it move but keep theirs.
func (l *List) Resize(i int, height float64) Fragment {
	l.frags[i].ID = l.newID()
	l.frags[i].Frame.Size.Height = height
	l.frags[i].SurfaceBounds = geom.R(0, 0, l.width, height)
	l.restack(i)
	return l.frags[i]
}

// Remove drops the i'th fragment; its identity is no longer alive.
func (l *List) Remove(i int) {
	l.frags = slices.Delete(l.frags, i, i+1)
	l.restack(i)
}

// Clear drops every fragment.
func (l *List) Clear() {
	l.frags = nil
}

// FragmentsIntersecting implements Oracle.
func (l *List) FragmentsIntersecting(rect geom.Rect) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		for _, f := range l.frags {
			if f.Frame.MinY() >= rect.MaxY() {
				return
			}
			if f.Intersects(rect) && !yield(f) {
				return
			}
		}
	}
}

// DocumentExtentHint implements Oracle.
func (l *List) DocumentExtentHint() float64 {
	if len(l.frags) == 0 {
		return 0
	}
	return l.frags[len(l.frags)-1].Frame.MaxY()
}

// Alive implements Liveness.
func (l *List) Alive(id ID) bool {
	for _, f := range l.frags {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (l *List) newID() ID {
	id := l.nextID
	l.nextID++
	return id
}

// restack recomputes origins and byte ranges from index i onward.
func (l *List) restack(i int) {
	var y float64
	var off int
	if i > 0 {
		prev := l.frags[i-1]
		y = prev.Frame.MaxY()
		off = prev.Range.End
	}
	for j := i; j < len(l.frags); j++ {
		f := &l.frags[j]
		f.Frame.Origin = geom.Pt(0, y)
		y = f.Frame.MaxY()
		f.Range = Range{Start: off, End: off + 1}
		off = f.Range.End
	}
}
