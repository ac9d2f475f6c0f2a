// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"cmp"
	"image/draw"
	"iter"
	"slices"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/vtext/geom"
)

// Tree is the render tree: the records currently attached for compositing,
// kept in document order.
//
// The tree only decides what is composited. When a dirty surface is actually
// rasterized is up to the caller (see Display).
type Tree struct {
	records []*Record
}

// NewTree creates an empty render tree.
func NewTree() *Tree {
	return &Tree{}
}

// Attach adds r to the tree. Attaching an attached record is a no-op.
func (t *Tree) Attach(r *Record) bool {
	if r.Attached() {
		return false
	}
	r.attached = true
	t.records = append(t.records, r)
	return true
}

// Detach removes r from the tree. Detaching a detached record is a no-op.
func (t *Tree) Detach(r *Record) bool {
	if !r.Attached() {
		return false
	}
	r.attached = false
	if i := slices.Index(t.records, r); i >= 0 {
		t.records = slices.Delete(t.records, i, i+1)
	}
	return true
}

// Len returns the number of attached records.
func (t *Tree) Len() int {
	return len(t.records)
}

// Records returns the attached records in document order.
// The returned slice must not be modified.
func (t *Tree) Records() []*Record {
	t.sort()
	return t.records
}

// All yields the attached records in document order.
func (t *Tree) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, r := range t.Records() {
			if !yield(r) {
				return
			}
		}
	}
}

// Dirty returns the number of attached records that need a redraw.
func (t *Tree) Dirty() int {
	n := 0
	for _, r := range t.records {
		if r.Dirty() {
			n++
		}
	}
	return n
}

// Display redraws every dirty attached record with p and returns how many
// were redrawn. It stops at the first paint error.
func (t *Tree) Display(p Painter) (int, error) {
	n := 0
	for _, r := range t.Records() {
		redrawn, err := r.Display(p)
		if err != nil {
			return n, err
		}
		if redrawn {
			n++
		}
	}
	return n, nil
}

// Composite draws every attached surface onto dst. m maps document
// coordinates to dst pixels; each surface is additionally scaled down by its
// own device scale. Records without an image are skipped.
func (t *Tree) Composite(dst draw.Image, m geom.Matrix) {
	for _, r := range t.Records() {
		img := r.Image()
		if img == nil {
			continue
		}
		frame := r.Frame()
		s := 1 / r.Scale()
		s2d := m.Multiply(geom.Translate(frame.MinX(), frame.MinY())).Multiply(geom.Scale(s, s))
		xdraw.ApproxBiLinear.Transform(dst, s2d.Aff3(), img, img.Bounds(), xdraw.Over, nil)
	}
}

// Bounds returns the union of the attached records' frames in document
// coordinates.
func (t *Tree) Bounds() geom.Rect {
	var u geom.Rect
	for _, r := range t.records {
		u = u.Union(r.Frame())
	}
	return u
}

// sort orders records by frame origin. Positions change in place during a
// layout pass, so the order is recomputed on every read.
func (t *Tree) sort() {
	slices.SortStableFunc(t.records, func(a, b *Record) int {
		return cmp.Compare(a.position.Y, b.position.Y)
	})
}
