// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/vtext/fragment"
	"github.com/gogpu/vtext/geom"
)

// Painter draws a fragment's content into a surface image.
//
// The image origin (0, 0) corresponds to the fragment-local point
// f.SurfaceBounds.Origin, and one document unit spans scale pixels.
// Painters draw onto a transparent image; the record clears it beforehand.
type Painter interface {
	Paint(dst *image.RGBA, f fragment.Fragment, scale float64) error
}

// Record is the render surface of one fragment: a backing image plus the
// geometry it is composited at.
//
// Records are created with NewRecord and must not be copied by value.
// A zero Record, or a copy, panics on use.
type Record struct {
	// addr points to the Record itself and detects copies.
	addr *Record

	frag     fragment.Fragment
	position geom.Point
	bounds   geom.Rect
	scale    float64

	img      *image.RGBA
	dirty    bool
	attached bool
}

// NewRecord creates a dirty record for f. The device scale is captured once
// here and kept for the record's lifetime.
func NewRecord(f fragment.Fragment, scale float64) *Record {
	if scale <= 0 {
		scale = 1
	}
	r := &Record{scale: scale, dirty: true}
	r.addr = r
	r.apply(f)
	return r
}

// Fragment returns the fragment the record currently renders.
func (r *Record) Fragment() fragment.Fragment {
	r.copyCheck()
	return r.frag
}

// Position returns the fragment frame origin in document coordinates.
func (r *Record) Position() geom.Point {
	r.copyCheck()
	return r.position
}

// Bounds returns the rendering bounds relative to Position.
func (r *Record) Bounds() geom.Rect {
	r.copyCheck()
	return r.bounds
}

// Frame returns the rendering bounds in document coordinates.
func (r *Record) Frame() geom.Rect {
	r.copyCheck()
	return r.bounds.Offset(r.position.X, r.position.Y)
}

// Scale returns the device scale captured at creation.
func (r *Record) Scale() float64 {
	r.copyCheck()
	return r.scale
}

// Dirty reports whether the surface needs to be redrawn.
func (r *Record) Dirty() bool {
	r.copyCheck()
	return r.dirty
}

// Attached reports whether the record is in a render tree.
func (r *Record) Attached() bool {
	r.copyCheck()
	return r.attached
}

// SetNeedsDisplay marks the surface dirty.
func (r *Record) SetNeedsDisplay() {
	r.copyCheck()
	r.dirty = true
}

// Image returns the backing image, or nil if the record was never
// displayed or has been released.
func (r *Record) Image() *image.RGBA {
	r.copyCheck()
	return r.img
}

// Geometry describes how an update changed a record.
type Geometry struct {
	// BoundsChanged reports a change of the rendering bounds; the record
	// has been marked dirty.
	BoundsChanged bool
	// Moved reports a change of the frame origin's Y coordinate.
	Moved bool
	// DeltaY is the previous minus the new Y position.
	DeltaY float64
}

// UpdateGeometry recomputes the geometry from f, which must carry the same
// identity as the current fragment.
func (r *Record) UpdateGeometry(f fragment.Fragment) Geometry {
	r.copyCheck()
	oldPos, oldBounds := r.position, r.bounds
	r.apply(f)

	var g Geometry
	if r.bounds != oldBounds {
		g.BoundsChanged = true
		r.dirty = true
	}
	if r.position.Y != oldPos.Y {
		g.Moved = true
		g.DeltaY = oldPos.Y - r.position.Y
	}
	return g
}

// Display redraws the surface if it is dirty. It reports whether a redraw
// happened. An empty surface is cleaned without invoking the painter.
func (r *Record) Display(p Painter) (bool, error) {
	r.copyCheck()
	if !r.dirty {
		return false, nil
	}

	w := int(math.Ceil(r.bounds.Width() * r.scale))
	h := int(math.Ceil(r.bounds.Height() * r.scale))
	if w <= 0 || h <= 0 {
		r.img = nil
		r.dirty = false
		return true, nil
	}

	if r.img == nil || r.img.Bounds().Dx() != w || r.img.Bounds().Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		clear(r.img.Pix)
	}

	if err := p.Paint(r.img, r.frag, r.scale); err != nil {
		return false, fmt.Errorf("surface: paint fragment %d: %w", r.frag.ID, err)
	}
	r.dirty = false
	return true, nil
}

// Release drops the backing image. The record becomes dirty so it is
// redrawn if it is displayed again.
func (r *Record) Release() {
	r.copyCheck()
	r.img = nil
	r.dirty = true
}

func (r *Record) apply(f fragment.Fragment) {
	r.frag = f
	r.position = f.Frame.Origin
	r.bounds = f.SurfaceBounds
}

// copyCheck panics if the record was not created by NewRecord or was copied
// by value.
func (r *Record) copyCheck() {
	if r.addr != r {
		panic("surface: Record must be created by NewRecord and not copied")
	}
}
