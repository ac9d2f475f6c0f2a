// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gogpu/vtext/fragment"
	"github.com/gogpu/vtext/geom"
)

// fillPainter fills the whole surface with one color and counts calls.
type fillPainter struct {
	c     color.RGBA
	calls int
	err   error
}

func (p *fillPainter) Paint(dst *image.RGBA, _ fragment.Fragment, _ float64) error {
	p.calls++
	if p.err != nil {
		return p.err
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(p.c), image.Point{}, draw.Src)
	return nil
}

func frag(id fragment.ID, y, w, h float64) fragment.Fragment {
	return fragment.Fragment{
		ID:            id,
		Frame:         geom.R(0, y, w, h),
		SurfaceBounds: geom.R(0, 0, w, h),
	}
}

func TestNewRecordIsDirty(t *testing.T) {
	r := NewRecord(frag(1, 40, 100, 20), 2)
	if !r.Dirty() {
		t.Error("new record should be dirty")
	}
	if r.Scale() != 2 {
		t.Errorf("Scale() = %v, want 2", r.Scale())
	}
	if got, want := r.Frame(), geom.R(0, 40, 100, 20); got != want {
		t.Errorf("Frame() = %+v, want %+v", got, want)
	}
	if r.Image() != nil {
		t.Error("Image() should be nil before Display")
	}
}

func TestNewRecordDefaultsScale(t *testing.T) {
	if s := NewRecord(frag(1, 0, 10, 10), 0).Scale(); s != 1 {
		t.Errorf("Scale() = %v, want 1 for non-positive input", s)
	}
}

func TestRecordDisplay(t *testing.T) {
	r := NewRecord(frag(1, 0, 10, 5), 2)
	p := &fillPainter{c: color.RGBA{R: 255, A: 255}}

	redrawn, err := r.Display(p)
	if err != nil || !redrawn {
		t.Fatalf("Display() = (%v, %v), want (true, nil)", redrawn, err)
	}
	if b := r.Image().Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("image size = %dx%d, want 20x10", b.Dx(), b.Dy())
	}
	if r.Dirty() {
		t.Error("record still dirty after Display")
	}

	// Clean records are not repainted.
	if redrawn, _ := r.Display(p); redrawn || p.calls != 1 {
		t.Errorf("second Display redrawn=%v calls=%d, want false and 1", redrawn, p.calls)
	}
}

func TestRecordDisplayError(t *testing.T) {
	r := NewRecord(frag(9, 0, 10, 5), 1)
	sentinel := errors.New("boom")
	_, err := r.Display(&fillPainter{err: sentinel})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Display() error = %v, want wrapping %v", err, sentinel)
	}
	if !r.Dirty() {
		t.Error("record should stay dirty after a failed paint")
	}
}

func TestRecordDisplayEmpty(t *testing.T) {
	r := NewRecord(frag(1, 0, 0, 0), 1)
	p := &fillPainter{}
	if _, err := r.Display(p); err != nil {
		t.Fatal(err)
	}
	if p.calls != 0 || r.Dirty() {
		t.Errorf("empty surface: calls=%d dirty=%v, want 0 and false", p.calls, r.Dirty())
	}
}

func TestRecordUpdateGeometry(t *testing.T) {
	r := NewRecord(frag(1, 100, 50, 20), 1)
	_, _ = r.Display(&fillPainter{})

	// Same geometry: nothing changes.
	if g := r.UpdateGeometry(frag(1, 100, 50, 20)); g.BoundsChanged || g.Moved {
		t.Errorf("unchanged geometry reported %+v", g)
	}
	if r.Dirty() {
		t.Error("unchanged geometry made the record dirty")
	}

	// Moved down by 3: delta is previous minus new.
	g := r.UpdateGeometry(frag(1, 103, 50, 20))
	if !g.Moved || g.DeltaY != -3 || g.BoundsChanged {
		t.Errorf("move reported %+v, want Moved with DeltaY -3", g)
	}
	if r.Dirty() {
		t.Error("a pure move should not require a redraw")
	}

	// Taller bounds need a redraw.
	g = r.UpdateGeometry(frag(1, 103, 50, 25))
	if !g.BoundsChanged || !r.Dirty() {
		t.Errorf("resize reported %+v dirty=%v, want BoundsChanged and dirty", g, r.Dirty())
	}
}

func TestRecordCopyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("using a zero Record should panic")
		}
	}()
	var r Record
	r.Dirty()
}

func TestTreeAttachDetach(t *testing.T) {
	tree := NewTree()
	a := NewRecord(frag(1, 20, 10, 10), 1)
	b := NewRecord(frag(2, 0, 10, 10), 1)

	if !tree.Attach(a) || !tree.Attach(b) {
		t.Fatal("Attach() = false for new records")
	}
	if tree.Attach(a) {
		t.Error("re-attaching should be a no-op")
	}
	if tree.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tree.Len())
	}

	// Document order, not attach order.
	recs := tree.Records()
	if recs[0] != b || recs[1] != a {
		t.Error("Records() not in document order")
	}
	if tree.Dirty() != 2 {
		t.Errorf("Dirty() = %d, want 2", tree.Dirty())
	}

	if !tree.Detach(b) || tree.Detach(b) {
		t.Error("Detach should succeed once")
	}
	if b.Attached() || tree.Len() != 1 {
		t.Errorf("after Detach attached=%v len=%d", b.Attached(), tree.Len())
	}
	if got, want := tree.Bounds(), geom.R(0, 20, 10, 10); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestTreeDisplayAndComposite(t *testing.T) {
	tree := NewTree()
	red := color.RGBA{R: 255, A: 255}
	r := NewRecord(fragment.Fragment{
		ID:            1,
		Frame:         geom.R(10, 20, 8, 8),
		SurfaceBounds: geom.R(0, 0, 8, 8),
	}, 2)
	tree.Attach(r)

	n, err := tree.Display(&fillPainter{c: red})
	if err != nil || n != 1 {
		t.Fatalf("Display() = (%d, %v), want (1, nil)", n, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	tree.Composite(dst, geom.Identity())

	if got := dst.RGBAAt(14, 24); got.R < 200 || got.A < 200 {
		t.Errorf("inside pixel = %+v, want red", got)
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("outside pixel = %+v, want transparent", got)
	}
}
