package vtext

import (
	"image/color"
	"testing"

	"github.com/gogpu/vtext/scroll"
	"github.com/gogpu/vtext/viewport"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.orientation != Horizontal {
		t.Errorf("orientation = %v, want Horizontal", o.orientation)
	}
	if o.margin != scroll.DefaultPrefetchMargin || o.retain != viewport.DefaultRetain {
		t.Errorf("margin=%v retain=%d", o.margin, o.retain)
	}
	if o.fontSize <= 0 || o.lineSpacing != 1 || o.color == nil {
		t.Errorf("text defaults = %+v", o)
	}
}

func TestOptionsApply(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{
		WithSize(320, 480),
		WithOrientation(Vertical),
		WithScale(2),
		WithPrefetchMargin(40),
		WithFontSize(22),
		WithLineSpacing(1.5),
		WithRetain(8),
		WithColor(color.White),
	} {
		opt(&o)
	}

	if o.width != 320 || o.height != 480 || o.orientation != Vertical {
		t.Errorf("geometry options not applied: %+v", o)
	}
	if o.scale == nil || o.scale() != 2 {
		t.Error("WithScale not applied")
	}
	if o.margin != 40 || o.fontSize != 22 || o.lineSpacing != 1.5 || o.retain != 8 {
		t.Errorf("layout options not applied: %+v", o)
	}
	if o.color != color.White {
		t.Error("WithColor not applied")
	}
}

func TestWithScaleFuncReadPerSurface(t *testing.T) {
	calls := 0
	v := newTestView(t, WithSize(300, 100), WithScaleFunc(func() float64 {
		calls++
		return 1
	}))
	v.SetText("one\ntwo")
	v.Layout()
	v.Layout()
	if calls != 2 {
		t.Errorf("scale read %d times, want once per surface (2)", calls)
	}
}

func TestViewPrefetchMargin(t *testing.T) {
	v := newTestView(t, WithSize(300, 200), WithPrefetchMargin(0))
	if got := v.Viewport(); got != v.coord.Visible() {
		t.Errorf("Viewport() = %+v, want the visible rect with no margin", got)
	}
}
