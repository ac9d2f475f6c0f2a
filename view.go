package vtext

import (
	"fmt"
	"image/draw"

	"github.com/gogpu/vtext/fragcache"
	"github.com/gogpu/vtext/geom"
	"github.com/gogpu/vtext/internal/logging"
	"github.com/gogpu/vtext/scroll"
	"github.com/gogpu/vtext/shaping"
	"github.com/gogpu/vtext/surface"
	"github.com/gogpu/vtext/viewport"
)

// View is a scrollable, virtualized text view.
//
// View connects a shaping.Document, a scroll.Coordinator and a
// viewport.Controller. Edits, resizes and scrolls mark the view as needing
// layout; Layout or Render then runs the pass.
//
// View is not safe for concurrent use.
type View struct {
	opts options

	doc   *shaping.Document
	coord *scroll.Coordinator
	ctrl  *viewport.Controller

	needsLayout bool
	last        viewport.Result
}

// New creates a view that shapes text with src.
func New(src *shaping.FontSource, opts ...Option) (*View, error) {
	if src == nil {
		return nil, ErrNoFace
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &View{opts: o}
	screen := geom.Sz(o.width, o.height)
	docSize := o.orientation.documentSize(screen)

	v.coord = scroll.New(docSize)
	v.coord.SetPrefetchMargin(o.margin)
	v.doc = shaping.NewDocument(src, shaping.Options{
		Size:        o.fontSize,
		LineSpacing: o.lineSpacing,
		Width:       docSize.Width,
		Vertical:    o.orientation == Vertical,
		Color:       o.color,
	})
	v.ctrl = viewport.New(v.doc, v.coord, viewport.Options{
		Scale:  v.readScale,
		Retain: o.retain,
	})
	v.coord.OnNeedsLayout(v.SetNeedsLayout)
	v.needsLayout = true
	return v, nil
}

// Document returns the shaping document behind the view.
func (v *View) Document() *shaping.Document { return v.doc }

// Tree returns the render tree of the last pass.
func (v *View) Tree() *surface.Tree { return v.ctrl.Tree() }

// CacheStats returns statistics of the surface cache.
func (v *View) CacheStats() fragcache.Stats { return v.ctrl.CacheStats() }

// Orientation returns the presentation orientation.
func (v *View) Orientation() Orientation { return v.opts.orientation }

// Size returns the on-screen size of the view.
func (v *View) Size() geom.Size { return geom.Sz(v.opts.width, v.opts.height) }

// Offset returns the scroll offset along the block axis.
func (v *View) Offset() float64 { return v.coord.Offset() }

// Extent returns the laid-out document height.
func (v *View) Extent() float64 { return v.coord.Extent() }

// Viewport returns the rectangle, in document coordinates, that the next
// pass lays out.
func (v *View) Viewport() geom.Rect { return v.coord.Viewport() }

// NeedsLayout reports whether a pass is pending.
func (v *View) NeedsLayout() bool { return v.needsLayout }

// LastResult returns the result of the most recent pass.
func (v *View) LastResult() viewport.Result { return v.last }

// Text returns the document text.
func (v *View) Text() string { return v.doc.Text() }

// SetText replaces the whole text and scrolls back to the top.
func (v *View) SetText(s string) {
	v.doc.SetText(s)
	v.coord.ResetExtent()
	v.coord.ScrollTo(0)
	v.SetNeedsLayout()
}

// Replace replaces the bytes [start, end) of the text with s.
func (v *View) Replace(start, end int, s string) error {
	if err := v.doc.Replace(start, end, s); err != nil {
		return fmt.Errorf("vtext: replace: %w", err)
	}
	v.SetNeedsLayout()
	return nil
}

// Append adds s at the end of the text.
func (v *View) Append(s string) {
	n := len(v.doc.Text())
	// The range is always valid.
	_ = v.doc.Replace(n, n, s)
	v.SetNeedsLayout()
}

// SetSize changes the on-screen size. A new line length re-wraps the text.
func (v *View) SetSize(width, height float64) {
	v.opts.width, v.opts.height = width, height
	docSize := v.opts.orientation.documentSize(geom.Sz(width, height))
	if v.doc.SetWidth(docSize.Width) {
		v.SetNeedsLayout()
	}
	v.coord.SetSize(docSize)
}

// SetScale changes the device pixel density. Existing surfaces were
// rasterized for the old density and are dropped.
func (v *View) SetScale(scale float64) {
	v.opts.scale = func() float64 { return scale }
	v.ctrl.Reset()
	v.SetNeedsLayout()
}

// ScrollTo scrolls to offset y, clamped to the document.
func (v *View) ScrollTo(y float64) {
	v.coord.ScrollTo(y)
}

// ScrollBy scrolls by dy, clamped to the document.
func (v *View) ScrollBy(dy float64) {
	v.coord.ScrollBy(dy)
}

// SetNeedsLayout marks the view as needing a layout pass. During a pass
// the request is deferred to a single pass after it.
func (v *View) SetNeedsLayout() {
	v.needsLayout = true
	v.ctrl.RequestLayout()
}

// Layout runs a layout pass over the viewport. When the pass itself asked
// for layout (an offset correction, for example) exactly one more pass
// follows; a request raised by that pass stays pending. It returns the
// result of the last pass.
func (v *View) Layout() viewport.Result {
	if v.opts.width <= 0 || v.opts.height <= 0 {
		logging.Logger().Warn("vtext: layout skipped, view has no size",
			"width", v.opts.width, "height", v.opts.height)
		v.needsLayout = false
		return viewport.Result{}
	}

	v.needsLayout = false
	res := v.ctrl.LayoutViewport(v.coord.Viewport())
	if v.needsLayout {
		v.needsLayout = false
		res = v.ctrl.LayoutViewport(v.coord.Viewport())
	}
	v.last = res
	return res
}

// LayoutIfNeeded runs Layout if a pass is pending and reports whether it
// did.
func (v *View) LayoutIfNeeded() (viewport.Result, bool) {
	if !v.needsLayout {
		return v.last, false
	}
	return v.Layout(), true
}

// ScreenMatrix maps document coordinates to on-screen points.
func (v *View) ScreenMatrix() geom.Matrix {
	return v.opts.orientation.matrix(v.Size(), v.coord.Offset())
}

// Render lays out if needed, redraws dirty surfaces and composites the
// attached surfaces onto dst. dst pixels are on-screen points times the
// device scale, with the view's origin at dst.Bounds().Min.
func (v *View) Render(dst draw.Image) error {
	v.LayoutIfNeeded()

	tree := v.ctrl.Tree()
	if _, err := tree.Display(v.doc); err != nil {
		logging.Logger().Warn("vtext: paint failed", "err", err)
		return fmt.Errorf("vtext: render: %w", err)
	}

	s := v.readScale()
	org := dst.Bounds().Min
	m := geom.Translate(float64(org.X), float64(org.Y)).
		Multiply(geom.Scale(s, s)).
		Multiply(v.ScreenMatrix())
	tree.Composite(dst, m)
	return nil
}

func (v *View) readScale() float64 {
	if v.opts.scale == nil {
		return 1
	}
	if s := v.opts.scale(); s > 0 {
		return s
	}
	return 1
}
