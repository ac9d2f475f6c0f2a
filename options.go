package vtext

import (
	"image/color"

	"github.com/gogpu/vtext/scroll"
	"github.com/gogpu/vtext/shaping"
	"github.com/gogpu/vtext/viewport"
)

// Option configures a View during creation.
//
// Example:
//
//	v, err := vtext.New(src,
//	    vtext.WithSize(320, 480),
//	    vtext.WithOrientation(vtext.Vertical),
//	    vtext.WithScale(2),
//	)
type Option func(*options)

// options holds optional configuration for View creation.
type options struct {
	width, height float64
	orientation   Orientation
	scale         viewport.ScaleFunc
	margin        float64
	fontSize      float64
	lineSpacing   float64
	retain        int
	color         color.Color
}

// defaultOptions returns the default view options.
func defaultOptions() options {
	doc := shaping.DefaultOptions()
	return options{
		orientation: Horizontal,
		margin:      scroll.DefaultPrefetchMargin,
		fontSize:    doc.Size,
		lineSpacing: doc.LineSpacing,
		retain:      viewport.DefaultRetain,
		color:       doc.Color,
	}
}

// WithSize sets the on-screen size of the view in points.
func WithSize(width, height float64) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithOrientation sets how the document is presented.
func WithOrientation(orient Orientation) Option {
	return func(o *options) {
		o.orientation = orient
	}
}

// WithScale sets a fixed device pixel density.
func WithScale(scale float64) Option {
	return func(o *options) {
		o.scale = func() float64 { return scale }
	}
}

// WithScaleFunc sets a function supplying the device pixel density. It is
// read once for every new surface.
func WithScaleFunc(fn func() float64) Option {
	return func(o *options) {
		o.scale = fn
	}
}

// WithPrefetchMargin sets the distance laid out above and below the
// visible area.
func WithPrefetchMargin(margin float64) Option {
	return func(o *options) {
		o.margin = margin
	}
}

// WithFontSize sets the font size in points.
func WithFontSize(size float64) Option {
	return func(o *options) {
		o.fontSize = size
	}
}

// WithLineSpacing sets the line height multiplier.
func WithLineSpacing(spacing float64) Option {
	return func(o *options) {
		o.lineSpacing = spacing
	}
}

// WithRetain bounds the number of off-screen surfaces kept for reuse.
// Zero keeps them until their text changes.
func WithRetain(n int) Option {
	return func(o *options) {
		o.retain = n
	}
}

// WithColor sets the text color.
func WithColor(c color.Color) Option {
	return func(o *options) {
		o.color = c
	}
}
