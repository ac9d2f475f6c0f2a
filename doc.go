// Package vtext provides a viewport-virtualized text view.
//
// # Overview
//
// A document is shaped into fragments, one per paragraph. Only the
// fragments that intersect the viewport (the visible area plus a prefetch
// margin) get render surfaces, and surfaces are cached by fragment identity
// so paragraphs that did not change are neither re-shaped nor redrawn while
// the view scrolls or the text is edited elsewhere.
//
// # Quick Start
//
//	src, err := shaping.NewFontSource(goregular.TTF)
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := vtext.New(src, vtext.WithSize(320, 480), vtext.WithScale(2))
//	if err != nil {
//		log.Fatal(err)
//	}
//	v.SetText(text)
//	v.ScrollTo(1200)
//
//	dst := image.NewRGBA(image.Rect(0, 0, 640, 960))
//	if err := v.Render(dst); err != nil {
//		log.Fatal(err)
//	}
//
// # Vertical text
//
// WithOrientation(Vertical) lays the document out horizontally with a line
// length equal to the view height and presents it turned a quarter
// clockwise, so lines run top to bottom and advance right to left. East
// Asian wide characters are drawn upright.
//
// # Architecture
//
// The library is organized into:
//   - View (this package): composition root, options, logging
//   - shaping: font loading, paragraph shaping and painting
//   - viewport: the layout pass over the viewport
//   - fragcache: identity-keyed surface cache
//   - surface: per-fragment surfaces and the render tree
//   - scroll: content offset and extent
//   - fragment, geom: shared value types
//   - script: scenario scripts driving a View
package vtext
