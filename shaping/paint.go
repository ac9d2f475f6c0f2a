package shaping

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/width"

	"github.com/gogpu/vtext/fragment"
	"github.com/gogpu/vtext/surface"
)

var _ surface.Painter = (*Document)(nil)

// Paint implements surface.Painter. It rasterizes the glyph outlines of
// the paragraph behind f into dst, whose origin is the fragment-local point
// f.SurfaceBounds.Origin and whose pixels are 1/scale document units.
func (d *Document) Paint(dst *image.RGBA, f fragment.Fragment, scale float64) error {
	p, ok := d.byID[f.ID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFragment, f.ID)
	}
	d.shape(p)

	b := dst.Bounds()
	if b.Empty() {
		return nil
	}
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over

	ppem := floatToFixed(d.face.size * scale)
	origin := f.SurfaceBounds.Origin
	lh := d.LineHeight()
	for k, ln := range p.lines {
		baseline := float64(k)*lh + d.metrics.Ascent - origin.Y
		for _, g := range p.glyphs[ln.start:ln.end] {
			pen := glyphPen{
				x:       (g.x - ln.x + g.xOff - origin.X) * scale,
				y:       (baseline - g.yOff) * scale,
				upright: d.opts.Vertical && isWide(g.r),
				cx:      g.advance * scale / 2,
				cy:      (d.metrics.Descent - d.metrics.Ascent) * scale / 2,
			}
			if err := d.addGlyph(r, g.id, ppem, pen); err != nil {
				return err
			}
		}
	}

	r.Draw(dst, b, image.NewUniform(d.opts.Color), image.Point{})
	return nil
}

// glyphPen places an outline in surface pixels. Upright glyphs are turned a
// quarter counter-clockwise around the em box center (cx, cy), relative to
// the pen, so they read upright once the surface is turned clockwise.
type glyphPen struct {
	x, y    float64
	upright bool
	cx, cy  float64
}

func (p glyphPen) at(pt fixed.Point26_6) (float32, float32) {
	x, y := fixedToFloat(pt.X), fixedToFloat(pt.Y)
	if p.upright {
		x, y = p.cx+(y-p.cy), p.cy-(x-p.cx)
	}
	return float32(p.x + x), float32(p.y + y)
}

func (d *Document) addGlyph(r *vector.Rasterizer, id uint16, ppem fixed.Int26_6, pen glyphPen) error {
	segs, err := d.face.source.sf.LoadGlyph(&d.buf, sfnt.GlyphIndex(id), ppem, nil)
	if err != nil {
		return fmt.Errorf("shaping: load glyph %d: %w", id, err)
	}

	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.ClosePath()
			}
			open = true
			r.MoveTo(pen.at(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.LineTo(pen.at(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pen.at(s.Args[0])
			cx, cy := pen.at(s.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pen.at(s.Args[0])
			cx, cy := pen.at(s.Args[1])
			dx, dy := pen.at(s.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		r.ClosePath()
	}
	return nil
}

// isWide reports whether r is an East Asian wide or fullwidth character,
// which vertical text draws upright.
func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
