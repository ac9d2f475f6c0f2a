package shaping

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// glyph is one shaped glyph positioned on its paragraph's pen line.
type glyph struct {
	id      uint16
	r       rune
	cluster int // rune index of the first rune of the cluster
	x       float64
	advance float64
	xOff    float64
	yOff    float64
}

// shaper runs HarfBuzz over paragraphs. HarfbuzzShaper keeps mutable
// buffers, so instances are pooled.
type shaper struct {
	pool sync.Pool
}

func newShaper() *shaper {
	return &shaper{pool: sync.Pool{
		New: func() any { return &shaping.HarfbuzzShaper{} },
	}}
}

// shape shapes runes left to right with face and returns the glyphs with
// absolute pen positions.
func (s *shaper) shape(runes []rune, face *Face) []glyph {
	if len(runes) == 0 {
		return nil
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(face.source.gt),
		Size:      floatToFixed(face.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	glyphs := make([]glyph, len(out.Glyphs))
	var x float64
	for i, g := range out.Glyphs {
		cluster := min(max(g.TextIndex(), 0), len(runes)-1)
		glyphs[i] = glyph{
			id:      uint16(g.GlyphID), //nolint:gosec // glyph indices fit in uint16 for TrueType and CFF
			r:       runes[cluster],
			cluster: cluster,
			x:       x,
			advance: fixedToFloat(g.Advance),
			xOff:    fixedToFloat(g.XOffset),
			yOff:    fixedToFloat(g.YOffset),
		}
		x += glyphs[i].advance
	}
	return glyphs
}

// detectScript returns the script of the first non-space rune.
// Mixed-script paragraphs are shaped with that single script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
