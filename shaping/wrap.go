package shaping

import "unicode"

// line is a wrapped line of a paragraph: glyphs [start, end) drawn with
// their pen positions shifted left by x.
type line struct {
	start, end int
	x          float64
	width      float64
}

// wrapLines breaks glyphs into lines no wider than maxWidth, greedily at
// break opportunities. A maxWidth of zero or less disables wrapping. A glyph
// wider than maxWidth still gets a line of its own.
func wrapLines(glyphs []glyph, maxWidth float64) []line {
	if len(glyphs) == 0 {
		return []line{{}}
	}
	if maxWidth <= 0 {
		return []line{newLine(glyphs, 0, len(glyphs))}
	}

	var lines []line
	lineStart := 0
	lastBreak := -1
	startX := glyphs[0].x

	for i := range glyphs {
		g := glyphs[i]
		// Trailing spaces hang past the edge.
		if g.x-startX+g.advance > maxWidth && lineStart < i && !unicode.IsSpace(g.r) {
			breakAt := i
			if lastBreak >= lineStart {
				breakAt = lastBreak + 1
			}
			lines = append(lines, newLine(glyphs, lineStart, breakAt))
			lineStart = breakAt
			lastBreak = -1
			startX = glyphs[lineStart].x
		}

		if canBreakAfter(glyphs, i) {
			lastBreak = i
		}
	}
	return append(lines, newLine(glyphs, lineStart, len(glyphs)))
}

func newLine(glyphs []glyph, start, end int) line {
	l := line{start: start, end: end, x: glyphs[start].x}
	// Width excludes trailing spaces.
	for j := end - 1; j >= start; j-- {
		if !unicode.IsSpace(glyphs[j].r) {
			l.width = glyphs[j].x + glyphs[j].advance - l.x
			break
		}
	}
	return l
}

// canBreakAfter reports whether a line may end after glyph i: after spaces,
// and on either side of CJK characters. Breaks never split a cluster.
func canBreakAfter(glyphs []glyph, i int) bool {
	if i+1 >= len(glyphs) || glyphs[i+1].cluster == glyphs[i].cluster {
		return false
	}
	return unicode.IsSpace(glyphs[i].r) || isCJK(glyphs[i].r) || isCJK(glyphs[i+1].r)
}

// isCJK returns true if the rune is a CJK character.
// CJK characters can break anywhere (no word boundaries).
func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x20000 && r <= 0x2A6DF) || // CJK Extension B
		(r >= 0x3040 && r <= 0x309F) || // Hiragana
		(r >= 0x30A0 && r <= 0x30FF) || // Katakana
		(r >= 0xAC00 && r <= 0xD7AF) || // Hangul Syllables
		(r >= 0xFF00 && r <= 0xFFEF) // Fullwidth forms
}
