package shaping

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics holds vertical font metrics at a face's size.
// All values are positive distances in document units.
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// Height returns the unspaced line height.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Face is a FontSource at a specific size.
type Face struct {
	source *FontSource
	size   float64
}

// Source returns the FontSource this face was created from.
func (f *Face) Source() *FontSource { return f.source }

// Size returns the face size in document units.
func (f *Face) Size() float64 { return f.size }

// Metrics returns the face metrics. A font that fails to report metrics
// yields zero metrics.
func (f *Face) Metrics() Metrics {
	var buf sfnt.Buffer
	m, err := f.source.sf.Metrics(&buf, floatToFixed(f.size), font.HintingNone)
	if err != nil {
		return Metrics{}
	}
	asc := fixedToFloat(m.Ascent)
	desc := fixedToFloat(m.Descent)
	if desc < 0 {
		desc = -desc
	}
	gap := fixedToFloat(m.Height) - asc - desc
	return Metrics{Ascent: asc, Descent: desc, LineGap: max(gap, 0)}
}

// floatToFixed converts a float64 to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
