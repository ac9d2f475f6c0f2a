package vtext

import (
	"math"

	"github.com/gogpu/vtext/geom"
)

// Orientation selects how the document is presented on screen.
type Orientation uint8

const (
	// Horizontal presents lines left to right, stacked top to bottom.
	Horizontal Orientation = iota

	// Vertical presents lines top to bottom, stacked right to left.
	// The document is laid out horizontally and turned a quarter clockwise.
	Vertical
)

// String returns the string representation of the orientation.
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	default:
		return "Unknown"
	}
}

// documentSize returns the visible document size for a screen of the
// given size. Vertical presentation swaps the axes.
func (o Orientation) documentSize(screen geom.Size) geom.Size {
	if o == Vertical {
		return geom.Sz(screen.Height, screen.Width)
	}
	return screen
}

// matrix maps document coordinates to screen coordinates for a screen of
// the given size scrolled to offset.
func (o Orientation) matrix(screen geom.Size, offset float64) geom.Matrix {
	scroll := geom.Translate(0, -offset)
	if o == Vertical {
		return geom.Translate(screen.Width, 0).
			Multiply(geom.Rotate(math.Pi / 2)).
			Multiply(scroll)
	}
	return scroll
}
