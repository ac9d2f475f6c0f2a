package shaping

import "errors"

// Sentinel errors for the shaping package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("shaping: empty font data")

	// ErrUnknownFragment is returned when painting a fragment whose
	// identity the document no longer knows.
	ErrUnknownFragment = errors.New("shaping: unknown fragment")

	// ErrInvalidRange is returned when an edit range lies outside the text.
	ErrInvalidRange = errors.New("shaping: invalid range")
)
