package shaping

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/vtext/internal/logging"
)

// FontSource is a loaded font file. The go-text parse is used for shaping
// and the sfnt parse for metrics and glyph outlines; both share the same
// glyph indices.
//
// FontSource is read-only after creation and safe for concurrent use.
// It must not be copied after creation (enforced by copyCheck).
type FontSource struct {
	// addr points to the FontSource itself and detects copies.
	addr *FontSource

	data []byte
	gt   *font.Font
	sf   *sfnt.Font
	name string
}

// NewFontSource creates a FontSource from TTF or OTF data.
// The data slice is copied and can be reused after this call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	buf := bytes.Clone(data)

	sf, err := sfnt.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("shaping: failed to parse font: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("shaping: failed to parse font: %w", err)
	}

	s := &FontSource{data: buf, gt: face.Font, sf: sf}
	s.addr = s
	s.name = fontName(sf)
	logging.Logger().Info("shaping: font loaded", "name", s.name, "glyphs", sf.NumGlyphs())
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shaping: failed to read font file: %w", err)
	}
	return NewFontSource(data)
}

// Name returns the font family name.
func (s *FontSource) Name() string {
	s.copyCheck()
	return s.name
}

// Face returns a face at the given size in document units.
// Panics if s is nil (e.g. when the NewFontSourceFromFile error was ignored).
func (s *FontSource) Face(size float64) *Face {
	if s == nil {
		panic("shaping: FontSource is nil, did you check the error from NewFontSourceFromFile?")
	}
	s.copyCheck()
	return &Face{source: s, size: size}
}

// copyCheck panics if FontSource was copied by value.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("shaping: FontSource must not be copied by value")
	}
}

func fontName(f *sfnt.Font) string {
	var buf sfnt.Buffer
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		if name, err := f.Name(&buf, id); err == nil && name != "" {
			return name
		}
	}
	return "Unknown Font"
}
