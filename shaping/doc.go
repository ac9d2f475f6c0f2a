// Package shaping turns document text into fragments.
//
// A Document holds the text as paragraphs separated by hard line breaks and
// shapes each paragraph with the HarfBuzz port from go-text/typesetting.
// Lines wrap greedily at spaces and around CJK characters. Glyph outlines
// come from golang.org/x/image/font/sfnt and are rasterized with
// golang.org/x/image/vector when a fragment's surface is painted.
//
// Fonts are loaded once into a FontSource and sized with Face:
//
//	src, err := shaping.NewFontSource(goregular.TTF)
//	if err != nil {
//		return err
//	}
//	doc := shaping.NewDocument(src, shaping.DefaultOptions())
//	doc.SetText("first paragraph\nsecond paragraph")
package shaping
