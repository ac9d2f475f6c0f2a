package shaping

import (
	"fmt"
	"image/color"
	"iter"
	"sort"
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/vtext/fragment"
	"github.com/gogpu/vtext/geom"
	"github.com/gogpu/vtext/internal/logging"
)

var (
	_ fragment.Oracle   = (*Document)(nil)
	_ fragment.Liveness = (*Document)(nil)
)

// Options configures a Document.
type Options struct {
	// Size is the font size in document units.
	Size float64

	// LineSpacing multiplies the natural line height.
	LineSpacing float64

	// Width is the container width lines wrap at.
	// Zero or less disables wrapping.
	Width float64

	// Vertical draws East Asian wide and fullwidth glyphs upright, for a
	// document presented rotated by a quarter turn.
	Vertical bool

	// Color is the glyph color.
	Color color.Color
}

// DefaultOptions returns the default document options.
func DefaultOptions() Options {
	return Options{
		Size:        16,
		LineSpacing: 1,
		Color:       color.Black,
	}
}

// paragraph is one hard-break-delimited piece of the text and the fragment
// it is laid out as.
type paragraph struct {
	id    fragment.ID
	text  string
	start int

	shaped bool
	glyphs []glyph
	lines  []line
	bounds geom.Rect
	frame  geom.Rect
}

// Document is the shaping oracle: it owns the text, shapes it one paragraph
// at a time, and reports one fragment per paragraph.
//
// Layout is lazy and in order. Only the paragraphs up to the bottom of a
// query are shaped and positioned; shaped paragraphs are reused until their
// text or the container width changes, and then they are re-shaped under a
// new identity. Paragraphs that survive an edit keep their identity and
// only move.
//
// Document implements fragment.Oracle, fragment.Liveness and
// surface.Painter. It is not safe for concurrent use.
type Document struct {
	face    *Face
	metrics Metrics
	opts    Options
	shaper  *shaper

	paras   []*paragraph
	byID    map[fragment.ID]*paragraph
	laidOut int
	nextID  fragment.ID

	buf sfnt.Buffer
}

// NewDocument creates an empty document shaped with src.
// Panics if src is nil.
func NewDocument(src *FontSource, opts Options) *Document {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.LineSpacing <= 0 {
		opts.LineSpacing = 1
	}
	if opts.Color == nil {
		opts.Color = color.Black
	}
	face := src.Face(opts.Size)
	return &Document{
		face:    face,
		metrics: face.Metrics(),
		opts:    opts,
		shaper:  newShaper(),
		byID:    make(map[fragment.ID]*paragraph),
		nextID:  1,
	}
}

// Options returns the document options.
func (d *Document) Options() Options { return d.opts }

// Metrics returns the metrics of the document face.
func (d *Document) Metrics() Metrics { return d.metrics }

// LineHeight returns the spaced height of one line.
func (d *Document) LineHeight() float64 {
	return d.metrics.Height() * d.opts.LineSpacing
}

// Len returns the number of paragraphs.
func (d *Document) Len() int { return len(d.paras) }

// Shaped returns the number of paragraphs currently holding shaped glyphs.
func (d *Document) Shaped() int {
	n := 0
	for _, p := range d.paras {
		if p.shaped {
			n++
		}
	}
	return n
}

// Text returns the document text with line breaks normalized to "\n".
func (d *Document) Text() string {
	var b strings.Builder
	for i, p := range d.paras {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.text)
	}
	return b.String()
}

// SetText replaces the whole text. Every paragraph gets a new identity.
func (d *Document) SetText(s string) {
	clear(d.byID)
	texts := splitParagraphs(normalizeBreaks(s))
	d.paras = make([]*paragraph, 0, len(texts))
	for _, t := range texts {
		d.paras = append(d.paras, d.newParagraph(t))
	}
	d.reindex(0)
	d.laidOut = 0
	logging.Logger().Info("shaping: text set", "paragraphs", len(d.paras), "bytes", len(s))
}

// Replace replaces the bytes [start, end) of Text() with s. Paragraphs
// before and after the edit keep their identity.
func (d *Document) Replace(start, end int, s string) error {
	text := d.Text()
	if start < 0 || end < start || end > len(text) {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", ErrInvalidRange, start, end, len(text))
	}
	next := splitParagraphs(text[:start] + normalizeBreaks(s) + text[end:])
	old := d.paras

	k := 0
	for k < len(old) && k < len(next) && old[k].text == next[k] {
		k++
	}
	m := 0
	for m < len(old)-k && m < len(next)-k && old[len(old)-1-m].text == next[len(next)-1-m] {
		m++
	}

	paras := make([]*paragraph, 0, len(next))
	paras = append(paras, old[:k]...)
	for _, t := range next[k : len(next)-m] {
		paras = append(paras, d.newParagraph(t))
	}
	paras = append(paras, old[len(old)-m:]...)
	for _, p := range old[k : len(old)-m] {
		delete(d.byID, p.id)
	}

	d.paras = paras
	d.reindex(k)
	d.laidOut = min(d.laidOut, k)
	logging.Logger().Debug("shaping: text replaced",
		"start", start, "end", end,
		"kept", k+m, "reshaped", len(next)-k-m, "dropped", len(old)-k-m)
	return nil
}

// Width returns the container width.
func (d *Document) Width() float64 { return d.opts.Width }

// SetWidth changes the container width and reports whether it changed.
// Every paragraph is re-shaped under a new identity.
func (d *Document) SetWidth(w float64) bool {
	if w == d.opts.Width {
		return false
	}
	d.opts.Width = w
	clear(d.byID)
	for i, p := range d.paras {
		d.paras[i] = d.newParagraph(p.text)
		d.paras[i].start = p.start
	}
	d.laidOut = 0
	if w <= 0 {
		logging.Logger().Warn("shaping: non-positive container width, wrapping disabled", "width", w)
	}
	return true
}

// FragmentsIntersecting implements fragment.Oracle. Iterating the sequence
// lays out paragraphs up to the bottom of rect.
func (d *Document) FragmentsIntersecting(rect geom.Rect) iter.Seq[fragment.Fragment] {
	return func(yield func(fragment.Fragment) bool) {
		d.layoutUntil(rect.MaxY())
		i := sort.Search(d.laidOut, func(i int) bool {
			return d.paras[i].frame.MaxY() > rect.MinY()
		})
		for ; i < d.laidOut; i++ {
			f := d.fragment(d.paras[i])
			if f.Frame.MinY() >= rect.MaxY() {
				return
			}
			if f.Intersects(rect) && !yield(f) {
				return
			}
		}
	}
}

// DocumentExtentHint implements fragment.Oracle. It lays out the whole
// document and returns the bottom edge of the last paragraph, or 0 for an
// empty document.
//
// The viewport controller asks for the hint at the end of every pass, so
// the first pass over a new or re-wrapped document shapes every paragraph.
// Laziness in FragmentsIntersecting only pays off for callers that query
// fragments without asking for the extent.
func (d *Document) DocumentExtentHint() float64 {
	if len(d.paras) == 0 {
		return 0
	}
	d.layoutAll()
	return d.paras[len(d.paras)-1].frame.MaxY()
}

// Alive implements fragment.Liveness.
func (d *Document) Alive(id fragment.ID) bool {
	_, ok := d.byID[id]
	return ok
}

// Fragment returns the current fragment of paragraph i, laying out the
// document up to it. It panics if i is not in [0, Len()).
func (d *Document) Fragment(i int) fragment.Fragment {
	if i < 0 || i >= len(d.paras) {
		panic(fmt.Sprintf("shaping: paragraph index %d out of range [0, %d)", i, len(d.paras)))
	}
	for d.laidOut <= i {
		d.layoutNext()
	}
	return d.fragment(d.paras[i])
}

func (d *Document) newParagraph(text string) *paragraph {
	p := &paragraph{id: d.nextID, text: text}
	d.nextID++
	d.byID[p.id] = p
	return p
}

// reindex recomputes byte offsets from paragraph i onward.
func (d *Document) reindex(i int) {
	off := 0
	if i > 0 {
		prev := d.paras[i-1]
		off = prev.start + len(prev.text) + 1
	}
	for _, p := range d.paras[i:] {
		p.start = off
		off += len(p.text) + 1
	}
}

// layoutUntil lays out paragraphs until one starts at or below y.
func (d *Document) layoutUntil(y float64) {
	for d.laidOut < len(d.paras) {
		if d.laidOut > 0 && d.paras[d.laidOut-1].frame.MinY() >= y {
			return
		}
		d.layoutNext()
	}
}

func (d *Document) layoutAll() {
	for d.laidOut < len(d.paras) {
		d.layoutNext()
	}
}

func (d *Document) layoutNext() {
	p := d.paras[d.laidOut]
	var y float64
	if d.laidOut > 0 {
		y = d.paras[d.laidOut-1].frame.MaxY()
	}
	d.shape(p)
	w := d.opts.Width
	if w <= 0 {
		w = p.bounds.Width()
	}
	p.frame = geom.R(0, y, w, p.bounds.Height())
	d.laidOut++
}

func (d *Document) shape(p *paragraph) {
	if p.shaped {
		return
	}
	p.glyphs = d.shaper.shape([]rune(p.text), d.face)
	p.lines = wrapLines(p.glyphs, d.opts.Width)

	var maxWidth float64
	for _, l := range p.lines {
		maxWidth = max(maxWidth, l.width)
	}
	height := float64(len(p.lines)) * d.LineHeight()
	p.bounds = geom.R(0, 0, max(d.opts.Width, maxWidth), height)
	p.shaped = true
}

func (d *Document) fragment(p *paragraph) fragment.Fragment {
	return fragment.Fragment{
		ID:            p.id,
		Frame:         p.frame,
		SurfaceBounds: p.bounds,
		Range:         fragment.Range{Start: p.start, End: p.start + len(p.text)},
	}
}

// normalizeBreaks rewrites "\r\n" and "\r" as "\n".
func normalizeBreaks(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitParagraphs splits normalized text at hard breaks. Empty text has no
// paragraphs; a trailing break starts an empty last paragraph.
func splitParagraphs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
