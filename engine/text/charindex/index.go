package charindex

import (
	"fmt"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
)

// GlyphRef addresses a glyph of a text layout.
type GlyphRef struct {
	Run   int // index into TextLayout.Runs, -1 for none
	Glyph int
}

// NoGlyph is the zero reference.
var NoGlyph = GlyphRef{Run: -1, Glyph: -1}

// Valid is false for NoGlyph.
func (ref GlyphRef) Valid() bool {
	return ref.Run >= 0 && ref.Glyph >= 0
}

func (ref GlyphRef) before(other GlyphRef) bool {
	return ref.Run < other.Run || ref.Run == other.Run && ref.Glyph < other.Glyph
}

func (ref GlyphRef) String() string {
	return fmt.Sprintf("glyph(%d:%d)", ref.Run, ref.Glyph)
}

// Index maps characters of an attributed run to the glyphs representing
// them.
type Index struct {
	layout *glyphlayout.TextLayout
	first  []GlyphRef // per character
	last   []GlyphRef // per character
	ctm    dimen.Affine
}

// New indexes a text layout.
func New(tl *glyphlayout.TextLayout) *Index {
	n := 0
	if tl.Run != nil {
		n = tl.Run.Len()
	}
	x := &Index{
		layout: tl,
		first:  make([]GlyphRef, n),
		last:   make([]GlyphRef, n),
		ctm:    dimen.Identity,
	}
	for c := range x.first {
		x.first[c], x.last[c] = NoGlyph, NoGlyph
	}
	for k, gr := range tl.Runs {
		for j, g := range gr.Glyphs() {
			for c := g.Char; c < g.Char+max(g.Chars, 1) && c < n; c++ {
				ref := GlyphRef{Run: k, Glyph: j}
				if !x.first[c].Valid() || ref.before(x.first[c]) {
					x.first[c] = ref
				}
				if !x.last[c].Valid() || x.last[c].before(ref) {
					x.last[c] = ref
				}
			}
		}
	}
	return x
}

// Layout returns the indexed layout.
func (x *Index) Layout() *glyphlayout.TextLayout {
	return x.layout
}

// SetTransform sets the coordinate system of query results. Positions,
// extents and highlights are mapped by m; hit tests map points back.
func (x *Index) SetTransform(m dimen.Affine) {
	x.ctm = m
}

// Transform returns the coordinate system of query results.
func (x *Index) Transform() dimen.Affine {
	return x.ctm
}

// FirstGlyphFor returns the first glyph, in glyph order, representing
// character c of the run.
func (x *Index) FirstGlyphFor(c int) (GlyphRef, bool) {
	if c < 0 || c >= len(x.first) || !x.first[c].Valid() {
		return NoGlyph, false
	}
	return x.first[c], true
}

// LastGlyphFor returns the last glyph, in glyph order, representing
// character c of the run.
func (x *Index) LastGlyphFor(c int) (GlyphRef, bool) {
	if c < 0 || c >= len(x.last) || !x.last[c].Valid() {
		return NoGlyph, false
	}
	return x.last[c], true
}

// GlyphRangeForElement returns the lowest and the highest glyph reference
// of all characters attributed to element e or its descendants.
func (x *Index) GlyphRangeForElement(e dom.NodeID) (lo, hi GlyphRef, ok bool) {
	if x.layout.Run == nil {
		return NoGlyph, NoGlyph, false
	}
	first, last, ok := x.layout.Run.CharRange(e)
	if !ok {
		return NoGlyph, NoGlyph, false
	}
	lo, hi = NoGlyph, NoGlyph
	for c := first; c <= last; c++ {
		if f := x.first[c]; f.Valid() && (!lo.Valid() || f.before(lo)) {
			lo = f
		}
		if l := x.last[c]; l.Valid() && (!hi.Valid() || hi.before(l)) {
			hi = l
		}
	}
	return lo, hi, lo.Valid()
}

// glyphFor returns the first glyph for character c. Characters of a glyph
// run without a glyph of their own get the glyph following their
// predecessor's glyph in reading direction.
func (x *Index) glyphFor(c int) (GlyphRef, bool) {
	if ref, ok := x.FirstGlyphFor(c); ok {
		return ref, true
	}
	k, ok := x.layout.RunFor(c)
	if !ok {
		return NoGlyph, false
	}
	gr := x.layout.Runs[k]
	seg := gr.Segment()
	var j int
	if !gr.IsRightToLeft() {
		if c > seg.Start && x.first[c-1].Valid() {
			j = x.first[c-1].Glyph + 1
		}
	} else {
		j = gr.Len() - 1
		if c+1 < seg.End && x.first[c+1].Valid() {
			j = x.first[c+1].Glyph - 1
		}
	}
	j = min(max(j, 0), gr.Len()-1)
	tracer().Debugf("character %d has no glyph, using %d", c, j)
	return GlyphRef{Run: k, Glyph: j}, true
}
