package font

import (
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
)

// GlyphIndex is the index of a glyph within a font. 0 is the 'missing glyph'.
type GlyphIndex uint32

// Metrics are the font-wide metrics of a typecase, in user units.
// Offsets are measured from the baseline with the y-axis pointing down, i.e.
// an underline has a positive offset, an overline a negative one.
type Metrics struct {
	Ascent                 dimen.Dimen // distance from baseline to top, positive
	Descent                dimen.Dimen // distance from baseline to bottom, positive
	LineGap                dimen.Dimen
	XHeight                dimen.Dimen
	CapHeight              dimen.Dimen
	UnderlineOffset        dimen.Dimen
	UnderlineThickness     dimen.Dimen
	StrikethroughOffset    dimen.Dimen
	StrikethroughThickness dimen.Dimen
	OverlineOffset         dimen.Dimen
	OverlineThickness      dimen.Dimen
}

// Height returns ascent + descent.
func (m Metrics) Height() dimen.Dimen {
	return m.Ascent + m.Descent
}

// designPPEM lets sfnt report values in font design units (×64).
func (sf *ScalableFont) designPPEM() fixed.Int26_6 {
	return fixed.I(int(sf.SFNT.UnitsPerEm()))
}

func (sf *ScalableFont) scale(size dimen.Dimen) float64 {
	return float64(size) / float64(sf.SFNT.UnitsPerEm()) / 64
}

func (sf *ScalableFont) metrics(size dimen.Dimen) (Metrics, error) {
	sf.mx.Lock()
	defer sf.mx.Unlock()
	s := sf.scale(size)
	conv := func(v fixed.Int26_6) dimen.Dimen {
		return dimen.Dimen(float64(v) * s)
	}
	var m Metrics
	fm, err := sf.SFNT.Metrics(&sf.buf, sf.designPPEM(), xfont.HintingNone)
	if err != nil {
		return m, core.WrapError(err, core.EINVALID, "cannot read metrics of font %s", sf.Fontname)
	}
	m.Ascent = conv(fm.Ascent)
	m.Descent = conv(fm.Descent)
	m.LineGap = dimen.Max(0, conv(fm.Height)-m.Ascent-m.Descent)
	m.XHeight = conv(fm.XHeight)
	m.CapHeight = conv(fm.CapHeight)
	if m.XHeight <= 0 {
		m.XHeight = m.Ascent / 2
	}
	unit := float64(size) / float64(sf.SFNT.UnitsPerEm())
	if post := sf.SFNT.PostTable(); post != nil && post.UnderlineThickness > 0 {
		m.UnderlineOffset = dimen.Dimen(-float64(post.UnderlinePosition) * unit)
		m.UnderlineThickness = dimen.Dimen(float64(post.UnderlineThickness) * unit)
	} else {
		m.UnderlineOffset = size / 10
		m.UnderlineThickness = size / 14
	}
	m.StrikethroughOffset = -m.XHeight / 2
	m.StrikethroughThickness = m.UnderlineThickness
	m.OverlineOffset = -m.Ascent
	m.OverlineThickness = m.UnderlineThickness
	return m, nil
}

// GlyphIndex returns the glyph for a code-point. ok is false if the font
// does not contain a glyph for r.
func (tc *TypeCase) GlyphIndex(r rune) (g GlyphIndex, ok bool) {
	sf := tc.scalableFontParent
	sf.mx.Lock()
	defer sf.mx.Unlock()
	gid, err := sf.SFNT.GlyphIndex(&sf.buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return GlyphIndex(gid), true
}

// GlyphAdvance returns the horizontal advance of a glyph.
func (tc *TypeCase) GlyphAdvance(g GlyphIndex) dimen.Dimen {
	sf := tc.scalableFontParent
	sf.mx.Lock()
	defer sf.mx.Unlock()
	adv, err := sf.SFNT.GlyphAdvance(&sf.buf, sfnt.GlyphIndex(g), sf.designPPEM(), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return dimen.Dimen(float64(adv) * sf.scale(tc.size))
}

// GlyphBounds returns the ink bounding box of a glyph, relative to the glyph
// origin on the baseline (y-axis pointing down), and its advance.
// Glyphs without outline (e.g. spaces) have an empty box (dimen.NoRect).
func (tc *TypeCase) GlyphBounds(g GlyphIndex) (dimen.Rect, dimen.Dimen) {
	sf := tc.scalableFontParent
	sf.mx.Lock()
	defer sf.mx.Unlock()
	b, adv, err := sf.SFNT.GlyphBounds(&sf.buf, sfnt.GlyphIndex(g), sf.designPPEM(), xfont.HintingNone)
	if err != nil {
		return dimen.NoRect, 0
	}
	s := sf.scale(tc.size)
	if b.Empty() {
		return dimen.NoRect, dimen.Dimen(float64(adv) * s)
	}
	r := dimen.Rect{
		TopL: dimen.Point{X: dimen.Dimen(float64(b.Min.X) * s), Y: dimen.Dimen(float64(b.Min.Y) * s)},
		BotR: dimen.Point{X: dimen.Dimen(float64(b.Max.X) * s), Y: dimen.Dimen(float64(b.Max.Y) * s)},
	}
	return r, dimen.Dimen(float64(adv) * s)
}

// Kern returns the kerning adjustment between two glyphs, from the font's
// legacy kern table.
func (tc *TypeCase) Kern(g0, g1 GlyphIndex) dimen.Dimen {
	sf := tc.scalableFontParent
	sf.mx.Lock()
	defer sf.mx.Unlock()
	k, err := sf.SFNT.Kern(&sf.buf, sfnt.GlyphIndex(g0), sfnt.GlyphIndex(g1), sf.designPPEM(), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return dimen.Dimen(float64(k) * sf.scale(tc.size))
}

// --- Outlines --------------------------------------------------------------

// OutlineOp is the operator of an outline segment.
type OutlineOp uint8

const (
	MoveTo OutlineOp = iota
	LineTo
	QuadTo
	CubeTo
)

// OutlineSegment is a segment of a glyph outline. Only the first 1, 2 or 3
// points of Args are valid, depending on Op.
type OutlineSegment struct {
	Op   OutlineOp
	Args [3]dimen.Point
}

// Outline is the vector outline of a glyph in user units.
type Outline []OutlineSegment

// Transform applies an affine transform to all points of an outline.
func (o Outline) Transform(m dimen.Affine) Outline {
	t := make(Outline, len(o))
	for i, seg := range o {
		t[i].Op = seg.Op
		for j := range seg.Args {
			t[i].Args[j] = m.Apply(seg.Args[j])
		}
	}
	return t
}

// Bounds returns the bounding box of the outline's points.
func (o Outline) Bounds() dimen.Rect {
	r := dimen.NoRect
	for _, seg := range o {
		n := 1
		switch seg.Op {
		case QuadTo:
			n = 2
		case CubeTo:
			n = 3
		}
		for j := 0; j < n; j++ {
			r = r.Extend(seg.Args[j])
		}
	}
	return r
}

// GlyphOutline loads the outline of a glyph.
func (tc *TypeCase) GlyphOutline(g GlyphIndex) (Outline, error) {
	sf := tc.scalableFontParent
	sf.mx.Lock()
	defer sf.mx.Unlock()
	segs, err := sf.SFNT.LoadGlyph(&sf.buf, sfnt.GlyphIndex(g), sf.designPPEM(), nil)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "no outline for glyph %d", g)
	}
	s := sf.scale(tc.size)
	outline := make(Outline, len(segs)) // copy, segs are invalid after buffer re-use
	for i, seg := range segs {
		outline[i].Op = OutlineOp(seg.Op)
		for j, p := range seg.Args {
			outline[i].Args[j] = dimen.Point{
				X: dimen.Dimen(float64(p.X) * s),
				Y: dimen.Dimen(float64(p.Y) * s),
			}
		}
	}
	return outline, nil
}

// NullTypeCase returns the fallback font at 16px.
func NullTypeCase() *TypeCase {
	tc, _ := FallbackFont().PrepareCase(16)
	return tc
}
