package glyphlayout

import (
	"sort"

	xfont "golang.org/x/image/font"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/core/font/fontregistry"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/glyphing"
	"github.com/npillmayer/svgtext/engine/glyphing/harfbuzz"
	"github.com/npillmayer/svgtext/engine/text/attributed"
)

// FontResolver finds typecases for CSS font-family lists.
// *fontregistry.Registry is a FontResolver.
type FontResolver interface {
	ResolveFont(families []string, style xfont.Style, weight xfont.Weight, size dimen.Dimen) (*font.TypeCase, error)
}

// Layouter creates glyph layouts from attributed runs.
type Layouter struct {
	Fonts    FontResolver
	Shaper   glyphing.Shaper
	Reporter core.ErrorReporter
}

// NewLayouter creates a layouter. If fonts is nil, the global font registry
// is used; if shaper is nil, a HarfBuzz shaper is used.
func NewLayouter(fonts FontResolver, shaper glyphing.Shaper, reporter core.ErrorReporter) *Layouter {
	if fonts == nil {
		fonts = fontregistry.GlobalRegistry()
	}
	if shaper == nil {
		shaper = harfbuzz.New()
	}
	return &Layouter{Fonts: fonts, Shaper: shaper, Reporter: reporter}
}

// Chunk is a text chunk: glyph runs which are positioned and anchored
// together.
type Chunk struct {
	Runs    []int       // indices into TextLayout.Runs, in visual order
	Start   dimen.Point // current text position at the start of the chunk
	Advance dimen.Dimen // in inline direction, before anchoring
	Anchor  style.Anchor
}

// TextLayout is the glyph layout of an attributed run.
type TextLayout struct {
	Run    *attributed.Run
	Runs   []*GlyphRun // in logical order
	Chunks []Chunk
}

// Layout shapes and positions the characters of run. Text starts at origin
// unless the first character has an absolute position.
func (lt *Layouter) Layout(run *attributed.Run, origin dimen.Point) *TextLayout {
	tl := &TextLayout{Run: run}
	if run == nil || run.Len() == 0 {
		return tl
	}
	cursor := origin
	var chunk []int
	flush := func() {
		if len(chunk) > 0 {
			cursor = tl.layoutChunk(chunk, cursor)
			chunk = nil
		}
	}
	for _, seg := range run.Segments() {
		if seg.NewChunk {
			flush()
		}
		gr := lt.GlyphRun(run, seg)
		if gr == nil {
			continue
		}
		tl.Runs = append(tl.Runs, gr)
		chunk = append(chunk, len(tl.Runs)-1)
	}
	flush()
	tracer().Debugf("layout of %q: %d glyph runs in %d chunks", run.String(), len(tl.Runs), len(tl.Chunks))
	return tl
}

// GlyphRun shapes a single segment of run with the font of the segment's
// element. Failures are reported and result in nil.
func (lt *Layouter) GlyphRun(run *attributed.Run, seg attributed.Segment) *GlyphRun {
	st := run.Styles(seg.Start)
	tc, err := lt.Fonts.ResolveFont(st.FontFamily, st.FontStyle, st.FontWeight, st.FontSize)
	if err != nil {
		core.Report(lt.Reporter, err)
		if tc == nil {
			return nil
		}
	}
	gr, err := New(run, seg, tc, lt.Shaper, dimen.Point{})
	if err != nil {
		core.Report(lt.Reporter, err)
		return nil
	}
	return gr
}

// layoutChunk positions the runs of a chunk, starting at the current text
// position cursor, and returns the position following the chunk.
func (tl *TextLayout) layoutChunk(idx []int, cursor dimen.Point) dimen.Point {
	first := tl.Runs[idx[0]]
	a := tl.Run.Attrs[first.seg.Start]
	start := cursor
	if first.OnPath() {
		start = dimen.Point{}
	}
	if a.X.Set {
		start.X = a.X.Dimen()
	}
	if a.Y.Set {
		start.Y = a.Y.Dimen()
	}
	levels := make([]int8, len(idx))
	for i, k := range idx {
		levels[i] = tl.Runs[k].seg.Level
	}
	order := visualOrder(levels)
	for i, o := range order {
		order[i] = idx[o]
	}
	pos := start
	for _, k := range order {
		gr := tl.Runs[k]
		gr.Reset(pos)
		gr.AdjustSpacing()
		pos = gr.End()
	}
	tl.applyTextLength(order)
	//
	st := tl.Run.Styles(first.seg.Start)
	last := tl.Runs[order[len(order)-1]]
	adv := first.main(last.End()) - first.main(start)
	anchor := st.TextAnchor
	if st.RightToLeft() && !first.vertical {
		switch anchor {
		case style.AnchorStart:
			anchor = style.AnchorEnd
		case style.AnchorEnd:
			anchor = style.AnchorStart
		}
	}
	var shift dimen.Dimen
	switch anchor {
	case style.AnchorMiddle:
		shift = -adv / 2
	case style.AnchorEnd:
		shift = -adv
	}
	if shift != 0 {
		for _, k := range order {
			tl.Runs[k].Translate(first.along(shift))
		}
	}
	for _, k := range order {
		tl.Runs[k].ApplyPath()
	}
	tl.Chunks = append(tl.Chunks, Chunk{Runs: order, Start: start, Advance: adv, Anchor: st.TextAnchor})
	return tl.Runs[order[len(order)-1]].End()
}

// applyTextLength stretches the glyphs of elements with attribute textLength,
// innermost elements first. Elements spanning more than one chunk keep their
// natural advance.
func (tl *TextLayout) applyTextLength(order []int) {
	elems := tl.Run.Elements()
	for e := len(elems) - 1; e >= 0; e-- {
		elem := elems[e]
		if !elem.TextLength.Set || !elem.HasChars() {
			continue
		}
		var members []int // positions in order
		covered := 0
		for p, k := range order {
			seg := tl.Runs[k].seg
			if seg.Start >= elem.First && seg.End-1 <= elem.Last {
				members = append(members, p)
				covered += seg.Len()
			}
		}
		if len(members) == 0 {
			continue
		}
		lo, hi := members[0], members[len(members)-1]
		if covered != elem.Last-elem.First+1 || hi-lo+1 != len(members) {
			tracer().Debugf("textLength of element %d spans chunks, ignored", elem.ID)
			continue
		}
		first, last := tl.Runs[order[lo]], tl.Runs[order[hi]]
		origin := first.Offset()
		oldEnd := last.End()
		extent := first.main(oldEnd) - first.main(origin)
		if extent <= 0 {
			continue
		}
		scale := float64(elem.TextLength.Dimen()) / float64(extent)
		if !validScale(scale) {
			continue
		}
		sx, sy := scale, 1.0
		if first.vertical {
			sx, sy = 1.0, scale
		}
		for p := lo; p <= hi; p++ {
			tl.Runs[order[p]].Stretch(origin, sx, sy, elem.SpacingAndGlyphs)
		}
		delta := last.End().Sub(oldEnd)
		for p := hi + 1; p < len(order); p++ {
			tl.Runs[order[p]].Translate(delta)
		}
	}
}

// visualOrder reorders items with bidi embedding levels for display by
// reversing, from the highest level down to the lowest odd level, every
// maximal sequence at that level or higher.
func visualOrder(levels []int8) []int {
	order := make([]int, len(levels))
	for i := range order {
		order[i] = i
	}
	if len(levels) == 0 {
		return order
	}
	lo, hi := levels[0], levels[0]
	for _, l := range levels {
		lo, hi = min(lo, l), max(hi, l)
	}
	if lo%2 == 0 {
		lo++
	}
	for lvl := hi; lvl >= lo; lvl-- {
		for i := 0; i < len(order); {
			if levels[order[i]] < lvl {
				i++
				continue
			}
			j := i
			for j < len(order) && levels[order[j]] >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				order[a], order[b] = order[b], order[a]
			}
			i = j
		}
	}
	return order
}

// --- Queries ----------------------------------------------------------------

// Len returns the number of glyph runs.
func (tl *TextLayout) Len() int {
	return len(tl.Runs)
}

// RunFor returns the index of the glyph run containing character i of the
// attributed run.
func (tl *TextLayout) RunFor(i int) (int, bool) {
	k := sort.Search(len(tl.Runs), func(k int) bool {
		return tl.Runs[k].seg.End > i
	})
	if k < len(tl.Runs) && tl.Runs[k].seg.Start <= i {
		return k, true
	}
	return -1, false
}

// Bounds returns the union of the cells of all visible glyphs.
func (tl *TextLayout) Bounds() dimen.Rect {
	r := dimen.NoRect
	for _, gr := range tl.Runs {
		gr.ApplyPath()
		for i, g := range gr.glyphs {
			if !g.Visible {
				continue
			}
			m, box := gr.Cell(i)
			r = r.Union(quadOf(m, box).Bounds())
		}
	}
	return r
}

// Decorations returns the decoration lines of all glyph runs, in logical
// order.
func (tl *TextLayout) Decorations() []Decoration {
	var decos []Decoration
	for _, gr := range tl.Runs {
		decos = append(decos, gr.Decorations()...)
	}
	return decos
}

// End returns the current text position after the last chunk.
func (tl *TextLayout) End() (dimen.Point, bool) {
	if len(tl.Chunks) == 0 {
		return dimen.Point{}, false
	}
	c := tl.Chunks[len(tl.Chunks)-1]
	return tl.Runs[c.Runs[len(c.Runs)-1]].End(), true
}
