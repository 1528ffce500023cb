package flow

import (
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/text/attributed"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
)

// LineInfo describes a line of flow text.
type LineInfo struct {
	Origin          dimen.Point // start of the line box on the baseline, left side
	Start, End      int         // glyphs [Start, End) of the paragraph, in logical order
	Width           dimen.Dimen // available width
	Advance         dimen.Dimen
	VisualAdvance   dimen.Dimen // advance without trailing white space
	LastCharWidth   dimen.Dimen // advance of the last printing glyph
	Ascent, Descent dimen.Dimen
	Partial         bool // ends the paragraph or ends with a forced break
	Region          int
}

// Paragraph is a paragraph of wrapped flow text.
type Paragraph struct {
	Source *attributed.Paragraph
	Text   *glyphlayout.TextLayout
	Lines  []LineInfo
	stream *glyphStream
}

// Layout is the result of wrapping flow text.
type Layout struct {
	Regions    []RegionInfo
	Paragraphs []*Paragraph
	Overflow   bool // text has been hidden as it did not fit into the regions
}

// Flow wraps paragraphs of flow text into regions.
type Flow struct {
	Layouter *glyphlayout.Layouter
}

// New creates a flow wrapper which shapes text with layouter.
func New(layouter *glyphlayout.Layouter) *Flow {
	return &Flow{Layouter: layouter}
}

// Layout shapes and wraps paras into regions. Paragraphs are set one below
// the other; vertical margins of adjacent paragraphs collapse.
func (f *Flow) Layout(paras []*attributed.Paragraph, regions []RegionInfo) *Layout {
	fl := &Layout{Regions: regions}
	w := &wrapper{regions: regions, used: make([]dimen.Dimen, len(regions))}
	for _, p := range paras {
		para := &Paragraph{Source: p, Text: f.shape(p.Run)}
		para.stream = newGlyphStream(p.Run, para.Text.Runs)
		w.wrap(para)
		fl.Paragraphs = append(fl.Paragraphs, para)
	}
	for _, para := range fl.Paragraphs {
		w.place(para)
	}
	fl.Overflow = w.overflow
	tracer().Debugf("flow layout: %d paragraphs in %d regions, overflow=%v",
		len(paras), len(regions), fl.Overflow)
	return fl
}

// shape creates the glyph runs of a paragraph, set one after the other on a
// single line.
func (f *Flow) shape(run *attributed.Run) *glyphlayout.TextLayout {
	tl := &glyphlayout.TextLayout{Run: run}
	var pos dimen.Point
	for _, seg := range run.Segments() {
		gr := f.Layouter.GlyphRun(run, seg)
		if gr == nil {
			continue
		}
		gr.Reset(pos)
		gr.AdjustSpacing()
		pos = gr.End()
		tl.Runs = append(tl.Runs, gr)
	}
	return tl
}

// wrapper holds the state of breaking paragraphs into lines.
type wrapper struct {
	regions    []RegionInfo
	region     int           // current region
	dy         dimen.Dimen   // height used in the current region
	prevBottom dimen.Dimen   // bottom margin of the previous paragraph
	used       []dimen.Dimen // height used per region
	overflow   bool
}

func (w *wrapper) exhausted() bool {
	return w.region >= len(w.regions)
}

// nextRegion continues in the next region, leaving top space at its top.
// Bottom margins do not carry over.
func (w *wrapper) nextRegion(top dimen.Dimen) {
	w.region++
	w.dy, w.prevBottom = top, 0
	tracer().Debugf("flow continues in region %d", w.region)
}

func paragraphStyles(p *attributed.Paragraph) *style.Styles {
	if e, ok := p.Run.Element(p.Element); ok {
		return e.Styles
	}
	return nil
}

// lineHeightFactor is the line height relative to the font size.
func lineHeightFactor(st *style.Styles) float64 {
	if st == nil || st.LineHeight <= 0 || st.FontSize <= 0 {
		return 1
	}
	return float64(st.LineHeight / st.FontSize)
}

func (w *wrapper) wrap(para *Paragraph) {
	p, s := para.Source, para.stream
	n := s.Len()
	if p.Margins.RegionBreak {
		if !w.exhausted() {
			w.nextRegion(0)
		}
		s.hide(0, n)
		return
	}
	margin := dimen.Max(w.prevBottom, p.Margins.Top)
	if !w.exhausted() && w.dy+margin > w.regions[w.region].Rect.Height() {
		w.nextRegion(p.Margins.Top)
	} else {
		w.dy += margin
	}
	w.prevBottom = 0
	st := paragraphStyles(p)
	rtl := st != nil && st.RightToLeft()
	factor := lineHeightFactor(st)
	i, first := 0, true
	emptyLines := 0 // from repeated forced breaks
	for i < n && !w.exhausted() {
		for i < n && !s.isPrinting(i) {
			s.hide(i, i+1)
			emptyLines += s.lineBreaks(i)
			i++
		}
		if i == n {
			break
		}
		r := w.regions[w.region]
		var indent, top dimen.Dimen // top margin in a new region
		if first {
			indent, top = p.Margins.Indent, p.Margins.Top
		}
		width := r.Rect.Width() - p.Margins.Left - p.Margins.Right - indent
		end, forced, ok := fit(s, i, width)
		if !ok {
			tracer().Debugf("glyph %d does not fit into region %d", i, w.region)
			w.nextRegion(top)
			continue
		}
		ascent, descent, size := s.extents(i, end)
		lineBox := dimen.Dimen(float64(size) * factor)
		skip := dimen.Dimen(emptyLines) * lineBox
		if w.dy+skip+lineBox > r.Rect.Height() {
			w.nextRegion(top)
			emptyLines = 0
			continue
		}
		w.dy += skip
		emptyLines = 0
		halfLeading := (lineBox - ascent - descent) / 2
		x := r.Rect.TopL.X + p.Margins.Left
		if !rtl {
			x += indent
		}
		adv, visual, last := s.measure(i, end)
		para.Lines = append(para.Lines, LineInfo{
			Origin:        dimen.Pt(x, r.Rect.TopL.Y+w.dy+halfLeading+ascent),
			Start:         i,
			End:           end,
			Width:         width,
			Advance:       adv,
			VisualAdvance: visual,
			LastCharWidth: last,
			Ascent:        ascent,
			Descent:       descent,
			Partial:       forced || end == n,
			Region:        w.region,
		})
		w.dy += lineBox
		w.used[w.region] = w.dy
		if forced {
			emptyLines = s.lineBreaks(end-1) - 1
		}
		i, first = end, false
	}
	if i < n {
		s.hide(i, n)
		w.overflow = true
	}
	w.prevBottom = p.Margins.Bottom
}

// fit finds the end of a line starting at glyph i which is at most width
// wide. White space may hang over the end of the line. ok is false if not
// even the first glyph fits.
func fit(s *glyphStream, i int, width dimen.Dimen) (end int, forced, ok bool) {
	var adv dimen.Dimen
	breakAt := -1
	j := i
	for ; j < s.Len(); j++ {
		a := s.advance(j)
		if adv+a > width && s.isPrinting(j) {
			break
		}
		adv += a
		if s.lineBreaks(j) > 0 {
			return j + 1, true, true
		}
		if s.isBreak(j) {
			breakAt = j
		}
	}
	switch {
	case j == s.Len():
		return j, false, true
	case breakAt >= i:
		return breakAt + 1, false, true
	case j > i:
		return j, false, true // no break opportunity: break within the word
	}
	return i, false, false
}

// place moves the glyphs of a paragraph onto their lines. Glyphs of a glyph
// run stay together on a line; runs are set in the paragraph's direction,
// and glyphs of a run in the run's direction.
func (w *wrapper) place(para *Paragraph) {
	s := para.stream
	st := paragraphStyles(para.Source)
	rtl := st != nil && st.RightToLeft()
	for _, line := range para.Lines {
		r := w.regions[line.Region]
		valign := dimen.Dimen(float64(r.Rect.Height()-w.used[line.Region]) * r.VerticalAlign)
		scale := 1.0
		var shift dimen.Dimen
		switch para.Source.Margins.Justification {
		case attributed.JustifyMiddle:
			shift = (line.Width - line.VisualAdvance) / 2
		case attributed.JustifyEnd:
			shift = line.Width - line.VisualAdvance
		case attributed.JustifyFull:
			if !line.Partial && line.VisualAdvance > line.LastCharWidth {
				scale = float64((line.Width - line.LastCharWidth) / (line.VisualAdvance - line.LastCharWidth))
			}
		}
		baseline := line.Origin.Y + valign
		pens := make([]dimen.Point, line.End-line.Start)
		var pos dimen.Dimen
		for i := line.Start; i < line.End; {
			k := s.runOf(i)
			g := i
			var width dimen.Dimen
			for ; g < line.End && s.runOf(g) == k; g++ {
				width += s.advance(g) * dimen.Dimen(scale)
			}
			left := line.Origin.X + shift + pos
			if rtl {
				left = line.Origin.X + line.Width - shift - pos - width
			}
			var inner dimen.Dimen
			for m := i; m < g; m++ {
				a := s.advance(m) * dimen.Dimen(scale)
				x := left + inner
				if s.runs[k].IsRightToLeft() {
					x = left + width - inner - a
				}
				pens[m-line.Start] = dimen.Pt(x, baseline)
				inner += a
			}
			pos += width
			i = g
		}
		start := line.Start
		s.each(line.Start, line.End, func(k int, gr *glyphlayout.GlyphRun, lo, hi int) {
			gr.Remap(lo, hi, scale, func(j int, _ dimen.Point) dimen.Point {
				return pens[s.position(k, j)-start]
			})
		})
	}
}
