package charindex

import (
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
)

// CharInfo binds a character to the glyphs representing it. CharInfos are
// only valid as long as the layout they were taken from.
type CharInfo struct {
	Run        *glyphlayout.GlyphRun
	RunIndex   int
	GlyphStart int
	GlyphEnd   int
	Char       int // index into the attributed run
}

// chars returns the addressable characters of element e. On text paths a
// character is addressable if its glyph is visible; for alternate glyphs
// on a path the number is estimated from the share of visible glyphs.
func (x *Index) chars(e dom.NodeID) []CharInfo {
	run := x.layout.Run
	if run == nil {
		return nil
	}
	first, last, ok := run.CharRange(e)
	if !ok {
		return nil
	}
	var infos []CharInfo
	for c := first; c <= last; c++ {
		k, ok := x.layout.RunFor(c)
		if !ok {
			continue
		}
		gr := x.layout.Runs[k]
		if gr.OnPath() && x.isAltGlyph(gr) {
			end := min(last, gr.Segment().End-1)
			info := x.altInfo(k, end)
			n := proportional(end-c+1, visibleGlyphs(gr), gr.Len())
			for i := 0; i < n; i++ {
				infos = append(infos, info)
			}
			c = end
			continue
		}
		ref, ok := x.glyphFor(c)
		if !ok {
			continue
		}
		if gr.OnPath() && !gr.Glyph(ref.Glyph).Visible {
			continue
		}
		end := ref.Glyph
		if l, ok := x.LastGlyphFor(c); ok {
			end = l.Glyph
		}
		infos = append(infos, CharInfo{Run: gr, RunIndex: k, GlyphStart: ref.Glyph, GlyphEnd: end, Char: c})
	}
	return infos
}

func (x *Index) isAltGlyph(gr *glyphlayout.GlyphRun) bool {
	elem, ok := x.layout.Run.Element(gr.Segment().Delimiter)
	return ok && elem.Kind == dom.KindAltGlyph
}

// altInfo covers the first sequence of visible glyphs of run k.
func (x *Index) altInfo(k, c int) CharInfo {
	gr := x.layout.Runs[k]
	info := CharInfo{Run: gr, RunIndex: k, GlyphStart: 0, GlyphEnd: gr.Len() - 1, Char: c}
	found := false
	for j, g := range gr.Glyphs() {
		if !found && g.Visible {
			info.GlyphStart, found = j, true
		} else if found && !g.Visible {
			info.GlyphEnd = j - 1
			break
		}
	}
	return info
}

func visibleGlyphs(gr *glyphlayout.GlyphRun) int {
	n := 0
	for _, g := range gr.Glyphs() {
		if g.Visible {
			n++
		}
	}
	return n
}

// proportional estimates the number of visible characters of a run of
// alternate glyphs.
func proportional(chars, visible, glyphs int) int {
	if glyphs == 0 {
		return 0
	}
	return chars * visible / glyphs
}

// NumberOfChars returns the number of addressable characters of element e.
func (x *Index) NumberOfChars(e dom.NodeID) int {
	return len(x.chars(e))
}

// CharInfo returns information about character charnum of element e.
func (x *Index) CharInfo(e dom.NodeID, charnum int) (CharInfo, bool) {
	infos := x.chars(e)
	if charnum < 0 || charnum >= len(infos) {
		return CharInfo{}, false
	}
	return infos[charnum], true
}

// ExtentOfChar returns the bounding box of the glyph cells of character
// charnum of element e.
func (x *Index) ExtentOfChar(e dom.NodeID, charnum int) (dimen.Rect, bool) {
	info, ok := x.CharInfo(e, charnum)
	if !ok {
		return dimen.NoRect, false
	}
	r := dimen.NoRect
	for j := info.GlyphStart; j <= info.GlyphEnd; j++ {
		r = r.Union(x.quad(info.Run, j).Bounds())
	}
	return r, true
}

// StartPositionOfChar returns the point on the baseline where the glyphs of
// character charnum of element e start, in reading direction.
func (x *Index) StartPositionOfChar(e dom.NodeID, charnum int) (dimen.Point, bool) {
	info, ok := x.CharInfo(e, charnum)
	if !ok {
		return dimen.Point{}, false
	}
	start, _ := x.endpoints(info.Run, info.GlyphStart, info.GlyphEnd)
	return start, true
}

// EndPositionOfChar returns the point on the baseline where the glyphs of
// character charnum of element e end, in reading direction.
func (x *Index) EndPositionOfChar(e dom.NodeID, charnum int) (dimen.Point, bool) {
	info, ok := x.CharInfo(e, charnum)
	if !ok {
		return dimen.Point{}, false
	}
	_, end := x.endpoints(info.Run, info.GlyphStart, info.GlyphEnd)
	return end, true
}

// RotationOfChar returns the rotation of character charnum of element e in
// degrees, clockwise. Glyph orientation does not count. For characters with
// more than one glyph the mean rotation is returned.
func (x *Index) RotationOfChar(e dom.NodeID, charnum int) (float64, bool) {
	info, ok := x.CharInfo(e, charnum)
	if !ok {
		return 0, false
	}
	var sum float64
	for j := info.GlyphStart; j <= info.GlyphEnd; j++ {
		sum += info.Run.Rotation(j)
	}
	return sum / float64(info.GlyphEnd-info.GlyphStart+1), true
}

// SubStringLength returns the advance of nchars characters of element e,
// starting at charnum. Characters of a glyph run contribute their advances,
// and gaps between glyph runs their straight distance. Glyphs on a path
// count if they are visible.
func (x *Index) SubStringLength(e dom.NodeID, charnum, nchars int) (dimen.Dimen, bool) {
	infos := x.chars(e)
	if charnum < 0 || charnum >= len(infos) || nchars < 0 {
		return 0, false
	}
	end := min(len(infos), charnum+nchars)
	var length dimen.Dimen
	var prevEnd dimen.Point
	for i := charnum; i < end; {
		k := infos[i].RunIndex
		gr := infos[i].Run
		lo, hi := infos[i].GlyphStart, infos[i].GlyphEnd
		j := i
		for ; j < end && infos[j].RunIndex == k; j++ {
			lo, hi = min(lo, infos[j].GlyphStart), max(hi, infos[j].GlyphEnd)
		}
		for g := lo; g <= hi; g++ {
			if !gr.OnPath() || gr.Glyph(g).Visible {
				length += gr.Advance(g)
			}
		}
		start, stop := localEndpoints(gr, lo, hi) // advances are in user units, too
		if i > charnum {
			length += prevEnd.Dist(start)
		}
		prevEnd = stop
		i = j
	}
	return length, true
}

// ComputedTextLength returns the advance of all characters of element e.
func (x *Index) ComputedTextLength(e dom.NodeID) dimen.Dimen {
	l, _ := x.SubStringLength(e, 0, x.NumberOfChars(e))
	return l
}

// HitTest finds the character whose glyph cell contains p. Glyph runs are
// searched from last to first, so that the topmost glyph is found. leading
// is true if p lies in the first half of the character in reading
// direction.
func (x *Index) HitTest(p dimen.Point) (c int, leading bool, ok bool) {
	inv, ok := x.ctm.Invert()
	if !ok {
		return -1, false, false
	}
	p = inv.Apply(p)
	for k := len(x.layout.Runs) - 1; k >= 0; k-- {
		gr := x.layout.Runs[k]
		for j := gr.Len() - 1; j >= 0; j-- {
			g := gr.Glyph(j)
			if !g.Visible {
				continue
			}
			m, box := gr.Cell(j)
			minv, ok := m.Invert()
			if !ok || box.Width() <= 0 {
				continue
			}
			local := minv.Apply(p)
			if !box.Contains(local) {
				continue
			}
			chars := max(g.Chars, 1)
			f := float64(local.X/box.Width()) * float64(chars)
			if gr.IsRightToLeft() {
				f = float64(chars) - f
			}
			slot := min(int(f), chars-1)
			return g.Char + slot, f-float64(slot) < 0.5, true
		}
	}
	return -1, false, false
}

// CharNumAtPosition returns the number of the character of element e at
// point p, or -1.
func (x *Index) CharNumAtPosition(e dom.NodeID, p dimen.Point) int {
	c, _, ok := x.HitTest(p)
	if !ok {
		return -1
	}
	for i, info := range x.chars(e) {
		if info.Char == c {
			return i
		}
	}
	return -1
}

// Highlight returns the glyph cells of all visible glyphs representing the
// characters first to last of the attributed run.
func (x *Index) Highlight(first, last int) []glyphlayout.Quad {
	var quads []glyphlayout.Quad
	for _, gr := range x.layout.Runs {
		seg := gr.Segment()
		if seg.End <= first || seg.Start > last {
			continue
		}
		for j, g := range gr.Glyphs() {
			if !g.Visible || g.Char+max(g.Chars, 1) <= first || g.Char > last {
				continue
			}
			quads = append(quads, x.quad(gr, j))
		}
	}
	return quads
}

// SelectSubString returns the highlight of nchars characters of element e,
// starting at charnum.
func (x *Index) SelectSubString(e dom.NodeID, charnum, nchars int) ([]glyphlayout.Quad, bool) {
	infos := x.chars(e)
	if charnum < 0 || charnum >= len(infos) || nchars <= 0 {
		return nil, false
	}
	last := infos[min(len(infos), charnum+nchars)-1].Char
	return x.Highlight(infos[charnum].Char, last), true
}

// quad returns the cell of glyph j in the coordinate system of results.
func (x *Index) quad(gr *glyphlayout.GlyphRun, j int) glyphlayout.Quad {
	q := gr.CellQuad(j)
	for i := range q {
		q[i] = x.ctm.Apply(q[i])
	}
	return q
}

// endpoints returns the start and end points of glyphs lo to hi on the
// baseline, in reading direction.
func (x *Index) endpoints(gr *glyphlayout.GlyphRun, lo, hi int) (start, end dimen.Point) {
	left, right := localEndpoints(gr, lo, hi)
	return x.ctm.Apply(left), x.ctm.Apply(right)
}

// localEndpoints is like endpoints, without the transform of the text element.
func localEndpoints(gr *glyphlayout.GlyphRun, lo, hi int) (start, end dimen.Point) {
	m, _ := gr.Cell(lo)
	start = m.Apply(dimen.Point{})
	m, box := gr.Cell(hi)
	end = m.Apply(dimen.Pt(box.BotR.X, 0))
	if gr.IsRightToLeft() {
		start, end = end, start
	}
	return start, end
}
