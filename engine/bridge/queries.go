package bridge

import (
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/text/charindex"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
)

// part is the share of an element in one character index.
type part struct {
	index *charindex.Index
	elem  dom.NodeID // element as known to the attributed run of index
	chars int
}

// parts splits element e over the character indexes of tb. An element of a
// single run maps to that run; elements enclosing paragraphs of flow text
// (the flowRoot or a flowDiv) map to the paragraphs they contain.
func (tb *TextBridge) parts(e dom.NodeID) []part {
	tb.update()
	for _, x := range tb.indexes {
		if _, ok := x.Layout().Run.Element(e); ok {
			return []part{{index: x, elem: e, chars: x.NumberOfChars(e)}}
		}
	}
	var parts []part
	for _, x := range tb.indexes {
		root := x.Layout().Run.Root
		if tb.ctx.Doc.Contains(e, root) {
			parts = append(parts, part{index: x, elem: root, chars: x.NumberOfChars(root)})
		}
	}
	return parts
}

// locate finds the part holding character charnum of element e, and the
// character's number within the part.
func (tb *TextBridge) locate(e dom.NodeID, charnum int) (part, int, bool) {
	if charnum < 0 {
		return part{}, -1, false
	}
	for _, p := range tb.parts(e) {
		if charnum < p.chars {
			return p, charnum, true
		}
		charnum -= p.chars
	}
	return part{}, -1, false
}

// NumberOfChars returns the number of addressable characters of element e.
func (tb *TextBridge) NumberOfChars(e dom.NodeID) int {
	n := 0
	for _, p := range tb.parts(e) {
		n += p.chars
	}
	return n
}

// ComputedTextLength returns the advance of all characters of element e.
func (tb *TextBridge) ComputedTextLength(e dom.NodeID) dimen.Dimen {
	var l dimen.Dimen
	for _, p := range tb.parts(e) {
		l += p.index.ComputedTextLength(p.elem)
	}
	return l
}

// SubStringLength returns the advance of nchars characters of element e,
// starting at charnum. Ranges spanning paragraphs of flow text add up the
// advances per paragraph.
func (tb *TextBridge) SubStringLength(e dom.NodeID, charnum, nchars int) (dimen.Dimen, bool) {
	if charnum < 0 || nchars < 0 || charnum >= tb.NumberOfChars(e) {
		return 0, false
	}
	var l dimen.Dimen
	for _, p := range tb.parts(e) {
		if nchars <= 0 {
			break
		}
		if charnum >= p.chars {
			charnum -= p.chars
			continue
		}
		n := min(nchars, p.chars-charnum)
		d, _ := p.index.SubStringLength(p.elem, charnum, n)
		l += d
		nchars -= n
		charnum = 0
	}
	return l, true
}

// StartPositionOfChar returns the start of character charnum of element e on
// the baseline.
func (tb *TextBridge) StartPositionOfChar(e dom.NodeID, charnum int) (dimen.Point, bool) {
	p, c, ok := tb.locate(e, charnum)
	if !ok {
		return dimen.Point{}, false
	}
	return p.index.StartPositionOfChar(p.elem, c)
}

// EndPositionOfChar returns the end of character charnum of element e on the
// baseline.
func (tb *TextBridge) EndPositionOfChar(e dom.NodeID, charnum int) (dimen.Point, bool) {
	p, c, ok := tb.locate(e, charnum)
	if !ok {
		return dimen.Point{}, false
	}
	return p.index.EndPositionOfChar(p.elem, c)
}

// ExtentOfChar returns the bounding box of character charnum of element e.
func (tb *TextBridge) ExtentOfChar(e dom.NodeID, charnum int) (dimen.Rect, bool) {
	p, c, ok := tb.locate(e, charnum)
	if !ok {
		return dimen.NoRect, false
	}
	return p.index.ExtentOfChar(p.elem, c)
}

// RotationOfChar returns the rotation of character charnum of element e in
// degrees, clockwise.
func (tb *TextBridge) RotationOfChar(e dom.NodeID, charnum int) (float64, bool) {
	p, c, ok := tb.locate(e, charnum)
	if !ok {
		return 0, false
	}
	return p.index.RotationOfChar(p.elem, c)
}

// CharNumAtPosition returns the number of the character of element e at
// point pt, or -1.
func (tb *TextBridge) CharNumAtPosition(e dom.NodeID, pt dimen.Point) int {
	offset := 0
	for _, p := range tb.parts(e) {
		if c := p.index.CharNumAtPosition(p.elem, pt); c >= 0 {
			return offset + c
		}
		offset += p.chars
	}
	return -1
}

// SelectSubString returns the highlight quads of nchars characters of
// element e, starting at charnum.
func (tb *TextBridge) SelectSubString(e dom.NodeID, charnum, nchars int) ([]glyphlayout.Quad, bool) {
	if charnum < 0 || nchars <= 0 || charnum >= tb.NumberOfChars(e) {
		return nil, false
	}
	var quads []glyphlayout.Quad
	for _, p := range tb.parts(e) {
		if nchars <= 0 {
			break
		}
		if charnum >= p.chars {
			charnum -= p.chars
			continue
		}
		n := min(nchars, p.chars-charnum)
		q, _ := p.index.SelectSubString(p.elem, charnum, n)
		quads = append(quads, q...)
		nchars -= n
		charnum = 0
	}
	return quads, true
}
