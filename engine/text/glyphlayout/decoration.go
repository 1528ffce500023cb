package glyphlayout

import (
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom/style"
)

// Quad is a quadrilateral in user space, corners in drawing order.
type Quad [4]dimen.Point

// Bounds returns the bounding box of q.
func (q Quad) Bounds() dimen.Rect {
	r := dimen.NoRect
	for _, p := range q {
		r = r.Extend(p)
	}
	return r
}

// quadOf maps a rectangle in cell coordinates to user space.
func quadOf(m dimen.Affine, r dimen.Rect) Quad {
	return Quad{
		m.Apply(r.TopL),
		m.Apply(dimen.Pt(r.BotR.X, r.TopL.Y)),
		m.Apply(r.BotR),
		m.Apply(dimen.Pt(r.TopL.X, r.BotR.Y)),
	}
}

// CellQuad returns the cell of glyph i in user space.
func (gr *GlyphRun) CellQuad(i int) Quad {
	m, box := gr.Cell(i)
	return quadOf(m, box)
}

// Decoration is the geometry of a decoration line of a glyph run.
type Decoration struct {
	Line  style.DecorationLine
	Paint style.DecorationPaint
	Quads []Quad
}

// band returns the extent of a decoration line across the baseline, y-axis
// pointing down.
func (gr *GlyphRun) band(line style.DecorationLine) (top, bottom dimen.Dimen) {
	m := gr.font.Metrics()
	var center, thickness dimen.Dimen
	switch line {
	case style.Underline:
		thickness = m.UnderlineThickness
		center = m.UnderlineOffset + thickness/2
	case style.Overline:
		thickness = m.OverlineThickness
		center = m.OverlineOffset + thickness/2
	default:
		thickness = m.StrikethroughThickness
		center = m.StrikethroughOffset
	}
	return center - thickness/2, center + thickness/2
}

// Decorations returns the decoration lines of the run. Lines consist of one
// quad per visible glyph; neighbouring quads of upright glyphs on a common
// baseline are merged.
func (gr *GlyphRun) Decorations() []Decoration {
	if gr.styles.Decoration.IsEmpty() {
		return nil
	}
	gr.ApplyPath()
	var decos []Decoration
	for _, line := range []style.DecorationLine{style.Underline, style.Overline, style.LineThrough} {
		paint := gr.styles.Decoration[line]
		if !paint.On {
			continue
		}
		top, bottom := gr.band(line)
		deco := Decoration{Line: line, Paint: paint}
		merging := !gr.OnPath() && !gr.vertical
		for i := range gr.glyphs {
			g := &gr.glyphs[i]
			if !g.Visible || g.cellAdv == 0 {
				continue
			}
			q := quadOf(g.cell, dimen.Rect{TopL: dimen.Pt(0, top), BotR: dimen.Pt(g.cellAdv, bottom)})
			if n := len(deco.Quads); merging && n > 0 && joins(deco.Quads[n-1], q) {
				deco.Quads[n-1][1] = q[1]
				deco.Quads[n-1][2] = q[2]
				continue
			}
			deco.Quads = append(deco.Quads, q)
		}
		decos = append(decos, deco)
	}
	return decos
}

// joins is true if q continues p on the same baseline.
func joins(p, q Quad) bool {
	const eps = 1e-6
	return (p[1].X-q[0].X).Abs() < eps && (p[1].Y-q[0].Y).Abs() < eps &&
		(p[2].Y-q[3].Y).Abs() < eps
}
