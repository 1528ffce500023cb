package glyphlayout

import (
	"math"
	"unicode"

	"github.com/npillmayer/svgtext/core/dimen"
)

// PositionExplicit positions the glyphs with their default advances and
// applies per-character positions, rotations, baseline shifts and glyph
// orientations. Calling it more than once has no effect until Reset is
// called.
func (gr *GlyphRun) PositionExplicit() {
	if gr.layoutApplied {
		return
	}
	m := gr.font.Metrics()
	baselineAscent := m.Ascent + m.Descent
	vAdvance := m.Ascent + m.Descent
	cur := gr.offset
	var shift dimen.Point
	var xShifted, yShifted bool
	for i := range gr.glyphs {
		g := &gr.glyphs[i]
		g.Visible = true
		g.local = nil
		a := gr.run.Attrs[g.Char]
		if g.Chars > 0 {
			// the first absolute position records a shift against the offset
			if a.X.Set {
				if !xShifted {
					shift.X, xShifted = a.X.Dimen()-cur.X, true
				}
				cur.X = a.X.Dimen() - shift.X
			}
			if a.Y.Set {
				if !yShifted {
					shift.Y, yShifted = a.Y.Dimen()-cur.Y, true
				}
				cur.Y = a.Y.Dimen() - shift.Y
			} else if !a.DY.Set && i > 0 {
				cur.Y += g.shaped.Y - gr.glyphs[i-1].shaped.Y
			}
			if a.DX.Set {
				cur.X += a.DX.Dimen()
			}
			if a.DY.Set {
				cur.Y += a.DY.Dimen()
			}
		}
		var delta dimen.Point
		if adjust := gr.styles.ShiftAmount(baselineAscent); adjust != 0 {
			if gr.vertical {
				delta.X += adjust
			} else {
				delta.Y -= adjust
			}
		}
		var angle float64 // orientation, degrees
		adv := g.advance
		if gr.vertical {
			o := gr.styles.OrientationVertical
			bounds, _ := gr.font.GlyphBounds(g.GID)
			if bounds.IsEmpty() {
				bounds = dimen.Rect{}
			}
			switch {
			case o.Auto && isLatin(g.CodePoint), !o.Auto && normalizeAngle(o.Angle) == 90:
				angle = 90
				delta.X += m.StrikethroughOffset
			case o.Auto, normalizeAngle(o.Angle) == 0:
				delta.X -= bounds.Center().X
				delta.Y += m.Ascent
				adv = vAdvance
			case normalizeAngle(o.Angle) == 180:
				angle = 180
				delta.X += bounds.Center().X
				delta.Y += m.Descent
				adv = vAdvance
			default: // 270
				angle = 270
				delta.X -= m.StrikethroughOffset
				delta.Y += g.advance
			}
		} else {
			switch normalizeAngle(gr.styles.OrientationHorizontal.Angle) {
			case 90:
				angle = 90
				delta.X += m.Descent
				delta.Y -= g.advance
				adv = vAdvance
			case 180:
				angle = 180
				delta.X += g.advance
				delta.Y -= m.Ascent - m.Descent
			case 270:
				angle = 270
				delta.X += m.Ascent
				adv = vAdvance
			}
		}
		if rot := angle + a.Rotate.Value; rot != 0 {
			t := dimen.Rotate(rot * math.Pi / 180)
			g.local = &t
		}
		if isTransparent(g.CodePoint) || (g.Chars == 0 && g.advance == 0) {
			adv = 0
		}
		g.delta = delta.Add(g.offset)
		gr.pen[i] = cur
		gr.advs[i] = adv
		cur = cur.Add(gr.along(adv))
	}
	gr.pen[len(gr.glyphs)] = cur
	gr.place()
	gr.layoutApplied = true
	gr.spacingApplied = false
	gr.pathApplied = false
}

// AdjustSpacing applies kerning, letter-spacing and word-spacing. An
// explicit kerning value replaces the font's kerning. Word spacing widens
// every gap of white space between printing glyphs.
func (gr *GlyphRun) AdjustSpacing() {
	gr.PositionExplicit()
	if gr.spacingApplied {
		return
	}
	gr.spacingApplied = true
	gr.pathApplied = false
	ls, ws, kern := gr.styles.LetterSpacing, gr.styles.WordSpacing, gr.styles.Kerning
	if !ls.Set && !ws.Set && !(kern.Set && kern.Value != 0) {
		return
	}
	n := len(gr.glyphs)
	pen := make([]dimen.Point, n+1)
	pen[0] = gr.pen[0]
	for i := 1; i <= n; i++ {
		d := gr.pen[i].Sub(gr.pen[i-1])
		if prev := gr.glyphs[i-1]; prev.Chars > 0 && !isTransparent(prev.CodePoint) {
			extra := ls.Value
			if kern.Set && i < n {
				extra += kern.Value
			}
			d = d.Add(gr.along(extra))
		}
		pen[i] = pen[i-1].Add(d)
	}
	if ws.Set && ws.Value != 0 {
		gr.spreadWords(pen, ws.Value)
	}
	// explicit dx/dy jumps stay in the pen positions; advances take spacing only
	for i := range gr.advs {
		gr.advs[i] += gr.main(pen[i+1]) - gr.main(pen[i]) - (gr.main(gr.pen[i+1]) - gr.main(gr.pen[i]))
	}
	gr.pen = pen
	gr.place()
}

// spreadWords distributes extra space over each run of white space glyphs
// enclosed by printing glyphs.
func (gr *GlyphRun) spreadWords(pen []dimen.Point, extra dimen.Dimen) {
	n := len(gr.glyphs)
	var total dimen.Dimen
	for i := 0; i < n; {
		if !gr.isWhiteSpace(i) {
			pen[i] = pen[i].Add(gr.along(total))
			i++
			continue
		}
		b := i
		for i < n && gr.isWhiteSpace(i) {
			i++
		}
		if b == 0 || i == n {
			for k := b; k < i; k++ {
				pen[k] = pen[k].Add(gr.along(total))
			}
			continue
		}
		start := pen[b].Add(gr.along(total))
		gap := gr.main(pen[i]) - gr.main(pen[b])
		step := (gap + extra) / dimen.Dimen(i-b)
		for k := b; k < i; k++ {
			pen[k] = start.Add(gr.along(step * dimen.Dimen(k-b)))
		}
		total += extra
	}
	pen[n] = pen[n].Add(gr.along(total))
}

func (gr *GlyphRun) isWhiteSpace(i int) bool {
	g := &gr.glyphs[i]
	if unicode.IsSpace(g.CodePoint) {
		return true
	}
	bounds, _ := gr.font.GlyphBounds(g.GID)
	return bounds.IsEmpty() || bounds.Width() < 0.01
}

// Stretch scales the pen positions of the glyphs about origin. If glyphs is
// set, the glyphs are scaled as well. Degenerate factors are ignored.
func (gr *GlyphRun) Stretch(origin dimen.Point, sx, sy float64, glyphs bool) {
	gr.AdjustSpacing()
	if !validScale(sx) || !validScale(sy) {
		tracer().Debugf("ignoring stretch (%g, %g) of %s", sx, sy, gr)
		return
	}
	for i := range gr.pen {
		gr.pen[i] = origin.Add(gr.pen[i].Sub(origin).Scale(sx, sy))
	}
	s := sx
	if gr.vertical {
		s = sy
	}
	for i := range gr.advs {
		gr.advs[i] *= dimen.Dimen(s)
	}
	if glyphs {
		scale := dimen.Scale(sx, sy)
		for i := range gr.glyphs {
			g := &gr.glyphs[i]
			t := scale
			if g.local != nil {
				t = g.local.PreConcat(scale)
			}
			g.local = &t
			g.delta = g.delta.Scale(sx, sy)
		}
	}
	gr.place()
	gr.pathApplied = false
}

func validScale(s float64) bool {
	return s > 0 && !math.IsNaN(s) && !math.IsInf(s, 0)
}

// Translate moves all glyphs of the run by v.
func (gr *GlyphRun) Translate(v dimen.Point) {
	gr.AdjustSpacing()
	gr.offset = gr.offset.Add(v)
	for i := range gr.pen {
		gr.pen[i] = gr.pen[i].Add(v)
	}
	gr.place()
	gr.pathApplied = false
}

// Remap moves glyphs [from, to) to the pen positions returned by f for
// each glyph index, and scales their advances by scale. Flow layout uses it
// to set glyphs on lines.
func (gr *GlyphRun) Remap(from, to int, scale float64, f func(i int, pen dimen.Point) dimen.Point) {
	gr.AdjustSpacing()
	for i := from; i < to; i++ {
		gr.pen[i] = f(i, gr.pen[i])
		gr.advs[i] *= dimen.Dimen(scale)
	}
	if to == len(gr.glyphs) && to > 0 {
		gr.pen[to] = gr.pen[to-1].Add(gr.along(gr.advs[to-1]))
	}
	gr.place()
	gr.pathApplied = false
}

// Hide makes glyphs [from, to) invisible.
func (gr *GlyphRun) Hide(from, to int) {
	for i := from; i < to; i++ {
		gr.glyphs[i].Visible = false
	}
}

// ApplyPath sets the glyphs of a run on its text path. Every glyph is
// placed with the middle of its advance on the path and rotated to the
// path's direction at that point. Explicit offsets in inline direction move
// the glyphs along the path; glyphs off the ends of the path become
// invisible. Runs without a path and zero-length paths are left unchanged.
func (gr *GlyphRun) ApplyPath() {
	gr.AdjustSpacing()
	if gr.pathApplied {
		return
	}
	gr.pathApplied = true
	n := len(gr.glyphs)
	gr.pathEnd = gr.pen[n]
	if gr.path == nil {
		return
	}
	pathLength := gr.path.Length()
	if pathLength == 0 || gr.main(gr.pen[n])-gr.main(gr.pen[0]) == 0 {
		tracer().Debugf("%s: nothing to set on path", gr)
		return
	}
	cur := gr.main(gr.pen[0]) + gr.startOffset
	glyphOffset := gr.cross(gr.pen[0])
	for i := range gr.glyphs {
		g := &gr.glyphs[i]
		adv := gr.advs[i]
		mid := cur + adv/2
		pt, ok := gr.path.PointAtLength(mid)
		if !ok || math.IsNaN(float64(adv)) {
			g.Visible = false
		} else {
			angle := gr.path.AngleAtLength(mid)
			var cell, t dimen.Affine
			if gr.vertical {
				cell = dimen.Rotate(angle).Concat(dimen.Translate(-adv/2, -glyphOffset))
				t = dimen.Rotate(angle - math.Pi/2).Concat(dimen.Translate(glyphOffset, -adv/2))
			} else {
				cell = dimen.Rotate(angle).Concat(dimen.Translate(-adv/2, glyphOffset))
				t = dimen.Rotate(angle).Concat(dimen.Translate(-adv/2, glyphOffset))
			}
			t = t.Concat(dimen.Translate(g.delta.X, g.delta.Y))
			if g.local != nil {
				t = t.Concat(*g.local)
			}
			g.Transform = &t
			g.Position = pt
			g.Visible = true
			g.cell = dimen.Translate(pt.X, pt.Y).Concat(cell)
			if end, ok := gr.path.PointAtLength(cur + adv); ok {
				gr.pathEnd = end
			} else {
				sin, cos := math.Sincos(angle)
				gr.pathEnd = pt.Add(dimen.Pt(adv/2*dimen.Dimen(cos), adv/2*dimen.Dimen(sin)))
			}
		}
		cur += gr.main(gr.pen[i+1]) - gr.main(gr.pen[i])
		if i+1 < n {
			glyphOffset += gr.cross(gr.pen[i+1]) - gr.cross(gr.pen[i])
		}
	}
}

// --- Character classes -------------------------------------------------------

// isLatin is true for characters of the Latin blocks. Latin characters are
// rotated in vertical text with automatic orientation.
func isLatin(r rune) bool {
	return r >= 0x0020 && r <= 0x024F || r >= 0x1E00 && r <= 0x1EFF
}

// isTransparent is true for Arabic marks which do not advance.
func isTransparent(r rune) bool {
	return r >= 0x064B && r <= 0x0655 || r == 0x0670 || r >= 0x06D6 && r <= 0x06ED
}

// normalizeAngle maps an angle in degrees to the nearest multiple of 90 in
// [0, 360).
func normalizeAngle(deg float64) int {
	a := int(math.Round(deg/90)) * 90
	a %= 360
	if a < 0 {
		a += 360
	}
	return a
}
