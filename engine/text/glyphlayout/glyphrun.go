package glyphlayout

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/glyphing"
	"github.com/npillmayer/svgtext/engine/text/attributed"
	"github.com/npillmayer/svgtext/engine/text/textpath"
)

// contextLength is the number of characters before and after a segment that
// are passed to shapers as context.
const contextLength = 8

// Glyph is a glyph of a glyph run.
type Glyph struct {
	GID       font.GlyphIndex
	CodePoint rune
	Char      int           // run index of the first character of the glyph's cluster
	Chars     int           // characters represented, 0 for all but the first glyph of a cluster
	Position  dimen.Point   // glyph origin in user space
	Transform *dimen.Affine // applied to the outline before moving it to Position, nil for identity
	Visible   bool

	local   *dimen.Affine // transform before setting on a path
	advance dimen.Dimen   // shaped horizontal advance
	shaped  dimen.Point   // default pen position relative to the run start
	offset  dimen.Point   // shaper offset
	delta   dimen.Point   // orientation and baseline offset from the pen position
	cell    dimen.Affine  // maps the glyph cell to user space
	cellAdv dimen.Dimen   // extent of the cell in inline direction
}

// GlyphRun holds the glyphs for a segment of an attributed run. Glyphs are
// kept in visual order; for right-to-left segments the first glyph belongs
// to the last character of the segment.
type GlyphRun struct {
	run      *attributed.Run
	seg      attributed.Segment
	font     *font.TypeCase
	styles   *style.Styles
	glyphs   []Glyph
	charMap  []int         // run character index per character slot, in glyph order
	pen      []dimen.Point // pen position before each glyph, and the end position
	advs     []dimen.Dimen // advance of each glyph in inline direction
	offset   dimen.Point
	vertical bool

	path        textpath.Path
	startOffset dimen.Dimen
	pathEnd     dimen.Point

	layoutApplied  bool
	spacingApplied bool
	pathApplied    bool
}

// New shapes a segment of an attributed run. The run starts at offset.
// No positioning pass is applied yet.
func New(run *attributed.Run, seg attributed.Segment, tc *font.TypeCase, shaper glyphing.Shaper,
	offset dimen.Point) (*GlyphRun, error) {
	//
	if seg.Start < 0 || seg.End > run.Len() || seg.Start >= seg.End {
		return nil, core.Error(core.EINVALID, "segment %s out of range for run of length %d", seg, run.Len())
	}
	elem, ok := run.Element(seg.Delimiter)
	if !ok {
		return nil, core.Error(core.EINTERNAL, "segment %s has unknown delimiter %d", seg, seg.Delimiter)
	}
	if tc == nil {
		tc = font.NullTypeCase()
	}
	gr := &GlyphRun{
		run:      run,
		seg:      seg,
		font:     tc,
		styles:   elem.Styles,
		offset:   offset,
		vertical: elem.Styles.IsVertical(),
	}
	if seg.PathRef != dom.NoNode {
		if pe, ok := run.Element(seg.PathRef); ok && pe.Path != nil {
			gr.path, gr.startOffset = pe.Path, pe.StartOffset
		}
	}
	if err := gr.shape(shaper); err != nil {
		return nil, err
	}
	return gr, nil
}

func (gr *GlyphRun) shape(shaper glyphing.Shaper) error {
	text := gr.run.Text[gr.seg.Start:gr.seg.End]
	params := glyphing.Params{
		Font:      gr.font,
		Direction: glyphing.DirectionForLevel(int(gr.seg.Level)),
	}
	if gr.styles.Language != "" {
		if tag, err := language.Parse(gr.styles.Language); err == nil {
			params.Language = tag
			params.Script, _ = tag.Script()
		}
	}
	if gr.styles.Kerning.Set {
		params.Features = append(params.Features, glyphing.NoKerning())
	}
	before := gr.run.Text[max(0, gr.seg.Start-contextLength):gr.seg.Start]
	after := gr.run.Text[gr.seg.End:min(gr.run.Len(), gr.seg.End+contextLength)]
	seq, err := shaper.Shape(strings.NewReader(string(text)), nil, [][]rune{before, after}, params)
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot shape %q", string(text))
	}
	if len(seq.Glyphs) == 0 {
		return core.Error(core.EINTERNAL, "shaper produced no glyphs for %q", string(text))
	}
	n := len(seq.Glyphs)
	gr.glyphs = make([]Glyph, n)
	for i, sg := range seq.Glyphs {
		c := min(max(sg.ClusterID, 0), len(text)-1)
		g := &gr.glyphs[i]
		g.GID = sg.GID
		g.CodePoint = sg.CodePoint
		if g.CodePoint == 0 {
			g.CodePoint = text[c]
		}
		g.Char = gr.seg.Start + c
		g.advance = sg.XAdvance
		g.shaped = dimen.Pt(sg.XAdvance, sg.YAdvance) // advance vector, replaced by the pen position below
		g.offset = dimen.Pt(sg.XOffset, sg.YOffset)
		g.Visible = true
		if i == 0 || seq.Glyphs[i-1].ClusterID != sg.ClusterID {
			g.Chars = 1 // completed below
		}
	}
	// character counts from cluster boundaries, in logical order
	gr.glyphs[0].Char = gr.seg.Start
	for i := 0; i < n; i++ {
		if gr.glyphs[i].Chars == 0 {
			continue
		}
		next := gr.seg.End
		for j := i + 1; j < n; j++ {
			if gr.glyphs[j].Chars > 0 {
				next = gr.glyphs[j].Char
				break
			}
		}
		gr.glyphs[i].Chars = next - gr.glyphs[i].Char
	}
	if gr.seg.Level%2 == 1 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			gr.glyphs[i], gr.glyphs[j] = gr.glyphs[j], gr.glyphs[i]
		}
	}
	gr.charMap = gr.charMap[:0]
	var pen dimen.Point
	for i := range gr.glyphs {
		g := &gr.glyphs[i]
		for k := 0; k < g.Chars; k++ {
			gr.charMap = append(gr.charMap, g.Char+k)
		}
		adv := g.shaped
		g.shaped = pen
		pen = pen.Add(adv)
	}
	if len(gr.charMap) != len(text) {
		panic(fmt.Sprintf("glyph run: %d characters mapped for segment of length %d", len(gr.charMap), len(text)))
	}
	gr.pen = make([]dimen.Point, n+1)
	gr.advs = make([]dimen.Dimen, n)
	tracer().Debugf("shaped %q into %d glyphs", string(text), n)
	return nil
}

// --- Accessors --------------------------------------------------------------

// Run returns the attributed run the glyph run belongs to.
func (gr *GlyphRun) Run() *attributed.Run {
	return gr.run
}

// Segment returns the segment of the attributed run covered by gr.
func (gr *GlyphRun) Segment() attributed.Segment {
	return gr.seg
}

// Font returns the typecase gr is set in.
func (gr *GlyphRun) Font() *font.TypeCase {
	return gr.font
}

// Styles returns the styles of the element the glyphs are attributed to.
func (gr *GlyphRun) Styles() *style.Styles {
	return gr.styles
}

// Len returns the number of glyphs.
func (gr *GlyphRun) Len() int {
	return len(gr.glyphs)
}

// Glyph returns glyph i. The glyph is positioned according to the passes
// applied so far.
func (gr *GlyphRun) Glyph(i int) Glyph {
	return gr.glyphs[i]
}

// Glyphs returns all glyphs, positioned according to the passes applied.
func (gr *GlyphRun) Glyphs() []Glyph {
	return gr.glyphs
}

// CharMap returns the run character index for each character slot consumed
// by the glyphs, in glyph order.
func (gr *GlyphRun) CharMap() []int {
	return gr.charMap
}

// IsVertical is true for runs in vertical writing mode.
func (gr *GlyphRun) IsVertical() bool {
	return gr.vertical
}

// IsRightToLeft is true for runs at an odd embedding level. Their glyphs
// are in reverse logical order.
func (gr *GlyphRun) IsRightToLeft() bool {
	return gr.seg.Level%2 == 1
}

// OnPath is true if the run is set on a text path.
func (gr *GlyphRun) OnPath() bool {
	return gr.path != nil
}

// Offset returns the start position of the run.
func (gr *GlyphRun) Offset() dimen.Point {
	return gr.offset
}

// Reset moves the start of the run to offset. All passes will be applied
// again.
func (gr *GlyphRun) Reset(offset dimen.Point) {
	gr.offset = offset
	gr.layoutApplied, gr.spacingApplied, gr.pathApplied = false, false, false
}

// main returns the coordinate of p in inline direction.
func (gr *GlyphRun) main(p dimen.Point) dimen.Dimen {
	if gr.vertical {
		return p.Y
	}
	return p.X
}

// cross returns the coordinate of p perpendicular to the inline direction.
func (gr *GlyphRun) cross(p dimen.Point) dimen.Dimen {
	if gr.vertical {
		return p.X
	}
	return p.Y
}

// along creates a vector of length d in inline direction.
func (gr *GlyphRun) along(d dimen.Dimen) dimen.Point {
	if gr.vertical {
		return dimen.Pt(0, d)
	}
	return dimen.Pt(d, 0)
}

// Advance returns the advance of glyph i in inline direction, including
// letter-, word-spacing and kerning, but without explicit offsets.
func (gr *GlyphRun) Advance(i int) dimen.Dimen {
	gr.AdjustSpacing()
	return gr.advs[i]
}

// TotalAdvance returns the sum of the glyph advances, i.e. the sum of
// Advance(i). Explicit offsets (dx, dy) are not part of it; the extent of a
// run including offsets is the distance from Pen(0) to Pen(Len()).
func (gr *GlyphRun) TotalAdvance() dimen.Dimen {
	gr.AdjustSpacing()
	var total dimen.Dimen
	for _, a := range gr.advs {
		total += a
	}
	return total
}

// Pen returns the pen position of glyph i on the baseline, before bending
// along a path. Pen(Len()) is the position after the last glyph.
func (gr *GlyphRun) Pen(i int) dimen.Point {
	gr.AdjustSpacing()
	return gr.pen[i]
}

// End returns the position following the last glyph. For runs on a path this
// is the point on the path after the last glyph.
func (gr *GlyphRun) End() dimen.Point {
	if gr.path != nil && gr.pathApplied {
		return gr.pathEnd
	}
	gr.AdjustSpacing()
	return gr.pen[len(gr.glyphs)]
}

// Cell returns the transform mapping the cell of glyph i to user space, and
// the cell's box in cell coordinates. Cells have their origin at the pen
// position on the baseline, with the x-axis in inline direction.
func (gr *GlyphRun) Cell(i int) (dimen.Affine, dimen.Rect) {
	g := &gr.glyphs[i]
	m := gr.font.Metrics()
	if gr.vertical {
		half := (m.Ascent + m.Descent) / 2
		return g.cell, dimen.Rect{TopL: dimen.Pt(0, -half), BotR: dimen.Pt(g.cellAdv, half)}
	}
	return g.cell, dimen.Rect{TopL: dimen.Pt(0, -m.Ascent), BotR: dimen.Pt(g.cellAdv, m.Descent)}
}

// Rotation returns the total rotation of glyph i in degrees, clockwise.
func (gr *GlyphRun) Rotation(i int) float64 {
	c := gr.glyphs[i].cell
	deg := math.Atan2(c[3], c[0]) * 180 / math.Pi
	if gr.vertical {
		deg -= 90
	}
	if a := gr.run.Attrs[gr.glyphs[i].Char]; a.Rotate.Set {
		deg += a.Rotate.Value
	}
	return deg
}

// place sets glyph positions and cells from the pen positions.
func (gr *GlyphRun) place() {
	for i := range gr.glyphs {
		g := &gr.glyphs[i]
		g.Position = gr.pen[i].Add(g.delta)
		g.Transform = g.local
		g.cell = dimen.Translate(gr.pen[i].X, gr.pen[i].Y)
		if gr.vertical {
			g.cell = g.cell.Concat(dimen.Rotate(math.Pi / 2))
		}
		g.cellAdv = gr.advs[i]
	}
}

func (gr *GlyphRun) String() string {
	return fmt.Sprintf("glyphrun%s(%d glyphs)", gr.seg, len(gr.glyphs))
}
