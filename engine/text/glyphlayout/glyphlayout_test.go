package glyphlayout

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/glyphing/monospace"
	"github.com/npillmayer/svgtext/engine/text/attributed"
	"github.com/npillmayer/svgtext/engine/text/textpath"
)

// goFonts resolves every family to the fallback font.
type goFonts struct{}

func (goFonts) ResolveFont(families []string, st xfont.Style, w xfont.Weight, size dimen.Dimen) (*font.TypeCase, error) {
	return font.FallbackFont().PrepareCase(size)
}

func layout(t *testing.T, markup string) (*TextLayout, *dom.Document) {
	d, err := dom.ParseString(markup)
	require.NoError(t, err)
	root := d.ElementByID("t")
	require.NotEqual(t, dom.NoNode, root)
	errs := &core.ErrorList{}
	run := attributed.NewBuilder(d, nil, nil, nil, errs).Build(root)
	lt := NewLayouter(goFonts{}, monospace.Shaper(10, nil), errs)
	tl := lt.Layout(run, dimen.Point{})
	require.Equal(t, 0, errs.Len(), "errors: %v", errs.Errors())
	return tl, d
}

func xs(tl *TextLayout) []dimen.Dimen {
	var pos []dimen.Dimen
	for _, gr := range tl.Runs {
		for _, g := range gr.Glyphs() {
			pos = append(pos, g.Position.X)
		}
	}
	return pos
}

func TestDefaultAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" x="5" y="20">abc</text></svg>`)
	require.Len(t, tl.Runs, 1)
	gr := tl.Runs[0]
	require.Equal(t, 3, gr.Len())
	assert.Equal(t, []dimen.Dimen{5, 15, 25}, xs(tl))
	for _, g := range gr.Glyphs() {
		assert.Equal(t, dimen.Dimen(20), g.Position.Y)
		assert.True(t, g.Visible)
	}
	assert.Equal(t, dimen.Pt(35, 20), gr.End())
	assert.Equal(t, dimen.Dimen(30), gr.TotalAdvance())
	end, ok := tl.End()
	assert.True(t, ok)
	assert.Equal(t, dimen.Pt(35, 20), end)
}

func TestPositionExplicitIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" dx="1 2 3" rotate="10">abc</text></svg>`)
	gr := tl.Runs[0]
	before := append([]Glyph(nil), gr.Glyphs()...)
	gr.PositionExplicit()
	gr.AdjustSpacing()
	assert.Equal(t, before, gr.Glyphs())
	var sum dimen.Dimen
	for i := 0; i < gr.Len(); i++ {
		sum += gr.Advance(i)
	}
	assert.Equal(t, dimen.Dimen(30), sum, "advances do not include dx")
	assert.Equal(t, sum, gr.TotalAdvance())
	assert.Equal(t, dimen.Dimen(35), gr.End().X-gr.Pen(0).X, "extent does")
	assert.InDelta(t, 10, gr.Rotation(2), 1e-9)
}

func TestExplicitPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" x="10 50" dx="0 0 3">abc</text></svg>`)
	assert.Len(t, tl.Chunks, 2, "absolute x starts a chunk")
	assert.Equal(t, []dimen.Dimen{10, 50, 63}, xs(tl))
}

func TestLetterSpacing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" letter-spacing="2">abc</text></svg>`)
	assert.Equal(t, []dimen.Dimen{0, 12, 24}, xs(tl))
	tl, _ = layout(t, `<svg><text id="t" word-spacing="6">a b</text></svg>`)
	assert.Equal(t, []dimen.Dimen{0, 10, 26}, xs(tl))
}

func TestBlankGlyphsAreWhiteSpace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t">a b</text></svg>`)
	gr := tl.Runs[0]
	gr.glyphs[1].CodePoint = '\u200b' // zero width space, no ink and no advance
	gr.glyphs[1].advance = 0
	assert.True(t, gr.isWhiteSpace(1))
	gr.glyphs[0].advance = 0
	assert.False(t, gr.isWhiteSpace(0), "glyph with ink")
}

func TestTextAnchor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" x="100" text-anchor="middle">abcd</text></svg>`)
	assert.Equal(t, dimen.Dimen(80), xs(tl)[0])
	assert.Equal(t, dimen.Dimen(40), tl.Chunks[0].Advance)
	tl, _ = layout(t, `<svg><text id="t" x="100" text-anchor="end">abcd</text></svg>`)
	assert.Equal(t, dimen.Dimen(60), xs(tl)[0])
}

func TestTextLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" textLength="60">abc</text></svg>`)
	assert.Equal(t, []dimen.Dimen{0, 20, 40}, xs(tl))
	assert.Nil(t, tl.Runs[0].Glyph(0).Transform, "spacing only")
	tl, _ = layout(t, `<svg><text id="t" textLength="60" lengthAdjust="spacingAndGlyphs">abc</text></svg>`)
	g := tl.Runs[0].Glyph(1)
	require.NotNil(t, g.Transform)
	assert.InDelta(t, 2, g.Transform.ScaleX(), 1e-9)
	end, _ := tl.End()
	assert.Equal(t, dimen.Dimen(60), end.X)
}

func TestTextLengthMovesFollowingRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t"><tspan textLength="40">ab</tspan>cd</text></svg>`)
	require.Len(t, tl.Runs, 2)
	assert.Equal(t, []dimen.Dimen{0, 20, 40, 50}, xs(tl))
}

func TestTextOnPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><path id="p" d="M0,0 H100"/>
<text id="t"><textPath xlink:href="#p">abcdefghijkl</textPath></text></svg>`)
	gr := tl.Runs[0]
	require.True(t, gr.OnPath())
	g := gr.Glyph(0)
	assert.Equal(t, dimen.Pt(5, 0), g.Position, "glyph middle on the path")
	require.NotNil(t, g.Transform)
	assert.InDelta(t, -5, float64(g.Transform.Apply(dimen.Point{}).X), 1e-9)
	assert.True(t, gr.Glyph(9).Visible)
	assert.False(t, gr.Glyph(10).Visible, "beyond the end of the path")
	assert.False(t, gr.Glyph(11).Visible)
}

func TestTextOnPathWithOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	for _, attrs := range []string{``, ` letter-spacing="0"`, ` letter-spacing="2"`} {
		tl, _ := layout(t, `<svg><path id="p" d="M0,0 H200"/>
<text id="t" dx="0 0 10"`+attrs+`><textPath href="#p">abc</textPath></text></svg>`)
		gr := tl.Runs[0]
		require.True(t, gr.OnPath())
		ls := dimen.Dimen(0)
		if attrs == ` letter-spacing="2"` {
			ls = 2
		}
		assert.Equal(t, dimen.Pt(5+ls/2, 0), gr.Glyph(0).Position, attrs)
		assert.Equal(t, dimen.Pt(15+ls*3/2, 0), gr.Glyph(1).Position, attrs)
		assert.Equal(t, dimen.Pt(35+ls*5/2, 0), gr.Glyph(2).Position, "dx moves along the path"+attrs)
		assert.Equal(t, dimen.Dimen(10)+ls, gr.Advance(0), attrs)
	}
}

func TestTextOnSmoothedPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	d, err := dom.ParseString(`<svg><path id="p" d="M10,50 L50,90 L90,50 L50,10 Z"/>
<text id="t"><textPath xlink:href="#p">abcdefgh</textPath></text></svg>`)
	require.NoError(t, err)
	paths := textpath.NewProvider()
	paths.Smooth(d.ElementByID("p"), true)
	errs := &core.ErrorList{}
	run := attributed.NewBuilder(d, nil, paths, nil, errs).Build(d.ElementByID("t"))
	tl := NewLayouter(goFonts{}, monospace.Shaper(10, nil), errs).Layout(run, dimen.Point{})
	require.Equal(t, 0, errs.Len())
	gr := tl.Runs[0]
	require.True(t, gr.OnPath())
	center := dimen.Pt(50, 50)
	for i, g := range gr.Glyphs() {
		require.True(t, g.Visible, "glyph %d", i)
		assert.InDelta(t, 40, float64(g.Position.Dist(center)), 1, "glyph %d on the circle", i)
	}
	assert.InDelta(t, 40, float64(gr.End().Dist(center)), 1)
}

func TestBentPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><path id="p" d="M0,0 V100"/>
<text id="t"><textPath xlink:href="#p">ab</textPath></text></svg>`)
	gr := tl.Runs[0]
	g := gr.Glyph(1)
	assert.InDelta(t, 0, float64(g.Position.X), 1e-9)
	assert.InDelta(t, 15, float64(g.Position.Y), 1e-9)
	assert.InDelta(t, 90, gr.Rotation(1), 1e-9, "downward path turns glyphs clockwise")
}

func TestZeroLengthPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><path id="p" d="M10,10"/>
<text id="t"><textPath xlink:href="#p">ab</textPath></text></svg>`)
	gr := tl.Runs[0]
	assert.Equal(t, []dimen.Dimen{0, 10}, xs(tl))
	assert.True(t, gr.Glyph(1).Visible)
}

func TestRightToLeft(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" x="100" direction="rtl">abc</text></svg>`)
	gr := tl.Runs[0]
	assert.Equal(t, []int{2, 1, 0}, gr.CharMap())
	assert.Equal(t, 'c', gr.Glyph(0).CodePoint)
	assert.Equal(t, []dimen.Dimen{70, 80, 90}, xs(tl), "text ends at the anchor")
}

func TestVisualOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	assert.Equal(t, []int{0, 3, 2, 1, 4}, visualOrder([]int8{0, 1, 1, 2, 0}))
	assert.Equal(t, []int{2, 1, 0}, visualOrder([]int8{1, 1, 1}))
	assert.Equal(t, []int{}, visualOrder([]int8{}))
}

func TestVertical(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" writing-mode="tb">ab</text></svg>`)
	gr := tl.Runs[0]
	require.True(t, gr.IsVertical())
	assert.Equal(t, dimen.Pt(0, 20), gr.End())
	assert.InDelta(t, 0, gr.Rotation(0), 1e-9, "Latin glyphs are turned with the line")
}

func TestDecorations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t" text-decoration="underline">ab</text></svg>`)
	decos := tl.Decorations()
	require.Len(t, decos, 1)
	assert.Equal(t, style.Underline, decos[0].Line)
	require.Len(t, decos[0].Quads, 1, "quads of neighbouring glyphs are merged")
	b := decos[0].Quads[0].Bounds()
	assert.InDelta(t, 0, float64(b.TopL.X), 1e-9)
	assert.InDelta(t, 20, float64(b.BotR.X), 1e-9)
	assert.True(t, b.TopL.Y >= 0, "underline is below the baseline")
}

func TestRunFor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.text")
	defer teardown()
	//
	tl, _ := layout(t, `<svg><text id="t">ab<tspan>cd</tspan></text></svg>`)
	k, ok := tl.RunFor(3)
	assert.True(t, ok)
	assert.Equal(t, 1, k)
	_, ok = tl.RunFor(4)
	assert.False(t, ok)
	assert.False(t, tl.Bounds().IsEmpty())
}
