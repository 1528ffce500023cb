package style

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
)

const doc1 = `<svg xmlns="http://www.w3.org/2000/svg">
<style>
  .big { font-size: 20px }
  #t2 tspan { font-weight: bold; fill: red !important }
</style>
<g font-family="Georgia, 'Times New Roman', serif" fill="blue">
<text id="t1" font-size="12" text-anchor="middle">A<tspan id="s1" font-size="150%" baseline-shift="super">B</tspan></text>
<text id="t2" class="big" style="direction: rtl; letter-spacing: 2px" fill="green"><tspan id="s2" style="fill: yellow">C</tspan></text>
</g>
</svg>`

func TestInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	d, err := dom.ParseString(doc1)
	require.NoError(t, err)
	r := NewResolver(nil, nil)
	t1 := r.Styles(d, d.ElementByID("t1"))
	assert.Equal(t, []string{"Georgia", "Times New Roman", "serif"}, t1.FontFamily)
	assert.Equal(t, dimen.Dimen(12), t1.FontSize)
	assert.Equal(t, AnchorMiddle, t1.TextAnchor)
	assert.Equal(t, Paint("blue"), t1.Fill)
	s1 := r.Styles(d, d.ElementByID("s1"))
	assert.Equal(t, dimen.Dimen(18), s1.FontSize)
	assert.Equal(t, AnchorMiddle, s1.TextAnchor, "text-anchor is inherited")
	assert.Equal(t, ShiftSuper, s1.BaselineShift.Kind)
	chars := d.FirstChild(d.ElementByID("s1"))
	assert.Same(t, s1, r.Styles(d, chars), "character data uses parent styles")
}

func TestCascade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	d, err := dom.ParseString(doc1)
	require.NoError(t, err)
	r := NewResolver(nil, nil)
	t2 := r.Styles(d, d.ElementByID("t2"))
	assert.Equal(t, dimen.Dimen(20), t2.FontSize, "class rule")
	assert.Equal(t, bidi.RightToLeft, t2.Direction, "inline style")
	assert.Equal(t, Spacing{Set: true, Value: 2}, t2.LetterSpacing)
	assert.Equal(t, Paint("green"), t2.Fill)
	s2 := r.Styles(d, d.ElementByID("s2"))
	assert.Equal(t, xfont.WeightBold, s2.FontWeight)
	assert.Equal(t, Paint("red"), s2.Fill, "important rule wins over inline style")
}

func TestInlineStyleLastDeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	d, err := dom.ParseString(`<svg><text id="a" style="fill:blue">x</text>
<text id="b" style="font-size: 30; letter-spacing: 3 ">y</text>
<text id="c" style="fill:blue;">z</text></svg>`)
	require.NoError(t, err)
	r := NewResolver(nil, nil)
	assert.Equal(t, Paint("blue"), r.Styles(d, d.ElementByID("a")).Fill)
	b := r.Styles(d, d.ElementByID("b"))
	assert.Equal(t, dimen.Dimen(30), b.FontSize)
	assert.Equal(t, Spacing{Set: true, Value: 3}, b.LetterSpacing, "last declaration without semicolon")
	assert.Equal(t, Paint("blue"), r.Styles(d, d.ElementByID("c")).Fill)
}

func TestDecorationPropagation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	d, err := dom.ParseString(`<svg><text id="t" fill="red" text-decoration="underline">
	<tspan id="a" fill="blue">x</tspan>
	<tspan id="b" fill="green" text-decoration="overline">y</tspan>
	<tspan id="c" text-decoration="none">z</tspan></text></svg>`)
	require.NoError(t, err)
	r := NewResolver(nil, nil)
	a := r.Styles(d, d.ElementByID("a"))
	assert.True(t, a.Decoration[Underline].On)
	assert.Equal(t, Paint("red"), a.Decoration[Underline].Fill, "paint of declaring element")
	b := r.Styles(d, d.ElementByID("b"))
	assert.True(t, b.Decoration[Underline].On)
	assert.Equal(t, Paint("green"), b.Decoration[Overline].Fill)
	c := r.Styles(d, d.ElementByID("c"))
	assert.True(t, c.Decoration.IsEmpty())
}

func TestMalformedValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	d, err := dom.ParseString(`<svg><text id="t" font-size="huge" font-weight="450" writing-mode="tb">x</text></svg>`)
	require.NoError(t, err)
	errs := &core.ErrorList{}
	r := NewResolver(nil, errs)
	s := r.Styles(d, d.ElementByID("t"))
	assert.Equal(t, dimen.Dimen(16), s.FontSize, "default retained")
	assert.Equal(t, xfont.WeightNormal, s.FontWeight)
	assert.True(t, s.IsVertical())
	assert.Equal(t, 2, errs.Len())
}

func TestValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	parent := Initial(nil)
	s := parent.Inherit()
	require.NoError(t, s.set(FontWeight, "700", parent))
	assert.Equal(t, xfont.WeightBold, s.FontWeight)
	require.NoError(t, s.set(FontWeight, "bolder", parent))
	assert.Equal(t, xfont.WeightMedium, s.FontWeight)
	require.NoError(t, s.set(GlyphOrientationVertical, "1.5708rad", parent))
	assert.Equal(t, Orientation{Angle: 90}, s.OrientationVertical)
	require.NoError(t, s.set(FontSize, "larger", parent))
	assert.InDelta(t, 19.2, float64(s.FontSize), 1e-9)
	require.NoError(t, s.set(Kerning, "auto", parent))
	assert.False(t, s.Kerning.Set)
	assert.Error(t, s.set(TextAnchor, "left", parent))
}

func TestDiff(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.style")
	defer teardown()
	//
	a := Initial(nil)
	b := a.Inherit()
	assert.True(t, Diff(a, b).IsEmpty())
	b.Fill = "red"
	b.FontSize = 30
	diff := Diff(a, b)
	assert.Equal(t, Props(FontSize, Fill), diff)
	assert.True(t, diff.Intersects(LayoutProperties))
	assert.True(t, Props(Fill).Intersects(PaintProperties))
	assert.False(t, Props(Fill).Intersects(LayoutProperties))
	p, ok := PropertyByName("Writing-Mode")
	assert.True(t, ok)
	assert.Equal(t, WritingMode, p)
	assert.False(t, TextDecoration.Inherited())
}
