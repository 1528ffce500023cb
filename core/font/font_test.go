package font

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
)

func TestGoFontCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f)
	tc, err := f.PrepareCase(20)
	require.NoError(t, err)
	t.Logf("font [%s] at %s", f.Fontname, tc.Size())
	m := tc.Metrics()
	assert.Greater(t, float64(m.Ascent), 0.0)
	assert.Greater(t, float64(m.Descent), 0.0)
	assert.Less(t, float64(m.Height()), 2*20.0)
	assert.Greater(t, float64(m.UnderlineOffset), 0.0, "underline is below baseline")
	assert.Less(t, float64(m.StrikethroughOffset), 0.0, "strike-through is above baseline")
	assert.Less(t, float64(m.OverlineOffset), float64(m.StrikethroughOffset))
}

func TestIllegalSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	tc, err := FallbackFont().PrepareCase(-3)
	require.NoError(t, err)
	assert.Equal(t, 16.0, float64(tc.Size()))
}

func TestGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	tc, err := FallbackFont().PrepareCase(10)
	require.NoError(t, err)
	g, ok := tc.GlyphIndex('A')
	require.True(t, ok)
	box, adv := tc.GlyphBounds(g)
	assert.Greater(t, float64(adv), 0.0)
	assert.InDelta(t, float64(adv), float64(tc.GlyphAdvance(g)), 1e-6)
	assert.Less(t, float64(box.TopL.Y), 0.0, "glyph 'A' extends above the baseline")
	sp, ok := tc.GlyphIndex(' ')
	require.True(t, ok)
	box, _ = tc.GlyphBounds(sp)
	assert.True(t, box.IsEmpty())
	_, ok = tc.GlyphIndex('\uE000') // private use area
	assert.False(t, ok)
}

func TestBlankGlyphBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	tc, err := FallbackFont().PrepareCase(10)
	require.NoError(t, err)
	sp, ok := tc.GlyphIndex(' ')
	require.True(t, ok)
	box, adv := tc.GlyphBounds(sp)
	assert.True(t, box.IsEmpty(), "space has no ink")
	assert.InDelta(t, float64(tc.GlyphAdvance(sp)), float64(adv), 1e-6, "but it has an advance")
	a, _ := tc.GlyphIndex('A')
	abox, _ := tc.GlyphBounds(a)
	assert.Equal(t, abox, abox.Union(box), "blank glyphs do not extend a union")
}

func TestScaling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	f := FallbackFont()
	tc1, _ := f.PrepareCase(10)
	tc2, _ := f.PrepareCase(20)
	g, _ := tc1.GlyphIndex('x')
	assert.InDelta(t, 2*float64(tc1.GlyphAdvance(g)), float64(tc2.GlyphAdvance(g)), 1e-6)
}

func TestOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	tc, _ := FallbackFont().PrepareCase(32)
	g, _ := tc.GlyphIndex('o')
	outline, err := tc.GlyphOutline(g)
	require.NoError(t, err)
	require.NotEmpty(t, outline)
	assert.Equal(t, MoveTo, outline[0].Op)
	box, _ := tc.GlyphBounds(g)
	ob := outline.Bounds()
	assert.InDelta(t, float64(box.BotR.Y), float64(ob.BotR.Y), 1.0)
}

func TestGoFontVariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.font")
	defer teardown()
	//
	regular := GoFont(xfont.StyleNormal, xfont.WeightNormal, false)
	bold := GoFont(xfont.StyleNormal, xfont.WeightBold, false)
	italic := GoFont(xfont.StyleItalic, xfont.WeightNormal, false)
	mono := GoFont(xfont.StyleItalic, xfont.WeightBold, true)
	assert.NotSame(t, regular, bold)
	assert.NotSame(t, regular, italic)
	assert.NotSame(t, regular, mono)
	assert.Same(t, regular, FallbackFont())
}
