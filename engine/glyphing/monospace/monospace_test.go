package monospace

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/glyphing"
)

func TestCells(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	sh := Shaper(10, nil)
	seq, err := sh.Shape(strings.NewReader("Hi you"), nil, nil, glyphing.Params{})
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 6)
	assert.Equal(t, dimen.Dimen(60), seq.W)
	for i, g := range seq.Glyphs {
		assert.Equal(t, i, g.ClusterID)
		assert.Equal(t, dimen.Dimen(10), g.XAdvance)
	}
	assert.Greater(t, float64(seq.H), float64(seq.D))
}

func TestGraphemeClusters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	sh := Shaper(10, nil)
	seq, err := sh.Shape(strings.NewReader("éx"), nil, nil, glyphing.Params{})
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 2, "combining accent joins its base")
	assert.Equal(t, 0, seq.Glyphs[0].ClusterID)
	assert.Equal(t, 2, seq.Glyphs[1].ClusterID)
}

func TestDefaultCell(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(20)
	require.NoError(t, err)
	sh := Shaper(0, nil)
	seq, err := sh.Shape(strings.NewReader("ab"), nil, nil, glyphing.Params{Font: tc})
	require.NoError(t, err)
	assert.Equal(t, dimen.Dimen(24), seq.W)
	gid, _ := tc.GlyphIndex('a')
	assert.Equal(t, gid, seq.Glyphs[0].GID)
}
