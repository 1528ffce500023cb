package gotext

import (
	"strings"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/glyphing"
)

func goFont(t *testing.T, size dimen.Dimen) *font.TypeCase {
	tc, err := font.FallbackFont().PrepareCase(size)
	require.NoError(t, err)
	return tc
}

func TestShapeLatin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	tc := goFont(t, 16)
	seq, err := New().Shape(strings.NewReader("Wave"), nil, nil, glyphing.Params{Font: tc})
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 4)
	gid, ok := tc.GlyphIndex('W')
	require.True(t, ok)
	assert.Equal(t, gid, seq.Glyphs[0].GID)
	assert.Equal(t, 3, seq.Glyphs[3].ClusterID)
	assert.Equal(t, 'e', seq.Glyphs[3].CodePoint)
	assert.InDelta(t, float64(tc.GlyphAdvance(gid)), float64(seq.Glyphs[0].XAdvance), 0.5)
	assert.Equal(t, tc.Metrics().Ascent, seq.H)
}

func TestShapeScales(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	sh := New()
	small, err := sh.Shape(strings.NewReader("x"), nil, nil, glyphing.Params{Font: goFont(t, 16)})
	require.NoError(t, err)
	large, err := sh.Shape(strings.NewReader("x"), nil, nil, glyphing.Params{Font: goFont(t, 32)})
	require.NoError(t, err)
	assert.InDelta(t, 2*float64(small.W), float64(large.W), 0.01)
}

func TestShapeNoFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	seq, err := New().Shape(strings.NewReader("x"), nil, nil, glyphing.Params{})
	assert.NoError(t, err)
	assert.Empty(t, seq.Glyphs)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, di.DirectionRTL, Direction4GT(glyphing.RightToLeft))
	assert.Equal(t, di.DirectionLTR, Direction4GT(glyphing.LeftToRight))
}
