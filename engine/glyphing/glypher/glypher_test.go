package glypher

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/glyphing"
)

func TestGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(16)
	require.NoError(t, err)
	seq, err := Instance().Shape(strings.NewReader("Ab\uE000"), nil, nil, glyphing.Params{Font: tc})
	require.NoError(t, err)
	require.Len(t, seq.Glyphs, 3)
	gid, _ := tc.GlyphIndex('b')
	assert.Equal(t, gid, seq.Glyphs[1].GID)
	assert.Equal(t, font.GlyphIndex(0), seq.Glyphs[2].GID, "missing glyph")
	assert.Equal(t, 2, seq.Glyphs[2].ClusterID)
}

func TestKerningSwitch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	features := []glyphing.FeatureRange{glyphing.NoKerning()}
	assert.False(t, kerning(features, 3))
	assert.True(t, kerning(nil, 3))
	features = append(features, glyphing.FeatureRange{Feature: glyphing.Kerning, On: true, Start: 2, End: 4})
	assert.True(t, kerning(features, 3))
	assert.False(t, kerning(features, 5))
}
