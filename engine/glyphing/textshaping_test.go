package glyphing

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	assert.Equal(t, "kern", Kerning.String())
	assert.Equal(t, Tag(0x6c696761), MakeTag("liga"))
	assert.Panics(t, func() { MakeTag("ss") })
	assert.Equal(t, uint32(0), NoKerning().Value())
	assert.Equal(t, uint32(3), FeatureRange{On: true, Arg: 3}.Value())
}

func TestContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	runes := ReadRunes(strings.NewReader("mid"))
	all, off := WithContext(runes, [][]rune{[]rune("ab"), []rune("z")})
	assert.Equal(t, "abmidz", string(all))
	assert.Equal(t, 2, off)
	all, off = WithContext(runes, nil)
	assert.Equal(t, "mid", string(all))
	assert.Equal(t, 0, off)
}

func TestLogicalOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.glyphs")
	defer teardown()
	//
	visual := []ShapedGlyph{{ClusterID: 2, GID: 3}, {ClusterID: 1, GID: 2}, {ClusterID: 0, GID: 1}}
	LogicalOrder(visual, RightToLeft)
	assert.Equal(t, 0, visual[0].ClusterID)
	assert.Equal(t, 2, visual[2].ClusterID)
	assert.Equal(t, RightToLeft, DirectionForLevel(1))
	assert.Equal(t, LeftToRight, DirectionForLevel(2))
}
