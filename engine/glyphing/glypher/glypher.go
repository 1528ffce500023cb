package glypher

import (
	"io"

	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/glyphing"
)

type glypher struct{}

// Instance returns a simple shaper. It is safe for concurrent use.
func Instance() glyphing.Shaper {
	return glypher{}
}

// Shape maps each code-point to a glyph of params.Font. Kerning is applied
// unless switched off by a feature range.
func (g glypher) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if text == nil || params.Font == nil {
		return glyphing.GlyphSequence{}, nil
	}
	tc := params.Font
	runes := glyphing.ReadRunes(text)
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	var prev font.GlyphIndex
	for i, r := range runes {
		gid, _ := tc.GlyphIndex(r)
		sg := glyphing.ShapedGlyph{
			ClusterID: i,
			GID:       gid,
			XAdvance:  tc.GlyphAdvance(gid),
			CodePoint: r,
		}
		if i > 0 && kerning(params.Features, i) {
			seq.Glyphs[i-1].XAdvance += tc.Kern(prev, gid)
		}
		seq.Glyphs = append(seq.Glyphs, sg)
		prev = gid
	}
	seq.Measure(tc)
	tracer().Debugf("glypher shaped %d runes", len(runes))
	return seq, nil
}

// kerning checks if kerning is on at position i. The last matching feature
// range wins.
func kerning(features []glyphing.FeatureRange, i int) bool {
	on := true
	for _, f := range features {
		if f.Feature != glyphing.Kerning {
			continue
		}
		if f.End < 0 || (i >= f.Start && i < f.End) {
			on = f.On
		}
	}
	return on
}
