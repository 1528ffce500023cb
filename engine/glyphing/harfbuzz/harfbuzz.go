/*
Package harfbuzz uses HarfBuzz to convert text to sequences of glyphs.

The HarfBuzz port of benoitkugler/textlayout is used. HarfBuzz faces are
created once per scalable font and cached by the shaper.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/engine/glyphing"
)

// tracer traces with key 'svgtext.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// FeatureRange4HB converts a feature range to a HarfBuzz feature switch.
// offset is the position of the shaped text within the HarfBuzz buffer.
func FeatureRange4HB(frng glyphing.FeatureRange, offset int) hb.Feature {
	f := hb.Feature{
		Tag:   hbtt.Tag(frng.Feature),
		Value: frng.Value(),
		Start: frng.Start + offset,
		End:   frng.End + offset,
	}
	if frng.End < 0 {
		f.Start, f.End = hb.FeatureGlobalStart, hb.FeatureGlobalEnd
	}
	return f
}

// --- Shaper ----------------------------------------------------------------

// Shaper is a HarfBuzz shaper. It is safe for concurrent use.
type Shaper struct {
	mx    sync.Mutex
	faces map[*font.ScalableFont]*hb.Font
}

var _ glyphing.Shaper = &Shaper{}

// New creates a HarfBuzz shaper.
func New() *Shaper {
	return &Shaper{faces: make(map[*font.ScalableFont]*hb.Font)}
}

func (sh *Shaper) face(sf *font.ScalableFont) (*hb.Font, error) {
	if f, ok := sh.faces[sf]; ok {
		return f, nil
	}
	face, err := hbtt.Parse(bytes.NewReader(sf.Binary), true)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "HarfBuzz cannot parse font %s", sf.Fontname)
	}
	f := hb.NewFont(face)
	sh.faces[sf] = f
	return f, nil
}

// Shape calls the HarfBuzz shaper.
//
// Shape shapes a sequence of code-points (runes), turning its Unicode characters to
// positioned glyphs. It will select a shape plan based on params, including the
// selected font, and the properties of the input text.
//
// If `params.Features` is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
//
// params.Font must be set, otherwise no output is created.
func (sh *Shaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, context [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if text == nil || params.Font == nil {
		return glyphing.GlyphSequence{}, nil
	}
	sh.mx.Lock()
	defer sh.mx.Unlock()
	sf := params.Font.ScalableFontParent()
	hbFont, err := sh.face(sf)
	if err != nil {
		return glyphing.GlyphSequence{}, err
	}
	runes := glyphing.ReadRunes(text)
	all, offset := glyphing.WithContext(runes, context)
	features := make([]hb.Feature, 0, len(params.Features))
	for _, feat := range params.Features {
		features = append(features, FeatureRange4HB(feat, offset))
	}
	hbBuf := hb.NewBuffer()
	convertParams(&hbBuf.Props, params)
	hbBuf.AddRunes(all, offset, len(runes))
	hbBuf.Shape(hbFont, features)
	//
	// HarfBuzz positions are in font units, as the font scale defaults to
	// units per em
	scale := float64(params.Font.Size()) / float64(sf.SFNT.UnitsPerEm())
	conv := func(v int32) dimen.Dimen {
		return dimen.Dimen(float64(v) * scale)
	}
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	for i, ginfo := range hbBuf.Info {
		gpos := hbBuf.Pos[i]
		cluster := ginfo.Cluster - offset
		g := glyphing.ShapedGlyph{
			ClusterID: cluster,
			GID:       font.GlyphIndex(ginfo.Glyph),
			XAdvance:  conv(int32(gpos.XAdvance)),
			YAdvance:  -conv(int32(gpos.YAdvance)),
			XOffset:   conv(int32(gpos.XOffset)),
			YOffset:   -conv(int32(gpos.YOffset)),
		}
		if cluster >= 0 && cluster < len(runes) {
			g.CodePoint = runes[cluster]
		}
		seq.Glyphs = append(seq.Glyphs, g)
	}
	glyphing.LogicalOrder(seq.Glyphs, params.Direction)
	seq.Measure(params.Font)
	tracer().Debugf("HarfBuzz shaped %d runes into %d glyphs", len(runes), len(seq.Glyphs))
	return seq, nil
}

// convertParams is a helper function to convert glyphing parameters to
// HarfBuzz's format.
func convertParams(hbProps *hb.SegmentProperties, params glyphing.Params) {
	if params.Language != language.Und {
		hbProps.Language = Lang4HB(params.Language)
	}
	var none language.Script
	if params.Script != none {
		hbProps.Script = Script4HB(params.Script)
	}
	hbProps.Direction = Direction4HB(params.Direction)
}
