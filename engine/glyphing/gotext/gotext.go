/*
Package gotext shapes text with the go-text typesetting shaper.

go-text is a pure Go port of HarfBuzz, maintained by the Gio and Fyne
communities. It is an alternative to package harfbuzz.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gotext

import (
	"bytes"
	"io"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	gtlang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
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

// Shaper shapes text using go-text. It is safe for concurrent use.
type Shaper struct {
	mx     sync.Mutex
	shaper shaping.HarfbuzzShaper
	faces  map[*font.ScalableFont]*gtfont.Face
}

var _ glyphing.Shaper = &Shaper{}

// New creates a go-text shaper.
func New() *Shaper {
	return &Shaper{faces: make(map[*font.ScalableFont]*gtfont.Face)}
}

func (sh *Shaper) face(sf *font.ScalableFont) (*gtfont.Face, error) {
	if f, ok := sh.faces[sf]; ok {
		return f, nil
	}
	f, err := gtfont.ParseTTF(bytes.NewReader(sf.Binary))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "go-text cannot parse font %s", sf.Fontname)
	}
	sh.faces[sf] = f
	return f, nil
}

// Direction4GT translates a direction to a go-text direction.
func Direction4GT(d glyphing.Direction) di.Direction {
	switch d {
	case glyphing.RightToLeft:
		return di.DirectionRTL
	case glyphing.TopToBottom:
		return di.DirectionTTB
	case glyphing.BottomToTop:
		return di.DirectionBTT
	}
	return di.DirectionLTR
}

// Shape shapes a sequence of code-points. params.Font must be set, otherwise
// no output is created.
//
// go-text applies features to the whole text. Feature ranges which do not
// span the complete input are ignored.
func (sh *Shaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, context [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if text == nil || params.Font == nil {
		return glyphing.GlyphSequence{}, nil
	}
	sh.mx.Lock()
	defer sh.mx.Unlock()
	sf := params.Font.ScalableFontParent()
	face, err := sh.face(sf)
	if err != nil {
		return glyphing.GlyphSequence{}, err
	}
	runes := glyphing.ReadRunes(text)
	all, offset := glyphing.WithContext(runes, context)
	upem := int(sf.SFNT.UnitsPerEm())
	input := shaping.Input{
		Text:      all,
		RunStart:  offset,
		RunEnd:    offset + len(runes),
		Direction: Direction4GT(params.Direction),
		Face:      face,
		Size:      fixed.I(upem), // output in font units
		Language:  gtlang.NewLanguage(params.Language.String()),
	}
	var none language.Script
	if params.Script != none {
		if scr, err := gtlang.ParseScript(params.Script.String()); err == nil {
			input.Script = scr
		}
	} else if len(runes) > 0 {
		input.Script = gtlang.LookupScript(runes[0])
	}
	for _, feat := range params.Features {
		if feat.Start > 0 || (feat.End >= 0 && feat.End < len(runes)) {
			tracer().Debugf("go-text cannot apply feature %s to a range, ignored", feat.Feature)
			continue
		}
		input.FontFeatures = append(input.FontFeatures, shaping.FontFeature{
			Tag:   ot.Tag(feat.Feature),
			Value: feat.Value(),
		})
	}
	out := sh.shaper.Shape(input)
	scale := float64(params.Font.Size()) / float64(upem)
	conv := func(v fixed.Int26_6) dimen.Dimen {
		return dimen.Dimen(float64(v) / 64 * scale)
	}
	vertical := params.Direction == glyphing.TopToBottom || params.Direction == glyphing.BottomToTop
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	for _, g := range out.Glyphs {
		cluster := g.TextIndex() - offset
		sg := glyphing.ShapedGlyph{
			ClusterID: cluster,
			GID:       font.GlyphIndex(g.GlyphID),
			XOffset:   conv(g.XOffset),
			YOffset:   -conv(g.YOffset),
		}
		if vertical {
			sg.YAdvance = -conv(g.Advance)
		} else {
			sg.XAdvance = conv(g.Advance)
		}
		if cluster >= 0 && cluster < len(runes) {
			sg.CodePoint = runes[cluster]
		}
		seq.Glyphs = append(seq.Glyphs, sg)
	}
	glyphing.LogicalOrder(seq.Glyphs, params.Direction)
	seq.Measure(params.Font)
	tracer().Debugf("go-text shaped %d runes into %d glyphs", len(runes), len(seq.Glyphs))
	return seq, nil
}
