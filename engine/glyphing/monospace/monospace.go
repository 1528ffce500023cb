package monospace

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/glyphing"
)

type msshape struct {
	mx               sync.Mutex
	cell             dimen.Dimen
	graphemeSplitter *segment.Segmenter
	context          *uax11.Context
}

// Shaper creates a shaper for monospace typesetting.
// A cell width may be given which will then be used for shaping text.
// If it is zero, 60% of the font size will be used, or 10pt if no font
// is given when shaping.
func Shaper(cell dimen.Dimen, context *uax11.Context) glyphing.Shaper {
	if context == nil {
		context = uax11.LatinContext
	}
	sh := &msshape{
		cell:    cell,
		context: context,
	}
	grapheme.SetupGraphemeClasses()
	onGraphemes := grapheme.NewBreaker(1)
	sh.graphemeSplitter = segment.NewSegmenter(onGraphemes)
	return sh
}

// Shape creates a glyph sequence from a text. Context is ignored.
func (ms *msshape) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune,
	p glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if text == nil {
		return glyphing.GlyphSequence{}, nil
	}
	ms.mx.Lock()
	defer ms.mx.Unlock()
	cell := ms.cell
	if cell == 0 {
		cell = 10 * dimen.PT * 3 / 5
		if p.Font != nil {
			cell = p.Font.Size() * 3 / 5
		}
	}
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	ms.graphemeSplitter.Init(text)
	pos := 0 // rune position
	for ms.graphemeSplitter.Next() {
		grphm := ms.graphemeSplitter.Bytes()
		w := uax11.Width(grphm, ms.context)
		codepoint, _ := utf8.DecodeRune(grphm)
		g := glyphing.ShapedGlyph{
			XAdvance:  dimen.Dimen(w) * cell,
			ClusterID: pos,
			CodePoint: codepoint,
		}
		if p.Font != nil {
			g.GID, _ = p.Font.GlyphIndex(codepoint)
		}
		if p.Direction == glyphing.TopToBottom || p.Direction == glyphing.BottomToTop {
			g.XAdvance, g.YAdvance = 0, dimen.Dimen(w)*cell*5/3
		}
		seq.Glyphs = append(seq.Glyphs, g)
		seq.W += g.XAdvance
		pos += utf8.RuneCount(grphm)
	}
	em := cell * 5 / 3
	seq.H = em * 4 / 5
	seq.D = em / 5
	tracer().Debugf("monospace shaped %d runes into %d glyphs", pos, len(seq.Glyphs))
	return seq, nil
}
