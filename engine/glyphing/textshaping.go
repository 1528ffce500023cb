/*
Package glyphing defines the interface to text shapers.

A shaper turns a sequence of code-points into a sequence of glyphs from a
font at a given size. Shapers for this module live in sub-packages:
HarfBuzz (package harfbuzz, using benoitkugler/textlayout), go-text
(package gotext) and a monospace shaper for deterministic output (package
monospace).

Glyphs are reported in logical order, i.e. for right-to-left text the
first glyph belongs to the first character of the input. Dimensions are in
SVG user units, with the y-axis pointing down.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
)

// tracer traces with key 'svgtext.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.glyphs")
}

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case TopToBottom:
		return "TopToBottom"
	case BottomToTop:
		return "BottomToTop"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// DirectionForLevel returns the horizontal direction of a bidi embedding level.
func DirectionForLevel(level int) Direction {
	if level%2 == 1 {
		return RightToLeft
	}
	return LeftToRight
}

// A ShapedGlyph is a glyph as positioned by a shaper.
type ShapedGlyph struct {
	ClusterID int              // position of the first code-point for this glyph in the input
	GID       font.GlyphIndex  // glyph index within font, 0 for 'missing glyph'
	XAdvance  dimen.Dimen      // advance after glyph has been set
	YAdvance  dimen.Dimen      //
	XOffset   dimen.Dimen      // offset of the glyph from the current pen position
	YOffset   dimen.Dimen      //
	CodePoint rune             // code-point of first rune to produce this glyph
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%s)", g.GID, g.ClusterID, g.XAdvance)
}

// A Shaper creates a sequence of glyphs from a sequence of
// Unicode code-points. Glyphs are taken from a font, given in a specific size.
//
// Clients may provide additional information in Params, as well as
// textual context ([2][]rune: before and after the text).
// Clients may provide buf to avoid allocating memory; it will be re-sliced.
//
// Shapers must be safe for concurrent use.
type Shaper interface {
	Shape(text io.RuneReader, buf []ShapedGlyph, context [][]rune, params Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Font      *font.TypeCase  // use a font at a given size
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// Tag is a 4-letter OpenType tag.
type Tag uint32

// MakeTag creates a tag from a string of length 4.
func MakeTag(s string) Tag {
	if len(s) != 4 {
		panic(fmt.Sprintf("OpenType tag must have length 4: %q", s))
	}
	return Tag(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3]))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// Kerning is the OpenType feature for pair kerning.
var Kerning = MakeTag("kern")

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// run of code-points.
type FeatureRange struct {
	Feature    Tag  // 4-letter feature tag
	Arg        int  // optional argument for this feature
	On         bool // turn it on or off?
	Start, End int  // position of code-points to apply feature for; End < 0 means 'to the end'
}

// Value returns the numeric feature value a shaper should use.
func (frng FeatureRange) Value() uint32 {
	if !frng.On {
		return 0
	}
	if frng.Arg > 0 {
		return uint32(frng.Arg)
	}
	return 1
}

// NoKerning returns a feature switch which turns kerning off.
func NoKerning() FeatureRange {
	return FeatureRange{Feature: Kerning, On: false, Start: 0, End: -1}
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs  []ShapedGlyph // resulting sequence of glyphs
	W, H, D dimen.Dimen   // width, height, depth of bounding box
}

// BoundingBox returns the dimensions of the glyph sequence.
func (seq GlyphSequence) BoundingBox() (w dimen.Dimen, h dimen.Dimen, d dimen.Dimen) {
	return seq.W, seq.H, seq.D
}

// --- Helpers for shaper implementations ------------------------------------

// ReadRunes drains a rune reader.
func ReadRunes(text io.RuneReader) []rune {
	var runes []rune
	for {
		r, sz, err := text.ReadRune()
		if sz == 0 || err != nil {
			break
		}
		runes = append(runes, r)
	}
	return runes
}

// WithContext concatenates text with leading and trailing context, and returns
// the offset of text within the result.
func WithContext(text []rune, context [][]rune) (all []rune, offset int) {
	if len(context) > 0 {
		all = append(all, context[0]...)
		offset = len(context[0])
	}
	all = append(all, text...)
	if len(context) > 1 {
		all = append(all, context[1]...)
	}
	return all, offset
}

// LogicalOrder sorts glyphs by cluster, keeping the order of glyphs within
// a cluster intact. Shapers output right-to-left text in visual order;
// reversing first keeps multi-glyph clusters in shaping order.
func LogicalOrder(glyphs []ShapedGlyph, dir Direction) {
	if dir == RightToLeft {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].ClusterID < glyphs[j].ClusterID
	})
}

// Measure sets width, height and depth of a sequence from its glyphs and font.
func (seq *GlyphSequence) Measure(tc *font.TypeCase) {
	seq.W = 0
	for _, g := range seq.Glyphs {
		seq.W += g.XAdvance
	}
	if tc != nil {
		m := tc.Metrics()
		seq.H, seq.D = m.Ascent, m.Descent
	}
}
