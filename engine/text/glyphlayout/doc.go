/*
Package glyphlayout shapes and positions the glyphs of attributed runs.

A GlyphRun holds the glyphs for one segment of an attributed run. After
shaping, three passes place the glyphs:

	PositionExplicit   default advances, x/y/dx/dy/rotate, baseline shift,
	                   glyph orientation in vertical and horizontal text
	AdjustSpacing      kerning, letter-spacing and word-spacing
	ApplyPath          bending glyphs along a text path

Each pass runs at most once and triggers the passes it depends on. Resetting
the offset of a run makes all passes run again.

A Layouter creates the glyph runs for a whole text element. It splits the
text into chunks, orders runs of a chunk by their embedding levels, applies
textLength and text-anchor per chunk and sets chunks on text paths. The
result is a TextLayout, which is what renderers and queries consume.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphlayout

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.text'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.text")
}
