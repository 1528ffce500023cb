/*
Package glypher is a home-grown shaper for easy cases where we can afford
to not rely on HarfBuzz.

The glypher maps code-points to glyphs with the font's cmap table and
positions them with the advances of the hmtx table, plus pair kerning from
the legacy kern table. There is no glyph substitution and no mark
positioning, making the glypher suitable for simple Latin, Greek and
Cyrillic text only.

A text-processing client would usually follow a standard process to
convert a string of characters into positioned glyphs: converting
character codes to glyph indices with 'cmap', substituting glyphs with
'GSUB', positioning them with 'GPOS' and 'BASE'. See
https://docs.microsoft.com/en-us/typography/opentype/spec/ttochap1#text-processing-with-opentype-layout-fonts

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glypher

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.glyphs")
}
