/*
Package monospace implements a simple shaper for monospace output.

Every grapheme cluster occupies one or two cells of a fixed width, depending
on its East Asian width (UAX #11). The shaper is deterministic and is used
for tests and for terminal-like output. If a font is given, glyph indices
are taken from it, but advances never are.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'svgtext.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.glyphs")
}
