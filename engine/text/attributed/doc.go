/*
Package attributed builds attributed character runs from SVG text elements.

A text element and its descendants (tspan, tref, textPath, altGlyph, a) are
flattened into a single sequence of characters. Every character carries the
element it is attributed to (its compound delimiter), explicit position
overrides from x, y, dx, dy and rotate lists, its bidi embedding level and
the text path it is set on, if any. White space is handled as described
for xml:space in SVG 1.1.

Runs are the input for glyph layout. Flow text (flowRoot) is built into one
run per paragraph, see BuildFlow.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package attributed

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.text'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.text")
}
