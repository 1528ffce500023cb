/*
Package flow wraps flow text into regions.

Flow text is the SVG 1.2 draft extension for text which breaks into lines
automatically: a flowRoot holds one or more rectangular flow regions and a
sequence of paragraphs. Paragraphs are shaped without line breaks first;
the wrapper then walks the glyphs of every paragraph, finds line break
opportunities (UAX #14), fills lines up to the width of the current region
and continues in the next region when a region is full. Glyphs which do not
fit into any region are hidden.

Lines are placed after all paragraphs have been wrapped, as vertical
alignment of a region depends on the last line set into it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package flow

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.flow'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.flow")
}
