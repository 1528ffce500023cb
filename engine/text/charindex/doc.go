/*
Package charindex maps between the characters of an attributed run and the
glyphs of its layout, and answers character level queries.

Queries are the ones of the SVG DOM interface SVGTextContentElement: number
of characters, extent, start and end position, rotation, substring length
and the character at a position. Characters are addressed relative to an
element; only characters with a visible glyph are counted for text set on
a path.

An Index is a derived value. It has to be re-created whenever the layout it
indexes changes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package charindex

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.text'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.text")
}
