/*
Package bridge connects text elements of a document to their layouts.

A Controller listens to document mutations and forwards them to the text
bridges attached to text and flowRoot elements. A TextBridge owns the
derived state of its element: the attributed runs, the glyph layout and the
character index. On every change it decides how much of this state has to be
thrown away. Changes of text content, structure, position attributes and
layout-relevant style properties require rebuilding the attributed run;
changes of flow regions require a new layout of the existing runs; a change of
the element's transform only changes the coordinate system of query results.

Text bridges answer the TextContent queries of SVG (number of characters,
extents, positions, rotations, substring lengths and hit tests) in the user
space of the text element's parent.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bridge

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.bridge'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.bridge")
}
