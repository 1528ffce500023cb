/*
Package style resolves the text-related style properties of SVG elements.

Properties are taken from presentation attributes, from rules of embedded
style sheets (style elements) and from inline style attributes, in this
order of precedence, lowest first. Properties which CSS defines as inherited
are passed down from the parent element. Text decorations propagate to
descendants the way SVG 1.1 requires: a descendant re-declaring
text-decoration adds its own lines, painted with its own fill and stroke.

Style sheets are parsed with douceur, selectors are matched with cascadia
(through package dom).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'svgtext.style'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.style")
}
