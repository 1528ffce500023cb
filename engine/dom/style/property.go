package style

import (
	"math/bits"
	"strings"
)

// Property is the index of a style property.
type Property uint8

// Style properties relevant for text layout and painting.
const (
	FontFamily Property = iota
	FontSize
	FontStyle
	FontWeight
	FontStretch
	TextAnchor
	BaselineShift
	UnicodeBidi
	Direction
	WritingMode
	GlyphOrientationVertical
	GlyphOrientationHorizontal
	LetterSpacing
	WordSpacing
	Kerning
	TextDecoration
	Fill
	FillOpacity
	Stroke
	StrokeOpacity
	StrokeWidth
	StrokeLinecap
	StrokeLinejoin
	StrokeMiterlimit
	StrokeDasharray
	StrokeDashoffset
	Opacity
	Visibility
	Display
	TextRendering
	ColorRendering
	LineHeight
	numProperties
)

var propertyNames = [numProperties]string{
	"font-family", "font-size", "font-style", "font-weight", "font-stretch",
	"text-anchor", "baseline-shift", "unicode-bidi", "direction", "writing-mode",
	"glyph-orientation-vertical", "glyph-orientation-horizontal",
	"letter-spacing", "word-spacing", "kerning", "text-decoration",
	"fill", "fill-opacity", "stroke", "stroke-opacity", "stroke-width",
	"stroke-linecap", "stroke-linejoin", "stroke-miterlimit", "stroke-dasharray",
	"stroke-dashoffset", "opacity", "visibility", "display", "text-rendering",
	"color-rendering", "line-height",
}

// Properties not inherited from the parent element.
var notInherited = Props(BaselineShift, UnicodeBidi, TextDecoration, Opacity, Display)

func (p Property) String() string {
	if p < numProperties {
		return propertyNames[p]
	}
	return "?"
}

// Inherited returns true if CSS passes p down to child elements.
func (p Property) Inherited() bool {
	return !notInherited.Contains(p)
}

// PropertyByName finds a property by its CSS name.
func PropertyByName(name string) (Property, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range propertyNames {
		if n == name {
			return Property(i), true
		}
	}
	return 0, false
}

// PropertySet is a set of properties.
type PropertySet uint64

// Props creates a property set.
func Props(props ...Property) PropertySet {
	var s PropertySet
	for _, p := range props {
		s = s.Add(p)
	}
	return s
}

// Add returns s ∪ {p}.
func (s PropertySet) Add(p Property) PropertySet {
	return s | 1<<p
}

// Contains checks for p ∈ s.
func (s PropertySet) Contains(p Property) bool {
	return s&(1<<p) != 0
}

// Intersects returns true if s and t have at least one property in common.
func (s PropertySet) Intersects(t PropertySet) bool {
	return s&t != 0
}

// IsEmpty returns true for the empty set.
func (s PropertySet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of properties in s.
func (s PropertySet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Properties returns the members of s in index order.
func (s PropertySet) Properties() []Property {
	var props []Property
	for p := Property(0); p < numProperties; p++ {
		if s.Contains(p) {
			props = append(props, p)
		}
	}
	return props
}

func (s PropertySet) String() string {
	var names []string
	for _, p := range s.Properties() {
		names = append(names, p.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// LayoutProperties are the properties which influence shaping and glyph
// positioning. A change of one of them requires the text to be re-built.
var LayoutProperties = Props(TextAnchor, FontSize, FontWeight, FontStyle, FontStretch,
	FontFamily, BaselineShift, UnicodeBidi, Direction, WritingMode,
	GlyphOrientationVertical, GlyphOrientationHorizontal,
	LetterSpacing, WordSpacing, Kerning, LineHeight)

// PaintProperties are the properties which influence painting only.
var PaintProperties = Props(Fill, FillOpacity, Stroke, StrokeOpacity, StrokeWidth,
	StrokeLinecap, StrokeLinejoin, StrokeMiterlimit, StrokeDasharray, StrokeDashoffset,
	TextDecoration, Opacity)

// RenderingHints are properties which are handed through to the renderer.
var RenderingHints = Props(TextRendering, ColorRendering)
