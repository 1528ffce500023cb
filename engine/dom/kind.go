package dom

import "strings"

// Kind classifies a node. The kind of a node never changes.
type Kind uint8

// Node kinds.
const (
	KindOther    Kind = iota // element without meaning for text layout
	KindDocument             // shadow document node, never part of an arena
	KindCharData             // text node
	KindCDATA                // text from a CDATA section
	KindComment
	KindSVG
	KindGroup
	KindText     // text
	KindSpan     // tspan
	KindRef      // tref
	KindPathRef  // textPath
	KindAltGlyph // altGlyph
	KindAnchor   // a
	KindPath
	KindRect
	KindTitle
	KindDesc
	KindMetadata
	KindFlowRoot
	KindFlowRegion
	KindFlowDiv
	KindFlowPara
	KindFlowSpan
	KindFlowLine
	KindFlowRegionBreak
)

var kindNames = [...]string{
	"other", "#document", "#text", "#cdata", "#comment", "svg", "g", "text", "tspan",
	"tref", "textPath", "altGlyph", "a", "path", "rect", "title", "desc", "metadata",
	"flowRoot", "flowRegion", "flowDiv", "flowPara", "flowSpan", "flowLine",
	"flowRegionBreak",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

var elementKinds map[string]Kind

func init() {
	elementKinds = make(map[string]Kind)
	for k := KindSVG; k <= KindFlowRegionBreak; k++ {
		elementKinds[strings.ToLower(kindNames[k])] = k
	}
	elementKinds["flowtext"] = KindFlowRoot // older drafts of SVG 1.2
}

// ClassifyElement returns the kind of an element with a given tag name.
// Tag names are matched case-insensitively.
func ClassifyElement(tag string) Kind {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	if k, ok := elementKinds[strings.ToLower(tag)]; ok {
		return k
	}
	return KindOther
}

// IsCharData is true for text and CDATA nodes.
func (k Kind) IsCharData() bool {
	return k == KindCharData || k == KindCDATA
}

// IsTextContainer is true for elements whose character content takes part in
// text layout when nested inside a text element: tspan, tref, textPath,
// altGlyph and a.
func (k Kind) IsTextContainer() bool {
	switch k {
	case KindSpan, KindRef, KindPathRef, KindAltGlyph, KindAnchor:
		return true
	}
	return false
}

// IsDisplayedText is true for the text element and all text containers.
// The content of other elements (title, desc, …) is never displayed.
func (k Kind) IsDisplayedText() bool {
	return k == KindText || k.IsTextContainer()
}

// IsFlowContent is true for flow text elements carrying paragraphs.
func (k Kind) IsFlowContent() bool {
	switch k {
	case KindFlowDiv, KindFlowPara, KindFlowSpan, KindFlowLine, KindFlowRegionBreak, KindAnchor:
		return true
	}
	return false
}
