package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/npillmayer/svgtext/core"
)

// Parse reads markup containing an svg element, either a standalone SVG
// fragment or an HTML5 document with inline SVG. The first svg element
// found becomes the root of the document; everything outside of it is
// dropped.
func Parse(r io.Reader) (*Document, error) {
	top, err := html.Parse(r)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "cannot parse markup")
	}
	svg := findSVG(top)
	if svg == nil {
		return nil, core.Error(core.EMALFORMED, "markup does not contain an svg element")
	}
	svg.Parent.RemoveChild(svg)
	d := newDocument()
	d.shadow.AppendChild(svg)
	d.root = d.importTree(svg)
	tracer().Debugf("imported %d nodes", d.Len())
	return d, nil
}

// ParseString is a shortcut for Parse(strings.NewReader(s)).
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func findSVG(h *html.Node) *html.Node {
	if h.Type == html.ElementNode && strings.EqualFold(h.Data, "svg") {
		return h
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if svg := findSVG(c); svg != nil {
			return svg
		}
	}
	return nil
}

func (d *Document) importTree(h *html.Node) NodeID {
	var kind Kind
	switch h.Type {
	case html.TextNode:
		kind = KindCharData
	case html.CommentNode:
		kind = KindComment
	case html.ElementNode:
		if h.Namespace == "svg" || h.Namespace == "" {
			kind = ClassifyElement(h.Data)
		}
	}
	id := d.register(kind, h)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		d.importTree(c)
	}
	return id
}
