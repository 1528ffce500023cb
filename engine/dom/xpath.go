package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/npillmayer/svgtext/core"
)

// NodeNavigator implements xpath.NodeNavigator for a document.
//
// For a description of the various methods of interface xpath.NodeNavigator
// please refer to the documentation of antchfx/xpath. It is not replicated here.
type NodeNavigator struct {
	doc           *Document
	root, current *html.Node
	attr          int // attributes index, -1 if positioned on a node
}

// Navigator creates a navigator positioned at the document root.
func (d *Document) Navigator() *NodeNavigator {
	return &NodeNavigator{
		doc:     d,
		root:    d.shadow,
		current: d.shadow,
		attr:    -1,
	}
}

// Current returns the node the navigator is positioned at. For attributes
// this is the owning element.
func (nav *NodeNavigator) Current() NodeID {
	return nav.doc.id(nav.current)
}

func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch nav.current.Type {
	case html.CommentNode:
		return xpath.CommentNode
	case html.TextNode:
		return xpath.TextNode
	case html.ElementNode:
		if nav.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	}
	return xpath.RootNode
}

func (nav *NodeNavigator) LocalName() string {
	if nav.attr != -1 {
		return nav.current.Attr[nav.attr].Key
	}
	return nav.current.Data
}

func (nav *NodeNavigator) Prefix() string {
	if nav.attr != -1 {
		return nav.current.Attr[nav.attr].Namespace
	}
	return ""
}

func (nav *NodeNavigator) Value() string {
	switch nav.current.Type {
	case html.CommentNode:
		return nav.current.Data
	case html.TextNode:
		return nav.current.Data
	case html.ElementNode:
		if nav.attr != -1 {
			return nav.current.Attr[nav.attr].Val
		}
	}
	if id := nav.doc.id(nav.current); id != NoNode {
		return nav.doc.TextContent(id)
	}
	return nav.doc.TextContent(nav.doc.root)
}

func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

func (nav *NodeNavigator) MoveToRoot() {
	nav.current = nav.root
	nav.attr = -1
}

func (nav *NodeNavigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes to element
		return true
	}
	if nav.current == nav.root || nav.current.Parent == nil {
		return false
	}
	nav.current = nav.current.Parent
	return true
}

func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.current.Type != html.ElementNode || nav.attr >= len(nav.current.Attr)-1 {
		return false
	}
	nav.attr++
	return true
}

func (nav *NodeNavigator) MoveToChild() bool {
	if nav.attr != -1 || nav.current.FirstChild == nil {
		return false
	}
	nav.current = nav.current.FirstChild
	return true
}

func (nav *NodeNavigator) MoveToFirst() bool {
	if nav.attr != -1 || nav.current.PrevSibling == nil {
		return false
	}
	for nav.current.PrevSibling != nil {
		nav.current = nav.current.PrevSibling
	}
	return true
}

func (nav *NodeNavigator) MoveToNext() bool {
	if nav.attr != -1 || nav.current.NextSibling == nil {
		return false
	}
	nav.current = nav.current.NextSibling
	return true
}

func (nav *NodeNavigator) MoveToPrevious() bool {
	if nav.attr != -1 || nav.current.PrevSibling == nil {
		return false
	}
	nav.current = nav.current.PrevSibling
	return true
}

func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	n, ok := other.(*NodeNavigator)
	if !ok || n.root != nav.root {
		return false
	}
	nav.current = n.current
	nav.attr = n.attr
	return true
}

func (nav *NodeNavigator) String() string {
	return nav.Value()
}

var _ xpath.NodeNavigator = &NodeNavigator{}

// --- Queries ---------------------------------------------------------------

// Find selects nodes with an XPath expression. Attribute results are
// reported as their owning elements.
func (d *Document) Find(expr string) ([]NodeID, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "invalid XPath expression %q", expr)
	}
	var result []NodeID
	iter := e.Select(d.Navigator())
	for iter.MoveNext() {
		nav, ok := iter.Current().(*NodeNavigator)
		if !ok {
			continue
		}
		if id := nav.Current(); id != NoNode {
			result = append(result, id)
		}
	}
	return result, nil
}

// ElementByID finds the element with a given id attribute.
func (d *Document) ElementByID(id string) NodeID {
	if id == "" {
		return NoNode
	}
	var lit string
	switch {
	case !strings.Contains(id, "'"):
		lit = "'" + id + "'"
	case !strings.Contains(id, `"`):
		lit = `"` + id + `"`
	default:
		tracer().Errorf("cannot look up id %s", id)
		return NoNode
	}
	nodes, err := d.Find(fmt.Sprintf("//*[@id=%s]", lit))
	if err != nil || len(nodes) == 0 {
		return NoNode
	}
	return nodes[0]
}
