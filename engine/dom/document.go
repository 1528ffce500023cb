package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/npillmayer/svgtext/core"
)

// NodeID addresses a node within a document arena.
type NodeID int32

// NoNode is the null node.
const NoNode NodeID = -1

type nodeRec struct {
	kind Kind
	h    *html.Node
}

// Document is an element tree. Nodes are never freed; a node removed from
// the tree stays valid and may be re-inserted.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	nodes     []nodeRec
	index     map[*html.Node]NodeID
	shadow    *html.Node // document node of the shadow tree
	root      NodeID     // outermost svg element
	listeners []listener
	lseq      int
}

// NewDocument creates a document with an empty svg root element.
func NewDocument() *Document {
	d := newDocument()
	d.root = d.CreateElement("svg")
	d.shadow.AppendChild(d.nodes[d.root].h)
	return d
}

func newDocument() *Document {
	return &Document{
		index:  make(map[*html.Node]NodeID),
		shadow: &html.Node{Type: html.DocumentNode},
		root:   NoNode,
	}
}

func (d *Document) register(kind Kind, h *html.Node) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, nodeRec{kind: kind, h: h})
	d.index[h] = id
	return id
}

func (d *Document) valid(n NodeID) bool {
	return n >= 0 && int(n) < len(d.nodes)
}

func (d *Document) h(n NodeID) *html.Node {
	if !d.valid(n) {
		return nil
	}
	return d.nodes[n].h
}

func (d *Document) id(h *html.Node) NodeID {
	if h == nil {
		return NoNode
	}
	if id, ok := d.index[h]; ok {
		return id
	}
	return NoNode
}

// --- Construction ----------------------------------------------------------

// CreateElement creates a detached element. attrs are key/value pairs.
func (d *Document) CreateElement(tag string, attrs ...string) NodeID {
	if len(attrs)%2 != 0 {
		panic("dom.CreateElement: attributes must be key/value pairs")
	}
	h := &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: "svg",
	}
	for i := 0; i < len(attrs); i += 2 {
		h.Attr = append(h.Attr, makeAttr(attrs[i], attrs[i+1]))
	}
	return d.register(ClassifyElement(tag), h)
}

// CreateText creates a detached text node.
func (d *Document) CreateText(s string) NodeID {
	return d.register(KindCharData, &html.Node{Type: html.TextNode, Data: s})
}

// CreateCDATA creates a detached CDATA section.
func (d *Document) CreateCDATA(s string) NodeID {
	return d.register(KindCDATA, &html.Node{Type: html.TextNode, Data: s})
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(s string) NodeID {
	return d.register(KindComment, &html.Node{Type: html.CommentNode, Data: s})
}

func makeAttr(name, value string) html.Attribute {
	if i := strings.IndexByte(name, ':'); i > 0 {
		return html.Attribute{Namespace: name[:i], Key: name[i+1:], Val: value}
	}
	return html.Attribute{Key: name, Val: value}
}

// --- Navigation ------------------------------------------------------------

// Root returns the outermost svg element.
func (d *Document) Root() NodeID {
	return d.root
}

// Len returns the number of nodes ever created in d.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Kind returns the classification of node n.
func (d *Document) Kind(n NodeID) Kind {
	if !d.valid(n) {
		return KindOther
	}
	return d.nodes[n].kind
}

// Tag returns the tag name of an element, or "" for other nodes.
func (d *Document) Tag(n NodeID) string {
	if h := d.h(n); h != nil && h.Type == html.ElementNode {
		return h.Data
	}
	return ""
}

// Text returns the character data of a text, CDATA or comment node.
func (d *Document) Text(n NodeID) string {
	if h := d.h(n); h != nil && h.Type != html.ElementNode {
		return h.Data
	}
	return ""
}

// Parent returns the parent of n, or NoNode.
func (d *Document) Parent(n NodeID) NodeID {
	if h := d.h(n); h != nil {
		return d.id(h.Parent)
	}
	return NoNode
}

// FirstChild returns the first child of n, or NoNode.
func (d *Document) FirstChild(n NodeID) NodeID {
	if h := d.h(n); h != nil {
		return d.id(h.FirstChild)
	}
	return NoNode
}

// LastChild returns the last child of n, or NoNode.
func (d *Document) LastChild(n NodeID) NodeID {
	if h := d.h(n); h != nil {
		return d.id(h.LastChild)
	}
	return NoNode
}

// NextSibling returns the next sibling of n, or NoNode.
func (d *Document) NextSibling(n NodeID) NodeID {
	if h := d.h(n); h != nil {
		return d.id(h.NextSibling)
	}
	return NoNode
}

// PrevSibling returns the previous sibling of n, or NoNode.
func (d *Document) PrevSibling(n NodeID) NodeID {
	if h := d.h(n); h != nil {
		return d.id(h.PrevSibling)
	}
	return NoNode
}

// Children returns the child nodes of n.
func (d *Document) Children(n NodeID) []NodeID {
	var ch []NodeID
	for c := d.FirstChild(n); c != NoNode; c = d.NextSibling(c) {
		ch = append(ch, c)
	}
	return ch
}

// IsAncestor returns true if a is a proper ancestor of n.
func (d *Document) IsAncestor(a, n NodeID) bool {
	if a == NoNode || n == NoNode {
		return false
	}
	for p := d.Parent(n); p != NoNode; p = d.Parent(p) {
		if p == a {
			return true
		}
	}
	return false
}

// Contains returns true if n is a or a descendant of a.
func (d *Document) Contains(a, n NodeID) bool {
	return a != NoNode && (a == n || d.IsAncestor(a, n))
}

// IsAttached returns true if n is part of the document tree.
func (d *Document) IsAttached(n NodeID) bool {
	return n == d.root || d.IsAncestor(d.root, n)
}

// NearestAncestor returns the nearest proper ancestor of n whose kind
// satisfies pred, or NoNode.
func (d *Document) NearestAncestor(n NodeID, pred func(Kind) bool) NodeID {
	for p := d.Parent(n); p != NoNode; p = d.Parent(p) {
		if pred(d.Kind(p)) {
			return p
		}
	}
	return NoNode
}

// TextContent returns the character data of all descendants of n,
// in document order. Comments are skipped.
func (d *Document) TextContent(n NodeID) string {
	var b strings.Builder
	var collect func(NodeID)
	collect = func(n NodeID) {
		switch d.Kind(n) {
		case KindCharData, KindCDATA:
			b.WriteString(d.Text(n))
		case KindComment:
		default:
			for c := d.FirstChild(n); c != NoNode; c = d.NextSibling(c) {
				collect(c)
			}
		}
	}
	collect(n)
	return b.String()
}

// --- Attributes ------------------------------------------------------------

func attrIndex(h *html.Node, name string) int {
	for i, a := range h.Attr {
		if strings.EqualFold(a.Key, name) {
			return i
		}
		if a.Namespace != "" && strings.EqualFold(a.Namespace+":"+a.Key, name) {
			return i
		}
	}
	return -1
}

// Attr returns the value of attribute name of element n. Names are
// matched case-insensitively; prefixed names (xlink:href) match both with
// and without prefix.
func (d *Document) Attr(n NodeID, name string) (string, bool) {
	h := d.h(n)
	if h == nil || h.Type != html.ElementNode {
		return "", false
	}
	if i := attrIndex(h, name); i >= 0 {
		return h.Attr[i].Val, true
	}
	return "", false
}

// AttrString returns the value of an attribute, or "" if it is not set.
func (d *Document) AttrString(n NodeID, name string) string {
	v, _ := d.Attr(n, name)
	return v
}

// Attrs returns a copy of the attributes of n.
func (d *Document) Attrs(n NodeID) []html.Attribute {
	h := d.h(n)
	if h == nil {
		return nil
	}
	return append([]html.Attribute(nil), h.Attr...)
}

// Href returns the link target of a tref or textPath, with a leading '#'
// removed.
func (d *Document) Href(n NodeID) string {
	ref, ok := d.Attr(n, "xlink:href")
	if !ok {
		ref = d.AttrString(n, "href")
	}
	return strings.TrimPrefix(strings.TrimSpace(ref), "#")
}

// SetAttribute sets an attribute of element n and signals an AttrModified
// mutation.
func (d *Document) SetAttribute(n NodeID, name, value string) {
	h := d.h(n)
	if h == nil || h.Type != html.ElementNode {
		tracer().Errorf("cannot set attribute %s of non-element %d", name, n)
		return
	}
	var old string
	if i := attrIndex(h, name); i >= 0 {
		old = h.Attr[i].Val
		h.Attr[i].Val = value
	} else {
		h.Attr = append(h.Attr, makeAttr(name, value))
	}
	d.publish(Mutation{Type: AttrModified, Target: n, Attr: name, OldValue: old, NewValue: value})
}

// RemoveAttribute removes an attribute of element n. If the attribute
// has been set, an AttrModified mutation is signalled.
func (d *Document) RemoveAttribute(n NodeID, name string) {
	h := d.h(n)
	if h == nil || h.Type != html.ElementNode {
		return
	}
	i := attrIndex(h, name)
	if i < 0 {
		return
	}
	old := h.Attr[i].Val
	h.Attr = append(h.Attr[:i], h.Attr[i+1:]...)
	d.publish(Mutation{Type: AttrModified, Target: n, Attr: name, OldValue: old})
}

// --- Tree mutation ---------------------------------------------------------

// AppendChild appends a detached node to parent.
func (d *Document) AppendChild(parent, child NodeID) error {
	return d.InsertBefore(parent, child, NoNode)
}

// InsertBefore inserts a detached node as a child of parent, before ref.
// If ref is NoNode, the child is appended.
func (d *Document) InsertBefore(parent, child, ref NodeID) error {
	p, c := d.h(parent), d.h(child)
	if p == nil || c == nil || p.Type != html.ElementNode {
		return core.Error(core.EINVALID, "cannot insert node %d into %d", child, parent)
	}
	if c.Parent != nil {
		return core.Error(core.EINVALID, "node %d is already part of a tree", child)
	}
	if d.Contains(child, parent) {
		return core.Error(core.EINVALID, "node %d cannot be inserted into itself", child)
	}
	var r *html.Node
	if ref != NoNode {
		if r = d.h(ref); r == nil || r.Parent != p {
			return core.Error(core.EINVALID, "node %d is not a child of %d", ref, parent)
		}
	}
	p.InsertBefore(c, r)
	d.publish(Mutation{Type: NodeInserted, Target: child})
	d.publish(Mutation{Type: SubtreeModified, Target: parent})
	return nil
}

// RemoveChild detaches child from parent. A NodeRemoved mutation is
// signalled while the child is still attached, a SubtreeModified mutation
// after it has been detached.
func (d *Document) RemoveChild(parent, child NodeID) error {
	p, c := d.h(parent), d.h(child)
	if p == nil || c == nil || c.Parent != p {
		return core.Error(core.EINVALID, "node %d is not a child of %d", child, parent)
	}
	d.publish(Mutation{Type: NodeRemoved, Target: child})
	p.RemoveChild(c)
	d.publish(Mutation{Type: SubtreeModified, Target: parent})
	return nil
}

// SetText replaces the character data of a text or CDATA node.
func (d *Document) SetText(n NodeID, s string) {
	if !d.Kind(n).IsCharData() {
		tracer().Errorf("cannot set character data of %s node", d.Kind(n))
		return
	}
	h := d.h(n)
	old := h.Data
	h.Data = s
	d.publish(Mutation{Type: CharDataModified, Target: n, OldValue: old, NewValue: s})
	if p := d.Parent(n); p != NoNode {
		d.publish(Mutation{Type: SubtreeModified, Target: p})
	}
}

// Render writes the markup of the subtree at n to w.
func (d *Document) Render(w io.Writer, n NodeID) error {
	h := d.h(n)
	if h == nil {
		return core.Error(core.EINVALID, "cannot render node %d", n)
	}
	return html.Render(w, h)
}
