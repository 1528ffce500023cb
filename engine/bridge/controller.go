package bridge

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
)

// nodeComparator orders the subscription table by node id.
func nodeComparator(a, b interface{}) int {
	return utils.IntComparator(int(a.(dom.NodeID)), int(b.(dom.NodeID)))
}

// Controller dispatches the mutations of a document to the text bridges
// attached to its text elements.
type Controller struct {
	ctx         *Context
	bridges     *treemap.Map // dom.NodeID → *TextBridge
	unsubscribe func()
}

// NewController creates a controller for the document of ctx and subscribes
// to its mutations. Call Close to unsubscribe.
func NewController(ctx *Context) *Controller {
	c := &Controller{
		ctx:     ctx,
		bridges: treemap.NewWith(nodeComparator),
	}
	c.unsubscribe = ctx.Doc.Subscribe(c.dispatch)
	return c
}

// Context returns the collaborators of c.
func (c *Controller) Context() *Context {
	return c.ctx
}

// Attach creates the text bridge for a text or flowRoot element. If a bridge
// exists already, it is returned.
func (c *Controller) Attach(e dom.NodeID) (*TextBridge, error) {
	switch k := c.ctx.Doc.Kind(e); k {
	case dom.KindText, dom.KindFlowRoot:
	default:
		return nil, core.Error(core.EINVALID, "cannot attach text bridge to %s element %d", k, e)
	}
	if tb, ok := c.Bridge(e); ok {
		return tb, nil
	}
	tb := newTextBridge(c.ctx, e)
	c.bridges.Put(e, tb)
	tracer().Debugf("attached text bridge to element %d", e)
	return tb, nil
}

// AttachAll attaches text bridges to all text and flowRoot elements of the
// document and returns them in document order.
func (c *Controller) AttachAll() []*TextBridge {
	var tbs []*TextBridge
	var walk func(n dom.NodeID)
	walk = func(n dom.NodeID) {
		switch c.ctx.Doc.Kind(n) {
		case dom.KindText, dom.KindFlowRoot:
			if tb, err := c.Attach(n); err == nil {
				tbs = append(tbs, tb)
			}
			return
		}
		for _, ch := range c.ctx.Doc.Children(n) {
			walk(ch)
		}
	}
	walk(c.ctx.Doc.Root())
	return tbs
}

// Bridge returns the text bridge attached to element e.
func (c *Controller) Bridge(e dom.NodeID) (*TextBridge, bool) {
	v, ok := c.bridges.Get(e)
	if !ok {
		return nil, false
	}
	return v.(*TextBridge), true
}

// Detach removes the text bridge of element e.
func (c *Controller) Detach(e dom.NodeID) {
	c.bridges.Remove(e)
}

// Len returns the number of attached text bridges.
func (c *Controller) Len() int {
	return c.bridges.Size()
}

// Close unsubscribes from the document and detaches all text bridges.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.bridges.Clear()
}

func (c *Controller) each(f func(*TextBridge)) {
	for _, v := range c.bridges.Values() {
		f(v.(*TextBridge))
	}
}

// owner returns the bridge of n or of the nearest ancestor of n having one.
func (c *Controller) owner(n dom.NodeID) (*TextBridge, bool) {
	for ; n != dom.NoNode; n = c.ctx.Doc.Parent(n) {
		if tb, ok := c.Bridge(n); ok {
			return tb, true
		}
	}
	return nil, false
}

// displayed is true if node n contributes to the text of its text element.
// Title, desc and metadata elements and their content do not.
func displayed(doc *dom.Document, n dom.NodeID) bool {
	k := doc.Kind(n)
	if k.IsCharData() {
		p := doc.Kind(doc.Parent(n))
		return p.IsDisplayedText() || p.IsFlowContent()
	}
	return k.IsDisplayedText() || k.IsFlowContent()
}

func isStyleSheet(doc *dom.Document, n dom.NodeID) bool {
	return doc.Tag(n) == "style"
}

// dispatch handles a single mutation. Removals only mark layouts as stale;
// the rebuild waits for the following SubtreeModified mutation.
func (c *Controller) dispatch(doc *dom.Document, m dom.Mutation) {
	switch m.Type {
	case dom.NodeInserted, dom.NodeRemoved:
		c.each(func(tb *TextBridge) {
			if doc.Contains(m.Target, tb.elem) {
				tb.invalidate(newRun)
			}
		})
		if tb, ok := c.owner(doc.Parent(m.Target)); ok && displayed(doc, m.Target) {
			tb.invalidate(newRun)
		}
	case dom.CharDataModified:
		if tb, ok := c.owner(m.Target); ok && displayed(doc, m.Target) {
			tb.invalidate(newRun)
		}
	case dom.SubtreeModified:
		if isStyleSheet(doc, m.Target) {
			c.sheetChanged()
			return
		}
		if tb, ok := c.owner(m.Target); ok {
			tb.update()
		}
	case dom.AttrModified:
		c.attributeChanged(doc, m)
	}
}

func (c *Controller) attributeChanged(doc *dom.Document, m dom.Mutation) {
	n := m.Target
	if doc.Kind(n) == dom.KindPath && (m.Attr == "d" || m.Attr == "transform") {
		c.ctx.Paths.Invalidate(n)
		c.each(func(tb *TextBridge) {
			if tb.usesPath(n) {
				tb.OnContentChanged()
			}
		})
		return
	}
	if isStyleAttribute(m.Attr) {
		c.styleChanged(doc, n)
		return
	}
	tb, ok := c.owner(n)
	if !ok {
		return
	}
	if tb.flow && isRegion(doc, n) {
		if regionAttributes[m.Attr] {
			tb.onRegionChanged()
		}
		return
	}
	if m.Attr == "transform" && n != tb.elem {
		return
	}
	tb.OnAttributeChanged(m.Attr)
}

func isStyleAttribute(name string) bool {
	if name == "style" || name == "class" {
		return true
	}
	_, ok := style.PropertyByName(name)
	return ok
}

// isRegion is true for flowRegion elements and their rectangles.
func isRegion(doc *dom.Document, n dom.NodeID) bool {
	switch doc.Kind(n) {
	case dom.KindFlowRegion:
		return true
	case dom.KindRect:
		return doc.Kind(doc.Parent(n)) == dom.KindFlowRegion
	}
	return false
}

// styleChanged compares the styles of the bridges affected by a change of
// the style of n before and after the change. Bridges of elements inside n
// compare their own styles.
func (c *Controller) styleChanged(doc *dom.Document, n dom.NodeID) {
	type change struct {
		tb   *TextBridge
		elem dom.NodeID
		old  *style.Styles
	}
	var changes []change
	c.each(func(tb *TextBridge) {
		var elem dom.NodeID
		switch {
		case doc.Contains(tb.elem, n):
			elem = n
		case doc.IsAncestor(n, tb.elem):
			elem = tb.styleElement()
		default:
			return
		}
		if old, ok := tb.elementStyles(elem); ok {
			changes = append(changes, change{tb: tb, elem: elem, old: old})
		}
	})
	c.ctx.Styles.Reset()
	for _, ch := range changes {
		props := style.Diff(ch.old, c.ctx.Styles.Styles(doc, ch.elem))
		ch.tb.OnStyleChanged(props, n)
	}
}

// sheetChanged rebuilds all text bridges after a change of a style sheet.
func (c *Controller) sheetChanged() {
	tracer().Debugf("style sheet changed")
	c.ctx.Styles.Reset()
	c.each(func(tb *TextBridge) {
		tb.OnContentChanged()
	})
}
