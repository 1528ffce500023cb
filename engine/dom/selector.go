package dom

import (
	"github.com/andybalholm/cascadia"

	"github.com/npillmayer/svgtext/core"
)

// QuerySelectorAll returns all elements of the document matching a CSS
// selector, in document order. Type selectors are matched against lowercase
// tag names, as cascadia lowercases them.
func (d *Document) QuerySelectorAll(selector string) ([]NodeID, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, core.WrapError(err, core.EMALFORMED, "invalid selector %q", selector)
	}
	var result []NodeID
	for _, h := range sel.MatchAll(d.h(d.root)) {
		if id := d.id(h); id != NoNode {
			result = append(result, id)
		}
	}
	return result, nil
}

// QuerySelector returns the first element matching a CSS selector, or NoNode.
func (d *Document) QuerySelector(selector string) (NodeID, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return NoNode, core.WrapError(err, core.EMALFORMED, "invalid selector %q", selector)
	}
	return d.id(sel.MatchFirst(d.h(d.root))), nil
}

// Matches returns true if element n matches a CSS selector.
func (d *Document) Matches(n NodeID, selector string) bool {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false
	}
	h := d.h(n)
	return h != nil && sel.Match(h)
}
