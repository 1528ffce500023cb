package textpath

import (
	"sync"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/percent"
	"github.com/npillmayer/svgtext/engine/dom"
)

// Provider resolves the paths of textPath elements. Parsed paths are cached
// per path element until Invalidate is called. A Provider is safe for
// concurrent use.
type Provider struct {
	mx      sync.Mutex
	cache   map[dom.NodeID]Path
	defined map[dom.NodeID]Path // contours set by clients, see Define
	smooth  map[dom.NodeID]bool // see Smooth
}

// NewProvider creates a path provider with an empty cache.
func NewProvider() *Provider {
	return &Provider{
		cache:   make(map[dom.NodeID]Path),
		defined: make(map[dom.NodeID]Path),
		smooth:  make(map[dom.NodeID]bool),
	}
}

// Smooth sets path element n to be drawn as a Hobby spline through the end
// points of its first sub-path, instead of with the segments of its path data.
// A closed sub-path results in a cyclic spline. The path data is still read
// from the element, so changes to it are honored after Invalidate.
func (pv *Provider) Smooth(n dom.NodeID, on bool) {
	pv.mx.Lock()
	defer pv.mx.Unlock()
	delete(pv.cache, n)
	if on {
		pv.smooth[n] = true
	} else {
		delete(pv.smooth, n)
	}
}

// Define sets the contour of path element n to p, replacing its path data.
// Contours constructed in code, e.g. splines, are attached this way.
// Calling Define with a nil path reverts to the element's path data.
func (pv *Provider) Define(n dom.NodeID, p Path) {
	pv.mx.Lock()
	defer pv.mx.Unlock()
	delete(pv.cache, n)
	if p == nil {
		delete(pv.defined, n)
		return
	}
	pv.defined[n] = p
}

// Reference returns the path element referenced by a textPath element, or
// dom.NoNode.
func Reference(doc *dom.Document, textPath dom.NodeID) dom.NodeID {
	ref := doc.ElementByID(doc.Href(textPath))
	if doc.Kind(ref) != dom.KindPath {
		return dom.NoNode
	}
	return ref
}

// Path returns the path referenced by a textPath element. Path data is
// transformed by the path element's transform attribute. If the reference
// cannot be resolved, Path returns nil and an EMISSING error. Malformed path
// data results in the path up to the error, together with an EMALFORMED
// error.
func (pv *Provider) Path(doc *dom.Document, textPath dom.NodeID) (Path, error) {
	ref := Reference(doc, textPath)
	if ref == dom.NoNode {
		return nil, core.Error(core.EMISSING, "textPath references no path element: %q",
			doc.Href(textPath))
	}
	pv.mx.Lock()
	defer pv.mx.Unlock()
	if p, ok := pv.defined[ref]; ok {
		return p, nil
	}
	if p, ok := pv.cache[ref]; ok {
		return p, nil
	}
	var p Path
	var err error
	if pv.smooth[ref] {
		knots, closed, kerr := Knots(doc.AttrString(ref, "d"))
		tracer().Debugf("smoothing path %d through %d knots", ref, len(knots))
		p, err = Smooth(knots, closed), kerr
	} else {
		p, err = Parse(doc.AttrString(ref, "d"))
	}
	if t, ok := doc.Attr(ref, "transform"); ok {
		m, terr := dimen.ParseTransform(t)
		if terr != nil {
			err = core.WrapError(terr, core.EMALFORMED, "transform of path %d", ref)
		} else {
			p = Transform(p, m)
		}
	}
	pv.cache[ref] = p
	return p, err
}

// Invalidate drops the cached path for path element n. If n is dom.NoNode,
// the whole cache is cleared. Defined contours are kept.
func (pv *Provider) Invalidate(n dom.NodeID) {
	pv.mx.Lock()
	defer pv.mx.Unlock()
	if n == dom.NoNode {
		pv.cache = make(map[dom.NodeID]Path)
		return
	}
	delete(pv.cache, n)
}

// StartOffset returns the start offset of a textPath element along path p.
// Percentages refer to the length of the path. Malformed values result in an
// offset of 0 and an EMALFORMED error.
func StartOffset(doc *dom.Document, textPath dom.NodeID, p Path, fontSize dimen.Dimen) (dimen.Dimen, error) {
	s, ok := doc.Attr(textPath, "startOffset")
	if !ok || p == nil {
		return 0, nil
	}
	if percent.IsPercentage(s) {
		pc, err := percent.FromString(s)
		if err != nil {
			return 0, core.WrapError(err, core.EMALFORMED, "startOffset %q", s)
		}
		return dimen.Dimen(pc.Fraction()) * p.Length(), nil
	}
	d, err := dimen.ParseLength(s, dimen.Context{FontSize: fontSize})
	if err != nil {
		return 0, core.WrapError(err, core.EMALFORMED, "startOffset %q", s)
	}
	return d, nil
}
