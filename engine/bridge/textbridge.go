package bridge

import (
	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/text/attributed"
	"github.com/npillmayer/svgtext/engine/text/charindex"
	"github.com/npillmayer/svgtext/engine/text/flow"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
	"github.com/npillmayer/svgtext/engine/text/textpath"
)

// state tells which part of the derived state of a text bridge is stale.
// Later states include earlier ones.
type state uint8

const (
	upToDate     state = iota
	newTransform       // coordinate system of query results
	newLayout          // glyph positions; attributed runs are valid
	newRun             // attributed runs
)

func (s state) String() string {
	switch s {
	case upToDate:
		return "up-to-date"
	case newTransform:
		return "transform"
	case newLayout:
		return "layout"
	}
	return "run"
}

// Properties which change the attributed run or the glyph layout. Changes of
// other properties only concern painting.
var layoutProperties = style.Props(
	style.FontFamily, style.FontSize, style.FontStyle, style.FontWeight, style.FontStretch,
	style.TextAnchor, style.BaselineShift, style.UnicodeBidi, style.Direction,
	style.WritingMode, style.GlyphOrientationVertical, style.GlyphOrientationHorizontal,
	style.LetterSpacing, style.WordSpacing, style.Kerning, style.TextDecoration,
	style.Display, style.LineHeight,
)

// Attributes which are baked into attributed runs.
var runAttributes = map[string]bool{
	"x": true, "y": true, "dx": true, "dy": true, "rotate": true,
	"textLength": true, "lengthAdjust": true, "startOffset": true,
	"href": true, "xlink:href": true, "xml:space": true,
	"systemLanguage": true, "requiredFeatures": true, "requiredExtensions": true,
	"margin": true, "margin-top": true, "margin-right": true, "margin-bottom": true,
	"margin-left": true, "indent": true, "justification": true,
}

// Attributes of flow regions.
var regionAttributes = map[string]bool{
	"x": true, "y": true, "width": true, "height": true, "vertical-align": true,
}

// TextBridge holds the layout of a text or flowRoot element.
type TextBridge struct {
	ctx  *Context
	elem dom.NodeID
	flow bool

	state      state
	rebuilding bool // one-shot guard against re-entrant updates
	runs       []*attributed.Run
	paras      []*attributed.Paragraph
	layouts    []*glyphlayout.TextLayout
	flowLayout *flow.Layout
	indexes    []*charindex.Index
	ctm        dimen.Affine

	// OnPublish is called after a new layout has been published.
	OnPublish func(*TextBridge)
	// OnRepaint is called for style changes which do not affect layout.
	OnRepaint func(tb *TextBridge, element dom.NodeID, props style.PropertySet)
}

func newTextBridge(ctx *Context, e dom.NodeID) *TextBridge {
	return &TextBridge{
		ctx:   ctx,
		elem:  e,
		flow:  ctx.Doc.Kind(e) == dom.KindFlowRoot,
		state: newRun,
		ctm:   dimen.Identity,
	}
}

// Element returns the text or flowRoot element of tb.
func (tb *TextBridge) Element() dom.NodeID {
	return tb.elem
}

// invalidate marks state s as stale, without updating.
func (tb *TextBridge) invalidate(s state) {
	if s > tb.state {
		tb.state = s
	}
}

// OnContentChanged is called when text content or structure below the
// element changed. The attributed runs are rebuilt.
func (tb *TextBridge) OnContentChanged() {
	tb.invalidate(newRun)
	tb.update()
}

// OnAttributeChanged is called when attribute name of the element or of one
// of its descendants changed.
func (tb *TextBridge) OnAttributeChanged(name string) {
	switch {
	case name == "transform":
		tb.invalidate(newTransform)
	case runAttributes[name]:
		tb.invalidate(newRun)
	default:
		return
	}
	tb.update()
}

// onRegionChanged is called when a flow region of a flowRoot changed.
func (tb *TextBridge) onRegionChanged() {
	tb.invalidate(newLayout)
	tb.update()
}

// OnStyleChanged is called when the style properties props of element
// changed. Changes of layout properties rebuild the attributed runs once for
// all properties.
func (tb *TextBridge) OnStyleChanged(props style.PropertySet, element dom.NodeID) {
	if props.IsEmpty() {
		return
	}
	tracer().Debugf("style of element %d changed: %s", element, props)
	if props.Intersects(layoutProperties) {
		tb.invalidate(newRun)
		tb.update()
		return
	}
	if tb.OnRepaint != nil {
		tb.OnRepaint(tb, element, props)
	}
}

// usesPath is true if a textPath of the element references path element p.
func (tb *TextBridge) usesPath(p dom.NodeID) bool {
	for _, run := range tb.runs {
		for _, e := range run.Elements() {
			if e.Kind == dom.KindPathRef && textpath.Reference(tb.ctx.Doc, e.ID) == p {
				return true
			}
		}
	}
	return false
}

// elementStyles returns the styles element n had when the runs were built.
func (tb *TextBridge) elementStyles(n dom.NodeID) (*style.Styles, bool) {
	for _, run := range tb.runs {
		if e, ok := run.Element(n); ok {
			return e.Styles, true
		}
	}
	return nil, false
}

// styleElement is the element whose styles stand for the whole text: the
// text element, or the first paragraph of flow text.
func (tb *TextBridge) styleElement() dom.NodeID {
	if tb.flow && len(tb.paras) > 0 {
		return tb.paras[0].Element
	}
	return tb.elem
}

// update brings the derived state up to date. Results for elements which
// have been removed from the document are discarded.
func (tb *TextBridge) update() {
	if tb.state == upToDate {
		return
	}
	if tb.rebuilding {
		tracer().Debugf("text element %d: update during rebuild ignored", tb.elem)
		return
	}
	tb.rebuilding = true
	defer func() { tb.rebuilding = false }()
	//
	s := tb.state
	tracer().Debugf("text element %d: update %s", tb.elem, s)
	runs, paras, layouts, fl := tb.runs, tb.paras, tb.layouts, tb.flowLayout
	if s >= newRun {
		runs, paras = tb.build()
	}
	if s >= newLayout {
		layouts, fl = tb.layout(runs, paras)
	}
	ctm := tb.transform()
	if !tb.ctx.Doc.IsAttached(tb.elem) {
		tracer().Infof("text element %d has been removed, layout discarded", tb.elem)
		tb.runs, tb.paras, tb.layouts, tb.flowLayout, tb.indexes = nil, nil, nil, nil, nil
		return
	}
	tb.runs, tb.paras, tb.layouts, tb.flowLayout = runs, paras, layouts, fl
	tb.ctm = ctm
	if s >= newLayout {
		tb.indexes = make([]*charindex.Index, len(layouts))
		for i, tl := range layouts {
			tb.indexes[i] = charindex.New(tl)
		}
	}
	for _, x := range tb.indexes {
		x.SetTransform(ctm)
	}
	tb.state = upToDate
	if tb.OnPublish != nil {
		tb.OnPublish(tb)
	}
}

func (tb *TextBridge) build() ([]*attributed.Run, []*attributed.Paragraph) {
	b := tb.ctx.Builder()
	if !tb.flow {
		return []*attributed.Run{b.Build(tb.elem)}, nil
	}
	paras := b.BuildFlow(tb.elem)
	runs := make([]*attributed.Run, len(paras))
	for i, p := range paras {
		runs[i] = p.Run
	}
	return runs, paras
}

func (tb *TextBridge) layout(runs []*attributed.Run, paras []*attributed.Paragraph) (
	[]*glyphlayout.TextLayout, *flow.Layout) {
	//
	if !tb.flow {
		layouts := make([]*glyphlayout.TextLayout, len(runs))
		for i, run := range runs {
			layouts[i] = tb.ctx.Layouter.Layout(run, dimen.Point{})
		}
		return layouts, nil
	}
	regions := flow.Regions(tb.ctx.Doc, tb.elem, tb.ctx.Errors)
	fl := flow.New(tb.ctx.Layouter).Layout(paras, regions)
	layouts := make([]*glyphlayout.TextLayout, len(fl.Paragraphs))
	for i, p := range fl.Paragraphs {
		layouts[i] = p.Text
	}
	return layouts, fl
}

// transform reads the transform attribute of the element.
func (tb *TextBridge) transform() dimen.Affine {
	s, ok := tb.ctx.Doc.Attr(tb.elem, "transform")
	if !ok {
		return dimen.Identity
	}
	m, err := dimen.ParseTransform(s)
	if err != nil {
		core.Report(tb.ctx.Errors, core.WrapError(err, core.EMALFORMED,
			"transform of text element %d ignored", tb.elem))
		return dimen.Identity
	}
	return m
}

// --- Results ---------------------------------------------------------------

// Layouts returns the glyph layouts of the element: one for text elements,
// one per paragraph for flowRoot elements.
func (tb *TextBridge) Layouts() []*glyphlayout.TextLayout {
	tb.update()
	return tb.layouts
}

// Flow returns the flow layout of a flowRoot element, or nil.
func (tb *TextBridge) Flow() *flow.Layout {
	tb.update()
	return tb.flowLayout
}

// Transform returns the transform from the element's coordinate system to
// the coordinate system of query results.
func (tb *TextBridge) Transform() dimen.Affine {
	tb.update()
	return tb.ctm
}

// Bounds returns the bounding box of all visible glyph cells in the
// element's coordinate system.
func (tb *TextBridge) Bounds() dimen.Rect {
	r := dimen.NoRect
	for _, tl := range tb.Layouts() {
		r = r.Union(tl.Bounds())
	}
	return r
}
