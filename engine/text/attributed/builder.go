package attributed

import (
	"strings"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/parameters"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/text/textpath"
)

// Builder creates runs from the text elements of a document.
// A Builder is not safe for concurrent use.
type Builder struct {
	doc      *dom.Document
	styles   style.Resolver
	paths    *textpath.Provider
	regs     *parameters.LayoutRegisters
	reporter core.ErrorReporter
	viewport dimen.Point // reference size for percentages
}

// NewBuilder creates a builder for document doc. styles, paths, regs and
// reporter may be nil, in which case defaults are used. Malformed attribute
// values are sent to reporter.
func NewBuilder(doc *dom.Document, styles style.Resolver, paths *textpath.Provider,
	regs *parameters.LayoutRegisters, reporter core.ErrorReporter) *Builder {
	//
	if regs == nil {
		regs = parameters.NewLayoutRegisters()
	}
	if styles == nil {
		styles = style.NewResolver(regs, reporter)
	}
	if paths == nil {
		paths = textpath.NewProvider()
	}
	return &Builder{
		doc:      doc,
		styles:   styles,
		paths:    paths,
		regs:     regs,
		reporter: reporter,
	}
}

// Document returns the document b builds runs for.
func (b *Builder) Document() *dom.Document {
	return b.doc
}

// Styles returns the style resolver of b.
func (b *Builder) Styles() style.Resolver {
	return b.styles
}

// Paths returns the path provider of b.
func (b *Builder) Paths() *textpath.Provider {
	return b.paths
}

// buildState is the state of a single build.
type buildState struct {
	run       *Run
	container func(dom.Kind) bool
}

func (st *buildState) lastChar() rune {
	if n := len(st.run.Text); n > 0 {
		return st.run.Text[n-1]
	}
	return -1
}

func (st *buildState) stripLast() {
	if n := len(st.run.Text); n > 0 && st.run.Text[n-1] == ' ' {
		st.run.Text = st.run.Text[:n-1]
		st.run.Attrs = st.run.Attrs[:n-1]
	}
}

func isTextContainer(k dom.Kind) bool {
	return k.IsTextContainer()
}

// Build creates the run for a text element. Build never fails: elements with
// unmet conditions, unresolvable references and malformed attribute values
// are skipped, the latter reported as errors.
func (b *Builder) Build(root dom.NodeID) *Run {
	run := newRun(root)
	b.viewport = b.viewportSize()
	st := &buildState{run: run, container: isTextContainer}
	if b.include(root) {
		b.addElement(run, root)
		b.fill(st, root, true, dom.NoNode, b.baseLevel(root))
		b.finish(run)
		b.positions(run, root)
	}
	run.seal()
	tracer().Debugf("built run of %d chars for %s element %d: %q", run.Len(), b.doc.Kind(root), root, run)
	return run
}

// include is true if an element takes part in layout.
func (b *Builder) include(n dom.NodeID) bool {
	if !matchUserAgent(b.doc, n, b.regs.S(parameters.P_LANGUAGE)) {
		tracer().Debugf("element %d excluded by conditional processing", n)
		return false
	}
	return b.styles.Styles(b.doc, n).Display
}

func (b *Builder) addElement(run *Run, n dom.NodeID) *Element {
	elem := &Element{
		ID:     n,
		Kind:   b.doc.Kind(n),
		Styles: b.styles.Styles(b.doc, n),
		First:  -1,
		Last:   -1,
	}
	if v, ok := b.doc.Attr(n, "textLength"); ok {
		ctx := dimen.Context{FontSize: elem.Styles.FontSize, Base: b.viewport.X}
		if d, err := dimen.ParseLength(v, ctx); err != nil || d < 0 {
			b.malformed(n, "textLength", v, err)
		} else {
			elem.TextLength = set(float64(d))
		}
	}
	elem.SpacingAndGlyphs = strings.TrimSpace(b.doc.AttrString(n, "lengthAdjust")) == "spacingAndGlyphs"
	run.elements[n] = elem
	run.order = append(run.order, n)
	return elem
}

// fill appends the character content of element n to the run. top is true
// for the outermost element of a run.
func (b *Builder) fill(st *buildState, n dom.NodeID, top bool, path dom.NodeID, level int8) {
	b.regs.Begingroup()
	defer b.regs.Endgroup()
	b.pushSpace(n)
	preserve := b.regs.B(parameters.P_PRESERVESPACE)
	children := b.doc.Children(n)
	for i, c := range children {
		first, last := i == 0, i == len(children)-1
		lastChar := st.lastChar()
		stripFirst := !preserve && first && (top || lastChar == ' ' || lastChar == -1)
		kind := b.doc.Kind(c)
		if kind.IsCharData() {
			b.appendText(st, b.doc.Text(c), n, path, level, preserve, stripFirst, last && top)
			continue
		}
		if !st.container(kind) || !b.include(c) {
			continue
		}
		elem := b.addElement(st.run, c)
		lvl := b.level(c, level)
		switch kind {
		case dom.KindRef:
			ref := b.doc.ElementByID(b.doc.Href(c))
			if ref == dom.NoNode {
				tracer().Debugf("tref %d: unresolved reference %q", c, b.doc.Href(c))
				continue
			}
			b.appendText(st, b.doc.TextContent(ref), c, path, lvl, preserve, stripFirst, last && top)
		case dom.KindPathRef:
			p, err := b.paths.Path(b.doc, c)
			if err != nil {
				core.Report(b.reporter, err)
			}
			if p == nil {
				continue
			}
			elem.Path = p
			if elem.StartOffset, err = textpath.StartOffset(b.doc, c, p, elem.Styles.FontSize); err != nil {
				core.Report(b.reporter, err)
			}
			b.fill(st, c, false, c, lvl)
		case dom.KindFlowLine:
			b.fill(st, c, false, path, lvl)
			if n := len(st.run.Attrs); n > 0 {
				st.run.Attrs[n-1].LineBreaks++
			}
		default:
			b.fill(st, c, false, path, lvl)
		}
	}
}

func (b *Builder) appendText(st *buildState, s string, delim, path dom.NodeID, level int8,
	preserve, stripFirst, stripLast bool) {
	//
	s, ok := normalize(s, preserve, stripFirst, stripLast)
	if !ok {
		return
	}
	if !preserve && s[0] == ' ' {
		st.stripLast()
	}
	attrs := CharAttrs{Delimiter: delim, PathRef: path, Level: level}
	for _, c := range s {
		st.run.Text = append(st.run.Text, c)
		st.run.Attrs = append(st.run.Attrs, attrs)
	}
}

// finish computes the character ranges of all elements.
func (b *Builder) finish(run *Run) {
	for i, a := range run.Attrs {
		for e := a.Delimiter; e != dom.NoNode; e = b.doc.Parent(e) {
			if elem, ok := run.elements[e]; ok {
				if elem.First < 0 {
					elem.First = i
				}
				elem.Last = i
			}
			if e == run.Root {
				break
			}
		}
	}
}

// --- Bidi levels ---------------------------------------------------------

func (b *Builder) baseLevel(root dom.NodeID) int8 {
	if b.styles.Styles(b.doc, root).RightToLeft() {
		return 1
	}
	return 0
}

// level returns the embedding level for element n. Embeddings and
// overrides open the next level of the element's direction.
func (b *Builder) level(n dom.NodeID, parent int8) int8 {
	s := b.styles.Styles(b.doc, n)
	if s.UnicodeBidi == style.BidiNormal {
		return parent
	}
	odd := parent%2 == 1
	if s.RightToLeft() {
		if odd {
			return parent + 2
		}
		return parent + 1
	}
	if odd {
		return parent + 1
	}
	return parent + 2
}

// --- Glyph positions -----------------------------------------------------

func (b *Builder) viewportSize() dimen.Point {
	root := b.doc.Root()
	var vp dimen.Point
	if w, err := dimen.ParseLength(b.doc.AttrString(root, "width"), dimen.Context{}); err == nil {
		vp.X = w
	}
	if h, err := dimen.ParseLength(b.doc.AttrString(root, "height"), dimen.Context{}); err == nil {
		vp.Y = h
	}
	return vp
}

// positions assigns the x, y, dx, dy and rotate lists of element n to the
// characters it covers, then lets its children override them.
func (b *Builder) positions(run *Run, n dom.NodeID) {
	elem, ok := run.elements[n]
	if !ok || !elem.HasChars() {
		return
	}
	if elem.Kind != dom.KindPathRef {
		hctx := dimen.Context{FontSize: elem.Styles.FontSize, Base: b.viewport.X}
		vctx := dimen.Context{FontSize: elem.Styles.FontSize, Base: b.viewport.Y}
		b.lengths(run, elem, "x", hctx, func(a *CharAttrs, v float64) { a.X = set(v) })
		b.lengths(run, elem, "y", vctx, func(a *CharAttrs, v float64) { a.Y = set(v) })
		b.lengths(run, elem, "dx", hctx, func(a *CharAttrs, v float64) { a.DX = set(v) })
		b.lengths(run, elem, "dy", vctx, func(a *CharAttrs, v float64) { a.DY = set(v) })
		b.rotation(run, elem)
	}
	for _, c := range b.doc.Children(n) {
		if b.doc.Kind(c).IsTextContainer() {
			b.positions(run, c)
		}
	}
}

func (b *Builder) lengths(run *Run, elem *Element, name string, ctx dimen.Context,
	assign func(*CharAttrs, float64)) {
	//
	v, ok := b.doc.Attr(elem.ID, name)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	list, err := dimen.ParseLengthList(v, ctx)
	if err != nil {
		b.malformed(elem.ID, name, v, err)
		return
	}
	for i, d := range list {
		if elem.First+i > elem.Last {
			break
		}
		assign(&run.Attrs[elem.First+i], float64(d))
	}
}

// rotation assigns rotate values. If there are fewer values than characters,
// the last value applies to all remaining characters.
func (b *Builder) rotation(run *Run, elem *Element) {
	v, ok := b.doc.Attr(elem.ID, "rotate")
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	list, err := dimen.ParseNumberList(v)
	if err != nil || len(list) == 0 {
		b.malformed(elem.ID, "rotate", v, err)
		return
	}
	for i := elem.First; i <= elem.Last; i++ {
		k := i - elem.First
		if k >= len(list) {
			k = len(list) - 1
		}
		run.Attrs[i].Rotate = set(list[k])
	}
}

func (b *Builder) malformed(n dom.NodeID, attr, value string, err error) {
	if err == nil {
		err = dimen.ErrFormat
	}
	core.Report(b.reporter, core.WrapError(err, core.EMALFORMED,
		"attribute %s=%q of <%s> ignored", attr, value, b.doc.Tag(n)))
}
