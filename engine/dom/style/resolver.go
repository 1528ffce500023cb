package style

import (
	"reflect"
	"strings"
	"sync"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/parameters"
	"github.com/npillmayer/svgtext/engine/dom"
)

// Resolver computes the styles of document nodes.
type Resolver interface {
	Styles(doc *dom.Document, n dom.NodeID) *Styles
}

// DefaultResolver resolves styles from presentation attributes, embedded
// style sheets and inline style attributes. Results are cached until
// Reset is called. A DefaultResolver is safe for concurrent use.
type DefaultResolver struct {
	sync.Mutex
	regs     *parameters.LayoutRegisters
	reporter core.ErrorReporter
	doc      *dom.Document // document the caches are valid for
	cache    map[dom.NodeID]*Styles
	rules    []sheetRule
	sheetsOK bool
}

// sheetRule is a single selector with its declarations, from a style element.
type sheetRule struct {
	selector string
	decls    []*css.Declaration
}

// NewResolver creates a resolver with defaults taken from regs. Malformed
// property values are sent to reporter, which may be nil.
func NewResolver(regs *parameters.LayoutRegisters, reporter core.ErrorReporter) *DefaultResolver {
	if regs == nil {
		regs = parameters.NewLayoutRegisters()
	}
	return &DefaultResolver{
		regs:     regs,
		reporter: reporter,
		cache:    make(map[dom.NodeID]*Styles),
	}
}

// Reset drops all cached styles and style sheets.
func (r *DefaultResolver) Reset() {
	r.Lock()
	defer r.Unlock()
	r.cache = make(map[dom.NodeID]*Styles)
	r.rules = nil
	r.sheetsOK = false
}

// Styles returns the styles of node n. For character data these are the
// styles of the parent element. The result must not be modified.
func (r *DefaultResolver) Styles(doc *dom.Document, n dom.NodeID) *Styles {
	r.Lock()
	defer r.Unlock()
	if doc != r.doc {
		r.doc = doc
		r.cache = make(map[dom.NodeID]*Styles)
		r.rules = nil
		r.sheetsOK = false
	}
	return r.resolve(doc, n)
}

func (r *DefaultResolver) resolve(doc *dom.Document, n dom.NodeID) *Styles {
	if n == dom.NoNode {
		return Initial(r.regs)
	}
	if doc.Kind(n).IsCharData() {
		return r.resolve(doc, doc.Parent(n))
	}
	if s, ok := r.cache[n]; ok {
		return s
	}
	parent := r.resolve(doc, doc.Parent(n))
	s := parent.Inherit()
	r.cascade(doc, n, s, parent)
	r.cache[n] = s
	return s
}

// cascade applies the declarations for element n, lowest precedence first.
func (r *DefaultResolver) cascade(doc *dom.Document, n dom.NodeID, s, parent *Styles) {
	if sp, ok := doc.Attr(n, "xml:space"); ok {
		s.PreserveSpace = strings.TrimSpace(sp) == "preserve"
	}
	if lang, ok := doc.Attr(n, "xml:lang"); ok && lang != "" {
		s.Language = lang
	}
	var decls, important []decl
	for p := Property(0); p < numProperties; p++ {
		if v, ok := doc.Attr(n, p.String()); ok {
			decls = append(decls, decl{p, v})
		}
	}
	for _, rule := range r.sheetRules(doc) {
		if !doc.Matches(n, rule.selector) {
			continue
		}
		decls, important = appendDecls(decls, important, rule.decls)
	}
	if inline, ok := doc.Attr(n, "style"); ok && strings.TrimSpace(inline) != "" {
		dd, err := parser.ParseDeclarations(terminated(inline))
		if err != nil {
			core.Report(r.reporter, core.WrapError(err, core.EMALFORMED,
				"cannot parse style attribute of <%s>", doc.Tag(n)))
		} else {
			decls, important = appendDecls(decls, important, dd)
		}
	}
	decls = append(decls, important...)
	var decoration string
	hasDecoration := false
	for _, d := range decls {
		if d.prop == TextDecoration {
			decoration, hasDecoration = d.value, true
			continue
		}
		if err := s.set(d.prop, d.value, parent); err != nil {
			tracer().Debugf("<%s>: %v", doc.Tag(n), err)
			core.Report(r.reporter, err)
		}
	}
	if hasDecoration {
		if strings.EqualFold(strings.TrimSpace(decoration), "inherit") {
			s.Decoration = parent.Decoration
		} else if err := s.decorate(decoration); err != nil {
			core.Report(r.reporter, err)
		}
	}
}

// terminated appends a semicolon to the last declaration of an inline style,
// which the CSS parser would drop otherwise.
func terminated(inline string) string {
	inline = strings.TrimSpace(inline)
	if strings.HasSuffix(inline, ";") {
		return inline
	}
	return inline + ";"
}

func appendDecls(decls, important []decl, cssdecls []*css.Declaration) ([]decl, []decl) {
	for _, d := range cssdecls {
		p, ok := PropertyByName(d.Property)
		if !ok {
			continue
		}
		if d.Important {
			important = append(important, decl{p, d.Value})
		} else {
			decls = append(decls, decl{p, d.Value})
		}
	}
	return decls, important
}

// sheetRules collects the rules of all style elements of doc, in document
// order. Nested at-rules (e.g. @media) are not considered.
func (r *DefaultResolver) sheetRules(doc *dom.Document) []sheetRule {
	if r.sheetsOK {
		return r.rules
	}
	r.sheetsOK = true
	styleElems, err := doc.Find("//style")
	if err != nil {
		return nil
	}
	for _, el := range styleElems {
		sheet, err := parser.Parse(doc.TextContent(el))
		if err != nil {
			core.Report(r.reporter, core.WrapError(err, core.EMALFORMED, "cannot parse style sheet"))
			continue
		}
		for _, rule := range sheet.Rules {
			if rule.Kind != css.QualifiedRule {
				continue
			}
			for _, sel := range rule.Selectors {
				r.rules = append(r.rules, sheetRule{selector: sel, decls: rule.Declarations})
			}
		}
	}
	tracer().Debugf("found %d style sheet rules", len(r.rules))
	return r.rules
}

// Diff returns the set of properties which differ between a and b.
func Diff(a, b *Styles) PropertySet {
	var set PropertySet
	if a == nil || b == nil {
		if a != b {
			return PropertySet(1<<numProperties - 1)
		}
		return set
	}
	check := func(p Property, same bool) {
		if !same {
			set = set.Add(p)
		}
	}
	check(FontFamily, reflect.DeepEqual(a.FontFamily, b.FontFamily))
	check(FontSize, a.FontSize == b.FontSize)
	check(FontStyle, a.FontStyle == b.FontStyle)
	check(FontWeight, a.FontWeight == b.FontWeight)
	check(FontStretch, a.FontStretch == b.FontStretch)
	check(TextAnchor, a.TextAnchor == b.TextAnchor)
	check(BaselineShift, a.BaselineShift == b.BaselineShift)
	check(UnicodeBidi, a.UnicodeBidi == b.UnicodeBidi)
	check(Direction, a.Direction == b.Direction)
	check(WritingMode, a.WritingMode == b.WritingMode)
	check(GlyphOrientationVertical, a.OrientationVertical == b.OrientationVertical)
	check(GlyphOrientationHorizontal, a.OrientationHorizontal == b.OrientationHorizontal)
	check(LetterSpacing, a.LetterSpacing == b.LetterSpacing)
	check(WordSpacing, a.WordSpacing == b.WordSpacing)
	check(Kerning, a.Kerning == b.Kerning)
	check(LineHeight, a.LineHeight == b.LineHeight)
	check(TextDecoration, a.Decoration == b.Decoration)
	check(Fill, a.Fill == b.Fill)
	check(FillOpacity, a.FillOpacity == b.FillOpacity)
	check(Stroke, a.Stroke == b.Stroke)
	check(StrokeOpacity, a.StrokeOpacity == b.StrokeOpacity)
	check(StrokeWidth, a.StrokeWidth == b.StrokeWidth)
	check(StrokeLinecap, a.StrokeLinecap == b.StrokeLinecap)
	check(StrokeLinejoin, a.StrokeLinejoin == b.StrokeLinejoin)
	check(StrokeMiterlimit, a.StrokeMiterlimit == b.StrokeMiterlimit)
	check(StrokeDasharray, reflect.DeepEqual(a.StrokeDasharray, b.StrokeDasharray))
	check(StrokeDashoffset, a.StrokeDashoffset == b.StrokeDashoffset)
	check(Opacity, a.Opacity == b.Opacity)
	check(Visibility, a.Visible == b.Visible)
	check(Display, a.Display == b.Display)
	check(TextRendering, a.TextRendering == b.TextRendering)
	check(ColorRendering, a.ColorRendering == b.ColorRendering)
	return set
}
