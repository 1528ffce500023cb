package attributed

import (
	"strings"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/parameters"
	"github.com/npillmayer/svgtext/engine/dom"
)

// Justification is the horizontal alignment of the lines of a paragraph.
type Justification uint8

// Paragraph justifications.
const (
	JustifyStart Justification = iota
	JustifyMiddle
	JustifyEnd
	JustifyFull
)

func (j Justification) String() string {
	switch j {
	case JustifyMiddle:
		return "middle"
	case JustifyEnd:
		return "end"
	case JustifyFull:
		return "full"
	}
	return "start"
}

// Margins are the paragraph attributes of flow text.
type Margins struct {
	Top, Right, Bottom, Left dimen.Dimen
	Indent                   dimen.Dimen // first line only, on the start side
	Justification            Justification
	RegionBreak              bool // continue with the next region after the paragraph
}

// Paragraph is one paragraph of flow text.
type Paragraph struct {
	Element dom.NodeID
	Run     *Run // may be empty
	Margins Margins
}

// BuildFlow creates the paragraphs of a flowRoot element. Every flowPara and
// flowRegionBreak results in a paragraph, including empty ones; flowDiv
// elements are flattened.
func (b *Builder) BuildFlow(root dom.NodeID) []*Paragraph {
	b.viewport = b.viewportSize()
	var paras []*Paragraph
	if !b.include(root) {
		return paras
	}
	var collect func(n dom.NodeID)
	collect = func(n dom.NodeID) {
		for _, c := range b.doc.Children(n) {
			switch b.doc.Kind(c) {
			case dom.KindFlowDiv:
				if b.include(c) {
					b.regs.Begingroup()
					b.pushSpace(c)
					collect(c)
					b.regs.Endgroup()
				}
			case dom.KindFlowPara, dom.KindFlowRegionBreak:
				if b.include(c) {
					paras = append(paras, b.paragraph(c))
				}
			}
		}
	}
	b.regs.Begingroup()
	defer b.regs.Endgroup()
	b.pushSpace(root)
	collect(root)
	tracer().Debugf("flow root %d has %d paragraphs", root, len(paras))
	return paras
}

func (b *Builder) paragraph(n dom.NodeID) *Paragraph {
	run := newRun(n)
	st := &buildState{run: run, container: func(k dom.Kind) bool {
		return k == dom.KindFlowSpan || k == dom.KindFlowLine || k == dom.KindAnchor
	}}
	b.addElement(run, n)
	b.fill(st, n, true, dom.NoNode, b.baseLevel(n))
	b.finish(run)
	run.seal()
	return &Paragraph{
		Element: n,
		Run:     run,
		Margins: b.margins(n),
	}
}

func (b *Builder) pushSpace(n dom.NodeID) {
	if v, ok := b.doc.Attr(n, "xml:space"); ok {
		b.regs.Push(parameters.P_PRESERVESPACE, strings.TrimSpace(v) == "preserve")
	}
}

// margins reads the paragraph attributes of element n. Attribute margin
// takes one to four lengths in CSS order, single sides override it.
func (b *Builder) margins(n dom.NodeID) Margins {
	var m Margins
	m.RegionBreak = b.doc.Kind(n) == dom.KindFlowRegionBreak
	ctx := dimen.Context{FontSize: b.styles.Styles(b.doc, n).FontSize, Base: b.viewport.X}
	if v, ok := b.doc.Attr(n, "margin"); ok {
		list, err := dimen.ParseLengthList(v, ctx)
		switch {
		case err != nil || len(list) == 0 || len(list) > 4:
			b.malformed(n, "margin", v, err)
		case len(list) == 1:
			m.Top, m.Right, m.Bottom, m.Left = list[0], list[0], list[0], list[0]
		case len(list) == 2:
			m.Top, m.Right, m.Bottom, m.Left = list[0], list[1], list[0], list[1]
		case len(list) == 3:
			m.Top, m.Right, m.Bottom, m.Left = list[0], list[1], list[2], list[1]
		default:
			m.Top, m.Right, m.Bottom, m.Left = list[0], list[1], list[2], list[3]
		}
	}
	for _, side := range []struct {
		name string
		d    *dimen.Dimen
	}{
		{"margin-top", &m.Top}, {"margin-right", &m.Right},
		{"margin-bottom", &m.Bottom}, {"margin-left", &m.Left},
		{"indent", &m.Indent},
	} {
		if v, ok := b.doc.Attr(n, side.name); ok {
			if d, err := dimen.ParseLength(v, ctx); err != nil {
				b.malformed(n, side.name, v, err)
			} else {
				*side.d = d
			}
		}
	}
	if v, ok := b.doc.Attr(n, "justification"); ok {
		switch strings.TrimSpace(v) {
		case "start", "left":
			m.Justification = JustifyStart
		case "middle", "center":
			m.Justification = JustifyMiddle
		case "end", "right":
			m.Justification = JustifyEnd
		case "full", "justify":
			m.Justification = JustifyFull
		default:
			core.Report(b.reporter, core.Error(core.EINVALID,
				"justification %q of <%s> ignored", v, b.doc.Tag(n)))
		}
	}
	return m
}
