package bridge

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
	"github.com/npillmayer/svgtext/core/parameters"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/glyphing/monospace"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
)

type goFonts struct{}

func (goFonts) ResolveFont(families []string, st xfont.Style, w xfont.Weight, size dimen.Dimen) (*font.TypeCase, error) {
	return font.FallbackFont().PrepareCase(size)
}

// setup attaches a bridge to element "t"; glyphs have an advance of 10.
func setup(t *testing.T, markup string) (*Controller, *TextBridge, *dom.Document, *int) {
	d, err := dom.ParseString(markup)
	require.NoError(t, err)
	ctx := NewContext(d, parameters.NewLayoutRegisters())
	ctx.Layouter = glyphlayout.NewLayouter(goFonts{}, monospace.Shaper(10, nil), ctx.Errors)
	c := NewController(ctx)
	t.Cleanup(c.Close)
	tb, err := c.Attach(d.ElementByID("t"))
	require.NoError(t, err)
	published := 0
	tb.OnPublish = func(*TextBridge) { published++ }
	return c, tb, d, &published
}

func TestNewShaper(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	assert.Equal(t, []string{"gotext", "harfbuzz", "monospace", "simple"}, ShaperNames())
	for _, name := range ShaperNames() {
		sh, err := NewShaper(name, nil)
		assert.NoError(t, err)
		assert.NotNil(t, sh, name)
	}
	sh, err := NewShaper("troff", nil)
	assert.Error(t, err)
	assert.NotNil(t, sh, "falls back to a default shaper")
}

func TestAttach(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	c, tb, d, _ := setup(t, `<svg><text id="t" x="10" y="20">ab<tspan id="s">cd</tspan></text>
<text id="u">x</text></svg>`)
	_, err := c.Attach(d.ElementByID("s"))
	assert.Error(t, err, "tspan elements have no bridge of their own")
	again, _ := c.Attach(d.ElementByID("t"))
	assert.Same(t, tb, again)
	assert.Len(t, c.AttachAll(), 2)
	assert.Equal(t, 2, c.Len())
	c.Detach(d.ElementByID("u"))
	assert.Equal(t, 1, c.Len())
}

func TestQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, _ := setup(t, `<svg><text id="t" x="10" y="20">ab<tspan id="s">cd</tspan></text></svg>`)
	e, s := d.ElementByID("t"), d.ElementByID("s")
	assert.Equal(t, 4, tb.NumberOfChars(e))
	assert.Equal(t, 2, tb.NumberOfChars(s))
	assert.Equal(t, dimen.Dimen(40), tb.ComputedTextLength(e))
	p, ok := tb.StartPositionOfChar(s, 0)
	require.True(t, ok)
	assert.Equal(t, dimen.Pt(30, 20), p)
	p, _ = tb.EndPositionOfChar(s, 1)
	assert.Equal(t, dimen.Pt(50, 20), p)
	l, ok := tb.SubStringLength(e, 1, 2)
	assert.True(t, ok)
	assert.Equal(t, dimen.Dimen(20), l)
	_, ok = tb.ExtentOfChar(e, 4)
	assert.False(t, ok)
	rot, ok := tb.RotationOfChar(e, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, rot)
	assert.Equal(t, 3, tb.CharNumAtPosition(e, dimen.Pt(45, 15)))
	assert.Equal(t, -1, tb.CharNumAtPosition(e, dimen.Pt(45, 500)))
	quads, ok := tb.SelectSubString(e, 0, 2)
	assert.True(t, ok)
	assert.Len(t, quads, 2)
	assert.False(t, tb.Bounds().IsEmpty())
}

func TestContentChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, published := setup(t, `<svg><text id="t">ab</text></svg>`)
	e := d.ElementByID("t")
	assert.Equal(t, 2, tb.NumberOfChars(e))
	assert.Equal(t, 1, *published)
	d.SetText(d.FirstChild(e), "abc")
	assert.Equal(t, 2, *published, "rebuilt on subtree modification")
	assert.Equal(t, 3, tb.NumberOfChars(e))
}

func TestNonDisplayedChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, published := setup(t, `<svg><text id="t">ab</text></svg>`)
	e := d.ElementByID("t")
	tb.Layouts()
	title := d.CreateElement("title")
	require.NoError(t, d.AppendChild(e, title))
	require.NoError(t, d.AppendChild(title, d.CreateText("caption")))
	assert.Equal(t, 1, *published, "title does not change the layout")
	span := d.CreateElement("tspan")
	require.NoError(t, d.AppendChild(span, d.CreateText("cd")))
	require.NoError(t, d.AppendChild(e, span))
	assert.Equal(t, 2, *published)
	assert.Equal(t, 4, tb.NumberOfChars(e))
	require.NoError(t, d.RemoveChild(e, title))
	assert.Equal(t, 2, *published)
}

func TestTransformChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, _ := setup(t, `<svg><text id="t" y="20">ab</text></svg>`)
	e := d.ElementByID("t")
	before := tb.Layouts()[0]
	d.SetAttribute(e, "transform", "translate(5,0)")
	assert.Same(t, before, tb.Layouts()[0], "glyphs are not positioned again")
	p, _ := tb.StartPositionOfChar(e, 1)
	assert.Equal(t, dimen.Pt(15, 20), p)
	//
	d.SetAttribute(e, "x", "100")
	assert.NotSame(t, before, tb.Layouts()[0])
	p, _ = tb.StartPositionOfChar(e, 0)
	assert.Equal(t, dimen.Pt(105, 20), p)
}

func TestStyleChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, _ := setup(t, `<svg><g id="g"><text id="t">ab<tspan id="s">cd</tspan></text></g></svg>`)
	s := d.ElementByID("s")
	var repainted style.PropertySet
	tb.OnRepaint = func(_ *TextBridge, _ dom.NodeID, props style.PropertySet) {
		repainted = props
	}
	before := tb.Layouts()[0]
	d.SetAttribute(s, "fill", "red")
	assert.True(t, repainted.Contains(style.Fill))
	assert.Same(t, before, tb.Layouts()[0], "paint changes keep the layout")
	//
	d.SetAttribute(s, "font-size", "30")
	assert.NotSame(t, before, tb.Layouts()[0])
	before = tb.Layouts()[0]
	d.SetAttribute(d.ElementByID("g"), "letter-spacing", "2")
	assert.NotSame(t, before, tb.Layouts()[0], "inherited from an ancestor")
}

func TestRemovedElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, published := setup(t, `<svg id="root"><text id="t">ab</text></svg>`)
	e := d.ElementByID("t")
	assert.Equal(t, 2, tb.NumberOfChars(e))
	require.NoError(t, d.RemoveChild(d.Parent(e), e))
	assert.Equal(t, 0, tb.NumberOfChars(e), "layout of removed element is discarded")
	assert.Nil(t, tb.Layouts())
	assert.Equal(t, 1, *published)
}

// mutatingResolver changes the document while styles are resolved.
type mutatingResolver struct {
	StyleResolver
	doc  *dom.Document
	elem dom.NodeID
	done bool
}

func (r *mutatingResolver) Styles(doc *dom.Document, n dom.NodeID) *style.Styles {
	if !r.done {
		r.done = true
		r.doc.SetAttribute(r.elem, "dx", "3")
	}
	return r.StyleResolver.Styles(doc, n)
}

func TestReentrantUpdate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	c, tb, d, published := setup(t, `<svg><text id="t">ab</text></svg>`)
	e := d.ElementByID("t")
	c.Context().Styles = &mutatingResolver{StyleResolver: c.Context().Styles, doc: d, elem: e}
	assert.Equal(t, 2, tb.NumberOfChars(e))
	assert.Equal(t, 1, *published, "mutation during rebuild does not rebuild again")
}

func TestFlowRegionChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, _ := setup(t, `<svg><flowRoot id="t"><flowRegion><rect id="r" width="50" height="100"/></flowRegion>
<flowPara id="p1">aaa bbb</flowPara><flowPara id="p2">cc</flowPara></flowRoot></svg>`)
	e := d.ElementByID("t")
	assert.Equal(t, 9, tb.NumberOfChars(e))
	assert.Equal(t, 2, tb.NumberOfChars(d.ElementByID("p2")))
	p, ok := tb.StartPositionOfChar(e, 7)
	require.True(t, ok, "first character of the second paragraph")
	assert.Equal(t, dimen.Dimen(0), p.X)
	fl := tb.Flow()
	require.NotNil(t, fl)
	require.Len(t, fl.Paragraphs[0].Lines, 2)
	run := fl.Paragraphs[0].Source.Run
	//
	d.SetAttribute(d.ElementByID("r"), "width", "200")
	fl = tb.Flow()
	assert.Len(t, fl.Paragraphs[0].Lines, 1)
	assert.Same(t, run, fl.Paragraphs[0].Source.Run, "attributed runs are kept")
}

func TestTextPathChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.bridge")
	defer teardown()
	//
	_, tb, d, _ := setup(t, `<svg><path id="p" d="M0,0 H100"/>
<text id="t"><textPath xlink:href="#p">abc</textPath></text></svg>`)
	e := d.ElementByID("t")
	p, ok := tb.StartPositionOfChar(e, 0)
	require.True(t, ok)
	assert.InDelta(t, 0, float64(p.Y), 1e-9)
	d.SetAttribute(d.ElementByID("p"), "d", "M0,50 H100")
	p, _ = tb.StartPositionOfChar(e, 0)
	assert.InDelta(t, 50, float64(p.Y), 1e-9)
}
