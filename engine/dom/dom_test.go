package dom

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<defs><path id="p1" d="M 0 0 L 100 0"/><text id="src">Referenced</text></defs>
<text id="t1" x="10" y="20">Hello <tspan id="s1" dx="1 2">big</tspan> <textPath xlink:href="#p1">curved</textPath><title>ignored</title></text>
</svg>`

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d, err := ParseString(sample)
	require.NoError(t, err)
	assert.Equal(t, KindSVG, d.Kind(d.Root()))
	text := d.ElementByID("t1")
	require.NotEqual(t, NoNode, text)
	assert.Equal(t, KindText, d.Kind(text))
	assert.Equal(t, "10", d.AttrString(text, "x"))
	var kinds []Kind
	for _, c := range d.Children(text) {
		kinds = append(kinds, d.Kind(c))
	}
	assert.Equal(t, []Kind{KindCharData, KindSpan, KindCharData, KindPathRef, KindTitle}, kinds)
	tp := d.Children(text)[3]
	assert.Equal(t, "p1", d.Href(tp))
	assert.Equal(t, KindPath, d.Kind(d.ElementByID(d.Href(tp))))
	assert.Equal(t, "Hello big curvedignored", d.TextContent(text))
}

func TestParseWithoutSVG(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	_, err := ParseString("<p>no graphics</p>")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	assert.Equal(t, KindPathRef, ClassifyElement("textpath"))
	assert.Equal(t, KindFlowRoot, ClassifyElement("flowRoot"))
	assert.Equal(t, KindSpan, ClassifyElement("svg:tspan"))
	assert.Equal(t, KindOther, ClassifyElement("circle"))
	assert.True(t, KindAnchor.IsTextContainer())
	assert.False(t, KindTitle.IsDisplayedText())
}

func TestBuildAndMutate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d := NewDocument()
	text := d.CreateElement("text", "id", "t", "x", "5")
	require.NoError(t, d.AppendChild(d.Root(), text))
	var seen []MutationType
	unsubscribe := d.Subscribe(func(doc *Document, m Mutation) {
		seen = append(seen, m.Type)
		if m.Type == NodeRemoved {
			assert.True(t, doc.IsAttached(m.Target), "removed node still attached during signal")
		}
	})
	chars := d.CreateText("abc")
	require.NoError(t, d.AppendChild(text, chars))
	d.SetText(chars, "xyz")
	d.SetAttribute(text, "y", "7")
	require.NoError(t, d.RemoveChild(text, chars))
	assert.False(t, d.IsAttached(chars))
	assert.Equal(t, []MutationType{
		NodeInserted, SubtreeModified,
		CharDataModified, SubtreeModified,
		AttrModified,
		NodeRemoved, SubtreeModified,
	}, seen)
	unsubscribe()
	d.SetAttribute(text, "y", "8")
	assert.Len(t, seen, 7)
	assert.Equal(t, "8", d.AttrString(text, "y"))
}

func TestInsertErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d := NewDocument()
	g := d.CreateElement("g")
	inner := d.CreateElement("g")
	require.NoError(t, d.AppendChild(d.Root(), g))
	require.NoError(t, d.AppendChild(g, inner))
	assert.Error(t, d.AppendChild(inner, g), "cycle")
	assert.Error(t, d.AppendChild(d.Root(), inner), "already attached")
	chars := d.CreateText("x")
	assert.Error(t, d.AppendChild(chars, d.CreateText("y")), "text cannot have children")
	a, b := d.CreateElement("tspan"), d.CreateElement("tspan")
	require.NoError(t, d.AppendChild(inner, a))
	require.NoError(t, d.InsertBefore(inner, b, a))
	assert.Equal(t, []NodeID{b, a}, d.Children(inner))
}

func TestAncestry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d, err := ParseString(sample)
	require.NoError(t, err)
	text := d.ElementByID("t1")
	span := d.ElementByID("s1")
	assert.True(t, d.IsAncestor(text, span))
	assert.False(t, d.IsAncestor(span, text))
	assert.True(t, d.Contains(span, span))
	assert.Equal(t, text, d.NearestAncestor(d.FirstChild(span), func(k Kind) bool { return k == KindText }))
}

func TestXPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d, err := ParseString(sample)
	require.NoError(t, err)
	spans, err := d.Find("//tspan")
	require.NoError(t, err)
	assert.Equal(t, []NodeID{d.ElementByID("s1")}, spans)
	withDx, err := d.Find("//*[@dx]")
	require.NoError(t, err)
	assert.Len(t, withDx, 1)
	_, err = d.Find("//[")
	assert.Error(t, err)
	assert.Equal(t, NoNode, d.ElementByID("nope"))
}

func TestSelectors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d, err := ParseString(sample)
	require.NoError(t, err)
	texts, err := d.QuerySelectorAll("text")
	require.NoError(t, err)
	assert.Len(t, texts, 2)
	s, err := d.QuerySelector("#t1 > tspan")
	require.NoError(t, err)
	assert.Equal(t, d.ElementByID("s1"), s)
	assert.True(t, d.Matches(s, "[dx]"))
	_, err = d.QuerySelector("[")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.dom")
	defer teardown()
	//
	d := NewDocument()
	text := d.CreateElement("text", "x", "1")
	_ = d.AppendChild(d.Root(), text)
	_ = d.AppendChild(text, d.CreateText("a<b"))
	var b strings.Builder
	require.NoError(t, d.Render(&b, text))
	assert.Equal(t, `<text x="1">a&lt;b</text>`, b.String())
}
