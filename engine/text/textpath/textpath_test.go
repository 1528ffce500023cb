package textpath

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
)

func TestStraightPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.path")
	defer teardown()
	//
	p, err := Parse("M 10 10 H 110 v100")
	require.NoError(t, err)
	assert.Equal(t, dimen.Dimen(200), p.Length())
	pt, ok := p.PointAtLength(50)
	assert.True(t, ok)
	assert.Equal(t, dimen.Pt(60, 10), pt)
	pt, ok = p.PointAtLength(150)
	assert.True(t, ok)
	assert.Equal(t, dimen.Pt(110, 60), pt)
	assert.InDelta(t, 0, p.AngleAtLength(20), 1e-9)
	assert.InDelta(t, math.Pi/2, p.AngleAtLength(120), 1e-9)
	_, ok = p.PointAtLength(200.5)
	assert.False(t, ok, "off the end of the path")
	_, ok = p.PointAtLength(-1)
	assert.False(t, ok)
}

func TestSubpaths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.path")
	defer teardown()
	//
	p, err := Parse("M0,0 l10,0 M100,100 l0-10")
	require.NoError(t, err)
	assert.Equal(t, dimen.Dimen(20), p.Length(), "moves do not count")
	pt, ok := p.PointAtLength(15)
	assert.True(t, ok)
	assert.Equal(t, dimen.Pt(100, 95), pt)
}

func TestCurves(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.path")
	defer teardown()
	//
	// half circle of radius 50
	p, err := Parse("M0 0 A50 50 0 0 1 100 0")
	require.NoError(t, err)
	assert.InDelta(t, 50*math.Pi, float64(p.Length()), 0.5)
	mid, ok := p.PointAtLength(p.Length() / 2)
	assert.True(t, ok)
	assert.InDelta(t, 50, float64(mid.X), 0.5)
	assert.InDelta(t, -50, float64(mid.Y), 0.5)
	q, err := Parse("M0,0 Q50,0 100,0 T200,0")
	require.NoError(t, err)
	assert.InDelta(t, 200, float64(q.Length()), 1e-6)
	c, err := Parse("M0,0c0,0 100,0 100,0s100,0 100,0")
	require.NoError(t, err)
	assert.InDelta(t, 200, float64(c.Length()), 1e-6)
}

func TestMalformedPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.path")
	defer teardown()
	//
	p, err := Parse("M0,0 L10,0 L20")
	assert.Error(t, err)
	assert.Equal(t, core.EMALFORMED, core.Code(err))
	assert.Equal(t, dimen.Dimen(10), p.Length(), "path is rendered up to the error")
	_, err = Parse("L10,10")
	assert.Error(t, err)
}

func TestZeroLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.path")
	defer teardown()
	//
	p, err := Parse("M5,5")
	require.NoError(t, err)
	assert.Equal(t, dimen.Dimen(0), p.Length())
	_, ok := p.PointAtLength(0)
	assert.False(t, ok)
	assert.Equal(t, 0.0, p.AngleAtLength(0))
}

func TestProvider(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.path")
	defer teardown()
	//
	doc, err := dom.ParseString(`<svg><path id="p" d="M0,0 h100" transform="translate(0,50)"/>
	<text><textPath id="tp" xlink:href="#p" startOffset="25%">x</textPath>
	<textPath id="bad" href="#nope">y</textPath></text></svg>`)
	require.NoError(t, err)
	pv := NewProvider()
	tp := doc.ElementByID("tp")
	p, err := pv.Path(doc, tp)
	require.NoError(t, err)
	pt, ok := p.PointAtLength(0)
	assert.True(t, ok)
	assert.Equal(t, dimen.Pt(0, 50), pt)
	p2, _ := pv.Path(doc, tp)
	assert.Same(t, p, p2, "paths are cached")
	off, err := StartOffset(doc, tp, p, 16)
	assert.NoError(t, err)
	assert.Equal(t, dimen.Dimen(25), off)
	_, err = pv.Path(doc, doc.ElementByID("bad"))
	assert.Equal(t, core.EMISSING, core.Code(err))
}
