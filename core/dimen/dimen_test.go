package dimen

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.core")
	defer teardown()
	//
	ctx := Context{FontSize: 10, Base: 200}
	d, err := ParseLength("12px", ctx)
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12 {
		t.Errorf("(1) expected d to be 12px, is %s", d)
	}
	//
	d, err = ParseLength("0", ctx)
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %s", d)
	}
	//
	d, err = ParseLength("20%", ctx)
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if d != 40 {
		t.Errorf("(3) expected 20%% of 200 to be 40, is %s", d)
	}
	d, err = ParseLength("1.5em", ctx)
	assert.NoError(t, err)
	assert.InDelta(t, 15.0, float64(d), 1e-9)
	d, err = ParseLength("12pt", ctx)
	assert.NoError(t, err)
	assert.InDelta(t, 16.0, float64(d), 1e-9)
	_, err = ParseLength("12qq", ctx)
	assert.Error(t, err)
	_, err = ParseLength("abc", ctx)
	assert.Error(t, err)
}

func TestParseLists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.core")
	defer teardown()
	//
	l, err := ParseLengthList(" 10, 20 30px,-5 ", Context{})
	assert.NoError(t, err)
	assert.Equal(t, []Dimen{10, 20, 30, -5}, l)
	n, err := ParseNumberList("1e1 .5,-2")
	assert.NoError(t, err)
	assert.Equal(t, []float64{10, 0.5, -2}, n)
	_, err = ParseNumberList("1,,2")
	assert.Error(t, err, "double comma must fail the whole list")
	_, err = ParseNumberList("1 x 2")
	assert.Error(t, err)
	a, err := ParseAngle("3.14159265358979rad")
	assert.NoError(t, err)
	assert.InDelta(t, 180.0, a, 1e-6)
	a, _ = ParseAngle("100grad")
	assert.InDelta(t, 90.0, a, 1e-9)
}

func TestRectUnion(t *testing.T) {
	r := NoRect
	assert.True(t, r.IsEmpty())
	r = r.Union(RectXYWH(0, 0, 10, 10))
	r = r.Union(RectXYWH(5, -5, 10, 10))
	assert.Equal(t, Rect{Point{0, -5}, Point{15, 10}}, r)
	assert.True(t, r.Contains(Point{15, 10}))
	assert.False(t, r.Contains(Point{15.1, 10}))
}

func TestAffine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "svgtext.core")
	defer teardown()
	//
	m := Translate(10, 0).Concat(Rotate(math.Pi / 2))
	p := m.Apply(Point{1, 0})
	assert.InDelta(t, 10.0, float64(p.X), 1e-9)
	assert.InDelta(t, 1.0, float64(p.Y), 1e-9)
	inv, ok := m.Invert()
	assert.True(t, ok)
	q := inv.Apply(p)
	assert.InDelta(t, 1.0, float64(q.X), 1e-9)
	assert.InDelta(t, 0.0, float64(q.Y), 1e-9)
	_, ok = Scale(0, 1).Invert()
	assert.False(t, ok)
}

func TestParseTransform(t *testing.T) {
	m, err := ParseTransform("translate(10,20) scale(2)")
	assert.NoError(t, err)
	p := m.Apply(Point{1, 1})
	assert.Equal(t, Point{12, 22}, p)
	m, err = ParseTransform("matrix(1 0 0 1 5 6)")
	assert.NoError(t, err)
	assert.Equal(t, Translate(5, 6), m)
	_, err = ParseTransform("wobble(1)")
	assert.Error(t, err)
}
