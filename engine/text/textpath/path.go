/*
Package textpath provides curves for text on a path.

A Path is an immutable curve which can be asked for its length, for the
point at a given distance from the start, and for the tangent angle at that
point. Curves are flattened into polylines when they are created; every
query after that is a binary search.

Paths are created from SVG path data (see Parse), programmatically with a
Builder, or as Hobby splines through a handful of points (see Smooth), as
package arithm/jhobby draws them in the manner of MetaPost. A Provider
resolves the path elements referenced by textPath elements and caches the
results.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package textpath

import (
	"math"
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/svgtext/core/dimen"
)

// tracer traces with key 'svgtext.path'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.path")
}

// Path is a curve text may be set on.
//
// PointAtLength returns false if l lies outside of [0, Length()].
// AngleAtLength returns the angle of the tangent in radians, measured from
// the positive x-axis towards the positive y-axis (clockwise on screen).
type Path interface {
	Length() dimen.Dimen
	PointAtLength(l dimen.Dimen) (dimen.Point, bool)
	AngleAtLength(l dimen.Dimen) float64
}

// polyline is a flattened curve. Moves start a new sub-path and do not
// contribute to the length.
type polyline struct {
	pts  []dimen.Point
	cum  []dimen.Dimen // length of the curve up to pts[i]
	move []bool        // pts[i] starts a sub-path
}

var _ Path = &polyline{}

func (pl *polyline) Length() dimen.Dimen {
	if len(pl.cum) == 0 {
		return 0
	}
	return pl.cum[len(pl.cum)-1]
}

// segment returns i such that the line from pts[i-1] to pts[i] contains
// length l. It returns 0 if there is no such segment.
func (pl *polyline) segment(l dimen.Dimen) int {
	n := len(pl.pts)
	i := sort.Search(n, func(i int) bool {
		return pl.cum[i] >= l
	})
	if i == 0 {
		i = 1
	}
	for i < n && (pl.move[i] || pl.cum[i] == pl.cum[i-1]) {
		i++ // skip moves and degenerate segments
	}
	if i >= n {
		for i = n - 1; i > 0; i-- {
			if !pl.move[i] && pl.cum[i] > pl.cum[i-1] {
				return i
			}
		}
		return 0
	}
	return i
}

func (pl *polyline) PointAtLength(l dimen.Dimen) (dimen.Point, bool) {
	total := pl.Length()
	if len(pl.pts) < 2 || l < 0 || l > total || math.IsNaN(float64(l)) {
		return dimen.Origin, false
	}
	i := pl.segment(l)
	if i == 0 {
		return dimen.Origin, false
	}
	p, q := pl.pts[i-1], pl.pts[i]
	t := float64((l - pl.cum[i-1]) / (pl.cum[i] - pl.cum[i-1]))
	t = math.Max(0, math.Min(1, t))
	return dimen.Point{
		X: p.X + dimen.Dimen(t*float64(q.X-p.X)),
		Y: p.Y + dimen.Dimen(t*float64(q.Y-p.Y)),
	}, true
}

func (pl *polyline) AngleAtLength(l dimen.Dimen) float64 {
	if len(pl.pts) < 2 {
		return 0
	}
	total := pl.Length()
	if l < 0 {
		l = 0
	} else if l > total {
		l = total
	}
	i := pl.segment(l)
	if i == 0 {
		return 0
	}
	p, q := pl.pts[i-1], pl.pts[i]
	return math.Atan2(float64(q.Y-p.Y), float64(q.X-p.X))
}

// --- Builder ---------------------------------------------------------------

// Builder creates paths from straight lines and cubic Bézier segments.
// The zero value is ready to use.
type Builder struct {
	pl        polyline
	start     dimen.Point // start of current sub-path
	current   dimen.Point
	Tolerance dimen.Dimen // maximum length of flattened segments, default 1
}

// MoveTo starts a new sub-path.
func (b *Builder) MoveTo(p dimen.Point) *Builder {
	b.add(p, true)
	b.start = p
	return b
}

// LineTo adds a straight line. Without a preceding MoveTo the line starts
// at the origin.
func (b *Builder) LineTo(p dimen.Point) *Builder {
	if len(b.pl.pts) == 0 {
		b.MoveTo(dimen.Origin)
	}
	b.add(p, false)
	return b
}

// CubicTo adds a cubic Bézier segment with control points c1 and c2.
func (b *Builder) CubicTo(c1, c2, p dimen.Point) *Builder {
	if len(b.pl.pts) == 0 {
		b.MoveTo(dimen.Origin)
	}
	p0 := b.current
	hull := p0.Dist(c1) + c1.Dist(c2) + c2.Dist(p)
	n := b.steps(hull)
	for k := 1; k <= n; k++ {
		t := float64(k) / float64(n)
		b.add(cubic(p0, c1, c2, p, t), false)
	}
	return b
}

// QuadTo adds a quadratic Bézier segment with control point c.
func (b *Builder) QuadTo(c, p dimen.Point) *Builder {
	p0 := b.current
	c1 := p0.Add(c.Sub(p0).Scale(2.0/3.0, 2.0/3.0))
	c2 := p.Add(c.Sub(p).Scale(2.0/3.0, 2.0/3.0))
	return b.CubicTo(c1, c2, p)
}

// Close closes the current sub-path with a straight line to its start.
func (b *Builder) Close() *Builder {
	if len(b.pl.pts) > 0 && b.current != b.start {
		b.add(b.start, false)
	}
	b.current = b.start
	return b
}

// Current returns the current point.
func (b *Builder) Current() dimen.Point {
	return b.current
}

// Path returns the path built so far. The builder must not be used
// afterwards.
func (b *Builder) Path() Path {
	pl := b.pl
	tracer().Debugf("path with %d points, length %s", len(pl.pts), pl.Length())
	return &pl
}

func (b *Builder) add(p dimen.Point, move bool) {
	l := dimen.Dimen(0)
	if n := len(b.pl.pts); n > 0 {
		l = b.pl.cum[n-1]
		if !move {
			l += b.current.Dist(p)
		}
	}
	b.pl.pts = append(b.pl.pts, p)
	b.pl.cum = append(b.pl.cum, l)
	b.pl.move = append(b.pl.move, move)
	b.current = p
}

func (b *Builder) steps(hull dimen.Dimen) int {
	tol := b.Tolerance
	if tol <= 0 {
		tol = 1
	}
	n := int(math.Ceil(float64(hull / tol)))
	if n < 4 {
		n = 4
	} else if n > 512 {
		n = 512
	}
	return n
}

func cubic(p0, p1, p2, p3 dimen.Point, t float64) dimen.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return dimen.Point{
		X: dimen.Dimen(a*float64(p0.X) + b*float64(p1.X) + c*float64(p2.X) + d*float64(p3.X)),
		Y: dimen.Dimen(a*float64(p0.Y) + b*float64(p1.Y) + c*float64(p2.Y) + d*float64(p3.Y)),
	}
}

// Transform returns a copy of path p with all points transformed by m.
// Paths not created by this package are returned unchanged.
func Transform(p Path, m dimen.Affine) Path {
	pl, ok := p.(*polyline)
	if !ok || m.IsIdentity() {
		return p
	}
	var b Builder
	for i, pt := range pl.pts {
		b.add(m.Apply(pt), pl.move[i])
	}
	return b.Path()
}
