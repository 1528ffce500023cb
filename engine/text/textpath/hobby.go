package textpath

import (
	"math/cmplx"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/arithm/jhobby"

	"github.com/npillmayer/svgtext/core/dimen"
)

// Contour creates a path from a Hobby spline, as constructed with package
// arithm/jhobby. Segments without control points become straight lines.
func Contour(path jhobby.HobbyPath, controls jhobby.SplineControls) Path {
	var b Builder
	n := path.N()
	if n == 0 {
		return b.Path()
	}
	b.MoveTo(pairPoint(path.Z(0)))
	tracer().Debugf("spline start at %s", path.Z(0))
	segments := n - 1
	if path.IsCycle() {
		segments = n
	}
	for i := 1; i <= segments; i++ {
		z := path.Z(i % n)
		c1, c2 := controls.PostControl(i-1), controls.PreControl(i%n)
		if cmplx.IsNaN(c1.C()) || cmplx.IsNaN(c2.C()) {
			b.LineTo(pairPoint(z))
			continue
		}
		b.CubicTo(pairPoint(c1), pairPoint(c2), pairPoint(z))
	}
	if path.IsCycle() {
		b.Close()
	}
	return b.Path()
}

// Smooth creates a path from a Hobby spline through points, the way
// MetaPost draws z0..z1..z2. If cycle is set, the spline is closed.
func Smooth(points []dimen.Point, cycle bool) Path {
	if cycle && len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 2 {
		var b Builder
		if len(points) == 1 {
			b.MoveTo(points[0])
		}
		return b.Path()
	}
	var knots jhobby.KnotAdder = jhobby.Nullpath()
	var join jhobby.JoinAdder
	for i, p := range points {
		join = knots.Knot(arithm.P(float64(p.X), float64(p.Y)))
		if i < len(points)-1 || cycle {
			knots = join.Curve()
		}
	}
	var path jhobby.HobbyPath
	var controls jhobby.SplineControls
	if cycle {
		path, controls = knots.Cycle()
	} else {
		path, controls = join.End()
	}
	controls = jhobby.FindHobbyControls(path, controls)
	return Contour(path, controls)
}

// Knots returns the end points of the segments of the first sub-path of
// path data d, and whether that sub-path is closed. Control points are
// not part of the result. Malformed path data results in the knots up to
// the error, together with an EMALFORMED error.
func Knots(d string) ([]dimen.Point, bool, error) {
	pp := pathParser{b: []byte(d), trackKnots: true}
	err := pp.parse()
	return pp.knots, pp.closed, err
}

func pairPoint(p arithm.Pair) dimen.Point {
	return dimen.Pt(dimen.Dimen(p.X()), dimen.Dimen(p.Y()))
}
