package dimen

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/math/f64"
)

// Affine is a 2D affine transformation, stored row-major as
//
//	| a b c |
//	| d e f |
//
// i.e. x' = a·x + b·y + c and y' = d·x + e·y + f.
type Affine f64.Aff3

// Identity is the neutral transform.
var Identity = Affine{1, 0, 0, 0, 1, 0}

// Translate creates a translation.
func Translate(dx, dy Dimen) Affine {
	return Affine{1, 0, float64(dx), 0, 1, float64(dy)}
}

// Rotate creates a rotation by theta radians. With the y-axis pointing
// down, positive angles rotate clockwise on screen.
func Rotate(theta float64) Affine {
	s, c := math.Sincos(theta)
	return Affine{c, -s, 0, s, c, 0}
}

// Scale creates a scaling transform.
func Scale(sx, sy float64) Affine {
	return Affine{sx, 0, 0, 0, sy, 0}
}

// Concat returns m·n, i.e. n is applied first.
func (m Affine) Concat(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// PreConcat returns n·m, i.e. m is applied first.
func (m Affine) PreConcat(n Affine) Affine {
	return n.Concat(m)
}

// IsIdentity is true for the identity transform.
func (m Affine) IsIdentity() bool {
	return m == Identity
}

// Apply transforms a point.
func (m Affine) Apply(p Point) Point {
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: Dimen(m[0]*x + m[1]*y + m[2]),
		Y: Dimen(m[3]*x + m[4]*y + m[5]),
	}
}

// ApplyVector transforms a vector, ignoring translation.
func (m Affine) ApplyVector(p Point) Point {
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: Dimen(m[0]*x + m[1]*y),
		Y: Dimen(m[3]*x + m[4]*y),
	}
}

// ApplyRect transforms the corners of r and returns their bounding box.
func (m Affine) ApplyRect(r Rect) Rect {
	if r.IsEmpty() {
		return r
	}
	bbox := NoRect
	bbox = bbox.Extend(m.Apply(r.TopL))
	bbox = bbox.Extend(m.Apply(r.BotR))
	bbox = bbox.Extend(m.Apply(Point{r.TopL.X, r.BotR.Y}))
	bbox = bbox.Extend(m.Apply(Point{r.BotR.X, r.TopL.Y}))
	return bbox
}

// Invert returns the inverse transform. ok is false for singular transforms.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) {
		return Identity, false
	}
	return Affine{
		m[4] / det,
		-m[1] / det,
		(m[1]*m[5] - m[2]*m[4]) / det,
		-m[3] / det,
		m[0] / det,
		(m[2]*m[3] - m[0]*m[5]) / det,
	}, true
}

// ScaleX and ShearX name the first row's linear coefficients.
func (m Affine) ScaleX() float64 { return m[0] }
func (m Affine) ShearX() float64 { return m[1] }

func (m Affine) String() string {
	return fmt.Sprintf("[%.3g %.3g %.3g; %.3g %.3g %.3g]", m[0], m[1], m[2], m[3], m[4], m[5])
}

// ---------------------------------------------------------------------------

// ParseTransform parses the value of an SVG transform attribute, e.g.
// "translate(10,20) rotate(45)". Supported are matrix, translate, scale,
// rotate (with optional center), skewX and skewY.
func ParseTransform(s string) (Affine, error) {
	m := Identity
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open <= 0 || closing < open {
			return Identity, fmt.Errorf("%w: transform %q", ErrFormat, s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := ParseNumberList(rest[open+1 : closing])
		if err != nil {
			return Identity, err
		}
		var t Affine
		switch {
		case name == "matrix" && len(args) == 6:
			t = Affine{args[0], args[2], args[4], args[1], args[3], args[5]}
		case name == "translate" && len(args) == 1:
			t = Translate(Dimen(args[0]), 0)
		case name == "translate" && len(args) == 2:
			t = Translate(Dimen(args[0]), Dimen(args[1]))
		case name == "scale" && len(args) == 1:
			t = Scale(args[0], args[0])
		case name == "scale" && len(args) == 2:
			t = Scale(args[0], args[1])
		case name == "rotate" && len(args) == 1:
			t = Rotate(args[0] * math.Pi / 180)
		case name == "rotate" && len(args) == 3:
			cx, cy := Dimen(args[1]), Dimen(args[2])
			t = Translate(cx, cy).Concat(Rotate(args[0] * math.Pi / 180)).Concat(Translate(-cx, -cy))
		case name == "skewX" && len(args) == 1:
			t = Affine{1, math.Tan(args[0] * math.Pi / 180), 0, 0, 1, 0}
		case name == "skewY" && len(args) == 1:
			t = Affine{1, 0, 0, math.Tan(args[0] * math.Pi / 180), 1, 0}
		default:
			return Identity, fmt.Errorf("%w: transform function %s/%d", ErrFormat, name, len(args))
		}
		m = m.Concat(t)
		rest = strings.TrimLeft(rest[closing+1:], " \t\r\n,")
	}
	return m, nil
}
