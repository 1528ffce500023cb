package textpath

import (
	"math"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
)

// Parse creates a path from SVG path data, i.e. the value of a path
// element's 'd' attribute. All commands of SVG 1.1 are supported.
//
// As required by SVG, a path is rendered up to the first error. Parse
// returns the path up to the error together with an EMALFORMED error.
func Parse(d string) (Path, error) {
	pp := pathParser{b: []byte(d)}
	err := pp.parse()
	return pp.builder.Path(), err
}

type pathParser struct {
	b       []byte
	pos     int
	builder Builder
	lastCmd byte
	lastCtl dimen.Point // last control point, for smooth curves
	// knots of the first sub-path, see Knots
	trackKnots bool
	knots      []dimen.Point
	closed     bool
	subpaths   int
}

func (pp *pathParser) skipSpace() {
	for pp.pos < len(pp.b) {
		switch pp.b[pp.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			pp.pos++
		default:
			return
		}
	}
}

func (pp *pathParser) skipSeparator() {
	pp.skipSpace()
	if pp.pos < len(pp.b) && pp.b[pp.pos] == ',' {
		pp.pos++
		pp.skipSpace()
	}
}

func (pp *pathParser) atNumber() bool {
	pp.skipSeparator()
	if pp.pos >= len(pp.b) {
		return false
	}
	c := pp.b[pp.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (pp *pathParser) number() (float64, bool) {
	if !pp.atNumber() {
		return 0, false
	}
	f, n := strconv.ParseFloat(pp.b[pp.pos:])
	if n == 0 {
		return 0, false
	}
	pp.pos += n
	return f, true
}

func (pp *pathParser) flag() (bool, bool) {
	pp.skipSeparator()
	if pp.pos >= len(pp.b) {
		return false, false
	}
	c := pp.b[pp.pos]
	if c != '0' && c != '1' {
		return false, false
	}
	pp.pos++
	return c == '1', true
}

func (pp *pathParser) point(rel bool) (dimen.Point, bool) {
	x, ok1 := pp.number()
	y, ok2 := pp.number()
	if !ok1 || !ok2 {
		return dimen.Origin, false
	}
	p := dimen.Point{X: dimen.Dimen(x), Y: dimen.Dimen(y)}
	if rel {
		p = p.Add(pp.builder.Current())
	}
	return p, true
}

func (pp *pathParser) errorf() error {
	return core.Error(core.EMALFORMED, "path data malformed at position %d", pp.pos)
}

func (pp *pathParser) parse() error {
	for {
		pp.skipSpace()
		if pp.pos >= len(pp.b) {
			return nil
		}
		cmd := pp.b[pp.pos]
		pp.pos++
		if pp.lastCmd == 0 && cmd != 'M' && cmd != 'm' {
			return pp.errorf()
		}
		if err := pp.command(cmd); err != nil {
			return err
		}
	}
}

// command reads the arguments of a path command, including implicit
// repetitions of the command.
func (pp *pathParser) command(cmd byte) error {
	rel := cmd >= 'a'
	b := &pp.builder
	first := true
	for first || pp.atNumber() {
		switch cmd {
		case 'M', 'm':
			p, ok := pp.point(rel)
			if !ok {
				return pp.errorf()
			}
			if first {
				b.MoveTo(p)
			} else {
				b.LineTo(p) // subsequent pairs are implicit lineto
			}
			pp.lastCtl = p
		case 'L', 'l':
			p, ok := pp.point(rel)
			if !ok {
				return pp.errorf()
			}
			b.LineTo(p)
			pp.lastCtl = p
		case 'H', 'h', 'V', 'v':
			v, ok := pp.number()
			if !ok {
				return pp.errorf()
			}
			p := b.Current()
			switch cmd {
			case 'H':
				p.X = dimen.Dimen(v)
			case 'h':
				p.X += dimen.Dimen(v)
			case 'V':
				p.Y = dimen.Dimen(v)
			case 'v':
				p.Y += dimen.Dimen(v)
			}
			b.LineTo(p)
			pp.lastCtl = p
		case 'C', 'c':
			c1, ok1 := pp.point(rel)
			c2, ok2 := pp.point(rel)
			p, ok3 := pp.point(rel)
			if !ok1 || !ok2 || !ok3 {
				return pp.errorf()
			}
			b.CubicTo(c1, c2, p)
			pp.lastCtl = c2
		case 'S', 's':
			c1 := pp.reflect('C', 'S')
			c2, ok1 := pp.point(rel)
			p, ok2 := pp.point(rel)
			if !ok1 || !ok2 {
				return pp.errorf()
			}
			b.CubicTo(c1, c2, p)
			pp.lastCtl = c2
		case 'Q', 'q':
			c, ok1 := pp.point(rel)
			p, ok2 := pp.point(rel)
			if !ok1 || !ok2 {
				return pp.errorf()
			}
			b.QuadTo(c, p)
			pp.lastCtl = c
		case 'T', 't':
			c := pp.reflect('Q', 'T')
			p, ok := pp.point(rel)
			if !ok {
				return pp.errorf()
			}
			b.QuadTo(c, p)
			pp.lastCtl = c
		case 'A', 'a':
			if err := pp.arc(rel); err != nil {
				return err
			}
		case 'Z', 'z':
			b.Close()
			pp.lastCtl = b.Current()
			pp.lastCmd = cmd
			if pp.subpaths == 1 {
				pp.closed = true
			}
			return nil
		default:
			return pp.errorf()
		}
		if pp.trackKnots {
			pp.knot(first && upper(cmd) == 'M')
		}
		pp.lastCmd = upper(cmd)
		first = false
	}
	return nil
}

func (pp *pathParser) knot(move bool) {
	if move {
		pp.subpaths++
	}
	if pp.subpaths == 1 && !pp.closed {
		pp.knots = append(pp.knots, pp.builder.Current())
	}
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// reflect returns the reflection of the last control point, if the previous
// command has been one of cmds.
func (pp *pathParser) reflect(cmds ...byte) dimen.Point {
	cur := pp.builder.Current()
	for _, c := range cmds {
		if pp.lastCmd == c {
			return cur.Add(cur.Sub(pp.lastCtl))
		}
	}
	return cur
}

// arc reads an elliptical arc and approximates it with cubic segments,
// following the endpoint to center conversion of SVG 1.1, appendix F.6.
func (pp *pathParser) arc(rel bool) error {
	rx, ok1 := pp.number()
	ry, ok2 := pp.number()
	phi, ok3 := pp.number()
	large, ok4 := pp.flag()
	sweep, ok5 := pp.flag()
	p, ok6 := pp.point(rel)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return pp.errorf()
	}
	b := &pp.builder
	p0 := b.Current()
	pp.lastCtl = p
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || p0 == p {
		b.LineTo(p)
		return nil
	}
	sinPhi, cosPhi := math.Sincos(phi * math.Pi / 180)
	dx2, dy2 := float64(p0.X-p.X)/2, float64(p0.Y-p.Y)/2
	x1 := cosPhi*dx2 + sinPhi*dy2
	y1 := -sinPhi*dx2 + cosPhi*dy2
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		rx *= math.Sqrt(lambda)
		ry *= math.Sqrt(lambda)
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cx1, cy1 := coef*rx*y1/ry, -coef*ry*x1/rx
	cx := cosPhi*cx1 - sinPhi*cy1 + float64(p0.X+p.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + float64(p0.Y+p.Y)/2
	theta1 := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	dtheta := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx) - theta1
	if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	} else if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	}
	n := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	delta := dtheta / float64(n)
	k := 4.0 / 3.0 * math.Tan(delta/4)
	onEllipse := func(t float64) (dimen.Point, dimen.Point) {
		sin, cos := math.Sincos(t)
		pt := dimen.Point{
			X: dimen.Dimen(cx + rx*cos*cosPhi - ry*sin*sinPhi),
			Y: dimen.Dimen(cy + rx*cos*sinPhi + ry*sin*cosPhi),
		}
		deriv := dimen.Point{
			X: dimen.Dimen(-rx*sin*cosPhi - ry*cos*sinPhi),
			Y: dimen.Dimen(-rx*sin*sinPhi + ry*cos*cosPhi),
		}
		return pt, deriv
	}
	t := theta1
	start, d0 := onEllipse(t)
	for i := 0; i < n; i++ {
		end, d1 := onEllipse(t + delta)
		if i == n-1 {
			end = p
		}
		c1 := start.Add(d0.Scale(k, k))
		c2 := end.Sub(d1.Scale(k, k))
		b.CubicTo(c1, c2, end)
		t += delta
		start, d0 = end, d1
	}
	return nil
}
