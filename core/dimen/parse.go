package dimen

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// ErrFormat is returned for unparsable dimension or number strings.
var ErrFormat = errors.New("format error parsing dimension")

// Context carries the reference values for relative units.
type Context struct {
	FontSize Dimen // for 'em' and 'ex'
	Base     Dimen // reference length for percentages
}

func isSep(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isUnitChar(c byte) bool {
	return c == '%' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// scanner walks a whitespace/comma separated list of numbers with optional
// unit suffixes.
type scanner struct {
	b   []byte
	pos int
}

func (sc *scanner) skipSeparators(allowComma bool) {
	comma := false
	for sc.pos < len(sc.b) {
		c := sc.b[sc.pos]
		if isSep(c) {
			sc.pos++
		} else if c == ',' && allowComma && !comma {
			comma = true
			sc.pos++
		} else {
			break
		}
	}
}

func (sc *scanner) done() bool {
	return sc.pos >= len(sc.b)
}

// next reads a number plus an optional unit.
func (sc *scanner) next() (float64, string, error) {
	f, n := strconv.ParseFloat(sc.b[sc.pos:])
	if n == 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrFormat, string(sc.b))
	}
	sc.pos += n
	start := sc.pos
	for sc.pos < len(sc.b) && isUnitChar(sc.b[sc.pos]) {
		sc.pos++
	}
	return f, string(sc.b[start:sc.pos]), nil
}

func applyUnit(f float64, unit string, ctx Context) (Dimen, error) {
	switch strings.ToLower(unit) {
	case "", "px":
		return Dimen(f), nil
	case "pt":
		return Dimen(f) * PT, nil
	case "pc":
		return Dimen(f) * PC, nil
	case "mm":
		return Dimen(f) * MM, nil
	case "cm":
		return Dimen(f) * CM, nil
	case "in":
		return Dimen(f) * IN, nil
	case "em":
		return Dimen(f) * ctx.FontSize, nil
	case "ex":
		return Dimen(f) * ctx.FontSize / 2, nil
	case "%":
		return Dimen(f) * ctx.Base / 100, nil
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrFormat, unit)
}

// ParseLength parses a single SVG length. Syntax is CSS Unit.
func ParseLength(s string, ctx Context) (Dimen, error) {
	sc := scanner{b: []byte(strings.TrimSpace(s))}
	if sc.done() {
		return 0, ErrFormat
	}
	f, unit, err := sc.next()
	if err != nil {
		return 0, err
	}
	if !sc.done() {
		return 0, fmt.Errorf("%w: trailing characters in %q", ErrFormat, s)
	}
	return applyUnit(f, unit, ctx)
}

// ParseLengthList parses a list of SVG lengths, separated by whitespace and/or
// a comma. If any entry fails, the whole list fails.
func ParseLengthList(s string, ctx Context) ([]Dimen, error) {
	sc := scanner{b: []byte(s)}
	var list []Dimen
	sc.skipSeparators(false)
	for !sc.done() {
		f, unit, err := sc.next()
		if err != nil {
			return nil, err
		}
		d, err := applyUnit(f, unit, ctx)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
		sc.skipSeparators(true)
	}
	return list, nil
}

// ParseNumberList parses a list of plain numbers.
func ParseNumberList(s string) ([]float64, error) {
	sc := scanner{b: []byte(s)}
	var list []float64
	sc.skipSeparators(false)
	for !sc.done() {
		f, unit, err := sc.next()
		if err != nil {
			return nil, err
		}
		if unit != "" {
			return nil, fmt.Errorf("%w: unexpected unit %q", ErrFormat, unit)
		}
		list = append(list, f)
		sc.skipSeparators(true)
	}
	return list, nil
}

// ParseAngle parses an angle and returns it in degrees. Units deg, rad and
// grad are recognized, the default is degrees.
func ParseAngle(s string) (float64, error) {
	sc := scanner{b: []byte(strings.TrimSpace(s))}
	if sc.done() {
		return 0, ErrFormat
	}
	f, unit, err := sc.next()
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(unit) {
	case "", "deg":
		return f, nil
	case "rad":
		return f * 180 / math.Pi, nil
	case "grad":
		return f * 0.9, nil
	}
	return 0, fmt.Errorf("%w: unknown angle unit %q", ErrFormat, unit)
}
