// Package percent implements a simple and straightforward type for percentage values.
//
// Flow regions use it for vertical alignment, path text for relative start offsets.
package percent

import (
	"math"
	"strconv"
	"strings"
)

// Percent is a percentage value, clamped to 0…100.
type Percent uint8

func FromInt(n int) Percent {
	switch {
	case n <= 0:
		return Percent(0)
	case n >= 100:
		return Percent(100)
	}
	return Percent(n)
}

func FromFloat(f float64) Percent {
	switch {
	case f <= 0 || math.IsNaN(f) || math.IsInf(f, -1):
		return Percent(0)
	case f >= 100 || math.IsInf(f, 1):
		return Percent(100)
	}
	return Percent(math.Round(f))
}

// FromString parses "50%" or "50". Fractional values are rounded, values out of
// range are clamped.
func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return FromFloat(f), nil
}

// IsPercentage is true if s carries a trailing percent sign.
func IsPercentage(s string) bool {
	return strings.HasSuffix(strings.TrimSpace(s), "%")
}

// Fraction returns p as a value in [0,1].
func (p Percent) Fraction() float64 {
	return float64(p) / 100
}

func (p Percent) String() string {
	return strconv.Itoa(int(p)) + "%"
}
