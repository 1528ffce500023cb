// Package dimen implements dimensions and units for SVG user space.
//
/*
BSD License

Copyright (c) 2017–26, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"fmt"
	"math"
)

// Dimen is a dimension type.
// Values are in SVG user units (CSS pixels), different from TeX.
type Dimen float64

// Some pre-defined dimensions (CSS absolute units at 96 dpi)
const (
	Zero Dimen = 0
	PX   Dimen = 1
	PT   Dimen = 96.0 / 72.0
	PC   Dimen = 16
	IN   Dimen = 96
	CM   Dimen = 96.0 / 2.54
	MM   Dimen = 96.0 / 25.4
)

// Infinity is the largest possible dimension
var Infinity = Dimen(math.Inf(1))

// Epsilon is the tolerance for comparing dimensions.
const Epsilon Dimen = 1e-6

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%.3fpx", float64(d))
}

// Points returns a dimension in printer's points.
func (d Dimen) Points() float64 {
	return float64(d / PT)
}

// IsValid is false for NaN and infinite dimensions.
func (d Dimen) IsValid() bool {
	f := float64(d)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Abs returns the absolute value of d.
func (d Dimen) Abs() Dimen {
	return Dimen(math.Abs(float64(d)))
}

// Point is a point in user space.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Pt is a shortcut for creating a point.
func Pt(x, y Dimen) Point {
	return Point{X: x, Y: y}
}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p, scaled by (sx, sy).
func (p Point) Scale(sx, sy float64) Point {
	return Point{Dimen(float64(p.X) * sx), Dimen(float64(p.Y) * sy)}
}

// Dist returns the euclidian distance between p and q.
func (p Point) Dist(q Point) Dimen {
	return Dimen(math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y)))
}

// IsValid is true if both coordinates are finite numbers.
func (p Point) IsValid() bool {
	return p.X.IsValid() && p.Y.IsValid()
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", float64(p.X), float64(p.Y))
}

// Rect is a rectangle in user space.
type Rect struct {
	TopL, BotR Point
}

// NoRect is the empty rectangle. It is the neutral element for Union.
var NoRect = Rect{
	TopL: Point{Dimen(math.Inf(1)), Dimen(math.Inf(1))},
	BotR: Point{Dimen(math.Inf(-1)), Dimen(math.Inf(-1))},
}

// RectXYWH creates a rectangle from position and size.
func RectXYWH(x, y, w, h Dimen) Rect {
	return Rect{TopL: Point{x, y}, BotR: Point{x + w, y + h}}
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// IsEmpty is true if r has no area and no extent.
func (r Rect) IsEmpty() bool {
	return r.BotR.X < r.TopL.X || r.BotR.Y < r.TopL.Y
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if s.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return s
	}
	return Rect{
		TopL: Point{Min(r.TopL.X, s.TopL.X), Min(r.TopL.Y, s.TopL.Y)},
		BotR: Point{Max(r.BotR.X, s.BotR.X), Max(r.BotR.Y, s.BotR.Y)},
	}
}

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Point) Rect {
	return r.Union(Rect{TopL: p, BotR: p})
}

// Contains is true if p lies within r (borders inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopL.X && p.X <= r.BotR.X && p.Y >= r.TopL.Y && p.Y <= r.BotR.Y
}

// Translate returns r shifted by v.
func (r Rect) Translate(v Point) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{TopL: r.TopL.Add(v), BotR: r.BotR.Add(v)}
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{(r.TopL.X + r.BotR.X) / 2, (r.TopL.Y + r.BotR.Y) / 2}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s-%s]", r.TopL, r.BotR)
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
