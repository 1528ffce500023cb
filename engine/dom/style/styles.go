package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/parameters"
)

// Anchor is the value of property text-anchor.
type Anchor uint8

// Text anchors
const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// BidiMode is the value of property unicode-bidi.
type BidiMode uint8

// Modes for unicode-bidi
const (
	BidiNormal BidiMode = iota
	BidiEmbed
	BidiOverride
)

// Writing is the value of property writing-mode.
type Writing uint8

// Writing modes, reduced to the three SVG 1.1 distinguishes.
const (
	WritingLR Writing = iota // lr-tb, lr
	WritingRL                // rl-tb, rl
	WritingTB                // tb-rl, tb
)

// ShiftKind classifies a baseline-shift.
type ShiftKind uint8

// Kinds of baseline-shift
const (
	ShiftNone ShiftKind = iota
	ShiftSub
	ShiftSuper
	ShiftLength
)

// Shift is the value of property baseline-shift.
type Shift struct {
	Kind  ShiftKind
	Value dimen.Dimen // for ShiftLength, positive values shift upwards
}

// Orientation is a glyph orientation. Auto is meaningful for vertical text only.
type Orientation struct {
	Auto  bool
	Angle float64 // degrees, one of 0, 90, 180, 270
}

// Spacing is the value of letter-spacing, word-spacing or kerning. An unset
// spacing means 'normal' resp. 'auto'.
type Spacing struct {
	Set   bool
	Value dimen.Dimen
}

// Paint is a fill or stroke paint specification. It is kept unparsed, apart
// from 'none', as paint servers are the business of the renderer.
type Paint string

// NoPaint is paint 'none'.
const NoPaint Paint = "none"

// IsNone is true for the empty paint and for 'none'.
func (p Paint) IsNone() bool {
	return p == "" || p == NoPaint
}

// DecorationLine is one of the three decoration lines of text-decoration.
type DecorationLine uint8

// Decoration lines
const (
	Underline DecorationLine = iota
	Overline
	LineThrough
)

func (l DecorationLine) String() string {
	switch l {
	case Underline:
		return "underline"
	case Overline:
		return "overline"
	case LineThrough:
		return "line-through"
	}
	return "?"
}

// DecorationPaint is the paint of a decoration line, taken from the element
// which declared the line.
type DecorationPaint struct {
	On          bool
	Fill        Paint
	Stroke      Paint
	StrokeWidth dimen.Dimen
}

// Decorations holds the decoration lines in effect for an element.
type Decorations [3]DecorationPaint

// IsEmpty is true if no line is switched on.
func (d Decorations) IsEmpty() bool {
	return !d[Underline].On && !d[Overline].On && !d[LineThrough].On
}

// Styles is the set of resolved text properties of an element.
type Styles struct {
	FontFamily  []string
	FontSize    dimen.Dimen
	FontStyle   xfont.Style
	FontWeight  xfont.Weight
	FontStretch xfont.Stretch

	TextAnchor            Anchor
	BaselineShift         Shift
	UnicodeBidi           BidiMode
	Direction             bidi.Direction
	WritingMode           Writing
	OrientationVertical   Orientation
	OrientationHorizontal Orientation
	LetterSpacing         Spacing
	WordSpacing           Spacing
	Kerning               Spacing
	LineHeight            dimen.Dimen // 0 for 'normal'

	Decoration       Decorations
	Fill             Paint
	FillOpacity      float64
	Stroke           Paint
	StrokeOpacity    float64
	StrokeWidth      dimen.Dimen
	StrokeLinecap    string
	StrokeLinejoin   string
	StrokeMiterlimit float64
	StrokeDasharray  []dimen.Dimen
	StrokeDashoffset dimen.Dimen
	Opacity          float64

	Visible        bool
	Display        bool
	TextRendering  string
	ColorRendering string

	Language      string // from xml:lang
	PreserveSpace bool   // from xml:space
}

// Initial creates the styles of a root element, with defaults taken from
// a set of layout registers. regs may be nil.
func Initial(regs *parameters.LayoutRegisters) *Styles {
	if regs == nil {
		regs = parameters.NewLayoutRegisters()
	}
	s := &Styles{
		FontFamily:          splitFamilies(regs.S(parameters.P_FONTFAMILY)),
		FontSize:            regs.D(parameters.P_FONTSIZE),
		FontStyle:           xfont.StyleNormal,
		FontWeight:          xfont.WeightNormal,
		FontStretch:         xfont.StretchNormal,
		Direction:           bidi.LeftToRight,
		OrientationVertical: Orientation{Auto: true},
		Fill:                "black",
		FillOpacity:         1,
		Stroke:              NoPaint,
		StrokeOpacity:       1,
		StrokeWidth:         1,
		StrokeLinecap:       "butt",
		StrokeLinejoin:      "miter",
		StrokeMiterlimit:    4,
		Opacity:             1,
		Visible:             true,
		Display:             true,
		TextRendering:       "auto",
		ColorRendering:      "auto",
		Language:            regs.S(parameters.P_LANGUAGE),
		PreserveSpace:       regs.B(parameters.P_PRESERVESPACE),
	}
	if dir, ok := regs.Get(parameters.P_TEXTDIRECTION).(bidi.Direction); ok && dir == bidi.RightToLeft {
		s.Direction = bidi.RightToLeft
	}
	if lh := regs.F(parameters.P_LINEHEIGHT); lh > 0 && lh != 1.0 {
		s.LineHeight = dimen.Dimen(lh) * s.FontSize
	}
	return s
}

// Inherit creates the styles of a child element: inherited properties are
// copied, all others are reset to their initial values. Decorations are
// copied, too, and will be replaced if the child declares text-decoration.
func (s *Styles) Inherit() *Styles {
	child := *s
	child.FontFamily = append([]string(nil), s.FontFamily...)
	child.StrokeDasharray = append([]dimen.Dimen(nil), s.StrokeDasharray...)
	child.BaselineShift = Shift{}
	child.UnicodeBidi = BidiNormal
	child.Opacity = 1
	child.Display = true
	return &child
}

// IsVertical is true for top-to-bottom writing mode.
func (s *Styles) IsVertical() bool {
	return s.WritingMode == WritingTB
}

// RightToLeft is true if the inline progression direction is right-to-left.
func (s *Styles) RightToLeft() bool {
	return s.Direction == bidi.RightToLeft || s.WritingMode == WritingRL
}

// IsRendered is true if the element is displayed and visible.
func (s *Styles) IsRendered() bool {
	return s.Display && s.Visible
}

// ShiftAmount returns the vertical baseline offset of a baseline-shift,
// positive values shifting upwards. ascent is the font ascent.
func (s *Styles) ShiftAmount(ascent dimen.Dimen) dimen.Dimen {
	switch s.BaselineShift.Kind {
	case ShiftSub:
		return -ascent / 2
	case ShiftSuper:
		return ascent / 2
	case ShiftLength:
		return s.BaselineShift.Value
	}
	return 0
}

// --- Setting properties from CSS values ------------------------------------

// decl is a property declaration found for an element.
type decl struct {
	prop  Property
	value string
}

// set applies a declaration to s. parent is the style of the parent element
// and serves as a reference for relative values. Malformed values leave s
// unchanged and return an error.
func (s *Styles) set(prop Property, value string, parent *Styles) error {
	v := strings.TrimSpace(value)
	lv := strings.ToLower(v)
	if lv == "inherit" {
		s.inheritFrom(prop, parent)
		return nil
	}
	ctx := dimen.Context{FontSize: s.FontSize, Base: s.FontSize}
	switch prop {
	case FontFamily:
		fams := splitFamilies(v)
		if len(fams) == 0 {
			return malformed(prop, value)
		}
		s.FontFamily = fams
	case FontSize:
		sz, err := fontSize(lv, parent.FontSize)
		if err != nil || sz <= 0 {
			return malformed(prop, value)
		}
		s.FontSize = sz
	case FontStyle:
		switch lv {
		case "normal":
			s.FontStyle = xfont.StyleNormal
		case "italic":
			s.FontStyle = xfont.StyleItalic
		case "oblique":
			s.FontStyle = xfont.StyleOblique
		default:
			return malformed(prop, value)
		}
	case FontWeight:
		w, ok := fontWeight(lv, parent.FontWeight)
		if !ok {
			return malformed(prop, value)
		}
		s.FontWeight = w
	case FontStretch:
		st, ok := fontStretch(lv, parent.FontStretch)
		if !ok {
			return malformed(prop, value)
		}
		s.FontStretch = st
	case TextAnchor:
		switch lv {
		case "start":
			s.TextAnchor = AnchorStart
		case "middle":
			s.TextAnchor = AnchorMiddle
		case "end":
			s.TextAnchor = AnchorEnd
		default:
			return malformed(prop, value)
		}
	case BaselineShift:
		switch lv {
		case "baseline":
			s.BaselineShift = Shift{}
		case "sub":
			s.BaselineShift = Shift{Kind: ShiftSub}
		case "super":
			s.BaselineShift = Shift{Kind: ShiftSuper}
		default:
			d, err := dimen.ParseLength(v, ctx)
			if err != nil {
				return malformed(prop, value)
			}
			s.BaselineShift = Shift{Kind: ShiftLength, Value: d}
		}
	case UnicodeBidi:
		switch lv {
		case "normal":
			s.UnicodeBidi = BidiNormal
		case "embed":
			s.UnicodeBidi = BidiEmbed
		case "bidi-override":
			s.UnicodeBidi = BidiOverride
		default:
			return malformed(prop, value)
		}
	case Direction:
		switch lv {
		case "ltr":
			s.Direction = bidi.LeftToRight
		case "rtl":
			s.Direction = bidi.RightToLeft
		default:
			return malformed(prop, value)
		}
	case WritingMode:
		switch lv {
		case "lr-tb", "lr", "horizontal-tb":
			s.WritingMode = WritingLR
		case "rl-tb", "rl":
			s.WritingMode = WritingRL
		case "tb-rl", "tb", "vertical-rl":
			s.WritingMode = WritingTB
		default:
			return malformed(prop, value)
		}
	case GlyphOrientationVertical:
		if lv == "auto" {
			s.OrientationVertical = Orientation{Auto: true}
			return nil
		}
		a, err := orientationAngle(lv)
		if err != nil {
			return malformed(prop, value)
		}
		s.OrientationVertical = Orientation{Angle: a}
	case GlyphOrientationHorizontal:
		a, err := orientationAngle(lv)
		if err != nil {
			return malformed(prop, value)
		}
		s.OrientationHorizontal = Orientation{Angle: a}
	case LetterSpacing, WordSpacing, Kerning:
		sp := Spacing{}
		if lv != "normal" && lv != "auto" {
			d, err := dimen.ParseLength(v, ctx)
			if err != nil {
				return malformed(prop, value)
			}
			sp = Spacing{Set: true, Value: d}
		}
		switch prop {
		case LetterSpacing:
			s.LetterSpacing = sp
		case WordSpacing:
			s.WordSpacing = sp
		default:
			s.Kerning = sp
		}
	case LineHeight:
		if lv == "normal" {
			s.LineHeight = 0
			return nil
		}
		if f, err := strconv.ParseFloat(lv, 64); err == nil && f >= 0 {
			s.LineHeight = dimen.Dimen(f) * s.FontSize
			return nil
		}
		d, err := dimen.ParseLength(v, ctx)
		if err != nil || d < 0 {
			return malformed(prop, value)
		}
		s.LineHeight = d
	case TextDecoration:
		// handled by the resolver, as it depends on fill and stroke
	case Fill:
		s.Fill = paint(v)
	case Stroke:
		s.Stroke = paint(v)
	case FillOpacity, StrokeOpacity, Opacity:
		f, err := strconv.ParseFloat(lv, 64)
		if err != nil {
			return malformed(prop, value)
		}
		f = math.Max(0, math.Min(1, f))
		switch prop {
		case FillOpacity:
			s.FillOpacity = f
		case StrokeOpacity:
			s.StrokeOpacity = f
		default:
			s.Opacity = f
		}
	case StrokeWidth, StrokeDashoffset:
		d, err := dimen.ParseLength(v, ctx)
		if err != nil || (prop == StrokeWidth && d < 0) {
			return malformed(prop, value)
		}
		if prop == StrokeWidth {
			s.StrokeWidth = d
		} else {
			s.StrokeDashoffset = d
		}
	case StrokeDasharray:
		if lv == "none" {
			s.StrokeDasharray = nil
			return nil
		}
		dd, err := dimen.ParseLengthList(v, ctx)
		if err != nil {
			return malformed(prop, value)
		}
		s.StrokeDasharray = dd
	case StrokeMiterlimit:
		f, err := strconv.ParseFloat(lv, 64)
		if err != nil || f < 1 {
			return malformed(prop, value)
		}
		s.StrokeMiterlimit = f
	case StrokeLinecap:
		s.StrokeLinecap = lv
	case StrokeLinejoin:
		s.StrokeLinejoin = lv
	case Visibility:
		switch lv {
		case "visible":
			s.Visible = true
		case "hidden", "collapse":
			s.Visible = false
		default:
			return malformed(prop, value)
		}
	case Display:
		s.Display = lv != "none"
	case TextRendering:
		s.TextRendering = lv
	case ColorRendering:
		s.ColorRendering = lv
	}
	return nil
}

// inheritFrom copies a single property from the parent.
func (s *Styles) inheritFrom(prop Property, parent *Styles) {
	switch prop {
	case FontFamily:
		s.FontFamily = append([]string(nil), parent.FontFamily...)
	case FontSize:
		s.FontSize = parent.FontSize
	case FontStyle:
		s.FontStyle = parent.FontStyle
	case FontWeight:
		s.FontWeight = parent.FontWeight
	case FontStretch:
		s.FontStretch = parent.FontStretch
	case TextAnchor:
		s.TextAnchor = parent.TextAnchor
	case BaselineShift:
		s.BaselineShift = parent.BaselineShift
	case UnicodeBidi:
		s.UnicodeBidi = parent.UnicodeBidi
	case Direction:
		s.Direction = parent.Direction
	case WritingMode:
		s.WritingMode = parent.WritingMode
	case GlyphOrientationVertical:
		s.OrientationVertical = parent.OrientationVertical
	case GlyphOrientationHorizontal:
		s.OrientationHorizontal = parent.OrientationHorizontal
	case LetterSpacing:
		s.LetterSpacing = parent.LetterSpacing
	case WordSpacing:
		s.WordSpacing = parent.WordSpacing
	case Kerning:
		s.Kerning = parent.Kerning
	case LineHeight:
		s.LineHeight = parent.LineHeight
	case TextDecoration:
		s.Decoration = parent.Decoration
	case Fill:
		s.Fill = parent.Fill
	case FillOpacity:
		s.FillOpacity = parent.FillOpacity
	case Stroke:
		s.Stroke = parent.Stroke
	case StrokeOpacity:
		s.StrokeOpacity = parent.StrokeOpacity
	case StrokeWidth:
		s.StrokeWidth = parent.StrokeWidth
	case StrokeLinecap:
		s.StrokeLinecap = parent.StrokeLinecap
	case StrokeLinejoin:
		s.StrokeLinejoin = parent.StrokeLinejoin
	case StrokeMiterlimit:
		s.StrokeMiterlimit = parent.StrokeMiterlimit
	case StrokeDasharray:
		s.StrokeDasharray = append([]dimen.Dimen(nil), parent.StrokeDasharray...)
	case StrokeDashoffset:
		s.StrokeDashoffset = parent.StrokeDashoffset
	case Opacity:
		s.Opacity = parent.Opacity
	case Visibility:
		s.Visible = parent.Visible
	case Display:
		s.Display = parent.Display
	case TextRendering:
		s.TextRendering = parent.TextRendering
	case ColorRendering:
		s.ColorRendering = parent.ColorRendering
	}
}

// decorate applies a text-decoration value. Lines already in effect stay on;
// new lines are painted with the element's own fill and stroke.
func (s *Styles) decorate(value string) error {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "none" {
		s.Decoration = Decorations{}
		return nil
	}
	dec := s.Decoration
	for _, tok := range strings.Fields(v) {
		var l DecorationLine
		switch tok {
		case "underline":
			l = Underline
		case "overline":
			l = Overline
		case "line-through":
			l = LineThrough
		case "blink":
			continue
		default:
			return malformed(TextDecoration, value)
		}
		dec[l] = DecorationPaint{On: true, Fill: s.Fill, Stroke: s.Stroke, StrokeWidth: s.StrokeWidth}
	}
	s.Decoration = dec
	return nil
}

// --- Helpers ---------------------------------------------------------------

func malformed(prop Property, value string) error {
	return core.Error(core.EMALFORMED, "cannot use value %q for property %s", value, prop)
}

func splitFamilies(s string) []string {
	var fams []string
	for _, f := range strings.Split(s, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			fams = append(fams, f)
		}
	}
	return fams
}

func paint(v string) Paint {
	if strings.EqualFold(v, "none") {
		return NoPaint
	}
	return Paint(v)
}

var absoluteSizes = map[string]dimen.Dimen{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

func fontSize(v string, parent dimen.Dimen) (dimen.Dimen, error) {
	if sz, ok := absoluteSizes[v]; ok {
		return sz, nil
	}
	switch v {
	case "smaller":
		return parent / 1.2, nil
	case "larger":
		return parent * 1.2, nil
	}
	return dimen.ParseLength(v, dimen.Context{FontSize: parent, Base: parent})
}

func fontWeight(v string, parent xfont.Weight) (xfont.Weight, bool) {
	switch v {
	case "normal":
		return xfont.WeightNormal, true
	case "bold":
		return xfont.WeightBold, true
	case "bolder":
		if parent < xfont.WeightBlack {
			return parent + 1, true
		}
		return parent, true
	case "lighter":
		if parent > xfont.WeightThin {
			return parent - 1, true
		}
		return parent, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 100 || n > 900 || n%100 != 0 {
		return parent, false
	}
	// 400 is WeightNormal (=0), steps of 100
	return xfont.Weight(n/100 - 4), true
}

var stretches = map[string]xfont.Stretch{
	"ultra-condensed": xfont.StretchUltraCondensed,
	"extra-condensed": xfont.StretchExtraCondensed,
	"condensed":       xfont.StretchCondensed,
	"semi-condensed":  xfont.StretchSemiCondensed,
	"normal":          xfont.StretchNormal,
	"semi-expanded":   xfont.StretchSemiExpanded,
	"expanded":        xfont.StretchExpanded,
	"extra-expanded":  xfont.StretchExtraExpanded,
	"ultra-expanded":  xfont.StretchUltraExpanded,
}

func fontStretch(v string, parent xfont.Stretch) (xfont.Stretch, bool) {
	if st, ok := stretches[v]; ok {
		return st, true
	}
	switch v {
	case "wider":
		if parent < xfont.StretchUltraExpanded {
			return parent + 1, true
		}
		return parent, true
	case "narrower":
		if parent > xfont.StretchUltraCondensed {
			return parent - 1, true
		}
		return parent, true
	}
	return parent, false
}

// orientationAngle parses a glyph orientation angle and snaps it to the
// nearest multiple of 90 degrees, as SVG 1.1 allows no other values.
func orientationAngle(v string) (float64, error) {
	a, err := dimen.ParseAngle(v)
	if err != nil {
		return 0, err
	}
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	a = math.Round(a/90) * 90
	if a == 360 {
		a = 0
	}
	return a, nil
}

func (s *Styles) String() string {
	return fmt.Sprintf("[%v %s w=%d anchor=%d dir=%v]", s.FontFamily, s.FontSize,
		s.FontWeight, s.TextAnchor, s.Direction)
}
