/*
Package parameters holds layout registers with TeX-like grouping.

Registers are initialized from defaults, which may be overridden by the
global configuration (see FromConfig). Groups shadow register values
for the duration of a Begingroup/Endgroup bracket; the run builder uses this
to scope inherited values such as xml:space while walking a text tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/bidi"

	"github.com/npillmayer/svgtext/core/dimen"
)

// tracer traces with key 'svgtext.core'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.core")
}

type LayoutParameter int

//go:generate stringer -type=LayoutParameter
const (
	none LayoutParameter = iota
	P_LANGUAGE
	P_TEXTDIRECTION
	P_FONTFAMILY
	P_FONTSIZE
	P_LINEHEIGHT
	P_SHAPER
	P_PRESERVESPACE
	P_FONTDIRS
	P_STOPPER
)

// Configuration keys for FromConfig.
const (
	ConfLanguage   = "svgtext.language"
	ConfFontFamily = "svgtext.font-family"
	ConfFontSize   = "svgtext.font-size"
	ConfLineHeight = "svgtext.line-height"
	ConfShaper     = "svgtext.shaper"
	ConfFontDirs   = "svgtext.fontdirs"
)

type ParameterGroup struct {
	params map[LayoutParameter]interface{}
	level  int
	next   *ParameterGroup
}

type LayoutRegisters struct {
	base       [P_STOPPER]interface{}
	groups     *ParameterGroup
	grouplevel int
}

// ----------------------------------------------------------------------

func NewLayoutRegisters() *LayoutRegisters {
	regs := &LayoutRegisters{}
	initParameters(&regs.base)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_LANGUAGE] = "en"                  // a BCP 47 string
	p[P_TEXTDIRECTION] = bidi.LeftToRight //
	p[P_FONTFAMILY] = "Go"                // a string
	p[P_FONTSIZE] = dimen.Dimen(16)       // dimension, user units
	p[P_LINEHEIGHT] = 1.0                 // factor of font size (float64)
	p[P_SHAPER] = "harfbuzz"              // harfbuzz | gotext | monospace
	p[P_PRESERVESPACE] = false            // xml:space="preserve"
	p[P_FONTDIRS] = ""                    // list of directories, separated by ':'
}

// FromConfig creates a set of registers with defaults overridden by the
// global configuration. Unparsable values are logged and ignored.
func FromConfig() *LayoutRegisters {
	regs := NewLayoutRegisters()
	if s := gconf.GetString(ConfLanguage); s != "" {
		regs.base[P_LANGUAGE] = s
	}
	if s := gconf.GetString(ConfFontFamily); s != "" {
		regs.base[P_FONTFAMILY] = s
	}
	if s := gconf.GetString(ConfFontSize); s != "" {
		if d, err := dimen.ParseLength(s, dimen.Context{FontSize: 16}); err == nil && d > 0 {
			regs.base[P_FONTSIZE] = d
		} else {
			tracer().Errorf("config: cannot use font size %q", s)
		}
	}
	if s := gconf.GetString(ConfLineHeight); s != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && f > 0 {
			regs.base[P_LINEHEIGHT] = f
		} else {
			tracer().Errorf("config: cannot use line height %q", s)
		}
	}
	if s := gconf.GetString(ConfShaper); s != "" {
		regs.base[P_SHAPER] = strings.ToLower(s)
	}
	if s := gconf.GetString(ConfFontDirs); s != "" {
		regs.base[P_FONTDIRS] = s
	}
	return regs
}

func (regs *LayoutRegisters) Begingroup() {
	regs.grouplevel++
}

func (regs *LayoutRegisters) Endgroup() {
	if regs.grouplevel > 0 {
		if regs.groups != nil && regs.groups.level == regs.grouplevel {
			regs.groups = regs.groups.next
		}
		regs.grouplevel--
	}
}

func (regs *LayoutRegisters) Push(key LayoutParameter, value interface{}) {
	if regs.grouplevel > 0 {
		var g *ParameterGroup
		if regs.groups == nil || regs.groups.level < regs.grouplevel {
			g = &ParameterGroup{}
			g.params = make(map[LayoutParameter]interface{})
			g.level = regs.grouplevel
			g.next = regs.groups
			regs.groups = g
		} else {
			g = regs.groups
		}
		g.params[key] = value
	} else {
		regs.base[key] = value
	}
}

func (regs *LayoutRegisters) Get(key LayoutParameter) interface{} {
	if key <= 0 || key >= P_STOPPER {
		panic("parameter key outside range of layout parameters")
	}
	var value interface{}
	if regs.grouplevel > 0 {
		for g := regs.groups; g != nil; g = g.next {
			value = g.params[key]
			if value != nil {
				break
			}
		}
	}
	if value == nil {
		value = regs.base[key]
	}
	return value
}

func (regs *LayoutRegisters) S(key LayoutParameter) string {
	return regs.Get(key).(string)
}

func (regs *LayoutRegisters) B(key LayoutParameter) bool {
	return regs.Get(key).(bool)
}

func (regs *LayoutRegisters) F(key LayoutParameter) float64 {
	return regs.Get(key).(float64)
}

func (regs *LayoutRegisters) D(key LayoutParameter) dimen.Dimen {
	return regs.Get(key).(dimen.Dimen)
}

// FontDirs splits P_FONTDIRS into a list of directories.
func (regs *LayoutRegisters) FontDirs() []string {
	s := regs.S(P_FONTDIRS)
	if s == "" {
		return nil
	}
	var dirs []string
	for _, d := range strings.Split(s, ":") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
