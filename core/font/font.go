/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size.
The name is reminiscend on the wooden boxes of typesetters in the
aera of metal type. An example is "Helvetica regular 16px".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

All sizes of a typecase are in SVG user units. Glyph metrics are queried at
the font's design resolution and scaled in floating point, so there is no
hinting or rounding involved.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-26, Norbert Pillmayer

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"os"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
)

// tracer traces with key 'svgtext.font'.
func tracer() tracing.Trace {
	return tracing.Select("svgtext.font")
}

// ScalableFont is a parsed font file. The binary data is shared read-only by
// all typecases and shapers; sfnt lookups go through a guarded buffer, which
// makes a ScalableFont safe for concurrent use.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
	mx       sync.Mutex // guards buf
	buf      sfnt.Buffer
}

// TypeCase is a scalable font at a given size.
type TypeCase struct {
	scalableFontParent *ScalableFont
	size               dimen.Dimen // em size in user units
	metrics            Metrics
}

// LoadOpenTypeFont loads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses a font from its binary representation.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// PrepareCase derives a typecase for a given em size in user units.
// Sizes ≤ 0 are not allowed and are set to 16px.
func (sf *ScalableFont) PrepareCase(fontsize dimen.Dimen) (*TypeCase, error) {
	if fontsize <= 0 || !fontsize.IsValid() {
		tracer().Errorf("font size must be > 0, is %s (set to 16px)", fontsize)
		fontsize = 16
	}
	typecase := &TypeCase{
		scalableFontParent: sf,
		size:               fontsize,
	}
	var err error
	typecase.metrics, err = sf.metrics(fontsize)
	return typecase, err
}

func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// Size returns the em size in user units.
func (tc *TypeCase) Size() dimen.Dimen {
	return tc.size
}

// PtSize returns the em size in printer's points.
func (tc *TypeCase) PtSize() float64 {
	return tc.size.Points()
}

// Metrics returns the scaled font metrics.
func (tc *TypeCase) Metrics() Metrics {
	return tc.metrics
}

// --- Fallback font ---------------------------------------------------------

// goFonts holds the fonts of the Go font family, which are compiled into the
// binary and therefore always present.
var goFonts struct {
	sync.Once
	fonts map[string]*ScalableFont
}

// Keys of the Go fonts.
const (
	GoRegular    = "go"
	GoBold       = "go-bold"
	GoItalic     = "go-italic"
	GoBoldItalic = "go-italic-bold"
	GoMono       = "go_mono"
)

func loadGoFonts() {
	goFonts.fonts = make(map[string]*ScalableFont)
	for key, ttf := range map[string][]byte{
		GoRegular:    goregular.TTF,
		GoBold:       gobold.TTF,
		GoItalic:     goitalic.TTF,
		GoBoldItalic: gobolditalic.TTF,
		GoMono:       gomono.TTF,
	} {
		f, err := ParseOpenTypeFont(ttf)
		if err != nil {
			panic("cannot load Go fonts") // this cannot happen
		}
		f.Filepath = "internal"
		goFonts.fonts[key] = f
	}
}

// GoFont returns a variant of the Go font family. Go fonts are present in
// every binary and serve as a fallback if everything else fails.
func GoFont(style xfont.Style, weight xfont.Weight, mono bool) *ScalableFont {
	goFonts.Do(loadGoFonts)
	if mono {
		return goFonts.fonts[GoMono]
	}
	italic := style == xfont.StyleItalic || style == xfont.StyleOblique
	bold := weight >= xfont.WeightSemiBold
	switch {
	case italic && bold:
		return goFonts.fonts[GoBoldItalic]
	case italic:
		return goFonts.fonts[GoItalic]
	case bold:
		return goFonts.fonts[GoBold]
	}
	return goFonts.fonts[GoRegular]
}

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	return GoFont(xfont.StyleNormal, xfont.WeightNormal, false)
}
