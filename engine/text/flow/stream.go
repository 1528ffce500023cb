package flow

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/text/attributed"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
)

const zeroWidthJoiner = '\u200d'

// glyphStream presents the glyph runs of a paragraph as a single sequence
// of glyphs in logical order. Glyphs of right-to-left runs, which are kept
// in visual order, are visited from last to first.
type glyphStream struct {
	run        *attributed.Run
	runs       []*glyphlayout.GlyphRun
	starts     []int // stream position of the first glyph of each run
	n          int
	breakAfter []bool // per character of the run: line break opportunity
}

func newGlyphStream(run *attributed.Run, runs []*glyphlayout.GlyphRun) *glyphStream {
	s := &glyphStream{run: run, runs: runs, starts: make([]int, len(runs))}
	for k, gr := range runs {
		s.starts[k] = s.n
		s.n += gr.Len()
	}
	s.breakAfter = breakOpportunities(run.String(), run.Len())
	return s
}

// breakOpportunities finds the positions after which UAX #14 allows a line
// break.
func breakOpportunities(text string, n int) []bool {
	breaks := make([]bool, n)
	if n == 0 {
		return breaks
	}
	linewrap := uax14.NewLineWrap()
	seg := segment.NewSegmenter(linewrap)
	seg.Init(strings.NewReader(text))
	pos := 0
	for seg.Next() {
		pos += utf8.RuneCountInString(seg.Text())
		if p1, _ := seg.Penalties(); p1 < uax.InfinitePenalty && pos > 0 && pos <= n {
			breaks[pos-1] = true
		}
	}
	return breaks
}

func (s *glyphStream) Len() int {
	return s.n
}

// at translates stream position i to a glyph run and glyph index.
func (s *glyphStream) at(i int) (*glyphlayout.GlyphRun, int) {
	k := s.runOf(i)
	gr := s.runs[k]
	if gr.IsRightToLeft() {
		return gr, gr.Len() - 1 - (i - s.starts[k])
	}
	return gr, i - s.starts[k]
}

// runOf returns the index of the glyph run holding stream position i.
func (s *glyphStream) runOf(i int) int {
	return sort.Search(len(s.starts), func(k int) bool {
		return s.starts[k] > i
	}) - 1
}

// position is the inverse of at for glyph j of run k.
func (s *glyphStream) position(k, j int) int {
	if s.runs[k].IsRightToLeft() {
		return s.starts[k] + s.runs[k].Len() - 1 - j
	}
	return s.starts[k] + j
}

func (s *glyphStream) glyph(i int) glyphlayout.Glyph {
	gr, j := s.at(i)
	return gr.Glyph(j)
}

func (s *glyphStream) advance(i int) dimen.Dimen {
	gr, j := s.at(i)
	return gr.Advance(j)
}

// isPrinting is false for white space.
func (s *glyphStream) isPrinting(i int) bool {
	return !unicode.IsSpace(s.glyph(i).CodePoint)
}

// isBreak is true if a line may be broken after glyph i. Glyphs are never
// separated from a zero width joiner.
func (s *glyphStream) isBreak(i int) bool {
	g := s.glyph(i)
	if g.CodePoint == zeroWidthJoiner || (i+1 < s.n && s.glyph(i+1).CodePoint == zeroWidthJoiner) {
		return false
	}
	if unicode.IsSpace(g.CodePoint) {
		return true
	}
	last := g.Char + max(g.Chars, 1) - 1
	return last < len(s.breakAfter) && s.breakAfter[last]
}

// lineBreaks returns the number of forced line breaks after glyph i.
func (s *glyphStream) lineBreaks(i int) int {
	g := s.glyph(i)
	n := 0
	for c := g.Char; c < g.Char+g.Chars; c++ {
		n += s.run.Attrs[c].LineBreaks
	}
	return n
}

// extents returns the font extents of glyphs [from, to).
func (s *glyphStream) extents(from, to int) (ascent, descent, size dimen.Dimen) {
	for i := from; i < to; i++ {
		gr, _ := s.at(i)
		m := gr.Font().Metrics()
		ascent = dimen.Max(ascent, m.Ascent)
		descent = dimen.Max(descent, m.Descent)
		size = dimen.Max(size, gr.Font().Size())
	}
	return
}

// measure returns the advance of glyphs [from, to), the advance without
// trailing white space and the advance of the last printing glyph.
func (s *glyphStream) measure(from, to int) (adv, visual, last dimen.Dimen) {
	for i := from; i < to; i++ {
		a := s.advance(i)
		adv += a
		if s.isPrinting(i) {
			visual, last = adv, a
		}
	}
	return
}

// each calls f for every glyph run overlapping stream positions [from, to),
// with the run's index and glyph range.
func (s *glyphStream) each(from, to int, f func(k int, gr *glyphlayout.GlyphRun, lo, hi int)) {
	for k, gr := range s.runs {
		lo := max(from-s.starts[k], 0)
		hi := min(to-s.starts[k], gr.Len())
		if lo >= hi {
			continue
		}
		if gr.IsRightToLeft() {
			lo, hi = gr.Len()-hi, gr.Len()-lo
		}
		f(k, gr, lo, hi)
	}
}

func (s *glyphStream) hide(from, to int) {
	s.each(from, to, func(_ int, gr *glyphlayout.GlyphRun, lo, hi int) {
		gr.Hide(lo, hi)
	})
}
