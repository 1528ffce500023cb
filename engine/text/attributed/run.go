package attributed

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/cords/styled"

	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/text/textpath"
)

// Override is an optional per-character value.
type Override struct {
	Value float64
	Set   bool
}

// Dimen returns the value of o as a dimension.
func (o Override) Dimen() dimen.Dimen {
	return dimen.Dimen(o.Value)
}

func set(v float64) Override {
	return Override{Value: v, Set: true}
}

func (o Override) String() string {
	if !o.Set {
		return "-"
	}
	return fmt.Sprintf("%g", o.Value)
}

// CharAttrs are the attributes of a single character of a run.
type CharAttrs struct {
	Delimiter  dom.NodeID // nearest text element the character is attributed to
	PathRef    dom.NodeID // textPath ancestor, or dom.NoNode
	X, Y       Override   // absolute position
	DX, DY     Override   // relative position
	Rotate     Override   // degrees, clockwise
	Level      int8       // bidi embedding level
	LineBreaks int        // forced line breaks after this character (flow text)
}

// Element describes a text element contributing to a run.
type Element struct {
	ID               dom.NodeID
	Kind             dom.Kind
	Styles           *style.Styles
	First, Last      int      // characters covered, Last < First if none
	TextLength       Override // author's idea of the advance of the element's text
	SpacingAndGlyphs bool     // lengthAdjust="spacingAndGlyphs"
	Path             textpath.Path
	StartOffset      dimen.Dimen
}

// HasChars is true if at least one character is attributed to the element or
// to one of its descendants.
func (e *Element) HasChars() bool {
	return e.First >= 0 && e.Last >= e.First
}

// Run is a flat attributed character sequence, built from a text element.
// Characters and attributes are immutable once a run has been built.
type Run struct {
	Root     dom.NodeID
	Text     []rune
	Attrs    []CharAttrs
	elements map[dom.NodeID]*Element
	order    []dom.NodeID // elements in document order
	text     *styled.Text // text with runs of equal delimiter/path/level
}

func newRun(root dom.NodeID) *Run {
	return &Run{
		Root:     root,
		elements: make(map[dom.NodeID]*Element),
	}
}

// Len returns the number of characters of r.
func (r *Run) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Text)
}

func (r *Run) String() string {
	if r == nil {
		return ""
	}
	return string(r.Text)
}

// Element returns the element record for id.
func (r *Run) Element(id dom.NodeID) (*Element, bool) {
	e, ok := r.elements[id]
	return e, ok
}

// Elements returns all elements contributing to r, in document order.
func (r *Run) Elements() []*Element {
	elems := make([]*Element, 0, len(r.order))
	for _, id := range r.order {
		elems = append(elems, r.elements[id])
	}
	return elems
}

// Styles returns the styles of character i.
func (r *Run) Styles(i int) *style.Styles {
	if i < 0 || i >= len(r.Attrs) {
		return nil
	}
	if e, ok := r.elements[r.Attrs[i].Delimiter]; ok {
		return e.Styles
	}
	return nil
}

// CharRange returns the first and last character attributed to element e or
// one of its descendants. ok is false if e did not contribute characters.
func (r *Run) CharRange(e dom.NodeID) (first, last int, ok bool) {
	elem, found := r.elements[e]
	if !found || !elem.HasChars() {
		return -1, -1, false
	}
	return elem.First, elem.Last, true
}

// Segment is a maximal range of characters sharing delimiter, text path and
// embedding level. Each segment is shaped separately.
type Segment struct {
	Start, End int // characters [Start, End)
	Delimiter  dom.NodeID
	PathRef    dom.NodeID
	Level      int8
	NewChunk   bool // the segment starts a text chunk
}

func (seg Segment) Len() int {
	return seg.End - seg.Start
}

func (seg Segment) String() string {
	return fmt.Sprintf("[%d,%d)", seg.Start, seg.End)
}

// Segments partitions r into segments. A new text chunk starts at every
// character with an absolute position, and wherever a text path starts or
// ends.
func (r *Run) Segments() []Segment {
	if r.Len() == 0 {
		return nil
	}
	var segs []Segment
	start := 0
	err := r.text.EachStyleRun(func(content string, sty styled.Style, pos uint64) error {
		key := sty.(runKey)
		n := utf8.RuneCountInString(content)
		seg := Segment{Start: start, End: start + n, Delimiter: key.delimiter,
			PathRef: key.path, Level: key.level}
		segs = append(segs, r.splitChunks(seg, len(segs) == 0, segs)...)
		start += n
		return nil
	})
	if err != nil || start != r.Len() {
		panic(fmt.Sprintf("attributed run: style runs do not cover text (%d of %d)", start, r.Len()))
	}
	return segs
}

func (r *Run) splitChunks(seg Segment, first bool, prev []Segment) []Segment {
	var out []Segment
	seg.NewChunk = first || (len(prev) > 0 && prev[len(prev)-1].PathRef != seg.PathRef)
	for i := seg.Start + 1; i < seg.End; i++ {
		if r.Attrs[i].X.Set || r.Attrs[i].Y.Set {
			head := seg
			head.End = i
			out = append(out, head)
			seg.Start = i
			seg.NewChunk = true
		}
	}
	if r.Attrs[seg.Start].X.Set || r.Attrs[seg.Start].Y.Set {
		seg.NewChunk = true
	}
	return append(out, seg)
}

// --- Styled text ------------------------------------------------------------

// runKey is the style of a styled text run.
type runKey struct {
	delimiter dom.NodeID
	path      dom.NodeID
	level     int8
}

func keyOf(a CharAttrs) runKey {
	return runKey{delimiter: a.Delimiter, path: a.PathRef, level: a.Level}
}

func (k runKey) String() string {
	return fmt.Sprintf("<%d/%d/%d>", k.delimiter, k.path, k.level)
}

func (k runKey) Equals(other styled.Style) bool {
	o, ok := other.(runKey)
	return ok && o == k
}

// leaf is a cords leaf holding a fragment of run text.
type leaf struct {
	content string
}

func (l leaf) Weight() uint64 {
	return uint64(len(l.content))
}

func (l leaf) String() string {
	return l.content
}

func (l leaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	return leaf{content: l.content[:i]}, leaf{content: l.content[i:]}
}

func (l leaf) Substring(i, j uint64) []byte {
	return []byte(l.content[i:j])
}

var _ cords.Leaf = leaf{}

// seal creates the styled text for r, one leaf per run of equal keys.
func (r *Run) seal() {
	b := styled.NewTextBuilder()
	var sb strings.Builder
	for i, c := range r.Text {
		sb.WriteRune(c)
		if i == len(r.Text)-1 || keyOf(r.Attrs[i]) != keyOf(r.Attrs[i+1]) {
			b.Append(leaf{content: sb.String()}, keyOf(r.Attrs[i]))
			sb.Reset()
		}
	}
	r.text = b.Text()
}
