package flow

import (
	"strings"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/percent"
	"github.com/npillmayer/svgtext/engine/dom"
)

// RegionInfo is a rectangle text flows into.
type RegionInfo struct {
	Rect          dimen.Rect
	VerticalAlign float64 // 0 for top, 1 for bottom
}

// Regions collects the rectangles of the flowRegion children of a flowRoot,
// in document order. Attribute vertical-align of a flowRegion applies to
// its rectangles; rectangles may override it.
func Regions(doc *dom.Document, root dom.NodeID, reporter core.ErrorReporter) []RegionInfo {
	var regions []RegionInfo
	for _, fr := range doc.Children(root) {
		if doc.Kind(fr) != dom.KindFlowRegion {
			continue
		}
		align := verticalAlign(doc, fr, 0, reporter)
		for _, r := range doc.Children(fr) {
			if doc.Kind(r) != dom.KindRect {
				continue
			}
			rect, ok := rectangle(doc, r, reporter)
			if !ok {
				continue
			}
			regions = append(regions, RegionInfo{
				Rect:          rect,
				VerticalAlign: verticalAlign(doc, r, align, reporter),
			})
		}
	}
	tracer().Debugf("flow root %d has %d regions", root, len(regions))
	return regions
}

func rectangle(doc *dom.Document, n dom.NodeID, reporter core.ErrorReporter) (dimen.Rect, bool) {
	var v [4]dimen.Dimen
	for i, name := range []string{"x", "y", "width", "height"} {
		s, ok := doc.Attr(n, name)
		if !ok {
			continue
		}
		d, err := dimen.ParseLength(s, dimen.Context{})
		if err != nil {
			core.Report(reporter, core.WrapError(err, core.EMALFORMED,
				"attribute %s=%q of flow region ignored", name, s))
			return dimen.NoRect, false
		}
		v[i] = d
	}
	if v[2] <= 0 || v[3] <= 0 {
		tracer().Debugf("empty flow region rectangle %d", n)
		return dimen.NoRect, false
	}
	return dimen.RectXYWH(v[0], v[1], v[2], v[3]), true
}

// verticalAlign reads attribute vertical-align: top, middle, bottom or a
// percentage.
func verticalAlign(doc *dom.Document, n dom.NodeID, dflt float64, reporter core.ErrorReporter) float64 {
	s, ok := doc.Attr(n, "vertical-align")
	if !ok {
		return dflt
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return 0
	case "middle", "center":
		return 0.5
	case "bottom":
		return 1
	}
	p, err := percent.FromString(s)
	if err != nil {
		core.Report(reporter, core.WrapError(err, core.EMALFORMED,
			"vertical-align %q of <%s> ignored", s, doc.Tag(n)))
		return dflt
	}
	return p.Fraction()
}
