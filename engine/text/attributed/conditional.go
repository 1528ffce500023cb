package attributed

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/npillmayer/svgtext/engine/dom"
)

// supportedFeatures are the SVG 1.1 feature strings we claim to support for
// attribute requiredFeatures.
var supportedFeatures = map[string]bool{
	"http://www.w3.org/TR/SVG11/feature#SVG":                     true,
	"http://www.w3.org/TR/SVG11/feature#SVGDOM":                  true,
	"http://www.w3.org/TR/SVG11/feature#CoreAttribute":           true,
	"http://www.w3.org/TR/SVG11/feature#Structure":               true,
	"http://www.w3.org/TR/SVG11/feature#BasicStructure":          true,
	"http://www.w3.org/TR/SVG11/feature#ConditionalProcessing":   true,
	"http://www.w3.org/TR/SVG11/feature#Style":                   true,
	"http://www.w3.org/TR/SVG11/feature#Shape":                   true,
	"http://www.w3.org/TR/SVG11/feature#Text":                    true,
	"http://www.w3.org/TR/SVG11/feature#BasicText":               true,
	"http://www.w3.org/TR/SVG11/feature#PaintAttribute":          true,
	"http://www.w3.org/TR/SVG11/feature#BasicPaintAttribute":     true,
	"http://www.w3.org/TR/SVG11/feature#GraphicsAttribute":       true,
	"http://www.w3.org/TR/SVG11/feature#BasicGraphicsAttribute":  true,
	"http://www.w3.org/TR/SVG11/feature#Hyperlinking":            true,
	"http://www.w3.org/TR/SVG11/feature#XlinkAttribute":          true,
	"http://www.w3.org/TR/SVG11/feature#ExtensibilityAttribute": true,
}

// matchUserAgent evaluates the conditional processing attributes of element
// n against the user's language. An element failing one of the tests
// contributes no characters.
func matchUserAgent(doc *dom.Document, n dom.NodeID, userLang string) bool {
	if v, ok := doc.Attr(n, "requiredFeatures"); ok {
		fs := strings.Fields(v)
		if len(fs) == 0 {
			return false
		}
		for _, f := range fs {
			if !supportedFeatures[f] {
				return false
			}
		}
	}
	if _, ok := doc.Attr(n, "requiredExtensions"); ok {
		return false // no extensions supported
	}
	if v, ok := doc.Attr(n, "systemLanguage"); ok {
		return matchLanguage(v, userLang)
	}
	return true
}

// matchLanguage is true if one of the comma separated language tags in list
// matches user. Regions are compared only if both tags state one; a tag
// without a region matches all regions of its language.
func matchLanguage(list string, user string) bool {
	u, err := language.Parse(user)
	if err != nil {
		tracer().Errorf("cannot parse user language %q", user)
		return false
	}
	ubase, _ := u.Base()
	uregion, uconf := u.Region() // "en" infers region US
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		tag, err := language.Parse(entry)
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		if base != ubase {
			continue
		}
		region, conf := tag.Region()
		if conf != language.Exact || uconf != language.Exact || region == uregion {
			return true
		}
	}
	return false
}
