package fontregistry

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/derekparker/trie"
	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/dimen"
	"github.com/npillmayer/svgtext/core/font"
)

// Registry is a type for holding information about loaded fonts for a
// text layout engine. A registry is safe for concurrent use.
type Registry struct {
	sync.Mutex
	fonts     map[string]*font.ScalableFont
	typecases map[string]*font.TypeCase
	names     *trie.Trie // normalized names of stored fonts
	fontdirs  []string
	system    bool // look up system fonts
	fcBinary  string
	fclist    []FontConfigEntry
	fcLoaded  bool
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts and typecases.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
		if fc := gconf.GetString("fontconfig"); fc != "" {
			globalFontRegistry.UseFontConfig(fc)
		}
	})
	return globalFontRegistry
}

// NewRegistry creates a registry which knows about the Go fonts and will
// search system fonts.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:     make(map[string]*font.ScalableFont),
		typecases: make(map[string]*font.TypeCase),
		names:     trie.New(),
		system:    true,
	}
	for _, style := range []xfont.Style{xfont.StyleNormal, xfont.StyleItalic} {
		for _, weight := range []xfont.Weight{xfont.WeightNormal, xfont.WeightBold} {
			fr.storeFont(NormalizeFontname("Go", style, weight), font.GoFont(style, weight, false))
		}
	}
	fr.storeFont(NormalizeFontname("Go Mono", xfont.StyleNormal, xfont.WeightNormal),
		font.GoFont(xfont.StyleNormal, xfont.WeightNormal, true))
	return fr
}

// SetFontDirs sets directories to be searched for font files, before system
// fonts are searched.
func (fr *Registry) SetFontDirs(dirs []string) {
	fr.Lock()
	defer fr.Unlock()
	fr.fontdirs = dirs
}

// UseSystemFonts switches searching of system fonts on or off.
func (fr *Registry) UseSystemFonts(on bool) {
	fr.Lock()
	defer fr.Unlock()
	fr.system = on
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	fr.storeFont(normalizedName, f)
}

func (fr *Registry) storeFont(normalizedName string, f *font.ScalableFont) {
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
		fr.names.Add(normalizedName, f)
	}
}

// TypeCase returns a concrete typecase with a given font and size.
// If a suitable typecase has already been cached, TypeCase will return the cached
// typecase. If a suitable font has previously been stored under key
// `normalizedName`, a typecase will be derived from this font.
//
// If no typecase can be produced, TypeCase will derive one from the
// fallback font and return it, together with an error message.
func (fr *Registry) TypeCase(normalizedName string, size dimen.Dimen) (*font.TypeCase, error) {
	tracer().Debugf("registry searches for font %s at %.2f", normalizedName, size)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[normalizedName]; ok {
		return fr.cachedCase(normalizedName, f, size)
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	t, _ := fr.cachedCase("fallback", font.FallbackFont(), size)
	return t, core.Error(core.EMISSING, "font %s not found in registry", normalizedName)
}

// cachedCase is called with the lock held.
func (fr *Registry) cachedCase(key string, f *font.ScalableFont, size dimen.Dimen) (*font.TypeCase, error) {
	tname := appendSize(key, size)
	if t, ok := fr.typecases[tname]; ok {
		return t, nil
	}
	t, err := f.PrepareCase(size)
	if err != nil {
		return t, err
	}
	tracer().Infof("font registry has font %s, caches at %.2f", key, size)
	fr.typecases[tname] = t
	return t, nil
}

// ResolveFont finds a typecase for the first family of a CSS font-family list
// which can be resolved. Generic family names are recognized.
//
// If no family can be resolved, ResolveFont returns a typecase of the Go font
// with matching style and weight, together with an EMISSING error.
func (fr *Registry) ResolveFont(families []string, style xfont.Style, weight xfont.Weight,
	size dimen.Dimen) (*font.TypeCase, error) {
	//
	fr.Lock()
	defer fr.Unlock()
	for _, family := range families {
		family = strings.Trim(strings.TrimSpace(family), `"'`)
		if family == "" {
			continue
		}
		if key, f := fr.lookup(family, style, weight); f != nil {
			return fr.cachedCase(key, f, size)
		}
	}
	key := NormalizeFontname("Go", style, weight)
	f := font.GoFont(style, weight, false)
	tc, _ := fr.cachedCase(key, f, size)
	if len(families) == 0 {
		return tc, nil
	}
	tracer().Infof("none of %v resolved, using %s", families, key)
	return tc, core.Error(core.EMISSING, "font-family %s not found", strings.Join(families, ","))
}

// lookup is called with the lock held.
func (fr *Registry) lookup(family string, style xfont.Style, weight xfont.Weight) (string, *font.ScalableFont) {
	key := NormalizeFontname(family, style, weight)
	if f, ok := fr.fonts[key]; ok {
		return key, f
	}
	switch strings.ToLower(family) {
	case "serif", "sans-serif", "system-ui", "cursive", "fantasy":
		f := font.GoFont(style, weight, false)
		return NormalizeFontname("Go", style, weight), f
	case "monospace", "ui-monospace":
		f := font.GoFont(style, weight, true)
		return NormalizeFontname("Go Mono", xfont.StyleNormal, xfont.WeightNormal), f
	}
	base := NormalizeFontname(family, xfont.StyleNormal, xfont.WeightNormal)
	var best string
	bestConf := NoConfidence
	for _, cand := range fr.names.PrefixSearch(base) {
		s, w := GuessStyleAndWeight(cand)
		conf := matchConfidence(s, w, style, weight)
		if conf > bestConf || (conf == bestConf && conf > NoConfidence && len(cand) < len(best)) {
			best, bestConf = cand, conf
		}
	}
	if best != "" {
		tracer().Debugf("font %s matched stored font %s", family, best)
		return best, fr.fonts[best]
	}
	if f := fr.loadFromDirs(family, style, weight); f != nil {
		fr.storeFont(key, f)
		return key, f
	}
	if f := fr.loadSystemFont(family, style, weight); f != nil {
		fr.storeFont(key, f)
		return key, f
	}
	return "", nil
}

func (fr *Registry) loadFromDirs(family string, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	pattern := strings.ReplaceAll(family, " ", "")
	for _, dir := range fr.fontdirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			tracer().Errorf("cannot read font directory %s: %v", dir, err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isFontFile(e.Name()) {
				continue
			}
			if Matches(e.Name(), pattern, style, weight) {
				f, err := font.LoadOpenTypeFont(filepath.Join(dir, e.Name()))
				if err == nil {
					return f
				}
				tracer().Errorf("cannot load font %s: %v", e.Name(), err)
			}
		}
	}
	return nil
}

func (fr *Registry) loadSystemFont(family string, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	if !fr.system {
		return nil
	}
	if f := fr.loadFontConfigFont(family, style, weight); f != nil {
		return f
	}
	name := strings.ReplaceAll(family, " ", "")
	var variants []string
	switch {
	case isItalic(style) && isBold(weight):
		variants = []string{name + "-BoldItalic", name + "-BoldOblique"}
	case isItalic(style):
		variants = []string{name + "-Italic", name + "-Oblique"}
	case isBold(weight):
		variants = []string{name + "-Bold"}
	}
	variants = append(variants, name+"-Regular", name)
	for _, v := range variants {
		for _, ext := range []string{".ttf", ".otf"} {
			fpath, err := findfont.Find(v + ext) // try to find as system font
			if err != nil {
				continue
			}
			f, err := font.LoadOpenTypeFont(fpath)
			if err == nil {
				tracer().Infof("found system font %s", fpath)
				return f
			}
		}
	}
	return nil
}

// LogFontList is a helper function to dump the list of known fonts and typecases
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		tracer().Infof("typecase [%s] = %v", k, v.ScalableFontParent().Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// NormalizeFontname creates a registry key from a family name, style and weight.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	if isItalic(style) {
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight, xfont.WeightThin:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold, xfont.WeightBlack:
		fname += "-bold"
	}
	return fname
}

func appendSize(fname string, size dimen.Dimen) string {
	return fmt.Sprintf("%s-%.2f", fname, float64(size))
}

func isFontFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

func isItalic(style xfont.Style) bool {
	return style == xfont.StyleItalic || style == xfont.StyleOblique
}

func isBold(weight xfont.Weight) bool {
	return weight >= xfont.WeightSemiBold
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name or normalized registry name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	if isFontFile(fontfilename) {
		fontfilename = fontfilename[:len(fontfilename)-len(path.Ext(fontfilename))]
	}
	fontfilename = strings.ToLower(fontfilename)
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	} else if strings.Contains(fontfilename, "oblique") {
		style = xfont.StyleOblique
	}
	for _, token := range strings.FieldsFunc(fontfilename, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}) {
		switch strings.TrimSuffix(strings.TrimSuffix(token, "italic"), "oblique") {
		case "light", "xlight", "thin":
			weight = xfont.WeightLight
		case "bold", "b", "semibold":
			weight = xfont.WeightBold
		case "xbold", "extrabold", "black":
			weight = xfont.WeightExtraBold
		}
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	return isItalic(s) == isItalic(style) && isBold(w) == isBold(weight)
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

func matchConfidence(s xfont.Style, w xfont.Weight, style xfont.Style, weight xfont.Weight) MatchConfidence {
	switch {
	case s == style && w == weight:
		return PerfectConfidence
	case isItalic(s) == isItalic(style) && isBold(w) == isBold(weight):
		return HighConfidence
	case isItalic(s) == isItalic(style):
		return LowConfidence
	}
	return LowConfidence - 1
}
