package fontregistry

import (
	"bufio"
	"bytes"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/font"
)

// FontConfigEntry describes a font file as listed by fontconfig's fc-list.
type FontConfigEntry struct {
	Families []string
	Path     string
	Style    xfont.Style
	Weight   xfont.Weight
}

// ParseFontConfigList reads the output of fc-list. Lines have the form
//
//	/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf: DejaVu Sans:style=Bold
//
// Font collections (.ttc) and lines without a family are skipped.
func ParseFontConfigList(r io.Reader) ([]FontConfigEntry, error) {
	var entries []FontConfigEntry
	scanner := bufio.NewScanner(r)
	ttc := 0
	for scanner.Scan() {
		fields := strings.Split(strings.TrimSpace(scanner.Text()), ":")
		if len(fields) < 2 {
			continue
		}
		fpath := strings.TrimSpace(fields[0])
		if strings.EqualFold(filepath.Ext(fpath), ".ttc") {
			ttc++
			continue
		}
		if !isFontFile(fpath) {
			continue
		}
		var families []string
		for _, fam := range strings.Split(fields[1], ",") {
			fam = strings.TrimPrefix(strings.TrimSpace(fam), ".")
			if fam != "" {
				families = append(families, fam)
			}
		}
		if len(families) == 0 {
			continue
		}
		e := FontConfigEntry{Families: families, Path: fpath}
		e.Style, e.Weight = GuessStyleAndWeight(fpath)
		if len(fields) > 2 {
			if styles := strings.TrimPrefix(strings.TrimSpace(fields[2]), "style="); styles != "" {
				// first style name is the English one
				e.Style, e.Weight = GuessStyleAndWeight(strings.Split(styles, ",")[0])
			}
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, core.WrapError(err, core.EINVALID, "cannot read fontconfig font list")
	}
	if ttc > 0 {
		tracer().Infof("skipping %d font collections listed by fontconfig", ttc)
	}
	return entries, nil
}

// UseFontConfig tells the registry to locate system fonts with the fc-list
// binary of fontconfig (https://www.freedesktop.org/wiki/Software/fontconfig/).
// The list of fonts is read once, when a family is first looked up.
//
// We call the binary instead of linking the C library to avoid version issues.
func (fr *Registry) UseFontConfig(fcList string) {
	fr.Lock()
	defer fr.Unlock()
	fr.fcBinary = fcList
	fr.fcLoaded = false
}

// SetFontConfigList sets the list of fonts known to fontconfig directly.
func (fr *Registry) SetFontConfigList(entries []FontConfigEntry) {
	fr.Lock()
	defer fr.Unlock()
	fr.fclist = entries
	fr.fcLoaded = true
}

// fontConfigList is called with the lock held.
func (fr *Registry) fontConfigList() []FontConfigEntry {
	if fr.fcLoaded || fr.fcBinary == "" {
		return fr.fclist
	}
	fr.fcLoaded = true
	if !filepath.IsAbs(fr.fcBinary) {
		tracer().Errorf("fontconfig binary must be an absolute path: %s", fr.fcBinary)
		return nil
	}
	out, err := exec.Command(fr.fcBinary).Output()
	if err != nil {
		tracer().Errorf("cannot run fontconfig: %v", err)
		return nil
	}
	if fr.fclist, err = ParseFontConfigList(bytes.NewReader(out)); err != nil {
		tracer().Errorf("%v", err)
	}
	tracer().Infof("fontconfig lists %d fonts", len(fr.fclist))
	return fr.fclist
}

// findFontConfigFont returns the path of the closest match for a family in the
// fontconfig list, or "".
func (fr *Registry) findFontConfigFont(family string, style xfont.Style, weight xfont.Weight) string {
	var best string
	bestConf := LowConfidence // need at least a match of the style
	for _, e := range fr.fontConfigList() {
		for _, fam := range e.Families {
			if !strings.EqualFold(fam, family) {
				continue
			}
			if conf := matchConfidence(e.Style, e.Weight, style, weight); conf > bestConf {
				best, bestConf = e.Path, conf
			}
		}
	}
	return best
}

func (fr *Registry) loadFontConfigFont(family string, style xfont.Style, weight xfont.Weight) *font.ScalableFont {
	fpath := fr.findFontConfigFont(family, style, weight)
	if fpath == "" {
		return nil
	}
	f, err := font.LoadOpenTypeFont(fpath)
	if err != nil {
		tracer().Errorf("cannot load font %s: %v", fpath, err)
		return nil
	}
	tracer().Infof("found font %s by fontconfig", fpath)
	return f
}
