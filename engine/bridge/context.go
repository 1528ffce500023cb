package bridge

import (
	"sort"
	"strings"

	"github.com/npillmayer/svgtext/core"
	"github.com/npillmayer/svgtext/core/font/fontregistry"
	"github.com/npillmayer/svgtext/core/parameters"
	"github.com/npillmayer/svgtext/engine/dom"
	"github.com/npillmayer/svgtext/engine/dom/style"
	"github.com/npillmayer/svgtext/engine/glyphing"
	"github.com/npillmayer/svgtext/engine/glyphing/glypher"
	"github.com/npillmayer/svgtext/engine/glyphing/gotext"
	"github.com/npillmayer/svgtext/engine/glyphing/harfbuzz"
	"github.com/npillmayer/svgtext/engine/glyphing/monospace"
	"github.com/npillmayer/svgtext/engine/text/attributed"
	"github.com/npillmayer/svgtext/engine/text/glyphlayout"
	"github.com/npillmayer/svgtext/engine/text/textpath"
)

// StyleResolver resolves styles and caches them until Reset is called.
// *style.DefaultResolver is a StyleResolver.
type StyleResolver interface {
	style.Resolver
	Reset()
}

// Context holds the collaborators shared by the text bridges of a document.
type Context struct {
	Doc      *dom.Document
	Regs     *parameters.LayoutRegisters
	Styles   StyleResolver
	Paths    *textpath.Provider
	Layouter *glyphlayout.Layouter
	Errors   *core.ErrorList // non-fatal display errors
}

// NewContext creates a context for doc. If regs is nil, registers are
// initialized from the global configuration. The shaper is selected by
// register P_SHAPER; font directories by P_FONTDIRS.
func NewContext(doc *dom.Document, regs *parameters.LayoutRegisters) *Context {
	if regs == nil {
		regs = parameters.FromConfig()
	}
	ctx := &Context{
		Doc:    doc,
		Regs:   regs,
		Paths:  textpath.NewProvider(),
		Errors: &core.ErrorList{},
	}
	ctx.Styles = style.NewResolver(regs, ctx.Errors)
	shaper, err := NewShaper(regs.S(parameters.P_SHAPER), regs)
	if err != nil {
		core.Report(ctx.Errors, err)
	}
	fonts := fontregistry.GlobalRegistry()
	if dirs := regs.FontDirs(); len(dirs) > 0 {
		fonts = fontregistry.NewRegistry()
		fonts.SetFontDirs(dirs)
	}
	ctx.Layouter = glyphlayout.NewLayouter(fonts, shaper, ctx.Errors)
	return ctx
}

// Builder returns a run builder working with the collaborators of ctx.
func (ctx *Context) Builder() *attributed.Builder {
	return attributed.NewBuilder(ctx.Doc, ctx.Styles, ctx.Paths, ctx.Regs, ctx.Errors)
}

// --- Shapers ---------------------------------------------------------------

var shapers = map[string]func(*parameters.LayoutRegisters) glyphing.Shaper{
	"harfbuzz": func(*parameters.LayoutRegisters) glyphing.Shaper {
		return harfbuzz.New()
	},
	"gotext": func(*parameters.LayoutRegisters) glyphing.Shaper {
		return gotext.New()
	},
	"monospace": func(regs *parameters.LayoutRegisters) glyphing.Shaper {
		return monospace.Shaper(regs.D(parameters.P_FONTSIZE)/2, nil) // cells of half an em
	},
	"simple": func(*parameters.LayoutRegisters) glyphing.Shaper {
		return glypher.Instance()
	},
}

// ShaperNames returns the names accepted by NewShaper.
func ShaperNames() []string {
	names := make([]string, 0, len(shapers))
	for name := range shapers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewShaper creates a shaper by name. Unknown names result in a HarfBuzz
// shaper and an EINVALID error.
func NewShaper(name string, regs *parameters.LayoutRegisters) (glyphing.Shaper, error) {
	if regs == nil {
		regs = parameters.NewLayoutRegisters()
	}
	if create, ok := shapers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return create(regs), nil
	}
	return harfbuzz.New(), core.Error(core.EINVALID, "unknown shaper %q, known are %s",
		name, strings.Join(ShaperNames(), ", "))
}
