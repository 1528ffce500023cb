/*
Package fontregistry manages a registry for loaded fonts and resolves
CSS font-family lists to typecases.

Resolution of a family name goes through the following steps:

  - fonts already stored under the normalized name
  - CSS generic families (serif, sans-serif, monospace, …), mapped to the Go fonts
  - prefix search over the names of stored fonts, scoring style and weight
  - font files in configured font directories
  - system fonts listed by fontconfig, if configured (key "fontconfig" in
    the global configuration holds the path of the fc-list binary)
  - system fonts, located by go-findfont

If no family in the list resolves, the Go font is used as a fallback and an
EMISSING error is returned alongside it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'svgtext.font'
func tracer() tracing.Trace {
	return tracing.Select("svgtext.font")
}
