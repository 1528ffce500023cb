package attributed

import "strings"

// normalize applies the white space handling of SVG 1.1 to a string of
// character data.
//
// In preserve mode CR, LF and TAB become spaces and nothing is removed.
// Otherwise leading white space is removed if stripFirst is set, runs of
// white space collapse into a single space, and trailing spaces are removed
// if stripLast is set. If nothing remains and both strip flags are set, the
// result is a single space. ok is false if there is nothing to append.
func normalize(s string, preserve, stripFirst, stripLast bool) (string, bool) {
	var b strings.Builder
	if preserve {
		for _, c := range s {
			switch c {
			case '\n', '\r', '\t':
				b.WriteByte(' ')
			default:
				b.WriteRune(c)
			}
		}
	} else {
		if stripFirst {
			s = strings.TrimLeft(s, " \t\n\r")
		}
		space := false
		for _, c := range s {
			switch c {
			case ' ', '\t', '\n', '\r':
				if !space {
					b.WriteByte(' ')
					space = true
				}
			default:
				b.WriteRune(c)
				space = false
			}
		}
	}
	out := b.String()
	if stripLast && !preserve {
		out = strings.TrimRight(out, " ")
	}
	if out != "" {
		return out, true
	}
	if stripFirst && stripLast {
		return " ", true
	}
	return "", false
}
