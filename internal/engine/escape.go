package engine

import (
	"strconv"
	"strings"
)

// escapeClass turns a class name into a valid CSS selector ident.
// Colons, brackets, dots and slashes in utility names all need escaping,
// and a leading digit becomes a unicode escape.
func escapeClass(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteString(`\3` + string(r) + " ")
			} else {
				b.WriteRune(r)
			}
		case r > 0x7f:
			b.WriteRune(r)
		case r < 0x20:
			b.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
