package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make genera un slug url-safe a partir del nombre: minúsculas, sin
// diacríticos, y cualquier otro carácter colapsado en un guion.
func Make(name string) string {
	// el transformador guarda estado interno, se construye por llamada
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(stripMarks, name)
	if err != nil {
		clean = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(clean) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
