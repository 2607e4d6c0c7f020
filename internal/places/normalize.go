package places

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical converts a place name to its join/lookup form: the string
// is decomposed, combining marks are dropped, and the result is
// upper-cased. The output is ASCII for any Portuguese place name and
// does not depend on process locale.
func Canonical(name string) string {
	// The transform chain carries state, so build it per call rather
	// than sharing one across goroutines.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(strip, name)
	if err != nil {
		stripped = name
	}
	return strings.ToUpper(stripped)
}
