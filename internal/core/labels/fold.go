package labels

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Fold lowercases s and strips accents ("Espèces" -> "especes").
// Labels and haystacks are both folded before any containment check.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(quoteReplacer.Replace(out))
}
