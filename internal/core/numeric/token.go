// Package numeric defines what a number looks like in a vending report
// and how it canonicalizes to a plain decimal string.
package numeric

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CurrencyMarker is the only currency suffix the reports carry.
const CurrencyMarker = "€"

var (
	// Alternatives are tried leftmost-first, most specific first:
	// space-grouped thousands only count when a decimal part or a currency
	// marker closes the token, otherwise "100 500" stays two columns.
	reToken = regexp.MustCompile(
		`-?\d{1,3}(?:[ \x{00A0}]\d{3})+(?:[.,]\d+)?[ \x{00A0}]?€` +
			`|-?\d{1,3}(?:[ \x{00A0}]\d{3})+[.,]\d+` +
			`|-?\d+(?:[.,]\d+)?(?:[ \x{00A0}]?€)?`)

	reDecimal = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// Token is one numeric token found in a text.
type Token struct {
	Raw   string // as it appears in the text
	Value string // canonical form
	Start int    // byte offsets in the scanned text
	End   int
}

// Canonicalize strips the currency marker and internal whitespace and
// turns a comma decimal separator into a point. It never fails: input
// that is not a number comes back cleaned but possibly still invalid,
// so callers decide validity with IsValid.
func Canonicalize(s string) string {
	s = strings.ReplaceAll(s, CurrencyMarker, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ReplaceAll(s, ",", ".")
}

// IsValid reports whether s is a plain decimal numeral: optional leading
// minus, digits, optional point and digits.
func IsValid(s string) bool {
	return reDecimal.MatchString(s)
}

// Scan returns the numeric tokens of s in order of appearance. Digits glued
// to letters, '/', ':' or another number (dates, times, "Cashless1") are
// not tokens.
func Scan(s string) []Token {
	var out []Token
	for _, loc := range reToken.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if !leftBoundary(s, start) || !rightBoundary(s, end) {
			continue
		}
		raw := s[start:end]
		out = append(out, Token{
			Raw:   raw,
			Value: Canonicalize(raw),
			Start: start,
			End:   end,
		})
	}
	return out
}

// Values returns the canonical values of the tokens of s.
func Values(s string) []string {
	toks := Scan(s)
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Value)
	}
	return out
}

func leftBoundary(s string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:start])
	return !glued(r)
}

func rightBoundary(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, size := utf8.DecodeRuneInString(s[end:])
	if r == '.' || r == ',' {
		// "12." at the end of a sentence is fine, "12.3.4" is not
		next, _ := utf8.DecodeRuneInString(s[end+size:])
		return end+size >= len(s) || !unicode.IsDigit(next)
	}
	return !glued(r)
}

func glued(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '/' || r == ':' || r == '_' || r == '-' || r == '.' || r == ','
}
