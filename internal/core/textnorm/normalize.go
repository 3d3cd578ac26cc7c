package textnorm

import (
	"regexp"
	"strings"
)

var (
	reCR         = regexp.MustCompile(`\r`)
	reSpaceRun   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-=]{3,}\s*$`)
	reTrailingWS = regexp.MustCompile(`(?m)[ \t\f\v\x{00A0}]+$`)
)

// Normalize collapses whitespace variants while keeping line structure:
// carriage returns are dropped, runs of spaces/tabs/NBSP become one space
// and trailing whitespace is trimmed per line. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCR.ReplaceAllString(s, "")
	s = reSpaceRun.ReplaceAllString(s, " ")
	return reTrailingWS.ReplaceAllString(s, "")
}

// Flatten joins the whole text onto one line with single spaces.
// Used for label search, where line breaks between a label and its
// numbers must not matter.
func Flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lines returns the non-blank lines of s, in order.
func Lines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if strings.TrimSpace(ln) != "" {
			out = append(out, ln)
		}
	}
	return out
}

// StripBoxNoise blanks out OCR rule lines ("-----", "____").
func StripBoxNoise(s string) string {
	return reBoxNoise.ReplaceAllString(s, "")
}
