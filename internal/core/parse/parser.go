// Package parse turns one normalized report text into a parse candidate:
// for every canonical field, the first label occurrence and up to three
// numbers that follow it.
package parse

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/core/labels"
	"github.com/joseph-ayodele/vending-reports/internal/core/numeric"
	"github.com/joseph-ayodele/vending-reports/internal/core/textnorm"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

// Default window widths, in characters.
const (
	NarrowWindow = 400
	WideWindow   = 800
)

// Column headings and indexed labels whose digit is part of the label,
// not a value ("Interim 2", "Cashless 1", "Code gratuit 3", "key 1").
var reIndexedLabel = regexp.MustCompile(`(?i)\b(?:interim|cashless|code\s+gratuit|free\s+code|key)\s*\d\b`)

// Parser recovers field triples from report text.
type Parser struct {
	labels *labels.Set
}

// NewParser returns a parser over the given label set (nil -> defaults).
func NewParser(set *labels.Set) *Parser {
	if set == nil {
		set = labels.Default()
	}
	return &Parser{labels: set}
}

// Labels returns the label set the parser matches against.
func (p *Parser) Labels() *labels.Set { return p.labels }

// Parse runs one pass over text with the given window. A field whose label
// is absent keeps a fully empty triple; fewer than three numbers leave the
// trailing slots empty.
func (p *Parser) Parse(text string, window int) entity.Fields {
	out := entity.NewFields()
	if window <= 0 {
		return out
	}
	flat := labels.Fold(textnorm.Flatten(text))
	if flat == "" {
		return out
	}
	for _, f := range p.labels.Fields() {
		end, ok := p.locate(flat, f)
		if !ok {
			continue
		}
		out[f] = grab(flat[end:], window)
	}
	return out
}

// locate returns the byte offset right after the first usable occurrence of
// the most specific variant of f present in flat.
func (p *Parser) locate(flat string, f constants.Field) (int, bool) {
	for _, v := range p.labels.Folded(f) {
		from := 0
		for from < len(flat) {
			i := strings.Index(flat[from:], v)
			if i < 0 {
				break
			}
			pos := from + i
			if !p.labels.Shadowed(flat, pos, len(v), f) {
				return pos + len(v), true
			}
			from = pos + 1
		}
	}
	return 0, false
}

// grab collects up to three numbers from the first window characters of s.
func grab(s string, window int) entity.Triple {
	var t entity.Triple
	w := maskIndexedLabels(runePrefix(s, window))
	n := 0
	for _, tok := range numeric.Scan(w) {
		if n == len(t) {
			break
		}
		if !numeric.IsValid(tok.Value) {
			continue
		}
		t[n] = tok.Value
		n++
	}
	return t
}

func maskIndexedLabels(s string) string {
	return reIndexedLabel.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return '#'
			}
			return r
		}, m)
	})
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
