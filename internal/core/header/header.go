// Package header pulls report identity and the free-use codes out of a
// report text. It is independent of the numeric tables.
package header

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/core/textnorm"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

// Defaults for the identifier scan.
const (
	DefaultBrandMarker = "TOUCH"
	DefaultScanLines   = 150
)

var (
	reDate         = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
	reDateSuffix   = regexp.MustCompile(`\s*\d{2}/\d{2}/\d{4}.*$`)
	reReportNumber = regexp.MustCompile(`(?i)(?:Num[ée]ro\s+de\s+relev[ée]|Report\s+(?:number|no\.?|n°))\s*:\s*([0-9]+)`)
	reFreeCode     = regexp.MustCompile(`(?i)(?:Code\s+gratuit|Free\s+code)\s+(\d+)\s*:\s*([0-9]+(?:\*\*[0-9]/[0-9])?)`)
	reKey1         = regexp.MustCompile(`(?i)\bkey\s+1\s*:\s*([A-Za-z0-9]+)`)
)

// Extractor finds header fields with anchored patterns. Every field is
// "first match or empty".
type Extractor struct {
	brand     string
	scanLines int
}

// NewExtractor returns an extractor. brand is matched case-insensitively
// against the first scanLines non-blank lines.
func NewExtractor(brand string, scanLines int) *Extractor {
	if strings.TrimSpace(brand) == "" {
		brand = DefaultBrandMarker
	}
	if scanLines <= 0 {
		scanLines = DefaultScanLines
	}
	return &Extractor{brand: strings.ToUpper(brand), scanLines: scanLines}
}

// Extract reads the header of a normalized report text.
func (e *Extractor) Extract(text string) entity.Metadata {
	var md entity.Metadata
	lines := textnorm.Lines(text)
	joined := strings.Join(lines, "\n")

	md.ID = e.identifier(lines)
	md.Date = firstGroup(reDate, joined)
	md.ReportNumber = firstGroup(reReportNumber, joined)

	flat := textnorm.Flatten(text)
	for _, m := range reFreeCode.FindAllStringSubmatch(flat, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > constants.FreeCodeCount {
			continue
		}
		if md.FreeCodes[idx-1] == "" {
			md.FreeCodes[idx-1] = m[2]
		}
	}
	md.Key1 = firstGroup(reKey1, flat)
	return md
}

func (e *Extractor) identifier(lines []string) string {
	if len(lines) > e.scanLines {
		lines = lines[:e.scanLines]
	}
	for _, ln := range lines {
		if !strings.Contains(strings.ToUpper(ln), e.brand) {
			continue
		}
		id := textnorm.Flatten(ln)
		return strings.TrimSpace(reDateSuffix.ReplaceAllString(id, ""))
	}
	return ""
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
