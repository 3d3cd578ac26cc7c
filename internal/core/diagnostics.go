package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/core/acquire"
	"github.com/joseph-ayodele/vending-reports/internal/core/labels"
	"github.com/joseph-ayodele/vending-reports/internal/core/numeric"
	"github.com/joseph-ayodele/vending-reports/internal/core/textnorm"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

// Diagnostics is the structured dump written next to a document that did
// not reach the completeness threshold.
type Diagnostics struct {
	Document    string              `json:"document"`
	GeneratedAt time.Time           `json:"generated_at"`
	Status      constants.DocStatus `json:"status"`
	Score       int                 `json:"score"`
	MinScore    int                 `json:"min_score"`
	Error       string              `json:"error,omitempty"`
	Metadata    entity.Metadata     `json:"metadata"`
	Attempts    []DiagAttempt       `json:"attempts"`
	Candidates  []DiagCandidate     `json:"candidates"`
	Fields      entity.Fields       `json:"fields"`
	Lines       []DiagLine          `json:"lines"`
}

type DiagAttempt struct {
	Strategy   acquire.Strategy `json:"strategy"`
	Chars      int              `json:"chars"`
	DurationMS int64            `json:"duration_ms"`
	Error      string           `json:"error,omitempty"`
}

type DiagCandidate struct {
	Source string `json:"source"`
	Score  int    `json:"score"`
	Base   bool   `json:"base"`
}

// DiagLine is one non-blank line of the best text with the label it
// matched, if any, and the numbers it carries.
type DiagLine struct {
	Text    string          `json:"text"`
	Field   constants.Field `json:"field,omitempty"`
	Label   string          `json:"label,omitempty"`
	Numbers []string        `json:"numbers,omitempty"`
}

// BuildDiagnostics assembles the dump for an outcome.
func BuildDiagnostics(out Outcome, minScore int, set *labels.Set) Diagnostics {
	d := Diagnostics{
		Document:    filepath.Base(out.Path),
		GeneratedAt: time.Now().UTC(),
		Status:      out.Record.Status,
		Score:       out.Record.Score,
		MinScore:    minScore,
		Metadata:    out.Record.Metadata,
		Fields:      out.Record.Fields,
		Attempts:    make([]DiagAttempt, 0, len(out.Texts.Attempts)),
		Candidates:  make([]DiagCandidate, 0, len(out.Candidates)),
	}
	if out.Err != nil {
		d.Error = out.Err.Error()
	}
	for _, a := range out.Texts.Attempts {
		da := DiagAttempt{Strategy: a.Strategy, Chars: len(a.Text), DurationMS: a.Duration.Milliseconds()}
		if a.Err != nil {
			da.Error = a.Err.Error()
		}
		d.Attempts = append(d.Attempts, da)
	}
	for i, c := range out.Candidates {
		dc := DiagCandidate{Source: c.Source, Base: i == out.Merge.Base}
		if i < len(out.Merge.Scores) {
			dc.Score = out.Merge.Scores[i]
		}
		d.Candidates = append(d.Candidates, dc)
	}
	d.Lines = tokenizeLines(textnorm.Normalize(out.Texts.Best()), set)
	return d
}

func tokenizeLines(text string, set *labels.Set) []DiagLine {
	lines := textnorm.Lines(text)
	out := make([]DiagLine, 0, len(lines))
	for _, ln := range lines {
		dl := DiagLine{Text: strings.TrimSpace(ln), Numbers: numeric.Values(ln)}
		if set != nil {
			if f, key, ok := set.Match(ln); ok {
				dl.Field, dl.Label = f, key
			}
		}
		out = append(out, dl)
	}
	return out
}

// WriteDiagnostics writes the side files next to the document: each
// non-empty slot text and the JSON dump. It returns the paths written.
func WriteDiagnostics(docPath string, d Diagnostics, texts acquire.Texts) ([]string, error) {
	dir := filepath.Dir(docPath)
	name := filepath.Base(docPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	base := filepath.Join(dir, stem)

	var written []string
	write := func(path string, data []byte) error {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
		return nil
	}

	if !texts.Primary.Empty() {
		if err := write(base+constants.DiagText1Suffix, []byte(texts.Primary.Text)); err != nil {
			return written, err
		}
	}
	if !texts.Secondary.Empty() {
		if err := write(base+constants.DiagText2Suffix, []byte(texts.Secondary.Text)); err != nil {
			return written, err
		}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return written, fmt.Errorf("marshal diagnostics: %w", err)
	}
	if err := write(base+constants.DiagFieldsSuffix, data); err != nil {
		return written, err
	}
	return written, nil
}
