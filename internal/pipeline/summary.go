package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/vending-reports/internal/core"
)

// Summary is the outcome of a run.
type Summary struct {
	RunID       string
	Total       int
	Succeeded   int
	Failed      int
	FailedFiles []string
	Skipped     []string
	Output      string
	StartedAt   time.Time
	FinishedAt  time.Time
}

func newSummary(output string) *Summary {
	return &Summary{Output: output, StartedAt: time.Now()}
}

func (s *Summary) add(out core.Outcome) {
	s.Total++
	if out.Record.OK() {
		s.Succeeded++
		return
	}
	s.Failed++
	s.FailedFiles = append(s.FailedFiles, filepath.Base(out.Path))
}

// Print writes the plain text run summary.
func (s *Summary) Print(w io.Writer) {
	if s.Total == 0 && len(s.Skipped) == 0 {
		fmt.Fprintln(w, "No PDF found, nothing to do.")
		return
	}
	fmt.Fprintf(w, "Documents processed: %d\n", s.Total)
	fmt.Fprintf(w, "Succeeded:           %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed:              %d\n", s.Failed)
	if len(s.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped:             %d (already processed)\n", len(s.Skipped))
	}
	if len(s.FailedFiles) > 0 {
		fmt.Fprintln(w, "Failed files:")
		for _, name := range s.FailedFiles {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
	if s.Total > 0 {
		fmt.Fprintf(w, "Output: %s (updated %s)\n", s.Output, s.FinishedAt.Format("02/01/2006 15:04:05"))
	}
	if s.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", s.RunID)
	}
}
