package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one batch run for data transfer between layers.
type Run struct {
	ID         uuid.UUID  `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	InputDir   string     `json:"input_dir"`
	OutputPath string     `json:"output_path"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
}

// DocumentRun is the ledger entry for one processed document.
type DocumentRun struct {
	ID                uuid.UUID `json:"id"`
	RunID             uuid.UUID `json:"run_id"`
	Name              string    `json:"name"`
	Path              string    `json:"path"`
	Status            string    `json:"status"`
	Score             int       `json:"score"`
	PrimaryStrategy   string    `json:"primary_strategy"`
	SecondaryStrategy string    `json:"secondary_strategy"`
	ErrorMessage      *string   `json:"error_message,omitempty"`
	DurationMillis    int64     `json:"duration_ms"`
	ProcessedAt       time.Time `json:"processed_at"`
}
