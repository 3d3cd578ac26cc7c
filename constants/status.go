package constants

// DocStatus is the canonical status for a processed document.
type DocStatus string

// Stable values (store these exact strings in the ledger).
const (
	DocStatusOK       DocStatus = "OK"        // completeness threshold reached
	DocStatusLowScore DocStatus = "LOW_SCORE" // text found, too few fields
	DocStatusNoText   DocStatus = "NO_TEXT"   // every acquisition backend came back empty
	DocStatusFailed   DocStatus = "FAILED"    // unexpected error at the document boundary
)

// RunStatus tracks a batch run in the ledger.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusFinished RunStatus = "FINISHED"
	RunStatusAborted  RunStatus = "ABORTED"
)
