package entity

import "github.com/joseph-ayodele/vending-reports/constants"

// Metadata is everything pulled from a report besides the numeric tables.
type Metadata struct {
	ID           string                          `json:"id"`
	Date         string                          `json:"date"`
	ReportNumber string                          `json:"report_number"`
	FreeCodes    [constants.FreeCodeCount]string `json:"free_codes"`
	Key1         string                          `json:"key_1"`
}

// Record is the per-document output row.
type Record struct {
	Document string // source file name
	Metadata Metadata
	Fields   Fields
	Score    int
	Status   constants.DocStatus
}

// NewRecord returns a blank record for the given document name.
func NewRecord(document string) Record {
	return Record{
		Document: document,
		Fields:   NewFields(),
		Status:   constants.DocStatusFailed,
	}
}

// OK reports whether the record reached the completeness threshold.
func (r Record) OK() bool {
	return r.Status == constants.DocStatusOK
}
