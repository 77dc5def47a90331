package models

// Import outcome keys used in ImportResult.Details.
const (
	OutcomeImported = "imported"
	OutcomeUpdated  = "updated"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

// ImportSummary holds the counters of a bulk or single-file import.
type ImportSummary struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// ImportResult is the full outcome of one import call: counters plus the
// resource names behind each counter, in processing order.
type ImportResult struct {
	Summary ImportSummary       `json:"summary"`
	Details map[string][]string `json:"details"`
}

// NewImportResult creates an empty result with all detail lists present.
func NewImportResult() *ImportResult {
	return &ImportResult{
		Details: map[string][]string{
			OutcomeImported: {},
			OutcomeUpdated:  {},
			OutcomeFailed:   {},
			OutcomeSkipped:  {},
		},
	}
}

// Record tallies one outcome for the named resource.
func (r *ImportResult) Record(outcome, name string) {
	r.Summary.Total++
	switch outcome {
	case OutcomeImported:
		r.Summary.Imported++
	case OutcomeUpdated:
		r.Summary.Updated++
	case OutcomeFailed:
		r.Summary.Failed++
	case OutcomeSkipped:
		r.Summary.Skipped++
	}
	r.Details[outcome] = append(r.Details[outcome], name)
}

// SingleFileResult synthesizes a one-item result from a single-file import
// action ("created" or "updated"), so both import paths display the same way.
func SingleFileResult(action, filename string) *ImportResult {
	r := NewImportResult()
	switch action {
	case "created":
		r.Record(OutcomeImported, filename)
	case "updated":
		r.Record(OutcomeUpdated, filename)
	default:
		r.Record(OutcomeFailed, filename)
	}
	return r
}
