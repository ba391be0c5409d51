package pricing

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeCorrected    Outcome = "corrected"
	OutcomeWouldCorrect Outcome = "would_correct"
	OutcomeLocked       Outcome = "locked"
	OutcomeFailed       Outcome = "failed"
)

type ItemResult struct {
	ID       uuid.UUID `json:"id"`
	EventID  uuid.UUID `json:"event_id"`
	Outcome  Outcome   `json:"outcome"`
	OldValue float64   `json:"old_value"`
	NewValue float64   `json:"new_value"`
	Delta    float64   `json:"delta"`
	Error    string    `json:"error,omitempty"`
}

type Failure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// CorrectionReport aggregates one reconciliation run. TotalDelta covers
// applied corrections only; PendingDelta covers dry-run findings.
type CorrectionReport struct {
	TotalChecked   int          `json:"total_checked"`
	CorrectedCount int          `json:"corrected_count"`
	PendingCount   int          `json:"pending_count"`
	LockedCount    int          `json:"locked_count"`
	TotalDelta     float64      `json:"total_delta"`
	PendingDelta   float64      `json:"pending_delta"`
	DryRun         bool         `json:"dry_run"`
	Failures       []Failure    `json:"failures"`
	Items          []ItemResult `json:"items"`
}

func NewCorrectionReport(dryRun bool) *CorrectionReport {
	return &CorrectionReport{
		DryRun:   dryRun,
		Failures: []Failure{},
		Items:    []ItemResult{},
	}
}

// Add records one item. It is not safe for concurrent use.
func (r *CorrectionReport) Add(item ItemResult) {
	r.TotalChecked++
	switch item.Outcome {
	case OutcomeCorrected:
		r.CorrectedCount++
		r.TotalDelta += item.Delta
	case OutcomeWouldCorrect:
		r.PendingCount++
		r.PendingDelta += item.Delta
	case OutcomeLocked:
		r.LockedCount++
	case OutcomeFailed:
		r.Failures = append(r.Failures, Failure{ID: item.ID, Error: item.Error})
	}
	r.Items = append(r.Items, item)
}

func (r *CorrectionReport) HasFailures() bool {
	return len(r.Failures) > 0
}

// Sort orders items and failures by id so output is stable across runs.
func (r *CorrectionReport) Sort() {
	slices.SortFunc(r.Items, func(a, b ItemResult) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	slices.SortFunc(r.Failures, func(a, b Failure) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
