package sim

import (
	"slices"

	"github.com/rs/xid"
)

// Termination names why a run stopped admitting patients. All are normal outcomes.
type Termination string

const (
	// TerminationShiftComplete: the next arrival would fall at or after the end of the shift.
	TerminationShiftComplete Termination = "shift-complete"
	// TerminationPatientCap: the configured patient cap was reached.
	TerminationPatientCap Termination = "patient-cap"
	// TerminationBoundary: a patient could not start consultation before the shift ended.
	TerminationBoundary Termination = "boundary-reached"
)

// RunResult is the complete, read-only outcome of one simulation run.
// A re-run produces a new RunResult; nothing is ever appended to an existing one.
type RunResult struct {
	ID           string
	Key          SimulationKey
	Config       ShiftConfig
	Termination  Termination
	startMinutes int64
	records      []VisitRecord
}

// NewRunResult wraps externally produced records (recorded datasets, tests).
// The records are copied.
func NewRunResult(cfg ShiftConfig, records []VisitRecord) (*RunResult, error) {
	start, err := ParseClock(cfg.ShiftStartClock)
	if err != nil {
		return nil, err
	}
	return newRunResult(cfg, start, slices.Clone(records), ""), nil
}

func newRunResult(cfg ShiftConfig, startMinutes int64, records []VisitRecord, term Termination) *RunResult {
	return &RunResult{
		ID:           xid.New().String(),
		Config:       cfg,
		Termination:  term,
		startMinutes: startMinutes,
		records:      records,
	}
}

// Len returns the number of completed visits.
func (r *RunResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Empty reports whether the run has no visit records.
func (r *RunResult) Empty() bool {
	return r.Len() == 0
}

// Records returns a copy of the visit records in patient order.
func (r *RunResult) Records() []VisitRecord {
	if r == nil {
		return nil
	}
	return slices.Clone(r.records)
}

// Each calls fn for every record in patient order without copying.
func (r *RunResult) Each(fn func(VisitRecord)) {
	if r == nil {
		return
	}
	for _, rec := range r.records {
		fn(rec)
	}
}

// Rows renders every record as a VisitRow.
func (r *RunResult) Rows() []VisitRow {
	rows := make([]VisitRow, 0, r.Len())
	r.Each(func(rec VisitRecord) {
		rows = append(rows, rec.Row(r.startMinutes))
	})
	return rows
}

// LastDispenseEnd returns the latest dispensing completion offset, 0 for an empty run.
func (r *RunResult) LastDispenseEnd() int64 {
	var last int64
	r.Each(func(rec VisitRecord) {
		last = max(last, rec.DispenseEnd)
	})
	return last
}
