package trace

import "fmt"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions   int
	AdmittedCount    int
	RejectedCount    int
	MeanQueueDelay   map[Stage]float64
	MaxQueueDelay    map[Stage]int64
	ServerAssignment map[string]int // "consult_0" → number of patients served
}

// ServerKey names a server within a stage, e.g. "consult_1".
func ServerKey(stage Stage, server int) string {
	return fmt.Sprintf("%s_%d", stage, server)
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		MeanQueueDelay:   make(map[Stage]float64),
		MaxQueueDelay:    make(map[Stage]int64),
		ServerAssignment: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.RejectedCount++
		}
	}

	totals := make(map[Stage]int64)
	counts := make(map[Stage]int)
	for _, a := range st.Assignments {
		summary.ServerAssignment[ServerKey(a.Stage, a.Server)]++
		delay := a.QueueDelay()
		totals[a.Stage] += delay
		counts[a.Stage]++
		if delay > summary.MaxQueueDelay[a.Stage] {
			summary.MaxQueueDelay[a.Stage] = delay
		}
	}
	for stage, n := range counts {
		summary.MeanQueueDelay[stage] = float64(totals[stage]) / float64(n)
	}

	return summary
}
