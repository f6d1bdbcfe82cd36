package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/stats"
	"github.com/inference-sim/clinic-sim/sim/trace"
)

// printSummary displays the run summary. An empty run prints the zero state.
func printSummary(w io.Writer, run *sim.RunResult) {
	summary, err := stats.Summarize(run)
	fmt.Fprintln(w, "=== Clinic Simulation Summary ===")
	fmt.Fprintf(w, "Run ID               : %s\n", run.ID)
	fmt.Fprintf(w, "Seed                 : %d\n", run.Key)
	fmt.Fprintf(w, "Termination          : %s\n", run.Termination)
	fmt.Fprintf(w, "Doctors / Pharmacists: %d / %d\n", summary.DoctorCount, summary.PharmacistCount)
	fmt.Fprintf(w, "Total Patients       : %d\n", summary.TotalPatients)
	if errors.Is(err, sim.ErrEmptyRun) {
		fmt.Fprintln(w, "No patients were served in this shift.")
		return
	}
	fmt.Fprintf(w, "Avg Wait (consult)   : %.2f min\n", summary.AvgWaitConsult)
	fmt.Fprintf(w, "Avg Wait (dispense)  : %.2f min\n", summary.AvgWaitDispense)
	fmt.Fprintf(w, "Max Wait (consult)   : %d min\n", summary.MaxWaitConsult)
	fmt.Fprintf(w, "Max Wait (dispense)  : %d min\n", summary.MaxWaitDispense)
	fmt.Fprintf(w, "Avg Consult Time     : %.2f min\n", summary.AvgConsultTime)
	fmt.Fprintf(w, "Avg Dispense Time    : %.2f min\n", summary.AvgDispenseTime)
	fmt.Fprintf(w, "Doctor Utilization   : %.2f%%\n", summary.DoctorUtilizationPct)
	fmt.Fprintf(w, "Pharmacy Utilization : %.2f%%\n", summary.PharmacyUtilizationPct)
	fmt.Fprintf(w, "Throughput           : %.2f patients/hour\n", summary.ThroughputPerHour)

	dist, _ := stats.Distribute(run)
	fmt.Fprintln(w, "=== Wait Distribution (min) ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Bucket\tConsult\tDispense")
	for i, label := range dist.Labels {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", label, dist.ConsultCounts[i], dist.DispenseCounts[i])
	}
	_ = tw.Flush()
}

// printRecords displays every visit row; high waits are starred.
func printRecords(w io.Writer, rows []sim.VisitRow) {
	fmt.Fprintln(w, "=== Visit Records ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Patient\tArrival\tDoctor\tWait\tConsult\tWait\tDispense")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s-%s\t%s\t%s-%s\n",
			r.PatientID, r.ArrivalClock, r.DoctorLabel,
			waitCell(r.WaitConsultMinutes, r.HighWaitConsult), r.ConsultStartClock, r.ConsultEndClock,
			waitCell(r.WaitDispenseMinutes, r.HighWaitDispense), r.DispenseStartClock, r.DispenseEndClock)
	}
	_ = tw.Flush()
}

func waitCell(minutes int64, high bool) string {
	if high {
		return fmt.Sprintf("%d min *", minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// printTraceSummary displays decision trace aggregates.
func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Admission checks     : %d\n", ts.TotalDecisions)
	fmt.Fprintf(w, "Admitted / Rejected  : %d / %d\n", ts.AdmittedCount, ts.RejectedCount)
	for _, stage := range []trace.Stage{trace.StageConsult, trace.StageDispense} {
		fmt.Fprintf(w, "Queue delay (%s)  : mean %.2f, max %d min\n",
			stage, ts.MeanQueueDelay[stage], ts.MaxQueueDelay[stage])
	}
	keys := make([]string, 0, len(ts.ServerAssignment))
	for k := range ts.ServerAssignment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-18s : %d patients\n", k, ts.ServerAssignment[k])
	}
}

// runDocument is the JSON export of one run.
type runDocument struct {
	RunID        string             `json:"runId"`
	Seed         int64              `json:"seed"`
	Termination  sim.Termination    `json:"termination"`
	Config       sim.ShiftConfig    `json:"config"`
	Empty        bool               `json:"empty"`
	Summary      stats.Summary      `json:"summary"`
	Distribution stats.Distribution `json:"distribution"`
	Timeline     stats.Timeline     `json:"timeline"`
	Records      []sim.VisitRow     `json:"records"`
}

func buildRunDocument(run *sim.RunResult) runDocument {
	// Every view returns its zero state alongside ErrEmptyRun; nothing else can fail.
	summary, err := stats.Summarize(run)
	dist, _ := stats.Distribute(run)
	tl, _ := stats.BuildTimeline(run)
	return runDocument{
		RunID:        run.ID,
		Seed:         int64(run.Key),
		Termination:  run.Termination,
		Config:       run.Config,
		Empty:        errors.Is(err, sim.ErrEmptyRun),
		Summary:      summary,
		Distribution: dist,
		Timeline:     tl,
		Records:      run.Rows(),
	}
}

func writeRunDocument(path string, run *sim.RunResult) error {
	data, err := json.MarshalIndent(buildRunDocument(run), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logrus.Infof("Wrote run document to %s", path)
	return nil
}
