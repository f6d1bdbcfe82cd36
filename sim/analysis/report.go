// Package analysis evaluates a recorded day of visits against a flat reference
// window and names the bottleneck stage.
//
// Its utilization figures differ from sim/stats: they divide total
// service minutes by one fixed window, with no per-server scaling and no overrun
// extension. They measure load against a reference session rather than achieved
// utilization of the staffed servers.
package analysis

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/clinic-sim/sim"
)

// DefaultReferenceWindowMinutes is the morning session, 08:00-12:00.
const DefaultReferenceWindowMinutes = 240

// BottleneckMarginPct is how far one stage's flat utilization must exceed the
// other's before it is named the bottleneck.
const BottleneckMarginPct = 5.0

// Bottleneck names the stage limiting throughput.
type Bottleneck string

const (
	BottleneckConsultation Bottleneck = "Consultation (Doctor)"
	BottleneckDispensing   Bottleneck = "Dispensing (Pharmacy)"
	BottleneckBalanced     Bottleneck = "Balanced / No clear bottleneck"
)

// FlatUtilization is 100 × serviceMinutes / windowMinutes.
func FlatUtilization(serviceMinutes, windowMinutes float64) float64 {
	return serviceMinutes / windowMinutes * 100
}

// ClassifyBottleneck compares flat utilizations with a strict margin.
func ClassifyBottleneck(doctorPct, dispensingPct float64) Bottleneck {
	switch {
	case doctorPct > dispensingPct+BottleneckMarginPct:
		return BottleneckConsultation
	case dispensingPct > doctorPct+BottleneckMarginPct:
		return BottleneckDispensing
	default:
		return BottleneckBalanced
	}
}

// Report is the daily performance summary of a recorded dataset.
type Report struct {
	TotalPatients            int        `json:"totalPatients"`
	ReferenceWindowMinutes   float64    `json:"referenceWindowMinutes"`
	AvgConsultTime           float64    `json:"avgConsultTime"`
	AvgDispenseTime          float64    `json:"avgDispenseTime"`
	AvgWaitConsult           float64    `json:"avgWaitConsult"`
	AvgWaitDispense          float64    `json:"avgWaitDispense"`
	DoctorUtilizationPct     float64    `json:"doctorUtilizationPct"`
	DispensingUtilizationPct float64    `json:"dispensingUtilizationPct"`
	ThroughputPerHour        float64    `json:"throughputPerHour"`
	Bottleneck               Bottleneck `json:"bottleneck"`
}

// Analyze computes the Report for rows. Service durations are derived from the
// clock columns, which must all be "HH:MM"; the first malformed clock aborts the
// analysis. Waits are taken from the recorded wait columns.
func Analyze(rows []sim.VisitRow, windowMinutes float64) (Report, error) {
	if !(windowMinutes > 0) {
		return Report{}, &sim.ConfigError{Field: "reference_window_minutes", Reason: "must be positive"}
	}
	report := Report{ReferenceWindowMinutes: windowMinutes}
	if len(rows) == 0 {
		return report, sim.ErrEmptyRun
	}

	consult := make([]float64, 0, len(rows))
	dispense := make([]float64, 0, len(rows))
	waitConsult := make([]float64, 0, len(rows))
	waitDispense := make([]float64, 0, len(rows))
	for i, row := range rows {
		if _, err := sim.ParseClock(row.ArrivalClock); err != nil {
			return Report{}, fmt.Errorf("row %d arrival: %w", i+1, err)
		}
		c, err := sim.MinutesBetween(row.ConsultStartClock, row.ConsultEndClock)
		if err != nil {
			return Report{}, fmt.Errorf("row %d consultation: %w", i+1, err)
		}
		d, err := sim.MinutesBetween(row.DispenseStartClock, row.DispenseEndClock)
		if err != nil {
			return Report{}, fmt.Errorf("row %d dispensing: %w", i+1, err)
		}
		consult = append(consult, float64(c))
		dispense = append(dispense, float64(d))
		waitConsult = append(waitConsult, float64(row.WaitConsultMinutes))
		waitDispense = append(waitDispense, float64(row.WaitDispenseMinutes))
	}

	report.TotalPatients = len(rows)
	report.AvgConsultTime = stat.Mean(consult, nil)
	report.AvgDispenseTime = stat.Mean(dispense, nil)
	report.AvgWaitConsult = stat.Mean(waitConsult, nil)
	report.AvgWaitDispense = stat.Mean(waitDispense, nil)
	report.DoctorUtilizationPct = FlatUtilization(floats.Sum(consult), windowMinutes)
	report.DispensingUtilizationPct = FlatUtilization(floats.Sum(dispense), windowMinutes)
	report.ThroughputPerHour = float64(len(rows)) / (windowMinutes / 60)
	report.Bottleneck = ClassifyBottleneck(report.DoctorUtilizationPct, report.DispensingUtilizationPct)
	return report, nil
}

// Print writes the report in the daily summary layout.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "----- OPD DAILY PERFORMANCE SUMMARY -----")
	fmt.Fprintf(w, "Total Patients: %d\n", r.TotalPatients)
	fmt.Fprintf(w, "Average Consultation Time (min): %.2f\n", r.AvgConsultTime)
	fmt.Fprintf(w, "Average Dispensing Time (min): %.2f\n", r.AvgDispenseTime)
	fmt.Fprintf(w, "Average Waiting Before Consultation (min): %.2f\n", r.AvgWaitConsult)
	fmt.Fprintf(w, "Average Waiting Before Dispensing (min): %.2f\n", r.AvgWaitDispense)
	fmt.Fprintf(w, "Doctor Utilization (%%): %.2f\n", r.DoctorUtilizationPct)
	fmt.Fprintf(w, "Dispensing Utilization (%%): %.2f\n", r.DispensingUtilizationPct)
	fmt.Fprintf(w, "Throughput (patients/hour): %.2f\n", r.ThroughputPerHour)
	fmt.Fprintf(w, "Detected Bottleneck: %s\n", r.Bottleneck)
}
