// Package stats derives summary metrics, histograms and time series from a
// completed RunResult. Every function is a pure recompute over the records;
// nothing is cached, so repeated calls on the same run agree exactly.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/clinic-sim/sim"
)

// Summary is the headline view of one run. Averages and percentages are
// rounded to two decimals; counts and maxima are exact.
type Summary struct {
	TotalPatients          int     `json:"totalPatients"`
	DoctorCount            int     `json:"doctorCount"`
	PharmacistCount        int     `json:"pharmacistCount"`
	AvgWaitConsult         float64 `json:"avgWaitConsult"`
	AvgWaitDispense        float64 `json:"avgWaitDispense"`
	AvgConsultTime         float64 `json:"avgConsultTime"`
	AvgDispenseTime        float64 `json:"avgDispenseTime"`
	MaxWaitConsult         int64   `json:"maxWaitConsult"`
	MaxWaitDispense        int64   `json:"maxWaitDispense"`
	DoctorUtilizationPct   float64 `json:"doctorUtilizationPct"`
	PharmacyUtilizationPct float64 `json:"pharmacyUtilizationPct"`
	ThroughputPerHour      float64 `json:"throughputPerHour"`
}

// Summarize computes the Summary of run. For an empty run it returns the
// zero-state summary (server counts filled in) together with sim.ErrEmptyRun.
func Summarize(run *sim.RunResult) (Summary, error) {
	summary := Summary{}
	if run != nil {
		summary.DoctorCount = run.Config.NumDoctors
		summary.PharmacistCount = run.Config.NumPharmacists
	}
	if run.Empty() {
		return summary, sim.ErrEmptyRun
	}

	c := collect(run)
	summary.TotalPatients = run.Len()
	summary.AvgWaitConsult = Round2(stat.Mean(c.waitConsult, nil))
	summary.AvgWaitDispense = Round2(stat.Mean(c.waitDispense, nil))
	summary.AvgConsultTime = Round2(stat.Mean(c.consult, nil))
	summary.AvgDispenseTime = Round2(stat.Mean(c.dispense, nil))
	summary.MaxWaitConsult = int64(floats.Max(c.waitConsult))
	summary.MaxWaitDispense = int64(floats.Max(c.waitDispense))
	summary.DoctorUtilizationPct = Round2(DoctorUtilization(run))
	summary.PharmacyUtilizationPct = Round2(PharmacyUtilization(run))
	summary.ThroughputPerHour = Round2(ThroughputPerHour(run))
	return summary, nil
}

// DoctorUtilization is 100 × Σ consult minutes / (shift minutes × doctors).
func DoctorUtilization(run *sim.RunResult) float64 {
	if run.Empty() {
		return 0
	}
	available := float64(run.Config.ShiftDurationMinutes) * float64(run.Config.NumDoctors)
	return 100 * floats.Sum(collect(run).consult) / available
}

// PharmacyUtilization is 100 × Σ dispense minutes / (window × pharmacists), where the
// window stretches to the last dispensing completion when it runs past the shift.
func PharmacyUtilization(run *sim.RunResult) float64 {
	if run.Empty() {
		return 0
	}
	window := max(run.Config.ShiftDurationMinutes, run.LastDispenseEnd())
	available := float64(window) * float64(run.Config.NumPharmacists)
	return 100 * floats.Sum(collect(run).dispense) / available
}

// ThroughputPerHour is completed patients per hour of nominal shift.
func ThroughputPerHour(run *sim.RunResult) float64 {
	if run.Empty() {
		return 0
	}
	return float64(run.Len()) / (float64(run.Config.ShiftDurationMinutes) / 60)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// columns holds per-record values as float64 slices in patient order.
type columns struct {
	waitConsult  []float64
	waitDispense []float64
	consult      []float64
	dispense     []float64
}

func collect(run *sim.RunResult) columns {
	n := run.Len()
	c := columns{
		waitConsult:  make([]float64, 0, n),
		waitDispense: make([]float64, 0, n),
		consult:      make([]float64, 0, n),
		dispense:     make([]float64, 0, n),
	}
	run.Each(func(rec sim.VisitRecord) {
		c.waitConsult = append(c.waitConsult, float64(rec.WaitConsult))
		c.waitDispense = append(c.waitDispense, float64(rec.WaitDispense))
		c.consult = append(c.consult, float64(rec.ConsultDuration()))
		c.dispense = append(c.dispense, float64(rec.DispenseDuration()))
	})
	return c
}
