package stats

import "github.com/inference-sim/clinic-sim/sim"

// Timeline is total time-in-system per patient, indexed by patient id.
type Timeline struct {
	PatientIDs       []int   `json:"patientIds"`
	TotalTimeMinutes []int64 `json:"totalTimeMinutes"`
}

// BuildTimeline returns dispense-end minus arrival for every patient.
func BuildTimeline(run *sim.RunResult) (Timeline, error) {
	tl := Timeline{
		PatientIDs:       make([]int, 0, run.Len()),
		TotalTimeMinutes: make([]int64, 0, run.Len()),
	}
	if run.Empty() {
		return tl, sim.ErrEmptyRun
	}
	run.Each(func(rec sim.VisitRecord) {
		tl.PatientIDs = append(tl.PatientIDs, rec.PatientID)
		tl.TotalTimeMinutes = append(tl.TotalTimeMinutes, rec.TimeInSystem())
	})
	return tl, nil
}

// Series holds the raw per-patient wait and service series used by charts.
type Series struct {
	WaitConsult   []int64   `json:"waitConsult"`
	WaitDispense  []int64   `json:"waitDispense"`
	ConsultTimes  []float64 `json:"consultTimes"`
	DispenseTimes []float64 `json:"dispenseTimes"`
}

// BuildSeries returns per-patient waits and service durations in patient order.
func BuildSeries(run *sim.RunResult) (Series, error) {
	n := run.Len()
	s := Series{
		WaitConsult:   make([]int64, 0, n),
		WaitDispense:  make([]int64, 0, n),
		ConsultTimes:  make([]float64, 0, n),
		DispenseTimes: make([]float64, 0, n),
	}
	if run.Empty() {
		return s, sim.ErrEmptyRun
	}
	run.Each(func(rec sim.VisitRecord) {
		s.WaitConsult = append(s.WaitConsult, rec.WaitConsult)
		s.WaitDispense = append(s.WaitDispense, rec.WaitDispense)
		s.ConsultTimes = append(s.ConsultTimes, float64(rec.ConsultDuration()))
		s.DispenseTimes = append(s.DispenseTimes, float64(rec.DispenseDuration()))
	})
	return s, nil
}
