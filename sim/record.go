package sim

import "fmt"

// HighWaitMinutes is the wait above which a visit row is flagged.
const HighWaitMinutes = 15

// VisitRecord is one patient's completed timeline through both stages.
// Invariants: ArrivalAt <= ConsultStart <= ConsultEnd <= DispenseStart <= DispenseEnd.
type VisitRecord struct {
	PatientID       int // 1-based, arrival order
	DoctorIndex     int
	PharmacistIndex int
	ArrivalAt       int64
	ConsultStart    int64
	ConsultEnd      int64
	DispenseStart   int64
	DispenseEnd     int64
	WaitConsult     int64 // ConsultStart - ArrivalAt
	WaitDispense    int64 // DispenseStart - ConsultEnd
}

// ConsultDuration returns the consultation service time in minutes.
func (r VisitRecord) ConsultDuration() int64 {
	return r.ConsultEnd - r.ConsultStart
}

// DispenseDuration returns the dispensing service time in minutes.
func (r VisitRecord) DispenseDuration() int64 {
	return r.DispenseEnd - r.DispenseStart
}

// TimeInSystem returns minutes from arrival to the end of dispensing.
func (r VisitRecord) TimeInSystem() int64 {
	return r.DispenseEnd - r.ArrivalAt
}

// DoctorLabel renders the doctor as a 1-based display label.
func (r VisitRecord) DoctorLabel() string {
	return DoctorLabel(r.DoctorIndex)
}

// DoctorLabel renders a zero-based doctor index as "Dr. N".
func DoctorLabel(index int) string {
	return fmt.Sprintf("Dr. %d", index+1)
}

// Row renders the record as wall-clock strings relative to the shift start.
func (r VisitRecord) Row(startMinutes int64) VisitRow {
	row := VisitRow{
		PatientID:           r.PatientID,
		DoctorLabel:         r.DoctorLabel(),
		ArrivalClock:        FormatClock(startMinutes, r.ArrivalAt),
		ConsultStartClock:   FormatClock(startMinutes, r.ConsultStart),
		ConsultEndClock:     FormatClock(startMinutes, r.ConsultEnd),
		DispenseStartClock:  FormatClock(startMinutes, r.DispenseStart),
		DispenseEndClock:    FormatClock(startMinutes, r.DispenseEnd),
		WaitConsultMinutes:  r.WaitConsult,
		WaitDispenseMinutes: r.WaitDispense,
	}
	row.FlagHighWaits()
	return row
}

// VisitRow is the external view of a visit: clocks instead of offsets.
// It is also the schema of recorded datasets consumed by the analysis path.
type VisitRow struct {
	PatientID           int    `json:"patientId"`
	DoctorLabel         string `json:"doctorLabel"`
	ArrivalClock        string `json:"arrivalClock"`
	ConsultStartClock   string `json:"consultStartClock"`
	ConsultEndClock     string `json:"consultEndClock"`
	DispenseStartClock  string `json:"dispenseStartClock"`
	DispenseEndClock    string `json:"dispenseEndClock"`
	WaitConsultMinutes  int64  `json:"waitConsultMinutes"`
	WaitDispenseMinutes int64  `json:"waitDispenseMinutes"`
	HighWaitConsult     bool   `json:"highWaitConsult"`
	HighWaitDispense    bool   `json:"highWaitDispense"`
}

// FlagHighWaits sets the high-wait markers from the wait minutes.
func (r *VisitRow) FlagHighWaits() {
	r.HighWaitConsult = r.WaitConsultMinutes > HighWaitMinutes
	r.HighWaitDispense = r.WaitDispenseMinutes > HighWaitMinutes
}
