// Package trace provides decision-trace recording for clinic runs.
// It has no dependencies on sim/; records are plain data.
package trace

// Stage names a service stage a patient passes through.
type Stage string

const (
	StageConsult  Stage = "consult"
	StageDispense Stage = "dispense"
)

// Reasons recorded on admission decisions.
const (
	ReasonAdmitted          = "admitted"
	ReasonConsultAfterShift = "consult-start-after-shift"
)

// AdmissionRecord captures the consultation admission check for one patient.
type AdmissionRecord struct {
	PatientID int
	Clock     int64 // arrival offset in minutes
	Admitted  bool
	Reason    string
}

// AssignmentRecord captures one server assignment.
type AssignmentRecord struct {
	PatientID int
	Stage     Stage
	Server    int
	ReadyAt   int64
	Start     int64
	Duration  int64
}

// QueueDelay returns the minutes spent waiting for the assigned server.
func (a AssignmentRecord) QueueDelay() int64 {
	return a.Start - a.ReadyAt
}
