package trace

import (
	"testing"
)

func TestSimulationTrace_RecordAdmission_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN an admission record is recorded
	st.RecordAdmission(AdmissionRecord{
		PatientID: 1,
		Clock:     0,
		Admitted:  true,
		Reason:    ReasonAdmitted,
	})

	// THEN the trace contains one admission record with correct data
	if len(st.Admissions) != 1 {
		t.Fatalf("expected 1 admission, got %d", len(st.Admissions))
	}
	if st.Admissions[0].PatientID != 1 {
		t.Errorf("expected patient 1, got %d", st.Admissions[0].PatientID)
	}
	if !st.Admissions[0].Admitted {
		t.Error("expected admitted=true")
	}
}

func TestSimulationTrace_RecordAssignment_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN an assignment record is recorded
	st.RecordAssignment(AssignmentRecord{
		PatientID: 3, Stage: StageDispense, Server: 0, ReadyAt: 14, Start: 18, Duration: 2,
	})

	// THEN the trace contains one assignment record with its queue delay
	if len(st.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(st.Assignments))
	}
	if got := st.Assignments[0].QueueDelay(); got != 4 {
		t.Errorf("expected queue delay 4, got %d", got)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN multiple records are added
	st.RecordAdmission(AdmissionRecord{PatientID: 1, Clock: 0, Admitted: true, Reason: ReasonAdmitted})
	st.RecordAdmission(AdmissionRecord{PatientID: 2, Clock: 3, Admitted: false, Reason: ReasonConsultAfterShift})

	// THEN order is preserved
	if st.Admissions[0].PatientID != 1 || st.Admissions[1].PatientID != 2 {
		t.Errorf("admission order not preserved: %+v", st.Admissions)
	}
}

func TestSimulationTrace_Enabled(t *testing.T) {
	tests := []struct {
		name string
		st   *SimulationTrace
		want bool
	}{
		{"nil trace", nil, false},
		{"level none", NewSimulationTrace(TraceConfig{Level: TraceLevelNone}), false},
		{"empty level", NewSimulationTrace(TraceConfig{}), false},
		{"decisions", NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"decisions", true},
		{"", true},
		{"detailed", false},
		{"DECISIONS", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
