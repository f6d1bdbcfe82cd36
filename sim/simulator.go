// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim/trace"
)

// Simulator runs patients through consultation then dispensing.
// A run is synchronous and single-threaded; the server pools live only for the
// duration of Run.
type Simulator struct {
	Config       ShiftConfig
	sources      Sources
	startMinutes int64
	trace        *trace.SimulationTrace
}

// NewSimulator builds a Simulator. It does not apply ShiftConfig.Validate: a
// zero-length shift is accepted and simply produces an empty run. It does reject
// configurations the engine cannot execute at all.
func NewSimulator(cfg ShiftConfig, sources Sources) (*Simulator, error) {
	if !sources.complete() {
		return nil, fmt.Errorf("simulator: all three random sources are required")
	}
	if cfg.NumDoctors < 1 {
		return nil, &ConfigError{Field: "num_doctors", Reason: "must be at least 1"}
	}
	if cfg.NumPharmacists < 1 {
		return nil, &ConfigError{Field: "num_pharmacists", Reason: "must be at least 1"}
	}
	start, err := ParseClock(cfg.ShiftStartClock)
	if err != nil {
		return nil, &ConfigError{Field: "shift_start_clock", Reason: err.Error()}
	}
	return &Simulator{Config: cfg, sources: sources, startMinutes: start}, nil
}

// WithTrace attaches a decision trace; nil or level "none" disables recording.
func (s *Simulator) WithTrace(st *trace.SimulationTrace) *Simulator {
	s.trace = st
	return s
}

// Run executes one shift from the first arrival to termination.
func (s *Simulator) Run() *RunResult {
	cfg := s.Config
	doctors := NewServerPool("doctors", cfg.NumDoctors)
	pharmacists := NewServerPool("pharmacists", cfg.NumPharmacists)
	arrivals := NewArrivalGenerator(cfg, s.sources.Arrivals)

	logrus.Infof("Starting shift: %d min from %s, %d doctors, %d pharmacists, cap=%d",
		cfg.ShiftDurationMinutes, cfg.ShiftStartClock, doctors.Size(), pharmacists.Size(), cfg.PatientCap)

	records := make([]VisitRecord, 0, recordCapacity(cfg))
	var term Termination
	for {
		arrival, ok := arrivals.Next()
		if !ok {
			term = arrivals.Exhausted()
			break
		}
		patientID := arrivals.Emitted()

		rec, admitted := s.visit(patientID, arrival, doctors, pharmacists)
		if !admitted {
			term = TerminationBoundary
			break
		}
		records = append(records, rec)
	}

	logrus.Infof("[minute %04d] Shift ended (%s): %d patients served", cfg.ShiftDurationMinutes, term, len(records))
	return newRunResult(cfg, s.startMinutes, records, term)
}

// maxRecordCapacity bounds the up-front record allocation; longer runs grow by append.
const maxRecordCapacity = 1024

// recordCapacity is the initial record slice capacity for cfg.
func recordCapacity(cfg ShiftConfig) int {
	if cfg.ShiftDurationMinutes <= 0 || cfg.PatientCap <= 0 {
		return 0
	}
	return int(min(int64(cfg.PatientCap), cfg.ShiftDurationMinutes, maxRecordCapacity))
}

// visit walks one patient through both stages. It returns admitted=false when
// consultation could not start before the shift ends; nothing is committed then.
func (s *Simulator) visit(patientID int, arrival int64, doctors, pharmacists *ServerPool) (VisitRecord, bool) {
	cfg := s.Config
	logrus.Debugf("<< Arrival: patient %d at minute %d", patientID, arrival)

	consult := doctors.Assign(arrival)
	if consult.Start >= cfg.ShiftDurationMinutes {
		logrus.Debugf("patient %d rejected: %s %d free at minute %d, shift ends at %d",
			patientID, doctors.Name(), consult.Server, doctors.FreeAt(consult.Server), cfg.ShiftDurationMinutes)
		if s.trace.Enabled() {
			s.trace.RecordAdmission(trace.AdmissionRecord{
				PatientID: patientID, Clock: arrival, Admitted: false, Reason: trace.ReasonConsultAfterShift,
			})
		}
		return VisitRecord{}, false
	}

	consultDuration := s.sources.Consult.NormalInt(cfg.AvgConsultTime, cfg.StdDevMinutes, MinServiceMinutes)
	consultEnd := consult.Start + consultDuration
	doctors.Occupy(consult.Server, consultEnd)

	// Dispensing has no boundary check: an admitted patient is always served,
	// even past the end of the shift.
	dispense := pharmacists.Assign(consultEnd)
	dispenseDuration := s.sources.Dispense.NormalInt(cfg.AvgDispenseTime, cfg.StdDevMinutes, MinServiceMinutes)
	dispenseEnd := dispense.Start + dispenseDuration
	pharmacists.Occupy(dispense.Server, dispenseEnd)

	if s.trace.Enabled() {
		s.trace.RecordAdmission(trace.AdmissionRecord{
			PatientID: patientID, Clock: arrival, Admitted: true, Reason: trace.ReasonAdmitted,
		})
		s.trace.RecordAssignment(trace.AssignmentRecord{
			PatientID: patientID, Stage: trace.StageConsult, Server: consult.Server,
			ReadyAt: arrival, Start: consult.Start, Duration: consultDuration,
		})
		s.trace.RecordAssignment(trace.AssignmentRecord{
			PatientID: patientID, Stage: trace.StageDispense, Server: dispense.Server,
			ReadyAt: consultEnd, Start: dispense.Start, Duration: dispenseDuration,
		})
	}

	logrus.Debugf("pools after patient %d: %s %s", patientID, doctors, pharmacists)
	logrus.Debugf("patient %d: %s consult %d-%d, pharmacist %d dispense %d-%d",
		patientID, DoctorLabel(consult.Server), consult.Start, consultEnd, dispense.Server, dispense.Start, dispenseEnd)

	return VisitRecord{
		PatientID:       patientID,
		DoctorIndex:     consult.Server,
		PharmacistIndex: dispense.Server,
		ArrivalAt:       arrival,
		ConsultStart:    consult.Start,
		ConsultEnd:      consultEnd,
		DispenseStart:   dispense.Start,
		DispenseEnd:     dispenseEnd,
		WaitConsult:     consult.Start - arrival,
		WaitDispense:    dispense.Start - consultEnd,
	}, true
}

// RunShift validates cfg and runs one shift with streams derived from key.
func RunShift(cfg ShiftConfig, key SimulationKey, st *trace.SimulationTrace) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := NewSimulator(cfg, NewSeededSources(key))
	if err != nil {
		return nil, err
	}
	result := s.WithTrace(st).Run()
	result.Key = key
	return result, nil
}
