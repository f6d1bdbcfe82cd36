package sim

import (
	"math"
)

// Reference clinic policy. These are the values the morning outpatient session
// was calibrated with; every one of them is overridable per run.
const (
	DefaultShiftDurationMinutes = 240 // 08:00-12:00
	DefaultNumDoctors           = 2
	DefaultNumPharmacists       = 1
	DefaultAvgArrivalInterval   = 6.0
	DefaultAvgConsultTime       = 6.0
	DefaultAvgDispenseTime      = 5.0
	DefaultShiftStartClock      = "08:00"
	DefaultPatientCap           = 40
	DefaultStdDevMinutes        = 0.5
)

// Clamps applied to every draw. Gaps of at least one minute keep arrivals strictly
// increasing and bound the run to ShiftDurationMinutes patients.
const (
	MinInterArrivalGap = 1
	MinServiceMinutes  = 2
)

// ShiftConfig groups the policy constants of one simulated shift.
// It is immutable for the duration of a run.
type ShiftConfig struct {
	ShiftDurationMinutes int64   `yaml:"shift_duration_minutes" json:"shiftDurationMinutes"`
	NumDoctors           int     `yaml:"num_doctors" json:"numDoctors"`
	NumPharmacists       int     `yaml:"num_pharmacists" json:"numPharmacists"`
	AvgArrivalInterval   float64 `yaml:"avg_arrival_interval" json:"avgArrivalInterval"`
	AvgConsultTime       float64 `yaml:"avg_consult_time" json:"avgConsultTime"`
	AvgDispenseTime      float64 `yaml:"avg_dispense_time" json:"avgDispenseTime"`
	ShiftStartClock      string  `yaml:"shift_start_clock" json:"shiftStartClock"`
	PatientCap           int     `yaml:"patient_cap" json:"patientCap"` // upper bound, not a target
	StdDevMinutes        float64 `yaml:"std_dev_minutes" json:"stdDevMinutes"`
}

// DefaultShiftConfig returns the reference morning-session policy.
func DefaultShiftConfig() ShiftConfig {
	return ShiftConfig{
		ShiftDurationMinutes: DefaultShiftDurationMinutes,
		NumDoctors:           DefaultNumDoctors,
		NumPharmacists:       DefaultNumPharmacists,
		AvgArrivalInterval:   DefaultAvgArrivalInterval,
		AvgConsultTime:       DefaultAvgConsultTime,
		AvgDispenseTime:      DefaultAvgDispenseTime,
		ShiftStartClock:      DefaultShiftStartClock,
		PatientCap:           DefaultPatientCap,
		StdDevMinutes:        DefaultStdDevMinutes,
	}
}

// NewShiftConfig validates cfg and returns it unchanged on success.
func NewShiftConfig(cfg ShiftConfig) (ShiftConfig, error) {
	if err := cfg.Validate(); err != nil {
		return ShiftConfig{}, err
	}
	return cfg, nil
}

// Validate returns a *ConfigError for the first field that violates policy.
func (c ShiftConfig) Validate() error {
	if c.ShiftDurationMinutes <= 0 {
		return &ConfigError{Field: "shift_duration_minutes", Reason: "must be positive"}
	}
	if c.NumDoctors < 1 {
		return &ConfigError{Field: "num_doctors", Reason: "must be at least 1"}
	}
	if c.NumPharmacists < 1 {
		return &ConfigError{Field: "num_pharmacists", Reason: "must be at least 1"}
	}
	if !finitePositive(c.AvgArrivalInterval) {
		return &ConfigError{Field: "avg_arrival_interval", Reason: "must be a finite positive number"}
	}
	if !finitePositive(c.AvgConsultTime) {
		return &ConfigError{Field: "avg_consult_time", Reason: "must be a finite positive number"}
	}
	if !finitePositive(c.AvgDispenseTime) {
		return &ConfigError{Field: "avg_dispense_time", Reason: "must be a finite positive number"}
	}
	if c.StdDevMinutes < 0 || math.IsNaN(c.StdDevMinutes) || math.IsInf(c.StdDevMinutes, 0) {
		return &ConfigError{Field: "std_dev_minutes", Reason: "must be a finite non-negative number"}
	}
	if c.PatientCap < 1 {
		return &ConfigError{Field: "patient_cap", Reason: "must be at least 1"}
	}
	if _, err := ParseClock(c.ShiftStartClock); err != nil {
		return &ConfigError{Field: "shift_start_clock", Reason: err.Error()}
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
