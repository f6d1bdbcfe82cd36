package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inference-sim/clinic-sim/sim"
)

var (
	// Shift policy flags, shared by run and serve
	defaultsFilePath     string  // Path to defaults.yaml with shift presets
	presetName           string  // Preset name in defaults.yaml
	shiftConfigPath      string  // Optional YAML file with a single shift config
	shiftDurationMinutes int64   // Length of the admission window
	numDoctors           int     // Doctors on shift
	numPharmacists       int     // Pharmacists on shift
	avgArrivalInterval   float64 // Mean minutes between arrivals
	avgConsultTime       float64 // Mean consultation minutes
	avgDispenseTime      float64 // Mean dispensing minutes
	shiftStartClock      string  // Wall clock of minute 0
	patientCap           int     // Upper bound on generated patients
	stdDevMinutes        float64 // Standard deviation of every draw
)

// registerShiftFlags attaches the shift policy flags to c.
func registerShiftFlags(c *cobra.Command) {
	c.Flags().StringVar(&defaultsFilePath, "defaults-filepath", "defaults.yaml", "Path to the shift presets file")
	c.Flags().StringVar(&presetName, "preset", "", "Shift preset from the defaults file (default: the file's default_preset)")
	c.Flags().StringVar(&shiftConfigPath, "config", "", "YAML file with shift config overrides")

	c.Flags().Int64Var(&shiftDurationMinutes, "shift-duration", sim.DefaultShiftDurationMinutes, "Shift length in minutes")
	c.Flags().IntVar(&numDoctors, "doctors", sim.DefaultNumDoctors, "Number of doctors")
	c.Flags().IntVar(&numPharmacists, "pharmacists", sim.DefaultNumPharmacists, "Number of pharmacists")
	c.Flags().Float64Var(&avgArrivalInterval, "arrival-interval", sim.DefaultAvgArrivalInterval, "Mean minutes between patient arrivals")
	c.Flags().Float64Var(&avgConsultTime, "consult-time", sim.DefaultAvgConsultTime, "Mean consultation minutes")
	c.Flags().Float64Var(&avgDispenseTime, "dispense-time", sim.DefaultAvgDispenseTime, "Mean dispensing minutes")
	c.Flags().StringVar(&shiftStartClock, "start", sim.DefaultShiftStartClock, "Shift start wall clock (HH:MM)")
	c.Flags().IntVar(&patientCap, "patient-cap", sim.DefaultPatientCap, "Maximum number of patients generated")
	c.Flags().Float64Var(&stdDevMinutes, "stddev", sim.DefaultStdDevMinutes, "Standard deviation of arrival and service draws")
}

// resolveShiftConfig layers preset < config file < explicitly set flags, then validates.
func resolveShiftConfig(c *cobra.Command) (sim.ShiftConfig, error) {
	cfg, err := presetShiftConfig(defaultsFilePath, presetName)
	if err != nil {
		return sim.ShiftConfig{}, err
	}
	if shiftConfigPath != "" {
		if cfg, err = loadShiftConfigFile(shiftConfigPath, cfg); err != nil {
			return sim.ShiftConfig{}, err
		}
	}

	flags := c.Flags()
	if flags.Changed("shift-duration") {
		cfg.ShiftDurationMinutes = shiftDurationMinutes
	}
	if flags.Changed("doctors") {
		cfg.NumDoctors = numDoctors
	}
	if flags.Changed("pharmacists") {
		cfg.NumPharmacists = numPharmacists
	}
	if flags.Changed("arrival-interval") {
		cfg.AvgArrivalInterval = avgArrivalInterval
	}
	if flags.Changed("consult-time") {
		cfg.AvgConsultTime = avgConsultTime
	}
	if flags.Changed("dispense-time") {
		cfg.AvgDispenseTime = avgDispenseTime
	}
	if flags.Changed("start") {
		cfg.ShiftStartClock = shiftStartClock
	}
	if flags.Changed("patient-cap") {
		cfg.PatientCap = patientCap
	}
	if flags.Changed("stddev") {
		cfg.StdDevMinutes = stdDevMinutes
	}
	return sim.NewShiftConfig(cfg)
}
