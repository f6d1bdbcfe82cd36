package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/dataset"
	"github.com/inference-sim/clinic-sim/sim/trace"
)

var (
	// CLI flags for a single run
	seed        int64  // Seed for arrival and service draws
	logLevel    string // Log verbosity level
	traceLevel  string // Decision trace level
	showRecords bool   // Print every visit record
	csvOut      string // Export visit rows to CSV
	sqliteOut   string // Export visit rows to SQLite
	jsonOut     string // Write summary, distribution, timeline and rows as JSON
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "clinic-sim",
	Short: "Discrete-event simulator for a two-stage outpatient clinic",
}

// setLogLevel parses and applies a logrus level, exiting on an unknown value.
func setLogLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(parsed)
}

// simulationKey returns the seeded key when --seed was given, a fresh one otherwise.
func simulationKey(c *cobra.Command) sim.SimulationKey {
	if c.Flags().Changed("seed") {
		return sim.NewSimulationKey(seed)
	}
	key := sim.RandomSimulationKey()
	logrus.Infof("No --seed given; using %d", key)
	return key
}

// runCmd executes one shift using parameters from the preset, config file and flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clinic simulation once and print its summary",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, decisions", traceLevel)
		}
		cfg, err := resolveShiftConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid shift configuration: %v", err)
		}

		var st *trace.SimulationTrace
		if trace.TraceLevel(traceLevel) == trace.TraceLevelDecisions {
			st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		}

		run, err := sim.RunShift(cfg, simulationKey(cmd), st)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		printSummary(os.Stdout, run)
		if showRecords {
			printRecords(os.Stdout, run.Rows())
		}
		if st != nil {
			printTraceSummary(os.Stdout, trace.Summarize(st))
		}

		if csvOut != "" {
			if err := dataset.SaveCSV(csvOut, run.Rows()); err != nil {
				logrus.Fatalf("CSV export failed: %v", err)
			}
			logrus.Infof("Wrote %d rows to %s", run.Len(), csvOut)
		}
		if sqliteOut != "" {
			if err := dataset.SaveSQLite(context.Background(), sqliteOut, run.Rows()); err != nil {
				logrus.Fatalf("SQLite export failed: %v", err)
			}
			logrus.Infof("Wrote %d rows to %s", run.Len(), sqliteOut)
		}
		if jsonOut != "" {
			if err := writeRunDocument(jsonOut, run); err != nil {
				logrus.Fatalf("JSON export failed: %v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival and service draws (unset: random per run)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().BoolVar(&showRecords, "records", false, "Print every visit record")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "Export visit rows to this CSV file")
	runCmd.Flags().StringVar(&sqliteOut, "sqlite", "", "Export visit rows to this SQLite file (replaces its visits table)")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "Write the full run document to this JSON file")
	registerShiftFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
