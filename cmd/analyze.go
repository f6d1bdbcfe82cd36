package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/analysis"
	"github.com/inference-sim/clinic-sim/sim/dataset"
)

var (
	analyzeCSVPath    string  // Recorded dataset as CSV
	analyzeSQLitePath string  // Recorded dataset as SQLite
	analyzeWindow     float64 // Flat reference window in minutes
	analyzeJSON       bool    // Print the report as JSON
	analyzeLogLevel   string  // Log verbosity level
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a recorded day of visits and detect the bottleneck stage",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(analyzeLogLevel)

		if (analyzeCSVPath == "") == (analyzeSQLitePath == "") {
			logrus.Fatalf("Exactly one of --csv or --sqlite is required")
		}
		var rows []sim.VisitRow
		var err error
		if analyzeCSVPath != "" {
			rows, err = dataset.LoadCSV(analyzeCSVPath)
		} else {
			rows, err = dataset.LoadSQLite(context.Background(), analyzeSQLitePath)
		}
		if err != nil {
			logrus.Fatalf("Loading dataset: %v", err)
		}
		logrus.Infof("Loaded %d visits", len(rows))

		report, err := analysis.Analyze(rows, analyzeWindow)
		if errors.Is(err, sim.ErrEmptyRun) {
			logrus.Warn("Dataset has no visits; reporting zero state")
		} else if err != nil {
			logrus.Fatalf("Analysis failed: %v", err)
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				logrus.Fatalf("Encoding report: %v", err)
			}
			return
		}
		report.Print(os.Stdout)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCSVPath, "csv", "", "Recorded dataset in CSV form")
	analyzeCmd.Flags().StringVar(&analyzeSQLitePath, "sqlite", "", "Recorded dataset in SQLite form")
	analyzeCmd.Flags().Float64Var(&analyzeWindow, "window", analysis.DefaultReferenceWindowMinutes, "Flat reference window in minutes")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeLogLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(analyzeCmd)
}
