// Package testutil provides shared test infrastructure for the clinic simulator:
// golden scenario types and assertion helpers used by the sim/ sub-packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/inference-sim/clinic-sim/sim"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one shift with fully scripted draws and its hand-computed outcome.
type GoldenTestCase struct {
	Name              string          `json:"name"`
	Config            sim.ShiftConfig `json:"config"`
	ArrivalGaps       []int64         `json:"arrival_gaps"`
	ConsultDurations  []int64         `json:"consult_durations"`
	DispenseDurations []int64         `json:"dispense_durations"`
	Metrics           GoldenMetrics   `json:"metrics"`
}

// Sources builds the scripted draw streams of the test case.
func (tc GoldenTestCase) Sources() sim.Sources {
	return sim.Sources{
		Arrivals: sim.NewScriptedSource(tc.ArrivalGaps...),
		Consult:  sim.NewScriptedSource(tc.ConsultDurations...),
		Dispense: sim.NewScriptedSource(tc.DispenseDurations...),
	}
}

// GoldenMetrics represents the expected outcome of a golden test case.
type GoldenMetrics struct {
	// Exact match
	Termination     string  `json:"termination"`
	TotalPatients   int     `json:"total_patients"`
	MaxWaitConsult  int64   `json:"max_wait_consult"`
	MaxWaitDispense int64   `json:"max_wait_dispense"`
	ConsultCounts   []int   `json:"consult_counts"`
	DispenseCounts  []int   `json:"dispense_counts"`
	TotalTimes      []int64 `json:"total_time_minutes"`

	// Rounded to two decimals
	AvgWaitConsult         float64 `json:"avg_wait_consult"`
	AvgWaitDispense        float64 `json:"avg_wait_dispense"`
	AvgConsultTime         float64 `json:"avg_consult_time"`
	AvgDispenseTime        float64 `json:"avg_dispense_time"`
	DoctorUtilizationPct   float64 `json:"doctor_utilization_pct"`
	PharmacyUtilizationPct float64 `json:"pharmacy_utilization_pct"`
	ThroughputPerHour      float64 `json:"throughput_per_hour"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
