package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/trace"
)

func seededRun(t *testing.T) *sim.RunResult {
	t.Helper()
	run, err := sim.RunShift(sim.DefaultShiftConfig(), sim.NewSimulationKey(42), nil)
	require.NoError(t, err)
	return run
}

func TestPrintSummary_SeededRun(t *testing.T) {
	run := seededRun(t)
	var buf bytes.Buffer

	printSummary(&buf, run)

	out := buf.String()
	assert.Contains(t, out, "=== Clinic Simulation Summary ===")
	assert.Contains(t, out, "Seed                 : 42")
	assert.Contains(t, out, "Doctors / Pharmacists: 2 / 1")
	assert.Contains(t, out, "Doctor Utilization")
	assert.Contains(t, out, "=== Wait Distribution (min) ===")
	assert.Contains(t, out, "60+")
}

func TestPrintSummary_EmptyRun(t *testing.T) {
	// GIVEN a run that served no one
	run, err := sim.NewRunResult(sim.DefaultShiftConfig(), nil)
	require.NoError(t, err)
	var buf bytes.Buffer

	// WHEN printed
	printSummary(&buf, run)

	// THEN the zero state is shown without aggregates
	out := buf.String()
	assert.Contains(t, out, "Total Patients       : 0")
	assert.Contains(t, out, "No patients were served in this shift.")
	assert.NotContains(t, out, "Throughput")
}

func TestPrintRecords_MarksHighWaits(t *testing.T) {
	rows := []sim.VisitRow{
		{PatientID: 1, DoctorLabel: "Dr. 1", ArrivalClock: "08:00", WaitConsultMinutes: 0},
		{PatientID: 2, DoctorLabel: "Dr. 2", ArrivalClock: "08:05", WaitConsultMinutes: 20, HighWaitConsult: true},
	}
	var buf bytes.Buffer

	printRecords(&buf, rows)

	// THEN only patient 2's row carries the marker
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "title, header and one line per row")
	assert.True(t, strings.HasPrefix(lines[2], "1 "), lines[2])
	assert.NotContains(t, lines[2], "*")
	assert.True(t, strings.HasPrefix(lines[3], "2 "), lines[3])
	assert.Contains(t, lines[3], "20 min *")
}

func TestPrintTraceSummary(t *testing.T) {
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	_, err := sim.RunShift(sim.DefaultShiftConfig(), sim.NewSimulationKey(42), st)
	require.NoError(t, err)
	var buf bytes.Buffer

	printTraceSummary(&buf, trace.Summarize(st))

	assert.Contains(t, buf.String(), "=== Decision Trace ===")
	assert.Contains(t, buf.String(), "consult_0")
	assert.Contains(t, buf.String(), "dispense_0")
}

func TestWriteRunDocument(t *testing.T) {
	run := seededRun(t)
	path := filepath.Join(t.TempDir(), "run.json")

	require.NoError(t, writeRunDocument(path, run))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc runDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, run.ID, doc.RunID)
	assert.Equal(t, int64(42), doc.Seed)
	assert.False(t, doc.Empty)
	assert.Len(t, doc.Records, run.Len())
	assert.Equal(t, run.Len(), doc.Summary.TotalPatients)
	assert.Len(t, doc.Timeline.TotalTimeMinutes, run.Len())
}

func TestBuildRunDocument_EmptyRun(t *testing.T) {
	run, err := sim.NewRunResult(sim.DefaultShiftConfig(), nil)
	require.NoError(t, err)

	doc := buildRunDocument(run)

	assert.True(t, doc.Empty)
	assert.Empty(t, doc.Records)
	assert.Equal(t, 2, doc.Summary.DoctorCount)
}
