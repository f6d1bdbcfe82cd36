package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/clinic-sim/sim"
)

func seededRows(t *testing.T) []sim.VisitRow {
	t.Helper()
	run, err := sim.RunShift(sim.DefaultShiftConfig(), sim.NewSimulationKey(42), nil)
	require.NoError(t, err)
	return run.Rows()
}

func TestCSV_WriteThenRead_PreservesRows(t *testing.T) {
	// GIVEN the rows of a seeded run
	rows := seededRows(t)

	// WHEN written and read back
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	got, err := ReadCSV(&buf)

	// THEN every row survives unchanged
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t,
		"Patient_ID,Doctor_ID,Arrival_Time,Consult_start,Consult_end,Dispensing_start,Dispensing_end,Wait_consult(min),Wait_dispense(min)\n",
		buf.String())
}

func TestReadCSV_RecordedDatasetHeaderVariants(t *testing.T) {
	// GIVEN a recorded dataset with a lowercase arrival header, no identity
	// columns and spreadsheet-style float waits
	in := strings.Join([]string{
		"Arrival_time, Consult_start,Consult_end,Dispensing_start,Dispensing_end,Wait_consult(min),Wait_dispense(min)",
		"08:00,08:00,08:06,08:06,08:11,0,0",
		"08:05,08:06,08:12,08:12,08:30,1.0,16",
	}, "\n")

	// WHEN read
	rows, err := ReadCSV(strings.NewReader(in))

	// THEN rows are numbered by position and high waits flagged
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].PatientID)
	assert.Equal(t, "08:05", rows[1].ArrivalClock)
	assert.Equal(t, int64(1), rows[1].WaitConsultMinutes)
	assert.True(t, rows[1].HighWaitDispense)
	assert.Empty(t, rows[0].DoctorLabel)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty input", "", "empty input"},
		{"missing column", "Arrival_Time,Consult_start\n08:00,08:00\n", "missing column"},
		{
			"bad wait",
			"Arrival_Time,Consult_start,Consult_end,Dispensing_start,Dispensing_end,Wait_consult(min),Wait_dispense(min)\n" +
				"08:00,08:00,08:06,08:06,08:11,soon,0\n",
			"Wait_consult(min)",
		},
		{
			"bad patient id",
			"Patient_ID,Arrival_Time,Consult_start,Consult_end,Dispensing_start,Dispensing_end,Wait_consult(min),Wait_dispense(min)\n" +
				"p1,08:00,08:00,08:06,08:06,08:11,0,0\n",
			"Patient_ID",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveCSV_LoadCSV(t *testing.T) {
	rows := seededRows(t)
	path := filepath.Join(t.TempDir(), "opd_data.csv")

	require.NoError(t, SaveCSV(path, rows))
	got, err := LoadCSV(path)

	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)

	_, err = LoadCSV("")
	assert.Error(t, err)
}
