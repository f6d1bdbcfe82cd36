// Package dataset reads and writes visit rows in the recorded-dataset schema
// shared by simulator exports and the analysis path.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inference-sim/clinic-sim/sim"
)

// Column headers, in file order.
const (
	ColPatientID     = "Patient_ID"
	ColDoctorID      = "Doctor_ID"
	ColArrival       = "Arrival_Time"
	ColConsultStart  = "Consult_start"
	ColConsultEnd    = "Consult_end"
	ColDispenseStart = "Dispensing_start"
	ColDispenseEnd   = "Dispensing_end"
	ColWaitConsult   = "Wait_consult(min)"
	ColWaitDispense  = "Wait_dispense(min)"
)

// Header is the CSV header written by WriteCSV.
var Header = []string{
	ColPatientID, ColDoctorID, ColArrival, ColConsultStart, ColConsultEnd,
	ColDispenseStart, ColDispenseEnd, ColWaitConsult, ColWaitDispense,
}

// requiredColumns must be present when reading; identity columns are optional.
var requiredColumns = []string{
	ColArrival, ColConsultStart, ColConsultEnd, ColDispenseStart, ColDispenseEnd,
	ColWaitConsult, ColWaitDispense,
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []sim.VisitRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.PatientID),
			r.DoctorLabel,
			r.ArrivalClock,
			r.ConsultStartClock,
			r.ConsultEndClock,
			r.DispenseStartClock,
			r.DispenseEndClock,
			strconv.FormatInt(r.WaitConsultMinutes, 10),
			strconv.FormatInt(r.WaitDispenseMinutes, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row for patient %d: %w", r.PatientID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows from r. Header names are trimmed and matched
// case-insensitively, so "Arrival_time" is accepted. Clock columns are passed
// through unparsed; the analysis path validates them.
func ReadCSV(r io.Reader) ([]sim.VisitRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading CSV header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalize(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[normalize(col)]; !ok {
			return nil, fmt.Errorf("CSV header missing column %q", col)
		}
	}
	field := func(record []string, col string) (string, bool) {
		i, ok := index[normalize(col)]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	var rows []sim.VisitRow
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", rowIdx+1, err)
		}
		rowIdx++

		row := sim.VisitRow{PatientID: rowIdx}
		if v, ok := field(record, ColPatientID); ok && v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("CSV row %d: invalid %s %q: %w", rowIdx, ColPatientID, v, err)
			}
			row.PatientID = id
		}
		row.DoctorLabel, _ = field(record, ColDoctorID)
		row.ArrivalClock, _ = field(record, ColArrival)
		row.ConsultStartClock, _ = field(record, ColConsultStart)
		row.ConsultEndClock, _ = field(record, ColConsultEnd)
		row.DispenseStartClock, _ = field(record, ColDispenseStart)
		row.DispenseEndClock, _ = field(record, ColDispenseEnd)

		for _, w := range []struct {
			col string
			dst *int64
		}{
			{ColWaitConsult, &row.WaitConsultMinutes},
			{ColWaitDispense, &row.WaitDispenseMinutes},
		} {
			v, _ := field(record, w.col)
			n, err := parseMinutes(v)
			if err != nil {
				return nil, fmt.Errorf("CSV row %d: invalid %s %q: %w", rowIdx, w.col, v, err)
			}
			*w.dst = n
		}
		row.FlagHighWaits()
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV reads rows from a CSV file.
func LoadCSV(path string) ([]sim.VisitRow, error) {
	if path == "" {
		return nil, fmt.Errorf("CSV dataset path must not be empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV dataset %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// SaveCSV writes rows to path, replacing any existing file.
func SaveCSV(path string, rows []sim.VisitRow) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV dataset %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing CSV dataset %s: %w", path, closeErr)
		}
	}()
	return WriteCSV(file, rows)
}

func normalize(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// parseMinutes accepts integer minutes; spreadsheet exports sometimes write "12.0".
func parseMinutes(v string) (int64, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
