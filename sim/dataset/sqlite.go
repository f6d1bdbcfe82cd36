package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/inference-sim/clinic-sim/sim"
)

const createVisitsTable = `CREATE TABLE visits (
	patient_id INTEGER PRIMARY KEY,
	doctor_id TEXT NOT NULL,
	arrival_time TEXT NOT NULL,
	consult_start TEXT NOT NULL,
	consult_end TEXT NOT NULL,
	dispensing_start TEXT NOT NULL,
	dispensing_end TEXT NOT NULL,
	wait_consult_min INTEGER NOT NULL,
	wait_dispense_min INTEGER NOT NULL
)`

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite dataset path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// SaveSQLite replaces the visits table at path with rows in one transaction.
// Earlier contents are dropped; the file holds exactly one run.
func SaveSQLite(ctx context.Context, path string, rows []sim.VisitRow) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS visits`); err != nil {
		return fmt.Errorf("drop visits table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createVisitsTable); err != nil {
		return fmt.Errorf("create visits table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO visits (
		patient_id, doctor_id, arrival_time, consult_start, consult_end,
		dispensing_start, dispensing_end, wait_consult_min, wait_dispense_min
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.PatientID, r.DoctorLabel, r.ArrivalClock, r.ConsultStartClock, r.ConsultEndClock,
			r.DispenseStartClock, r.DispenseEndClock, r.WaitConsultMinutes, r.WaitDispenseMinutes,
		); err != nil {
			return fmt.Errorf("insert patient %d: %w", r.PatientID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSQLite reads the visits table at path in patient order.
func LoadSQLite(ctx context.Context, path string) ([]sim.VisitRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("SQLite dataset %s: %w", path, err)
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rs, err := db.QueryContext(ctx, `SELECT patient_id, doctor_id, arrival_time, consult_start, consult_end,
		dispensing_start, dispensing_end, wait_consult_min, wait_dispense_min
		FROM visits ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("select visits: %w", err)
	}
	defer func() { _ = rs.Close() }()

	var rows []sim.VisitRow
	for rs.Next() {
		var r sim.VisitRow
		if err := rs.Scan(&r.PatientID, &r.DoctorLabel, &r.ArrivalClock, &r.ConsultStartClock, &r.ConsultEndClock,
			&r.DispenseStartClock, &r.DispenseEndClock, &r.WaitConsultMinutes, &r.WaitDispenseMinutes); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.FlagHighWaits()
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return rows, nil
}
