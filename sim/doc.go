// Package sim provides the discrete-event simulation of a two-stage outpatient clinic:
// patients arrive, wait for a doctor (consultation), then wait for a pharmacist
// (dispensing).
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - config.go: ShiftConfig, the immutable per-run policy constants
//   - arrival.go: the arrival process over the shift window
//   - server_pool.go: earliest-free server selection for doctors and pharmacists
//   - simulator.go: the per-patient state machine that produces VisitRecords
//
// # Time model
//
// All times are integer minute offsets from the start of the shift. Wall-clock
// strings ("HH:MM") exist only at the edges; see clock.go.
//
// # Sub-packages
//
//   - sim/stats/: summary, wait distribution, timeline and per-patient series
//   - sim/analysis/: flat-window report and bottleneck classification for recorded datasets
//   - sim/dataset/: CSV and SQLite I/O for the visit record schema
//   - sim/trace/: optional decision trace (admissions and server assignments)
package sim
