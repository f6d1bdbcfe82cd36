// Package service exposes the latest simulation run over HTTP. Triggering a run
// and reading its views are independent operations; reads are pure functions of
// whichever complete run is current.
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/stats"
)

// Config configures a Service.
type Config struct {
	Shift sim.ShiftConfig
	// Seed makes runs reproducible: run n uses Seed+n. Nil draws a fresh key per run.
	Seed        *int64
	ReadTimeout time.Duration // 0 disables the read timeout
}

// Service owns the run store and re-runs the simulation on demand.
type Service struct {
	shift       sim.ShiftConfig
	seed        *int64
	readTimeout time.Duration
	store       *RunStore
	metrics     *Metrics

	mu    sync.Mutex // serializes re-runs so run numbers map to seeds in order
	count int64
}

// New validates cfg.Shift and returns a Service with no run yet.
func New(cfg Config) (*Service, error) {
	if err := cfg.Shift.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		shift:       cfg.Shift,
		seed:        cfg.Seed,
		readTimeout: cfg.ReadTimeout,
		store:       NewRunStore(),
		metrics:     NewMetrics(),
	}, nil
}

// Rerun executes a fresh simulation and atomically replaces the current run.
func (s *Service) Rerun() (*sim.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sim.RandomSimulationKey()
	if s.seed != nil {
		key = sim.NewSimulationKey(*s.seed + s.count)
	}
	start := time.Now()
	run, err := sim.RunShift(s.shift, key, nil)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	s.count++
	s.store.Replace(run)

	summary, err := stats.Summarize(run)
	if err != nil && !errors.Is(err, sim.ErrEmptyRun) {
		return nil, err
	}
	s.metrics.ObserveRun(run, summary.AvgWaitConsult, summary.AvgWaitDispense, elapsed)
	logrus.Infof("Run %s (seed %d): %d patients, %s", run.ID, run.Key, run.Len(), run.Termination)
	return run, nil
}

// Current returns the current run, or nil before the first run.
func (s *Service) Current() *sim.RunResult {
	return s.store.Load()
}

// Metrics returns the service collectors.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}
