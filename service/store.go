package service

import (
	"sync/atomic"

	"github.com/inference-sim/clinic-sim/sim"
)

// RunStore holds the current RunResult. Readers see either the previous complete
// run or the next one, never a partially built run.
type RunStore struct {
	current atomic.Pointer[sim.RunResult]
}

// NewRunStore creates an empty store; Load returns nil until the first Replace.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Load returns the current run, or nil before the first run.
func (s *RunStore) Load() *sim.RunResult {
	return s.current.Load()
}

// Replace installs run as the current result and returns the one it replaced.
func (s *RunStore) Replace(run *sim.RunResult) *sim.RunResult {
	return s.current.Swap(run)
}
