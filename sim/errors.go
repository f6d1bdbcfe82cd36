package sim

import (
	"errors"
	"fmt"
)

// ErrEmptyRun is returned by aggregations over a run with zero visit records.
// Callers short-circuit to a zero-state response instead of dividing by zero.
var ErrEmptyRun = errors.New("run has no visit records")

// ConfigError rejects a ShiftConfig before any simulation executes.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid shift config: %s %s", e.Field, e.Reason)
}
