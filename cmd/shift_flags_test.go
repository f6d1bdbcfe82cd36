package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/clinic-sim/sim"
)

// newShiftCommand returns a command with freshly registered shift flags parsed from args.
func newShiftCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerShiftFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestResolveShiftConfig_DefaultsWhenNothingSet(t *testing.T) {
	c := newShiftCommand(t, "--defaults-filepath", repoDefaults(t))

	cfg, err := resolveShiftConfig(c)

	require.NoError(t, err)
	assert.Equal(t, sim.DefaultShiftConfig(), cfg)
}

func TestResolveShiftConfig_Precedence(t *testing.T) {
	// GIVEN the full-day preset, a file raising doctors to 3 and a flag raising them to 4
	file := writeFile(t, "shift.yaml", "num_doctors: 3\npatient_cap: 60\n")
	c := newShiftCommand(t,
		"--defaults-filepath", repoDefaults(t),
		"--preset", "full-day",
		"--config", file,
		"--doctors", "4",
	)

	// WHEN resolved
	cfg, err := resolveShiftConfig(c)
	require.NoError(t, err)

	// THEN flag beats file beats preset
	assert.Equal(t, 4, cfg.NumDoctors)
	assert.Equal(t, 60, cfg.PatientCap)
	assert.Equal(t, int64(480), cfg.ShiftDurationMinutes)
}

func TestResolveShiftConfig_UnchangedFlagDoesNotOverridePreset(t *testing.T) {
	// GIVEN --patient-cap left at its default while the preset sets 80
	c := newShiftCommand(t, "--defaults-filepath", repoDefaults(t), "--preset", "full-day")

	cfg, err := resolveShiftConfig(c)

	require.NoError(t, err)
	assert.Equal(t, 80, cfg.PatientCap)
}

func TestResolveShiftConfig_InvalidFlagRejected(t *testing.T) {
	c := newShiftCommand(t,
		"--defaults-filepath", filepath.Join(t.TempDir(), "absent.yaml"),
		"--pharmacists", "0",
	)

	_, err := resolveShiftConfig(c)

	var cfgErr *sim.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "num_pharmacists", cfgErr.Field)
}
