package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(g *ArrivalGenerator) []int64 {
	var out []int64
	for {
		v, ok := g.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestArrivalGenerator_FirstArrivalAtZero(t *testing.T) {
	cfg := DefaultShiftConfig()
	g := NewArrivalGenerator(cfg, NewScriptedSource(6))

	first, ok := g.Next()

	require.True(t, ok)
	assert.Equal(t, int64(0), first)
	assert.Equal(t, 1, g.Emitted())
}

func TestArrivalGenerator_StopsBeforeHorizon(t *testing.T) {
	// GIVEN a 30-minute shift and gaps of 3, 3, 1, 10, 20
	cfg := DefaultShiftConfig()
	cfg.ShiftDurationMinutes = 30
	g := NewArrivalGenerator(cfg, NewScriptedSource(3, 3, 1, 10, 20))

	// WHEN draining the generator
	got := drain(g)

	// THEN the overflowing arrival at 37 is never emitted
	assert.Equal(t, []int64{0, 3, 6, 7, 17}, got)
	assert.Equal(t, TerminationShiftComplete, g.Exhausted())
}

func TestArrivalGenerator_ArrivalExactlyAtHorizonExcluded(t *testing.T) {
	cfg := DefaultShiftConfig()
	cfg.ShiftDurationMinutes = 10
	g := NewArrivalGenerator(cfg, NewScriptedSource(5))

	assert.Equal(t, []int64{0, 5}, drain(g))
}

func TestArrivalGenerator_StopsAtCap(t *testing.T) {
	cfg := DefaultShiftConfig()
	cfg.PatientCap = 3
	g := NewArrivalGenerator(cfg, NewScriptedSource(1))

	got := drain(g)

	assert.Len(t, got, 3)
	assert.Equal(t, TerminationPatientCap, g.Exhausted())
}

func TestArrivalGenerator_StrictlyIncreasingWithClampedGaps(t *testing.T) {
	// GIVEN scripted gaps at or below zero
	cfg := DefaultShiftConfig()
	g := NewArrivalGenerator(cfg, NewScriptedSource(0, -4, 2))

	got := drain(g)

	// THEN every gap is clamped to one minute and arrivals still increase
	require.Greater(t, len(got), 3)
	assert.Equal(t, []int64{0, 1, 2, 4}, got[:4])
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("arrival %d (%d) not after arrival %d (%d)", i, got[i], i-1, got[i-1])
		}
	}
}

func TestArrivalGenerator_StaysExhausted(t *testing.T) {
	cfg := DefaultShiftConfig()
	cfg.PatientCap = 1
	g := NewArrivalGenerator(cfg, NewScriptedSource(1))
	drain(g)

	_, ok := g.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, g.Emitted())
}

func TestArrivalGenerator_ZeroDurationYieldsNothing(t *testing.T) {
	cfg := DefaultShiftConfig()
	cfg.ShiftDurationMinutes = 0
	g := NewArrivalGenerator(cfg, NewScriptedSource(1))

	assert.Empty(t, drain(g))
	assert.Equal(t, TerminationShiftComplete, g.Exhausted())
}

func TestArrivalGenerator_UnboundedCap_EndsAtShiftLength(t *testing.T) {
	// GIVEN an effectively unlimited cap and the minimum one-minute gap
	cfg := DefaultShiftConfig()
	cfg.PatientCap = math.MaxInt
	g := NewArrivalGenerator(cfg, NewScriptedSource(1))

	// WHEN draining the generator
	got := drain(g)

	// THEN the shift length alone bounds the sequence
	require.Len(t, got, int(cfg.ShiftDurationMinutes))
	assert.Equal(t, int64(239), got[len(got)-1])
	assert.Equal(t, TerminationShiftComplete, g.Exhausted())
}
