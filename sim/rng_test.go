package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two partitioned RNGs with the same key
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	// WHEN drawing from the consult subsystem of each
	for i := 0; i < 3; i++ {
		a := rng1.ForSubsystem(SubsystemConsult).Float64()
		b := rng2.ForSubsystem(SubsystemConsult).Float64()
		// THEN the sequences are identical
		if a != b {
			t.Errorf("value %d: got %v and %v, want identical", i, a, b)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// GIVEN two RNGs with the same key
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	// WHEN A burns draws from consult and B does not
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemConsult).Float64()
	}

	// THEN the arrivals stream of both is unaffected
	for i := 0; i < 5; i++ {
		a := rngA.ForSubsystem(SubsystemArrivals).Float64()
		b := rngB.ForSubsystem(SubsystemArrivals).Float64()
		if a != b {
			t.Fatalf("arrival draw %d diverged after consult draws: %v vs %v", i, a, b)
		}
	}
}

func TestPartitionedRNG_ArrivalsUsesMasterSeed(t *testing.T) {
	// GIVEN a key of 42
	key := NewSimulationKey(42)
	rng := NewPartitionedRNG(key)

	// THEN the arrivals stream matches rand.NewSource(42) directly
	expected := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		got := rng.ForSubsystem(SubsystemArrivals).Float64()
		want := expected.Float64()
		if got != want {
			t.Errorf("arrivals draw %d = %v, want %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_SubsystemsDiffer(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(7))
	a := rng.ForSubsystem(SubsystemConsult).Int63()
	b := rng.ForSubsystem(SubsystemDispense).Int63()
	assert.NotEqual(t, a, b, "consult and dispense streams must be seeded differently")
}

func TestPartitionedRNG_Caching(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	r1 := rng.ForSubsystem(SubsystemDispense)
	r2 := rng.ForSubsystem(SubsystemDispense)
	if r1 != r2 {
		t.Error("ForSubsystem should return the cached instance for the same name")
	}
	assert.Equal(t, NewSimulationKey(42), rng.Key())
}

// === NormalSource Tests ===

func TestRandNormal_ClampsBelowMinimum(t *testing.T) {
	// GIVEN a mean far below the floor
	src := NewRandNormal(rand.New(rand.NewSource(1)))

	// WHEN drawing many values
	for i := 0; i < 1000; i++ {
		// THEN none is below the minimum
		if v := src.NormalInt(-50, 0.5, MinServiceMinutes); v < MinServiceMinutes {
			t.Fatalf("draw %d = %d, want >= %d", i, v, MinServiceMinutes)
		}
	}
}

func TestRandNormal_ZeroStdDevFloorsMean(t *testing.T) {
	src := NewRandNormal(rand.New(rand.NewSource(1)))
	assert.Equal(t, int64(5), src.NormalInt(5.9, 0, 1))
	assert.Equal(t, int64(6), src.NormalInt(6, 0, 1))
}

func TestRandNormal_DrawsCentreOnMean(t *testing.T) {
	src := NewRandNormal(rand.New(rand.NewSource(99)))
	var sum int64
	const n = 5000
	for i := 0; i < n; i++ {
		sum += src.NormalInt(6, 0.5, 1)
	}
	mean := float64(sum) / n
	// floor shifts the expected value by roughly half a minute
	assert.InDelta(t, 5.5, mean, 0.1)
}

func TestScriptedSource_ReplaysThenRepeatsLast(t *testing.T) {
	src := NewScriptedSource(3, 1, 7)
	got := []int64{
		src.NormalInt(0, 0, 0),
		src.NormalInt(0, 0, 0),
		src.NormalInt(0, 0, 0),
		src.NormalInt(0, 0, 0),
		src.NormalInt(0, 0, 0),
	}
	assert.Equal(t, []int64{3, 1, 7, 7, 7}, got)
}

func TestScriptedSource_AppliesClamp(t *testing.T) {
	src := NewScriptedSource(0, 1, 4)
	assert.Equal(t, int64(2), src.NormalInt(0, 0, MinServiceMinutes))
	assert.Equal(t, int64(2), src.NormalInt(0, 0, MinServiceMinutes))
	assert.Equal(t, int64(4), src.NormalInt(0, 0, MinServiceMinutes))
}

func TestNewSeededSources_Reproducible(t *testing.T) {
	a := NewSeededSources(NewSimulationKey(11))
	b := NewSeededSources(NewSimulationKey(11))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Arrivals.NormalInt(6, 0.5, 1), b.Arrivals.NormalInt(6, 0.5, 1))
		assert.Equal(t, a.Consult.NormalInt(6, 0.5, 2), b.Consult.NormalInt(6, 0.5, 2))
		assert.Equal(t, a.Dispense.NormalInt(5, 0.5, 2), b.Dispense.NormalInt(5, 0.5, 2))
	}
}
