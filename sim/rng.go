package sim

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical ShiftConfig
// MUST produce identical visit records.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// RandomSimulationKey derives a key from the wall clock, for runs that do not
// ask for reproducibility.
func RandomSimulationKey() SimulationKey {
	return SimulationKey(time.Now().UnixNano())
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals drives inter-arrival gaps. Uses the master seed directly.
	SubsystemArrivals = "arrivals"
	// SubsystemConsult drives consultation durations.
	SubsystemConsult = "consult"
	// SubsystemDispense drives dispensing durations.
	SubsystemDispense = "dispense"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrivals: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Isolation means a change in consultation draws never shifts the arrival sequence.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrivals {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === NormalSource ===

// NormalSource draws the integer durations the engine consumes.
type NormalSource interface {
	// NormalInt returns floor(N(mean, sd)) clamped below at min.
	NormalInt(mean, sd float64, min int64) int64
}

// RandNormal adapts a *rand.Rand into a NormalSource.
type RandNormal struct {
	rng *rand.Rand
}

// NewRandNormal wraps rng. rng must not be nil.
func NewRandNormal(rng *rand.Rand) *RandNormal {
	if rng == nil {
		panic("NewRandNormal: rng must not be nil")
	}
	return &RandNormal{rng: rng}
}

func (r *RandNormal) NormalInt(mean, sd float64, min int64) int64 {
	v := int64(math.Floor(r.rng.NormFloat64()*sd + mean))
	if v < min {
		return min
	}
	return v
}

// ScriptedSource replays a fixed sequence of pre-floored draws, repeating the last
// value once the script is exhausted. The clamp still applies.
type ScriptedSource struct {
	values []int64
	next   int
}

// NewScriptedSource creates a ScriptedSource. At least one value is required.
func NewScriptedSource(values ...int64) *ScriptedSource {
	if len(values) == 0 {
		panic("NewScriptedSource: at least one value required")
	}
	return &ScriptedSource{values: values}
}

func (s *ScriptedSource) NormalInt(_, _ float64, min int64) int64 {
	idx := s.next
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	} else {
		s.next++
	}
	if s.values[idx] < min {
		return min
	}
	return s.values[idx]
}

// Sources bundles the three independent draw streams of a run.
type Sources struct {
	Arrivals NormalSource
	Consult  NormalSource
	Dispense NormalSource
}

// NewSeededSources builds Sources from isolated PartitionedRNG subsystems.
func NewSeededSources(key SimulationKey) Sources {
	rng := NewPartitionedRNG(key)
	return Sources{
		Arrivals: NewRandNormal(rng.ForSubsystem(SubsystemArrivals)),
		Consult:  NewRandNormal(rng.ForSubsystem(SubsystemConsult)),
		Dispense: NewRandNormal(rng.ForSubsystem(SubsystemDispense)),
	}
}

func (s Sources) complete() bool {
	return s.Arrivals != nil && s.Consult != nil && s.Dispense != nil
}
