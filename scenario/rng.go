package scenario

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SelectionKey ===

// SelectionKey uniquely identifies a reproducible selection run.
// Two runs with the same SelectionKey and identical inputs MUST produce
// bit-for-bit identical selections.
type SelectionKey int64

// NewSelectionKey creates a SelectionKey from a seed value.
func NewSelectionKey(seed int64) SelectionKey {
	return SelectionKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSampler is the RNG subsystem for standalone power-law draws.
	// Uses master seed directly so SamplePowerLaw(seed) matches rand.NewSource(seed).
	SubsystemSampler = "sampler"
)

// SubsystemAttempt returns the subsystem name for search attempt N.
func SubsystemAttempt(attempt int) string {
	return fmt.Sprintf("attempt_%d", attempt)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemSampler: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Attempt generators are not cached: every attempt is drawn once and then
// discarded, so caching would only grow memory with MaxIter.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SelectionKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SelectionKey.
func NewPartitionedRNG(key SelectionKey) *PartitionedRNG {
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
	rng := rand.New(rand.NewSource(p.DeriveSeed(name)))
	p.subsystems[name] = rng
	return rng
}

// ForAttempt returns a fresh RNG for the given attempt index. Calling it
// twice with the same index yields two generators with identical sequences.
func (p *PartitionedRNG) ForAttempt(attempt int) *rand.Rand {
	return rand.New(rand.NewSource(p.DeriveSeed(SubsystemAttempt(attempt))))
}

// DeriveSeed returns the seed used for the named subsystem.
func (p *PartitionedRNG) DeriveSeed(name string) int64 {
	if name == SubsystemSampler {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the SelectionKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SelectionKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
