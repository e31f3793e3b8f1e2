package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// RNG provides deterministic random number generation for a single pipeline
// stage (road growth, building placement, element placement, route
// sampling). Each stage derives its own seed from the master seed so that
// stages never share a sequence.
type RNG struct {
	seed      uint64
	stageName string
	source    *rand.Rand
}

// New derives a stage-specific RNG from the master seed, stage name, and a
// hash of the active configuration, using SHA-256(masterSeed || stageName ||
// configHash).
func New(masterSeed uint64, stageName string, configHash []byte) *RNG {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(stageName))
	h.Write(configHash)

	sum := h.Sum(nil)
	derived := binary.BigEndian.Uint64(sum[:8])

	return &RNG{
		seed:      derived,
		stageName: stageName,
		source:    rand.New(rand.NewSource(int64(derived))),
	}
}

// Seed returns the derived seed for this stage.
func (r *RNG) Seed() uint64 { return r.seed }

// StageName returns the stage this RNG was derived for.
func (r *RNG) StageName() string { return r.stageName }

// Uint64 returns a pseudo-random 64-bit unsigned integer.
func (r *RNG) Uint64() uint64 { return r.source.Uint64() }

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (r *RNG) Intn(n int) int { return r.source.Intn(n) }

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (r *RNG) Float64() float64 { return r.source.Float64() }

// Shuffle pseudo-randomizes the order of n elements via swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) { r.source.Shuffle(n, swap) }

// IntRange returns a pseudo-random integer in [lo, hi]. Panics if lo > hi.
func (r *RNG) IntRange(lo, hi int) int {
	if lo > hi {
		panic("rng: IntRange lo must be <= hi")
	}
	if lo == hi {
		return lo
	}
	return lo + r.source.Intn(hi-lo+1)
}

// Float64Range returns a pseudo-random float64 in [lo, hi). Returns lo when
// lo == hi (matching IntRange's contract); panics if lo > hi.
func (r *RNG) Float64Range(lo, hi float64) float64 {
	if lo > hi {
		panic("rng: Float64Range lo must be <= hi")
	}
	if lo == hi {
		return lo
	}
	return lo + r.source.Float64()*(hi-lo)
}

// Bool returns a pseudo-random boolean.
func (r *RNG) Bool() bool { return r.source.Intn(2) == 1 }

// Sign returns -1 or 1 with equal probability.
func (r *RNG) Sign() float64 {
	if r.Bool() {
		return 1
	}
	return -1
}

// WeightedChoice selects an index from weights using weighted random
// selection. Weights must be non-negative. Returns -1 if weights is empty
// or all weights are zero.
func (r *RNG) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}

	target := r.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
