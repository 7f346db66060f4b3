package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	return Derive(seed, 0)
}

// Derive returns an independent generator for one stream of a seeded run,
// for example one Monte Carlo sample. The same (seed, stream) pair always
// yields the same sequence, regardless of which goroutine asks for it.
func Derive(seed int64, stream uint64) *rand.Rand {
	u := uint64(seed) + stream*goldenRatio64
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns a fresh non-deterministic seed.
func Seed() int64 {
	return int64(rand.Uint64())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
