package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed of sub-stream n of base. Distinct n give
// independent, reproducible streams.
func Derive(base int64, n int) int64 {
	return int64(mix(uint64(base) ^ mix(uint64(n)+goldenRatio64)))
}

// ForWorker returns the random stream for worker n of a run seeded with base.
func ForWorker(base int64, n int) *rand.Rand {
	return New(Derive(base, n))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
