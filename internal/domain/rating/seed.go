// Package rating derives synthetic player and team quality scores from the
// matchup history.
package rating

import (
	"crypto/md5" //nolint:gosec // content hash for seeding, not security
	"math/big"
	"math/rand"
)

// seedModulus bounds every hash-derived seed to [0, seedModulus).
const seedModulus = 1000

// SeedFor maps a string key to a small deterministic seed: the md5 digest read
// as an unsigned big-endian integer, reduced modulo 1000.
func SeedFor(key string) int64 {
	sum := md5.Sum([]byte(key)) //nolint:gosec // see import
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, big.NewInt(seedModulus)).Int64()
}

// RandFor returns a fresh generator seeded from key. Each call gets its own
// generator so no random state is shared between callers.
func RandFor(key string) *rand.Rand {
	return rand.New(rand.NewSource(SeedFor(key))) //nolint:gosec // deterministic by construction
}
