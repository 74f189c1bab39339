package rng

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is the random stream every turn computation draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64     // [0, 1)
	NormFloat64() float64 // standard normal
	IntN(n int) int       // [0, n)
}

// TurnStride spaces per-turn seeds so that (seed, turn) pairs never collide for realistic game lengths.
const TurnStride = 10007

// NewSeeded returns a replicable source, e.g. for seeded sessions and Monte Carlo.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// NewAmbient returns a source seeded from crypto/rand.
func NewAmbient() Source {
	return NewSeeded(AmbientSeed())
}

// AmbientSeed reads 63 bits from crypto/rand; falls back to math/rand/v2 if the OS source fails.
func AmbientSeed() int64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Int64()
	}
	return int64(binary.BigEndian.Uint64(buf[:]) >> 1)
}

// TurnSeed derives the seed for one turn so a session can be replayed without persisting generator state.
func TurnSeed(seed int64, turn int) int64 {
	return seed + int64(turn)*TurnStride
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Gauss draws from N(mean, std).
func Gauss(src Source, mean, std float64) float64 {
	return mean + std*src.NormFloat64()
}

// Chance always consumes one draw, even when p is 0, so the stream position never depends on p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Shuffle is a Fisher-Yates permutation; every ordering is equally likely.
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
