// Fractal noise fields and per-tile hashed randomness.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// octaveNoise layers several frequencies of simplex noise: each octave
// halves the amplitude and doubles the frequency. The result stays in
// [-1, 1] because the sum is normalized by the total amplitude.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// tileHash mixes (seed, x, y) into a 64-bit value, splitmix64-style.
// Every per-tile random draw derives from this so that synthesis is a pure
// function of its inputs.
func tileHash(seed int64, x, y int) int64 {
	z := uint64(seed) ^ uint64(x)*0x9e3779b97f4a7c15 ^ uint64(y)*0xbf58476d1ce4e5b9
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z)
}

// tileRand returns a deterministic random source for one tile.
func tileRand(seed int64, x, y int) *rand.Rand {
	return rand.New(rand.NewSource(tileHash(seed, x, y)))
}
