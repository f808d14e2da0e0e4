package nn

import (
	"math"
	"math/rand"
)

// xavierWeights returns a freshly allocated weight vector of length fanIn
// initialized with Xavier/Glorot uniform values:
//
//	U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This keeps the variance of activations roughly constant across layers.
// Randomness comes from the explicit rng so that construction is
// reproducible under a fixed seed.
func xavierWeights(fanIn, fanOut int, rng *rand.Rand) []float64 {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	weights := make([]float64, fanIn)
	for i := range weights {
		weights[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return weights
}
