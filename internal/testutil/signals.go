package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates complex white noise with a fixed seed for
// reproducibility. Real and imaginary parts are uniform in [-amplitude, amplitude].
func DeterministicNoise(seed int64, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		re := (rng.Float64()*2 - 1) * amplitude
		im := (rng.Float64()*2 - 1) * amplitude
		out[i] = complex(re, im)
	}
	return out
}

// DeterministicRealNoise generates real white noise with a fixed seed.
func DeterministicRealNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Tone generates exp(2πi·f·n) for normalized frequency f.
func Tone(freq float64, length int) []complex128 {
	out := make([]complex128, length)
	for i := range out {
		s, c := math.Sincos(2 * math.Pi * freq * float64(i))
		out[i] = complex(c, s)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []complex128 {
	out := make([]complex128, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}
