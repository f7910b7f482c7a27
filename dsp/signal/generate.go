package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-corr/dsp/fft"
)

// Generator creates deterministic noise from a seed.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator. The default seed is 1.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

// Seed returns the generator seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed restarts the random sequence from seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = (g.rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// ComplexNoise generates circular complex Gaussian noise with standard
// deviation sigma, i.e. E|x|^2 = sigma^2. The sequence continues across calls.
func (g *Generator) ComplexNoise(sigma float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}
	out := make([]complex128, samples)
	s := sigma / math.Sqrt2
	for i := range out {
		out[i] = complex(s*g.rng.NormFloat64(), s*g.rng.NormFloat64())
	}
	return out, nil
}

// QuadraticChirp generates cos(2*pi*sum(f)) where the instantaneous
// frequency rises from f0 to f1 (cycles per sample) along a parabola.
func QuadraticChirp(f0, f1 float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("chirp samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	phase := 0.0
	for i := range out {
		t := 0.0
		if samples > 1 {
			t = float64(i) / float64(samples-1)
		}
		phase += f0 + (f1-f0)*t*t
		out[i] = math.Cos(2 * math.Pi * phase)
	}
	return out, nil
}

// Gaussian generates the envelope exp(-a*t^2) with t running from -1 at
// the first sample to 1 just past the last.
func Gaussian(samples int, a float64) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("gaussian samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	half := float64(samples) / 2
	for i := range out {
		t := (float64(i) - half) / half
		out[i] = math.Exp(-a * t * t)
	}
	return out, nil
}

// GaussianChirp returns a Gaussian-windowed quadratic chirp as a complex
// pattern whose energy equals its length.
func GaussianChirp(samples int, a, f0, f1 float64) ([]complex128, error) {
	env, err := Gaussian(samples, a)
	if err != nil {
		return nil, err
	}
	chirp, err := QuadraticChirp(f0, f1, samples)
	if err != nil {
		return nil, err
	}
	floats.Mul(env, chirp)
	return NormalizeEnergy(ToComplex(env), float64(samples))
}

// ToComplex widens a real slice into a complex one.
func ToComplex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}

// Energy returns sum |x|^2.
func Energy(x []complex128) float64 {
	var e float64
	for _, v := range x {
		e += real(v)*real(v) + imag(v)*imag(v)
	}
	return e
}

// NormalizeEnergy scales x so that its energy equals target and returns a
// new slice.
func NormalizeEnergy(x []complex128, target float64) ([]complex128, error) {
	if target < 0 {
		return nil, fmt.Errorf("normalize target energy must be >= 0: %f", target)
	}
	e := Energy(x)
	if e == 0 {
		return nil, errors.New("normalize input has zero energy")
	}
	s := complex(math.Sqrt(target/e), 0)
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = v * s
	}
	return out, nil
}

// Embed adds gain*pattern into dst so that the pattern starts at the
// possibly fractional position pos. Fractional parts are realized with a
// spectral delay. Samples falling outside dst are dropped.
func Embed(dst, pattern []complex128, pos float64, gain complex128) {
	start := math.Floor(pos)
	frac := pos - start
	p := pattern
	if frac > 0 {
		p = fft.Delay(pattern, frac)
	}
	i0 := int(start)
	for k, v := range p {
		i := i0 + k
		if i < 0 || i >= len(dst) {
			continue
		}
		dst[i] += gain * v
	}
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := floats.Norm(data, math.Inf(1))

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	floats.ScaleTo(out, targetPeak/maxAbs, data)
	return out, nil
}
