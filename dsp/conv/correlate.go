package conv

import (
	"fmt"

	"github.com/cwbudde/algo-corr/dsp/fft"
)

// CorrelateFFT computes the same full cross-correlation as CorrelateDirect
// through one power-of-two transform of size >= len(a)+len(b)-1.
func CorrelateFFT(a, b []complex128) ([]complex128, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n, m := len(a), len(b)
	fftSize := fft.NextPowerOf2(n + m - 1)

	plan, err := fft.NewPlan(fftSize, fft.WithoutNormalization())
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	copy(aFreq, a)
	copy(bFreq, b)
	plan.Forward(aFreq, aFreq)
	plan.Forward(bFreq, bFreq)

	for i := range aFreq {
		bConj := complex(real(bFreq[i]), -imag(bFreq[i]))
		aFreq[i] *= bConj
	}
	r := plan.Inverse(aFreq, aFreq)

	// Circular lags: 0..n-1 at the front, -(m-1)..-1 at the end.
	scale := complex(1/float64(fftSize), 0)
	out := make([]complex128, n+m-1)
	for i := 0; i < n; i++ {
		out[m-1+i] = r[i] * scale
	}
	for i := 0; i < m-1; i++ {
		out[i] = r[fftSize-m+1+i] * scale
	}
	return out, nil
}
