package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by the constructors and one-shot helpers.
var (
	ErrEmptyInput       = errors.New("conv: empty input")
	ErrNoTransfer       = errors.New("conv: missing transfer function")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
	ErrInvalidZeroPad   = errors.New("conv: invalid zero padding")
)

// CorrelateDirect computes the full cross-correlation
// c[k] = sum_i a[i+lag]·conj(b[i]) with lag = k - (len(b)-1).
// The result has length len(a) + len(b) - 1.
func CorrelateDirect(a, b []complex128) ([]complex128, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	m := len(b)
	out := make([]complex128, len(a)+m-1)
	for k := range out {
		lag := k - (m - 1)
		var sum complex128
		for i, bv := range b {
			j := i + lag
			if j < 0 || j >= len(a) {
				continue
			}
			sum += a[j] * complex(real(bv), -imag(bv))
		}
		out[k] = sum
	}
	return out, nil
}

// Magnitude returns |x| element-wise.
func Magnitude(x []complex128) []float64 {
	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i] = real(v)
		im[i] = imag(v)
	}
	mag := make([]float64, len(x))
	vecmath.Magnitude(mag, re, im)
	return mag
}

// FindPeak returns the index and magnitude of the largest |corr| value.
func FindPeak(corr []complex128) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}
	mag := Magnitude(corr)
	index = floats.MaxIdx(mag)
	return index, mag[index]
}

// LagFromIndex converts a correlation result index to a lag value.
// For a correlation against a reference of length lenB, the lag at index i
// is i - (lenB - 1).
func LagFromIndex(index, lenB int) int {
	return index - (lenB - 1)
}

// IndexFromLag converts a lag value to a correlation result index.
func IndexFromLag(lag, lenB int) int {
	return lag + (lenB - 1)
}
