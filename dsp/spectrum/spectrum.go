package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// split holds the real and imaginary parts of a spectrum in separate
// slices, the layout the vecmath kernels expect.
type split struct {
	re, im []float64
}

var splitPool = sync.Pool{
	New: func() any { return new(split) },
}

func getSplit(in []complex128) *split {
	s := splitPool.Get().(*split)
	n := len(in)
	if cap(s.re) < n {
		s.re = make([]float64, n)
		s.im = make([]float64, n)
	}
	s.re, s.im = s.re[:n], s.im[:n]
	for i, c := range in {
		s.re[i] = real(c)
		s.im[i] = imag(c)
	}
	return s
}

// Magnitude returns |X[k]| for each bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	MagnitudeTo(out, in)
	return out
}

// MagnitudeTo writes |X[k]| into dst, which must be at least len(in) long.
func MagnitudeTo(dst []float64, in []complex128) {
	s := getSplit(in)
	vecmath.Magnitude(dst[:len(in)], s.re, s.im)
	splitPool.Put(s)
}

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	PowerTo(out, in)
	return out
}

// PowerTo writes |X[k]|^2 into dst, which must be at least len(in) long.
// In steady state it does not allocate.
func PowerTo(dst []float64, in []complex128) {
	s := getSplit(in)
	vecmath.Power(dst[:len(in)], s.re, s.im)
	splitPool.Put(s)
}
