package fir

import (
	"math"
	"math/cmplx"
)

// Filter implements a direct-form FIR filter on complex samples.
type Filter struct {
	coeffs []complex128
	rev    []complex128 // coeffs reversed
	revRe  []float64    // real parts of rev when all coefficients are real
	delay  []complex128 // 2n samples, each written twice
	pos    int
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied. The filter order is len(coeffs)-1.
func New(coeffs []complex128) *Filter {
	n := len(coeffs)
	c := make([]complex128, n)
	copy(c, coeffs)

	rev := make([]complex128, n)
	isReal := true
	for k, v := range c {
		rev[n-1-k] = v
		if imag(v) != 0 {
			isReal = false
		}
	}

	f := &Filter{
		coeffs: c,
		rev:    rev,
		delay:  make([]complex128, 2*n),
	}
	if isReal {
		f.revRe = make([]float64, n)
		for k, v := range rev {
			f.revRe[k] = real(v)
		}
	}
	return f
}

// NewReal creates a FIR filter with real coefficients.
func NewReal(coeffs []float64) *Filter {
	c := make([]complex128, len(coeffs))
	for i, v := range coeffs {
		c[i] = complex(v, 0)
	}
	return New(c)
}

// ProcessSample filters one input sample:
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (f *Filter) ProcessSample(x complex128) complex128 {
	n := len(f.coeffs)
	f.delay[f.pos] = x
	f.delay[f.pos+n] = x
	f.pos++
	if f.pos >= n {
		f.pos = 0
	}

	// Oldest to newest.
	win := f.delay[f.pos : f.pos+n]

	if f.revRe != nil {
		var re, im float64
		for j, h := range f.revRe {
			re += h * real(win[j])
			im += h * imag(win[j])
		}
		return complex(re, im)
	}

	var y complex128
	for j, h := range f.rev {
		y += h * win[j]
	}
	return y
}

// ProcessBlock filters a block of samples in-place.
func (f *Filter) ProcessBlock(buf []complex128) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
func (f *Filter) ProcessBlockTo(dst, src []complex128) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line to zero.
func (f *Filter) Reset() {
	clear(f.delay)
	f.pos = 0
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	return len(f.coeffs) - 1
}

// IsReal reports whether all coefficients are real.
func (f *Filter) IsReal() bool {
	return f.revRe != nil
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []complex128 {
	c := make([]complex128, len(f.coeffs))
	copy(c, f.coeffs)
	return c
}

// Response computes the frequency response at normalized frequency freq
// (cycles per sample).
func (f *Filter) Response(freq float64) complex128 {
	w := 2 * math.Pi * freq
	var h complex128
	for k, c := range f.coeffs {
		h += c * cmplx.Rect(1, -w*float64(k))
	}
	return h
}
