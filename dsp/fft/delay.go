package fft

import (
	"math"
	"math/cmplx"
)

// Delay returns x delayed by tau samples; positive tau moves the signal
// later. Integer delays shift with zero fill. Fractional delays apply a
// linear phase in the frequency domain after zero-padding x to twice its
// length (n/2 zeros on each side) so the shift does not wrap around.
func Delay(x []complex128, tau float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}

	if tau == math.Floor(tau) {
		shift := int(tau)
		switch {
		case shift >= n || -shift >= n:
		case shift >= 0:
			copy(out[shift:], x[:n-shift])
		default:
			copy(out, x[-shift:])
		}
		return out
	}

	m := 2 * n
	off := m / 4
	padded := make([]complex128, m)
	copy(padded[off:], x)

	p, _ := NewPlan(m)
	spec := p.Forward(padded, padded)
	for k := range spec {
		f := k
		if k >= m/2 {
			f = k - m
		}
		spec[k] *= cmplx.Rect(1, -2*math.Pi*tau*float64(f)/float64(m))
	}
	y := p.Inverse(spec, spec)
	copy(out, y[off:off+n])
	return out
}
