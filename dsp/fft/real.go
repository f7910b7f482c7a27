package fft

import (
	"fmt"
	"math"
	"math/cmplx"
)

// RealPlan computes the DFT of real-valued sequences.
//
// For even n the input is packed as z[i] = x[2i] + i·x[2i+1], transformed
// with an n/2-point complex plan and unpacked with an O(n) butterfly. Odd
// lengths fall back to a full complex transform. Output is unitary, like
// Plan, and holds the n/2+1 non-negative frequency bins.
type RealPlan struct {
	n      int
	half   *Plan
	full   *Plan
	tw     []complex128 // exp(-2πik/n), k <= n/2
	packed []complex128
}

// NewRealPlan creates a real-input plan of length n.
func NewRealPlan(n int) (*RealPlan, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	p := &RealPlan{}
	p.configure(n)
	return p, nil
}

func (p *RealPlan) configure(n int) {
	p.n = n
	if n%2 == 0 {
		p.full = nil
		p.half = &Plan{cfg: planConfig{unnormalized: true}}
		p.half.configure(n / 2)
		p.tw = twiddles(n, n/2+1)
		p.packed = make([]complex128, n/2)
		return
	}
	p.half, p.tw = nil, nil
	p.full = &Plan{cfg: planConfig{unnormalized: true}}
	p.full.configure(n)
	p.packed = make([]complex128, n)
}

// Len returns the real transform length.
func (p *RealPlan) Len() int {
	return p.n
}

// Bins returns the number of output bins, n/2+1.
func (p *RealPlan) Bins() int {
	return p.n/2 + 1
}

// Transform writes the n/2+1 positive-frequency bins of src into dst and
// returns it. The plan is rebuilt when len(src) differs from Len.
func (p *RealPlan) Transform(dst []complex128, src []float64) []complex128 {
	n := len(src)
	if n == 0 {
		return dst[:0]
	}
	if n != p.n {
		p.configure(n)
	}
	bins := n/2 + 1
	if cap(dst) < bins {
		dst = make([]complex128, bins)
	}
	dst = dst[:bins]
	scale := 1 / math.Sqrt(float64(n))

	if p.full != nil {
		for i, v := range src {
			p.packed[i] = complex(v, 0)
		}
		p.full.forward(p.packed, p.packed)
		for k := range dst {
			dst[k] = p.packed[k] * complex(scale, 0)
		}
		dst[0] = complex(real(dst[0]), 0)
		return dst
	}

	h := n / 2
	for i := 0; i < h; i++ {
		p.packed[i] = complex(src[2*i], src[2*i+1])
	}
	p.half.forward(p.packed, p.packed)

	for k := 0; k <= h; k++ {
		z1 := p.packed[k%h]
		z2 := cmplx.Conj(p.packed[(h-k)%h])
		even := (z1 + z2) * 0.5
		odd := (z1 - z2) * complex(0, -0.5)
		dst[k] = (even + odd*p.tw[k]) * complex(scale, 0)
	}

	// DC and Nyquist of a real signal are real.
	dst[0] = complex(real(dst[0]), 0)
	dst[h] = complex(real(dst[h]), 0)
	return dst
}

// Inverse reconstructs Len real samples from n/2+1 bins produced by Transform.
// It panics if len(src) does not match the plan.
func (p *RealPlan) Inverse(dst []float64, src []complex128) []float64 {
	n := p.n
	if len(src) != n/2+1 {
		panic(fmt.Sprintf("fft: real inverse of length %d needs %d bins, got %d", n, n/2+1, len(src)))
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	if p.full != nil {
		for k := 0; k < n; k++ {
			if k <= n/2 {
				p.packed[k] = src[k]
			} else {
				p.packed[k] = cmplx.Conj(src[n-k])
			}
		}
		p.full.inverse(p.packed, p.packed)
		scale := 1 / math.Sqrt(float64(n))
		for i := range dst {
			dst[i] = real(p.packed[i]) * scale
		}
		return dst
	}

	h := n / 2
	for k := 0; k < h; k++ {
		x1 := src[k]
		x2 := cmplx.Conj(src[h-k])
		even := (x1 + x2) * 0.5
		odd := (x1 - x2) * 0.5 * cmplx.Conj(p.tw[k])
		p.packed[k] = even + complex(0, 1)*odd
	}
	p.half.inverse(p.packed, p.packed)

	scale := math.Sqrt(float64(n)) / float64(h)
	for i := 0; i < h; i++ {
		dst[2*i] = real(p.packed[i]) * scale
		dst[2*i+1] = imag(p.packed[i]) * scale
	}
	return dst
}

// RFFT returns the unitary positive-frequency spectrum of x.
func RFFT(x []float64) []complex128 {
	if len(x) == 0 {
		return nil
	}
	p, _ := NewRealPlan(len(x))
	return p.Transform(nil, x)
}

// IRFFT inverts RFFT for a real sequence of length n.
func IRFFT(x []complex128, n int) []float64 {
	if n < 1 {
		return nil
	}
	p, _ := NewRealPlan(n)
	return p.Inverse(nil, x)
}
