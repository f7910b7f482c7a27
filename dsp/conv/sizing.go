package conv

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cwbudde/algo-corr/dsp/fft"
)

// Sizing describes an overlap-add configuration for a filter or pattern of
// a given length.
type Sizing struct {
	BlockSize int     // Ne, input samples per block
	FFTSize   int     // Nf = Ne + Nz, a power of two
	ZeroPad   int     // Nz
	Cost      float64 // FLOPS per input sample
}

// Complexity returns the cost in FLOPS per input sample of filtering with a
// pattern of m samples in blocks of ne samples, counting a forward and an
// inverse transform of 5·Nf·log2(Nf) each.
func Complexity(m, ne int) (cost float64, nf, nz int) {
	nf = fft.NextPowerOf2(ne + m - 1)
	nz = nf - ne
	cost = 10 * float64(nf) * math.Log2(float64(nf)) / float64(ne)
	return cost, nf, nz
}

// OptimalBlockSize searches the block sizes Ne = 2^k - (m-1) for twenty
// consecutive k starting at ceil(log2 m) and returns the cheapest one. Only
// sizes whose transform holds at least 2m samples are considered, so the
// overlap of a full pattern always fits within one block.
func OptimalBlockSize(m int) (Sizing, error) {
	if m < 1 {
		return Sizing{}, fmt.Errorf("%w: pattern length %d", ErrInvalidBlockSize, m)
	}

	kmin := bits.Len(uint(m - 1))

	var best Sizing
	found := false
	for k := kmin; k < kmin+20; k++ {
		ne := (1 << k) - (m - 1)
		cost, nf, nz := Complexity(m, ne)
		if nf < 2*m {
			continue
		}
		if !found || cost < best.Cost {
			best = Sizing{BlockSize: ne, FFTSize: nf, ZeroPad: nz, Cost: cost}
			found = true
		}
	}
	return best, nil
}
