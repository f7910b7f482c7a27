package conv

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-corr/internal/testutil"
)

// Benchmark streaming overlap-add with the block sizes a 400-sample pattern
// would use.
func BenchmarkOverlapAddStep(b *testing.B) {
	sizes := []struct {
		block   int
		zeroPad int
	}{
		{625, 399},
		{3697, 399},
		{4096, 399},
		{7793, 399},
	}

	for _, size := range sizes {
		x := testutil.DeterministicNoise(1, 1, size.block)
		o, err := NewOverlapAdd(OverlapAddConfig{BlockSize: size.block, MinZeroPad: size.zeroPad, Transfer: identity})
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("block=%d_pad=%d", size.block, size.zeroPad), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(size.block) * 16)
			for i := 0; i < b.N; i++ {
				_ = o.Step(x)
			}
		})
	}
}

// Benchmark one-shot correlation, FFT against direct.
func BenchmarkCorrelate(b *testing.B) {
	for _, m := range []int{16, 128, 400} {
		a := testutil.DeterministicNoise(1, 1, 4096)
		p := testutil.DeterministicNoise(2, 1, m)

		b.Run(fmt.Sprintf("fft/m=%d", m), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = CorrelateFFT(a, p)
			}
		})
		b.Run(fmt.Sprintf("direct/m=%d", m), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = CorrelateDirect(a, p)
			}
		})
	}
}
