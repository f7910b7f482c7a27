// Package conv provides FFT block filtering and correlation for complex
// sample streams.
//
// # Streaming overlap-add
//
// [OverlapAdd] consumes an unbounded stream in chunks of any size, regroups
// it into blocks of Ne samples and filters each block in the frequency
// domain through a caller-supplied transfer function:
//
//	ola, err := conv.NewOverlapAdd(conv.OverlapAddConfig{
//		BlockSize:  4096,
//		MinZeroPad: len(pattern) - 1,
//		Transfer:   func(X []complex128) { /* modify X in place */ },
//	})
//	y := ola.Step(x)
//
// Each block is zero-padded in front with Nz = N - Ne zeros, N being the
// next power of two >= Ne + MinZeroPad. The circular output of one transform
// therefore covers block-relative times -Nz..Ne-1, so responses confined to
// lags -Nz..0 (a correlator with a pattern of at most Nz+1 samples, or the
// identity) are reproduced exactly. Output is delayed by [OverlapAdd.Latency].
//
// With Windowed set, every block is processed as two periodic Hann frames at
// half-block hop; the windows sum to one so the identity transfer still
// reconstructs the input.
//
// # Sizing
//
// [Complexity] estimates the FLOPS per input sample of a block size and
// [OptimalBlockSize] picks the cheapest block size for a pattern length.
//
// # Correlation
//
// [CorrelateFFT] and [CorrelateDirect] compute full complex
// cross-correlations; [FindPeak] and [LagFromIndex] locate the best
// alignment.
package conv
