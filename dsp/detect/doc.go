// Package detect finds occurrences of a known complex pattern (a preamble)
// in a continuous sample stream.
//
// The detector correlates the input with the energy-normalized pattern,
// either through a streaming overlap-add filter (ModeOLA) or a direct-form
// FIR matched filter (ModeFIR), and divides the correlation magnitude by the
// moving RMS of the input over the pattern length. The resulting score lies
// in [0, 1] and reaches 1 for a noiseless occurrence.
//
// Peaks are thinned by a block-local erosion (one maximum per window of M
// samples, M being the pattern length), compared with the threshold and
// suppressed against larger neighbors closer than M samples. Each
// surviving peak is refined by quadratic interpolation to a fractional
// position, a complex gain and a phase; the noise level is estimated by
// subtracting the reconstructed pattern from the received samples.
//
// A peak found on the last sample of a block is reported one block later,
// once the following sample is known. Occurrences closer than M samples to
// each other are not separated.
//
//	d, err := detect.New(detect.Config{
//		Pattern:   preamble,
//		Threshold: 0.8,
//		OnDetect:  func(det detect.Detection) { fmt.Println(det) },
//	})
//	...
//	d.Step(chunk)
package detect
