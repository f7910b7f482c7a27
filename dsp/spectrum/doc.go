// Package spectrum computes power spectra of complex sample streams.
//
// Magnitude and Power convert FFT bins with the SIMD kernels of algo-vecmath.
// An Analyzer estimates averaged (Welch) power spectral densities for several
// channels concurrently, one FFT plan per worker.
package spectrum
