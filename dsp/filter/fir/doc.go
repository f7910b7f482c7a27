// Package fir provides direct-form FIR filter runtimes for complex streams.
//
// A [Filter] applies pre-computed coefficients through a circular delay line
// stored twice, so every output is one contiguous dot product. Real
// coefficients take a cheaper complex-by-real path. It suits short filters;
// long correlations are better served by dsp/conv.OverlapAdd.
//
// [MovingAverage] is the equal-tap special case for real streams, updated
// in O(1) per sample.
//
// This package provides the processing runtime only. Coefficient design is a
// separate concern.
package fir
