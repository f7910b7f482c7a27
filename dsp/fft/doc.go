// Package fft implements discrete Fourier transforms of arbitrary length.
//
// Plans are created once per size and reused. Power-of-two sizes run an
// iterative radix-2 Stockham transform with ping-pong buffers. Other even
// sizes are split into even and odd halves handled by an owned sub-plan,
// recursively. Odd sizes use Bluestein's chirp-z algorithm on top of a
// power-of-two plan.
//
// By default transforms are unitary: both directions are scaled by 1/sqrt(N),
// so Inverse(Forward(x)) == x and Parseval's identity holds without extra
// factors. WithoutNormalization yields the raw DFT sums instead.
//
// RealPlan computes the positive-frequency half of the spectrum of a real
// signal with one complex transform of half the length. Delay shifts a
// complex sequence by an integer or fractional number of samples.
package fft
