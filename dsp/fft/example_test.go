package fft_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-corr/dsp/fft"
)

func ExamplePlan_Transform() {
	// A length that is neither a power of two nor even goes through chirp-z.
	n := 15
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Cos(2*math.Pi*3*float64(i)/float64(n)), 0)
	}

	p, _ := fft.NewPlan(n, fft.WithoutNormalization())
	X := p.Transform(nil, x)
	fmt.Printf("|X[3]| = %.3f\n", math.Hypot(real(X[3]), imag(X[3])))
	fmt.Printf("|X[12]| = %.3f\n", math.Hypot(real(X[12]), imag(X[12])))
	// Output:
	// |X[3]| = 7.500
	// |X[12]| = 7.500
}

func ExampleDelay() {
	y := fft.Delay([]complex128{1, 2, 3, 4}, 1)
	fmt.Println(y)
	// Output:
	// [(0+0i) (1+0i) (2+0i) (3+0i)]
}
