package fft

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-corr/internal/testutil"
)

var testSizes = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 12, 15, 16, 17, 24, 30, 64, 100, 127, 256, 400, 1000}

func TestForwardMatchesGonum(t *testing.T) {
	for _, n := range testSizes {
		x := testutil.DeterministicNoise(int64(n), 1, n)

		p, err := NewPlan(n, WithoutNormalization())
		if err != nil {
			t.Fatalf("NewPlan(%d): %v", n, err)
		}
		got := p.Transform(nil, x)
		want := fourier.NewCmplxFFT(n).Coefficients(nil, x)

		testutil.RequireComplexNearlyEqual(t, got, want, 1e-9*float64(n))
	}
}

func TestInverseMatchesGonum(t *testing.T) {
	for _, n := range testSizes {
		x := testutil.DeterministicNoise(int64(n)+100, 1, n)

		p, err := NewPlan(n, WithInverse(), WithoutNormalization())
		if err != nil {
			t.Fatalf("NewPlan(%d): %v", n, err)
		}
		got := p.Transform(nil, x)
		want := fourier.NewCmplxFFT(n).Sequence(nil, x)

		testutil.RequireComplexNearlyEqual(t, got, want, 1e-9*float64(n))
	}
}

func TestRadix2MatchesAlgoFFT(t *testing.T) {
	for _, n := range []int{2, 8, 64, 1024, 4096} {
		x := testutil.DeterministicNoise(7, 1, n)

		ref, err := algofft.NewPlan64(n)
		if err != nil {
			t.Fatalf("algofft.NewPlan64(%d): %v", n, err)
		}
		want := make([]complex128, n)
		if err := ref.Forward(want, x); err != nil {
			t.Fatalf("algofft Forward: %v", err)
		}

		p, _ := NewPlan(n, WithoutNormalization())
		got := p.Forward(nil, x)
		testutil.RequireComplexNearlyEqual(t, got, want, 1e-9*float64(n))
	}
}

func TestUnitaryRoundTrip(t *testing.T) {
	for _, n := range testSizes {
		x := testutil.DeterministicNoise(int64(n)*3, 1, n)

		y := IFFT(FFT(x))
		testutil.RequireComplexNearlyEqual(t, y, x, 1e-10)
	}
}

func TestParseval(t *testing.T) {
	for _, n := range []int{16, 30, 127} {
		x := testutil.DeterministicNoise(11, 1, n)
		X := FFT(x)

		var ex, eX float64
		for i := range x {
			ex += real(x[i] * cmplx.Conj(x[i]))
			eX += real(X[i] * cmplx.Conj(X[i]))
		}
		if math.Abs(ex-eX) > 1e-9*ex {
			t.Fatalf("n=%d: energy %v in time, %v in frequency", n, ex, eX)
		}
	}
}

func TestUnnormalizedRoundTripScalesByN(t *testing.T) {
	for _, n := range []int{8, 12, 15} {
		x := testutil.DeterministicNoise(5, 1, n)
		p, _ := NewPlan(n, WithoutNormalization())

		y := p.Inverse(nil, p.Forward(nil, x))
		testutil.RequireComplexNearlyEqual(t, y, testutil.Scale(x, complex(float64(n), 0)), 1e-9*float64(n))
	}
}

func TestTransformInPlace(t *testing.T) {
	for _, n := range []int{16, 24, 21} {
		x := testutil.DeterministicNoise(3, 1, n)
		want := FFT(x)

		p, _ := NewPlan(n)
		buf := append([]complex128(nil), x...)
		got := p.Transform(buf, buf)
		testutil.RequireComplexNearlyEqual(t, got, want, 1e-12)
	}
}

func TestPlanReconfiguresOnLengthChange(t *testing.T) {
	p, err := NewPlan(8)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	x := testutil.DeterministicNoise(9, 1, 12)

	got := p.Transform(nil, x)
	if p.Len() != 12 {
		t.Fatalf("Len() = %d, want 12", p.Len())
	}
	testutil.RequireComplexNearlyEqual(t, got, FFT(x), 1e-12)
}

func TestImpulseSpectrumIsFlat(t *testing.T) {
	n := 20
	X := FFT(testutil.Impulse(n, 0))
	want := complex(1/math.Sqrt(float64(n)), 0)
	for k, v := range X {
		if cmplx.Abs(v-want) > 1e-12 {
			t.Fatalf("X[%d] = %v, want %v", k, v, want)
		}
	}
}

func TestToneLandsInBin(t *testing.T) {
	n := 48
	X := FFT(testutil.Tone(5.0/float64(n), n))
	for k, v := range X {
		want := 0.0
		if k == 5 {
			want = math.Sqrt(float64(n))
		}
		if math.Abs(cmplx.Abs(v)-want) > 1e-9 {
			t.Fatalf("|X[%d]| = %v, want %v", k, cmplx.Abs(v), want)
		}
	}
}

func TestForwardToInverse(t *testing.T) {
	x := []complex128{0, 1, 2, 3, 4}
	ForwardToInverse(x)
	want := []complex128{0, 4, 3, 2, 1}
	testutil.RequireComplexNearlyEqual(t, x, want, 0)
}

func TestNewPlanInvalidLength(t *testing.T) {
	for _, n := range []int{0, -4} {
		if _, err := NewPlan(n); !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("NewPlan(%d) error = %v, want ErrInvalidLength", n, err)
		}
	}
}

func TestNaNCheckPanics(t *testing.T) {
	for _, n := range []int{8, 12, 9} {
		p, _ := NewPlan(n, WithNaNCheck())
		x := make([]complex128, n)
		x[1] = complex(math.NaN(), 0)

		func() {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrNaN) {
					t.Fatalf("n=%d: recovered %v, want ErrNaN", n, r)
				}
			}()
			p.Transform(nil, x)
		}()
	}
}

func TestNaNPropagatesWithoutCheck(t *testing.T) {
	x := make([]complex128, 8)
	x[0] = complex(math.NaN(), 0)
	X := FFT(x)
	if !cmplx.IsNaN(X[3]) {
		t.Fatalf("X[3] = %v, want NaN", X[3])
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {799, 1024}, {4096, 4096}, {4097, 8192},
	}
	for _, tt := range tests {
		if got := NextPowerOf2(tt.in); got != tt.want {
			t.Errorf("NextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsPowerOf2(t *testing.T) {
	for n, want := range map[int]bool{0: false, 1: true, 6: false, 64: true, -8: false} {
		if got := IsPowerOf2(n); got != want {
			t.Errorf("IsPowerOf2(%d) = %v, want %v", n, got, want)
		}
	}
}
