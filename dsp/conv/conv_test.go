package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-corr/internal/testutil"
)

func TestCorrelateFFTMatchesDirect(t *testing.T) {
	for _, sizes := range [][2]int{{1, 1}, {10, 3}, {64, 64}, {300, 41}, {5, 9}} {
		a := testutil.DeterministicNoise(1, 1, sizes[0])
		b := testutil.DeterministicNoise(2, 1, sizes[1])

		want, err := CorrelateDirect(a, b)
		if err != nil {
			t.Fatalf("CorrelateDirect: %v", err)
		}
		got, err := CorrelateFFT(a, b)
		if err != nil {
			t.Fatalf("CorrelateFFT: %v", err)
		}
		testutil.RequireComplexNearlyEqual(t, got, want, 1e-9)
	}
}

func TestCorrelateEmptyInput(t *testing.T) {
	if _, err := CorrelateFFT(nil, []complex128{1}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("CorrelateFFT error = %v, want ErrEmptyInput", err)
	}
	if _, err := CorrelateDirect([]complex128{1}, nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("CorrelateDirect error = %v, want ErrEmptyInput", err)
	}
}

func TestFindPeakRecoversLag(t *testing.T) {
	pattern := testutil.DeterministicNoise(3, 1, 31)
	x := testutil.DeterministicNoise(4, 0.05, 500)
	const lag = 217
	for i, v := range pattern {
		x[lag+i] += v * complex(0, 2)
	}

	c, _ := CorrelateFFT(x, pattern)
	idx, val := FindPeak(c)
	if got := LagFromIndex(idx, len(pattern)); got != lag {
		t.Fatalf("lag = %d, want %d", got, lag)
	}
	if IndexFromLag(lag, len(pattern)) != idx {
		t.Fatal("IndexFromLag does not invert LagFromIndex")
	}
	if val <= 0 {
		t.Fatalf("peak value = %v", val)
	}
}

func TestFindPeakEmpty(t *testing.T) {
	if idx, _ := FindPeak(nil); idx != -1 {
		t.Fatalf("idx = %d, want -1", idx)
	}
}

func TestMagnitude(t *testing.T) {
	got := Magnitude([]complex128{3 + 4i, -2i})
	testutil.RequireSliceNearlyEqual(t, got, []float64{5, 2}, 1e-15)
}

func TestComplexity(t *testing.T) {
	cost, nf, nz := Complexity(400, 3697)
	if nf != 4096 || nz != 399 {
		t.Fatalf("nf=%d nz=%d, want 4096 and 399", nf, nz)
	}
	want := 10 * 4096 * 12 / 3697.0
	if math.Abs(cost-want) > 1e-9 {
		t.Fatalf("cost = %v, want %v", cost, want)
	}
}

func TestOptimalBlockSize(t *testing.T) {
	tests := []struct {
		m    int
		want Sizing
	}{
		{400, Sizing{BlockSize: 3697, FFTSize: 4096, ZeroPad: 399}},
		{1, Sizing{BlockSize: 2, FFTSize: 2, ZeroPad: 0}},
	}
	for _, tt := range tests {
		got, err := OptimalBlockSize(tt.m)
		if err != nil {
			t.Fatalf("OptimalBlockSize(%d): %v", tt.m, err)
		}
		if got.BlockSize != tt.want.BlockSize || got.FFTSize != tt.want.FFTSize || got.ZeroPad != tt.want.ZeroPad {
			t.Fatalf("OptimalBlockSize(%d) = %+v, want %+v", tt.m, got, tt.want)
		}
		if got.FFTSize < 2*tt.m {
			t.Fatalf("FFTSize %d < 2m", got.FFTSize)
		}
	}
}

func TestOptimalBlockSizeNeverWorseThanNeighbours(t *testing.T) {
	for _, m := range []int{13, 127, 129, 1000} {
		s, err := OptimalBlockSize(m)
		if err != nil {
			t.Fatalf("OptimalBlockSize(%d): %v", m, err)
		}
		for _, ne := range []int{2*s.BlockSize + m - 1, (s.FFTSize / 2) - (m - 1)} {
			cost, nf, _ := Complexity(m, ne)
			if ne > 0 && nf >= 2*m && cost < s.Cost-1e-9 {
				t.Fatalf("m=%d: Ne=%d costs %v < chosen %v", m, ne, cost, s.Cost)
			}
		}
	}
}

func TestOptimalBlockSizeInvalid(t *testing.T) {
	if _, err := OptimalBlockSize(0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("error = %v, want ErrInvalidBlockSize", err)
	}
}
