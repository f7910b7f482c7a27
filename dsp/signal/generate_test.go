package signal

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-corr/internal/testutil"
)

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(WithSeed(42))
	g2 := NewGenerator(WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if math.Abs(n1[i]) > 1 {
			t.Fatalf("noise[%d]=%v outside amplitude", i, n1[i])
		}
	}
}

func TestSetSeed(t *testing.T) {
	g := NewGenerator()
	g.SetSeed(99)
	if g.Seed() != 99 {
		t.Fatalf("Seed()=%d, want 99", g.Seed())
	}

	a, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	g.SetSeed(99)
	b, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, a, b, 0)
}

func TestComplexNoisePower(t *testing.T) {
	g := NewGenerator(WithSeed(7))
	const sigma = 0.5
	x, err := g.ComplexNoise(sigma, 100000)
	if err != nil {
		t.Fatalf("ComplexNoise() error = %v", err)
	}
	p := Energy(x) / float64(len(x))
	if math.Abs(p-sigma*sigma) > 0.02*sigma*sigma {
		t.Fatalf("mean power = %v, want %v", p, sigma*sigma)
	}

	var re, im float64
	for _, v := range x {
		re += real(v) * real(v)
		im += imag(v) * imag(v)
	}
	if r := re / im; r < 0.97 || r > 1.03 {
		t.Fatalf("I/Q power ratio = %v, want ~1", r)
	}
}

func TestGeneratorValidation(t *testing.T) {
	g := NewGenerator()
	if _, err := g.WhiteNoise(-1, 4); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
	if _, err := g.ComplexNoise(1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
	if _, err := QuadraticChirp(0, 0.1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
	if _, err := Gaussian(-3, 1); err == nil {
		t.Fatal("expected error for negative samples")
	}
}

func TestQuadraticChirpPhase(t *testing.T) {
	// Constant frequency degenerates to a cosine starting one step in.
	x, err := QuadraticChirp(0.25, 0.25, 8)
	if err != nil {
		t.Fatalf("QuadraticChirp() error = %v", err)
	}
	for i, v := range x {
		want := math.Cos(2 * math.Pi * 0.25 * float64(i+1))
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("x[%d]=%v, want %v", i, v, want)
		}
	}
}

func TestGaussian(t *testing.T) {
	x, err := Gaussian(10, 2)
	if err != nil {
		t.Fatalf("Gaussian() error = %v", err)
	}
	if x[5] != 1 {
		t.Fatalf("center = %v, want 1", x[5])
	}
	if math.Abs(x[0]-math.Exp(-2)) > 1e-15 {
		t.Fatalf("edge = %v, want %v", x[0], math.Exp(-2))
	}
}

func TestGaussianChirpEnergy(t *testing.T) {
	p, err := GaussianChirp(400, 10, 0.001, 0.2)
	if err != nil {
		t.Fatalf("GaussianChirp() error = %v", err)
	}
	if e := Energy(p); math.Abs(e-400) > 1e-9 {
		t.Fatalf("energy = %v, want 400", e)
	}
	for i, v := range p {
		if imag(v) != 0 {
			t.Fatalf("p[%d] has imaginary part %v", i, imag(v))
		}
	}
}

func TestNormalizeEnergy(t *testing.T) {
	if _, err := NormalizeEnergy(make([]complex128, 4), 1); err == nil {
		t.Fatal("expected error for zero-energy input")
	}
	out, err := NormalizeEnergy([]complex128{3, 4i}, 1)
	if err != nil {
		t.Fatalf("NormalizeEnergy() error = %v", err)
	}
	testutil.RequireComplexNearlyEqual(t, out, []complex128{0.6, 0.8i}, 1e-15)
}

func TestEmbedInteger(t *testing.T) {
	dst := make([]complex128, 6)
	Embed(dst, []complex128{1, 2, 3}, 4, 1i)
	want := []complex128{0, 0, 0, 0, 1i, 2i}
	testutil.RequireComplexNearlyEqual(t, dst, want, 0)

	Embed(dst, []complex128{1, 2, 3}, -2, 1)
	want[0] = 3
	testutil.RequireComplexNearlyEqual(t, dst, want, 0)
}

func TestEmbedFractionalShiftsPeak(t *testing.T) {
	p, err := GaussianChirp(64, 8, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	a := make([]complex128, 256)
	b := make([]complex128, 256)
	Embed(a, p, 100, 1)
	Embed(b, p, 100.5, 1)

	// The centroid of |x|^2 moves by the fractional offset.
	centroid := func(x []complex128) float64 {
		var num, den float64
		for i, v := range x {
			w := cmplx.Abs(v) * cmplx.Abs(v)
			num += float64(i) * w
			den += w
		}
		return num / den
	}
	if d := centroid(b) - centroid(a); math.Abs(d-0.5) > 1e-3 {
		t.Fatalf("centroid shift = %v, want 0.5", d)
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}
	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}
