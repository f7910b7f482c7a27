package delay

import "testing"

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
}

// --- integer Read/Write ---

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=3 => 3 samples back from write head
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}
	for delay := 1; delay <= 4; delay++ {
		if got, want := d.Read(delay), float64(10-delay); got != want {
			t.Fatalf("Read(%d) = %v, want %v", delay, got, want)
		}
	}
}

func TestReset(t *testing.T) {
	d, _ := New(4)
	d.Write(3)
	d.Reset()
	if got := d.Read(1); got != 0 {
		t.Fatalf("Read after Reset = %v, want 0", got)
	}
}

// --- fixed delay ---

func TestFixedDelaysBlocks(t *testing.T) {
	for _, delay := range []int{0, 1, 5, 12} {
		f, err := NewFixed(delay)
		if err != nil {
			t.Fatal(err)
		}
		if f.Delay() != delay {
			t.Fatalf("Delay() = %d, want %d", f.Delay(), delay)
		}

		x := make([]float64, 30)
		for i := range x {
			x[i] = float64(i + 1)
		}
		y := append([]float64(nil), x...)
		// Uneven blocks must behave like one long block.
		f.ProcessBlock(y[:7])
		f.ProcessBlock(y[7:8])
		f.ProcessBlock(y[8:])

		for i, v := range y {
			want := 0.0
			if i >= delay {
				want = x[i-delay]
			}
			if v != want {
				t.Fatalf("delay=%d: y[%d] = %v, want %v", delay, i, v, want)
			}
		}
	}
}

func TestFixedValidation(t *testing.T) {
	if _, err := NewFixed(-1); err == nil {
		t.Fatal("expected error for negative delay")
	}
}

func TestFixedReset(t *testing.T) {
	f, _ := NewFixed(2)
	f.ProcessSample(1)
	f.ProcessSample(2)
	f.Reset()
	if got := f.ProcessSample(3); got != 0 {
		t.Fatalf("ProcessSample after Reset = %v, want 0", got)
	}
}
