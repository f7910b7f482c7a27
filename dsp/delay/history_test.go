package delay

import "testing"

func seq(start, n int) []complex128 {
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(float64(start+i), 0)
	}
	return x
}

func TestHistoryKeepsLastK(t *testing.T) {
	h, err := NewHistory(5)
	if err != nil {
		t.Fatal(err)
	}

	h.Push(seq(0, 3))
	h.Push(seq(3, 1))
	h.Push(seq(4, 4))

	want := seq(3, 5)
	for i, v := range h.Samples() {
		if v != want[i] {
			t.Fatalf("Samples()[%d] = %v, want %v", i, v, want[i])
		}
	}

	h.Push(seq(100, 9))
	if h.Samples()[0] != 104 || h.Last(1)[0] != 108 {
		t.Fatalf("after long push: %v", h.Samples())
	}
}

func TestHistoryLastAndSegment(t *testing.T) {
	h, _ := NewHistory(6)
	h.Push(seq(10, 6))

	last := h.Last(2)
	if len(last) != 2 || last[0] != 14 || last[1] != 15 {
		t.Fatalf("Last(2) = %v", last)
	}
	seg := h.Segment(1, 3)
	if seg[0] != 11 || seg[2] != 13 {
		t.Fatalf("Segment(1, 3) = %v", seg)
	}
}

func TestHistorySegmentOutOfRangePanics(t *testing.T) {
	h, _ := NewHistory(4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	h.Segment(2, 3)
}

func TestHistoryReset(t *testing.T) {
	h, _ := NewHistory(3)
	h.Push(seq(1, 3))
	h.Reset()
	for i, v := range h.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v after Reset", i, v)
		}
	}
	if _, err := NewHistory(0); err == nil {
		t.Fatal("expected error for size 0")
	}
}
