package kmeans

import "testing"

func TestBinarizeSeparatesTwoClusters(t *testing.T) {
	v := []float64{0.1, 0.12, 0.08, 0.9, 0.95, 0.88}
	got := Binarize(v)
	want := []bool{false, false, false, true, true, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBinarizeConstantInputIsAllFalse(t *testing.T) {
	v := []float64{0.5, 0.5, 0.5, 0.5}
	got := Binarize(v)
	for i, b := range got {
		if b {
			t.Fatalf("index %d: got true, want false for constant input", i)
		}
	}
}

func TestBinarizeEmptyInput(t *testing.T) {
	got := Binarize(nil)
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestBinarizeSingleElement(t *testing.T) {
	got := Binarize([]float64{0.3})
	if len(got) != 1 || got[0] != false {
		t.Fatalf("got %v, want [false]", got)
	}
}
