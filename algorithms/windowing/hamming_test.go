package windowing

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestHammingCoefficients(t *testing.T) {
	h := NewHamming(4)

	want := make([]float64, 4)
	for i := range want {
		want[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/3)
	}

	got := h.GetCoefficients()
	if len(got) != 4 {
		t.Fatalf("expected 4 coefficients, got %d", len(got))
	}

	for i := range want {
		if !almostEqual(got[i], want[i], tolerance) {
			t.Errorf("coefficient %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHammingSymmetry(t *testing.T) {
	h := NewHamming(9)
	c := h.GetCoefficients()

	for i := 0; i < len(c)/2; i++ {
		j := len(c) - 1 - i
		if !almostEqual(c[i], c[j], tolerance) {
			t.Errorf("coefficients %d and %d differ: %v vs %v", i, j, c[i], c[j])
		}
	}
}

func TestHammingApplyInPlace(t *testing.T) {
	h := NewHamming(4)

	signal := []float64{1, 1, 1, 1}
	if err := h.ApplyInPlace(signal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range h.GetCoefficients() {
		if !almostEqual(signal[i], c, tolerance) {
			t.Errorf("sample %d: got %v, want %v", i, signal[i], c)
		}
	}

	if err := h.ApplyInPlace([]float64{1, 2}); err == nil {
		t.Error("expected length-mismatch error, got nil")
	}
}

func TestUserWindow(t *testing.T) {
	coeffs := []float64{0.5, 1, 1, 0.5, 0.25}

	u := NewUser(coeffs)
	if u.GetSize() != 5 {
		t.Fatalf("expected size 5, got %d", u.GetSize())
	}
	if u.GetType() != "user_specified" {
		t.Fatalf("expected type user_specified, got %s", u.GetType())
	}

	got := u.GetCoefficients()
	for i := range coeffs {
		if !almostEqual(got[i], coeffs[i], tolerance) {
			t.Errorf("coefficient %d: got %v, want %v", i, got[i], coeffs[i])
		}
	}

	// mutating the input must not alter the window
	coeffs[0] = 99
	if !almostEqual(u.GetCoefficients()[0], 0.5, tolerance) {
		t.Error("window coefficients alias the caller slice")
	}
}

func TestGainCorrection(t *testing.T) {
	// mean of the coefficients is 0.5, so the correction is 2
	if got := GainCorrection([]float64{0.25, 0.75, 0.5, 0.5}); !almostEqual(got, 2, tolerance) {
		t.Errorf("got %v, want 2", got)
	}

	// rectangular window needs no correction
	if got := GainCorrection([]float64{1, 1, 1}); !almostEqual(got, 1, tolerance) {
		t.Errorf("got %v, want 1", got)
	}
}
