package spline

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want error
	}{
		{"too few", []float64{1}, []float64{1}, ErrTooFewPoints},
		{"empty", nil, nil, ErrTooFewPoints},
		{"mismatch", []float64{1, 2, 3}, []float64{1, 2}, ErrLengthMismatch},
		{"duplicate x", []float64{1, 1, 2}, []float64{0, 0, 0}, ErrNotIncreasing},
		{"decreasing x", []float64{2, 1, 0}, []float64{0, 0, 0}, ErrNotIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.xs, tt.ys)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEvaluateReproducesKnots(t *testing.T) {
	xs := []float64{0, 0.5, 1.3, 2.0, 3.7}
	ys := []float64{1, -2, 0.5, 4, -1}

	s, err := New(xs, ys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := range xs {
		if got := s.Evaluate(xs[i]); math.Abs(got-ys[i]) > 1e-12 {
			t.Errorf("Evaluate(%v) = %v, want %v", xs[i], got, ys[i])
		}
	}
}

func TestEvaluateSmoothFunction(t *testing.T) {
	// Dense sampling of sin should interpolate to high accuracy.
	n := 101
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i) * math.Pi / float64(n-1)
		ys[i] = math.Sin(xs[i])
	}

	s, err := New(xs, ys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, x := range []float64{0.1, 0.77, 1.5, 2.9} {
		if got := s.Evaluate(x); math.Abs(got-math.Sin(x)) > 1e-6 {
			t.Errorf("Evaluate(%v) = %v, want %v", x, got, math.Sin(x))
		}
	}
}

func TestIntegralLinear(t *testing.T) {
	// A spline through samples of 2x+1 is exactly linear, so integrals
	// are exact.
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 3, 5, 7, 9}

	s, err := New(xs, ys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		lo, hi, want float64
	}{
		{0, 4, 20},
		{0, 1, 2},
		{1, 3, 10},
		{0.5, 2.5, 7},
		{2, 2, 0},
		{4, 0, -20}, // reversed limits flip sign
	}

	for _, tt := range tests {
		if got := s.Integral(tt.lo, tt.hi); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Integral(%v, %v) = %v, want %v", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestIntegralSmoothFunction(t *testing.T) {
	n := 201
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i) * math.Pi / float64(n-1)
		ys[i] = math.Sin(xs[i])
	}

	s, err := New(xs, ys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Integral of sin over [0, pi] is 2.
	if got := s.Integral(0, math.Pi); math.Abs(got-2) > 1e-7 {
		t.Errorf("Integral(0, pi) = %v, want 2", got)
	}
}

func TestIntegralBelowFirstKnot(t *testing.T) {
	// Limits below the first knot extrapolate with the boundary cubic,
	// matching Evaluate. For a linear table the extension is exact.
	xs := []float64{1, 2, 3}
	ys := []float64{2, 4, 6}

	s, err := New(xs, ys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := s.Integral(0, 3); math.Abs(got-9) > 1e-10 {
		t.Errorf("Integral(0, 3) = %v, want 9", got)
	}
}

func TestTwoPointSpline(t *testing.T) {
	s, err := New([]float64{0, 2}, []float64{0, 4})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := s.Evaluate(1); math.Abs(got-2) > 1e-12 {
		t.Errorf("Evaluate(1) = %v, want 2", got)
	}
	if got := s.Integral(0, 2); math.Abs(got-4) > 1e-12 {
		t.Errorf("Integral(0, 2) = %v, want 4", got)
	}
}

func TestBounds(t *testing.T) {
	s, err := New([]float64{-1, 0, 5}, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Min() != -1 || s.Max() != 5 || s.Len() != 3 {
		t.Errorf("bounds = (%v, %v, %d), want (-1, 5, 3)", s.Min(), s.Max(), s.Len())
	}
}
