package thermo

import (
	"errors"
	"math"
	"testing"
)

func testRequest() Request {
	return Request{
		TauMin:  4.65e-4,
		TauMax:  1.5e4,
		NThermo: 1000,
		Tcmb:    2.725,
		YHe:     0.245,
		H0:      67.0,
		Omegab:  0.05,
		Omegam:  0.3,
		OmegaL:  0.7,
		Neff:    3.046,
		Nmnu:    0,
		Rhonu:   func(a float64) float64 { return 1 },
	}
}

func TestSahaSolverShapes(t *testing.T) {
	hist, err := NewSahaSolver().Compute(testRequest())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	n := len(hist.Tau)
	if n != 1000 {
		t.Fatalf("expected 1000 samples, got %d", n)
	}
	for name, arr := range map[string][]float64{
		"cs2": hist.Cs2, "tb": hist.Tb, "xe": hist.Xe, "a": hist.A,
	} {
		if len(arr) != n {
			t.Errorf("%s length = %d, want %d", name, len(arr), n)
		}
	}

	if !increasing(hist.Tau) {
		t.Error("tau is not strictly increasing")
	}
	if !increasing(hist.A) {
		t.Error("a is not strictly increasing")
	}
}

func TestSahaSolverPhysics(t *testing.T) {
	hist, err := NewSahaSolver().Compute(testRequest())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	n := len(hist.Tau)

	// Early universe: hot and fully ionized.
	if hist.Xe[0] < 0.99 {
		t.Errorf("early xe = %v, want ~1", hist.Xe[0])
	}
	// Late universe: recombined (equilibrium solver has no reionization).
	if hist.Xe[n-1] > 0.01 {
		t.Errorf("late xe = %v, want << 1", hist.Xe[n-1])
	}
	// Baryon temperature tracks the photons and falls monotonically.
	for i := 1; i < n; i++ {
		if hist.Tb[i] >= hist.Tb[i-1] {
			t.Fatalf("tb not decreasing at sample %d", i)
		}
	}
	// Sound speed stays subluminal and positive.
	for i, cs2 := range hist.Cs2 {
		if cs2 <= 0 || cs2 > 1.0/3.0+1e-9 {
			t.Fatalf("cs2[%d] = %v out of (0, 1/3]", i, cs2)
		}
	}
	// The scale factor starts at the radiation asymptote.
	wantA0 := 2.8948e-7 * 2.725 * 2.725 * 4.65e-4
	if math.Abs(hist.A[0]-wantA0)/wantA0 > 1e-12 {
		t.Errorf("a[0] = %v, want %v", hist.A[0], wantA0)
	}
}

func TestSahaXeTransition(t *testing.T) {
	// The ionization fraction must drop through 0.5 somewhere around
	// tb ~ 3500-4500 K for a standard baryon density.
	nH := 0.2 // roughly nH0/a^3 at recombination-era densities is huge; use today's order and scan tb
	lo, hi := sahaXe(2000, nH), sahaXe(10000, nH)
	if lo >= 0.5 || hi <= 0.5 {
		t.Errorf("xe(2000K) = %v, xe(10000K) = %v; expected recombination between", lo, hi)
	}
}

func TestSahaSolverValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"too few samples", func(r *Request) { r.NThermo = 1 }},
		{"zero taumin", func(r *Request) { r.TauMin = 0 }},
		{"taumax below taumin", func(r *Request) { r.TauMax = r.TauMin / 2 }},
		{"zero tcmb", func(r *Request) { r.Tcmb = 0 }},
		{"bad YHe", func(r *Request) { r.YHe = 1.0 }},
		{"missing rhonu", func(r *Request) { r.Rhonu = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			_, err := NewSahaSolver().Compute(req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Compute() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}
