package nu

import (
	"errors"
	"math"
	"testing"
)

func TestBackgroundMasslessLimit(t *testing.T) {
	// With amnu = 0 the relativistic factor is exactly 1 and the moments
	// reduce to the massless-flavour values (1, 1/3), independent of a.
	for _, a := range []float64{1e-9, 1e-4, 0.5, 1.0} {
		rhonu, pnu, err := BackgroundDefault(a, 0)
		if err != nil {
			t.Fatalf("BackgroundDefault(%g, 0) failed: %v", a, err)
		}
		if math.Abs(rhonu-1) > 1e-5 {
			t.Errorf("a=%g: rhonu = %v, want 1 within 1e-5", a, rhonu)
		}
		if math.Abs(pnu-1.0/3.0) > 1e-5 {
			t.Errorf("a=%g: pnu = %v, want 1/3 within 1e-5", a, pnu)
		}
	}
}

func TestBackgroundDensityMonotonicInMass(t *testing.T) {
	// More massive neutrinos behave more matter-like: the density ratio
	// grows with amnu at fixed a.
	const a = 1.0
	prev := 0.0
	for i, amnu := range []float64{0, 0.5, 1, 2, 5, 10} {
		rhonu, _, err := BackgroundDefault(a, amnu)
		if err != nil {
			t.Fatalf("BackgroundDefault(%g, %g) failed: %v", a, amnu, err)
		}
		if i > 0 && rhonu < prev {
			t.Errorf("rhonu(amnu=%g) = %v < rhonu at previous mass %v", amnu, rhonu, prev)
		}
		prev = rhonu
	}
}

func TestBackgroundNonrelativisticScaling(t *testing.T) {
	// Deep in the non-relativistic regime rho ~ a*amnu while p stays
	// bounded, so w = p/rho falls well below 1/3.
	rhonu, pnu, err := BackgroundDefault(1.0, 100)
	if err != nil {
		t.Fatalf("BackgroundDefault failed: %v", err)
	}
	if w := pnu / rhonu; w > 0.01 {
		t.Errorf("equation of state w = %v, want << 1/3 for heavy neutrinos", w)
	}
}

func TestBackgroundValidation(t *testing.T) {
	tests := []struct {
		name string
		a    float64
		amnu float64
		nq   int
		qmax float64
	}{
		{"negative amnu", 1, -1, 1000, 30},
		{"zero nq", 1, 0, 0, 30},
		{"negative nq", 1, 0, -5, 30},
		{"zero qmax", 1, 0, 1000, 0},
		{"negative qmax", 1, 0, 1000, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Background(tt.a, tt.amnu, tt.nq, tt.qmax)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Background() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPerturbZeroInput(t *testing.T) {
	psi := make([]float64, 15)
	drhonu, dpnu, fnu, shearnu, err := Perturb(1.0, 2.0, psi, psi, psi)
	if err != nil {
		t.Fatalf("Perturb failed: %v", err)
	}
	if drhonu != 0 || dpnu != 0 || fnu != 0 || shearnu != 0 {
		t.Errorf("zero input gave (%v, %v, %v, %v), want exact zeros",
			drhonu, dpnu, fnu, shearnu)
	}
}

func TestPerturbMismatchedLengths(t *testing.T) {
	tests := []struct {
		name             string
		len0, len1, len2 int
	}{
		{"psi1 short", 10, 9, 10},
		{"psi2 short", 10, 10, 9},
		{"psi1 long", 10, 11, 10},
		{"empty", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, _, err := Perturb(1.0, 0.0,
				make([]float64, tt.len0), make([]float64, tt.len1), make([]float64, tt.len2))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Perturb() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPerturbMasslessUnitPsi0(t *testing.T) {
	// With amnu = 0 and psi0 = 1 the density perturbation reproduces the
	// background massless integral up to the coarse-grid truncation: the
	// node grid only reaches q = n-0.5 but the tail term (2*g_last/qmax,
	// with the global qmax) restores most of the missing weight.
	n := 15
	one := make([]float64, n)
	for i := range one {
		one[i] = 1
	}
	zero := make([]float64, n)

	drhonu, dpnu, _, _, err := Perturb(0.5, 0, one, zero, zero)
	if err != nil {
		t.Fatalf("Perturb failed: %v", err)
	}
	if math.Abs(drhonu-1) > 0.05 {
		t.Errorf("drhonu = %v, want ~1 for unit psi0 at amnu=0", drhonu)
	}
	// psi1 = psi2 = 0 while psi0 = 1: pressure follows density with the
	// radiation equation of state.
	if math.Abs(dpnu-drhonu/3) > 1e-12 {
		t.Errorf("dpnu = %v, want drhonu/3 = %v at amnu=0", dpnu, drhonu/3)
	}
}

func TestPerturbFluxUsesPsi1Only(t *testing.T) {
	n := 12
	zero := make([]float64, n)
	psi1 := make([]float64, n)
	for i := range psi1 {
		psi1[i] = 0.1 * float64(i+1)
	}

	drhonu, dpnu, fnu, shearnu, err := Perturb(1.0, 3.0, zero, psi1, zero)
	if err != nil {
		t.Fatalf("Perturb failed: %v", err)
	}
	if drhonu != 0 || dpnu != 0 || shearnu != 0 {
		t.Errorf("psi1-only input leaked into other moments: (%v, %v, %v)",
			drhonu, dpnu, shearnu)
	}
	if fnu == 0 {
		t.Error("fnu = 0 for non-zero psi1")
	}
}

func BenchmarkBackground(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, _, err := BackgroundDefault(0.1, 5.0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPerturb(b *testing.B) {
	n := 15
	psi0 := make([]float64, n)
	psi1 := make([]float64, n)
	psi2 := make([]float64, n)
	for i := 0; i < n; i++ {
		psi0[i] = 1 / float64(i+1)
		psi1[i] = 0.5 / float64(i+1)
		psi2[i] = 0.25 / float64(i+1)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, _, _, err := Perturb(0.01, 5.0, psi0, psi1, psi2); err != nil {
			b.Fatal(err)
		}
	}
}
