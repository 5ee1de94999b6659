// Package thermo defines the thermal-history contract the cosmology
// initializer delegates to, plus a built-in equilibrium solver good enough
// for table construction and testing. A production recombination code can
// be dropped in behind the Solver interface without touching the core.
package thermo

import (
	"errors"
	"fmt"
)

var ErrInvalidRequest = errors.New("thermo: invalid request")

// Request carries everything a solver needs to trace the thermal history
// between two conformal times. Rhonu is the massive-neutrino density
// interpolant built by the initializer, queried as a function of scale
// factor.
type Request struct {
	TauMin, TauMax float64
	NThermo        int
	Tcmb, YHe, H0  float64
	Omegab, Omegam float64
	OmegaL, Neff   float64
	Nmnu           int
	Rhonu          func(a float64) float64

	// Solver tunables forwarded from the public construction API. The
	// built-in solver ignores them; external codes may not.
	RTol, ATol float64
	Order      int
}

// History is the solver output: five equal-length arrays sampled on the
// solver's conformal-time grid. Tau and A must be strictly increasing.
type History struct {
	Tau []float64 // conformal time
	Cs2 []float64 // baryon sound speed squared
	Tb  []float64 // baryon temperature [K]
	Xe  []float64 // free-electron fraction per hydrogen nucleus
	A   []float64 // scale factor
}

// Solver computes an ionization/thermal history on [TauMin, TauMax].
type Solver interface {
	Compute(req Request) (*History, error)
}

func (r Request) validate() error {
	if r.NThermo < 2 {
		return fmt.Errorf("%w: nthermo must be at least 2, got %d", ErrInvalidRequest, r.NThermo)
	}
	if r.TauMin <= 0 || r.TauMax <= r.TauMin {
		return fmt.Errorf("%w: need 0 < taumin < taumax, got [%g, %g]",
			ErrInvalidRequest, r.TauMin, r.TauMax)
	}
	if r.Tcmb <= 0 || r.H0 <= 0 {
		return fmt.Errorf("%w: Tcmb and H0 must be positive", ErrInvalidRequest)
	}
	if r.YHe < 0 || r.YHe >= 1 {
		return fmt.Errorf("%w: YHe must be in [0, 1), got %g", ErrInvalidRequest, r.YHe)
	}
	if r.Rhonu == nil {
		return fmt.Errorf("%w: missing rhonu interpolant", ErrInvalidRequest)
	}
	return nil
}
