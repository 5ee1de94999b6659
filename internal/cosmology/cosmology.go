package cosmology

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/cosmoprep/internal/nu"
	"github.com/san-kum/cosmoprep/internal/spline"
	"github.com/san-kum/cosmoprep/internal/thermo"
)

// rombergSamples must be 2^k+1 for Romberg extrapolation.
const rombergSamples = 1<<10 + 1

// Options tune bundle construction. RTol, ATol and Order are forwarded to
// the thermal solver untouched; the fixed-grid quadratures here do not
// interpret them.
type Options struct {
	NumThermo int
	RTol      float64
	ATol      float64
	Order     int
	Solver    thermo.Solver
}

func DefaultOptions() Options {
	return Options{
		NumThermo: 1000,
		RTol:      1e-5,
		ATol:      1e-7,
		Order:     5,
		Solver:    thermo.NewSahaSolver(),
	}
}

// Bundle is the frozen artifact of construction: parameters, derived
// constants, and the seven lookup splines. Read-only after New returns.
type Bundle struct {
	Params  Params
	Derived Derived

	RhonuOfA   *spline.Spline
	PnuOfA     *spline.Spline
	Cs2OfTau   *spline.Spline
	TempbOfTau *spline.Spline
	XeOfTau    *spline.Spline
	AOfTau     *spline.Spline
	TauOfA     *spline.Spline
}

// New validates p, precomputes every lookup table, and returns the frozen
// bundle. It either fully succeeds or returns an error with no partial
// state.
func New(p Params, opt Options) (*Bundle, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if opt.NumThermo < 2 {
		return nil, fmt.Errorf("%w: NumThermo must be at least 2, got %d", ErrInvalidArgument, opt.NumThermo)
	}
	if opt.Solver == nil {
		return nil, fmt.Errorf("%w: nil thermal solver", ErrInvalidArgument)
	}

	b := &Bundle{Params: p, Derived: derive(p)}

	if err := b.buildNeutrinoTables(opt.NumThermo); err != nil {
		return nil, err
	}
	if err := b.integrateConformalTime(); err != nil {
		return nil, err
	}
	if err := b.buildThermalTables(opt); err != nil {
		return nil, err
	}
	return b, nil
}

// buildNeutrinoTables sweeps the momentum quadrature over a geometric
// scale-factor grid and fits the density and pressure splines. Grid points
// are independent, so the sweep fans out across goroutines; each writes its
// own slot, keeping the abscissas ordered for the spline fit.
func (b *Bundle) buildNeutrinoTables(n int) error {
	a := geomspace(b.Derived.Amin, b.Derived.Amax, n)
	rhonu := make([]float64, n)
	pnu := make([]float64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rhonu[idx], pnu[idx], errs[idx] = nu.BackgroundDefault(a[idx], b.Derived.Amnu)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}

	var err error
	if b.RhonuOfA, err = spline.New(a, rhonu); err != nil {
		return fmt.Errorf("%w: rhonu table: %v", ErrDomain, err)
	}
	if b.PnuOfA, err = spline.New(a, pnu); err != nil {
		return fmt.Errorf("%w: pnu table: %v", ErrDomain, err)
	}
	return nil
}

// DtauDa is the derivative of conformal time with respect to scale factor,
// sqrt(3/grho2), with the massive-neutrino density read from the fitted
// table. Valid once the neutrino tables exist.
func (b *Bundle) DtauDa(a float64) float64 {
	d := b.Derived
	grho2 := d.Grhom*b.Params.Omegam*a +
		d.Grhog + d.Grhor*(b.Params.Neff+float64(b.Params.Nmnu)*b.RhonuOfA.Evaluate(a)) +
		d.Grhom*b.Params.OmegaL*a*a*a*a +
		d.Grhom*d.Omegak*a*a
	return math.Sqrt(3 / grho2)
}

// integrateConformalTime fixes taumin from the radiation-domination
// asymptote and Romberg-integrates a*dtau/da over log a for taumax.
func (b *Bundle) integrateConformalTime() error {
	b.Derived.TauMin = b.Derived.Amin / b.Derived.Adotrad

	lnMin := math.Log(b.Derived.Amin)
	lnMax := math.Log(b.Derived.Amax)
	dx := (lnMax - lnMin) / float64(rombergSamples-1)

	f := make([]float64, rombergSamples)
	for i := range f {
		a := math.Exp(lnMin + float64(i)*dx)
		f[i] = a * b.DtauDa(a)
	}
	b.Derived.TauMax = b.Derived.TauMin + integrate.Romberg(f, dx)

	if math.IsNaN(b.Derived.TauMax) || math.IsInf(b.Derived.TauMax, 0) ||
		b.Derived.TauMax <= b.Derived.TauMin {
		return fmt.Errorf("%w: conformal-time integral produced taumax=%g (taumin=%g)",
			ErrNumerical, b.Derived.TauMax, b.Derived.TauMin)
	}
	return nil
}

// buildThermalTables delegates to the thermal solver and resamples its
// history onto splines keyed by conformal time (and one inverse table
// keyed by scale factor).
func (b *Bundle) buildThermalTables(opt Options) error {
	hist, err := opt.Solver.Compute(thermo.Request{
		TauMin:  b.Derived.TauMin,
		TauMax:  b.Derived.TauMax,
		NThermo: opt.NumThermo,
		Tcmb:    b.Params.Tcmb,
		YHe:     b.Params.YHe,
		H0:      b.Params.H0,
		Omegab:  b.Params.Omegab,
		Omegam:  b.Params.Omegam,
		OmegaL:  b.Params.OmegaL,
		Neff:    b.Params.Neff,
		Nmnu:    b.Params.Nmnu,
		Rhonu:   b.RhonuOfA.Evaluate,
		RTol:    opt.RTol,
		ATol:    opt.ATol,
		Order:   opt.Order,
	})
	if err != nil {
		return fmt.Errorf("thermal solver: %w", err)
	}

	n := len(hist.Tau)
	if len(hist.Cs2) != n || len(hist.Tb) != n || len(hist.Xe) != n || len(hist.A) != n {
		return fmt.Errorf("%w: thermal solver returned ragged arrays", ErrDomain)
	}

	tables := []struct {
		name string
		dst  **spline.Spline
		xs   []float64
		ys   []float64
	}{
		{"cs2_of_tau", &b.Cs2OfTau, hist.Tau, hist.Cs2},
		{"tempb_of_tau", &b.TempbOfTau, hist.Tau, hist.Tb},
		{"xe_of_tau", &b.XeOfTau, hist.Tau, hist.Xe},
		{"a_of_tau", &b.AOfTau, hist.Tau, hist.A},
		{"tau_of_a", &b.TauOfA, hist.A, hist.Tau},
	}
	for _, tb := range tables {
		s, err := spline.New(tb.xs, tb.ys)
		if err != nil {
			if errors.Is(err, spline.ErrNotIncreasing) {
				return fmt.Errorf("%w: %s: %v", ErrDomain, tb.name, err)
			}
			return fmt.Errorf("%w: %s: %v", ErrInvalidArgument, tb.name, err)
		}
		*tb.dst = s
	}
	return nil
}

// PerturbMoments folds sampled distribution-function perturbations into the
// four neutrino moments at scale factor a, using this cosmology's mass
// parameter. See nu.Perturb for the grid convention.
func (b *Bundle) PerturbMoments(a float64, psi0, psi1, psi2 []float64) (drhonu, dpnu, fnu, shearnu float64, err error) {
	drhonu, dpnu, fnu, shearnu, err = nu.Perturb(a, b.Derived.Amnu, psi0, psi1, psi2)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return drhonu, dpnu, fnu, shearnu, err
}

// geomspace returns n points spaced geometrically on [lo, hi], endpoints
// included.
func geomspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	floats.Span(xs, math.Log(lo), math.Log(hi))
	for i, x := range xs {
		xs[i] = math.Exp(x)
	}
	xs[0] = lo
	xs[n-1] = hi
	return xs
}
