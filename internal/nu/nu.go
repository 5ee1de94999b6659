// Package nu integrates massive-neutrino phase-space moments over a
// discretized comoving-momentum grid. Background returns the mean density
// and pressure of one massive flavour relative to a massless one;
// Perturb folds sampled distribution-function perturbations into the four
// macroscopic moments sourced by the perturbation equations.
package nu

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/cosmoprep/internal/spline"
)

// normConst is 7*pi^4/120, the energy density of one massless flavour in
// grid units. Fixed to 15 digits so results do not drift with how the
// constant is recomputed.
const normConst = 5.682196976983475

// Default momentum-grid extent shared by both integrals. The asymptotic
// tail corrections assume momenta beyond QMax are exponentially suppressed.
const (
	DefaultNQ   = 1000
	DefaultQMax = 30.0
)

var ErrInvalidArgument = errors.New("nu: invalid argument")

// Background computes (rho_nu/rho_nu0, p_nu/p_nu0) for one massive flavour
// at scale factor a. amnu is the neutrino mass in units of the neutrino
// temperature, m_nu*c^2/(k_B*T_nu0). The phase-space integral runs over a
// uniform grid of nq momenta on (0, qmax] with an asymptotic correction for
// the truncated tail.
func Background(a, amnu float64, nq int, qmax float64) (rhonu, pnu float64, err error) {
	if amnu < 0 {
		return 0, 0, fmt.Errorf("%w: amnu must be non-negative, got %g", ErrInvalidArgument, amnu)
	}
	if nq <= 0 {
		return 0, 0, fmt.Errorf("%w: nq must be positive, got %d", ErrInvalidArgument, nq)
	}
	if qmax <= 0 {
		return 0, 0, fmt.Errorf("%w: qmax must be positive, got %g", ErrInvalidArgument, qmax)
	}

	dq := qmax / float64(nq)
	q := make([]float64, nq)
	dum1 := make([]float64, nq) // density-like integrand qdn/v
	dum2 := make([]float64, nq) // pressure-like integrand qdn*v
	for i := 0; i < nq; i++ {
		qi := dq * float64(i+1)
		aq := a * amnu / qi
		v := 1 / math.Sqrt(1+aq*aq)
		qdn := dq * qi * qi * qi / (math.Exp(qi) + 1)
		q[i] = qi
		dum1[i] = qdn / v
		dum2[i] = qdn * v
	}

	rhoSpline, err := spline.New(q, dum1)
	if err != nil {
		return 0, 0, err
	}
	pSpline, err := spline.New(q, dum2)
	if err != nil {
		return 0, 0, err
	}

	rhonu = rhoSpline.Integral(0, qmax)
	pnu = pSpline.Integral(0, qmax)

	// Tail correction for q > qmax, then normalize by the massless-flavour
	// density. The pressure of a relativistic species carries the extra 1/3.
	rhonu = (rhonu/dq + dum1[nq-1]/dq) / normConst
	pnu = (pnu/dq + dum2[nq-1]/dq) / normConst / 3
	return rhonu, pnu, nil
}

// BackgroundDefault is Background with the standard grid (nq=1000, qmax=30).
func BackgroundDefault(a, amnu float64) (rhonu, pnu float64, err error) {
	return Background(a, amnu, DefaultNQ, DefaultQMax)
}

// Perturb integrates the perturbed distribution-function samples psi0, psi1,
// psi2 (taken at momentum nodes q_i = i - 0.5, i = 1..len) into the density
// perturbation, pressure perturbation, energy flux, and anisotropic shear of
// one massive flavour, in units of the massless-flavour mean density.
//
// The integration grid is the integer index grid 0..n with a forced zero at
// the q=0 boundary; the truncated tail is corrected with 2*g[n]/qmax where
// qmax is the global momentum cutoff, not the grid-local n-0.5. That
// asymmetry matches the truncated-moment expansion used by the background
// integral and must not be "fixed" independently of it.
func Perturb(a, amnu float64, psi0, psi1, psi2 []float64) (drhonu, dpnu, fnu, shearnu float64, err error) {
	n := len(psi0)
	if n == 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: psi0 is empty", ErrInvalidArgument)
	}
	if len(psi1) != n || len(psi2) != n {
		return 0, 0, 0, 0, fmt.Errorf("%w: psi lengths differ: %d, %d, %d",
			ErrInvalidArgument, n, len(psi1), len(psi2))
	}
	if amnu < 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: amnu must be non-negative, got %g", ErrInvalidArgument, amnu)
	}

	qmax0 := float64(n) - 0.5

	qq := make([]float64, n+1) // index grid, unit spacing
	g1 := make([]float64, n+1)
	g2 := make([]float64, n+1)
	g3 := make([]float64, n+1)
	g4 := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		qq[i] = float64(i)
		qi := float64(i) - 0.5
		aq := a * amnu / qi
		v := 1 / math.Sqrt(1+aq*aq)
		qdn := qi * qi * qi / (math.Exp(qi) + 1)
		g1[i] = qdn * psi0[i-1] / v
		g2[i] = qdn * psi0[i-1] * v
		g3[i] = qdn * psi1[i-1]
		g4[i] = qdn * psi2[i-1] * v
	}

	g01, err := integrate(qq, g1, qmax0)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	g02, err := integrate(qq, g2, qmax0)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	g03, err := integrate(qq, g3, qmax0)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	g04, err := integrate(qq, g4, qmax0)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	drhonu = (g01 + g1[n]*2/DefaultQMax) / normConst
	dpnu = (g02 + g2[n]*2/DefaultQMax) / normConst / 3
	fnu = (g03 + g3[n]*2/DefaultQMax) / normConst
	shearnu = (g04 + g4[n]*2/DefaultQMax) / normConst * 2 / 3
	return drhonu, dpnu, fnu, shearnu, nil
}

func integrate(xs, ys []float64, hi float64) (float64, error) {
	s, err := spline.New(xs, ys)
	if err != nil {
		return 0, err
	}
	return s.Integral(0, hi), nil
}
