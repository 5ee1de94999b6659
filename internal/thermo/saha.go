package thermo

import (
	"fmt"
	"math"
)

// Physical constants for the equilibrium solver.
const (
	// (2*pi*m_e*k_B/h^2) in 1/(m^2 K); raised to 3/2 in the Saha prefactor.
	sahaPrefactor = 1.7998e14
	// Hydrogen ionization energy over k_B, in K.
	hIonization = 1.57885e5
	// k_B/(m_H c^2) in 1/K, for the dimensionless baryon sound speed.
	kBOverMHc2 = 9.184e-14
	// Present-day hydrogen number density per (1-YHe)*Omegab*h^2, in 1/m^3.
	nH0PerOmegabh2 = 11.223
	// Residual ionization floor; Saha equilibrium undershoots the real
	// freeze-out fraction at late times, so we clamp instead of tracking
	// the non-equilibrium tail.
	xeFloor = 1e-4
)

// Background density constants, same normalization as the cosmology
// initializer (h^2/Mpc^3 units).
const (
	grhomCoeff   = 3.3379e-11
	grhogCoeff   = 1.4952e-13
	grhorCoeff   = 3.3957e-14
	adotradCoeff = 2.8948e-7
)

// SahaSolver is the built-in thermal-history solver: Saha equilibrium
// hydrogen ionization, baryons thermally locked to the photons
// (Tb = Tcmb/a), and the scale factor advanced along the conformal-time
// grid with classical RK4 on da/dtau.
type SahaSolver struct{}

func NewSahaSolver() *SahaSolver { return &SahaSolver{} }

func (s *SahaSolver) Compute(req Request) (*History, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	n := req.NThermo
	grhom := grhomCoeff * req.H0 * req.H0
	grhog := grhogCoeff * math.Pow(req.Tcmb, 4)
	grhor := grhorCoeff * math.Pow(req.Tcmb, 4)
	adotrad := adotradCoeff * req.Tcmb * req.Tcmb

	// da/dtau from the Friedmann constraint; inverse of the initializer's
	// dtau/da integrand.
	dadtau := func(a float64) float64 {
		grho2 := grhom*req.Omegam*a +
			grhog + grhor*(req.Neff+float64(req.Nmnu)*req.Rhonu(a)) +
			grhom*req.OmegaL*a*a*a*a
		return math.Sqrt(grho2 / 3)
	}

	h := req.H0 / 100
	nH0 := nH0PerOmegabh2 * (1 - req.YHe) * req.Omegab * h * h
	mu := 1 / (1 - req.YHe + req.YHe/4) // neutral mean molecular weight

	hist := &History{
		Tau: make([]float64, n),
		Cs2: make([]float64, n),
		Tb:  make([]float64, n),
		Xe:  make([]float64, n),
		A:   make([]float64, n),
	}

	dtau := (req.TauMax - req.TauMin) / float64(n-1)
	a := adotrad * req.TauMin // radiation-domination asymptote at taumin
	for i := 0; i < n; i++ {
		tau := req.TauMin + float64(i)*dtau
		tb := req.Tcmb / a
		xe := sahaXe(tb, nH0/(a*a*a))

		hist.Tau[i] = tau
		hist.A[i] = a
		hist.Tb[i] = tb
		hist.Xe[i] = xe
		// Adiabatic baryons tightly coupled to photons: d ln Tb/d ln a = -1,
		// so cs^2 = (k_B Tb / mu m_H) * 4/3, in units of c^2.
		hist.Cs2[i] = kBOverMHc2 * tb / mu * 4 / 3

		if i < n-1 {
			a = rk4Step(a, dtau, dadtau)
		}
	}

	if !increasing(hist.A) {
		return nil, fmt.Errorf("%w: integrated scale factor is not increasing", ErrInvalidRequest)
	}
	return hist, nil
}

// sahaXe solves xe^2/(1-xe) = r for the equilibrium ionization fraction,
// with r the Saha ratio at baryon temperature tb and hydrogen density nH.
func sahaXe(tb, nH float64) float64 {
	expo := hIonization / tb
	if expo > 680 {
		return xeFloor // exp underflows; fully recombined
	}
	r := math.Pow(sahaPrefactor*tb, 1.5) * math.Exp(-expo) / nH
	if r > 1e12 {
		return 1
	}
	if r <= 0 {
		return xeFloor
	}
	xe := 2 / (1 + math.Sqrt(1+4/r))
	return math.Max(xe, xeFloor)
}

// rk4Step advances a by one classical Runge-Kutta step of size dtau.
func rk4Step(a, dtau float64, f func(float64) float64) float64 {
	k1 := f(a)
	k2 := f(a + dtau/2*k1)
	k3 := f(a + dtau/2*k2)
	k4 := f(a + dtau*k3)
	return a + dtau/6*(k1+2*k2+2*k3+k4)
}

func increasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}
