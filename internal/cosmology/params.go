package cosmology

import (
	"errors"
	"fmt"
)

// Error taxonomy for bundle construction. Construction is atomic: any of
// these means no bundle was produced.
var (
	ErrInvalidArgument = errors.New("cosmology: invalid argument")
	ErrDomain          = errors.New("cosmology: domain error")
	ErrNumerical       = errors.New("cosmology: numerical error")
)

// Fixed constants of the table builder.
const (
	c2ok = 1.62581581e4 // K/eV, converts mnu [eV] to amnu via Tcmb

	amin = 1e-9
	amax = 1.01

	// Density normalizations in h^2/Mpc^3 units.
	grhomCoeff = 3.3379e-11 // critical density at z=0, times H0^2
	grhogCoeff = 1.4952e-13 // photon density, times Tcmb^4
	grhorCoeff = 3.3957e-14 // neutrino density per flavour, times Tcmb^4

	adotradCoeff = 2.8948e-7 // a-dot during radiation domination, times Tcmb^2
)

// Params holds the physical inputs of a cosmology. Zero neutrino content
// (Nmnu=0, Mnu=0) reproduces the standard massless-neutrino background.
type Params struct {
	Omegam float64 // total matter density
	Omegab float64 // baryon density
	OmegaL float64 // dark-energy density
	H0     float64 // Hubble rate [km/s/Mpc]
	Tcmb   float64 // CMB temperature [K]
	YHe    float64 // helium mass fraction
	Neff   float64 // effective massless-neutrino count
	Nmnu   int     // number of massive flavours
	Mnu    float64 // neutrino mass [eV]
}

func (p Params) validate() error {
	switch {
	case p.Omegam < 0:
		return fmt.Errorf("%w: Omegam must be non-negative, got %g", ErrInvalidArgument, p.Omegam)
	case p.Omegab < 0:
		return fmt.Errorf("%w: Omegab must be non-negative, got %g", ErrInvalidArgument, p.Omegab)
	case p.Omegab > p.Omegam:
		return fmt.Errorf("%w: Omegab=%g exceeds Omegam=%g", ErrInvalidArgument, p.Omegab, p.Omegam)
	case p.OmegaL < 0:
		return fmt.Errorf("%w: OmegaL must be non-negative, got %g", ErrInvalidArgument, p.OmegaL)
	case p.H0 <= 0:
		return fmt.Errorf("%w: H0 must be positive, got %g", ErrInvalidArgument, p.H0)
	case p.Tcmb <= 0:
		return fmt.Errorf("%w: Tcmb must be positive, got %g", ErrInvalidArgument, p.Tcmb)
	case p.YHe < 0 || p.YHe >= 1:
		return fmt.Errorf("%w: YHe must be in [0, 1), got %g", ErrInvalidArgument, p.YHe)
	case p.Neff < 0:
		return fmt.Errorf("%w: Neff must be non-negative, got %g", ErrInvalidArgument, p.Neff)
	case p.Nmnu < 0:
		return fmt.Errorf("%w: Nmnu must be non-negative, got %d", ErrInvalidArgument, p.Nmnu)
	case p.Mnu < 0:
		return fmt.Errorf("%w: Mnu must be non-negative, got %g", ErrInvalidArgument, p.Mnu)
	}
	return nil
}

// Derived are the quantities fixed by Params at construction time.
type Derived struct {
	Omegac  float64 // cold dark matter density, Omegam - Omegab
	Omegak  float64 // curvature, pinned to 0
	Grhom   float64
	Grhog   float64
	Grhor   float64
	Adotrad float64
	Amnu    float64 // m_nu c^2 / (k_B T_nu0)
	Amin    float64
	Amax    float64
	TauMin  float64
	TauMax  float64
}

func derive(p Params) Derived {
	return Derived{
		Omegac:  p.Omegam - p.Omegab,
		Omegak:  0,
		Grhom:   grhomCoeff * p.H0 * p.H0,
		Grhog:   grhogCoeff * pow4(p.Tcmb),
		Grhor:   grhorCoeff * pow4(p.Tcmb),
		Adotrad: adotradCoeff * p.Tcmb * p.Tcmb,
		Amnu:    p.Mnu * c2ok / p.Tcmb,
		Amin:    amin,
		Amax:    amax,
	}
}

func pow4(x float64) float64 { return x * x * x * x }
