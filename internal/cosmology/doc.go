// Package cosmology precomputes the lookup tables a linear perturbation
// integrator needs before it can evolve a single mode.
//
// Construction is one call:
//
//	bundle, err := cosmology.New(params, cosmology.DefaultOptions())
//
// and produces a frozen [Bundle] holding seven interpolants:
//
//   - RhonuOfA, PnuOfA: massive-neutrino density and pressure, relative to
//     one massless flavour, as functions of scale factor
//   - Cs2OfTau, TempbOfTau, XeOfTau: baryon sound speed, baryon
//     temperature, and ionization fraction versus conformal time
//   - AOfTau, TauOfA: the scale-factor / conformal-time mapping and its
//     inverse
//
// The thermal history comes from a pluggable [thermo.Solver]; the built-in
// equilibrium solver is the default, a recombination code can be swapped in
// through [Options].
//
// # Errors
//
// Construction is atomic and classifies failures as [ErrInvalidArgument]
// (bad parameters or inputs), [ErrDomain] (non-monotonic abscissas, e.g. a
// misbehaving thermal solver), or [ErrNumerical] (a quadrature producing a
// non-finite or unordered result).
package cosmology
