// Package spline provides natural cubic-spline interpolants over strictly
// increasing abscissas, with pointwise evaluation and closed-form definite
// integration. Every lookup table in the cosmology bundle is one of these.
package spline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTooFewPoints   = errors.New("spline: need at least 2 points")
	ErrLengthMismatch = errors.New("spline: xs and ys must have equal length")
	ErrNotIncreasing  = errors.New("spline: abscissas must be strictly increasing")
)

// Spline is a piecewise cubic s(x) = y[i] + b[i]*h + c[i]*h^2 + d[i]*h^3
// on [x[i], x[i+1]], h = x - x[i], with natural boundary conditions.
// Immutable after construction.
type Spline struct {
	x, y    []float64
	b, c, d []float64
	cum     []float64 // cum[i] = integral from x[0] to x[i]
}

// New fits a natural cubic spline through (xs[i], ys[i]). The inputs are
// copied; xs must be strictly increasing and len(xs) == len(ys) >= 2.
func New(xs, ys []float64) (*Spline, error) {
	n := len(xs)
	if n != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, n, len(ys))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	for i := 1; i < n; i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("%w: x[%d]=%g, x[%d]=%g", ErrNotIncreasing, i-1, xs[i-1], i, xs[i])
		}
	}

	s := &Spline{
		x: append([]float64(nil), xs...),
		y: append([]float64(nil), ys...),
		b: make([]float64, n),
		c: make([]float64, n),
		d: make([]float64, n),
	}
	s.fit()
	s.accumulate()
	return s, nil
}

// fit solves the natural-spline tridiagonal system for the c coefficients,
// then recovers b and d segment-wise.
func (s *Spline) fit() {
	n := len(s.x)
	if n == 2 {
		s.b[0] = (s.y[1] - s.y[0]) / (s.x[1] - s.x[0])
		s.b[1] = s.b[0]
		return
	}

	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = s.x[i+1] - s.x[i]
	}

	// Thomas sweep; natural boundaries pin c[0] = c[n-1] = 0.
	mu := make([]float64, n)
	z := make([]float64, n)
	for i := 1; i < n-1; i++ {
		alpha := 3*(s.y[i+1]-s.y[i])/h[i] - 3*(s.y[i]-s.y[i-1])/h[i-1]
		l := 2*(s.x[i+1]-s.x[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l
		z[i] = (alpha - h[i-1]*z[i-1]) / l
	}
	for i := n - 2; i >= 0; i-- {
		s.c[i] = z[i] - mu[i]*s.c[i+1]
		s.b[i] = (s.y[i+1]-s.y[i])/h[i] - h[i]*(s.c[i+1]+2*s.c[i])/3
		s.d[i] = (s.c[i+1] - s.c[i]) / (3 * h[i])
	}
}

// accumulate precomputes cumulative segment integrals so Integral is O(log n).
func (s *Spline) accumulate() {
	n := len(s.x)
	s.cum = make([]float64, n)
	for i := 0; i < n-1; i++ {
		s.cum[i+1] = s.cum[i] + s.segmentIntegral(i, s.x[i+1]-s.x[i])
	}
}

// segmentIntegral is the antiderivative of segment i evaluated at offset h
// from the left knot.
func (s *Spline) segmentIntegral(i int, h float64) float64 {
	return h * (s.y[i] + h*(s.b[i]/2+h*(s.c[i]/3+h*s.d[i]/4)))
}

// segment returns the index of the cubic piece governing x. Points outside
// the knot range extrapolate with the nearest boundary piece.
func (s *Spline) segment(x float64) int {
	n := len(s.x)
	i := sort.SearchFloat64s(s.x, x) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return i
}

// Evaluate returns s(x), extrapolating with the boundary cubic outside the
// fitted range.
func (s *Spline) Evaluate(x float64) float64 {
	i := s.segment(x)
	h := x - s.x[i]
	return s.y[i] + h*(s.b[i]+h*(s.c[i]+h*s.d[i]))
}

// Integral returns the definite integral of s over [lo, hi]. Limits outside
// the knot range use the extrapolated boundary cubic, matching Evaluate.
func (s *Spline) Integral(lo, hi float64) float64 {
	if lo == hi {
		return 0
	}
	if lo > hi {
		return -s.Integral(hi, lo)
	}
	return s.antiderivative(hi) - s.antiderivative(lo)
}

func (s *Spline) antiderivative(x float64) float64 {
	i := s.segment(x)
	return s.cum[i] + s.segmentIntegral(i, x-s.x[i])
}

// Min and Max bound the fitted abscissa range.
func (s *Spline) Min() float64 { return s.x[0] }
func (s *Spline) Max() float64 { return s.x[len(s.x)-1] }

// Len reports the number of knots.
func (s *Spline) Len() int { return len(s.x) }
