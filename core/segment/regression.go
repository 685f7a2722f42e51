// Package segment implements piecewise-linear trend detection for tracker
// series: closed-form least squares over aggregate sums, noise-variance
// estimation, and bottom-up segment merging with a penalty term.
package segment

import "errors"

// degenerateDet is the determinant tolerance below which a regression is
// treated as degenerate (all x equal) and replaced by a flat line.
const degenerateDet = 1e-10

// Stats is the aggregate statistics tuple of a contiguous index range.
// Two adjacent tuples combine by element-wise addition, which is what makes
// evaluating a segment merge O(1).
type Stats struct {
	N   int
	Sx  float64
	Sy  float64
	Sxy float64
	Sxx float64
	Syy float64
}

// NewStats accumulates the aggregate sums of y over the index range
// [start, end], with the index itself as the x coordinate.
func NewStats(y []float64, start, end int) Stats {
	s := Stats{N: end - start + 1}
	for i := start; i <= end; i++ {
		x := float64(i)
		s.Sx += x
		s.Sy += y[i]
		s.Sxy += x * y[i]
		s.Sxx += x * x
		s.Syy += y[i] * y[i]
	}
	return s
}

// Add returns the element-wise sum of two tuples, covering the union of two
// adjacent ranges.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		N:   s.N + o.N,
		Sx:  s.Sx + o.Sx,
		Sy:  s.Sy + o.Sy,
		Sxy: s.Sxy + o.Sxy,
		Sxx: s.Sxx + o.Sxx,
		Syy: s.Syy + o.Syy,
	}
}

// Fit returns the least-squares slope and intercept for the points summarized
// by the tuple. When the determinant is near zero (all x equal) it falls back
// to a flat line at the mean of y instead of dividing by zero.
func (s Stats) Fit() (a, b float64) {
	n := float64(s.N)
	det := n*s.Sxx - s.Sx*s.Sx
	if det < degenerateDet && det > -degenerateDet {
		return 0, s.Sy / n
	}
	a = (n*s.Sxy - s.Sx*s.Sy) / det
	b = (s.Sy - a*s.Sx) / n
	return a, b
}

// FitSSR returns the fitted line together with its sum of squared residuals,
// computed from the aggregate sums as Syy - a*Sxy - b*Sy. The SSR is floored
// at zero to absorb negative-near-zero floating point artifacts. Ranges of a
// single point fit trivially with zero residual.
func (s Stats) FitSSR() (ssr, a, b float64) {
	if s.N <= 1 {
		return 0, 0, 0
	}
	a, b = s.Fit()
	ssr = s.Syy - a*s.Sxy - b*s.Sy
	if ssr < 0 {
		ssr = 0
	}
	return ssr, a, b
}

// Linreg fits a line y = a*x + b to two equal-length point sequences,
// minimizing the sum of squared residuals. It needs at least two points and
// at least two distinct x values; a degenerate x range yields an error rather
// than a silent flat fit, since callers passing explicit coordinates should
// know their domain is collapsed.
func Linreg(xs, ys []float64) (a, b float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, errors.New("x and y must have the same length")
	}
	if len(xs) < 2 {
		return 0, 0, errors.New("at least two points required for regression")
	}
	var s Stats
	s.N = len(xs)
	for i, x := range xs {
		s.Sx += x
		s.Sy += ys[i]
		s.Sxy += x * ys[i]
		s.Sxx += x * x
		s.Syy += ys[i] * ys[i]
	}
	n := float64(s.N)
	det := n*s.Sxx - s.Sx*s.Sx
	if det < degenerateDet && det > -degenerateDet {
		return 0, 0, errors.New("all x values are equal")
	}
	a = (n*s.Sxy - s.Sx*s.Sy) / det
	b = (s.Sxx*s.Sy - s.Sx*s.Sxy) / det
	return a, b, nil
}
