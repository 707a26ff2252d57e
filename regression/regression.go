// Package regression implements the weighted least-squares solve shared
// by estimator.LinearRegression. It keeps the teacher's "pluggable
// regressor" shape (a tiny interface plus one implementation) even
// though replicore's estimator layer currently has exactly one caller.
package regression

import "gonum.org/v1/gonum/mat"

// Regressor fits a weighted linear model and reports coefficients,
// their standard errors, and fit diagnostics.
type Regressor interface {
	// Fit solves the weighted normal equations for X (n x p design
	// matrix, already including an intercept column if requested),
	// response y, and weights w. ok is false when XtWX is singular or
	// there are fewer active rows than columns.
	Fit(x *mat.Dense, y, w []float64) (fit Fit, ok bool)
}

// Fit bundles a weighted-least-squares solution.
type Fit struct {
	Beta   []float64
	SE     []float64
	Sigma2 float64
	R2     float64
}
