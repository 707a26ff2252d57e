package dataset

import "fmt"

// Validate runs every precondition check spec.md §4.4 requires before
// any numerical work starts: non-empty data, matching M across
// data/weights/replicates, matching N across all matrices, and selected
// column indices in range.
func Validate(a *Analysis) error {
	m := a.M()
	if m == 0 {
		return ErrEmptyData
	}
	n, k := a.X.N(), a.X.K()
	for i, x := range a.X {
		xn, xk := x.Dims()
		if xn != n || xk != k {
			return fmt.Errorf("%w: imputation %d has shape (%d,%d), want (%d,%d)", ErrShapeMismatch, i, xn, xk, n, k)
		}
	}

	if len(a.W) != 1 && len(a.W) != m {
		return fmt.Errorf("%w: %d weight vectors for %d imputations", ErrShapeMismatch, len(a.W), m)
	}
	for i, w := range a.W {
		if len(w) != n {
			return fmt.Errorf("%w: weight vector %d has length %d, want %d", ErrShapeMismatch, i, len(w), n)
		}
	}

	if len(a.R) != 0 && len(a.R) != 1 && len(a.R) != m {
		return fmt.Errorf("%w: %d replicate-weight matrices for %d imputations", ErrShapeMismatch, len(a.R), m)
	}
	for i, r := range a.R {
		rn, _ := r.Dims()
		if rn != n {
			return fmt.Errorf("%w: replicate matrix %d has %d rows, want %d", ErrShapeMismatch, i, rn, n)
		}
	}

	for _, c := range a.Columns {
		if c < 0 || c >= k {
			return fmt.Errorf("%w: column index %d out of range [0,%d)", ErrShapeMismatch, c, k)
		}
	}
	if a.Group != nil && (a.Group.Column < 0 || a.Group.Column >= k) {
		return fmt.Errorf("%w: group-by column %d out of range [0,%d)", ErrShapeMismatch, a.Group.Column, k)
	}

	return nil
}
