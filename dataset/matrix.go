package dataset

import "gonum.org/v1/gonum/mat"

// Matrix is a logically 2-D, row-major, dense array of float64. Missing
// values are IEEE-754 NaN. It is a thin alias so call sites in this
// module read in domain terms instead of gonum's.
type Matrix = mat.Dense

// Vector is a single primary- or replicate-weight column.
type Vector = []float64

// Imputations is the ordered sequence X[0..M-1] of imputed copies of the
// data, all sharing one shape. M=1 means "no imputation variance".
type Imputations []*Matrix

// Weights is either one shared weight vector (len==1) or one per
// imputation (len==M).
type Weights []Vector

// ReplicateMatrix is either one shared replicate-weight matrix (len==1,
// shape N×n_rep) or one per imputation (len==M).
type ReplicateMatrix []*Matrix

// GroupSpec restricts every estimator call to rows where column Column
// equals one value. Values==nil means "every observed non-NaN value of
// that column", read from the first imputation's matrix only.
type GroupSpec struct {
	Column int
	Values []float64
}

// N returns the row count shared by every matrix in x, or 0 if x is empty.
func (x Imputations) N() int {
	if len(x) == 0 {
		return 0
	}
	n, _ := x[0].Dims()
	return n
}

// K returns the column count shared by every matrix in x, or 0 if x is empty.
func (x Imputations) K() int {
	if len(x) == 0 {
		return 0
	}
	_, k := x[0].Dims()
	return k
}

// At returns the weight vector applicable to imputation m.
func (w Weights) At(m int) Vector {
	if len(w) == 1 {
		return w[0]
	}
	return w[m]
}

// At returns the replicate-weight matrix applicable to imputation m, or
// nil if no replicate weights were supplied.
func (r ReplicateMatrix) At(m int) *Matrix {
	if len(r) == 0 {
		return nil
	}
	if len(r) == 1 {
		return r[0]
	}
	return r[m]
}

// NRep returns the number of replicate-weight columns, or 0 if none.
func (r ReplicateMatrix) NRep(m int) int {
	rm := r.At(m)
	if rm == nil {
		return 0
	}
	_, nRep := rm.Dims()
	return nRep
}

// ReplicateColumn copies column j of the replicate matrix r into a
// fresh weight vector, for use as a substitute primary weight vector.
func ReplicateColumn(r *Matrix, j int) Vector {
	n, _ := r.Dims()
	col := make([]float64, n)
	mat.Col(col, j, r)
	return col
}
