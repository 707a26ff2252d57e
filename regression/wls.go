package regression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// WLS implements weighted least squares via the normal equations
// β̂ = (XᵀWX)⁻¹XᵀWy, adapted from the teacher's coordinate-descent LASSO
// into a closed-form solve: replicore's regression estimator has no L1
// term, so the iterative machinery the teacher used does not survive,
// but the package shape (a Regressor implementing Fit) does, and so
// does the teacher's habit of caching each column once via mat.Col and
// reducing it with gonum/floats instead of hand-rolled loops.
type WLS struct{}

// NewWLS returns a ready-to-use weighted-least-squares regressor.
func NewWLS() *WLS {
	return &WLS{}
}

// Fit solves the weighted normal equations. ok is false when XtWX is
// singular or under-determined (active rows < columns); callers should
// treat that as numerical degeneracy, not an error (spec.md §7).
func (*WLS) Fit(x *mat.Dense, y, w []float64) (Fit, bool) {
	n, p := x.Dims()
	if n < p {
		return Fit{}, false
	}

	cols := make([][]float64, p)
	wy := make([]float64, n)
	for i := 0; i < n; i++ {
		wy[i] = w[i] * y[i]
	}
	for a := 0; a < p; a++ {
		col := make([]float64, n)
		mat.Col(col, a, x)
		cols[a] = col
	}

	xtwx := mat.NewDense(p, p, nil)
	xtwy := mat.NewDense(p, 1, nil)
	weighted := make([]float64, n)
	for a := 0; a < p; a++ {
		xtwy.Set(a, 0, floats.Dot(cols[a], wy))
		for b := a; b < p; b++ {
			for i := range weighted {
				weighted[i] = w[i] * cols[a][i]
			}
			s := floats.Dot(weighted, cols[b])
			xtwx.Set(a, b, s)
			xtwx.Set(b, a, s)
		}
	}

	var betaDense mat.Dense
	if err := betaDense.Solve(xtwx, xtwy); err != nil {
		return Fit{}, false
	}
	beta := make([]float64, p)
	for i := range beta {
		beta[i] = betaDense.At(i, 0)
	}

	var inv mat.Dense
	if err := inv.Inverse(xtwx); err != nil {
		return Fit{}, false
	}

	sumWeight := floats.Sum(w)
	weightedMeanY := floats.Dot(w, y) / sumWeight

	pred := make([]float64, n)
	for a := 0; a < p; a++ {
		floats.AddScaled(pred, beta[a], cols[a])
	}
	resid := make([]float64, n)
	floats.SubTo(resid, y, pred)

	var sigma2, varY float64
	for i := 0; i < n; i++ {
		sigma2 += w[i] * resid[i] * resid[i]
		dy := y[i] - weightedMeanY
		varY += w[i] * dy * dy
	}
	sigma2 /= sumWeight
	varY /= sumWeight

	se := make([]float64, p)
	for a := 0; a < p; a++ {
		se[a] = math.Sqrt(sigma2 * inv.At(a, a))
	}

	r2 := math.NaN()
	if varY > 0 {
		r2 = 1 - sigma2/varY
	}

	return Fit{Beta: beta, SE: se, Sigma2: sigma2, R2: r2}, true
}
