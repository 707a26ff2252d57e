package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestWLSPerfectFit(t *testing.T) {
	// intercept + x, y = x exactly: beta_intercept=0, beta_x=1, R2=1.
	x := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
	})
	y := []float64{1, 2, 3, 4}
	w := []float64{1, 1, 1, 1}

	fit, ok := NewWLS().Fit(x, y, w)
	assert.True(t, ok)
	assert.InDelta(t, 0, fit.Beta[0], 1e-9)
	assert.InDelta(t, 1, fit.Beta[1], 1e-9)
	assert.InDelta(t, 1, fit.R2, 1e-9)
	assert.InDelta(t, 0, fit.Sigma2, 1e-9)
}

func TestWLSSingularDuplicateRegressor(t *testing.T) {
	x := mat.NewDense(4, 3, []float64{
		1, 2, 2,
		1, 3, 3,
		1, 4, 4,
		1, 5, 5,
	})
	y := []float64{1, 2, 3, 4}
	w := []float64{1, 1, 1, 1}

	_, ok := NewWLS().Fit(x, y, w)
	assert.False(t, ok)
}

func TestWLSUnderdetermined(t *testing.T) {
	x := mat.NewDense(1, 2, []float64{1, 1})
	y := []float64{1}
	w := []float64{1}

	_, ok := NewWLS().Fit(x, y, w)
	assert.False(t, ok)
}

func TestWLSWeightedShift(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{2, 4, 6}
	w := []float64{1, 1, 100}

	fit, ok := NewWLS().Fit(x, y, w)
	assert.True(t, ok)
	// every point lies on y = 2x, so the heavy weight on the third
	// point leaves the single-regressor slope at 2.
	assert.InDelta(t, 2.0, fit.Beta[0], 1e-6)
	assert.False(t, math.IsNaN(fit.R2))
}
