package estimator

import (
	"testing"

	"github.com/replicore-go/replicore/dataset"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMeanConstantColumn(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{5, 5, 5, 5})
	w := dataset.Vector{1, 1, 1, 1}

	r := Mean(x, w, -1, 0, []int{0}, MeanOptions{})
	assert.Equal(t, []string{"mean_0", "sd_0", "N_0", "sumwgt_0"}, r.Names)
	assert.InDelta(t, 5, r.Values[0], 1e-12)
	assert.InDelta(t, 0, r.Values[1], 1e-12)
	assert.Equal(t, 4.0, r.Values[2])
	assert.Equal(t, 4.0, r.Values[3])
}

func TestMeanWeightScalingInvariant(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	w1 := dataset.Vector{1, 2, 3}
	w2 := dataset.Vector{10, 20, 30}

	r1 := Mean(x, w1, -1, 0, []int{0}, MeanOptions{})
	r2 := Mean(x, w2, -1, 0, []int{0}, MeanOptions{})
	assert.InDelta(t, r1.Values[0], r2.Values[0], 1e-9)
	assert.InDelta(t, r1.Values[1], r2.Values[1], 1e-9)
}

func TestMeanAllExcludedIsNaN(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	w := dataset.Vector{0, 0}

	r := Mean(x, w, -1, 0, []int{0}, MeanOptions{})
	for _, v := range r.Values {
		assert.True(t, v != v, "expected NaN")
	}
}

func TestMeanNaNExcludesRow(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, nan()})
	w := dataset.Vector{1, 1, 1}

	r := Mean(x, w, -1, 0, []int{0}, MeanOptions{})
	assert.InDelta(t, 1.5, r.Values[0], 1e-12)
	assert.Equal(t, 2.0, r.Values[2])
}

func TestMeanGroupBy(t *testing.T) {
	// column 0 is the measured variable, column 1 is the group key.
	x := mat.NewDense(4, 2, []float64{
		1, 0,
		3, 0,
		10, 1,
		20, 1,
	})
	w := dataset.Vector{1, 1, 1, 1}

	r0 := Mean(x, w, 1, 0, []int{0}, MeanOptions{})
	r1 := Mean(x, w, 1, 1, []int{0}, MeanOptions{})
	assert.InDelta(t, 2, r0.Values[0], 1e-12)
	assert.InDelta(t, 15, r1.Values[0], 1e-12)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
