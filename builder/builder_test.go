package builder

import (
	"context"
	"testing"

	"github.com/replicore-go/replicore/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBuilderChainSharesUnderlyingData(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	b1 := New().WithData(dataset.Imputations{x})
	b2 := b1.WithWeights(dataset.Weights{{1, 1, 1}})

	assert.Same(t, b1.x[0], b2.x[0])
	assert.Nil(t, b1.w)
}

func TestBuilderCalculateMean(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	result, err := New().
		WithData(dataset.Imputations{x}).
		WithWeights(dataset.Weights{{1, 1, 1, 1}}).
		WithVariables([]int{0}).
		Calculate(context.Background(), dataset.Mean, map[string]string{})

	require.NoError(t, err)
	require.NotNil(t, result.Single)
	assert.InDelta(t, 2.5, result.Single.FinalEstimates[0], 1e-9)
}

func TestBuilderCalculateRejectsShapeMismatch(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	_, err := New().
		WithData(dataset.Imputations{x}).
		WithWeights(dataset.Weights{{1, 1, 1}}). // wrong length
		WithVariables([]int{0}).
		Calculate(context.Background(), dataset.Mean, map[string]string{})

	assert.ErrorIs(t, err, dataset.ErrShapeMismatch)
}

func TestBuilderCalculateRejectsEmptyData(t *testing.T) {
	_, err := New().WithVariables([]int{0}).Calculate(context.Background(), dataset.Mean, map[string]string{})
	assert.ErrorIs(t, err, dataset.ErrEmptyData)
}
