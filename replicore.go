// Package replicore is the dispatch façade of spec.md §4.5/§6.1: the
// single entry point non-native callers (bindings, the server) use. It
// builds an Analysis internally and hands it straight to the
// replication engine; it holds no state of its own.
package replicore

import (
	"context"

	"github.com/replicore-go/replicore/builder"
	"github.com/replicore-go/replicore/dataset"
	"github.com/replicore-go/replicore/replicate"
)

// Kind re-exports dataset.Kind so callers of this package never need to
// import dataset directly for the common case.
type Kind = dataset.Kind

// The five estimators of spec.md §4.1.
const (
	Mean             = dataset.Mean
	Frequencies      = dataset.Frequencies
	Quantiles        = dataset.Quantiles
	Correlation      = dataset.Correlation
	LinearRegression = dataset.LinearRegression
)

// PooledResult re-exports replicate.PooledResult.
type PooledResult = replicate.PooledResult

// GroupKey re-exports replicate.GroupKey.
type GroupKey = replicate.GroupKey

// ReplicateEstimates is the native entry point of spec.md §6.1: it
// builds an analysis from x/w/r/factor, evaluates kind with the given
// options, and returns the pooled (Rubin's-rules-combined) result. Use
// ReplicateEstimatesGrouped when a group-by column is needed.
func ReplicateEstimates(
	ctx context.Context,
	kind Kind,
	options map[string]string,
	x dataset.Imputations,
	w dataset.Weights,
	r dataset.ReplicateMatrix,
	columns []int,
	factor float64,
) (*PooledResult, error) {
	result, err := builder.New().
		WithData(x).
		WithWeights(w).
		WithReplicateWeights(r).
		WithVariables(columns).
		WithFactor(factor).
		Calculate(ctx, kind, options)
	if err != nil {
		return nil, err
	}
	return result.Single, nil
}

// ReplicateEstimatesGrouped is ReplicateEstimates restricted to one
// group-by column, returning one pooled result per group value.
func ReplicateEstimatesGrouped(
	ctx context.Context,
	kind Kind,
	options map[string]string,
	x dataset.Imputations,
	w dataset.Weights,
	r dataset.ReplicateMatrix,
	columns []int,
	factor float64,
	groupColumn int,
	groupValues []float64,
) (map[GroupKey]*PooledResult, error) {
	result, err := builder.New().
		WithData(x).
		WithWeights(w).
		WithReplicateWeights(r).
		WithVariables(columns).
		WithFactor(factor).
		WithGroupBy(groupColumn, groupValues).
		Calculate(ctx, kind, options)
	if err != nil {
		return nil, err
	}
	return result.Groups, nil
}
