// Package builder implements the fluent accumulation API of spec.md
// §4.4: each With* call returns a new header that shares the previous
// one's underlying matrices, and Calculate freezes the header into a
// dataset.Analysis and dispatches to the replication engine.
package builder

import (
	"context"

	"github.com/replicore-go/replicore/dataset"
	"github.com/replicore-go/replicore/replicate"
)

// Builder accumulates inputs into a dataset.Analysis. The zero value is
// a valid, empty builder.
type Builder struct {
	x       dataset.Imputations
	w       dataset.Weights
	r       dataset.ReplicateMatrix
	columns []int
	group   *dataset.GroupSpec
	factor  float64
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{factor: 1}
}

func (b *Builder) clone() *Builder {
	n := *b
	return &n
}

// WithData sets the imputed data X[0..M-1].
func (b *Builder) WithData(x dataset.Imputations) *Builder {
	n := b.clone()
	n.x = x
	return n
}

// WithWeights sets the primary weight vector(s).
func (b *Builder) WithWeights(w dataset.Weights) *Builder {
	n := b.clone()
	n.w = w
	return n
}

// WithReplicateWeights sets the replicate-weight matrix/matrices.
func (b *Builder) WithReplicateWeights(r dataset.ReplicateMatrix) *Builder {
	n := b.clone()
	n.r = r
	return n
}

// WithVariables selects the data columns the estimator will read.
func (b *Builder) WithVariables(indices []int) *Builder {
	n := b.clone()
	n.columns = append([]int(nil), indices...)
	return n
}

// WithGroupBy sets the grouping column and, optionally, an explicit set
// of group values. values==nil means "every observed value".
func (b *Builder) WithGroupBy(column int, values []float64) *Builder {
	n := b.clone()
	n.group = &dataset.GroupSpec{Column: column, Values: values}
	return n
}

// WithFactor sets the variance factor f that scales the replicate
// sampling-variance sum.
func (b *Builder) WithFactor(f float64) *Builder {
	n := b.clone()
	n.factor = f
	return n
}

// analysis freezes the accumulated header into a dataset.Analysis.
func (b *Builder) analysis(kind dataset.Kind, options map[string]string) *dataset.Analysis {
	return &dataset.Analysis{
		X:       b.x,
		W:       b.w,
		R:       b.r,
		Columns: b.columns,
		Group:   b.group,
		Factor:  b.factor,
		Kind:    kind,
		Options: options,
	}
}

// Result is either a single pooled result (no grouping) or a per-group
// map, depending on whether WithGroupBy was called.
type Result struct {
	Single *replicate.PooledResult
	Groups map[replicate.GroupKey]*replicate.PooledResult
}

// Calculate validates preconditions, freezes the builder into an
// Analysis, and runs the replication engine exactly once.
func (b *Builder) Calculate(ctx context.Context, kind dataset.Kind, options map[string]string) (*Result, error) {
	a := b.analysis(kind, options)
	if err := dataset.Validate(a); err != nil {
		return nil, err
	}

	engine := &replicate.Engine{}
	if a.Group != nil {
		groups, err := engine.RunGrouped(ctx, a)
		if err != nil {
			return nil, err
		}
		return &Result{Groups: groups}, nil
	}

	single, err := engine.Run(ctx, a)
	if err != nil {
		return nil, err
	}
	return &Result{Single: single}, nil
}
