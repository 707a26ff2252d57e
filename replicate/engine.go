package replicate

import (
	"context"
	"runtime"

	"github.com/replicore-go/replicore/dataset"
	"github.com/replicore-go/replicore/estimator"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Engine fans the (imputation x replicate) Cartesian product of
// elementary-estimator calls out across a bounded worker pool, then
// reduces the results single-threaded in a fixed order. This is the
// teacher's surd.processVariables/findBestVariable worker-pool shape,
// generalized from "one goroutine per candidate regressor" to "one
// goroutine per (imputation, replicate) pair".
type Engine struct {
	// Workers caps the number of concurrent estimator calls. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Run evaluates an ungrouped analysis and returns its pooled result.
// a.Group must be nil; use RunGrouped otherwise.
func (e *Engine) Run(ctx context.Context, a *dataset.Analysis) (*PooledResult, error) {
	return e.runOne(ctx, a, -1, 0)
}

// RunGrouped evaluates a.Group's column, once per requested (or
// observed) value, returning one pooled result per group.
func (e *Engine) RunGrouped(ctx context.Context, a *dataset.Analysis) (map[GroupKey]*PooledResult, error) {
	values := a.Group.Values
	if values == nil {
		values = observedGroupValues(a.X[0], a.Group.Column)
	}

	out := make(map[GroupKey]*PooledResult, len(values))
	for _, v := range values {
		result, err := e.runOne(ctx, a, a.Group.Column, v)
		if err != nil {
			return nil, err
		}
		out[GroupKey{Column: a.Group.Column, Value: v}] = result
	}
	return out, nil
}

func (e *Engine) runOne(ctx context.Context, a *dataset.Analysis, groupCol int, groupValue float64) (*PooledResult, error) {
	dispatcher, err := estimator.Parse(a.Kind, a.Options)
	if err != nil {
		return nil, err
	}

	m := a.M()
	runs := make([]imputationRun, m)
	for mi := 0; mi < m; mi++ {
		runs[mi].replicates = make([]estimator.Result, a.R.NRep(mi))
	}

	sem := semaphore.NewWeighted(int64(e.workers()))
	g, gctx := errgroup.WithContext(ctx)

	for mi := 0; mi < m; mi++ {
		mi := mi
		x := a.X[mi]
		w := a.W.At(mi)
		nRep := a.R.NRep(mi)
		rm := a.R.At(mi)

		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			res, err := dispatcher.Compute(x, w, groupCol, groupValue, a.Columns)
			if err != nil {
				return err
			}
			runs[mi].main = res
			return nil
		})

		for ri := 0; ri < nRep; ri++ {
			ri := ri
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)
				rw := dataset.ReplicateColumn(rm, ri)
				res, err := dispatcher.Compute(x, rw, groupCol, groupValue, a.Columns)
				if err != nil {
					return err
				}
				runs[mi].replicates[ri] = res
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pool(runs, a.Factor)
}

func observedGroupValues(x *dataset.Matrix, col int) []float64 {
	n, _ := x.Dims()
	seen := make(map[float64]bool)
	var out []float64
	for i := 0; i < n; i++ {
		v := x.At(i, col)
		if v != v { // NaN
			continue
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
