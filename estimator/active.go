// Package estimator implements the five weighted elementary estimators
// of spec.md §4.1: mean, frequencies, quantiles, correlation, and linear
// regression. Every function here is pure and single-threaded; the
// replication engine (package replicate) is the only caller that knows
// about replicate weights or imputations.
package estimator

import (
	"math"

	"github.com/replicore-go/replicore/dataset"
)

// Result is the ordered, named parameter vector an elementary estimator
// produces for one (data, weight) pair.
type Result struct {
	Names  []string
	Values []float64
}

// active reports, for each row, whether w[i] > 0 and none of the given
// columns is NaN at that row — the listwise-deletion rule spec.md §4.1
// defines. It also returns S, the sum of weights over active rows.
func active(x *dataset.Matrix, w dataset.Vector, cols []int) (mask []bool, sumWeight float64) {
	n, _ := x.Dims()
	mask = make([]bool, n)
	for i := 0; i < n; i++ {
		if w[i] <= 0 {
			continue
		}
		ok := true
		for _, c := range cols {
			if math.IsNaN(x.At(i, c)) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		mask[i] = true
		sumWeight += w[i]
	}
	return mask, sumWeight
}

// filterGroup intersects an active-row mask with the rows belonging to
// a group: groupCol==-1 means "no grouping", every row qualifies.
func filterGroup(mask []bool, x *dataset.Matrix, groupCol int, value float64) []bool {
	if groupCol < 0 {
		return mask
	}
	out := make([]bool, len(mask))
	for i, on := range mask {
		if on && x.At(i, groupCol) == value {
			out[i] = true
		}
	}
	return out
}

func countActive(mask []bool) int {
	n := 0
	for _, on := range mask {
		if on {
			n++
		}
	}
	return n
}

func nanResult(names []string) Result {
	values := make([]float64, len(names))
	for i := range values {
		values[i] = math.NaN()
	}
	return Result{Names: names, Values: values}
}
