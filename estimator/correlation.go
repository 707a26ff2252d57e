package estimator

import (
	"fmt"
	"math"

	"github.com/replicore-go/replicore/dataset"
)

// CorrelationOptions holds Correlation's (empty) option bundle.
type CorrelationOptions struct{}

// ParseCorrelationOptions rejects any unrecognized option key.
func ParseCorrelationOptions(opts map[string]string) (CorrelationOptions, error) {
	for k := range opts {
		return CorrelationOptions{}, fmt.Errorf("%w: %q", dataset.ErrUnknownOption, k)
	}
	return CorrelationOptions{}, nil
}

// Correlation computes the weighted covariance and correlation matrix
// over the selected columns (at least 2), with listwise deletion across
// all of them jointly. Parameters: for every ordered pair i<=j,
// cov_<i>_<j> and cor_<i>_<j>; diagonal correlations are 1.
func Correlation(x *dataset.Matrix, w dataset.Vector, groupCol int, groupValue float64, columns []int, _ CorrelationOptions) Result {
	p := len(columns)
	names := make([]string, 0, p*(p+1))
	values := make([]float64, 0, p*(p+1))

	mask, s := active(x, w, columns)
	mask = filterGroup(mask, x, groupCol, groupValue)
	if groupCol >= 0 {
		n, _ := x.Dims()
		s = 0
		for i := 0; i < n; i++ {
			if mask[i] {
				s += w[i]
			}
		}
	}

	nActive := countActive(mask)
	if nActive == 0 || s <= 0 {
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				names = append(names, fmt.Sprintf("cov_%d_%d", columns[i], columns[j]), fmt.Sprintf("cor_%d_%d", columns[i], columns[j]))
				values = append(values, math.NaN(), math.NaN())
			}
		}
		return Result{Names: names, Values: values}
	}

	n, _ := x.Dims()
	means := make([]float64, p)
	for ci, c := range columns {
		var m float64
		for i := 0; i < n; i++ {
			if mask[i] {
				m += w[i] * x.At(i, c)
			}
		}
		means[ci] = m / s
	}

	cov := make([][]float64, p)
	for i := range cov {
		cov[i] = make([]float64, p)
	}
	for i := 0; i < n; i++ {
		if !mask[i] {
			continue
		}
		for a := 0; a < p; a++ {
			da := x.At(i, columns[a]) - means[a]
			for b := a; b < p; b++ {
				db := x.At(i, columns[b]) - means[b]
				cov[a][b] += w[i] * da * db
			}
		}
	}
	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			cov[a][b] /= s
		}
	}

	sd := make([]float64, p)
	for i := 0; i < p; i++ {
		sd[i] = math.Sqrt(cov[i][i])
	}

	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			names = append(names, fmt.Sprintf("cov_%d_%d", columns[a], columns[b]), fmt.Sprintf("cor_%d_%d", columns[a], columns[b]))
			var cor float64
			if a == b {
				cor = 1
			} else if sd[a] == 0 || sd[b] == 0 {
				cor = math.NaN()
			} else {
				cor = cov[a][b] / (sd[a] * sd[b])
			}
			values = append(values, cov[a][b], cor)
		}
	}

	return Result{Names: names, Values: values}
}
