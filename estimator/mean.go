package estimator

import (
	"fmt"
	"math"

	"github.com/replicore-go/replicore/dataset"
	"gonum.org/v1/gonum/floats"
)

// MeanOptions holds Mean's (empty) option bundle. Mean takes no options;
// the type exists so the dispatch surface is uniform across estimators.
type MeanOptions struct{}

// ParseMeanOptions rejects any unrecognized option key.
func ParseMeanOptions(opts map[string]string) (MeanOptions, error) {
	for k := range opts {
		return MeanOptions{}, fmt.Errorf("%w: %q", dataset.ErrUnknownOption, k)
	}
	return MeanOptions{}, nil
}

// Mean computes, for every selected column, the active-row weighted
// mean, population standard deviation, unweighted active count, and sum
// of weights. Parameters are emitted in column order: mean_<c>, sd_<c>,
// N_<c>, sumwgt_<c>.
func Mean(x *dataset.Matrix, w dataset.Vector, groupCol int, groupValue float64, columns []int, _ MeanOptions) Result {
	names := make([]string, 0, 4*len(columns))
	values := make([]float64, 0, 4*len(columns))

	for _, c := range columns {
		mask, _ := active(x, w, []int{c})
		mask = filterGroup(mask, x, groupCol, groupValue)

		n, _ := x.Dims()
		label := columnLabel(c)
		names = append(names, "mean_"+label, "sd_"+label, "N_"+label, "sumwgt_"+label)

		nActive := countActive(mask)
		if nActive == 0 {
			values = append(values, math.NaN(), math.NaN(), math.NaN(), math.NaN())
			continue
		}

		var s float64
		xs := make([]float64, 0, nActive)
		ws := make([]float64, 0, nActive)
		for i := 0; i < n; i++ {
			if !mask[i] {
				continue
			}
			xs = append(xs, x.At(i, c))
			ws = append(ws, w[i])
			s += w[i]
		}

		mean := floats.Dot(xs, ws) / s
		var variance float64
		for i, xv := range xs {
			d := xv - mean
			variance += ws[i] * d * d
		}
		variance /= s
		values = append(values, mean, math.Sqrt(variance), float64(nActive), s)
	}

	return Result{Names: names, Values: values}
}

func columnLabel(c int) string {
	return fmt.Sprintf("%d", c)
}
