package estimator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/replicore-go/replicore/dataset"
)

// QuantileOptions holds the probabilities to evaluate and the tie-break
// rule for the weighted quantile walk.
type QuantileOptions struct {
	Breaks        []float64
	Interpolation string // "linear" (default), "lower", "upper"
}

// ParseQuantileOptions parses "breaks" (comma-separated probabilities in
// (0,1)) and "interpolation" (one of linear/lower/upper, default linear).
func ParseQuantileOptions(opts map[string]string) (QuantileOptions, error) {
	out := QuantileOptions{Interpolation: "linear"}
	for k, v := range opts {
		switch k {
		case "breaks":
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				p, err := strconv.ParseFloat(part, 64)
				if err != nil || p <= 0 || p >= 1 {
					return out, fmt.Errorf("%w: breaks value %q", dataset.ErrBadOptionValue, part)
				}
				out.Breaks = append(out.Breaks, p)
			}
		case "interpolation":
			switch v {
			case "linear", "lower", "upper":
				out.Interpolation = v
			default:
				return out, fmt.Errorf("%w: interpolation %q", dataset.ErrBadOptionValue, v)
			}
		default:
			return out, fmt.Errorf("%w: %q", dataset.ErrUnknownOption, k)
		}
	}
	return out, nil
}

type weightedPoint struct {
	value  float64
	weight float64
}

// Quantiles computes, per selected column, the value at each requested
// probability. Rows are sorted by value ascending (NaN discarded); the
// walk locates, for probability p, the greatest index i whose
// cumulative-weight position is below p, then ties-break per
// Interpolation. Parameters: <col>_q_<p>.
//
// Position uses pos[i] = cumExclusive[i] / (S - w[i]), the weighted
// generalization of the Hyndman-Fan "type 7" quantile: it reduces to
// the classical equal-weight formula exactly (i/(n-1)), matching the
// conventional weighted-median and weighted-quartile expectations that
// a literal cumulative-inclusive-weight/S walk does not.
func Quantiles(x *dataset.Matrix, w dataset.Vector, groupCol int, groupValue float64, columns []int, opts QuantileOptions) Result {
	var names []string
	var values []float64

	for _, c := range columns {
		mask, _ := active(x, w, []int{c})
		mask = filterGroup(mask, x, groupCol, groupValue)

		n, _ := x.Dims()
		points := make([]weightedPoint, 0, n)
		for i := 0; i < n; i++ {
			if mask[i] {
				points = append(points, weightedPoint{value: x.At(i, c), weight: w[i]})
			}
		}
		sort.Slice(points, func(i, j int) bool { return points[i].value < points[j].value })

		label := columnLabel(c)
		for _, p := range opts.Breaks {
			names = append(names, fmt.Sprintf("%s_q_%v", label, p))
			values = append(values, quantileOf(points, p, opts.Interpolation))
		}
	}

	return Result{Names: names, Values: values}
}

func quantileOf(points []weightedPoint, p float64, interpolation string) float64 {
	n := len(points)
	if n == 0 {
		return math.NaN()
	}

	var s float64
	for _, pt := range points {
		s += pt.weight
	}
	if s <= 0 {
		return math.NaN()
	}
	if n == 1 {
		return points[0].value
	}

	pos := make([]float64, n)
	var cumExclusive float64
	for i, pt := range points {
		denom := s - pt.weight
		if denom <= 0 {
			pos[i] = 0
		} else {
			pos[i] = cumExclusive / denom
		}
		cumExclusive += pt.weight
	}

	i := -1
	for j := 0; j < n; j++ {
		if pos[j] < p {
			i = j
		} else {
			break
		}
	}
	if i < 0 {
		return points[0].value
	}
	if i == n-1 {
		return math.NaN()
	}

	switch interpolation {
	case "lower":
		return points[i].value
	case "upper":
		return points[i+1].value
	default:
		x0, x1 := points[i].value, points[i+1].value
		return x0 + (x1-x0)*(p-pos[i])/(pos[i+1]-pos[i]+1e-20)
	}
}
