package estimator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/replicore-go/replicore/dataset"
)

// FrequenciesOptions holds the per-column category values used for
// frequencies. If Categories is nil, the estimator falls back to the
// sorted set of distinct non-NaN values observed in the column.
type FrequenciesOptions struct {
	Categories []float64
}

// ParseFrequenciesOptions parses the "categories" option: a
// comma-separated list of numeric category values.
func ParseFrequenciesOptions(opts map[string]string) (FrequenciesOptions, error) {
	var out FrequenciesOptions
	for k, v := range opts {
		if k != "categories" {
			return out, fmt.Errorf("%w: %q", dataset.ErrUnknownOption, k)
		}
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return out, fmt.Errorf("%w: categories value %q: %v", dataset.ErrBadOptionValue, part, err)
			}
			out.Categories = append(out.Categories, f)
		}
	}
	return out, nil
}

// Frequencies computes, per selected column and category, the active-row
// weighted relative frequency (freq_<c>_<k>) and unweighted count
// (cnt_<c>_<k>).
func Frequencies(x *dataset.Matrix, w dataset.Vector, groupCol int, groupValue float64, columns []int, opts FrequenciesOptions) Result {
	n, _ := x.Dims()
	var names []string
	var values []float64

	for _, c := range columns {
		mask, s := active(x, w, []int{c})
		mask = filterGroup(mask, x, groupCol, groupValue)
		if groupCol >= 0 {
			s = 0
			for i := 0; i < n; i++ {
				if mask[i] {
					s += w[i]
				}
			}
		}

		categories := opts.Categories
		if categories == nil {
			categories = observedCategories(x, c)
		}

		label := columnLabel(c)
		for _, k := range categories {
			var freqSum, cnt float64
			for i := 0; i < n; i++ {
				if !mask[i] || x.At(i, c) != k {
					continue
				}
				freqSum += w[i]
				cnt++
			}
			names = append(names, fmt.Sprintf("freq_%s_%v", label, k), fmt.Sprintf("cnt_%s_%v", label, k))
			if s == 0 {
				values = append(values, math.NaN(), cnt)
				continue
			}
			values = append(values, freqSum/s, cnt)
		}
	}

	return Result{Names: names, Values: values}
}

func observedCategories(x *dataset.Matrix, col int) []float64 {
	n, _ := x.Dims()
	seen := make(map[float64]bool)
	for i := 0; i < n; i++ {
		v := x.At(i, col)
		if math.IsNaN(v) {
			continue
		}
		seen[v] = true
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
