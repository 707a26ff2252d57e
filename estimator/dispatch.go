package estimator

import (
	"fmt"

	"github.com/replicore-go/replicore/dataset"
)

// Dispatcher parses an estimator's options once and computes it
// repeatedly without re-parsing — the replication engine calls Compute
// once per (imputation, replicate) pair, and string-to-typed option
// parsing is not something it wants to redo on every inner-loop call.
type Dispatcher struct {
	kind dataset.Kind
	mean MeanOptions
	freq FrequenciesOptions
	quan QuantileOptions
	corr CorrelationOptions
	reg  RegressionOptions
}

// Parse validates the option map once for the given estimator kind.
func Parse(kind dataset.Kind, opts map[string]string) (*Dispatcher, error) {
	d := &Dispatcher{kind: kind}
	var err error
	switch kind {
	case dataset.Mean:
		d.mean, err = ParseMeanOptions(opts)
	case dataset.Frequencies:
		d.freq, err = ParseFrequenciesOptions(opts)
	case dataset.Quantiles:
		d.quan, err = ParseQuantileOptions(opts)
	case dataset.Correlation:
		d.corr, err = ParseCorrelationOptions(opts)
	case dataset.LinearRegression:
		d.reg, err = ParseRegressionOptions(opts)
	default:
		return nil, fmt.Errorf("estimator: unknown kind %v", kind)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Compute runs the parsed estimator against one (data, weight) pair,
// restricted to one group when groupCol >= 0.
func (d *Dispatcher) Compute(x *dataset.Matrix, w dataset.Vector, groupCol int, groupValue float64, columns []int) (Result, error) {
	switch d.kind {
	case dataset.Mean:
		return Mean(x, w, groupCol, groupValue, columns, d.mean), nil
	case dataset.Frequencies:
		return Frequencies(x, w, groupCol, groupValue, columns, d.freq), nil
	case dataset.Quantiles:
		return Quantiles(x, w, groupCol, groupValue, columns, d.quan), nil
	case dataset.Correlation:
		if len(columns) < 2 {
			return Result{}, fmt.Errorf("estimator: correlation needs at least 2 columns, got %d", len(columns))
		}
		return Correlation(x, w, groupCol, groupValue, columns, d.corr), nil
	case dataset.LinearRegression:
		if len(columns) < 2 {
			return Result{}, fmt.Errorf("estimator: linear regression needs a response and at least 1 regressor")
		}
		return LinearRegression(x, w, groupCol, groupValue, columns, d.reg), nil
	default:
		return Result{}, fmt.Errorf("estimator: unknown kind %v", d.kind)
	}
}
