package estimator

import (
	"fmt"

	"github.com/replicore-go/replicore/dataset"
	"github.com/replicore-go/replicore/regression"
	"gonum.org/v1/gonum/mat"
)

// RegressionOptions holds LinearRegression's option bundle.
type RegressionOptions struct {
	Intercept bool // default true
}

// ParseRegressionOptions parses "intercept" (true/false, default true).
func ParseRegressionOptions(opts map[string]string) (RegressionOptions, error) {
	out := RegressionOptions{Intercept: true}
	for k, v := range opts {
		if k != "intercept" {
			return out, fmt.Errorf("%w: %q", dataset.ErrUnknownOption, k)
		}
		switch v {
		case "true":
			out.Intercept = true
		case "false":
			out.Intercept = false
		default:
			return out, fmt.Errorf("%w: intercept %q", dataset.ErrBadOptionValue, v)
		}
	}
	return out, nil
}

// LinearRegression fits y (columns[0]) on the remaining selected
// columns via weighted least squares, on active (listwise-deleted)
// rows. Parameters, in order: beta_<name> per regressor, se_<name> per
// regressor, R2, sigma2, N. Every value is NaN when XtWX is singular or
// active rows are fewer than regressors.
func LinearRegression(x *dataset.Matrix, w dataset.Vector, groupCol int, groupValue float64, columns []int, opts RegressionOptions) Result {
	yCol := columns[0]
	regressors := columns[1:]

	names := regressorNames(regressors, opts.Intercept)
	paramNames := make([]string, 0, 2*len(names)+3)
	for _, nm := range names {
		paramNames = append(paramNames, "beta_"+nm)
	}
	for _, nm := range names {
		paramNames = append(paramNames, "se_"+nm)
	}
	paramNames = append(paramNames, "R2", "sigma2", "N")

	mask, _ := active(x, w, columns)
	mask = filterGroup(mask, x, groupCol, groupValue)
	nActive := countActive(mask)
	p := len(names)

	if nActive < p {
		return nanResult(paramNames)
	}

	n, _ := x.Dims()
	design := mat.NewDense(nActive, p, nil)
	y := make([]float64, nActive)
	ww := make([]float64, nActive)
	row := 0
	for i := 0; i < n; i++ {
		if !mask[i] {
			continue
		}
		col := 0
		if opts.Intercept {
			design.Set(row, 0, 1)
			col = 1
		}
		for _, c := range regressors {
			design.Set(row, col, x.At(i, c))
			col++
		}
		y[row] = x.At(i, yCol)
		ww[row] = w[i]
		row++
	}

	fit, ok := regression.NewWLS().Fit(design, y, ww)
	if !ok {
		return nanResult(paramNames)
	}

	values := make([]float64, 0, len(paramNames))
	values = append(values, fit.Beta...)
	values = append(values, fit.SE...)
	values = append(values, fit.R2, fit.Sigma2, float64(nActive))

	return Result{Names: paramNames, Values: values}
}

func regressorNames(regressors []int, intercept bool) []string {
	names := make([]string, 0, len(regressors)+1)
	if intercept {
		names = append(names, "intercept")
	}
	for _, c := range regressors {
		names = append(names, columnLabel(c))
	}
	return names
}
