package replicate

import (
	"fmt"
	"math"

	"github.com/replicore-go/replicore/estimator"
)

// imputationRun holds one imputation's main estimate plus its replicate
// estimates, in ascending replicate order.
type imputationRun struct {
	main       estimator.Result
	replicates []estimator.Result
}

// pool combines M imputation runs into final estimates and standard
// errors per spec.md §4.3, steps 1-5. Summation order is ascending
// imputation index then ascending replicate index, matching the
// iteration order runs were built in, so the result is independent of
// goroutine completion order.
func pool(runs []imputationRun, factor float64) (*PooledResult, error) {
	m := len(runs)
	names := runs[0].main.Names
	for mi, run := range runs {
		if !sameNames(names, run.main.Names) {
			return nil, fmt.Errorf("%w: imputation %d main estimate", ErrParameterNameMismatch, mi)
		}
		for ri, rep := range run.replicates {
			if !sameNames(names, rep.Names) {
				return nil, fmt.Errorf("%w: imputation %d replicate %d", ErrParameterNameMismatch, mi, ri)
			}
		}
	}

	p := len(names)
	final := make([]float64, p)
	sampling := make([]float64, p)
	pointByImputation := make([][]float64, m)

	for mi, run := range runs {
		theta := run.main.Values
		pointByImputation[mi] = theta
		for j := 0; j < p; j++ {
			final[j] += theta[j]
		}

		var vsm []float64
		if factor != 0 && len(run.replicates) > 0 {
			vsm = make([]float64, p)
			for _, rep := range run.replicates {
				for j := 0; j < p; j++ {
					d := rep.Values[j] - theta[j]
					vsm[j] += d * d
				}
			}
			for j := 0; j < p; j++ {
				vsm[j] *= factor
			}
		} else {
			vsm = make([]float64, p)
		}
		for j := 0; j < p; j++ {
			sampling[j] += vsm[j]
		}
	}

	for j := 0; j < p; j++ {
		final[j] /= float64(m)
		sampling[j] /= float64(m)
	}

	imputationVar := make([]float64, p)
	if m > 1 {
		between := make([]float64, p)
		for mi := 0; mi < m; mi++ {
			theta := pointByImputation[mi]
			for j := 0; j < p; j++ {
				d := theta[j] - final[j]
				between[j] += d * d
			}
		}
		scale := (1 + 1/float64(m)) / float64(m-1)
		for j := 0; j < p; j++ {
			imputationVar[j] = between[j] * scale
		}
	}

	se := make([]float64, p)
	for j := 0; j < p; j++ {
		se[j] = math.Sqrt(sampling[j] + imputationVar[j])
	}

	return &PooledResult{
		ParameterNames:      names,
		FinalEstimates:      final,
		SamplingVariances:   sampling,
		ImputationVariances: imputationVar,
		StandardErrors:      se,
	}, nil
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
