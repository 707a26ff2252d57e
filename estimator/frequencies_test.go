package estimator

import (
	"testing"

	"github.com/replicore-go/replicore/dataset"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestFrequenciesSumToOne(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{0, 0, 1, 1, 1, 2})
	w := dataset.Vector{1, 1, 1, 1, 1, 1}

	r := Frequencies(x, w, -1, 0, []int{0}, FrequenciesOptions{})
	var sum float64
	for i := 0; i < len(r.Values); i += 2 {
		sum += r.Values[i]
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestFrequenciesExplicitCategories(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 1, 2, 3})
	w := dataset.Vector{1, 1, 1, 1}

	r := Frequencies(x, w, -1, 0, []int{0}, FrequenciesOptions{Categories: []float64{1, 2}})
	assert.Equal(t, []string{"freq_0_1", "cnt_0_1", "freq_0_2", "cnt_0_2"}, r.Names)
	assert.InDelta(t, 0.5, r.Values[0], 1e-12)
	assert.Equal(t, 2.0, r.Values[1])
	assert.InDelta(t, 0.25, r.Values[2], 1e-12)
	assert.Equal(t, 1.0, r.Values[3])
}

func TestParseFrequenciesOptionsRejectsUnknownKey(t *testing.T) {
	_, err := ParseFrequenciesOptions(map[string]string{"bogus": "1"})
	assert.Error(t, err)
}

func TestParseFrequenciesOptionsBadValue(t *testing.T) {
	_, err := ParseFrequenciesOptions(map[string]string{"categories": "1,oops"})
	assert.Error(t, err)
}
