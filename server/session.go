package server

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/replicore-go/replicore/dataset"
	"github.com/replicore-go/replicore/replicate"
	"gonum.org/v1/gonum/mat"
)

// Session holds the single pending builder state for one control-channel
// client, accumulating data/weights/replicate-weights/options commands
// until calculate freezes them into an Analysis and runs the
// replication engine. The zero value is ready to use.
type Session struct {
	mu sync.Mutex

	nRows, dataCols, groupCols, nrep int

	expectations []expectation

	dataPayloads      [][]float64
	groupPayloads     [][]float64
	weightPayloads    [][]float64
	replicatePayloads [][]float64

	columns []int
	group   *dataset.GroupSpec
	factor  float64
	kind    dataset.Kind
	options map[string]string
}

func (s *Session) pushExpectation(e expectation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectations = append(s.expectations, e)
}

// deliverPayload matches an incoming data-socket payload against the
// oldest pending expectation, FIFO, and files it into the right slot.
func (s *Session) deliverPayload(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.expectations) == 0 {
		return fmt.Errorf("server: unexpected data payload, no pending command")
	}
	e := s.expectations[0]
	s.expectations = s.expectations[1:]

	if len(payload) != e.byteLen() {
		return fmt.Errorf("server: payload is %d bytes, expected %d", len(payload), e.byteLen())
	}

	values := decodeFloat64LE(payload)
	switch e.kind {
	case expectData:
		s.dataPayloads = append(s.dataPayloads, values)
	case expectGroups:
		s.groupPayloads = append(s.groupPayloads, values)
	case expectWeights:
		s.weightPayloads = append(s.weightPayloads, values)
	case expectReplicate:
		s.replicatePayloads = append(s.replicatePayloads, values)
	}
	return nil
}

// calculate freezes the accumulated commands into a dataset.Analysis
// and runs the replication engine, returning one pooled result per
// group (a single entry keyed by groupKeySingle when there is no
// group-by column).
func (s *Session) calculate(ctx context.Context) (map[string]*replicate.PooledResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.expectations) != 0 {
		return nil, fmt.Errorf("server: calculate with %d payload(s) still outstanding", len(s.expectations))
	}
	if len(s.dataPayloads) == 0 {
		return nil, dataset.ErrEmptyData
	}

	totalCols := s.dataCols + s.groupCols
	x := make(dataset.Imputations, len(s.dataPayloads))
	for i, flat := range s.dataPayloads {
		m := mat.NewDense(s.nRows, totalCols, nil)
		for r := 0; r < s.nRows; r++ {
			for c := 0; c < s.dataCols; c++ {
				m.Set(r, c, flat[r*s.dataCols+c])
			}
		}
		if s.groupCols > 0 {
			group := s.groupPayloads[min(i, len(s.groupPayloads)-1)]
			for r := 0; r < s.nRows; r++ {
				for c := 0; c < s.groupCols; c++ {
					m.Set(r, s.dataCols+c, group[r*s.groupCols+c])
				}
			}
		}
		x[i] = m
	}

	w := make(dataset.Weights, len(s.weightPayloads))
	for i, flat := range s.weightPayloads {
		w[i] = dataset.Vector(flat)
	}

	var r dataset.ReplicateMatrix
	if s.nrep > 0 {
		r = make(dataset.ReplicateMatrix, len(s.replicatePayloads))
		for i, flat := range s.replicatePayloads {
			r[i] = mat.NewDense(s.nRows, s.nrep, flat)
		}
	}

	a := &dataset.Analysis{
		X:       x,
		W:       w,
		R:       r,
		Columns: s.columns,
		Group:   s.group,
		Factor:  s.factor,
		Kind:    s.kind,
		Options: s.options,
	}
	if a.Options == nil {
		a.Options = map[string]string{}
	}
	if a.Factor == 0 {
		a.Factor = 1
	}
	if err := dataset.Validate(a); err != nil {
		return nil, err
	}

	engine := &replicate.Engine{}
	if a.Group != nil {
		grouped, err := engine.RunGrouped(ctx, a)
		if err != nil {
			return nil, err
		}
		out := make(map[string]*replicate.PooledResult, len(grouped))
		for k, v := range grouped {
			out[groupKeyString(k)] = v
		}
		return out, nil
	}

	single, err := engine.Run(ctx, a)
	if err != nil {
		return nil, err
	}
	return map[string]*replicate.PooledResult{groupKeySingle: single}, nil
}

// groupKeySingle names the one entry of a calculate reply that used no
// group-by column.
const groupKeySingle = "_single"

func groupKeyString(k replicate.GroupKey) string {
	return fmt.Sprintf("%d=%s", k.Column, formatGroupValue(k.Value))
}

func formatGroupValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
