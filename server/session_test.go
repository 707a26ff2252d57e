package server

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFloat64LE(values []float64) []byte {
	out := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

func TestSessionCalculateMeanEndToEnd(t *testing.T) {
	s := &Session{}

	_, _, _, err := s.applyCommand("data 4 1")
	require.NoError(t, err)
	require.NoError(t, s.deliverPayload(encodeFloat64LE([]float64{1, 2, 3, 4})))

	_, _, _, err = s.applyCommand("weights")
	require.NoError(t, err)
	require.NoError(t, s.deliverPayload(encodeFloat64LE([]float64{1, 1, 1, 1})))

	_, _, _, err = s.applyCommand("variables 0")
	require.NoError(t, err)
	_, _, _, err = s.applyCommand("factor 1")
	require.NoError(t, err)
	_, calc, _, err := s.applyCommand("mean")
	require.NoError(t, err)
	assert.False(t, calc)

	_, calc, _, err = s.applyCommand("calculate")
	require.NoError(t, err)
	require.True(t, calc)

	results, err := s.calculate(context.Background())
	require.NoError(t, err)
	require.Contains(t, results, groupKeySingle)
	assert.InDelta(t, 2.5, results[groupKeySingle].FinalEstimates[0], 1e-9)
}

func TestSessionCalculateWithOutstandingExpectationFails(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("data 2 1")
	require.NoError(t, err)

	_, err = s.calculate(context.Background())
	assert.Error(t, err)
}

func TestSessionDeliverPayloadRejectsWrongLength(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("data 2 1")
	require.NoError(t, err)

	err = s.deliverPayload(encodeFloat64LE([]float64{1}))
	assert.Error(t, err)
}

func TestSessionDeliverPayloadWithoutPendingCommandFails(t *testing.T) {
	s := &Session{}
	err := s.deliverPayload(encodeFloat64LE([]float64{1}))
	assert.Error(t, err)
}

func TestSessionCalculateGroupedEndToEnd(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("data 4 1")
	require.NoError(t, err)
	require.NoError(t, s.deliverPayload(encodeFloat64LE([]float64{1, 3, 10, 20})))

	_, _, _, err = s.applyCommand("groups 4 1")
	require.NoError(t, err)
	require.NoError(t, s.deliverPayload(encodeFloat64LE([]float64{0, 0, 1, 1})))

	_, _, _, err = s.applyCommand("weights")
	require.NoError(t, err)
	require.NoError(t, s.deliverPayload(encodeFloat64LE([]float64{1, 1, 1, 1})))

	_, _, _, err = s.applyCommand("variables 0")
	require.NoError(t, err)
	_, _, _, err = s.applyCommand("group_by 1 0 1")
	require.NoError(t, err)
	_, _, _, err = s.applyCommand("mean")
	require.NoError(t, err)

	results, err := s.calculate(context.Background())
	require.NoError(t, err)
	require.Contains(t, results, "1=0")
	require.Contains(t, results, "1=1")
	assert.InDelta(t, 2.0, results["1=0"].FinalEstimates[0], 1e-9)
	assert.InDelta(t, 15.0, results["1=1"].FinalEstimates[0], 1e-9)
}
