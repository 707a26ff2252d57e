package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCommandAcksSimpleCommands(t *testing.T) {
	s := &Session{}

	ack, calc, shutdown, err := s.applyCommand("factor 1.5")
	require.NoError(t, err)
	assert.Equal(t, "ok", ack)
	assert.False(t, calc)
	assert.False(t, shutdown)
	assert.Equal(t, 1.5, s.factor)

	ack, _, _, err = s.applyCommand("variables 0 2 3")
	require.NoError(t, err)
	assert.Equal(t, "ok", ack)
	assert.Equal(t, []int{0, 2, 3}, s.columns)

	ack, _, _, err = s.applyCommand("mean")
	require.NoError(t, err)
	assert.Equal(t, "ok", ack)
}

func TestApplyCommandDataThenWeightsEnqueuesExpectations(t *testing.T) {
	s := &Session{}

	_, _, _, err := s.applyCommand("data 4 2")
	require.NoError(t, err)
	require.Len(t, s.expectations, 1)
	assert.Equal(t, expectData, s.expectations[0].kind)

	_, _, _, err = s.applyCommand("weights")
	require.NoError(t, err)
	require.Len(t, s.expectations, 2)
	assert.Equal(t, expectWeights, s.expectations[1].kind)
	assert.Equal(t, 32, s.expectations[1].byteLen())
}

func TestApplyCommandWeightsBeforeDataFails(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("weights")
	assert.Error(t, err)
}

func TestApplyCommandReplicateWeightsParsesCount(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("data 3 1")
	require.NoError(t, err)

	_, _, _, err = s.applyCommand("replicate weights 5")
	require.NoError(t, err)
	assert.Equal(t, 5, s.nrep)
	last := s.expectations[len(s.expectations)-1]
	assert.Equal(t, expectReplicate, last.kind)
	assert.Equal(t, 3*5*8, last.byteLen())
}

func TestApplyCommandShutdown(t *testing.T) {
	s := &Session{}
	ack, calc, shutdown, err := s.applyCommand("shutdown")
	require.NoError(t, err)
	assert.Equal(t, "ok", ack)
	assert.False(t, calc)
	assert.True(t, shutdown)
}

func TestApplyCommandUnknownCommand(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("frobnicate")
	assert.Error(t, err)
}

func TestApplyCommandGroupByParsesValues(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("group_by 1 0 1 2")
	require.NoError(t, err)
	require.NotNil(t, s.group)
	assert.Equal(t, 1, s.group.Column)
	assert.Equal(t, []float64{0, 1, 2}, s.group.Values)
}

func TestApplyCommandEstimatorOptions(t *testing.T) {
	s := &Session{}
	_, _, _, err := s.applyCommand("quantiles breaks=0.25,0.5,0.75 interpolation=linear")
	require.NoError(t, err)
	assert.Equal(t, "0.25,0.5,0.75", s.options["breaks"])
	assert.Equal(t, "linear", s.options["interpolation"])
}
