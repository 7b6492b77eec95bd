package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/model"
)

const (
	testFeatures = 8
	testClasses  = 3
	testSeed     = 42
)

func TestNewDeterministic(t *testing.T) {
	t.Parallel()

	a := model.New(testFeatures, testClasses, 0.1, testSeed)
	b := model.New(testFeatures, testClasses, 0.1, testSeed)

	assert.Equal(t, a.Parameters(), b.Parameters())

	c := model.New(testFeatures, testClasses, 0.1, testSeed+1)
	assert.NotEqual(t, a.Parameters(), c.Parameters())
}

func TestParametersLayout(t *testing.T) {
	t.Parallel()

	m := model.New(testFeatures, testClasses, 0.1, testSeed)
	p := m.Parameters()

	require.Len(t, p.Tensors, 2)
	assert.Equal(t, []int{testClasses, testFeatures}, p.Tensors[0].Shape)
	assert.Equal(t, []int{testClasses}, p.Tensors[1].Shape)
	assert.Equal(t, uint64((testClasses*testFeatures+testClasses)*4), p.ByteSize())
}

func TestSetParametersRoundTrip(t *testing.T) {
	t.Parallel()

	src := model.New(testFeatures, testClasses, 0.1, 7)
	dst := model.New(testFeatures, testClasses, 0.1, testSeed)
	require.NotEqual(t, src.Parameters(), dst.Parameters())

	require.NoError(t, dst.SetParameters(src.Parameters()))
	assert.Equal(t, src.Parameters(), dst.Parameters())
}

func TestSetParametersIncompatible(t *testing.T) {
	t.Parallel()

	m := model.New(testFeatures, testClasses, 0.1, testSeed)
	other := model.New(testFeatures+1, testClasses, 0.1, testSeed)

	assert.Error(t, m.SetParameters(other.Parameters()))
}

func TestTrainImproves(t *testing.T) {
	t.Parallel()

	ds := model.LoadPartition(testSeed, 0, 400, testFeatures, testClasses, 0.25)
	m := model.New(ds.Features, ds.Classes, 0.1, testSeed)

	lossBefore, _ := m.Evaluate(ds.Test)
	n := m.Train(ds.Train, 3, 32)
	lossAfter, accuracy := m.Evaluate(ds.Test)

	assert.Equal(t, len(ds.Train)*3, n)
	assert.Less(t, lossAfter, lossBefore)
	// Well-separated Gaussian blobs; a trained linear model should do far
	// better than the 1/classes chance level.
	assert.Greater(t, accuracy, 0.5)
}

func TestTrainEdgeCases(t *testing.T) {
	t.Parallel()

	m := model.New(testFeatures, testClasses, 0.1, testSeed)

	assert.Equal(t, 0, m.Train(nil, 1, 32))

	ds := model.LoadPartition(testSeed, 0, 10, testFeatures, testClasses, 0)
	assert.Equal(t, 0, m.Train(ds.Train, 0, 32))

	loss, accuracy := m.Evaluate(nil)
	assert.Zero(t, loss)
	assert.Zero(t, accuracy)
}

func TestLoadPartition(t *testing.T) {
	t.Parallel()

	ds := model.LoadPartition(testSeed, 1, 100, testFeatures, testClasses, 0.2)
	assert.Len(t, ds.Train, 80)
	assert.Len(t, ds.Test, 20)

	same := model.LoadPartition(testSeed, 1, 100, testFeatures, testClasses, 0.2)
	assert.Equal(t, ds, same)

	other := model.LoadPartition(testSeed, 2, 100, testFeatures, testClasses, 0.2)
	assert.NotEqual(t, ds.Train[0].Features, other.Train[0].Features)
}
