package client_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/client"
	"github.com/rodneyosodo/flock/model"
	"github.com/rodneyosodo/flock/pkg/fedavg"
)

func newTestAgent(t *testing.T, partition int) *client.Agent {
	t.Helper()
	ds := model.LoadPartition(42, partition, 200, 8, 3, 0.2)
	m := model.New(ds.Features, ds.Classes, 0.1, 42)

	return client.NewAgent("agent-1", m, ds, 1, 32, slog.Default())
}

func TestAgentFit(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, 0)
	global := model.New(8, 3, 0.1, 7).Parameters()

	updated, numExamples, metrics, err := agent.Fit(global, nil)
	require.NoError(t, err)

	assert.Equal(t, 160, numExamples)
	assert.NoError(t, global.Compatible(updated))
	assert.NotEqual(t, global, updated)
	assert.Equal(t, float64(global.ByteSize()), metrics[fedavg.MetricDownBytes])
	assert.Equal(t, float64(updated.ByteSize()), metrics[fedavg.MetricUpBytes])
}

func TestAgentFitConfigOverrides(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, 0)
	global := model.New(8, 3, 0.1, 7).Parameters()

	_, numExamples, _, err := agent.Fit(global, map[string]float64{"epochs": 3, "batch_size": 16})
	require.NoError(t, err)
	assert.Equal(t, 480, numExamples)
}

func TestAgentFitIncompatibleParams(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, 0)
	wrong := model.New(5, 3, 0.1, 7).Parameters()

	_, _, _, err := agent.Fit(wrong, nil)
	assert.Error(t, err)
}

func TestAgentEvaluate(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, 1)
	global := model.New(8, 3, 0.1, 7).Parameters()

	loss, numExamples, metrics, err := agent.Evaluate(global, nil)
	require.NoError(t, err)

	assert.Equal(t, 40, numExamples)
	assert.Greater(t, loss, 0.0)
	acc, ok := metrics[fedavg.MetricAccuracy]
	require.True(t, ok)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	assert.Equal(t, float64(global.ByteSize()), metrics[fedavg.MetricDownBytes])
}

func TestAgentNumExamples(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, 0)
	assert.Equal(t, 160, agent.NumExamples())
}
