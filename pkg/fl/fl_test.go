package fl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/pkg/fl"
)

func TestSetAlive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		history []time.Time
		alive   bool
	}{
		{
			desc:    "no heartbeats",
			history: nil,
			alive:   false,
		},
		{
			desc:    "recent heartbeat",
			history: []time.Time{time.Now().Add(-time.Second)},
			alive:   true,
		},
		{
			desc:    "stale heartbeat",
			history: []time.Time{time.Now().Add(-time.Minute)},
			alive:   false,
		},
		{
			desc: "stale then recent",
			history: []time.Time{
				time.Now().Add(-time.Hour),
				time.Now(),
			},
			alive: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			c := fl.Client{ID: "c1", AliveHistory: tc.history}
			c.SetAlive()
			assert.Equal(t, tc.alive, c.Alive)
		})
	}
}

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	msg := map[string]any{
		"round":        float64(3),
		"client_id":    "c1",
		"params":       "abc",
		"num_examples": float64(120),
		"metrics":      map[string]any{"up_bytes": float64(108)},
	}

	resp, err := fl.DecodeMessage[fl.FitResponse](msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), resp.Round)
	assert.Equal(t, "c1", resp.ClientID)
	assert.Equal(t, 120, resp.NumExamples)
	assert.Equal(t, float64(108), resp.Metrics["up_bytes"])
}

func TestDecodeMessageTypeMismatch(t *testing.T) {
	t.Parallel()

	msg := map[string]any{"round": "not-a-number"}
	_, err := fl.DecodeMessage[fl.FitRequest](msg)
	assert.Error(t, err)
}

func TestTopics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "flock/ch1/clients/join", fl.JoinTopic("ch1"))
	assert.Equal(t, "flock/ch1/clients/alive", fl.AliveTopic("ch1"))
	assert.Equal(t, "flock/ch1/clients/c1/fit", fl.FitTopic("ch1", "c1"))
	assert.Equal(t, "flock/ch1/clients/c1/evaluate", fl.EvaluateTopic("ch1", "c1"))
	assert.Equal(t, "flock/ch1/results/fit", fl.FitResultTopic("ch1"))
	assert.Equal(t, "flock/ch1/results/evaluate", fl.EvaluateResultTopic("ch1"))
	assert.Equal(t, "flock/ch1/results/failure", fl.FailureTopic("ch1"))
	assert.Equal(t, "flock/ch1/results/#", fl.ResultsWildcard("ch1"))
}
