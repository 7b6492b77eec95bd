package flock_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flock "github.com/rodneyosodo/flock"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flock.toml")
	cfg := flock.Config{
		Coordinator: flock.CoordinatorConfig{
			URL:     "http://localhost:7070",
			Channel: "session-1",
		},
		Broker: flock.BrokerConfig{
			Address: "tcp://localhost:1883",
			QoS:     2,
		},
	}

	require.NoError(t, flock.SaveConfig(path, cfg))

	loaded, err := flock.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := flock.LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
