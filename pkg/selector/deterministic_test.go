package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/selector"
)

func TestDeterministicSelect(t *testing.T) {
	t.Parallel()

	pool := []fl.Client{
		{ID: "charlie", Alive: true},
		{ID: "alpha", Alive: true},
		{ID: "bravo", Alive: false},
		{ID: "delta", Alive: true},
	}

	s := selector.NewDeterministic()
	selected, err := s.Select(1, pool, 2)
	require.NoError(t, err)

	ids := make([]string, 0, len(selected))
	for _, c := range selected {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"alpha", "charlie", "delta"}, ids)
}

func TestDeterministicSelectStable(t *testing.T) {
	t.Parallel()

	pool := []fl.Client{
		{ID: "b", Alive: true},
		{ID: "a", Alive: true},
	}
	reversed := []fl.Client{pool[1], pool[0]}

	s := selector.NewDeterministic()
	first, err := s.Select(3, pool, 2)
	require.NoError(t, err)
	second, err := s.Select(3, reversed, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeterministicSelectErrors(t *testing.T) {
	t.Parallel()

	s := selector.NewDeterministic()

	_, err := s.Select(1, nil, 1)
	assert.ErrorIs(t, err, fl.ErrNoClients)

	pool := []fl.Client{
		{ID: "a", Alive: true},
		{ID: "b", Alive: false},
	}
	_, err = s.Select(1, pool, 2)
	assert.ErrorIs(t, err, fl.ErrQuorum)
}
