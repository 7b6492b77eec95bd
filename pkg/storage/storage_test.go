package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/pkg/errors"
	"github.com/rodneyosodo/flock/pkg/storage"
)

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := storage.NewInMemoryStorage()

	require.NoError(t, s.Create(ctx, "k1", "v1"))

	val, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	assert.ErrorIs(t, s.Create(ctx, "k1", "v2"), errors.ErrEntityExists)
	assert.ErrorIs(t, s.Create(ctx, "", "v"), errors.ErrEmptyKey)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := storage.NewInMemoryStorage()

	assert.ErrorIs(t, s.Update(ctx, "k1", "v"), errors.ErrNotFound)

	require.NoError(t, s.Create(ctx, "k1", "v1"))
	require.NoError(t, s.Update(ctx, "k1", "v2"))

	val, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestListOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := storage.NewInMemoryStorage()

	require.NoError(t, s.Create(ctx, "c", 3))
	require.NoError(t, s.Create(ctx, "a", 1))
	require.NoError(t, s.Create(ctx, "b", 2))

	items, total, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, []any{1, 2, 3}, items)

	items, total, err = s.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, []any{2}, items)

	items, total, err = s.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Empty(t, items)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := storage.NewInMemoryStorage()

	require.NoError(t, s.Create(ctx, "k1", "v1"))
	require.NoError(t, s.Delete(ctx, "k1"))

	_, err := s.Get(ctx, "k1")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "k1"))
	assert.ErrorIs(t, s.Delete(ctx, ""), errors.ErrEmptyKey)
}
