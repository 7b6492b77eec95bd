package coordinator_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/coordinator"
	"github.com/rodneyosodo/flock/model"
	pkgerrors "github.com/rodneyosodo/flock/pkg/errors"
	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/mqtt/mocks"
	"github.com/rodneyosodo/flock/pkg/storage"
)

const testChannel = "test-session"

func newTestService(t *testing.T, broker *mocks.Broker, cfg coordinator.Config) coordinator.Service {
	t.Helper()

	factory := model.New(8, 3, 0.1, 42)
	strategy := coordinator.NewStrategy(factory.Parameters)

	return coordinator.NewService(
		testChannel,
		cfg,
		strategy,
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		broker.Client(),
		coordinator.NewEventLog(slog.Default()),
	)
}

func TestHandleJoinRegistersClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	broker := mocks.NewBroker()
	svc := newTestService(t, broker, coordinator.Config{Rounds: 1, MinAvailableClients: 1})
	require.NoError(t, svc.Subscribe(ctx))

	join := fl.JoinMessage{ClientID: "client-1", Name: "alpha", NumExamples: 80}
	require.NoError(t, broker.Client().Publish(ctx, fl.JoinTopic(testChannel), join))

	c, err := svc.GetClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "alpha", c.Name)
	assert.Equal(t, 80, c.NumExamples)
	assert.True(t, c.Alive)

	// A re-join overwrites the registry entry.
	join.NumExamples = 120
	require.NoError(t, broker.Client().Publish(ctx, fl.JoinTopic(testChannel), join))

	c, err = svc.GetClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, 120, c.NumExamples)

	page, err := svc.ListClients(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), page.Total)
}

func TestHandleAliveOffline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	broker := mocks.NewBroker()
	svc := newTestService(t, broker, coordinator.Config{Rounds: 1, MinAvailableClients: 1})
	require.NoError(t, svc.Subscribe(ctx))

	join := fl.JoinMessage{ClientID: "client-1", Name: "alpha", NumExamples: 80}
	require.NoError(t, broker.Client().Publish(ctx, fl.JoinTopic(testChannel), join))

	offline := fl.AliveMessage{ClientID: "client-1", Status: "offline"}
	require.NoError(t, broker.Client().Publish(ctx, fl.AliveTopic(testChannel), offline))

	c, err := svc.GetClient(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, c.Alive)

	alive := fl.AliveMessage{ClientID: "client-1", Status: "alive"}
	require.NoError(t, broker.Client().Publish(ctx, fl.AliveTopic(testChannel), alive))

	c, err = svc.GetClient(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, c.Alive)
}

func TestReadAPIEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	broker := mocks.NewBroker()
	svc := newTestService(t, broker, coordinator.Config{Rounds: 3, MinAvailableClients: 2})

	_, err := svc.GetClient(ctx, "nope")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	_, err = svc.GetRound(ctx, 1)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	page, err := svc.ListRounds(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	session, err := svc.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, fl.PhaseIdle, session.Phase)
	assert.Equal(t, uint64(3), session.Rounds)
	assert.NotEmpty(t, session.ID)
}

func TestRunAbortsWhenCanceledWaitingForPool(t *testing.T) {
	t.Parallel()

	broker := mocks.NewBroker()
	svc := newTestService(t, broker, coordinator.Config{
		Rounds:              1,
		MinAvailableClients: 2,
		PoolInterval:        5 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
