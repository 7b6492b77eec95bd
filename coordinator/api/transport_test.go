package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/coordinator"
	"github.com/rodneyosodo/flock/coordinator/api"
	"github.com/rodneyosodo/flock/model"
	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/mqtt/mocks"
	"github.com/rodneyosodo/flock/pkg/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *mocks.Broker) {
	t.Helper()

	broker := mocks.NewBroker()
	factory := model.New(8, 3, 0.1, 42)
	svc := coordinator.NewService(
		"test-session",
		coordinator.Config{Rounds: 3, MinAvailableClients: 2},
		coordinator.NewStrategy(factory.Parameters),
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		broker.Client(),
		coordinator.NewEventLog(slog.Default()),
	)
	require.NoError(t, svc.Subscribe(context.Background()))

	srv := httptest.NewServer(api.MakeHandler(svc, slog.Default(), "test-instance"))
	t.Cleanup(srv.Close)

	return srv, broker
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	var health map[string]any
	code := getJSON(t, srv.URL+"/health", &health)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pass", health["status"])
	assert.Equal(t, "test-instance", health["instance_id"])
}

func TestSessionEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	var session fl.Session
	code := getJSON(t, srv.URL+"/session", &session)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, fl.PhaseIdle, session.Phase)
	assert.Equal(t, uint64(3), session.Rounds)
}

func TestClientsEndpoints(t *testing.T) {
	t.Parallel()
	srv, broker := newTestServer(t)
	ctx := context.Background()

	join := fl.JoinMessage{ClientID: "client-1", Name: "alpha", NumExamples: 80}
	require.NoError(t, broker.Client().Publish(ctx, fl.JoinTopic("test-session"), join))

	var page fl.ClientPage
	code := getJSON(t, srv.URL+"/clients", &page)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(1), page.Total)
	assert.Equal(t, "alpha", page.Clients[0].Name)

	var c fl.Client
	code = getJSON(t, srv.URL+"/clients/client-1", &c)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 80, c.NumExamples)

	code = getJSON(t, srv.URL+"/clients/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoundsEndpoints(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	var page fl.RoundPage
	code := getJSON(t, srv.URL+"/rounds", &page)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, page.Total)

	code = getJSON(t, srv.URL+"/rounds/1", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = getJSON(t, srv.URL+"/rounds/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEventsEndpoint(t *testing.T) {
	t.Parallel()
	srv, broker := newTestServer(t)
	ctx := context.Background()

	join := fl.JoinMessage{ClientID: "client-1", Name: "alpha", NumExamples: 80}
	require.NoError(t, broker.Client().Publish(ctx, fl.JoinTopic("test-session"), join))

	var page fl.EventPage
	code := getJSON(t, srv.URL+"/events", &page)
	assert.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(1), page.Total)
	assert.Equal(t, "Cohort", page.Events[0].Label)
}

func TestListQueryValidation(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	code := getJSON(t, srv.URL+"/clients?limit=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
