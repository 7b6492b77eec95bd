package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rodneyosodo/flock/coordinator"
	"github.com/rodneyosodo/flock/pkg/api"
	pkgerrors "github.com/rodneyosodo/flock/pkg/errors"
)

// MakeHandler builds the coordinator's HTTP API: cohort, round history,
// session state and the event log consumed by the terminal display.
func MakeHandler(svc coordinator.Service, logger *slog.Logger, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(loggingErrorEncoder(logger)),
	}

	mux := chi.NewRouter()

	mux.Route("/clients", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listClientsEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-clients").ServeHTTP)
		r.Get("/{clientID}", otelhttp.NewHandler(kithttp.NewServer(
			getClientEndpoint(svc),
			decodeEntityReq("clientID"),
			api.EncodeResponse,
			opts...,
		), "get-client").ServeHTTP)
	})

	mux.Route("/rounds", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listRoundsEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-rounds").ServeHTTP)
		r.Get("/{round}", otelhttp.NewHandler(kithttp.NewServer(
			getRoundEndpoint(svc),
			decodeRoundReq,
			api.EncodeResponse,
			opts...,
		), "get-round").ServeHTTP)
	})

	mux.Get("/session", otelhttp.NewHandler(kithttp.NewServer(
		getSessionEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "get-session").ServeHTTP)

	mux.Get("/events", otelhttp.NewHandler(kithttp.NewServer(
		listEventsEndpoint(svc),
		decodeListEntityReq,
		api.EncodeResponse,
		opts...,
	), "list-events").ServeHTTP)

	mux.Get("/health", otelhttp.NewHandler(kithttp.NewServer(
		healthEndpoint(instanceID),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "health").ServeHTTP)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	offset, err := api.ReadUintQuery(r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, err
	}
	limit, err := api.ReadUintQuery(r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, err
	}

	return listEntityReq{
		offset: offset,
		limit:  limit,
	}, nil
}

func decodeEntityReq(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		return entityReq{
			id: chi.URLParam(r, key),
		}, nil
	}
}

func decodeRoundReq(_ context.Context, r *http.Request) (any, error) {
	round, err := strconv.ParseUint(chi.URLParam(r, "round"), 10, 64)
	if err != nil {
		return nil, pkgerrors.ErrInvalidData
	}

	return roundReq{round: round}, nil
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return nil, nil
}

func loggingErrorEncoder(logger *slog.Logger) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.Warn("API request failed", slog.Any("error", err))
		api.EncodeError(ctx, err, w)
	}
}
