package api

import (
	"context"

	"github.com/go-kit/kit/endpoint"

	"github.com/rodneyosodo/flock/coordinator"
	pkgerrors "github.com/rodneyosodo/flock/pkg/errors"
)

func getClientEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return clientResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return clientResponse{}, err
		}

		c, err := svc.GetClient(ctx, req.id)
		if err != nil {
			return clientResponse{}, err
		}

		return clientResponse{Client: c}, nil
	}
}

func listClientsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listClientsResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return listClientsResponse{}, err
		}

		page, err := svc.ListClients(ctx, req.offset, req.limit)
		if err != nil {
			return listClientsResponse{}, err
		}

		return listClientsResponse{ClientPage: page}, nil
	}
}

func getRoundEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(roundReq)
		if !ok {
			return roundResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return roundResponse{}, err
		}

		r, err := svc.GetRound(ctx, req.round)
		if err != nil {
			return roundResponse{}, err
		}

		return roundResponse{RoundState: r}, nil
	}
}

func listRoundsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listRoundsResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return listRoundsResponse{}, err
		}

		page, err := svc.ListRounds(ctx, req.offset, req.limit)
		if err != nil {
			return listRoundsResponse{}, err
		}

		return listRoundsResponse{RoundPage: page}, nil
	}
}

func getSessionEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		session, err := svc.GetSession(ctx)
		if err != nil {
			return sessionResponse{}, err
		}

		return sessionResponse{Session: session}, nil
	}
}

func listEventsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listEventsResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return listEventsResponse{}, err
		}

		page, err := svc.ListEvents(ctx, req.offset, req.limit)
		if err != nil {
			return listEventsResponse{}, err
		}

		return listEventsResponse{EventPage: page}, nil
	}
}

func healthEndpoint(instanceID string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		return healthResponse{
			Status:   "pass",
			Service:  "coordinator",
			Instance: instanceID,
		}, nil
	}
}
