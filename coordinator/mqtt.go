package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/rodneyosodo/flock/pkg/errors"
	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/params"
)

const aliveHistoryLimit = 10

// Subscribe attaches the coordinator to the join, liveness and results
// topics of its channel.
func (svc *service) Subscribe(ctx context.Context) error {
	if err := svc.pubsub.Subscribe(ctx, fl.JoinTopic(svc.channel), svc.handleJoin(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to join topic: %w", err)
	}
	if err := svc.pubsub.Subscribe(ctx, fl.AliveTopic(svc.channel), svc.handleAlive(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to alive topic: %w", err)
	}
	if err := svc.pubsub.Subscribe(ctx, fl.ResultsWildcard(svc.channel), svc.handleResults(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to results topics: %w", err)
	}

	return nil
}

func (svc *service) handleJoin(ctx context.Context) func(topic string, msg map[string]any) error {
	return func(topic string, msg map[string]any) error {
		join, err := fl.DecodeMessage[fl.JoinMessage](msg)
		if err != nil {
			return err
		}
		if join.ClientID == "" {
			return errors.New("client id is empty")
		}

		c := fl.Client{
			ID:           join.ClientID,
			Name:         join.Name,
			NumExamples:  join.NumExamples,
			Alive:        true,
			AliveHistory: []time.Time{time.Now()},
		}
		if err := svc.clientsDB.Create(ctx, c.ID, c); err != nil {
			if errors.Is(err, pkgerrors.ErrEntityExists) {
				return svc.clientsDB.Update(ctx, c.ID, c)
			}

			return err
		}

		svc.events.Log("Cohort", fmt.Sprintf("Client %s joined with %d examples", join.ClientID, join.NumExamples))

		return nil
	}
}

func (svc *service) handleAlive(ctx context.Context) func(topic string, msg map[string]any) error {
	return func(topic string, msg map[string]any) error {
		alive, err := fl.DecodeMessage[fl.AliveMessage](msg)
		if err != nil {
			return err
		}
		if alive.ClientID == "" {
			return errors.New("client id is empty")
		}

		data, err := svc.clientsDB.Get(ctx, alive.ClientID)
		if err != nil {
			return err
		}
		c, ok := data.(fl.Client)
		if !ok {
			return pkgerrors.ErrInvalidData
		}

		if alive.Status == "offline" {
			c.Alive = false
			c.AliveHistory = nil
			svc.events.Log("Cohort", fmt.Sprintf("Client %s went offline", alive.ClientID))

			return svc.clientsDB.Update(ctx, c.ID, c)
		}

		c.Alive = true
		c.AliveHistory = append(c.AliveHistory, time.Now())
		if len(c.AliveHistory) > aliveHistoryLimit {
			c.AliveHistory = c.AliveHistory[1:]
		}

		return svc.clientsDB.Update(ctx, c.ID, c)
	}
}

func (svc *service) handleResults(ctx context.Context) func(topic string, msg map[string]any) error {
	return func(topic string, msg map[string]any) error {
		switch topic {
		case fl.FitResultTopic(svc.channel):
			return svc.handleFitResult(msg)
		case fl.EvaluateResultTopic(svc.channel):
			return svc.handleEvaluateResult(msg)
		case fl.FailureTopic(svc.channel):
			return svc.handleFailure(msg)
		}

		return nil
	}
}

func (svc *service) handleFitResult(msg map[string]any) error {
	resp, err := fl.DecodeMessage[fl.FitResponse](msg)
	if err != nil {
		return err
	}

	c := svc.currentCollector()
	if !c.accepts(resp.Round, fl.PhaseAwaitingFit) {
		return nil
	}

	p, err := params.DecodeString(resp.Params)
	if err != nil {
		c.offerFailure(fl.Failure{
			ClientID: resp.ClientID,
			Phase:    fl.PhaseAwaitingFit,
			Reason:   fmt.Sprintf("undecodable parameters: %s", err),
		})

		return nil
	}

	c.offerFit(fl.ClientUpdate{
		ClientID:    resp.ClientID,
		Params:      p,
		NumExamples: resp.NumExamples,
		Metrics:     resp.Metrics,
	})

	return nil
}

func (svc *service) handleEvaluateResult(msg map[string]any) error {
	resp, err := fl.DecodeMessage[fl.EvaluateResponse](msg)
	if err != nil {
		return err
	}

	c := svc.currentCollector()
	if !c.accepts(resp.Round, fl.PhaseAwaitingEval) {
		return nil
	}

	c.offerEvaluate(fl.EvaluateResult{
		ClientID:    resp.ClientID,
		Loss:        resp.Loss,
		NumExamples: resp.NumExamples,
		Metrics:     resp.Metrics,
	})

	return nil
}

func (svc *service) handleFailure(msg map[string]any) error {
	failure, err := fl.DecodeMessage[fl.FailureMessage](msg)
	if err != nil {
		return err
	}

	c := svc.currentCollector()
	if !c.accepts(failure.Round, failure.Phase) {
		return nil
	}

	c.offerFailure(fl.Failure{
		ClientID: failure.ClientID,
		Phase:    failure.Phase,
		Reason:   failure.Reason,
	})

	return nil
}
