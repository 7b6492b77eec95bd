package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rodneyosodo/flock/pkg/fedavg"
	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/params"
)

// Run drives rounds 1..N sequentially: configure fit, collect, aggregate,
// configure evaluate, collect, aggregate. The session ends in the Done
// state after the last round's evaluate aggregation; any unrecoverable
// transport error aborts the whole session.
func (svc *service) Run(ctx context.Context) error {
	svc.events.Log("Server Setup", fmt.Sprintf("Waiting for %d clients to connect", svc.cfg.MinAvailableClients))
	if _, err := svc.waitForPool(ctx); err != nil {
		return err
	}

	svc.events.Log("Strategy", "Initializing global model parameters")
	svc.mu.Lock()
	svc.global = svc.strategy.Initialize()
	svc.session.StartedAt = time.Now()
	svc.mu.Unlock()

	for round := uint64(1); round <= svc.cfg.Rounds; round++ {
		if err := svc.runRound(ctx, round); err != nil {
			svc.events.Log(roundLabel(round), fmt.Sprintf("FATAL: %s", err))

			return fmt.Errorf("round %d: %w", round, err)
		}
	}

	svc.mu.Lock()
	svc.session.Phase = fl.PhaseDone
	svc.session.FinishedAt = time.Now()
	svc.mu.Unlock()
	svc.events.Log("Session", fmt.Sprintf("Completed %d rounds", svc.cfg.Rounds))

	return nil
}

func (svc *service) runRound(ctx context.Context, round uint64) error {
	state := fl.RoundState{
		Round:     round,
		Phase:     fl.PhaseAwaitingFit,
		StartedAt: time.Now(),
	}

	// Fit phase.
	selected, err := svc.selectClients(ctx, round, svc.cfg.MinFitClients)
	if err != nil {
		return err
	}
	for _, c := range selected {
		state.Selected = append(state.Selected, c.ID)
	}
	if err := svc.roundsDB.Create(ctx, roundKey(round), state); err != nil {
		return err
	}

	svc.setPhase(round, fl.PhaseAwaitingFit)
	svc.events.Log(roundLabel(round), fmt.Sprintf("Configuring fit tasks for %d clients", len(selected)))

	fitCollector := newCollector(round, fl.PhaseAwaitingFit, selected)
	svc.setCollector(fitCollector)
	if err := svc.dispatchFit(ctx, round, selected); err != nil {
		return err
	}

	updates, _, failures, err := fitCollector.wait(ctx, svc.cfg.RoundTimeout)
	if err != nil {
		return err
	}

	// Fit aggregation.
	svc.setPhase(round, fl.PhaseAggregating)
	state.Phase = fl.PhaseAggregating
	svc.aggregateFit(round, &state, updates, failures)
	if err := svc.roundsDB.Update(ctx, roundKey(round), state); err != nil {
		return err
	}

	// Evaluate phase.
	selected, err = svc.selectClients(ctx, round, svc.cfg.MinEvaluateClients)
	if err != nil {
		return err
	}

	svc.setPhase(round, fl.PhaseAwaitingEval)
	state.Phase = fl.PhaseAwaitingEval
	svc.events.Log(roundLabel(round), "Configuring evaluate tasks")

	evalCollector := newCollector(round, fl.PhaseAwaitingEval, selected)
	svc.setCollector(evalCollector)
	if err := svc.dispatchEvaluate(ctx, round, selected); err != nil {
		return err
	}

	_, evals, evalFailures, err := evalCollector.wait(ctx, svc.cfg.RoundTimeout)
	if err != nil {
		return err
	}

	// Evaluate aggregation.
	svc.setPhase(round, fl.PhaseAggregatingEval)
	state.Phase = fl.PhaseAggregatingEval
	svc.aggregateEvaluate(round, &state, evals, evalFailures)

	state.Phase = fl.PhaseIdle
	state.FinishedAt = time.Now()
	if err := svc.roundsDB.Update(ctx, roundKey(round), state); err != nil {
		return err
	}
	svc.setCollector(nil)
	svc.setPhase(round, fl.PhaseIdle)

	return nil
}

// selectClients applies the strategy's selection policy, blocking until
// the availability quorum is met again if the pool shrank mid-session.
func (svc *service) selectClients(ctx context.Context, round uint64, minClients int) ([]fl.Client, error) {
	for {
		pool, err := svc.alivePool(ctx)
		if err != nil {
			return nil, err
		}

		selected, err := svc.strategy.Select(round, pool, minClients)
		switch {
		case err == nil:
			return selected, nil
		case errors.Is(err, fl.ErrNoClients) || errors.Is(err, fl.ErrQuorum):
			svc.events.Log(roundLabel(round), fmt.Sprintf("Pool below quorum (%d available), waiting", len(pool)))
			if _, err := svc.waitForPool(ctx); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
}

func (svc *service) dispatchFit(ctx context.Context, round uint64, selected []fl.Client) error {
	svc.mu.Lock()
	broadcast := svc.global.Clone()
	svc.mu.Unlock()

	encoded, err := params.EncodeString(broadcast)
	if err != nil {
		return fmt.Errorf("failed to encode global model: %w", err)
	}

	req := fl.FitRequest{
		Round:  round,
		Params: encoded,
		Config: map[string]float64{
			"epochs":     float64(svc.cfg.LocalEpochs),
			"batch_size": float64(svc.cfg.BatchSize),
		},
	}
	for _, c := range selected {
		if err := svc.pubsub.Publish(ctx, fl.FitTopic(svc.channel, c.ID), req); err != nil {
			return fmt.Errorf("failed to dispatch fit to %s: %w", c.ID, err)
		}
	}

	return nil
}

func (svc *service) dispatchEvaluate(ctx context.Context, round uint64, selected []fl.Client) error {
	svc.mu.Lock()
	broadcast := svc.global.Clone()
	svc.mu.Unlock()

	encoded, err := params.EncodeString(broadcast)
	if err != nil {
		return fmt.Errorf("failed to encode global model: %w", err)
	}

	req := fl.EvaluateRequest{Round: round, Params: encoded}
	for _, c := range selected {
		if err := svc.pubsub.Publish(ctx, fl.EvaluateTopic(svc.channel, c.ID), req); err != nil {
			return fmt.Errorf("failed to dispatch evaluate to %s: %w", c.ID, err)
		}
	}

	return nil
}

func (svc *service) aggregateFit(round uint64, state *fl.RoundState, updates []fl.ClientUpdate, failures []fl.Failure) {
	state.NumUpdates = len(updates)
	state.NumFailures = len(failures)
	state.Failures = append(state.Failures, failures...)

	aggregated, metrics, err := svc.strategy.AggregateFit(updates)
	switch {
	case errors.Is(err, fl.ErrNoUpdates):
		svc.events.Log(roundLabel(round), "No results received from clients, round contributes nothing")
	case err != nil:
		svc.events.Log(roundLabel(round), fmt.Sprintf("Fit aggregation failed: %s", err))
	default:
		svc.mu.Lock()
		svc.global = aggregated
		svc.mu.Unlock()

		state.UpBytes = uint64(metrics[fedavg.MetricUpBytes])
		state.DownBytes = uint64(metrics[fedavg.MetricDownBytes])
		svc.events.Log(roundLabel(round), fmt.Sprintf(
			"Aggregated results from %d clients (up %.2f MB, down %.2f MB)",
			len(updates),
			metrics[fedavg.MetricUpBytes]/(1024*1024),
			metrics[fedavg.MetricDownBytes]/(1024*1024)))
	}

	if len(failures) > 0 {
		svc.events.Log(roundLabel(round), fmt.Sprintf("Warning: %d clients failed", len(failures)))
	}
}

func (svc *service) aggregateEvaluate(round uint64, state *fl.RoundState, results []fl.EvaluateResult, failures []fl.Failure) {
	state.NumFailures += len(failures)
	state.Failures = append(state.Failures, failures...)

	loss, metrics, err := svc.strategy.AggregateEvaluate(results)
	switch {
	case errors.Is(err, fl.ErrNoEvaluations):
		svc.events.Log(roundLabel(round), "No evaluation results")

		return
	case err != nil:
		svc.events.Log(roundLabel(round), fmt.Sprintf("Evaluate aggregation failed: %s", err))

		return
	}

	state.Loss = loss
	if accuracy, ok := metrics[fedavg.MetricAccuracy]; ok {
		state.Accuracy = accuracy
		state.HasAccuracy = true
		svc.events.Log(roundLabel(round), fmt.Sprintf("AGGREGATED ACCURACY: %.4f", accuracy))
	} else {
		svc.events.Log(roundLabel(round), "No accuracy metrics available")
	}

	if len(failures) > 0 {
		svc.events.Log(roundLabel(round), fmt.Sprintf("Warning: %d clients failed during evaluation", len(failures)))
	}
}

func roundLabel(round uint64) string {
	return fmt.Sprintf("Round %d", round)
}
