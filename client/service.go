package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rodneyosodo/flock/pkg/fl"
	pkgmqtt "github.com/rodneyosodo/flock/pkg/mqtt"
	"github.com/rodneyosodo/flock/pkg/params"
)

// Service connects an Agent to the broker: it announces the agent, keeps
// the liveness heartbeat and serves fit/evaluate dispatches.
type Service struct {
	channel    string
	name       string
	agent      *Agent
	pubsub     pkgmqtt.PubSub
	liveliness time.Duration
	logger     *slog.Logger
}

func NewService(channel, name string, agent *Agent, pubsub pkgmqtt.PubSub, liveliness time.Duration, logger *slog.Logger) *Service {
	return &Service{
		channel:    channel,
		name:       name,
		agent:      agent,
		pubsub:     pubsub,
		liveliness: liveliness,
		logger:     logger,
	}
}

// Run announces the agent, subscribes to its dispatch topics and blocks
// until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	join := fl.JoinMessage{
		ClientID:    s.agent.ID(),
		Name:        s.name,
		NumExamples: s.agent.NumExamples(),
	}
	if err := s.pubsub.Publish(ctx, fl.JoinTopic(s.channel), join); err != nil {
		return fmt.Errorf("failed to announce client: %w", err)
	}

	if err := s.pubsub.Subscribe(ctx, fl.FitTopic(s.channel, s.agent.ID()), s.handleFit(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to fit topic: %w", err)
	}
	if err := s.pubsub.Subscribe(ctx, fl.EvaluateTopic(s.channel, s.agent.ID()), s.handleEvaluate(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to evaluate topic: %w", err)
	}

	s.logger.InfoContext(ctx, "client agent running",
		slog.String("client_id", s.agent.ID()),
		slog.Int("num_examples", s.agent.NumExamples()))

	go s.startLivelinessUpdates(ctx)

	<-ctx.Done()

	return ctx.Err()
}

func (s *Service) startLivelinessUpdates(ctx context.Context) {
	ticker := time.NewTicker(s.liveliness)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping liveliness updates")

			return
		case <-ticker.C:
			msg := fl.AliveMessage{ClientID: s.agent.ID(), Status: "alive"}
			if err := s.pubsub.Publish(ctx, fl.AliveTopic(s.channel), msg); err != nil {
				s.logger.Error("failed to publish liveliness message", slog.Any("error", err))
			}
		}
	}
}

func (s *Service) handleFit(ctx context.Context) pkgmqtt.Handler {
	return func(topic string, msg map[string]any) error {
		req, err := fl.DecodeMessage[fl.FitRequest](msg)
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "received parameters, starting local training",
			slog.Uint64("round", req.Round))

		p, err := params.DecodeString(req.Params)
		if err != nil {
			return s.reportFailure(ctx, req.Round, fl.PhaseAwaitingFit, err)
		}

		updated, numExamples, metrics, err := s.agent.Fit(p, req.Config)
		if err != nil {
			return s.reportFailure(ctx, req.Round, fl.PhaseAwaitingFit, err)
		}

		encoded, err := params.EncodeString(updated)
		if err != nil {
			return s.reportFailure(ctx, req.Round, fl.PhaseAwaitingFit, err)
		}

		resp := fl.FitResponse{
			Round:       req.Round,
			ClientID:    s.agent.ID(),
			Params:      encoded,
			NumExamples: numExamples,
			Metrics:     metrics,
		}
		if err := s.pubsub.Publish(ctx, fl.FitResultTopic(s.channel), resp); err != nil {
			return fmt.Errorf("failed to publish fit result: %w", err)
		}

		s.logger.InfoContext(ctx, "local training finished",
			slog.Uint64("round", req.Round),
			slog.Int("num_examples", numExamples))

		return nil
	}
}

func (s *Service) handleEvaluate(ctx context.Context) pkgmqtt.Handler {
	return func(topic string, msg map[string]any) error {
		req, err := fl.DecodeMessage[fl.EvaluateRequest](msg)
		if err != nil {
			return err
		}

		p, err := params.DecodeString(req.Params)
		if err != nil {
			return s.reportFailure(ctx, req.Round, fl.PhaseAwaitingEval, err)
		}

		loss, numExamples, metrics, err := s.agent.Evaluate(p, req.Config)
		if err != nil {
			return s.reportFailure(ctx, req.Round, fl.PhaseAwaitingEval, err)
		}

		resp := fl.EvaluateResponse{
			Round:       req.Round,
			ClientID:    s.agent.ID(),
			Loss:        loss,
			NumExamples: numExamples,
			Metrics:     metrics,
		}
		if err := s.pubsub.Publish(ctx, fl.EvaluateResultTopic(s.channel), resp); err != nil {
			return fmt.Errorf("failed to publish evaluate result: %w", err)
		}

		s.logger.InfoContext(ctx, "evaluation complete",
			slog.Uint64("round", req.Round),
			slog.Float64("accuracy", metrics["accuracy"]))

		return nil
	}
}

func (s *Service) reportFailure(ctx context.Context, round uint64, phase fl.Phase, cause error) error {
	s.logger.WarnContext(ctx, "round phase failed",
		slog.Uint64("round", round),
		slog.String("phase", string(phase)),
		slog.Any("error", cause))

	msg := fl.FailureMessage{
		Round:    round,
		ClientID: s.agent.ID(),
		Phase:    phase,
		Reason:   cause.Error(),
	}
	if err := s.pubsub.Publish(ctx, fl.FailureTopic(s.channel), msg); err != nil {
		return fmt.Errorf("failed to report failure: %w", err)
	}

	return nil
}
