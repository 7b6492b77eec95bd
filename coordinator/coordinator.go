// Package coordinator drives federated training rounds: it selects
// participants, broadcasts the global model, collects client results and
// folds them back into the global model with federated averaging.
package coordinator

import (
	"context"

	"github.com/rodneyosodo/flock/pkg/fl"
)

type Service interface {
	// GetClient returns one cohort member with recomputed liveness.
	GetClient(ctx context.Context, clientID string) (fl.Client, error)
	// ListClients pages through the cohort registry.
	ListClients(ctx context.Context, offset, limit uint64) (fl.ClientPage, error)

	// GetRound returns the record of one finished or in-flight round.
	GetRound(ctx context.Context, round uint64) (fl.RoundState, error)
	// ListRounds pages through the round history.
	ListRounds(ctx context.Context, offset, limit uint64) (fl.RoundPage, error)

	// GetSession returns the orchestrator's current position.
	GetSession(ctx context.Context) (fl.Session, error)
	// ListEvents pages through the observability event log.
	ListEvents(ctx context.Context, offset, limit uint64) (fl.EventPage, error)

	// Subscribe attaches the coordinator to its broker topics.
	Subscribe(ctx context.Context) error
	// Run executes the configured number of rounds and returns once the
	// session reaches the Done state or fails fatally.
	Run(ctx context.Context) error
}
