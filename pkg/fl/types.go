// Package fl defines the domain types shared by the coordinator and the
// client agents: round state, fit/evaluate results and the cohort registry.
package fl

import (
	"time"

	"github.com/rodneyosodo/flock/pkg/params"
)

const aliveTimeout = 30 * time.Second

// Client is a registry entry for one client agent known to the coordinator.
type Client struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	NumExamples  int         `json:"num_examples"`
	Alive        bool        `json:"alive"`
	AliveHistory []time.Time `json:"alive_history"`
}

// SetAlive recomputes liveness from the most recent heartbeat.
func (c *Client) SetAlive() {
	if len(c.AliveHistory) > 0 {
		lastAlive := c.AliveHistory[len(c.AliveHistory)-1]
		if time.Since(lastAlive) <= aliveTimeout {
			c.Alive = true

			return
		}
	}
	c.Alive = false
}

// ClientPage is one page of the cohort registry.
type ClientPage struct {
	Offset  uint64   `json:"offset"`
	Limit   uint64   `json:"limit"`
	Total   uint64   `json:"total"`
	Clients []Client `json:"clients"`
}

// ClientUpdate is the outcome of one local fit call: updated weights, the
// number of local training examples (the aggregation weight) and transfer
// metrics. Consumed exactly once by the fit aggregation step.
type ClientUpdate struct {
	ClientID    string             `json:"client_id"`
	Params      params.ParameterSet `json:"-"`
	NumExamples int                `json:"num_examples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// EvaluateResult is the outcome of one local evaluate call.
type EvaluateResult struct {
	ClientID    string             `json:"client_id"`
	Loss        float64            `json:"loss"`
	NumExamples int                `json:"num_examples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Failure records a client that could not complete a round phase. Failures
// never abort a round; aggregation proceeds over the surviving results.
type Failure struct {
	ClientID string `json:"client_id"`
	Phase    Phase  `json:"phase"`
	Reason   string `json:"reason"`
}

// Phase is the coordinator's position in the round state machine.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitingFit     Phase = "awaiting_fit_results"
	PhaseAggregating     Phase = "aggregating"
	PhaseAwaitingEval    Phase = "awaiting_evaluate_results"
	PhaseAggregatingEval Phase = "aggregating_evaluate"
	PhaseDone            Phase = "done"
)

// RoundState is the record of one round. Created at round start, finalized
// at round end, kept in memory for the status API, never persisted.
type RoundState struct {
	Round       uint64    `json:"round"`
	Phase       Phase     `json:"phase"`
	Selected    []string  `json:"selected"`
	NumUpdates  int       `json:"num_updates"`
	NumFailures int       `json:"num_failures"`
	Failures    []Failure `json:"failures,omitempty"`
	Loss        float64   `json:"loss"`
	Accuracy    float64   `json:"accuracy"`
	HasAccuracy bool      `json:"has_accuracy"`
	UpBytes     uint64    `json:"up_bytes"`
	DownBytes   uint64    `json:"down_bytes"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}

// RoundPage is one page of round history.
type RoundPage struct {
	Offset uint64       `json:"offset"`
	Limit  uint64       `json:"limit"`
	Total  uint64       `json:"total"`
	Rounds []RoundState `json:"rounds"`
}

// Session is the coordinator's top-level view exposed to operators.
type Session struct {
	ID           string    `json:"id"`
	Rounds       uint64    `json:"rounds"`
	CurrentRound uint64    `json:"current_round"`
	Phase        Phase     `json:"phase"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
}

// Event is one entry of the coordinator's observability log: a round label
// plus a human-readable message, consumed by the terminal status display.
type Event struct {
	Label   string    `json:"label"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// EventPage is one page of the event log.
type EventPage struct {
	Offset uint64  `json:"offset"`
	Limit  uint64  `json:"limit"`
	Total  uint64  `json:"total"`
	Events []Event `json:"events"`
}
