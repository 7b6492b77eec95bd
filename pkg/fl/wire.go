package fl

import (
	"encoding/json"
	"fmt"
)

// Wire messages exchanged over the broker. Parameter sets travel inside
// the JSON payloads as base64-encoded CBOR (see pkg/params).

// JoinMessage announces a client agent to the coordinator.
type JoinMessage struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	NumExamples int    `json:"num_examples"`
}

// AliveMessage is a periodic heartbeat.
type AliveMessage struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
}

// FitRequest instructs one client to run a local training pass.
type FitRequest struct {
	Round  uint64             `json:"round"`
	Params string             `json:"params"`
	Config map[string]float64 `json:"config,omitempty"`
}

// FitResponse carries a client's updated weights back to the coordinator.
type FitResponse struct {
	Round       uint64             `json:"round"`
	ClientID    string             `json:"client_id"`
	Params      string             `json:"params"`
	NumExamples int                `json:"num_examples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// EvaluateRequest instructs one client to score the broadcast weights on
// its local holdout.
type EvaluateRequest struct {
	Round  uint64             `json:"round"`
	Params string             `json:"params"`
	Config map[string]float64 `json:"config,omitempty"`
}

// EvaluateResponse carries a client's evaluation outcome.
type EvaluateResponse struct {
	Round       uint64             `json:"round"`
	ClientID    string             `json:"client_id"`
	Loss        float64            `json:"loss"`
	NumExamples int                `json:"num_examples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// FailureMessage reports that a client could not complete a phase.
type FailureMessage struct {
	Round    uint64 `json:"round"`
	ClientID string `json:"client_id"`
	Phase    Phase  `json:"phase"`
	Reason   string `json:"reason"`
}

// DecodeMessage converts a broker payload, delivered as a generic map,
// into one of the wire message types.
func DecodeMessage[T any](msg map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(msg)
	if err != nil {
		return out, fmt.Errorf("failed to re-encode broker payload: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode broker payload: %w", err)
	}

	return out, nil
}
