// Package client implements the client agent: it owns a private data
// partition and a local model, and executes fit and evaluate passes when
// the coordinator instructs it to.
package client

import (
	"log/slog"

	"github.com/rodneyosodo/flock/model"
	"github.com/rodneyosodo/flock/pkg/fedavg"
	"github.com/rodneyosodo/flock/pkg/params"
)

// Agent holds the injected model and dataset. No state survives across
// calls besides the model itself; given the same parameters and data,
// every call is independent and repeatable.
type Agent struct {
	id          string
	model       *model.Model
	dataset     model.Dataset
	localEpochs int
	batchSize   int
	logger      *slog.Logger
}

func NewAgent(id string, m *model.Model, dataset model.Dataset, localEpochs, batchSize int, logger *slog.Logger) *Agent {
	return &Agent{
		id:          id,
		model:       m,
		dataset:     dataset,
		localEpochs: localEpochs,
		batchSize:   batchSize,
		logger:      logger,
	}
}

func (a *Agent) ID() string {
	return a.id
}

// GetParameters returns the current local model weights.
func (a *Agent) GetParameters() params.ParameterSet {
	return a.model.Parameters()
}

// Fit overwrites the local model with the broadcast parameters, runs the
// configured local training pass over the private partition and returns
// the updated weights, the number of training examples used and transfer
// metrics. Byte counting is observability only and never fails the call.
func (a *Agent) Fit(p params.ParameterSet, config map[string]float64) (params.ParameterSet, int, map[string]float64, error) {
	downBytes := p.ByteSize()
	if err := a.model.SetParameters(p); err != nil {
		return params.ParameterSet{}, 0, nil, err
	}

	epochs := a.localEpochs
	if e, ok := config["epochs"]; ok && int(e) > 0 {
		epochs = int(e)
	}
	batchSize := a.batchSize
	if b, ok := config["batch_size"]; ok && int(b) > 0 {
		batchSize = int(b)
	}

	numExamples := a.model.Train(a.dataset.Train, epochs, batchSize)
	updated := a.model.Parameters()

	metrics := map[string]float64{
		fedavg.MetricUpBytes:   float64(updated.ByteSize()),
		fedavg.MetricDownBytes: float64(downBytes),
	}

	return updated, numExamples, metrics, nil
}

// Evaluate overwrites the local model with the broadcast parameters and
// scores them on the local holdout.
func (a *Agent) Evaluate(p params.ParameterSet, config map[string]float64) (float64, int, map[string]float64, error) {
	downBytes := p.ByteSize()
	if err := a.model.SetParameters(p); err != nil {
		return 0, 0, nil, err
	}

	loss, accuracy := a.model.Evaluate(a.dataset.Test)

	metrics := map[string]float64{
		fedavg.MetricAccuracy:  accuracy,
		fedavg.MetricDownBytes: float64(downBytes),
	}

	return loss, len(a.dataset.Test), metrics, nil
}

// NumExamples reports the size of the local training split, announced to
// the coordinator on join.
func (a *Agent) NumExamples() int {
	return len(a.dataset.Train)
}
