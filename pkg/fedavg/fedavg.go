// Package fedavg implements federated averaging: the new global model is
// the example-count-weighted mean of the per-client updated models.
package fedavg

import (
	"fmt"

	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/params"
)

const (
	MetricUpBytes   = "up_bytes"
	MetricDownBytes = "down_bytes"
	MetricAccuracy  = "accuracy"
)

// AggregateFit computes the weighted average of the returned parameter
// sets, weight = each client's example count normalized by the round's
// total. Transfer byte counts are summed across results purely for
// reporting. Empty input yields fl.ErrNoUpdates so a no-contribution
// round stays distinguishable from a crash.
func AggregateFit(updates []fl.ClientUpdate) (params.ParameterSet, map[string]float64, error) {
	if len(updates) == 0 {
		return params.ParameterSet{}, map[string]float64{}, fl.ErrNoUpdates
	}

	var totalExamples int64
	for _, u := range updates {
		if u.NumExamples <= 0 {
			return params.ParameterSet{}, map[string]float64{}, fmt.Errorf("client %s reported %d examples", u.ClientID, u.NumExamples)
		}
		if err := updates[0].Params.Compatible(u.Params); err != nil {
			return params.ParameterSet{}, map[string]float64{}, fmt.Errorf("client %s: %w", u.ClientID, err)
		}
		totalExamples += int64(u.NumExamples)
	}

	// Accumulate in float64, store back as float32.
	acc := make([][]float64, len(updates[0].Params.Tensors))
	for i, t := range updates[0].Params.Tensors {
		acc[i] = make([]float64, len(t.Data))
	}

	var upBytes, downBytes float64
	for _, u := range updates {
		w := float64(u.NumExamples) / float64(totalExamples)
		for i, t := range u.Params.Tensors {
			for j, v := range t.Data {
				acc[i][j] += w * float64(v)
			}
		}
		upBytes += u.Metrics[MetricUpBytes]
		downBytes += u.Metrics[MetricDownBytes]
	}

	out := updates[0].Params.Clone()
	for i := range out.Tensors {
		for j := range out.Tensors[i].Data {
			out.Tensors[i].Data[j] = float32(acc[i][j])
		}
	}

	metrics := map[string]float64{
		MetricUpBytes:   upBytes,
		MetricDownBytes: downBytes,
		"num_updates":   float64(len(updates)),
		"num_examples":  float64(totalExamples),
	}

	return out, metrics, nil
}

// AggregateEvaluate computes the example-count-weighted average loss, and
// the weighted average accuracy over the results that report one. When no
// result carries an accuracy metric the key is omitted so the caller can
// report it as unavailable. Empty input yields fl.ErrNoEvaluations.
func AggregateEvaluate(results []fl.EvaluateResult) (float64, map[string]float64, error) {
	if len(results) == 0 {
		return 0, map[string]float64{}, fl.ErrNoEvaluations
	}

	var totalExamples, accExamples int64
	var loss, accuracy, downBytes float64
	for _, r := range results {
		if r.NumExamples <= 0 {
			return 0, map[string]float64{}, fmt.Errorf("client %s reported %d examples", r.ClientID, r.NumExamples)
		}
		totalExamples += int64(r.NumExamples)
		if a, ok := r.Metrics[MetricAccuracy]; ok {
			accuracy += a * float64(r.NumExamples)
			accExamples += int64(r.NumExamples)
		}
		downBytes += r.Metrics[MetricDownBytes]
	}

	for _, r := range results {
		loss += r.Loss * float64(r.NumExamples) / float64(totalExamples)
	}

	metrics := map[string]float64{
		MetricDownBytes: downBytes,
		"num_results":   float64(len(results)),
		"num_examples":  float64(totalExamples),
	}
	if accExamples > 0 {
		metrics[MetricAccuracy] = accuracy / float64(accExamples)
	}

	return loss, metrics, nil
}
