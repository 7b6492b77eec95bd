package coordinator

import (
	"github.com/rodneyosodo/flock/pkg/fedavg"
	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/params"
	"github.com/rodneyosodo/flock/pkg/selector"
)

// Strategy composes the pluggable pieces of the round loop: initial model
// production, participant selection and the two aggregation steps. Fields
// are plain functions so alternative policies drop in without subclassing
// anything.
type Strategy struct {
	Initialize        func() params.ParameterSet
	Select            func(round uint64, pool []fl.Client, minClients int) ([]fl.Client, error)
	AggregateFit      func(updates []fl.ClientUpdate) (params.ParameterSet, map[string]float64, error)
	AggregateEvaluate func(results []fl.EvaluateResult) (float64, map[string]float64, error)
}

// NewStrategy returns the default federated-averaging strategy around the
// given model factory.
func NewStrategy(initialize func() params.ParameterSet) Strategy {
	return Strategy{
		Initialize:        initialize,
		Select:            selector.NewDeterministic().Select,
		AggregateFit:      fedavg.AggregateFit,
		AggregateEvaluate: fedavg.AggregateEvaluate,
	}
}
