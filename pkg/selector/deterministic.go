package selector

import (
	"sort"

	"github.com/rodneyosodo/flock/pkg/fl"
)

type deterministic struct{}

// NewDeterministic returns a selector that takes every alive client in the
// pool, ordered lexicographically by client ID. Ordering by ID keeps the
// cohort stable across the fit and evaluate phases of a round.
func NewDeterministic() Selector {
	return &deterministic{}
}

func (d *deterministic) Select(round uint64, pool []fl.Client, minClients int) ([]fl.Client, error) {
	if len(pool) == 0 {
		return nil, fl.ErrNoClients
	}

	alive := make([]fl.Client, 0, len(pool))
	for _, c := range pool {
		if c.Alive {
			alive = append(alive, c)
		}
	}
	if len(alive) < minClients {
		return nil, fl.ErrQuorum
	}

	sort.Slice(alive, func(i, j int) bool {
		return alive[i].ID < alive[j].ID
	})

	return alive, nil
}
