// Package selector decides which clients participate in a round phase.
package selector

import (
	"github.com/rodneyosodo/flock/pkg/fl"
)

// Selector picks the participants for one round phase out of the available
// pool. Implementations must be deterministic given the pool and round.
type Selector interface {
	Select(round uint64, pool []fl.Client, minClients int) ([]fl.Client, error)
}
