package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/rodneyosodo/flock/pkg/fl"
)

// collector is the fan-in side of one round phase: it tracks which of the
// selected clients still owe a result and unblocks the orchestrator once
// all of them answered or the phase timeout elapses. Clients that never
// answer are converted into failures.
type collector struct {
	mu       sync.Mutex
	round    uint64
	phase    fl.Phase
	pending  map[string]bool
	updates  []fl.ClientUpdate
	evals    []fl.EvaluateResult
	failures []fl.Failure
	done     chan struct{}
	closed   bool
}

func newCollector(round uint64, phase fl.Phase, selected []fl.Client) *collector {
	pending := make(map[string]bool, len(selected))
	for _, c := range selected {
		pending[c.ID] = true
	}

	return &collector{
		round:   round,
		phase:   phase,
		pending: pending,
		done:    make(chan struct{}),
	}
}

// accepts reports whether a message for the given round belongs to this
// phase.
func (c *collector) accepts(round uint64, phase fl.Phase) bool {
	return c != nil && c.round == round && c.phase == phase
}

func (c *collector) offerFit(u fl.ClientUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pending[u.ClientID] {
		return
	}
	delete(c.pending, u.ClientID)
	c.updates = append(c.updates, u)
	c.maybeFinish()
}

func (c *collector) offerEvaluate(r fl.EvaluateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pending[r.ClientID] {
		return
	}
	delete(c.pending, r.ClientID)
	c.evals = append(c.evals, r)
	c.maybeFinish()
}

func (c *collector) offerFailure(f fl.Failure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pending[f.ClientID] {
		return
	}
	delete(c.pending, f.ClientID)
	c.failures = append(c.failures, f)
	c.maybeFinish()
}

func (c *collector) maybeFinish() {
	if len(c.pending) == 0 && !c.closed {
		c.closed = true
		close(c.done)
	}
}

// wait blocks until every selected client responded, the timeout elapsed
// or the context was canceled. Outstanding clients become failures.
func (c *collector) wait(ctx context.Context, timeout time.Duration) ([]fl.ClientUpdate, []fl.EvaluateResult, []fl.Failure, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.done:
	case <-timer.C:
	case <-ctx.Done():
		return nil, nil, nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.pending {
		c.failures = append(c.failures, fl.Failure{
			ClientID: id,
			Phase:    c.phase,
			Reason:   "no response before round timeout",
		})
		delete(c.pending, id)
	}
	if !c.closed {
		c.closed = true
		close(c.done)
	}

	return c.updates, c.evals, c.failures, nil
}
