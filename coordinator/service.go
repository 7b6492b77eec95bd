package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rodneyosodo/flock/pkg/errors"
	"github.com/rodneyosodo/flock/pkg/fl"
	pkgmqtt "github.com/rodneyosodo/flock/pkg/mqtt"
	"github.com/rodneyosodo/flock/pkg/params"
	"github.com/rodneyosodo/flock/pkg/storage"
)

const (
	defOffset = 0
	defLimit  = 100
)

// Config carries the session parameters fixed at startup.
type Config struct {
	Rounds              uint64
	MinFitClients       int
	MinEvaluateClients  int
	MinAvailableClients int
	RoundTimeout        time.Duration
	PoolInterval        time.Duration
	LocalEpochs         int
	BatchSize           int
}

type service struct {
	channel   string
	cfg       Config
	strategy  Strategy
	clientsDB storage.Storage
	roundsDB  storage.Storage
	pubsub    pkgmqtt.PubSub
	events    *EventLog

	mu        sync.Mutex
	session   fl.Session
	global    params.ParameterSet
	collector *collector
}

func NewService(channel string, cfg Config, strategy Strategy, clientsDB, roundsDB storage.Storage, pubsub pkgmqtt.PubSub, events *EventLog) Service {
	if cfg.PoolInterval <= 0 {
		cfg.PoolInterval = time.Second
	}

	return &service{
		channel:   channel,
		cfg:       cfg,
		strategy:  strategy,
		clientsDB: clientsDB,
		roundsDB:  roundsDB,
		pubsub:    pubsub,
		events:    events,
		session: fl.Session{
			ID:     uuid.NewString(),
			Rounds: cfg.Rounds,
			Phase:  fl.PhaseIdle,
		},
	}
}

func (svc *service) GetClient(ctx context.Context, clientID string) (fl.Client, error) {
	data, err := svc.clientsDB.Get(ctx, clientID)
	if err != nil {
		return fl.Client{}, err
	}
	c, ok := data.(fl.Client)
	if !ok {
		return fl.Client{}, errors.ErrInvalidData
	}
	c.SetAlive()

	return c, nil
}

func (svc *service) ListClients(ctx context.Context, offset, limit uint64) (fl.ClientPage, error) {
	data, total, err := svc.clientsDB.List(ctx, offset, limit)
	if err != nil {
		return fl.ClientPage{}, err
	}
	clients := make([]fl.Client, len(data))
	for i := range data {
		c, ok := data[i].(fl.Client)
		if !ok {
			return fl.ClientPage{}, errors.ErrInvalidData
		}
		c.SetAlive()
		clients[i] = c
	}

	return fl.ClientPage{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		Clients: clients,
	}, nil
}

func (svc *service) GetRound(ctx context.Context, round uint64) (fl.RoundState, error) {
	data, err := svc.roundsDB.Get(ctx, roundKey(round))
	if err != nil {
		return fl.RoundState{}, err
	}
	r, ok := data.(fl.RoundState)
	if !ok {
		return fl.RoundState{}, errors.ErrInvalidData
	}

	return r, nil
}

func (svc *service) ListRounds(ctx context.Context, offset, limit uint64) (fl.RoundPage, error) {
	data, total, err := svc.roundsDB.List(ctx, offset, limit)
	if err != nil {
		return fl.RoundPage{}, err
	}
	rounds := make([]fl.RoundState, len(data))
	for i := range data {
		r, ok := data[i].(fl.RoundState)
		if !ok {
			return fl.RoundPage{}, errors.ErrInvalidData
		}
		rounds[i] = r
	}

	return fl.RoundPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Rounds: rounds,
	}, nil
}

func (svc *service) GetSession(ctx context.Context) (fl.Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.session, nil
}

func (svc *service) ListEvents(ctx context.Context, offset, limit uint64) (fl.EventPage, error) {
	events, total := svc.events.List(offset, limit)

	return fl.EventPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Events: events,
	}, nil
}

func (svc *service) setPhase(round uint64, phase fl.Phase) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.session.CurrentRound = round
	svc.session.Phase = phase
}

func (svc *service) setCollector(c *collector) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.collector = c
}

func (svc *service) currentCollector() *collector {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.collector
}

// alivePool returns the currently reachable clients.
func (svc *service) alivePool(ctx context.Context) ([]fl.Client, error) {
	page, err := svc.ListClients(ctx, defOffset, defLimit)
	if err != nil {
		return nil, err
	}

	alive := make([]fl.Client, 0, len(page.Clients))
	for _, c := range page.Clients {
		if c.Alive {
			alive = append(alive, c)
		}
	}

	return alive, nil
}

// waitForPool blocks until at least the configured minimum number of
// clients is available, polling the registry.
func (svc *service) waitForPool(ctx context.Context) ([]fl.Client, error) {
	ticker := time.NewTicker(svc.cfg.PoolInterval)
	defer ticker.Stop()

	for {
		pool, err := svc.alivePool(ctx)
		if err != nil {
			return nil, err
		}
		if len(pool) >= svc.cfg.MinAvailableClients {
			return pool, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("session aborted while waiting for %d clients: %w", svc.cfg.MinAvailableClients, ctx.Err())
		case <-ticker.C:
		}
	}
}

func roundKey(round uint64) string {
	return fmt.Sprintf("%06d", round)
}
