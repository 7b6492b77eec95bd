package coordinator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rodneyosodo/flock/pkg/fl"
)

const eventLogCapacity = 256

// EventLog is the observability sink: a bounded in-memory ring of
// (round label, message) pairs, mirrored to the structured logger. The
// terminal status display consumes it through the HTTP API.
type EventLog struct {
	mu     sync.Mutex
	events []fl.Event
	logger *slog.Logger
}

func NewEventLog(logger *slog.Logger) *EventLog {
	return &EventLog{logger: logger}
}

func (e *EventLog) Log(label, message string) {
	e.mu.Lock()
	e.events = append(e.events, fl.Event{Label: label, Message: message, Time: time.Now()})
	if len(e.events) > eventLogCapacity {
		e.events = e.events[len(e.events)-eventLogCapacity:]
	}
	e.mu.Unlock()

	e.logger.Info(message, slog.String("label", label))
}

// List pages through the retained events, oldest first.
func (e *EventLog) List(offset, limit uint64) ([]fl.Event, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := uint64(len(e.events))
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	out := make([]fl.Event, end-offset)
	copy(out, e.events[offset:end])

	return out, total
}
