package coordinator

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogOrdering(t *testing.T) {
	t.Parallel()

	log := NewEventLog(slog.Default())
	log.Log("Round 1", "first")
	log.Log("Round 1", "second")
	log.Log("Round 2", "third")

	events, total := log.List(0, 10)
	require.Equal(t, uint64(3), total)
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Message)
	assert.Equal(t, "third", events[2].Message)
	assert.Equal(t, "Round 2", events[2].Label)
	assert.False(t, events[0].Time.IsZero())
}

func TestEventLogPaging(t *testing.T) {
	t.Parallel()

	log := NewEventLog(slog.Default())
	for i := range 5 {
		log.Log("Session", fmt.Sprintf("event %d", i))
	}

	events, total := log.List(3, 10)
	assert.Equal(t, uint64(5), total)
	require.Len(t, events, 2)
	assert.Equal(t, "event 3", events[0].Message)

	events, total = log.List(10, 10)
	assert.Equal(t, uint64(5), total)
	assert.Empty(t, events)
}

func TestEventLogBounded(t *testing.T) {
	t.Parallel()

	log := NewEventLog(slog.Default())
	for i := range eventLogCapacity + 10 {
		log.Log("Session", fmt.Sprintf("event %d", i))
	}

	events, total := log.List(0, uint64(eventLogCapacity))
	assert.Equal(t, uint64(eventLogCapacity), total)
	require.Len(t, events, eventLogCapacity)
	assert.Equal(t, "event 10", events[0].Message)
}
