// Package mocks provides an in-process PubSub used in tests: messages are
// routed synchronously between subscribers through the JSON codec, which
// mirrors what the paho wrapper delivers.
package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rodneyosodo/flock/pkg/mqtt"
)

type Broker struct {
	mu       sync.Mutex
	handlers map[string]mqtt.Handler
}

func NewBroker() *Broker {
	return &Broker{
		handlers: make(map[string]mqtt.Handler),
	}
}

// Client returns a PubSub attached to the broker.
func (b *Broker) Client() mqtt.PubSub {
	return &client{broker: b}
}

// Subscribed reports whether a handler is registered for the exact pattern.
func (b *Broker) Subscribed(pattern string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handlers[pattern]

	return ok
}

func (b *Broker) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	b.mu.Lock()
	matched := make([]mqtt.Handler, 0, 1)
	for pattern, h := range b.handlers {
		if topicMatches(topic, pattern) {
			matched = append(matched, h)
		}
	}
	b.mu.Unlock()

	for _, h := range matched {
		if err := h(topic, msg); err != nil {
			return err
		}
	}

	return nil
}

type client struct {
	broker *Broker
}

func (c *client) Publish(_ context.Context, topic string, msg any) error {
	return c.broker.publish(topic, msg)
}

func (c *client) Subscribe(_ context.Context, topic string, handler mqtt.Handler) error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	c.broker.handlers[topic] = handler

	return nil
}

func (c *client) Unsubscribe(_ context.Context, topic string) error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	delete(c.broker.handlers, topic)

	return nil
}

func (c *client) Disconnect(_ context.Context) error {
	return nil
}

func topicMatches(topic, pattern string) bool {
	if topic == pattern {
		return true
	}

	topicParts := strings.Split(topic, "/")
	patternParts := strings.Split(pattern, "/")
	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(topicParts) == len(patternParts)
}
