package events

import (
	"context"
	"sync"
)

type Message struct {
	Topic string
	Key   string
	Event any
}

// Memory keeps published messages in process.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func (m *Memory) Publish(_ context.Context, topic, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Key: key, Event: event})
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *Memory) Types(topic string) []string {
	var out []string
	for _, msg := range m.Messages() {
		if msg.Topic != topic {
			continue
		}
		if env, ok := msg.Event.(Envelope); ok {
			out = append(out, env.Type)
		}
	}
	return out
}
