// Package pubsub delivers document snapshots and session events to live subscribers.
package pubsub

import (
	"context"
	"encoding/json"
	"sync"
)

// Topics shared by publishers and subscribers.
const (
	TopicUsers = "users"
	TopicJobs  = "jobs"
)

// SessionTopic carries session events for one user.
func SessionTopic(userID string) string {
	return "session:" + userID
}

// Message is one published payload.
type Message struct {
	Topic   string
	Payload []byte
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Broker publishes JSON payloads to topics and hands out subscriptions.
type Broker interface {
	Publish(ctx context.Context, topic string, v any) error
	Subscribe(ctx context.Context, topics ...string) (*Subscription, error)
}

// Subscription streams messages until it is closed or its context ends.
// Close is safe to call more than once; the release runs exactly once.
type Subscription struct {
	C <-chan Message

	once    sync.Once
	release func() error
	err     error
}

func newSubscription(c <-chan Message, release func() error) *Subscription {
	return &Subscription{C: c, release: release}
}

func (s *Subscription) Close() error {
	s.once.Do(func() {
		if s.release != nil {
			s.err = s.release()
		}
	})
	return s.err
}
