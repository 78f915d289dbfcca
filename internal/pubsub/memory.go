package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// MemoryBroker fans messages out inside one process.
type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Message
}

var _ Broker = (*MemoryBroker)(nil)

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[int]chan Message)}
}

// userDeliveryTimeout bounds how long Publish waits on a full subscriber for
// TopicUsers. Ban snapshots travel on that topic and must not be dropped.
const userDeliveryTimeout = 2 * time.Second

// Publish drops messages for subscribers whose buffer is full, except on
// TopicUsers where it waits up to userDeliveryTimeout per subscriber.
func (b *MemoryBroker) Publish(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", topic, err)
	}
	msg := Message{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	var errs []error
	for id, ch := range b.subs[topic] {
		select {
		case ch <- msg:
			continue
		default:
		}
		if topic != TopicUsers {
			log.Printf("MemoryBroker: dropping %s message for slow subscriber %d", topic, id)
			continue
		}
		timer := time.NewTimer(userDeliveryTimeout)
		select {
		case ch <- msg:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("subscriber %d: %w", id, ctx.Err()))
		case <-timer.C:
			errs = append(errs, fmt.Errorf("subscriber %d: %s delivery timed out", id, topic))
		}
		timer.Stop()
	}
	return errors.Join(errs...)
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	ch := make(chan Message, 64)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	for _, t := range topics {
		if b.subs[t] == nil {
			b.subs[t] = make(map[int]chan Message)
		}
		b.subs[t][id] = ch
	}
	b.mu.Unlock()

	done := make(chan struct{})
	sub := newSubscription(ch, func() error {
		close(done)
		b.mu.Lock()
		for _, t := range topics {
			delete(b.subs[t], id)
			if len(b.subs[t]) == 0 {
				delete(b.subs, t)
			}
		}
		b.mu.Unlock()
		close(ch)
		return nil
	})

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-done:
		}
	}()
	return sub, nil
}

// Subscribers returns how many subscriptions listen on topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
