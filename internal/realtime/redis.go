package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const topicPrefix = "rt:"

// RedisBus carries fan-out over redis Pub/Sub. Reconnection and backoff are
// owned by go-redis; the bus only marshals, publishes and forwards.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(addr, password string, db int) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBus{client: client}, nil
}

func (b *RedisBus) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		ID:      uuid.NewString(),
		Channel: channel,
		Event:   event,
		Payload: raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return b.client.Publish(ctx, topicPrefix+channel, data).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channels ...string) (<-chan Envelope, error) {
	topics := make([]string, 0, len(channels))
	for _, ch := range channels {
		topics = append(topics, topicPrefix+ch)
	}
	sub := b.client.Subscribe(ctx, topics...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan Envelope, 64)
	go func() {
		defer close(out)
		defer sub.Close()
		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Printf("[REALTIME] dropping malformed event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- env:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
