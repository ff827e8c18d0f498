package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const relayChannel = "feedback:board-events"

// RedisRelay shares board events between instances through redis pub/sub.
// Publish only writes to redis; every instance, this one included, delivers
// what it receives on the channel to its own hub.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	logger *zap.Logger
}

func NewRedisRelay(client *redis.Client, hub *Hub, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, hub: hub, logger: logger}
}

func (r *RedisRelay) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode board event: %w", err)
	}
	return r.client.Publish(ctx, relayChannel, payload).Err()
}

// Run forwards channel messages to the local hub until ctx is done
func (r *RedisRelay) Run(ctx context.Context) {
	pubsub := r.client.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warn("Discarding malformed board event", zap.Error(err))
				continue
			}
			if err := r.hub.Publish(ctx, event); err != nil {
				r.logger.Warn("Failed to deliver relayed board event", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
