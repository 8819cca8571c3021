package notificationinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bolsa/recruitment/notification"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements notification.Queue on a Redis list
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

var _ notification.Queue = (*RedisQueue)(nil)

// NewRedisQueue creates a new Redis-based queue
func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

// Notify pushes the message for a worker to deliver
func (q *RedisQueue) Notify(ctx context.Context, msg notification.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", msg.ID, err)
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return fmt.Errorf("enqueue notification %s: %w", msg.ID, err)
	}

	return nil
}

// Dequeue pops the oldest message, blocking up to timeout
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*notification.Message, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil is returned when timeout occurs
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue notification: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	var msg notification.Message
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	return &msg, nil
}

// Len returns the number of pending messages
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
