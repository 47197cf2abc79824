package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/remedy/internal/core/domain"
)

// payloadTTL bounds how long an unhandled escalation payload survives.
const payloadTTL = 24 * time.Hour

// EscalationQueue holds recovery attempts that need human attention,
// ordered by the time they were escalated.
type EscalationQueue struct {
	rdb *redis.Client
}

// NewEscalationQueue creates a Redis-backed escalation queue.
func NewEscalationQueue(client *Client) *EscalationQueue {
	return &EscalationQueue{rdb: client.rdb}
}

// Key helpers
func queueKey() string {
	return "escalations"
}

func payloadKey(attemptID string) string {
	return fmt.Sprintf("escalation:%s", attemptID)
}

// Push queues an escalated attempt for operator review.
func (q *EscalationQueue) Push(ctx context.Context, att *domain.RecoveryAttempt) error {
	data, err := json.Marshal(att)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}

	// Store the payload
	if err := q.rdb.Set(ctx, payloadKey(att.ID), data, payloadTTL).Err(); err != nil {
		return fmt.Errorf("failed to set escalation payload: %w", err)
	}

	// Add to sorted set (score = escalation time, lower = older = handled first)
	if err := q.rdb.ZAdd(ctx, queueKey(), redis.Z{
		Score:  float64(att.Timestamp.Unix()),
		Member: att.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	return nil
}

// PopNext removes and returns the oldest escalation, or nil when the queue
// is empty.
func (q *EscalationQueue) PopNext(ctx context.Context) (*domain.RecoveryAttempt, error) {
	results, err := q.rdb.ZRange(ctx, queueKey(), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	id := results[0]

	data, err := q.rdb.Get(ctx, payloadKey(id)).Bytes()
	if err == redis.Nil {
		// Payload expired but ID still in queue, remove it
		q.rdb.ZRem(ctx, queueKey(), id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escalation payload: %w", err)
	}

	var att domain.RecoveryAttempt
	if err := json.Unmarshal(data, &att); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attempt: %w", err)
	}

	if err := q.rdb.ZRem(ctx, queueKey(), id).Err(); err != nil {
		return nil, fmt.Errorf("zrem failed: %w", err)
	}
	q.rdb.Del(ctx, payloadKey(id))

	return &att, nil
}

// GetAll returns all queued escalations, oldest first, skipping entries
// whose payload has expired.
func (q *EscalationQueue) GetAll(ctx context.Context) ([]*domain.RecoveryAttempt, error) {
	ids, err := q.rdb.ZRange(ctx, queueKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	var attempts []*domain.RecoveryAttempt
	for _, id := range ids {
		data, err := q.rdb.Get(ctx, payloadKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get escalation payload: %w", err)
		}

		var att domain.RecoveryAttempt
		if err := json.Unmarshal(data, &att); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attempt: %w", err)
		}
		attempts = append(attempts, &att)
	}
	return attempts, nil
}

// Count returns the number of queued escalations.
func (q *EscalationQueue) Count(ctx context.Context) (int64, error) {
	return q.rdb.ZCard(ctx, queueKey()).Result()
}

// Resolve removes a handled escalation from the queue.
func (q *EscalationQueue) Resolve(ctx context.Context, attemptID string) error {
	if err := q.rdb.ZRem(ctx, queueKey(), attemptID).Err(); err != nil {
		return fmt.Errorf("zrem failed: %w", err)
	}
	return q.rdb.Del(ctx, payloadKey(attemptID)).Err()
}

// Clear drops the whole queue and all payloads.
func (q *EscalationQueue) Clear(ctx context.Context) error {
	ids, err := q.rdb.ZRange(ctx, queueKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("zrange failed: %w", err)
	}

	for _, id := range ids {
		if err := q.rdb.Del(ctx, payloadKey(id)).Err(); err != nil {
			return fmt.Errorf("failed to delete payload: %w", err)
		}
	}
	return q.rdb.Del(ctx, queueKey()).Err()
}
