// Package events tracks which provider message ids have already been
// handled, so webhook redeliveries do not trigger duplicate replies.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const processedTTL = 24 * time.Hour

// ProcessedStore records seen message ids in redis with a 24h TTL. A nil
// store disables dedupe entirely.
type ProcessedStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewProcessedStore creates a store over the given redis client.
func NewProcessedStore(client *redis.Client, tracer trace.Tracer) *ProcessedStore {
	if client == nil {
		panic("events: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("volky.internal.events")
	}
	return &ProcessedStore{redis: client, tracer: tracer}
}

// MarkProcessed records the message id and reports whether this call was
// the first to see it. The nil store treats every message as first.
func (s *ProcessedStore) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	if s == nil || s.redis == nil {
		return true, nil
	}
	ctx, span := s.tracer.Start(ctx, "events.mark_processed")
	defer span.End()

	first, err := s.redis.SetNX(ctx, processedKey(messageID), "1", processedTTL).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("events: failed to record message id: %w", err)
	}
	return first, nil
}

// Seen reports whether the message id is already recorded.
func (s *ProcessedStore) Seen(ctx context.Context, messageID string) (bool, error) {
	if s == nil || s.redis == nil {
		return false, nil
	}
	ctx, span := s.tracer.Start(ctx, "events.seen")
	defer span.End()

	n, err := s.redis.Exists(ctx, processedKey(messageID)).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("events: failed to check message id: %w", err)
	}
	return n > 0, nil
}

func processedKey(messageID string) string {
	return fmt.Sprintf("processed:%s", messageID)
}
