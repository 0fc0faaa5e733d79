// Package transcript keeps the per-session utterance log in Redis.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "voice_transcript:"

// Message is one line of the conversation, from either side.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind,omitempty"`
}

// Store is a Redis-backed transcript log. A nil Store is a no-op, so
// deployments without Redis simply keep no transcript.
type Store struct {
	redis       *redis.Client
	tracer      trace.Tracer
	ttl         time.Duration
	maxMessages int64
}

// NewStore creates a transcript store. Entries expire after ttl.
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		redis:       redisClient,
		tracer:      otel.Tracer("sylvia.internal.transcript"),
		ttl:         ttl,
		maxMessages: 500,
	}
}

// Append adds one message to the session transcript.
func (s *Store) Append(ctx context.Context, sessionID string, msg Message) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionID == "" {
		return errors.New("transcript: sessionID required")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("transcript: marshal message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "transcript.append")
	defer span.End()

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, -s.maxMessages, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("transcript: append message: %w", err)
	}
	return nil
}

// List returns up to limit most recent messages in order; limit <= 0
// returns the whole transcript.
func (s *Store) List(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionID == "" {
		return nil, errors.New("transcript: sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), start, -1).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("transcript: list messages: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// Clear removes a session's transcript once the session is finished.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionID == "" {
		return errors.New("transcript: sessionID required")
	}
	if err := s.redis.Del(ctx, transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("transcript: clear session: %w", err)
	}
	return nil
}

func transcriptKey(sessionID string) string {
	return keyPrefix + sessionID
}
