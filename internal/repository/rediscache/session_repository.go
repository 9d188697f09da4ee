package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cubie-assistant/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "assistant:session:"

// SessionRepository stores sessions as JSON values so several API replicas
// share one conversation state.
type SessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewSessionRepository(rdb redis.Cmdable, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.rdb.Set(ctx, key(session.ID), data, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	data, err := r.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var s store.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &s, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, key(sessionID)).Err()
}
