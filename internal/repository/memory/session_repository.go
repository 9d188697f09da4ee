package memory

import (
	"context"
	"time"

	"cubie-assistant/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory. Each save refreshes
// the idle TTL.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	cp := session.Clone()
	cp.UpdatedAt = time.Now()
	r.cache.Set(session.ID, cp, cache.DefaultExpiration)
	return nil
}

// Get returns a deep copy so callers cannot mutate the stored session
// without saving it.
func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false, nil
	}
	return x.(*store.Session).Clone(), true, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
