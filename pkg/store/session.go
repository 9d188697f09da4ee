package store

import (
	"context"
	"time"

	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/analytics"
)

// Session is the per-conversation state the assistant keeps between turns.
type Session struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Context   router.Context  `json:"context"`
	Analytics analytics.State `json:"analytics"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewSession(id, userID string) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		Context:   *router.NewContext(id),
		UpdatedAt: time.Now(),
	}
}

// Clone returns a copy that shares no memory with s.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Analytics = s.Analytics.Clone()
	return &cp
}

// SessionStore persists sessions. Get reports found=false for unknown or
// expired ids.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*Session, bool, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}
