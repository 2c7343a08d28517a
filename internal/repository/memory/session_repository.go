package memory

import (
	"time"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps finished correction sessions in memory for a
// while so follow-up questions and feedback can refer to them. It is
// deliberately not persistent; a session is a conversation, not a
// record.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *state.Session) {
	r.cache.Set(session.SessionID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*state.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*state.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
