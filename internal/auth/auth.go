package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Harmony-Global/harmony-admin/internal/storage"
)

// Record store keys for the session. They must stay stable across restarts
// so a persisted session survives a reload.
const (
	SessionRecordKey = "session_user"
	SessionTokenKey  = "session_token"
)

// Session is the locally held proof of a successful login. It is never
// validated against a server after creation and carries no expiry.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// SessionContext is the process-wide authentication state. It is built from
// the record store exactly once at startup and lives for the process
// lifetime; login and logout are the only writers.
type SessionContext struct {
	mu      sync.RWMutex
	session *Session
	token   string
}

// NewSessionContext derives the initial state from whatever session record
// the store holds. There is no network round-trip: a stale or forged local
// token is accepted as valid.
func NewSessionContext(ctx context.Context, store storage.Store, logger *slog.Logger) *SessionContext {
	sc := &SessionContext{}

	if value, found, err := store.Get(ctx, SessionTokenKey); err == nil && found {
		sc.token = string(value)
	}

	value, found, err := store.Get(ctx, SessionRecordKey)
	if err != nil || !found {
		return sc
	}

	var session Session
	if err := json.Unmarshal(value, &session); err != nil {
		logger.Warn("stored session record is corrupt, starting unauthenticated", "error", err)
		sc.token = ""
		return sc
	}
	sc.session = &session

	return sc
}

// Current returns a copy of the held session, or nil when unauthenticated.
func (c *SessionContext) Current() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *SessionContext) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *SessionContext) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *SessionContext) set(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.token = session.Token
}

func (c *SessionContext) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.token = ""
}
