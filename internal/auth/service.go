package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Harmony-Global/harmony-admin/internal"
	"github.com/Harmony-Global/harmony-admin/internal/storage"
)

const (
	msgLoginSuccessful    = "Login successful"
	msgInvalidCredentials = "Invalid email or password"
	msgLoginError         = "An error occurred during login."
)

// Gateway is the outbound fetch dependency for the credential document.
type Gateway interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// Service implements the mock credential check: the supplied email and
// password are compared verbatim against a single fixed remote document.
// This is deliberately not a real authentication protocol; the behavior is a
// compatibility contract with that document and must not be hardened.
type Service struct {
	gateway  Gateway
	store    storage.Store
	sessions *SessionContext
	loginURL string
	logger   *slog.Logger

	now func() time.Time
}

func NewService(gw Gateway, store storage.Store, sessions *SessionContext, loginURL string, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gw,
		store:    store,
		sessions: sessions,
		loginURL: loginURL,
		logger:   logger,
		now:      time.Now,
	}
}

// Login fetches the credential document and compares it against dto. On a
// match it synthesizes a session with a timestamp-based token, persists the
// session record and token as two separate store writes, and updates the
// session context. All outcomes come back as a structured result.
func (s *Service) Login(ctx context.Context, dto LoginDTO) LoginResult {
	var doc credentialDocument
	if err := s.gateway.GetJSON(ctx, s.loginURL, &doc); err != nil {
		s.logger.Error("credential document fetch failed", "error", err)
		return LoginResult{Status: false, Message: msgLoginError}
	}

	if doc.Email != dto.Email || doc.Password != dto.Password {
		s.logger.Warn("login rejected", "email", dto.Email)
		return LoginResult{Status: false, Message: msgInvalidCredentials}
	}

	email := doc.Email
	if email == "" {
		email = dto.Email
	}

	session := &Session{
		ID:    "1",
		Email: email,
		Name:  nameFromEmail(email),
		Token: fmt.Sprintf("auth-token-%d", s.now().UnixMilli()),
	}

	s.persistSession(ctx, session)
	s.sessions.set(session)

	s.logger.Info("login successful", "email", session.Email)
	return LoginResult{Status: true, Message: msgLoginSuccessful, Data: session}
}

// Logout clears the persisted session and token unconditionally.
func (s *Service) Logout(ctx context.Context) {
	if err := s.store.Remove(ctx, SessionRecordKey); err != nil {
		s.logger.Warn("failed to remove session record", "error", err)
	}
	if err := s.store.Remove(ctx, SessionTokenKey); err != nil {
		s.logger.Warn("failed to remove session token", "error", err)
	}
	s.sessions.clear()

	s.logger.Info("logged out")
}

// Authenticate accepts a bearer token when it equals the token held by the
// session context. No further validation exists.
func (s *Service) Authenticate(token string) error {
	current := s.sessions.Token()
	if current == "" || token != current {
		return internal.ErrInvalidToken
	}
	return nil
}

// CurrentSession exposes the held session to the view layer.
func (s *Service) CurrentSession() *Session {
	return s.sessions.Current()
}

// persistSession writes the session record and token. The two writes are
// not atomic, and a failed write must not abort the login: the in-memory
// session context is still updated by the caller.
func (s *Service) persistSession(ctx context.Context, session *Session) {
	record, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("failed to encode session record", "error", err)
		return
	}

	if err := s.store.Set(ctx, SessionRecordKey, record); err != nil {
		s.logger.Warn("session record write failed", "error", err)
	}
	if err := s.store.Set(ctx, SessionTokenKey, []byte(session.Token)); err != nil {
		s.logger.Warn("session token write failed", "error", err)
	}
}

func nameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "User"
	}
	return local
}
