package managers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "microblog_session"

// SessionTTL is how long an idle session record survives in the store.
const SessionTTL = 7 * 24 * time.Hour

// ErrSessionNotFound is returned when a cookie references a session that
// no longer exists in the store.
var ErrSessionNotFound = errors.New("session not found")

// Flash is a one-shot status message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the per-visitor state kept server-side. An anonymous session
// has an empty UserID.
type Session struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Flashes  []Flash `json:"flashes"`
}

// LoggedIn reports whether the session belongs to an authenticated user.
func (s *Session) LoggedIn() bool {
	return s.UserID != ""
}

// AddFlash queues a status message for the next rendered page.
func (s *Session) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns the queued messages and clears them from the session.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// SessionMgr manages cookie-backed sessions. The cookie value is a signed
// token whose subject is the session id; the session state itself lives in
// the store.
type SessionMgr interface {
	Start(ctx context.Context) (*Session, string, error)
	Load(ctx context.Context, cookieValue string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Destroy(ctx context.Context, session *Session) error
}

// SessionManager stores sessions in Redis and signs session ids with the
// JWT manager.
type SessionManager struct {
	client *redis.Client
	jwtMgr JWTMgr
	ttl    time.Duration
}

// NewSessionManager creates a SessionManager on the given Redis client.
func NewSessionManager(client *redis.Client, jwtMgr JWTMgr) SessionMgr {
	return &SessionManager{
		client: client,
		jwtMgr: jwtMgr,
		ttl:    SessionTTL,
	}
}

// Start creates a fresh anonymous session, persists it and returns the
// session together with the signed cookie value.
func (sm *SessionManager) Start(ctx context.Context) (*Session, string, error) {
	session := &Session{ID: uuid.New().String()}

	if err := sm.Save(ctx, session); err != nil {
		return nil, "", err
	}

	cookieValue, err := sm.jwtMgr.GenerateJWT(session.ID)
	if err != nil {
		return nil, "", err
	}

	return session, cookieValue, nil
}

// Load validates the cookie value and fetches the referenced session.
func (sm *SessionManager) Load(ctx context.Context, cookieValue string) (*Session, error) {
	sessionId, err := sm.jwtMgr.ValidateJWT(cookieValue)
	if err != nil {
		return nil, err
	}

	payload, err := sm.client.Get(ctx, sessionKey(sessionId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	session := &Session{}
	if err := json.Unmarshal([]byte(payload), session); err != nil {
		return nil, err
	}

	return session, nil
}

// Save persists the session state and refreshes its TTL.
func (sm *SessionManager) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return sm.client.Set(ctx, sessionKey(session.ID), payload, sm.ttl).Err()
}

// Destroy removes the session from the store. The cookie it was issued
// under is worthless afterwards.
func (sm *SessionManager) Destroy(ctx context.Context, session *Session) error {
	return sm.client.Del(ctx, sessionKey(session.ID)).Err()
}

func sessionKey(sessionId string) string {
	return "session:" + sessionId
}
