package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const userIDKey = "uid"

type SessionConfig struct {
	Secret     string
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// Sessions keeps the signed-in user id in a signed, HTTP-only cookie.
type Sessions struct {
	store *sessions.CookieStore
	name  string
}

func NewSessions(cfg SessionConfig) *Sessions {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	name := cfg.CookieName
	if name == "" {
		name = "parish_session"
	}
	return &Sessions{store: store, name: name}
}

// Login writes a fresh session for userID.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	// A cookie signed with an old secret yields a usable empty session.
	session, _ := s.store.Get(r, s.name)
	session.Values[userIDKey] = userID.String()
	return session.Save(r, w)
}

// Logout expires the cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, s.name)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID returns the user stored in the request's session cookie.
func (s *Sessions) UserID(r *http.Request) (uuid.UUID, bool) {
	session, err := s.store.Get(r, s.name)
	if err != nil {
		return uuid.Nil, false
	}
	raw, ok := session.Values[userIDKey].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
