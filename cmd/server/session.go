package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/steadfast/idlerest/internal/ledger"
)

const (
	sessionCookieName = "idler_session"
	sessionTTL        = 12 * time.Hour
)

type session struct {
	ledger   *ledger.Ledger
	lastSeen time.Time
}

// sessionStore maps signed session cookies to the ledger of each browser
// session. Ledgers live in memory; a session idle for longer than ttl is
// dropped on the next access to the store.
type sessionStore struct {
	sessionSecret []byte
	ttl           time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionStore(sessionSecret string) *sessionStore {
	if sessionSecret == "" {
		// Cookies from a previous process cannot be honoured anyway.
		sessionSecret = uuid.NewString()
	}
	return &sessionStore{
		sessionSecret: []byte(sessionSecret),
		ttl:           sessionTTL,
		now:           time.Now,
		sessions:      make(map[uuid.UUID]*session),
	}
}

// lookup returns the ledger of the request's session, if it has one, and
// marks the session as seen.
func (s *sessionStore) lookup(r *http.Request) (*ledger.Ledger, bool) {
	id, ok := s.sessionID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	if !ok {
		return nil, false
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = now
	return sess.ledger, true
}

// save binds l to the request's session, starting a session when the request
// carries no valid cookie, and refreshes the cookie. If the session already
// holds another ledger, the records of l are moved into it. The returned
// ledger is the one the session keeps.
func (s *sessionStore) save(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) *ledger.Ledger {
	id, ok := s.sessionID(r)
	if !ok {
		id = uuid.New()
	}

	s.mu.Lock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{ledger: l}
		s.sessions[id] = sess
	} else if sess.ledger != l {
		for _, rec := range l.List() {
			sess.ledger.Append(rec)
		}
	}
	sess.lastSeen = now
	kept := sess.ledger
	s.mu.Unlock()

	s.setSessionCookie(w, id)
	return kept
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) sessionID(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return uuid.Nil, false
	}
	return s.verifySessionValue(cookie.Value)
}

func (s *sessionStore) createSessionValue(id uuid.UUID) string {
	payload := id.String()
	mac := hmac.New(sha256.New, s.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (s *sessionStore) verifySessionValue(value string) (uuid.UUID, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return uuid.Nil, false
	}

	payload := parts[0]
	signature := parts[1]

	mac := hmac.New(sha256.New, s.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return uuid.Nil, false
	}
	if !hmac.Equal(provided, expected) {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(payload)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}

func (s *sessionStore) setSessionCookie(w http.ResponseWriter, id uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.createSessionValue(id),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
