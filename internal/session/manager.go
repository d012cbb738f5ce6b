package session

// The Manager ties sessions to HTTP requests. Sessions are referenced by an
// HttpOnly cookie scoped to the root path; the record itself lives in a
// Store so that it persists across restarts and can be revoked.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const idKey ctxKey = 1

// Options configure a Manager.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type Manager struct {
	store Store
	opts  Options
	now   func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts, now: time.Now}
}

// Store returns the backend the manager persists to.
func (m *Manager) Store() Store {
	return m.store
}

// EditOption adjusts how Edit persists a session.
type EditOption func(*editConfig)

type editConfig struct {
	ttl   time.Duration
	renew bool
}

// WithTTL makes the session expire ttl from now instead of keeping its
// current expiry.
func WithTTL(ttl time.Duration) EditOption {
	return func(c *editConfig) { c.ttl = ttl }
}

// Renew pushes the expiry forward by the manager's configured TTL.
func Renew() EditOption {
	return func(c *editConfig) { c.renew = true }
}

// Middleware makes sure every request carries a session cookie and records
// the session ID on the request context. The record itself is loaded lazily
// by Get.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.cookieID(r)
		if !ok {
			id = uuid.NewString()
			m.setCookie(w, id, m.now().Add(m.opts.TTL))
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), idKey, id)))
	})
}

// ID returns the session ID associated with r, if any.
func (m *Manager) ID(r *http.Request) (string, bool) {
	if id, ok := r.Context().Value(idKey).(string); ok && id != "" {
		return id, true
	}
	return m.cookieID(r)
}

// Get resolves the session for r. A client whose ID has no stored record
// gets a fresh, empty session carrying that ID. Store failures are returned
// to the caller.
func (m *Manager) Get(r *http.Request) (*Session, error) {
	id, ok := m.ID(r)
	if !ok {
		return New(m.opts.TTL), nil
	}

	sess, err := m.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NewWithID(id, m.opts.TTL), nil
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// Edit persists sess and returns once the store has acknowledged the write.
// Without options the session keeps its current expiry.
func (m *Manager) Edit(r *http.Request, sess *Session, opts ...EditOption) error {
	var cfg editConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	now := m.now().UTC()
	switch {
	case cfg.ttl > 0:
		sess.ExpiresAt = now.Add(cfg.ttl)
	case cfg.renew:
		sess.ExpiresAt = now.Add(m.opts.TTL)
	}

	if err := m.store.Save(r.Context(), sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Destroy deletes the session record and expires the browser cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	if id, ok := m.ID(r); ok {
		if err := m.store.Delete(r.Context(), id); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// cookieID returns the ID from the session cookie. Values that are not
// UUIDs are ignored so clients cannot pick arbitrary store keys.
func (m *Manager) cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) setCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
