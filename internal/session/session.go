package session

// This file defines the session record itself. A session belongs to one
// browser and holds a bag of named attributes. Values are kept JSON encoded
// so every backend can persist a session as a single blob and callers can
// decode attributes into their own types.

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// UserKey is the attribute holding the authenticated principal. A session
// without it is anonymous.
const UserKey = "user"

// Session is one client's server-side state.
type Session struct {
	ID        string                     `json:"id"`
	Values    map[string]json.RawMessage `json:"values"`
	CreatedAt time.Time                  `json:"created_at"`
	ExpiresAt time.Time                  `json:"expires_at"`
}

// User is the value stored under UserKey after a successful login.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// New returns an empty session with a fresh random ID that expires after ttl.
func New(ttl time.Duration) *Session {
	return NewWithID(uuid.NewString(), ttl)
}

// NewWithID is like New but keeps an ID the client already holds.
func NewWithID(id string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Values:    map[string]json.RawMessage{},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Set stores v under key, replacing any previous value.
func (s *Session) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if s.Values == nil {
		s.Values = map[string]json.RawMessage{}
	}
	s.Values[key] = b
	return nil
}

// Get decodes the value under key into dst. The boolean reports whether the
// key was present; dst is untouched when it was not.
func (s *Session) Get(key string, dst any) (bool, error) {
	raw, ok := s.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Session) Has(key string) bool {
	_, ok := s.Values[key]
	return ok
}

// Delete removes key. Removing a missing key is a no-op.
func (s *Session) Delete(key string) {
	delete(s.Values, key)
}

// Keys returns the attribute names in sorted order.
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// User returns the authenticated principal, if any.
func (s *Session) User() (*User, bool) {
	var u User
	ok, err := s.Get(UserKey, &u)
	if !ok || err != nil {
		return nil, false
	}
	return &u, true
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Clone returns a deep copy so stores never share maps with callers.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = make(map[string]json.RawMessage, len(s.Values))
	for k, v := range s.Values {
		c.Values[k] = append(json.RawMessage(nil), v...)
	}
	return &c
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Values == nil {
		s.Values = map[string]json.RawMessage{}
	}
	return &s, nil
}
