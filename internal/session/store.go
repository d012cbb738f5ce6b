package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Load when no live session has the ID.
var ErrNotFound = errors.New("session not found")

// ErrStoreUnavailable wraps transport failures talking to a backend.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store persists sessions keyed by ID. Implementations must be safe for
// concurrent use. Concurrent saves of the same ID are last-write-wins.
type Store interface {
	// Load returns the session or ErrNotFound if it is missing or expired.
	Load(ctx context.Context, id string) (*Session, error)
	// Save inserts or replaces the session. It returns once the write is
	// acknowledged by the backend.
	Save(ctx context.Context, sess *Session) error
	// Delete removes the session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Sweeper is implemented by stores that need expired records removed
// periodically. Redis expires keys on its own and does not implement it.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}
