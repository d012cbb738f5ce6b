package session

// SQLStore keeps sessions in the sessions table created by db.Migrate. Each
// row holds the JSON encoded session plus unix timestamps so expired rows
// can be filtered and swept without decoding them.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cms/internal/db"
)

type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewSQLStore returns a store over conn. driver is the name conn was opened
// with and decides the placeholder style.
func NewSQLStore(conn *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: conn, driver: driver, now: time.Now}
}

func (s *SQLStore) q(query string) string {
	return db.Rebind(s.driver, query)
}

func (s *SQLStore) Load(ctx context.Context, id string) (*Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT data FROM sessions WHERE id = ? AND expires_at > ?`),
		id, s.now().Unix(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	sess, err := decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	sess.ID = id
	return sess, nil
}

func (s *SQLStore) Save(ctx context.Context, sess *Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO sessions(id, data, created_at, expires_at) VALUES(?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`), sess.ID, string(data), sess.CreatedAt.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteExpired removes every row whose expiry has passed and reports how
// many went.
func (s *SQLStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM sessions WHERE expires_at <= ?`), s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
