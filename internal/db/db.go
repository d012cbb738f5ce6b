package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

//go:embed schema/*.sql
var schemas embed.FS

// Open opens the database for driver. For SQLite the dsn is a file path
// whose parent directory is created on demand.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case SQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
		conn, err := sql.Open(SQLite, fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", dsn))
		if err != nil {
			return nil, err
		}
		// SQLite works best with 1 writer
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
		return conn, nil
	case Postgres:
		conn, err := sql.Open(Postgres, dsn)
		if err != nil {
			return nil, err
		}
		conn.SetConnMaxLifetime(30 * time.Minute)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate runs the embedded schema for driver. Every statement is
// idempotent so it is safe on each startup.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	b, err := schemas.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	for _, stmt := range strings.Split(string(b), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Rebind rewrites ? placeholders into the $n form Postgres expects. Queries
// for other drivers are returned unchanged.
func Rebind(driver, query string) string {
	if driver != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WithTimeout gives a context with reasonable timeout for DB ops.
func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}
