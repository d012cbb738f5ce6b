package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"cms/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicate          = errors.New("email or username already taken")
)

// HashPassword hashes with bcrypt cost 12.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), 12)
}

func CheckPassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}

type User struct {
	ID       int64
	Email    string
	Username string
}

// Users reads and writes the users table.
type Users struct {
	db     *sql.DB
	driver string
}

func NewUsers(conn *sql.DB, driver string) *Users {
	return &Users{db: conn, driver: driver}
}

// Create inserts a user and returns its ID.
func (u *Users) Create(ctx context.Context, email, username string, passwordHash []byte) (int64, error) {
	var id int64
	err := u.db.QueryRowContext(ctx,
		db.Rebind(u.driver, "INSERT INTO users(email, username, password_hash) VALUES(?,?,?) RETURNING id"),
		email, username, string(passwordHash),
	).Scan(&id)
	if err != nil {
		if isUniqueErr(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*User, []byte, error) {
	row := u.db.QueryRowContext(ctx,
		db.Rebind(u.driver, "SELECT id, email, username, password_hash FROM users WHERE email = ?"), email)
	var usr User
	var ph string
	if err := row.Scan(&usr.ID, &usr.Email, &usr.Username, &ph); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	return &usr, []byte(ph), nil
}

// Authenticate returns the user when the password matches. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials.
func (u *Users) Authenticate(ctx context.Context, email, password string) (*User, error) {
	usr, hash, err := u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if CheckPassword(hash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	return usr, nil
}

// isUniqueErr looks for the SQLite or Postgres unique constraint message.
func isUniqueErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
