package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"inspire-bytes/internal/core"
)

// Common errors
var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// UserModel handles database operations for users
type UserModel struct {
	db *core.Database
}

// NewUserModel creates a new user model
func NewUserModel(db *core.Database) *UserModel {
	return &UserModel{db: db}
}

// InsertWithRole creates a user. When firstIsAdmin is set, the role is decided inside the
// transaction: the first account ever created becomes admin, every later one a plain user.
func (m *UserModel) InsertWithRole(ctx context.Context, user *User, firstIsAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if firstIsAdmin {
			var count int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
				return err
			}
			user.Role = RoleUser
			if count == 0 {
				user.Role = RoleAdmin
			}
		}

		query := `
			INSERT INTO users (username, nickname, role, password_hash)
			VALUES (?, ?, ?, ?)
			RETURNING id, created_at
		`
		err := tx.QueryRowContext(ctx, query, user.Username, user.Nickname, user.Role.String(), user.Password.hash).
			Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
				return ErrDuplicateUsername
			}
			return err
		}
		return nil
	})
}

// GetByUsername retrieves a user by username
func (m *UserModel) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, created_at, username, nickname, role, password_hash
		FROM users
		WHERE username = ?
	`
	return m.getOne(ctx, query, username)
}

// GetByID retrieves a user by id
func (m *UserModel) GetByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, created_at, username, nickname, role, password_hash
		FROM users
		WHERE id = ?
	`
	return m.getOne(ctx, query, id)
}

func (m *UserModel) getOne(ctx context.Context, query string, arg any) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var user User
	var role string
	err := m.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Username,
		&user.Nickname,
		&role,
		&user.Password.hash,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	user.Role = ParseRole(role)
	return &user, nil
}

// List returns every user ordered by id
func (m *UserModel) List(ctx context.Context) ([]*User, error) {
	query := `SELECT id, created_at, username, nickname, role FROM users ORDER BY id`

	rows, cancel, err := m.db.QueryWithTimeout(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var user User
		var role string
		if err := rows.Scan(&user.ID, &user.CreatedAt, &user.Username, &user.Nickname, &role); err != nil {
			return nil, err
		}
		user.Role = ParseRole(role)
		users = append(users, &user)
	}

	return users, rows.Err()
}
