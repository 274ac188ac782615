package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/talentdesk/intake-api/internal/models"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

// UserRepository handles reviewer account persistence.
type UserRepository struct {
	conn Conn
}

// NewUserRepository constructs the repository.
func NewUserRepository(conn Conn) *UserRepository {
	return &UserRepository{conn: conn}
}

// FindByEmail fetches an account by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
	FROM users WHERE email = $1`
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return nil, classifyStoreError(err)
	}
	var user models.User
	if err := db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, classifyStoreError(err)
	}
	return &user, nil
}

// FindByID fetches an account by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
	FROM users WHERE id = $1`
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return nil, classifyStoreError(err)
	}
	var user models.User
	if err := db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, classifyStoreError(err)
	}
	return &user, nil
}

// UpdateLastLogin records the most recent successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`
	db, err := r.conn.EnsureConnected()
	if err != nil {
		return classifyStoreError(err)
	}
	if _, err := db.ExecContext(ctx, query, id, ts); err != nil {
		return classifyStoreError(err)
	}
	return nil
}
