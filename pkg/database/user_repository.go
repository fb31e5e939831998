package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// UserRepository persists models.User rows.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a UserRepository over the shared pool.
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{db: client.DB()}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, company_id, email, password_hash, role, is_platform_admin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.CompanyID, u.Email, u.PasswordHash, u.Role, u.IsPlatformAdmin, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Get fetches a user by ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT id, company_id, email, password_hash, role, is_platform_admin, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

// GetByEmail fetches a user by its unique email, used at login.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT id, company_id, email, password_hash, role, is_platform_admin, created_at, updated_at
		FROM users WHERE email = $1`, email)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.Role, &u.IsPlatformAdmin, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("user", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
