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

// CompanyRepository persists models.Company rows.
type CompanyRepository struct {
	db *sql.DB
}

// NewCompanyRepository constructs a CompanyRepository over the shared pool.
func NewCompanyRepository(client *Client) *CompanyRepository {
	return &CompanyRepository{db: client.DB()}
}

// Create inserts a new company.
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// Get fetches a company by ID.
func (r *CompanyRepository) Get(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("company", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}
