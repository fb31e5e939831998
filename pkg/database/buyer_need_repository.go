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

// BuyerNeedRepository persists models.BuyerNeed rows.
type BuyerNeedRepository struct {
	db *sql.DB
}

// NewBuyerNeedRepository constructs a BuyerNeedRepository over the shared pool.
func NewBuyerNeedRepository(client *Client) *BuyerNeedRepository {
	return &BuyerNeedRepository{db: client.DB()}
}

// Create inserts a new buyer need.
func (r *BuyerNeedRepository) Create(ctx context.Context, b *models.BuyerNeed) error {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	if b.RadiusMiles == 0 {
		b.RadiusMiles = 25
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO buyer_needs (id, company_id, created_by, city, state, zipcode, lat, lng,
			radius_miles, min_sqft, max_sqft, use_type, needed_from, duration_months,
			max_budget_per_sqft, requirements, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		b.ID, b.CompanyID, b.CreatedBy, b.City, b.State, b.Zipcode, b.Lat, b.Lng, b.RadiusMiles,
		b.MinSqft, b.MaxSqft, b.UseType, b.NeededFrom, b.DurationMonths, b.MaxBudgetPerSqft,
		b.Requirements, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert buyer need: %w", err)
	}
	return nil
}

// Get fetches a buyer need by ID.
func (r *BuyerNeedRepository) Get(ctx context.Context, id string) (*models.BuyerNeed, error) {
	var b models.BuyerNeed
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, created_by, city, state, zipcode, lat, lng, radius_miles, min_sqft,
			max_sqft, use_type, needed_from, duration_months, max_budget_per_sqft, requirements,
			created_at, updated_at
		 FROM buyer_needs WHERE id = $1`, id,
	).Scan(&b.ID, &b.CompanyID, &b.CreatedBy, &b.City, &b.State, &b.Zipcode, &b.Lat, &b.Lng,
		&b.RadiusMiles, &b.MinSqft, &b.MaxSqft, &b.UseType, &b.NeededFrom, &b.DurationMonths,
		&b.MaxBudgetPerSqft, &b.Requirements, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("buyer_need", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get buyer need: %w", err)
	}
	return &b, nil
}
