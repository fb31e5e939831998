package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// MarketRateCacheRepository persists the 30-day NNN rate-range cache keyed
// by (zipcode, use_type).
type MarketRateCacheRepository struct {
	db *sql.DB
}

// NewMarketRateCacheRepository constructs the repository over the shared pool.
func NewMarketRateCacheRepository(client *Client) *MarketRateCacheRepository {
	return &MarketRateCacheRepository{db: client.DB()}
}

// Upsert writes or refreshes the cached rate range.
func (r *MarketRateCacheRepository) Upsert(ctx context.Context, m *models.MarketRateCache) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO market_rate_cache (zipcode, use_type, rate_low, rate_high, sample_size, computed_at, expires_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (zipcode, use_type) DO UPDATE SET
			rate_low = EXCLUDED.rate_low, rate_high = EXCLUDED.rate_high,
			sample_size = EXCLUDED.sample_size, computed_at = EXCLUDED.computed_at,
			expires_at = EXCLUDED.expires_at`,
		m.Zipcode, m.UseType, m.RateLow, m.RateHigh, m.SampleSize, m.ComputedAt, m.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert market rate cache: %w", err)
	}
	return nil
}

// Get fetches the cached rate range for (zipcode, useType), whether or
// not it has expired — callers check IsExpired themselves.
func (r *MarketRateCacheRepository) Get(ctx context.Context, zipcode string, useType models.UseType) (*models.MarketRateCache, error) {
	var m models.MarketRateCache
	err := r.db.QueryRowContext(ctx,
		`SELECT zipcode, use_type, rate_low, rate_high, sample_size, computed_at, expires_at
		 FROM market_rate_cache WHERE zipcode = $1 AND use_type = $2`, zipcode, useType,
	).Scan(&m.Zipcode, &m.UseType, &m.RateLow, &m.RateHigh, &m.SampleSize, &m.ComputedAt, &m.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("market_rate_cache", zipcode+"/"+string(useType))
	}
	if err != nil {
		return nil, fmt.Errorf("get market rate cache: %w", err)
	}
	return &m, nil
}
