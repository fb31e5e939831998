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

// DLATokenRepository persists models.DLAToken rows — the opaque 48-hour
// demand-led-activation invites (§4.1.2).
type DLATokenRepository struct {
	db *sql.DB
}

// NewDLATokenRepository constructs the repository over the shared pool.
func NewDLATokenRepository(client *Client) *DLATokenRepository {
	return &DLATokenRepository{db: client.DB()}
}

// Create inserts a new token.
func (r *DLATokenRepository) Create(ctx context.Context, t *models.DLAToken) error {
	t.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dla_tokens (token, warehouse_id, buyer_need_id, status, suggested_rate_per_sqft,
			confirmed_rate_per_sqft, expires_at, confirmed_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.Token, t.WarehouseID, t.BuyerNeedID, t.Status, t.SuggestedRatePerSqft,
		t.ConfirmedRatePerSqft, t.ExpiresAt, t.ConfirmedAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dla token: %w", err)
	}
	return nil
}

// Get fetches a token by its value.
func (r *DLATokenRepository) Get(ctx context.Context, token string) (*models.DLAToken, error) {
	var t models.DLAToken
	err := r.db.QueryRowContext(ctx,
		`SELECT token, warehouse_id, buyer_need_id, status, suggested_rate_per_sqft,
			confirmed_rate_per_sqft, expires_at, confirmed_at, created_at
		 FROM dla_tokens WHERE token = $1`, token,
	).Scan(&t.Token, &t.WarehouseID, &t.BuyerNeedID, &t.Status, &t.SuggestedRatePerSqft,
		&t.ConfirmedRatePerSqft, &t.ExpiresAt, &t.ConfirmedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("dla_token", token)
	}
	if err != nil {
		return nil, fmt.Errorf("get dla token: %w", err)
	}
	return &t, nil
}

// UpdateStatus transitions a token's status.
func (r *DLATokenRepository) UpdateStatus(ctx context.Context, token string, status models.DLATokenStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dla_tokens SET status = $1 WHERE token = $2`, status, token)
	if err != nil {
		return fmt.Errorf("update dla token status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apierr.NewNotFound("dla_token", token)
	}
	return nil
}

// ConfirmRate records the supplier's confirmed rate and advances status
// to rate_decided.
func (r *DLATokenRepository) ConfirmRate(ctx context.Context, token string, rate float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dla_tokens SET status = $1, confirmed_rate_per_sqft = $2 WHERE token = $3`,
		models.DLATokenRateDecided, rate, token,
	)
	if err != nil {
		return fmt.Errorf("confirm dla rate: %w", err)
	}
	return nil
}

// Activate marks a token confirmed at the given time.
func (r *DLATokenRepository) Activate(ctx context.Context, token string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dla_tokens SET status = $1, confirmed_at = $2 WHERE token = $3`,
		models.DLATokenConfirmed, at, token,
	)
	if err != nil {
		return fmt.Errorf("activate dla token: %w", err)
	}
	return nil
}

// CountOutreachesForBuyerNeed counts every token ever issued for a buyer
// need, enforcing the 5-outreach cap (§4.1.2).
func (r *DLATokenRepository) CountOutreachesForBuyerNeed(ctx context.Context, buyerNeedID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dla_tokens WHERE buyer_need_id = $1`, buyerNeedID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count dla outreaches: %w", err)
	}
	return n, nil
}

// ExistsActiveForPair reports whether a pending or interested token
// already exists for (warehouseID, buyerNeedID) — the dedupe rule in §4.1.2.
func (r *DLATokenRepository) ExistsActiveForPair(ctx context.Context, warehouseID, buyerNeedID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM dla_tokens
			WHERE warehouse_id = $1 AND buyer_need_id = $2 AND status IN ($3, $4))`,
		warehouseID, buyerNeedID, models.DLATokenPending, models.DLATokenInterested,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active dla token: %w", err)
	}
	return exists, nil
}

// ListExpiring returns every unresolved token past its TTL, for the
// scheduler's DLA-expiry sweep.
func (r *DLATokenRepository) ListExpiring(ctx context.Context, now time.Time) ([]*models.DLAToken, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT token, warehouse_id, buyer_need_id, status, suggested_rate_per_sqft,
			confirmed_rate_per_sqft, expires_at, confirmed_at, created_at
		 FROM dla_tokens
		 WHERE status IN ($1, $2, $3) AND expires_at < $4`,
		models.DLATokenPending, models.DLATokenInterested, models.DLATokenRateDecided, now,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring dla tokens: %w", err)
	}
	defer rows.Close()

	var out []*models.DLAToken
	for rows.Next() {
		var t models.DLAToken
		if err := rows.Scan(&t.Token, &t.WarehouseID, &t.BuyerNeedID, &t.Status, &t.SuggestedRatePerSqft,
			&t.ConfirmedRatePerSqft, &t.ExpiresAt, &t.ConfirmedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dla token: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
