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

// MatchRepository persists models.Match rows, the output of the Clear
// operation, plus the InstantBookScore row computed alongside each one.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository constructs a MatchRepository over the shared pool.
func NewMatchRepository(client *Client) *MatchRepository {
	return &MatchRepository{db: client.DB()}
}

// Create inserts a scored match.
func (r *MatchRepository) Create(ctx context.Context, m *models.Match) error {
	m.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (id, buyer_need_id, warehouse_id, status, match_score, location_score,
			size_score, use_type_score, feature_score, timing_score, budget_score, reasoning,
			instant_book_eligible, within_budget, buyer_rate_per_sqft, supplier_rate_per_sqft,
			distance_miles, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		m.ID, m.BuyerNeedID, m.WarehouseID, m.Status, m.MatchScore, m.LocationScore, m.SizeScore,
		m.UseTypeScore, m.FeatureScore, m.TimingScore, m.BudgetScore, m.Reasoning,
		m.InstantBookEligible, m.WithinBudget, m.BuyerRatePerSqft, m.SupplierRatePerSqft,
		m.DistanceMiles, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

// Get fetches a match by ID.
func (r *MatchRepository) Get(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_need_id, warehouse_id, status, match_score, location_score, size_score,
			use_type_score, feature_score, timing_score, budget_score, reasoning,
			instant_book_eligible, within_budget, buyer_rate_per_sqft, supplier_rate_per_sqft,
			distance_miles, created_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.BuyerNeedID, &m.WarehouseID, &m.Status, &m.MatchScore, &m.LocationScore,
		&m.SizeScore, &m.UseTypeScore, &m.FeatureScore, &m.TimingScore, &m.BudgetScore, &m.Reasoning,
		&m.InstantBookEligible, &m.WithinBudget, &m.BuyerRatePerSqft, &m.SupplierRatePerSqft,
		&m.DistanceMiles, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("match", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	return &m, nil
}

// ListByBuyerNeed returns every match for a buyer need, highest score first.
func (r *MatchRepository) ListByBuyerNeed(ctx context.Context, buyerNeedID string) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_need_id, warehouse_id, status, match_score, location_score, size_score,
			use_type_score, feature_score, timing_score, budget_score, reasoning,
			instant_book_eligible, within_budget, buyer_rate_per_sqft, supplier_rate_per_sqft,
			distance_miles, created_at
		 FROM matches WHERE buyer_need_id = $1 ORDER BY match_score DESC`, buyerNeedID,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.BuyerNeedID, &m.WarehouseID, &m.Status, &m.MatchScore,
			&m.LocationScore, &m.SizeScore, &m.UseTypeScore, &m.FeatureScore, &m.TimingScore,
			&m.BudgetScore, &m.Reasoning, &m.InstantBookEligible, &m.WithinBudget,
			&m.BuyerRatePerSqft, &m.SupplierRatePerSqft, &m.DistanceMiles, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a match's disposition.
func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apierr.NewNotFound("match", id)
	}
	return nil
}

// CreateInstantBookScore inserts the 5-factor subscore row for a match.
func (r *MatchRepository) CreateInstantBookScore(ctx context.Context, s *models.InstantBookScore) error {
	s.ComputedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instant_book_scores (match_id, truth_core_completeness, contextual_memory_depth,
			supplier_trust_level, match_specificity, feature_alignment, computed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.MatchID, s.TruthCoreCompleteness, s.ContextualMemoryDepth, s.SupplierTrustLevel,
		s.MatchSpecificity, s.FeatureAlignment, s.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("insert instant book score: %w", err)
	}
	return nil
}
