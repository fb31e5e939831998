package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// EngagementAgreementRepository persists the per-engagement dual-sign
// lease agreement.
type EngagementAgreementRepository struct {
	db *sql.DB
}

// NewEngagementAgreementRepository constructs the repository over the shared pool.
func NewEngagementAgreementRepository(client *Client) *EngagementAgreementRepository {
	return &EngagementAgreementRepository{db: client.DB()}
}

// Create inserts a new agreement in the unsigned state.
func (r *EngagementAgreementRepository) Create(ctx context.Context, tx *sql.Tx, a *models.EngagementAgreement) error {
	a.CreatedAt = time.Now().UTC()
	terms, err := json.Marshal(a.TermsSnapshot)
	if err != nil {
		return fmt.Errorf("marshal terms snapshot: %w", err)
	}
	exec := r.execer(tx)
	_, err = exec.ExecContext(ctx,
		`INSERT INTO engagement_agreements (id, engagement_id, version, buyer_rate_per_sqft,
			supplier_rate_per_sqft, terms_snapshot, buyer_signed_at, supplier_signed_at, expires_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.EngagementID, a.Version, a.BuyerRatePerSqft, a.SupplierRatePerSqft, terms,
		a.BuyerSignedAt, a.SupplierSignedAt, a.ExpiresAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert engagement agreement: %w", err)
	}
	return nil
}

// Get fetches the current agreement for an engagement.
func (r *EngagementAgreementRepository) Get(ctx context.Context, tx *sql.Tx, engagementID string) (*models.EngagementAgreement, error) {
	query := `SELECT id, engagement_id, version, buyer_rate_per_sqft, supplier_rate_per_sqft,
		terms_snapshot, buyer_signed_at, supplier_signed_at, expires_at, created_at
		FROM engagement_agreements WHERE engagement_id = $1 ORDER BY version DESC LIMIT 1`
	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, engagementID)
	} else {
		row = r.db.QueryRowContext(ctx, query, engagementID)
	}

	var a models.EngagementAgreement
	var terms []byte
	err := row.Scan(&a.ID, &a.EngagementID, &a.Version, &a.BuyerRatePerSqft, &a.SupplierRatePerSqft,
		&terms, &a.BuyerSignedAt, &a.SupplierSignedAt, &a.ExpiresAt, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("engagement_agreement", engagementID)
	}
	if err != nil {
		return nil, fmt.Errorf("get engagement agreement: %w", err)
	}
	if len(terms) > 0 {
		if err := json.Unmarshal(terms, &a.TermsSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal terms snapshot: %w", err)
		}
	}
	return &a, nil
}

// RecordSignature stamps whichever side's signature this is, idempotently
// (re-signing the same side with a later timestamp does not lose the
// earlier one — callers only call this once per side per the state
// machine's guard).
func (r *EngagementAgreementRepository) RecordSignature(ctx context.Context, tx *sql.Tx, agreementID string, buyer bool, signedAt time.Time) error {
	column := "supplier_signed_at"
	if buyer {
		column = "buyer_signed_at"
	}
	exec := r.execer(tx)
	_, err := exec.ExecContext(ctx,
		fmt.Sprintf(`UPDATE engagement_agreements SET %s = COALESCE(%s, $1) WHERE id = $2`, column, column),
		signedAt, agreementID,
	)
	if err != nil {
		return fmt.Errorf("record signature: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *EngagementAgreementRepository) execer(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}
