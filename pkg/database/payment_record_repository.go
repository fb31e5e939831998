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

// PaymentRecordRepository persists models.PaymentRecord rows. The unique
// (engagement_id, period_start) constraint on the underlying table is the
// idempotency key the payment_generation scheduler job relies on (§4.4).
type PaymentRecordRepository struct {
	db *sql.DB
}

// NewPaymentRecordRepository constructs the repository over the shared pool.
func NewPaymentRecordRepository(client *Client) *PaymentRecordRepository {
	return &PaymentRecordRepository{db: client.DB()}
}

// CreateIfAbsent inserts a payment record unless one already exists for
// (EngagementID, PeriodStart). The ON CONFLICT DO NOTHING clause makes
// this idempotent at the database layer regardless of driver-specific
// error types, which is simpler and more portable than inspecting a
// SQLSTATE code.
func (r *PaymentRecordRepository) CreateIfAbsent(ctx context.Context, p *models.PaymentRecord) (created bool, err error) {
	p.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_records (id, engagement_id, period_start, period_end, buyer_amount,
			supplier_amount, wex_amount, buyer_status, supplier_status, due_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (engagement_id, period_start) DO NOTHING`,
		p.ID, p.EngagementID, p.PeriodStart, p.PeriodEnd, p.BuyerAmount, p.SupplierAmount,
		p.WexAmount, p.BuyerStatus, p.SupplierStatus, p.DueAt, p.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert payment record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// GetByPeriod fetches the payment record for an engagement's billing period.
func (r *PaymentRecordRepository) GetByPeriod(ctx context.Context, engagementID string, periodStart time.Time) (*models.PaymentRecord, error) {
	var p models.PaymentRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, engagement_id, period_start, period_end, buyer_amount, supplier_amount,
			wex_amount, buyer_status, supplier_status, due_at, created_at
		 FROM payment_records WHERE engagement_id = $1 AND period_start = $2`,
		engagementID, periodStart,
	).Scan(&p.ID, &p.EngagementID, &p.PeriodStart, &p.PeriodEnd, &p.BuyerAmount, &p.SupplierAmount,
		&p.WexAmount, &p.BuyerStatus, &p.SupplierStatus, &p.DueAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("payment_record", fmt.Sprintf("%s@%s", engagementID, periodStart))
	}
	if err != nil {
		return nil, fmt.Errorf("get payment record: %w", err)
	}
	return &p, nil
}

// UpdateLegStatus sets either the buyer or supplier settlement leg.
func (r *PaymentRecordRepository) UpdateLegStatus(ctx context.Context, id string, buyer bool, status models.PaymentLegStatus) error {
	column := "supplier_status"
	if buyer {
		column = "buyer_status"
	}
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`UPDATE payment_records SET %s = $1 WHERE id = $2`, column), status, id)
	if err != nil {
		return fmt.Errorf("update payment leg status: %w", err)
	}
	return nil
}

// ListDueForReminder returns payment records still unpaid with a due_at on
// or before cutoff, for the payment_reminders job.
func (r *PaymentRecordRepository) ListDueForReminder(ctx context.Context, cutoff time.Time) ([]*models.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, engagement_id, period_start, period_end, buyer_amount, supplier_amount,
			wex_amount, buyer_status, supplier_status, due_at, created_at
		 FROM payment_records
		 WHERE due_at <= $1 AND (buyer_status != $2 OR supplier_status != $2)`,
		cutoff, models.PaymentLegPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("list due payment records: %w", err)
	}
	defer rows.Close()

	var out []*models.PaymentRecord
	for rows.Next() {
		var p models.PaymentRecord
		if err := rows.Scan(&p.ID, &p.EngagementID, &p.PeriodStart, &p.PeriodEnd, &p.BuyerAmount,
			&p.SupplierAmount, &p.WexAmount, &p.BuyerStatus, &p.SupplierStatus, &p.DueAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
