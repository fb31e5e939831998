package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// EngagementRepository persists models.Engagement rows and their audit
// trail. Every state mutation goes through Transition, which writes the
// engagement row and its EngagementEvent in one transaction — the atomic
// pairing spec.md §4.2 requires.
type EngagementRepository struct {
	db *sql.DB
}

// NewEngagementRepository constructs an EngagementRepository over the shared pool.
func NewEngagementRepository(client *Client) *EngagementRepository {
	return &EngagementRepository{db: client.DB()}
}

// Create inserts a new engagement in its initial "matched" state.
func (r *EngagementRepository) Create(ctx context.Context, e *models.Engagement) error {
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO engagements (id, match_id, buyer_need_id, warehouse_id, status, path,
			tour_reschedule_count, admin_flagged, supplier_rate_per_sqft, buyer_rate_per_sqft,
			insurance_uploaded, company_docs_uploaded, payment_method_added, decline_reason,
			cancel_reason, version, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		e.ID, e.MatchID, e.BuyerNeedID, e.WarehouseID, e.Status, string(e.Path), e.TourRescheduleCount,
		e.AdminFlagged, e.SupplierRatePerSqft, e.BuyerRatePerSqft, e.InsuranceUploaded,
		e.CompanyDocsUploaded, e.PaymentMethodAdded, e.DeclineReason, e.CancelReason, e.Version,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert engagement: %w", err)
	}
	return nil
}

// Get fetches an engagement by ID, locking the row FOR UPDATE when tx is
// non-nil — the single-writer-per-engagement guard the state machine
// relies on (§5 Concurrency).
func (r *EngagementRepository) Get(ctx context.Context, tx *sql.Tx, id string) (*models.Engagement, error) {
	query := `SELECT id, match_id, buyer_need_id, warehouse_id, status, path, tour_reschedule_count,
		admin_flagged, supplier_rate_per_sqft, buyer_rate_per_sqft, insurance_uploaded,
		company_docs_uploaded, payment_method_added, decline_reason, cancel_reason,
		deal_ping_sent_at, deal_ping_expires_at, tour_requested_at, tour_confirmed_at,
		tour_completed_at, guarantee_signed_at, address_revealed_at, agreement_sent_at,
		agreement_signed_at, lease_start_date, lease_end_date, version, created_at, updated_at
		FROM engagements WHERE id = $1`
	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query+" FOR UPDATE", id)
	} else {
		row = r.db.QueryRowContext(ctx, query, id)
	}

	var e models.Engagement
	var path sql.NullString
	err := row.Scan(&e.ID, &e.MatchID, &e.BuyerNeedID, &e.WarehouseID, &e.Status, &path,
		&e.TourRescheduleCount, &e.AdminFlagged, &e.SupplierRatePerSqft, &e.BuyerRatePerSqft,
		&e.InsuranceUploaded, &e.CompanyDocsUploaded, &e.PaymentMethodAdded, &e.DeclineReason,
		&e.CancelReason, &e.DealPingSentAt, &e.DealPingExpiresAt, &e.TourRequestedAt,
		&e.TourConfirmedAt, &e.TourCompletedAt, &e.GuaranteeSignedAt, &e.AddressRevealedAt,
		&e.AgreementSentAt, &e.AgreementSignedAt, &e.LeaseStartDate, &e.LeaseEndDate, &e.Version,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("engagement", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get engagement: %w", err)
	}
	e.Path = models.EngagementPath(path.String)
	return &e, nil
}

// BeginTx starts the transaction a single Transition call runs inside.
func (r *EngagementRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// Save writes back every mutable field of e and bumps Version, failing
// with ErrDatabaseConflict if the row's version moved since it was read
// (optimistic concurrency, belt-and-suspenders alongside the FOR UPDATE
// lock taken in Get).
func (r *EngagementRepository) Save(ctx context.Context, tx *sql.Tx, e *models.Engagement) error {
	expectedVersion := e.Version
	e.Version++
	e.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE engagements SET status = $1, path = $2, tour_reschedule_count = $3, admin_flagged = $4,
			supplier_rate_per_sqft = $5, buyer_rate_per_sqft = $6, insurance_uploaded = $7,
			company_docs_uploaded = $8, payment_method_added = $9, decline_reason = $10,
			cancel_reason = $11, deal_ping_sent_at = $12, deal_ping_expires_at = $13,
			tour_requested_at = $14, tour_confirmed_at = $15, tour_completed_at = $16,
			guarantee_signed_at = $17, address_revealed_at = $18, agreement_sent_at = $19,
			agreement_signed_at = $20, lease_start_date = $21, lease_end_date = $22,
			version = $23, updated_at = $24
		 WHERE id = $25 AND version = $26`,
		e.Status, string(e.Path), e.TourRescheduleCount, e.AdminFlagged, e.SupplierRatePerSqft,
		e.BuyerRatePerSqft, e.InsuranceUploaded, e.CompanyDocsUploaded, e.PaymentMethodAdded,
		e.DeclineReason, e.CancelReason, e.DealPingSentAt, e.DealPingExpiresAt, e.TourRequestedAt,
		e.TourConfirmedAt, e.TourCompletedAt, e.GuaranteeSignedAt, e.AddressRevealedAt,
		e.AgreementSentAt, e.AgreementSignedAt, e.LeaseStartDate, e.LeaseEndDate, e.Version,
		e.UpdatedAt, e.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update engagement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apierr.NewDatabaseConflict(fmt.Sprintf("engagement %s version mismatch (expected %d)", e.ID, expectedVersion))
	}
	return nil
}

// AppendEvent writes one EngagementEvent row inside tx.
func (r *EngagementRepository) AppendEvent(ctx context.Context, tx *sql.Tx, ev *models.EngagementEvent) error {
	ev.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO engagement_events (id, engagement_id, event_type, from_status, to_status, actor,
			actor_id, data, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		ev.ID, ev.EngagementID, ev.EventType, string(ev.FromStatus), string(ev.ToStatus), ev.Actor,
		ev.ActorID, data, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert engagement event: %w", err)
	}
	return nil
}

// ExistsEventOnDay reports whether an event of eventType already exists
// for engagementID on the UTC calendar day of at — the idempotency check
// the scheduler's reminder jobs use to avoid double-sending (§4.4).
func (r *EngagementRepository) ExistsEventOnDay(ctx context.Context, engagementID string, eventType models.EngagementEventType, at time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM engagement_events
			WHERE engagement_id = $1 AND event_type = $2 AND created_at::date = $3::date)`,
		engagementID, eventType, at.UTC(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return exists, nil
}

// ListEvents returns every EngagementEvent for engagementID, oldest first —
// the audit trail behind GET /api/engagements/{id}/timeline.
func (r *EngagementRepository) ListEvents(ctx context.Context, engagementID string) ([]*models.EngagementEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, engagement_id, event_type, from_status, to_status, actor, actor_id, data, created_at
		 FROM engagement_events WHERE engagement_id = $1 ORDER BY created_at ASC`, engagementID,
	)
	if err != nil {
		return nil, fmt.Errorf("list engagement events: %w", err)
	}
	defer rows.Close()

	var out []*models.EngagementEvent
	for rows.Next() {
		var ev models.EngagementEvent
		var data []byte
		if err := rows.Scan(&ev.ID, &ev.EngagementID, &ev.EventType, &ev.FromStatus, &ev.ToStatus,
			&ev.Actor, &ev.ActorID, &data, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan engagement event: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &ev.Data); err != nil {
				return nil, fmt.Errorf("unmarshal event data: %w", err)
			}
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}

// ListByStatus returns every engagement currently in one of the given
// statuses, for the scheduler's deadline/reminder sweeps.
func (r *EngagementRepository) ListByStatus(ctx context.Context, statuses ...models.EngagementState) ([]*models.Engagement, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := `SELECT id, match_id, buyer_need_id, warehouse_id, status, path, tour_reschedule_count,
		admin_flagged, supplier_rate_per_sqft, buyer_rate_per_sqft, insurance_uploaded,
		company_docs_uploaded, payment_method_added, decline_reason, cancel_reason,
		deal_ping_sent_at, deal_ping_expires_at, tour_requested_at, tour_confirmed_at,
		tour_completed_at, guarantee_signed_at, address_revealed_at, agreement_sent_at,
		agreement_signed_at, lease_start_date, lease_end_date, version, created_at, updated_at
		FROM engagements WHERE status = ANY($1)`
	arr := make([]string, len(statuses))
	for i, s := range statuses {
		arr[i] = string(s)
	}
	rows, err := r.db.QueryContext(ctx, query, pq.Array(arr))
	if err != nil {
		return nil, fmt.Errorf("list engagements by status: %w", err)
	}
	defer rows.Close()

	var out []*models.Engagement
	for rows.Next() {
		var e models.Engagement
		var path sql.NullString
		if err := rows.Scan(&e.ID, &e.MatchID, &e.BuyerNeedID, &e.WarehouseID, &e.Status, &path,
			&e.TourRescheduleCount, &e.AdminFlagged, &e.SupplierRatePerSqft, &e.BuyerRatePerSqft,
			&e.InsuranceUploaded, &e.CompanyDocsUploaded, &e.PaymentMethodAdded, &e.DeclineReason,
			&e.CancelReason, &e.DealPingSentAt, &e.DealPingExpiresAt, &e.TourRequestedAt,
			&e.TourConfirmedAt, &e.TourCompletedAt, &e.GuaranteeSignedAt, &e.AddressRevealedAt,
			&e.AgreementSentAt, &e.AgreementSignedAt, &e.LeaseStartDate, &e.LeaseEndDate, &e.Version,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		e.Path = models.EngagementPath(path.String)
		out = append(out, &e)
	}
	return out, rows.Err()
}
