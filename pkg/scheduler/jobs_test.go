package scheduler

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/models"
)

func activeEngagementRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "match_id", "buyer_need_id", "warehouse_id", "status", "path", "tour_reschedule_count",
		"admin_flagged", "supplier_rate_per_sqft", "buyer_rate_per_sqft", "insurance_uploaded",
		"company_docs_uploaded", "payment_method_added", "decline_reason", "cancel_reason",
		"deal_ping_sent_at", "deal_ping_expires_at", "tour_requested_at", "tour_confirmed_at",
		"tour_completed_at", "guarantee_signed_at", "address_revealed_at", "agreement_sent_at",
		"agreement_signed_at", "lease_start_date", "lease_end_date", "version", "created_at", "updated_at",
	}).AddRow(
		"eng-1", "match-1", "need-1", "wh-1", string(models.StateActive), "tour", 0,
		false, 5.0, 6.36, true, true, true, "", "",
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, 1, now, now,
	)
}

func buyerNeedRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "company_id", "created_by", "city", "state", "zipcode", "lat", "lng", "radius_miles",
		"min_sqft", "max_sqft", "use_type", "needed_from", "duration_months", "max_budget_per_sqft",
		"requirements", "created_at", "updated_at",
	}).AddRow("need-1", "co-1", "user-1", "Newark", "NJ", "07102", nil, nil, 25.0,
		8000, 12000, string(models.UseTypeGeneral), now, 12, nil, "general storage", now, now)
}

// TestPaymentGeneration_IdempotentOnSecondRun exercises boundary scenario
// 6 (§8): running job #7 twice for the same billing period creates zero
// new PaymentRecords on the second run, because CreateIfAbsent's
// ON CONFLICT DO NOTHING makes RowsAffected 0 the second time.
func TestPaymentGeneration_IdempotentOnSecondRun(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	client := database.NewClientFromDB(db)
	fixedNow := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	jobs := &Jobs{
		Engagements:    database.NewEngagementRepository(client),
		PaymentRecords: database.NewPaymentRecordRepository(client),
		BuyerNeeds:     database.NewBuyerNeedRepository(client),
		Warehouses:     database.NewWarehouseRepository(client),
		now:            func() time.Time { return fixedNow },
	}
	ctx := context.Background()

	// First run: no existing record, insert succeeds (1 row affected).
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE status = ANY\(\$1\)`).
		WillReturnRows(activeEngagementRow())
	mock.ExpectQuery(`SELECT .* FROM buyer_needs WHERE id = \$1`).
		WithArgs("need-1").WillReturnRows(buyerNeedRow())
	mock.ExpectExec(`INSERT INTO payment_records`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := jobs.PaymentGeneration(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.NoError(t, mock.ExpectationsWereMet())

	// Second run, same period: ON CONFLICT DO NOTHING means 0 rows affected.
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE status = ANY\(\$1\)`).
		WillReturnRows(activeEngagementRow())
	mock.ExpectQuery(`SELECT .* FROM buyer_needs WHERE id = \$1`).
		WithArgs("need-1").WillReturnRows(buyerNeedRow())
	mock.ExpectExec(`INSERT INTO payment_records`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err = jobs.PaymentGeneration(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, created, "re-running the same billing period must create nothing new")
	require.NoError(t, mock.ExpectationsWereMet())
}
