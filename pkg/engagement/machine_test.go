package engagement

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/models"
)

func newTestMachine(t *testing.T) (*Machine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := database.NewClientFromDB(db)
	engagements := database.NewEngagementRepository(client)
	agreements := database.NewEngagementAgreementRepository(client)
	return NewMachine(engagements, agreements, config.DefaultTransitionTable()), mock
}

func engagementRow(status models.EngagementState, version int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "match_id", "buyer_need_id", "warehouse_id", "status", "path", "tour_reschedule_count",
		"admin_flagged", "supplier_rate_per_sqft", "buyer_rate_per_sqft", "insurance_uploaded",
		"company_docs_uploaded", "payment_method_added", "decline_reason", "cancel_reason",
		"deal_ping_sent_at", "deal_ping_expires_at", "tour_requested_at", "tour_confirmed_at",
		"tour_completed_at", "guarantee_signed_at", "address_revealed_at", "agreement_sent_at",
		"agreement_signed_at", "lease_start_date", "lease_end_date", "version", "created_at", "updated_at",
	}).AddRow(
		"eng-1", "match-1", "need-1", "wh-1", string(status), "tour", 0,
		false, 5.0, 6.36, true, true, true, "", "",
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, version, now, now,
	)
}

func agreementRow(buyerSignedAt, supplierSignedAt *time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "engagement_id", "version", "buyer_rate_per_sqft", "supplier_rate_per_sqft",
		"terms_snapshot", "buyer_signed_at", "supplier_signed_at", "expires_at", "created_at",
	}).AddRow("agr-1", "eng-1", 1, 6.36, 5.0, []byte(`{}`), buyerSignedAt, supplierSignedAt, now.Add(72*time.Hour), now)
}

// TestSignAgreement_SupplierFirstThenBuyer exercises boundary scenario 5
// (§8): the supplier signs first (partial, no transition), then the buyer
// signs and completes it — exactly one agreement_signed event.
func TestSignAgreement_SupplierFirstThenBuyer(t *testing.T) {
	m, mock := newTestMachine(t)
	ctx := context.Background()

	// Supplier signs first: partial signature, no transition.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE id = \$1 FOR UPDATE`).
		WithArgs("eng-1").WillReturnRows(engagementRow(models.StateAgreementSent, 1))
	mock.ExpectQuery(`SELECT .* FROM engagement_agreements WHERE engagement_id = \$1`).
		WithArgs("eng-1").WillReturnRows(agreementRow(nil, nil))
	mock.ExpectExec(`UPDATE engagement_agreements SET supplier_signed_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e, err := m.SignAgreement(ctx, "eng-1", models.ActorSupplier, "supplier-user")
	require.NoError(t, err)
	require.Equal(t, models.StateAgreementSent, e.Status, "partial signature does not transition")
	require.NoError(t, mock.ExpectationsWereMet())

	// Buyer signs second: completes both signatures, drives the transition
	// and writes exactly one agreement_signed event. The guard re-reads the
	// agreement row independently of SignAgreement's own read.
	supplierSignedAt := time.Now().UTC()
	buyerSignedAt := supplierSignedAt.Add(time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE id = \$1 FOR UPDATE`).
		WithArgs("eng-1").WillReturnRows(engagementRow(models.StateAgreementSent, 1))
	mock.ExpectQuery(`SELECT .* FROM engagement_agreements WHERE engagement_id = \$1`).
		WithArgs("eng-1").WillReturnRows(agreementRow(nil, &supplierSignedAt))
	mock.ExpectExec(`UPDATE engagement_agreements SET buyer_signed_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM engagement_agreements WHERE engagement_id = \$1`).
		WithArgs("eng-1").WillReturnRows(agreementRow(&buyerSignedAt, &supplierSignedAt))
	mock.ExpectExec(`UPDATE engagements SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO engagement_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e, err = m.SignAgreement(ctx, "eng-1", models.ActorBuyer, "buyer-user")
	require.NoError(t, err)
	require.Equal(t, models.StateAgreementSigned, e.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestSignAgreement_BuyerFirstThenSupplier is the same scenario with the
// signing order reversed — the state machine must reach the identical
// terminal state regardless of which side signs first.
func TestSignAgreement_BuyerFirstThenSupplier(t *testing.T) {
	m, mock := newTestMachine(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE id = \$1 FOR UPDATE`).
		WithArgs("eng-1").WillReturnRows(engagementRow(models.StateAgreementSent, 1))
	mock.ExpectQuery(`SELECT .* FROM engagement_agreements WHERE engagement_id = \$1`).
		WithArgs("eng-1").WillReturnRows(agreementRow(nil, nil))
	mock.ExpectExec(`UPDATE engagement_agreements SET buyer_signed_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e, err := m.SignAgreement(ctx, "eng-1", models.ActorBuyer, "buyer-user")
	require.NoError(t, err)
	require.Equal(t, models.StateAgreementSent, e.Status)
	require.NoError(t, mock.ExpectationsWereMet())

	buyerSignedAt := time.Now().UTC()
	supplierSignedAt := buyerSignedAt.Add(time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE id = \$1 FOR UPDATE`).
		WithArgs("eng-1").WillReturnRows(engagementRow(models.StateAgreementSent, 1))
	mock.ExpectQuery(`SELECT .* FROM engagement_agreements WHERE engagement_id = \$1`).
		WithArgs("eng-1").WillReturnRows(agreementRow(&buyerSignedAt, nil))
	mock.ExpectExec(`UPDATE engagement_agreements SET supplier_signed_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM engagement_agreements WHERE engagement_id = \$1`).
		WithArgs("eng-1").WillReturnRows(agreementRow(&buyerSignedAt, &supplierSignedAt))
	mock.ExpectExec(`UPDATE engagements SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO engagement_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e, err = m.SignAgreement(ctx, "eng-1", models.ActorSupplier, "supplier-user")
	require.NoError(t, err)
	require.Equal(t, models.StateAgreementSigned, e.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestTransition_TerminalStateRejectsEveryTransition covers the universal
// invariant (§8): a terminal engagement produces no new event for any
// attempted transition.
func TestTransition_TerminalStateRejectsEveryTransition(t *testing.T) {
	m, mock := newTestMachine(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM engagements WHERE id = \$1 FOR UPDATE`).
		WithArgs("eng-1").WillReturnRows(engagementRow(models.StateCancelled, 3))

	_, err := m.Transition(ctx, Request{
		EngagementID: "eng-1", Actor: models.ActorAdmin, To: models.StateOnboarding,
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
