package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/clearing"
	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/engagement"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// Jobs bundles every repository and domain service the eleven scheduler
// jobs read and write (§4.4).
type Jobs struct {
	Engagements    *database.EngagementRepository
	PaymentRecords *database.PaymentRecordRepository
	Questions      *database.PropertyQuestionRepository
	Knowledge      *database.PropertyKnowledgeEntryRepository
	DLATokens      *database.DLATokenRepository
	BuyerNeeds     *database.BuyerNeedRepository
	Warehouses     *database.WarehouseRepository

	Machine   *engagement.Machine
	Activator *clearing.Activator
	Pricing   config.PricingConfig

	now func() time.Time
}

// NewJobs constructs a Jobs bundle. now defaults to time.Now when nil, a
// seam tests substitute to exercise deadline edges deterministically.
func NewJobs(deps Jobs) *Jobs {
	if deps.now == nil {
		deps.now = time.Now
	}
	return &deps
}

func (j *Jobs) clock() time.Time { return j.now().UTC() }

// DealPingDeadline is job #1: engagements in deal_ping_sent past their
// deal_ping_expires_at transition to deal_ping_expired.
func (j *Jobs) DealPingDeadline(ctx context.Context) (int, error) {
	now := j.clock()
	engagements, err := j.Engagements.ListByStatus(ctx, models.StateDealPingSent)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range engagements {
		if e.DealPingExpiresAt == nil || !now.After(*e.DealPingExpiresAt) {
			continue
		}
		if _, err := j.Machine.Transition(ctx, engagement.Request{
			EngagementID: e.ID, Actor: models.ActorSystem, To: models.StateDealPingExpired,
		}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// GeneralDeadline is job #2: tour_requested >12h, tour_completed >72h
// without a buyer decision, and address_revealed >7d idle all expire.
// It also sweeps expired DLA tokens, a related deadline check with no
// dedicated job of its own in §4.4's table.
func (j *Jobs) GeneralDeadline(ctx context.Context) (int, error) {
	now := j.clock()
	n := 0

	tourRequested, err := j.Engagements.ListByStatus(ctx, models.StateTourRequested)
	if err != nil {
		return n, err
	}
	for _, e := range tourRequested {
		if now.Sub(e.UpdatedAt) > 12*time.Hour {
			if err := j.expire(ctx, e, "tour request deadline elapsed"); err != nil {
				return n, err
			}
			n++
		}
	}

	tourCompleted, err := j.Engagements.ListByStatus(ctx, models.StateTourCompleted)
	if err != nil {
		return n, err
	}
	for _, e := range tourCompleted {
		if now.Sub(e.UpdatedAt) > 72*time.Hour {
			if err := j.expire(ctx, e, "post-tour decision deadline elapsed"); err != nil {
				return n, err
			}
			n++
		}
	}

	addressRevealed, err := j.Engagements.ListByStatus(ctx, models.StateAddressRevealed)
	if err != nil {
		return n, err
	}
	for _, e := range addressRevealed {
		if now.Sub(e.UpdatedAt) > 7*24*time.Hour {
			if err := j.expire(ctx, e, "address-revealed idle deadline elapsed"); err != nil {
				return n, err
			}
			n++
		}
	}

	expired, err := j.DLATokens.ListExpiring(ctx, now)
	if err != nil {
		return n, err
	}
	for _, t := range expired {
		if err := j.Activator.Decline(ctx, t.Token, models.MemoryDLAExpired, "demand-led activation token expired unanswered"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (j *Jobs) expire(ctx context.Context, e *models.Engagement, reason string) error {
	_, err := j.Machine.Transition(ctx, engagement.Request{
		EngagementID: e.ID, Actor: models.ActorSystem, To: models.StateExpired,
		Data: map[string]any{"reason": reason},
	})
	return err
}

// TourReminders is job #3: every tour_confirmed engagement gets one
// tour_reminder REMINDER_SENT event per calendar day. The tour's scheduled
// date is not checked; the engagement row does not store it.
func (j *Jobs) TourReminders(ctx context.Context) (int, error) {
	now := j.clock()
	confirmed, err := j.Engagements.ListByStatus(ctx, models.StateTourConfirmed)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range confirmed {
		exists, err := j.Engagements.ExistsEventOnDay(ctx, e.ID, models.EventTypeReminderSent, now)
		if err != nil {
			return n, err
		}
		if exists {
			continue
		}
		if err := j.appendEventByID(ctx, e.ID, models.EventTypeReminderSent, "tour_reminder"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// PostTourFollowUp is job #4: tour_completed ≥24h ago without a
// follow-up event gets one sent.
func (j *Jobs) PostTourFollowUp(ctx context.Context) (int, error) {
	now := j.clock()
	completed, err := j.Engagements.ListByStatus(ctx, models.StateTourCompleted)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range completed {
		if e.TourCompletedAt == nil || now.Sub(*e.TourCompletedAt) < 24*time.Hour {
			continue
		}
		events, err := j.Engagements.ListEvents(ctx, e.ID)
		if err != nil {
			return n, err
		}
		if reminderNoted(events, "post_tour_follow_up") {
			continue
		}
		if err := j.appendEventByID(ctx, e.ID, models.EventTypeReminderSent, "post_tour_follow_up"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// QASupplierDeadline is job #5: routed PropertyQuestions past their 24h
// supplier deadline expire; the buyer's post-tour timer (tracked via
// UpdatedAt, since there's no separate pause flag) resumes implicitly
// once the question leaves routed status.
func (j *Jobs) QASupplierDeadline(ctx context.Context) (int, error) {
	now := j.clock()
	questions, err := j.Questions.ListPastDeadline(ctx, now)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, q := range questions {
		if err := j.Questions.Expire(ctx, q.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// QAKnowledgeBackfill is job #6: answered PropertyQuestions without a
// matching PropertyKnowledgeEntry get one created, keyed by
// (warehouse, question topic) so future lookups skip the supplier.
func (j *Jobs) QAKnowledgeBackfill(ctx context.Context) (int, error) {
	questions, err := j.Questions.ListAnsweredWithoutKnowledge(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, q := range questions {
		if q.Answer == "" {
			continue // expired with no answer — nothing reusable to backfill
		}
		if err := j.Knowledge.Upsert(ctx, &models.PropertyKnowledgeEntry{
			ID: uuid.NewString(), WarehouseID: q.WarehouseID, Topic: q.Question,
			Answer: q.Answer, SourceQuestionID: q.ID,
		}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// PaymentGeneration is job #7: for each ACTIVE engagement, create this
// month's PaymentRecord if absent.
func (j *Jobs) PaymentGeneration(ctx context.Context) (int, error) {
	now := j.clock()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)

	active, err := j.Engagements.ListByStatus(ctx, models.StateActive)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range active {
		sqft, err := j.leasedSqft(ctx, e)
		if err != nil {
			return n, err
		}
		buyerAmount := e.BuyerRatePerSqft * float64(sqft) / 12
		supplierAmount := e.SupplierRatePerSqft * float64(sqft) / 12
		created, err := j.PaymentRecords.CreateIfAbsent(ctx, &models.PaymentRecord{
			ID: uuid.NewString(), EngagementID: e.ID, PeriodStart: periodStart, PeriodEnd: periodEnd,
			BuyerAmount: buyerAmount, SupplierAmount: supplierAmount, WexAmount: buyerAmount - supplierAmount,
			BuyerStatus: models.PaymentLegUpcoming, SupplierStatus: models.PaymentLegUpcoming,
			DueAt: periodStart.AddDate(0, 0, 5),
		})
		if err != nil {
			return n, err
		}
		if created {
			n++
		}
	}
	return n, nil
}

func (j *Jobs) leasedSqft(ctx context.Context, e *models.Engagement) (int, error) {
	need, err := j.BuyerNeeds.Get(ctx, e.BuyerNeedID)
	if err != nil {
		return 0, err
	}
	if need.MaxSqft > 0 {
		return need.MaxSqft, nil
	}
	w, err := j.Warehouses.Get(ctx, e.WarehouseID)
	if err != nil {
		return 0, err
	}
	return w.BuildingSizeSqft, nil
}

// PaymentReminders is job #8: invoiced payments ≤3 days from due get one
// REMINDER_SENT per day.
func (j *Jobs) PaymentReminders(ctx context.Context) (int, error) {
	now := j.clock()
	due, err := j.PaymentRecords.ListDueForReminder(ctx, now.AddDate(0, 0, 3))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range due {
		if p.BuyerStatus != models.PaymentLegInvoiced && p.SupplierStatus != models.PaymentLegInvoiced {
			continue
		}
		exists, err := j.Engagements.ExistsEventOnDay(ctx, p.EngagementID, models.EventTypeReminderSent, now)
		if err != nil {
			return n, err
		}
		if exists {
			continue
		}
		if err := j.appendEventByID(ctx, p.EngagementID, models.EventTypeReminderSent, "payment_reminder"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// StaleEngagementFlag is job #9: non-terminal, non-active engagements
// untouched for >3 days get admin_flagged=true and an ADMIN_NOTE event.
func (j *Jobs) StaleEngagementFlag(ctx context.Context) (int, error) {
	now := j.clock()
	statuses := []models.EngagementState{
		models.StateMatched, models.StateDealPingSent, models.StateDealPingAccepted,
		models.StateBuyerReviewing, models.StateBuyerAccepted, models.StateContactCaptured,
		models.StateAccountCreated, models.StateGuaranteeSigned, models.StateAddressRevealed,
		models.StateTourRequested, models.StateTourConfirmed, models.StateTourRescheduled,
		models.StateTourCompleted, models.StateInstantBookRequested, models.StateInstantBookConfirmed,
		models.StateBuyerConfirmed, models.StateAgreementSent, models.StateAgreementSigned,
		models.StateOnboarding,
	}
	engagements, err := j.Engagements.ListByStatus(ctx, statuses...)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range engagements {
		if e.AdminFlagged || now.Sub(e.UpdatedAt) <= 3*24*time.Hour {
			continue
		}
		if err := j.flagAdmin(ctx, e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (j *Jobs) flagAdmin(ctx context.Context, e *models.Engagement) error {
	tx, err := j.Engagements.BeginTx(ctx)
	if err != nil {
		return err
	}
	locked, err := j.Engagements.Get(ctx, tx, e.ID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	locked.AdminFlagged = true
	if err := j.Engagements.Save(ctx, tx, locked); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := j.Engagements.AppendEvent(ctx, tx, &models.EngagementEvent{
		ID: uuid.NewString(), EngagementID: e.ID, EventType: models.EventTypeAdminNote,
		FromStatus: e.Status, ToStatus: e.Status, Actor: models.ActorSystem,
		Data: map[string]any{"reason": "stale engagement: no activity for 3+ days"},
	}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// AutoActivateLeases is job #10: onboarding engagements with all three
// upload flags set and lease_start_date ≤ today transition to ACTIVE.
func (j *Jobs) AutoActivateLeases(ctx context.Context) (int, error) {
	now := j.clock()
	onboarding, err := j.Engagements.ListByStatus(ctx, models.StateOnboarding)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range onboarding {
		ready := e.InsuranceUploaded && e.CompanyDocsUploaded && e.PaymentMethodAdded
		due := e.LeaseStartDate != nil && !e.LeaseStartDate.After(now)
		if !ready || !due {
			continue
		}
		if _, err := j.Machine.Transition(ctx, engagement.Request{
			EngagementID: e.ID, Actor: models.ActorSystem, To: models.StateActive,
		}); err != nil {
			return n, err
		}
		if err := j.appendEventByID(ctx, e.ID, models.EventTypeLeaseActivated, ""); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// RenewalPrompts is job #11: ACTIVE engagements with lease_end_date
// ≤30 days out get one renewal_prompt REMINDER_SENT.
func (j *Jobs) RenewalPrompts(ctx context.Context) (int, error) {
	now := j.clock()
	active, err := j.Engagements.ListByStatus(ctx, models.StateActive)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range active {
		if e.LeaseEndDate == nil || e.LeaseEndDate.After(now.AddDate(0, 0, 30)) {
			continue
		}
		events, err := j.Engagements.ListEvents(ctx, e.ID)
		if err != nil {
			return n, err
		}
		if reminderNoted(events, "renewal_prompt") {
			continue
		}
		if err := j.appendEventByID(ctx, e.ID, models.EventTypeReminderSent, "renewal_prompt"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (j *Jobs) appendEventByID(ctx context.Context, engagementID string, eventType models.EngagementEventType, note string) error {
	tx, err := j.Engagements.BeginTx(ctx)
	if err != nil {
		return err
	}
	e, err := j.Engagements.Get(ctx, tx, engagementID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	data := map[string]any{}
	if note != "" {
		data["note"] = note
	}
	if err := j.Engagements.AppendEvent(ctx, tx, &models.EngagementEvent{
		ID: uuid.NewString(), EngagementID: e.ID, EventType: eventType,
		FromStatus: e.Status, ToStatus: e.Status, Actor: models.ActorSystem, Data: data,
	}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// reminderNoted reports whether events hold a REMINDER_SENT event carrying
// the given note.
func reminderNoted(events []*models.EngagementEvent, note string) bool {
	for _, ev := range events {
		if ev.EventType == models.EventTypeReminderSent && ev.Data["note"] == note {
			return true
		}
	}
	return false
}
