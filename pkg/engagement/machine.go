// Package engagement implements the lifecycle state machine (§4.2): every
// status change on an Engagement flows through Machine.Transition (or the
// agreement dual-sign entry point SignAgreement), which validates
// reachability, actor permission, and guard preconditions, then commits
// the status change and its EngagementEvent audit row atomically under a
// single Postgres row lock (§5's single-writer-per-engagement guarantee).
package engagement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// Machine executes config.TransitionTable against persisted Engagements.
type Machine struct {
	engagements *database.EngagementRepository
	agreements  *database.EngagementAgreementRepository
	transitions config.TransitionTable
}

// NewMachine constructs a Machine over the given repositories and
// transition table.
func NewMachine(engagements *database.EngagementRepository, agreements *database.EngagementAgreementRepository, transitions config.TransitionTable) *Machine {
	return &Machine{engagements: engagements, agreements: agreements, transitions: transitions}
}

// Request describes one attempted transition.
type Request struct {
	EngagementID string
	Actor        models.Actor
	ActorID      string
	To           models.EngagementState
	Data         map[string]any
}

// Transition validates and applies req against the engagement's current
// state. Failure surfaces as a typed apierr error; no mutation and no
// event are written when it fails (§4.2).
func (m *Machine) Transition(ctx context.Context, req Request) (*models.Engagement, error) {
	tx, err := m.engagements.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("engagement: begin tx: %w", err)
	}
	defer tx.Rollback()

	e, err := m.engagements.Get(ctx, tx, req.EngagementID)
	if err != nil {
		return nil, err
	}

	if err := m.applyTransition(ctx, tx, e, req); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("engagement: commit: %w", err)
	}
	return e, nil
}

// applyTransition runs the reachability/permission/guard checks and, if
// they pass, mutates e in place and writes it plus its EngagementEvent
// within tx. Callers own the transaction's begin/commit.
func (m *Machine) applyTransition(ctx context.Context, tx *sql.Tx, e *models.Engagement, req Request) error {
	if e.Status.IsTerminal() {
		return apierr.NewInvalidTransition(string(e.Status), string(req.To), string(req.Actor))
	}

	rule, ok := m.findRule(e.Status, req.Actor, req.To)
	// Admin override reaches any non-terminal target from any non-terminal
	// state, plus cancellation specifically — cancel is the one terminal
	// target an admin must always be able to reach (§6 cancel endpoint).
	adminOverride := !ok && req.Actor == models.ActorAdmin && (!req.To.IsTerminal() || req.To == models.StateCancelled)
	if !ok && !adminOverride {
		return apierr.NewInvalidTransition(string(e.Status), string(req.To), string(req.Actor))
	}

	if ok && rule.Guard != config.GuardNone {
		if err := m.checkGuard(ctx, tx, e, rule.Guard); err != nil {
			return err
		}
	}

	from := e.Status
	now := time.Now().UTC()
	e.Status = req.To
	stampTimestamp(e, req.To, now)
	stampReason(e, req.To, req.Data)

	if err := m.engagements.Save(ctx, tx, e); err != nil {
		return err
	}
	ev := &models.EngagementEvent{
		ID:           uuid.NewString(),
		EngagementID: e.ID,
		EventType:    models.EventTypeTransition,
		FromStatus:   from,
		ToStatus:     req.To,
		Actor:        req.Actor,
		ActorID:      req.ActorID,
		Data:         req.Data,
	}
	if err := m.engagements.AppendEvent(ctx, tx, ev); err != nil {
		return err
	}

	// Guarantee sign is a double transition per the source's own behavior
	// (Open Question decision, DESIGN.md): one buyer action produces both
	// a guarantee_signed and an address_revealed event.
	if req.To == models.StateGuaranteeSigned {
		return m.applyTransition(ctx, tx, e, Request{
			EngagementID: e.ID,
			Actor:        models.ActorSystem,
			To:           models.StateAddressRevealed,
		})
	}
	return nil
}

func (m *Machine) findRule(from models.EngagementState, actor models.Actor, to models.EngagementState) (config.TransitionRule, bool) {
	for _, r := range m.transitions.Rules {
		if r.From == from && r.Actor == actor && r.To == to {
			return r, true
		}
	}
	return config.TransitionRule{}, false
}

func (m *Machine) checkGuard(ctx context.Context, tx *sql.Tx, e *models.Engagement, guard config.GuardName) error {
	switch guard {
	case config.GuardAgreementFullySigned:
		a, err := m.agreements.Get(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		if !a.IsFullySigned() {
			return apierr.NewGuardFailure(string(guard), "both parties have not signed the agreement")
		}
	case config.GuardOnboardingComplete:
		if !(e.InsuranceUploaded && e.CompanyDocsUploaded && e.PaymentMethodAdded) {
			return apierr.NewGuardFailure(string(guard), "insurance, company docs, and payment method must all be on file")
		}
	case config.GuardPathIsTour:
		if e.Path != models.PathTour {
			return apierr.NewGuardFailure(string(guard), "engagement is not on the tour path")
		}
	case config.GuardPathIsInstantBook:
		if e.Path != models.PathInstantBook {
			return apierr.NewGuardFailure(string(guard), "engagement is not on the instant-book path")
		}
	}
	return nil
}

// SignAgreement records one side's signature on the current agreement.
// Per the double-sign boundary scenario (§8): whichever side signs first
// only records its signature, with no state transition and no event
// written; the side that completes both signatures is the one whose call
// drives the agreement_sent → agreement_signed transition, exactly once,
// regardless of which side signs first. Re-signing an already-signed side
// is a no-op.
func (m *Machine) SignAgreement(ctx context.Context, engagementID string, actor models.Actor, actorID string) (*models.Engagement, error) {
	if actor != models.ActorBuyer && actor != models.ActorSupplier {
		return nil, apierr.NewAuthorization("sign agreement")
	}

	tx, err := m.engagements.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("engagement: begin tx: %w", err)
	}
	defer tx.Rollback()

	e, err := m.engagements.Get(ctx, tx, engagementID)
	if err != nil {
		return nil, err
	}
	if e.Status != models.StateAgreementSent {
		return nil, apierr.NewInvalidTransition(string(e.Status), string(models.StateAgreementSigned), string(actor))
	}

	agreement, err := m.agreements.Get(ctx, tx, engagementID)
	if err != nil {
		return nil, err
	}

	buyer := actor == models.ActorBuyer
	now := time.Now().UTC()
	alreadySigned := (buyer && agreement.BuyerSignedAt != nil) || (!buyer && agreement.SupplierSignedAt != nil)
	if !alreadySigned {
		if err := m.agreements.RecordSignature(ctx, tx, agreement.ID, buyer, now); err != nil {
			return nil, err
		}
		if buyer {
			agreement.BuyerSignedAt = &now
		} else {
			agreement.SupplierSignedAt = &now
		}
	}

	if agreement.IsFullySigned() {
		if err := m.applyTransition(ctx, tx, e, Request{
			EngagementID: e.ID,
			Actor:        actor,
			ActorID:      actorID,
			To:           models.StateAgreementSigned,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("engagement: commit: %w", err)
	}
	return e, nil
}

// stampTimestamp records the "when did this happen" field a handful of
// states carry, alongside the generic status+event write every transition
// already gets.
func stampTimestamp(e *models.Engagement, to models.EngagementState, now time.Time) {
	switch to {
	case models.StateDealPingSent:
		e.DealPingSentAt = &now
	case models.StateTourRequested:
		e.TourRequestedAt = &now
	case models.StateTourConfirmed:
		e.TourConfirmedAt = &now
	case models.StateTourCompleted:
		e.TourCompletedAt = &now
	case models.StateGuaranteeSigned:
		e.GuaranteeSignedAt = &now
	case models.StateAddressRevealed:
		e.AddressRevealedAt = &now
	case models.StateAgreementSent:
		e.AgreementSentAt = &now
	case models.StateAgreementSigned:
		e.AgreementSignedAt = &now
	}
}

// stampReason copies a caller-supplied "reason" out of the transition's
// Data payload into the engagement's provenance field: CancelReason for
// cancelled (§6 cancel endpoint), DeclineReason for the buyer, supplier
// and deal-ping decline states.
func stampReason(e *models.Engagement, to models.EngagementState, data map[string]any) {
	reason, _ := data["reason"].(string)
	if reason == "" {
		return
	}
	switch to {
	case models.StateCancelled:
		e.CancelReason = reason
	case models.StateDeclinedByBuyer, models.StateDeclinedBySupplier, models.StateDealPingDeclined:
		e.DeclineReason = reason
	}
}
