package clearing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// seedMatchScore is the composite score stamped on the Match created by a
// successful DLA conversion (§4.1.2 step 3) — it bypasses the MCDA scorer
// entirely since the supplier has just explicitly opted in.
const seedMatchScore = 85

// Activator drives the supplier-facing side of a DLA token through
// property confirmation, rate negotiation, and conversion (§4.1.2).
// Kept separate from Engine because it's invoked from supplier-facing
// endpoints, not from a buyer's Clear call.
type Activator struct {
	dlaTokens   *database.DLATokenRepository
	warehouses  *database.WarehouseRepository
	truthCores  *database.TruthCoreRepository
	agreements  *database.SupplierAgreementRepository
	memories    *database.ContextualMemoryRepository
	matches     *database.MatchRepository
	buyerNeeds  *database.BuyerNeedRepository
}

// NewActivator constructs an Activator from its repository dependencies.
func NewActivator(
	dlaTokens *database.DLATokenRepository,
	warehouses *database.WarehouseRepository,
	truthCores *database.TruthCoreRepository,
	agreements *database.SupplierAgreementRepository,
	memories *database.ContextualMemoryRepository,
	matches *database.MatchRepository,
	buyerNeeds *database.BuyerNeedRepository,
) *Activator {
	return &Activator{
		dlaTokens: dlaTokens, warehouses: warehouses, truthCores: truthCores,
		agreements: agreements, memories: memories, matches: matches, buyerNeeds: buyerNeeds,
	}
}

// ConfirmInterest marks a token interested — the supplier has opened the
// property-confirm step and is reviewing the suggested rate
// (§4.1.2 step 1-2).
func (a *Activator) ConfirmInterest(ctx context.Context, token string) (*models.DLAToken, error) {
	t, err := a.dlaTokens.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("clearing: dla token %s has expired", token)
	}
	if err := a.dlaTokens.UpdateStatus(ctx, token, models.DLATokenInterested); err != nil {
		return nil, err
	}
	t.Status = models.DLATokenInterested
	return t, nil
}

// CounterRate records the supplier's accepted or countered rate, moving
// the token to rate_decided (§4.1.2 step 2).
func (a *Activator) CounterRate(ctx context.Context, token string, ratePerSqft float64) (*models.DLAToken, error) {
	t, err := a.dlaTokens.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("clearing: dla token %s has expired", token)
	}
	if err := a.dlaTokens.ConfirmRate(ctx, token, ratePerSqft); err != nil {
		return nil, err
	}
	t.Status = models.DLATokenRateDecided
	t.ConfirmedRatePerSqft = &ratePerSqft
	return t, nil
}

// Convert is the agreement step (§4.1.2 step 3): the supplier signs,
// flips to in_network, activates the TruthCore at the negotiated rate,
// writes the one-time SupplierAgreement, records the conversion as a
// ContextualMemory, and creates the seed Match linking the warehouse back
// to the buyer need that sourced the outreach. Buyer notification is the
// caller's responsibility (an SMS/email side effect outside this
// package's scope) but is enqueued from the returned Match.
func (a *Activator) Convert(ctx context.Context, token string, actorCompanyID string, termsSnapshot map[string]any) (*models.Match, error) {
	t, err := a.dlaTokens.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("clearing: dla token %s has expired", token)
	}
	rate := t.SuggestedRatePerSqft
	if t.ConfirmedRatePerSqft != nil {
		rate = *t.ConfirmedRatePerSqft
	}

	now := time.Now().UTC()
	if err := a.warehouses.UpdateSupplierStatus(ctx, t.WarehouseID, models.SupplierStatusInNetwork); err != nil {
		return nil, err
	}
	if err := a.truthCores.SetSupplierRate(ctx, t.WarehouseID, rate); err != nil {
		return nil, err
	}
	if err := a.truthCores.SetActivationStatus(ctx, t.WarehouseID, models.ActivationOn); err != nil {
		return nil, err
	}
	if err := a.agreements.Create(ctx, &models.SupplierAgreement{
		ID: uuid.NewString(), WarehouseID: t.WarehouseID, CompanyID: actorCompanyID,
		Version: "1", TermsSnapshot: termsSnapshot, SignedAt: now,
	}); err != nil {
		return nil, err
	}
	if err := a.memories.Create(ctx, &models.ContextualMemory{
		ID: uuid.NewString(), WarehouseID: t.WarehouseID, Kind: models.MemoryDLAActivated,
		Note: "converted via demand-led activation",
		Data: map[string]any{"buyer_need_id": t.BuyerNeedID, "confirmed_rate_per_sqft": rate},
	}); err != nil {
		return nil, err
	}
	if err := a.dlaTokens.Activate(ctx, token, now); err != nil {
		return nil, err
	}

	need, err := a.buyerNeeds.Get(ctx, t.BuyerNeedID)
	if err != nil {
		return nil, err
	}
	w, err := a.warehouses.Get(ctx, t.WarehouseID)
	if err != nil {
		return nil, err
	}
	dist := 0.0
	if need.Lat != nil && need.Lng != nil && w.HasCoordinates() {
		dist = haversineMiles(*need.Lat, *need.Lng, *w.Lat, *w.Lng)
	}

	m := &models.Match{
		ID: uuid.NewString(), BuyerNeedID: t.BuyerNeedID, WarehouseID: t.WarehouseID,
		Status: models.MatchStatusPresented, MatchScore: seedMatchScore,
		Reasoning: "converted via demand-led activation", WithinBudget: true,
		SupplierRatePerSqft: rate, DistanceMiles: dist,
	}
	if err := a.matches.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Decline records a non-conversion outcome — declined, expired, or
// no-response — as a ContextualMemory for future routing, and retires the
// token (§4.1.2: "any non-conversion outcome ... persisted for future
// routing").
func (a *Activator) Decline(ctx context.Context, token string, kind models.ContextualMemoryKind, note string) error {
	t, err := a.dlaTokens.Get(ctx, token)
	if err != nil {
		return err
	}
	status := models.DLATokenDeclined
	if kind == models.MemoryDLAExpired || kind == models.MemoryDLANoResponse {
		status = models.DLATokenExpired
	}
	if err := a.dlaTokens.UpdateStatus(ctx, token, status); err != nil {
		return err
	}
	return a.memories.Create(ctx, &models.ContextualMemory{
		ID: uuid.NewString(), WarehouseID: t.WarehouseID, Kind: kind, Note: note,
		Data: map[string]any{"buyer_need_id": t.BuyerNeedID},
	})
}
