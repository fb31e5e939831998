package api

import (
	"time"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// allowedActions lists every target state reachable from e's current status
// by the given actor, per the transition table, plus the admin-only cancel
// action whenever the engagement isn't already terminal. This is what
// drives each role view's allowed_actions field (§6).
func allowedActions(e *models.Engagement, actor models.Actor, table config.TransitionTable) []models.EngagementState {
	var out []models.EngagementState
	for _, rule := range table.Rules {
		if rule.From == e.Status && rule.Actor == actor {
			out = append(out, rule.To)
		}
	}
	if actor == models.ActorAdmin && !e.Status.IsTerminal() {
		out = append(out, models.StateCancelled)
	}
	return out
}

// buyerEngagementView is what a buyer-role caller sees of an engagement:
// everything needed to act on it, nothing about supplier-side economics
// beyond the rate they themselves are quoted.
type buyerEngagementView struct {
	ID               string                   `json:"id"`
	MatchID          string                   `json:"match_id"`
	Status           models.EngagementState   `json:"status"`
	Path             models.EngagementPath    `json:"path,omitempty"`
	BuyerRatePerSqft float64                  `json:"buyer_rate_per_sqft"`
	TourRequestedAt  *time.Time               `json:"tour_requested_at,omitempty"`
	TourConfirmedAt  *time.Time               `json:"tour_confirmed_at,omitempty"`
	LeaseStartDate   *time.Time               `json:"lease_start_date,omitempty"`
	LeaseEndDate     *time.Time               `json:"lease_end_date,omitempty"`
	AllowedActions   []models.EngagementState `json:"allowed_actions"`
}

// supplierEngagementView carries no buyer identity/contact fields at any
// status, and reports only the supplier's own rate.
type supplierEngagementView struct {
	ID                  string                   `json:"id"`
	MatchID             string                   `json:"match_id"`
	Status              models.EngagementState   `json:"status"`
	Path                models.EngagementPath    `json:"path,omitempty"`
	SupplierRatePerSqft float64                  `json:"supplier_rate_per_sqft"`
	TourRequestedAt     *time.Time               `json:"tour_requested_at,omitempty"`
	TourConfirmedAt     *time.Time               `json:"tour_confirmed_at,omitempty"`
	LeaseStartDate      *time.Time               `json:"lease_start_date,omitempty"`
	LeaseEndDate        *time.Time               `json:"lease_end_date,omitempty"`
	AllowedActions      []models.EngagementState `json:"allowed_actions"`
}

// adminEngagementView is the unredacted view: both rates, the owning need
// and warehouse IDs, and provenance (decline/cancel reasons, admin flag).
// The spread and the per-step timestamps are not included.
type adminEngagementView struct {
	ID                  string                   `json:"id"`
	MatchID             string                   `json:"match_id"`
	BuyerNeedID         string                   `json:"buyer_need_id"`
	WarehouseID         string                   `json:"warehouse_id"`
	Status              models.EngagementState   `json:"status"`
	Path                models.EngagementPath    `json:"path,omitempty"`
	BuyerRatePerSqft    float64                  `json:"buyer_rate_per_sqft"`
	SupplierRatePerSqft float64                  `json:"supplier_rate_per_sqft"`
	AdminFlagged        bool                     `json:"admin_flagged"`
	DeclineReason       string                   `json:"decline_reason,omitempty"`
	CancelReason        string                   `json:"cancel_reason,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	AllowedActions      []models.EngagementState `json:"allowed_actions"`
}

// adminView, buyerView, and supplierView build the role-appropriate
// serialization of an engagement (§6). Which one a handler calls depends on
// the caller's verified identity: platform admins always get adminView;
// everyone else gets whichever of buyerView/supplierView matches their
// company's relationship to the engagement (buyer-need owner vs warehouse
// owner), confirmed by the handler before either is called.
func adminView(e *models.Engagement, table config.TransitionTable) adminEngagementView {
	return adminEngagementView{
		ID: e.ID, MatchID: e.MatchID, BuyerNeedID: e.BuyerNeedID, WarehouseID: e.WarehouseID,
		Status: e.Status, Path: e.Path,
		BuyerRatePerSqft: e.BuyerRatePerSqft, SupplierRatePerSqft: e.SupplierRatePerSqft,
		AdminFlagged: e.AdminFlagged, DeclineReason: e.DeclineReason, CancelReason: e.CancelReason,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
		AllowedActions: allowedActions(e, models.ActorAdmin, table),
	}
}

func buyerView(e *models.Engagement, table config.TransitionTable) buyerEngagementView {
	return buyerEngagementView{
		ID: e.ID, MatchID: e.MatchID, Status: e.Status, Path: e.Path,
		BuyerRatePerSqft: e.BuyerRatePerSqft,
		TourRequestedAt:  e.TourRequestedAt, TourConfirmedAt: e.TourConfirmedAt,
		LeaseStartDate: e.LeaseStartDate, LeaseEndDate: e.LeaseEndDate,
		AllowedActions: allowedActions(e, models.ActorBuyer, table),
	}
}

func supplierView(e *models.Engagement, table config.TransitionTable) supplierEngagementView {
	return supplierEngagementView{
		ID: e.ID, MatchID: e.MatchID, Status: e.Status, Path: e.Path,
		SupplierRatePerSqft: e.SupplierRatePerSqft,
		TourRequestedAt:     e.TourRequestedAt, TourConfirmedAt: e.TourConfirmedAt,
		LeaseStartDate: e.LeaseStartDate, LeaseEndDate: e.LeaseEndDate,
		AllowedActions: allowedActions(e, models.ActorSupplier, table),
	}
}

// timelineEntry is one row of GET /api/engagements/{id}/timeline.
type timelineEntry struct {
	EventType  models.EngagementEventType `json:"event_type"`
	FromStatus models.EngagementState     `json:"from_status,omitempty"`
	ToStatus   models.EngagementState     `json:"to_status,omitempty"`
	Actor      models.Actor               `json:"actor"`
	CreatedAt  time.Time                  `json:"created_at"`
}

func timelineView(events []*models.EngagementEvent) []timelineEntry {
	out := make([]timelineEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, timelineEntry{
			EventType: ev.EventType, FromStatus: ev.FromStatus, ToStatus: ev.ToStatus,
			Actor: ev.Actor, CreatedAt: ev.CreatedAt,
		})
	}
	return out
}

// dlaTokenView is the property-facing state returned from every
// /api/dla/{token}/* endpoint — the token itself is the capability, so the
// response carries just enough for the supplier's SMS-driven flow to render.
type dlaTokenView struct {
	Status               models.DLATokenStatus `json:"status"`
	SuggestedRatePerSqft float64                `json:"suggested_rate_per_sqft"`
	ConfirmedRatePerSqft *float64               `json:"confirmed_rate_per_sqft,omitempty"`
	ExpiresAt            time.Time              `json:"expires_at"`
}

func dlaView(t *models.DLAToken) dlaTokenView {
	return dlaTokenView{
		Status: t.Status, SuggestedRatePerSqft: t.SuggestedRatePerSqft,
		ConfirmedRatePerSqft: t.ConfirmedRatePerSqft, ExpiresAt: t.ExpiresAt,
	}
}

// estimateResponse is POST /api/supplier/estimate's body — a market-rate
// range, no auth or persistence involved.
type estimateResponse struct {
	RateLow    float64 `json:"rate_low"`
	RateHigh   float64 `json:"rate_high"`
	SampleSize int     `json:"sample_size"`
}

// healthResponse mirrors the teacher's inline gin.H health body, typed.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
