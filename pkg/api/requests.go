package api

import "github.com/wex-clearinghouse/core/pkg/models"

// BuyerNeedRequest is the body for creating a demand-side need (§3).
type BuyerNeedRequest struct {
	City             string         `json:"city" binding:"required"`
	State            string         `json:"state" binding:"required,len=2"`
	Zipcode          string         `json:"zipcode" binding:"required"`
	RadiusMiles      float64        `json:"radius_miles" binding:"omitempty,gt=0"`
	MinSqft          int            `json:"min_sqft" binding:"required,gt=0"`
	MaxSqft          int            `json:"max_sqft" binding:"required,gtfield=MinSqft"`
	UseType          models.UseType `json:"use_type" binding:"required"`
	NeededFrom       string         `json:"needed_from" binding:"required"` // RFC3339 date
	DurationMonths   int            `json:"duration_months" binding:"required,gt=0"`
	MaxBudgetPerSqft *float64       `json:"max_budget_per_sqft" binding:"omitempty,gt=0"`
	Requirements     string         `json:"requirements"`
}

// WarehouseRequest is the body for registering a supplier-side building.
type WarehouseRequest struct {
	Address          string `json:"address" binding:"required"`
	City             string `json:"city" binding:"required"`
	State            string `json:"state" binding:"required,len=2"`
	Zipcode          string `json:"zipcode" binding:"required"`
	BuildingSizeSqft int    `json:"building_size_sqft" binding:"required,gt=0"`
	YearBuilt        *int   `json:"year_built" binding:"omitempty,gt=1800"`
	Phone            string `json:"phone" binding:"required"`
}

// SupplierEstimateRequest is POST /api/supplier/estimate's body (§6): a
// synchronous market-rate lookup, no auth-scoped ownership required.
type SupplierEstimateRequest struct {
	Sqft  int    `json:"sqft" binding:"required,gt=0"`
	State string `json:"state" binding:"required,len=2"`
	Zip   string `json:"zip" binding:"required"`
}

// SupplierActivateRequest is POST /api/supplier/warehouse/{id}/activate's
// body — the TruthCore fields a supplier fills in to go live (§4.1.1).
type SupplierActivateRequest struct {
	MinSqft             int                  `json:"min_sqft" binding:"required,gt=0"`
	MaxSqft             int                  `json:"max_sqft" binding:"required,gtfield=MinSqft"`
	ActivityTier        models.ActivityTier  `json:"activity_tier" binding:"required"`
	HasOfficeSpace      bool                 `json:"has_office_space"`
	AvailableFrom       string               `json:"available_from" binding:"required"`
	SupplierRatePerSqft float64              `json:"supplier_rate_per_sqft" binding:"required,gt=0"`
	DockDoors           int                  `json:"dock_doors" binding:"gte=0"`
	ClearHeightFt       float64              `json:"clear_height_ft" binding:"gte=0"`
	HasSprinkler        bool                 `json:"has_sprinkler"`
	PowerAmps           int                  `json:"power_amps" binding:"gte=0"`
}

// SupplierToggleRequest is PATCH /api/supplier/warehouse/{id}/toggle's body
// (§6): on/off flips a TruthCore's ActivationStatus through the 48-hour
// grace-window rule.
type SupplierToggleRequest struct {
	Status models.ActivationStatus `json:"status" binding:"required,oneof=on off"`
}

// SettlementAcceptRequest is POST /api/admin/settlement/accept's body (§6):
// an admin promotes a scored Match into an active engagement.
type SettlementAcceptRequest struct {
	MatchID  string `json:"match_id" binding:"required"`
	DealType string `json:"deal_type" binding:"required,oneof=tour instant_book"`
}

// EngagementAcceptRequest is POST /api/engagements/{id}/accept's body (§6):
// the buyer commits to a path once a match is presented.
type EngagementAcceptRequest struct {
	Path models.EngagementPath `json:"path" binding:"required"`
}

// ReasonRequest carries an optional free-text reason — used by the
// admin-only cancel endpoint and the buyer/supplier decline endpoints.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// TourConfirmRequest is POST /api/engagements/{id}/tour/confirm's body.
type TourConfirmRequest struct {
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC3339
}

// TourRescheduleRequest is POST /api/engagements/{id}/tour/reschedule's body.
type TourRescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC3339
}

// DLARateRequest is POST /api/dla/{token}/rate's body — the supplier's
// countered rate in the DLA four-step flow (§4.1.2).
type DLARateRequest struct {
	RatePerSqft float64 `json:"rate_per_sqft" binding:"required,gt=0"`
}

// DLAAgreeRequest is POST /api/dla/{token}/agree's body: the supplier signs
// the network-membership agreement, converting the token into a Match.
type DLAAgreeRequest struct {
	TermsSnapshot map[string]any `json:"terms_snapshot" binding:"required"`
}

// DLAOutcomeRequest is POST /api/dla/{token}/outcome's body — a terminal
// decline/no-response disposition recorded against the token.
type DLAOutcomeRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=declined no_response"`
	Note    string `json:"note"`
}

// SMSInboundRequest is POST /api/sms/inbound's webhook body — an inbound
// text from a buyer or supplier phone number routed into the orchestrator.
type SMSInboundRequest struct {
	Phone string `json:"phone" binding:"required"`
	Body  string `json:"body" binding:"required"`
}
