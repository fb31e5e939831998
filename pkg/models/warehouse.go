// Package models holds the plain data structures for every entity named in
// the data model: warehouses and their truth cores, buyer demand, matches,
// engagements and their audit trail, payments, SMS conversation state, and
// demand-led activation tokens. These are persistence-agnostic; repositories
// in pkg/database scan rows into them directly.
package models

import "time"

// SupplierStatus is the network-membership state of a Warehouse (§3).
type SupplierStatus string

const (
	SupplierStatusThirdParty    SupplierStatus = "third_party"
	SupplierStatusEarncheckOnly SupplierStatus = "earncheck_only"
	SupplierStatusInterested    SupplierStatus = "interested"
	SupplierStatusInNetwork     SupplierStatus = "in_network"
	SupplierStatusDeclined      SupplierStatus = "declined"
	SupplierStatusUnresponsive  SupplierStatus = "unresponsive"
)

// Warehouse is a physical building. Identity is immutable; supplier_status
// tracks its relationship to the network. Authorization always flows
// through the owning Company — CreatedBy is audit-only.
type Warehouse struct {
	ID               string
	CompanyID        string
	CreatedBy        string
	Address          string
	City             string
	State            string
	Zipcode          string
	Lat              *float64
	Lng              *float64
	BuildingSizeSqft int
	YearBuilt        *int
	Gallery          []string
	Phone            string
	SupplierStatus   SupplierStatus
	LastOutreachAt   *time.Time
	OutreachCount    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasCoordinates reports whether the warehouse has a usable lat/lng pair.
func (w *Warehouse) HasCoordinates() bool {
	return w.Lat != nil && w.Lng != nil
}

// ActivationStatus is whether a TruthCore is live for matching.
type ActivationStatus string

const (
	ActivationOn  ActivationStatus = "on"
	ActivationOff ActivationStatus = "off"
)

// ActivityTier is the warehouse's capability class (§4.1.1).
type ActivityTier string

const (
	TierStorageOnly          ActivityTier = "storage_only"
	TierStorageOffice        ActivityTier = "storage_office"
	TierStorageLightAssembly ActivityTier = "storage_light_assembly"
	TierColdStorage          ActivityTier = "cold_storage"
)

// TrustLevel is a coarse supplier-trust bucket feeding InstantBookScore.
type TrustLevel string

const (
	TrustLevelUnverified TrustLevel = "unverified"
	TrustLevelVerified   TrustLevel = "verified"
	TrustLevelPreferred  TrustLevel = "preferred"
)

// TruthCore is the mutable, 1:1 listing attached to a Warehouse once
// activated. Eligible for Tier-1 matching only when ActivationStatus is on
// AND the owning Warehouse's SupplierStatus is in_network.
type TruthCore struct {
	WarehouseID         string
	MinSqft             int
	MaxSqft             int
	ActivityTier        ActivityTier
	HasOfficeSpace      bool
	AvailableFrom       time.Time
	SupplierRatePerSqft float64 // monthly $/sqft, supplier side
	ActivationStatus    ActivationStatus
	TrustLevel          TrustLevel
	DockDoors           int
	ClearHeightFt       float64
	HasSprinkler        bool
	PowerAmps           int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsEligibleForTier1 implements the invariant in spec.md §3.
func (tc *TruthCore) IsEligibleForTier1(w *Warehouse) bool {
	return tc.ActivationStatus == ActivationOn && w.SupplierStatus == SupplierStatusInNetwork
}

// ToggleHistory records a TruthCore.ActivationStatus flip for the 48-hour
// grace-window toggle endpoint (§6 PATCH .../toggle).
type ToggleHistory struct {
	ID                 string
	WarehouseID        string
	FromStatus         ActivationStatus
	ToStatus           ActivationStatus
	ActorID            string
	InFlightMatchCount int
	GracePeriodEndsAt  time.Time
	CreatedAt          time.Time
}

// SupplierAgreement is the one-time network-membership agreement signed on
// activation (distinct from the per-engagement EngagementAgreement).
type SupplierAgreement struct {
	ID            string
	WarehouseID   string
	CompanyID     string
	Version       string
	TermsSnapshot map[string]any
	SignedAt      time.Time
	CreatedAt     time.Time
}

// ContextualMemoryKind classifies a learning note on a warehouse.
type ContextualMemoryKind string

const (
	MemoryDLADeclined   ContextualMemoryKind = "dla_declined"
	MemoryDLAExpired    ContextualMemoryKind = "dla_expired"
	MemoryDLANoResponse ContextualMemoryKind = "dla_no_response"
	MemoryDLAActivated  ContextualMemoryKind = "dla_activated"
	MemoryRateFloor     ContextualMemoryKind = "rate_floor_indicated"
)

// ContextualMemory is a per-warehouse learning record: DLA outcomes and
// rate signals that future routing and the LLM feature-alignment pass
// read back (§4.1.2).
type ContextualMemory struct {
	ID          string
	WarehouseID string
	Kind        ContextualMemoryKind
	Note        string
	Data        map[string]any
	CreatedAt   time.Time
}
