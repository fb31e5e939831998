package models

import "time"

// UseType is a buyer's declared activity class, scored against a
// Warehouse's ActivityTier by pkg/usetype's compatibility matrix (§4.1.1).
type UseType string

const (
	UseTypeStorage             UseType = "storage"
	UseTypeOffice              UseType = "office"
	UseTypeStorageOffice       UseType = "storage_office"
	UseTypeEcommerceFulfillment UseType = "ecommerce_fulfillment"
	UseTypeColdStorage         UseType = "cold_storage"
	UseTypeFoodGrade           UseType = "food_grade"
	UseTypeManufacturingLight  UseType = "manufacturing_light"
	UseTypeGeneral             UseType = "general"
)

// BuyerNeed is a buyer's space requirement, the demand side of clearing
// (§3). RadiusMiles defaults to 25 at creation time.
type BuyerNeed struct {
	ID               string
	CompanyID        string
	CreatedBy        string
	City             string
	State            string
	Zipcode          string
	Lat              *float64
	Lng              *float64
	RadiusMiles      float64
	MinSqft          int
	MaxSqft          int
	UseType          UseType
	NeededFrom       time.Time
	DurationMonths   int
	MaxBudgetPerSqft *float64
	Requirements     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MatchStatus tracks a persisted Match's disposition.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusPresented MatchStatus = "presented"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusDeclined  MatchStatus = "declined"
)

// Match is a scored (BuyerNeed × Warehouse) pair, the output of the Clear
// operation. Invariant: MatchScore ∈ [0,100].
type Match struct {
	ID                  string
	BuyerNeedID         string
	WarehouseID         string
	Status              MatchStatus
	MatchScore          float64 // composite_score
	LocationScore       float64
	SizeScore           float64
	UseTypeScore        float64
	FeatureScore        float64
	TimingScore         float64
	BudgetScore         float64
	Reasoning           string // LLM feature-alignment rationale; the use-type callout on degrade
	InstantBookEligible bool
	WithinBudget        bool
	BuyerRatePerSqft    float64
	SupplierRatePerSqft float64
	DistanceMiles       float64
	CreatedAt           time.Time
}

// InstantBookScore is the 5-factor subscore row persisted alongside a
// Match (§4.1 step 4).
type InstantBookScore struct {
	MatchID                string
	TruthCoreCompleteness  int
	ContextualMemoryDepth  int
	SupplierTrustLevel     int
	MatchSpecificity       int
	FeatureAlignment       int
	ComputedAt             time.Time
}

// Composite is the unweighted mean of the five factors, used only as a
// display aggregate — it does not feed back into Match.MatchScore.
func (s *InstantBookScore) Composite() float64 {
	sum := s.TruthCoreCompleteness + s.ContextualMemoryDepth + s.SupplierTrustLevel +
		s.MatchSpecificity + s.FeatureAlignment
	return float64(sum) / 5
}

// MarketRateCache holds the last-known NNN rate range for a zipcode, with a
// 30-day TTL, consulted by both the synchronous rate estimator (§6) and the
// DLA rate-decision step (§4.1.2).
type MarketRateCache struct {
	Zipcode    string
	RateLow    float64
	RateHigh   float64
	UseType    UseType
	SampleSize int
	ComputedAt time.Time
	ExpiresAt  time.Time
}

// IsExpired reports whether the 30-day TTL has elapsed as of now.
func (m *MarketRateCache) IsExpired(now time.Time) bool {
	return now.After(m.ExpiresAt)
}

// PropertyQuestion is a buyer-asked question escalated to a supplier,
// answered into a PropertyKnowledgeEntry for reuse by later buyers.
type PropertyQuestion struct {
	ID               string
	WarehouseID      string
	EngagementID     string
	AskedBy          string
	Question         string
	RoutedToSupplierAt *time.Time
	SupplierDeadline *time.Time
	AnsweredAt       *time.Time
	Answer           string
	Status           string // pending|routed|answered|expired
	CreatedAt        time.Time
}

// PropertyKnowledgeEntry is a reusable supplier-sourced answer keyed by
// warehouse + normalized question topic.
type PropertyKnowledgeEntry struct {
	ID               string
	WarehouseID      string
	Topic            string
	Answer           string
	SourceQuestionID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
