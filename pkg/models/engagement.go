package models

import "time"

// EngagementState is one of the states in the lifecycle state machine
// (§4.2). Values are the wire/DB representation, taken verbatim from the
// source's own state list.
type EngagementState string

const (
	StateDealPingSent          EngagementState = "deal_ping_sent"
	StateDealPingAccepted      EngagementState = "deal_ping_accepted"
	StateDealPingDeclined      EngagementState = "deal_ping_declined"
	StateDealPingExpired       EngagementState = "deal_ping_expired"
	StateMatched               EngagementState = "matched"
	StateBuyerReviewing        EngagementState = "buyer_reviewing"
	StateBuyerAccepted         EngagementState = "buyer_accepted"
	StateContactCaptured       EngagementState = "contact_captured"
	StateAccountCreated        EngagementState = "account_created"
	StateGuaranteeSigned       EngagementState = "guarantee_signed"
	StateAddressRevealed       EngagementState = "address_revealed"
	StateTourRequested         EngagementState = "tour_requested"
	StateTourConfirmed         EngagementState = "tour_confirmed"
	StateTourRescheduled       EngagementState = "tour_rescheduled"
	StateTourCompleted         EngagementState = "tour_completed"
	StateInstantBookRequested  EngagementState = "instant_book_requested"
	StateInstantBookConfirmed  EngagementState = "instant_book_confirmed"
	StateBuyerConfirmed        EngagementState = "buyer_confirmed"
	StateAgreementSent         EngagementState = "agreement_sent"
	StateAgreementSigned       EngagementState = "agreement_signed"
	StateOnboarding            EngagementState = "onboarding"
	StateActive                EngagementState = "active"
	StateCompleted             EngagementState = "completed"
	StateDeclinedByBuyer       EngagementState = "declined_by_buyer"
	StateDeclinedBySupplier    EngagementState = "declined_by_supplier"
	StateExpired               EngagementState = "expired"
	StateCancelled             EngagementState = "cancelled"
)

// TerminalStates is the fixed set of states no transition may leave.
var TerminalStates = map[EngagementState]bool{
	StateDealPingDeclined:   true,
	StateDealPingExpired:    true,
	StateDeclinedByBuyer:    true,
	StateDeclinedBySupplier: true,
	StateExpired:            true,
	StateCancelled:          true,
	StateCompleted:          true,
}

// IsTerminal reports whether s is a terminal state.
func (s EngagementState) IsTerminal() bool {
	return TerminalStates[s]
}

// Actor identifies who may initiate a transition.
type Actor string

const (
	ActorBuyer    Actor = "buyer"
	ActorSupplier Actor = "supplier"
	ActorSystem   Actor = "system"
	ActorAdmin    Actor = "admin"
)

// EngagementPath is the buyer's chosen conversion path (§6 accept endpoint).
type EngagementPath string

const (
	PathTour        EngagementPath = "tour"
	PathInstantBook EngagementPath = "instant_book"
)

// Engagement is the central lifecycle object bridging a Match to an active
// lease. CurrentState must only ever change via engagement.Machine.Transition,
// atomically with its EngagementEvent audit row.
type Engagement struct {
	ID           string
	MatchID      string
	BuyerNeedID  string
	WarehouseID  string
	Status       EngagementState
	Path         EngagementPath
	TourRescheduleCount int
	AdminFlagged bool

	SupplierRatePerSqft float64 // snapshotted at match time
	BuyerRatePerSqft    float64

	InsuranceUploaded    bool
	CompanyDocsUploaded  bool
	PaymentMethodAdded   bool

	DeclineReason string
	CancelReason  string

	DealPingSentAt      *time.Time
	DealPingExpiresAt   *time.Time
	TourRequestedAt     *time.Time
	TourConfirmedAt     *time.Time
	TourCompletedAt     *time.Time
	GuaranteeSignedAt   *time.Time
	AddressRevealedAt   *time.Time
	AgreementSentAt     *time.Time
	AgreementSignedAt   *time.Time
	LeaseStartDate      *time.Time
	LeaseEndDate         *time.Time

	Version   int // optimistic-concurrency guard, bumped every transition
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EngagementEventType names the audit/side-effect event kinds the
// scheduler and state machine both emit — distinct from the transition's
// from/to state pair, since several events (reminders, admin notes) don't
// correspond to a state change at all.
type EngagementEventType string

const (
	EventTypeTransition      EngagementEventType = "transition"
	EventTypeReminderSent    EngagementEventType = "reminder_sent"
	EventTypeAdminNote       EngagementEventType = "admin_note"
	EventTypeLeaseActivated  EngagementEventType = "lease_activated"
)

// EngagementEvent is an append-only audit row: one per successful
// transition or scheduler side-effect, written in the same transaction as
// the mutation it records.
type EngagementEvent struct {
	ID           string
	EngagementID string
	EventType    EngagementEventType
	FromStatus   EngagementState
	ToStatus     EngagementState
	Actor        Actor
	ActorID      string
	Data         map[string]any
	CreatedAt    time.Time
}

// EngagementAgreement is the per-engagement dual-sign lease agreement.
type EngagementAgreement struct {
	ID                  string
	EngagementID        string
	Version             int
	BuyerRatePerSqft     float64
	SupplierRatePerSqft  float64
	TermsSnapshot        map[string]any
	BuyerSignedAt        *time.Time
	SupplierSignedAt     *time.Time
	ExpiresAt            time.Time
	CreatedAt            time.Time
}

// IsFullySigned is the guard precondition for agreement_sent →
// agreement_signed.
func (a *EngagementAgreement) IsFullySigned() bool {
	return a.BuyerSignedAt != nil && a.SupplierSignedAt != nil
}

// PaymentLegStatus is buyer-side or supplier-side settlement status,
// tracked independently per §3.
type PaymentLegStatus string

const (
	PaymentLegUpcoming PaymentLegStatus = "upcoming"
	PaymentLegInvoiced PaymentLegStatus = "invoiced"
	PaymentLegPaid     PaymentLegStatus = "paid"
	PaymentLegFailed   PaymentLegStatus = "failed"
)

// PaymentRecord is one generated, idempotent billing obligation per
// engagement per billing period. Idempotency key is (EngagementID,
// PeriodStart).
type PaymentRecord struct {
	ID             string
	EngagementID   string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	BuyerAmount    float64
	SupplierAmount float64
	WexAmount      float64 // = BuyerAmount - SupplierAmount
	BuyerStatus    PaymentLegStatus
	SupplierStatus PaymentLegStatus
	DueAt          time.Time
	CreatedAt      time.Time
}

// DLATokenStatus tracks an opaque demand-led-activation invite through its
// 48-hour TTL (§3).
type DLATokenStatus string

const (
	DLATokenPending     DLATokenStatus = "pending"
	DLATokenInterested  DLATokenStatus = "interested"
	DLATokenRateDecided DLATokenStatus = "rate_decided"
	DLATokenConfirmed   DLATokenStatus = "confirmed"
	DLATokenDeclined    DLATokenStatus = "declined"
	DLATokenExpired     DLATokenStatus = "expired"
)

// DLAToken is the opaque 32-char hex token driving the supplier-facing
// demand-led-activation flow (§4.1.2).
type DLAToken struct {
	Token                string
	WarehouseID          string
	BuyerNeedID          string
	Status               DLATokenStatus
	SuggestedRatePerSqft float64
	ConfirmedRatePerSqft *float64
	ExpiresAt            time.Time
	ConfirmedAt          *time.Time
	CreatedAt            time.Time
}

// IsExpired reports whether the token's TTL has elapsed while still
// pending/interested/rate_decided (i.e. not yet resolved).
func (t *DLAToken) IsExpired(now time.Time) bool {
	unresolved := t.Status == DLATokenPending || t.Status == DLATokenInterested || t.Status == DLATokenRateDecided
	return unresolved && now.After(t.ExpiresAt)
}
