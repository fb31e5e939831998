package models

import "time"

// ConversationPhase is the SMSConversationState's pipeline phase (§3).
type ConversationPhase string

const (
	PhaseIntake          ConversationPhase = "INTAKE"
	PhaseQualifying      ConversationPhase = "QUALIFYING"
	PhasePresenting      ConversationPhase = "PRESENTING"
	PhasePropertyFocused ConversationPhase = "PROPERTY_FOCUSED"
	PhaseAwaitingAnswer  ConversationPhase = "AWAITING_ANSWER"
	PhaseCollectingInfo  ConversationPhase = "COLLECTING_INFO"
	PhaseCommitment      ConversationPhase = "COMMITMENT"
	PhaseGuaranteePending ConversationPhase = "GUARANTEE_PENDING"
	PhaseTourScheduling  ConversationPhase = "TOUR_SCHEDULING"
)

// NameStatus tracks whether the buyer's name has been asked for, given,
// or never needed.
type NameStatus string

const (
	NameStatusUnknown   NameStatus = "unknown"
	NameStatusRequested NameStatus = "requested"
	NameStatusCaptured  NameStatus = "captured"
)

// SMSDirection is inbound (from the phone) or outbound (to the phone).
type SMSDirection string

const (
	SMSInbound  SMSDirection = "inbound"
	SMSOutbound SMSDirection = "outbound"
)

// SMSMessage is one line of a conversation transcript.
type SMSMessage struct {
	Direction SMSDirection
	Body      string
	SentAt    time.Time
}

// Criteria is the buyer's accumulated, merged search criteria, built up
// turn by turn by the criteria planner (§4.3 step 4).
type Criteria struct {
	City             string
	State            string
	Zipcode          string
	MinSqft          int
	MaxSqft          int
	UseType          UseType
	Features         []string
	GoodsType        string
	NeededFrom       *time.Time
	DurationMonths   int
	Requirements     string
	DealBreakerAsked bool
	DealBreakerOK    bool
}

// ReadinessScore computes the weighted readiness fraction from §4.3 step 5.
// Core fields (location, sqft, use_type) must together reach ≥0.8 before a
// search is allowed to fire.
func (c *Criteria) ReadinessScore() float64 {
	var score float64
	if c.City != "" || c.Zipcode != "" {
		score += 0.30
	}
	if c.MinSqft > 0 || c.MaxSqft > 0 {
		score += 0.25
	}
	if c.UseType != "" {
		score += 0.25
	}
	if len(c.Features) > 0 {
		score += 0.10
	}
	if c.GoodsType != "" {
		score += 0.10
	}
	if c.NeededFrom != nil {
		score += 0.10
	}
	if c.DurationMonths > 0 {
		score += 0.10
	}
	if c.Requirements != "" {
		score += 0.10
	}
	if score > 1 {
		score = 1
	}
	return score
}

// HasCoreFields reports whether location+sqft+use_type are all present.
func (c *Criteria) HasCoreFields() bool {
	return (c.City != "" || c.Zipcode != "") && (c.MinSqft > 0 || c.MaxSqft > 0) && c.UseType != ""
}

// QualifyingComplete reports whether timing, duration, and the
// deal-breaker question are all resolved, per §4.3 step 5.
func (c *Criteria) QualifyingComplete() bool {
	return c.NeededFrom != nil && c.DurationMonths > 0 && c.DealBreakerAsked
}

// SMSConversationState is the per-phone-number conversation record the
// orchestrator's agents read and mutate. Access must be serialized per
// Phone by the orchestrator's mutex registry — never by two goroutines at
// once (§4.3 Concurrency).
type SMSConversationState struct {
	Phone                string
	Phase                ConversationPhase
	Turn                 int
	Criteria             Criteria
	PresentedMatchIDs    []string
	FocusedMatchID       string
	RenterFirstName      string
	RenterLastName       string
	BuyerEmail           string
	EngagementID         string
	GuaranteeLinkToken   string
	SearchSessionToken   string
	SearchSessionExpiresAt *time.Time
	NameStatus           NameStatus
	NameRequestedAtTurn  int
	NextReengagementAt   *time.Time
	ReengageAttempt      int
	Transcript           []SMSMessage
	UpdatedAt            time.Time
}

// LastInbound returns the most recent inbound message, or nil.
func (s *SMSConversationState) LastInbound() *SMSMessage {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Direction == SMSInbound {
			return &s.Transcript[i]
		}
	}
	return nil
}
