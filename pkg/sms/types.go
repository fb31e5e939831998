// Package sms implements the per-inbound-message orchestrator pipeline
// (§4.3): a deterministic interpreter and gatekeepers bracketing two LLM
// passes (criteria planner, response agent), operating on one
// models.SMSConversationState keyed by phone number.
package sms

import (
	"time"

	"github.com/wex-clearinghouse/core/pkg/models"
)

// Intent is the criteria planner's classification of the buyer's turn.
type Intent string

const (
	IntentNewSearch     Intent = "new_search"
	IntentRefineSearch  Intent = "refine_search"
	IntentFacilityInfo  Intent = "facility_info"
	IntentTourRequest   Intent = "tour_request"
	IntentCommitment    Intent = "commitment"
	IntentProvideInfo   Intent = "provide_info"
	IntentGreeting      Intent = "greeting"
	IntentUnknown       Intent = "unknown"
)

// Action is the tool-execution step's dispatch key.
type Action string

const (
	ActionSearch            Action = "search"
	ActionLookup            Action = "lookup"
	ActionScheduleTour      Action = "schedule_tour"
	ActionCommitmentHandoff Action = "commitment_handoff"
	ActionCollectInfo       Action = "collect_info"
	ActionNone              Action = ""
)

// MessageInterpretation is the deterministic interpreter's structured
// extraction from one inbound message (§4.3 step 2).
type MessageInterpretation struct {
	Cities            []string
	States            []string
	Zipcodes          []string
	MinSqft           int
	MaxSqft           int
	TopicKeys         []string // property-attribute keys asked about: clear_height, dock_doors, power, ...
	FeatureKeywords   []string
	PositionalRef     int // 1-based ordinal ("option 2", "the first one"), 0 if none
	ActionKeywords    []string // book, tour, commitment
	Name              string
	Email             string
	ShowOptionsAgain  bool
	HasSearchData     bool // true if any city/state/zip/sqft signal was found
}

// PlannerOutput is the criteria planner LLM's structured response
// (§4.3 step 4), after deterministic post-hoc overrides are applied.
type PlannerOutput struct {
	Intent             Intent            `json:"intent"`
	Action             Action            `json:"action"`
	Criteria           models.Criteria   `json:"criteria"`
	ResolvedPropertyID string            `json:"resolved_property_id"`
	ExtractedName      string            `json:"extracted_name"`
	AskedFields        []string          `json:"asked_fields"`
	ClarificationNeeded bool             `json:"clarification_needed"`
	ResponseHint       string            `json:"response_hint"`
	Confidence         float64           `json:"confidence"`
}

// MatchSummary is the buyer-facing projection of a Match used in response
// context bundles and SearchSession replay (§4.3 step 6).
type MatchSummary struct {
	MatchID         string
	City            string
	State           string
	RatePerSqft     float64
	MonthlyEstimate float64
	Reasoning       string
}

// ToolResult is tool execution's output, feeding the response agent's
// context bundle (§4.3 step 6-7).
type ToolResult struct {
	Matches            []MatchSummary
	PropertyAnswers     map[string]string // topic -> answer, for lookup
	EscalatedQuestions  []string          // topics that had to be routed to the supplier
	GuaranteeLinkToken  string
	ResponseHint        string
	RetryHint           string
	NameCapturePrompt   bool
}

// PipelineResult is the outbound artifact of one ProcessInbound call.
type PipelineResult struct {
	ReplyBody string
	Rejected  bool // inbound gatekeeper rejected the message outright
	State     *models.SMSConversationState
}

// stallRuleTable maps a conversation phase to how long to wait before a
// reengagement nudge, per §4.3 step 9 ("a phase-keyed stall-rule table").
var stallRuleTable = map[models.ConversationPhase]time.Duration{
	models.PhaseIntake:           1 * time.Hour,
	models.PhaseQualifying:       2 * time.Hour,
	models.PhasePresenting:       24 * time.Hour,
	models.PhasePropertyFocused:  6 * time.Hour,
	models.PhaseAwaitingAnswer:   24 * time.Hour,
	models.PhaseCollectingInfo:   4 * time.Hour,
	models.PhaseCommitment:       2 * time.Hour,
	models.PhaseGuaranteePending: 12 * time.Hour,
	models.PhaseTourScheduling:   6 * time.Hour,
}

func nextReengagementAt(phase models.ConversationPhase, now time.Time) time.Time {
	delay, ok := stallRuleTable[phase]
	if !ok {
		delay = 24 * time.Hour
	}
	return now.Add(delay)
}
