package sms

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/clearing"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/engagement"
	"github.com/wex-clearinghouse/core/pkg/geocode"
	"github.com/wex-clearinghouse/core/pkg/models"
)

const searchSessionTTL = 48 * time.Hour

// Tools bundles every domain service the tool-execution step (§4.3 step
// 6) dispatches into. One instance is shared across all phone numbers;
// safety under concurrent phones comes from each dependency's own
// internal synchronization (DB transactions, geocode cache mutex).
type Tools struct {
	Geocode        *geocode.Client
	Clearing       *clearing.Engine
	Engagements    *engagement.Machine
	BuyerNeeds     *database.BuyerNeedRepository
	Matches        *database.MatchRepository
	Warehouses     *database.WarehouseRepository
	TruthCores     *database.TruthCoreRepository
	Questions      *database.PropertyQuestionRepository
	Knowledge      *database.PropertyKnowledgeEntryRepository
	EngagementRepo *database.EngagementRepository
}

// Execute dispatches on out.Action and mutates state in place, returning
// the context the response agent needs to build its reply (§4.3 step 6).
func (t *Tools) Execute(ctx context.Context, state *models.SMSConversationState, out *PlannerOutput) (*ToolResult, error) {
	switch out.Action {
	case ActionSearch:
		return t.executeSearch(ctx, state, out)
	case ActionLookup:
		return t.executeLookup(ctx, state, out)
	case ActionCommitmentHandoff:
		return t.executeCommitment(ctx, state, out)
	case ActionScheduleTour:
		return t.executeTour(ctx, state, out)
	case ActionCollectInfo:
		return &ToolResult{ResponseHint: out.ResponseHint}, nil
	default:
		return &ToolResult{ResponseHint: out.ResponseHint}, nil
	}
}

// RePresent re-fetches the currently presented matches for a "show me
// options again" short-circuit (§4.3 step 3), bypassing the planner and
// tool-dispatch steps entirely.
func (t *Tools) RePresent(ctx context.Context, state *models.SMSConversationState) (*ToolResult, error) {
	summaries := make([]MatchSummary, 0, len(state.PresentedMatchIDs))
	for _, id := range state.PresentedMatchIDs {
		m, err := t.Matches.Get(ctx, id)
		if err != nil {
			continue
		}
		w, err := t.Warehouses.Get(ctx, m.WarehouseID)
		if err != nil {
			continue
		}
		summaries = append(summaries, MatchSummary{
			MatchID: m.ID, City: w.City, State: w.State, RatePerSqft: m.BuyerRatePerSqft,
			Reasoning: m.Reasoning,
		})
	}
	return &ToolResult{Matches: summaries, ResponseHint: "re-presenting the previously shown options"}, nil
}

// executeSearch implements §4.3 step 6's two search branches: a full
// search when every qualifying field is present, or a suppressed search
// with a combined clarification question when only the three core
// fields have landed.
func (t *Tools) executeSearch(ctx context.Context, state *models.SMSConversationState, out *PlannerOutput) (*ToolResult, error) {
	criteria := &out.Criteria
	if !criteria.QualifyingComplete() {
		if !criteria.HasCoreFields() {
			return &ToolResult{ResponseHint: "still need your location, size, and intended use"}, nil
		}
		return &ToolResult{ResponseHint: "ask for timing, duration, and any deal-breakers in one message"}, nil
	}

	query := criteria.City
	if criteria.Zipcode != "" {
		query = criteria.Zipcode
	}
	geoResult, err := t.Geocode.Resolve(ctx, query)
	if err != nil {
		return &ToolResult{ResponseHint: "couldn't place that location — ask for a city or zip"}, nil
	}

	need := &models.BuyerNeed{
		ID: uuid.NewString(), City: criteria.City, State: criteria.State, Zipcode: criteria.Zipcode,
		Lat: &geoResult.Lat, Lng: &geoResult.Lng, RadiusMiles: 50,
		MinSqft: criteria.MinSqft, MaxSqft: criteria.MaxSqft, UseType: criteria.UseType,
		NeededFrom: valueOrNow(criteria.NeededFrom), DurationMonths: criteria.DurationMonths,
		Requirements: criteria.Requirements,
	}
	if err := t.BuyerNeeds.Create(ctx, need); err != nil {
		return nil, fmt.Errorf("sms: create buyer need: %w", err)
	}

	result, err := t.Clearing.Clear(ctx, need.ID)
	if err != nil {
		return nil, fmt.Errorf("sms: clear buyer need: %w", err)
	}

	summaries := make([]MatchSummary, 0, len(result.Tier1))
	ids := make([]string, 0, len(result.Tier1))
	for _, m := range result.Tier1 {
		w, werr := t.Warehouses.Get(ctx, m.WarehouseID)
		if werr != nil {
			continue
		}
		summaries = append(summaries, MatchSummary{
			MatchID: m.ID, City: w.City, State: w.State, RatePerSqft: m.BuyerRatePerSqft,
			MonthlyEstimate: m.BuyerRatePerSqft * float64(criteria.MaxSqft) / 12,
			Reasoning: m.Reasoning,
		})
		ids = append(ids, m.ID)
	}

	state.PresentedMatchIDs = ids
	state.SearchSessionToken = newOpaqueToken()
	expiresAt := time.Now().UTC().Add(searchSessionTTL)
	state.SearchSessionExpiresAt = &expiresAt
	state.Phase = models.PhasePresenting

	return &ToolResult{Matches: summaries}, nil
}

// executeLookup implements §4.3 step 6's property-attribute fetch,
// falling back to escalating unanswered topics to the supplier.
func (t *Tools) executeLookup(ctx context.Context, state *models.SMSConversationState, out *PlannerOutput) (*ToolResult, error) {
	if out.ResolvedPropertyID == "" {
		return &ToolResult{ResponseHint: "ask which property they mean"}, nil
	}
	m, err := t.Matches.Get(ctx, out.ResolvedPropertyID)
	if err != nil {
		return &ToolResult{ResponseHint: "that property isn't in this conversation anymore"}, nil
	}

	answers := map[string]string{}
	var escalated []string
	for _, topic := range out.AskedFields {
		entry, err := t.Knowledge.GetByTopic(ctx, m.WarehouseID, topic)
		if err == nil {
			answers[topic] = entry.Answer
			continue
		}
		q := &models.PropertyQuestion{
			ID: uuid.NewString(), WarehouseID: m.WarehouseID, EngagementID: state.EngagementID,
			AskedBy: state.Phone, Question: topic, Status: "pending",
		}
		now := time.Now().UTC()
		deadline := now.Add(24 * time.Hour)
		q.RoutedToSupplierAt, q.SupplierDeadline = &now, &deadline
		q.Status = "routed"
		if cerr := t.Questions.Create(ctx, q); cerr == nil {
			escalated = append(escalated, topic)
		}
	}

	state.FocusedMatchID = out.ResolvedPropertyID
	state.Phase = models.PhasePropertyFocused
	if len(escalated) > 0 {
		state.Phase = models.PhaseAwaitingAnswer
	}
	return &ToolResult{PropertyAnswers: answers, EscalatedQuestions: escalated}, nil
}

// executeCommitment implements §4.3 step 6's commitment-handoff branch:
// an Engagement is opened at buyer_accepted and a guarantee link token
// is minted (the buyer signs the guarantee outside the SMS channel).
func (t *Tools) executeCommitment(ctx context.Context, state *models.SMSConversationState, out *PlannerOutput) (*ToolResult, error) {
	if state.RenterFirstName == "" || state.BuyerEmail == "" {
		return &ToolResult{NameCapturePrompt: state.RenterFirstName == "", ResponseHint: "need name and email before we can move forward"}, nil
	}
	if state.FocusedMatchID == "" {
		return &ToolResult{ResponseHint: "ask which property they want to commit to"}, nil
	}

	m, err := t.Matches.Get(ctx, state.FocusedMatchID)
	if err != nil {
		return nil, fmt.Errorf("sms: load focused match: %w", err)
	}

	e := &models.Engagement{
		ID: uuid.NewString(), MatchID: m.ID, BuyerNeedID: m.BuyerNeedID, WarehouseID: m.WarehouseID,
		Status: models.StateBuyerAccepted, Path: models.PathTour,
		SupplierRatePerSqft: m.SupplierRatePerSqft, BuyerRatePerSqft: m.BuyerRatePerSqft,
	}
	if m.InstantBookEligible {
		e.Path = models.PathInstantBook
	}
	if err := t.EngagementRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("sms: create engagement: %w", err)
	}

	state.EngagementID = e.ID
	state.GuaranteeLinkToken = newOpaqueToken()
	state.Phase = models.PhaseGuaranteePending

	return &ToolResult{GuaranteeLinkToken: state.GuaranteeLinkToken}, nil
}

// executeTour implements §4.3 step 6's tour-scheduling branch: a live
// engagement transitions to tour_requested via the state machine.
func (t *Tools) executeTour(ctx context.Context, state *models.SMSConversationState, out *PlannerOutput) (*ToolResult, error) {
	if state.EngagementID == "" {
		return &ToolResult{ResponseHint: "no active engagement to schedule a tour for"}, nil
	}
	_, err := t.Engagements.Transition(ctx, engagement.Request{
		EngagementID: state.EngagementID, Actor: models.ActorBuyer, ActorID: state.Phone,
		To: models.StateTourRequested,
	})
	if err != nil {
		return &ToolResult{ResponseHint: "couldn't schedule a tour right now"}, nil
	}
	state.Phase = models.PhaseTourScheduling
	return &ToolResult{}, nil
}

func valueOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now().UTC()
}

func newOpaqueToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
