package sms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/llm"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// Orchestrator runs the full per-message pipeline (§4.3). One instance is
// shared across every phone number; PhoneLock serializes turns for a
// single phone while leaving every other phone free to run concurrently.
type Orchestrator struct {
	States *database.SMSConversationStateRepository
	Tools  *Tools
	LLM    llm.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrchestrator constructs an Orchestrator from its dependencies.
func NewOrchestrator(states *database.SMSConversationStateRepository, tools *Tools, client llm.Client) *Orchestrator {
	return &Orchestrator{States: states, Tools: tools, LLM: client, locks: make(map[string]*sync.Mutex)}
}

// phoneLock returns the mutex for one phone number, creating it on first
// use. The registry itself is protected by o.mu, kept only for the very
// short critical section of map access.
func (o *Orchestrator) phoneLock(phone string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[phone]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[phone] = lock
	}
	return lock
}

// ProcessInbound runs one inbound message through the full pipeline —
// gatekeeper, interpreter, resolver, planner, tools, response agent,
// outbound gatekeeper/polisher — and persists the updated conversation
// state (§4.3 steps 1-9). Exactly one call per phone number executes at
// a time; concurrent calls for other phones proceed independently.
func (o *Orchestrator) ProcessInbound(ctx context.Context, phone, body string) (*PipelineResult, error) {
	lock := o.phoneLock(phone)
	lock.Lock()
	defer lock.Unlock()

	if InboundGatekeeperReject(body) {
		return &PipelineResult{Rejected: true}, nil
	}

	state, err := o.loadOrCreateState(ctx, phone)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	state.Transcript = append(state.Transcript, models.SMSMessage{Direction: models.SMSInbound, Body: body, SentAt: now})
	state.Turn++
	isFirstMessage := state.Turn == 1

	interp := Interpret(body)

	var planned *PlannerOutput
	var tool *ToolResult
	if interp.ShowOptionsAgain && len(state.PresentedMatchIDs) > 0 {
		planned = &PlannerOutput{Intent: IntentRefineSearch, Action: ActionNone, Criteria: state.Criteria}
		var rerr error
		tool, rerr = o.Tools.RePresent(ctx, state)
		if rerr != nil {
			return nil, rerr
		}
	} else {
		resolvedID := ResolvePropertyReference(state, interp)
		planned = Plan(ctx, o.LLM, state, interp, resolvedID)
		planned.Criteria = mergeCriteria(state.Criteria, planned.Criteria, interp)
		state.Criteria = planned.Criteria

		if planned.ExtractedName != "" && state.RenterFirstName == "" {
			state.RenterFirstName = planned.ExtractedName
			state.NameStatus = models.NameStatusCaptured
		}

		var terr error
		tool, terr = o.Tools.Execute(ctx, state, planned)
		if terr != nil {
			return nil, terr
		}
	}

	reply := GenerateResponse(ctx, o.LLM, state, planned, tool)
	gctx := outboundContext{
		IsFirstMessage:   isFirstMessage,
		IsCommitment:     planned.Action == ActionCommitmentHandoff,
		IsTourRelated:    planned.Action == ActionScheduleTour,
		IsAwaitingAnswer: state.Phase == models.PhaseAwaitingAnswer,
	}
	reply = PolishAndGate(ctx, o.LLM, reply, gctx, state, planned, tool)

	state.Transcript = append(state.Transcript, models.SMSMessage{Direction: models.SMSOutbound, Body: reply, SentAt: time.Now().UTC()})
	next := nextReengagementAt(state.Phase, time.Now().UTC())
	state.NextReengagementAt = &next
	state.UpdatedAt = time.Now().UTC()

	if err := o.States.Upsert(ctx, state); err != nil {
		return nil, err
	}
	return &PipelineResult{ReplyBody: reply, State: state}, nil
}

func (o *Orchestrator) loadOrCreateState(ctx context.Context, phone string) (*models.SMSConversationState, error) {
	state, err := o.States.Get(ctx, phone)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, apierr.ErrNotFound) {
		return &models.SMSConversationState{
			Phone: phone, Phase: models.PhaseIntake, NameStatus: models.NameStatusUnknown,
		}, nil
	}
	return nil, err
}

// mergeCriteria layers the planner's freshly merged criteria over the
// prior state, never letting a blank planner field erase an already-known
// value — the planner is instructed to merge itself, but deterministic
// defense-in-depth costs nothing here.
func mergeCriteria(prior, planned models.Criteria, interp *MessageInterpretation) models.Criteria {
	out := planned
	if out.City == "" {
		out.City = prior.City
	}
	if out.State == "" {
		out.State = prior.State
	}
	if out.Zipcode == "" {
		out.Zipcode = prior.Zipcode
	}
	if out.MinSqft == 0 {
		out.MinSqft = prior.MinSqft
	}
	if out.MaxSqft == 0 {
		out.MaxSqft = prior.MaxSqft
	}
	if out.UseType == "" {
		out.UseType = prior.UseType
	}
	if len(out.Features) == 0 {
		out.Features = prior.Features
	}
	if out.GoodsType == "" {
		out.GoodsType = prior.GoodsType
	}
	if out.NeededFrom == nil {
		out.NeededFrom = prior.NeededFrom
	}
	if out.DurationMonths == 0 {
		out.DurationMonths = prior.DurationMonths
	}
	if out.Requirements == "" {
		out.Requirements = prior.Requirements
	}
	if !out.DealBreakerAsked {
		out.DealBreakerAsked = prior.DealBreakerAsked
	}
	return out
}
