package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wex-clearinghouse/core/pkg/llm"
	"github.com/wex-clearinghouse/core/pkg/models"
)

const plannerSystemPrompt = `You are the criteria-planning agent for a commercial warehouse
leasing SMS assistant. Given the buyer's message, the deterministic
interpretation, the conversation phase, prior criteria, and any presented
property summaries, classify the buyer's intent and decide what the
system should do next. Merge any new criteria into the prior criteria
rather than discarding what's already known. Respond with ONLY a JSON
object matching the given schema.`

// Plan runs the criteria-planner LLM pass (§4.3 step 4) and applies the
// deterministic post-hoc overrides the spec calls out explicitly. On LLM
// failure it degrades to a clarification-needed unknown-intent result
// rather than failing the turn.
func Plan(ctx context.Context, client llm.Client, state *models.SMSConversationState, interp *MessageInterpretation, resolvedPropertyID string) *PlannerOutput {
	prompt := buildPlannerPrompt(state, interp, resolvedPropertyID)

	out := llm.DegradeOnFailure(ctx,
		func(ctx context.Context) (*PlannerOutput, error) {
			raw, err := client.Generate(ctx, llm.Request{
				SystemPrompt: plannerSystemPrompt,
				UserPrompt:   prompt,
			})
			if err != nil {
				return nil, err
			}
			var parsed PlannerOutput
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return nil, fmt.Errorf("sms: parse planner response: %w", err)
			}
			return &parsed, nil
		},
		func(err error) *PlannerOutput {
			return &PlannerOutput{
				Intent:              IntentUnknown,
				Action:              ActionNone,
				Criteria:            state.Criteria,
				ClarificationNeeded: true,
				ResponseHint:        "couldn't process that — could you try again?",
			}
		},
	)

	applyPlannerOverrides(out, state, interp)
	return out
}

func buildPlannerPrompt(state *models.SMSConversationState, interp *MessageInterpretation, resolvedPropertyID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase=%s turn=%d\n", state.Phase, state.Turn)
	fmt.Fprintf(&b, "prior_criteria=%+v\n", state.Criteria)
	fmt.Fprintf(&b, "interpretation=%+v\n", interp)
	fmt.Fprintf(&b, "resolved_property_id=%s\n", resolvedPropertyID)
	fmt.Fprintf(&b, "presented_match_ids=%v\n", state.PresentedMatchIDs)
	if msg := state.LastInbound(); msg != nil {
		fmt.Fprintf(&b, "message=%q\n", msg.Body)
	}
	return b.String()
}

// applyPlannerOverrides implements §4.3 step 4's two named deterministic
// overrides: a greeting misclassification when the interpreter found
// hard search data, and the deal-breaker "no" answer marking
// requirements satisfied regardless of what the LLM returned.
func applyPlannerOverrides(out *PlannerOutput, state *models.SMSConversationState, interp *MessageInterpretation) {
	if interp.HasSearchData && out.Intent == IntentGreeting {
		out.Intent = IntentNewSearch
	}

	if state.Criteria.DealBreakerAsked && !state.Criteria.DealBreakerOK {
		lower := strings.ToLower(strings.TrimSpace(lastInboundBody(state)))
		if lower == "no" || strings.HasPrefix(lower, "no ") || strings.HasPrefix(lower, "nope") {
			out.Criteria.DealBreakerOK = true
		}
	}
}

func lastInboundBody(state *models.SMSConversationState) string {
	if msg := state.LastInbound(); msg != nil {
		return msg.Body
	}
	return ""
}
