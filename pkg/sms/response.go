package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/wex-clearinghouse/core/pkg/llm"
	"github.com/wex-clearinghouse/core/pkg/models"
)

const responseSystemPrompt = `You are the reply-drafting agent for a commercial warehouse leasing
SMS assistant. Write one SMS reply given the conversation state, the
presented matches, any property data, the action just taken, the
message history, and the response/retry hints provided. Be concise and
concrete. Never include a phone number or email address of your own.`

const maxPolisherIterations = 3

// GenerateResponse builds the context bundle and runs the response agent
// (§4.3 step 7), short-circuiting greeting intents to a deterministic
// fallback. The raw candidate is NOT yet gatekept — the caller runs it
// through the outbound gatekeeper/polisher loop.
func GenerateResponse(ctx context.Context, client llm.Client, state *models.SMSConversationState, planned *PlannerOutput, tool *ToolResult) string {
	if planned.Intent == IntentGreeting {
		return greetingFallback(state)
	}

	prompt := buildResponsePrompt(state, planned, tool, "")
	return llm.DegradeOnFailure(ctx,
		func(ctx context.Context) (string, error) {
			raw, err := client.Generate(ctx, llm.Request{SystemPrompt: responseSystemPrompt, UserPrompt: prompt})
			if err != nil {
				return "", err
			}
			return strings.Trim(string(raw), "\""), nil
		},
		func(err error) string { return fallbackTemplate(state, planned, tool) },
	)
}

// PolishAndGate runs the outbound gatekeeper + polisher retry loop (§4.3
// step 8): up to maxPolisherIterations of polisher LLM → gatekeeper, then
// a deterministic trimmed fallback if every attempt still fails.
func PolishAndGate(ctx context.Context, client llm.Client, candidate string, gctx outboundContext, state *models.SMSConversationState, planned *PlannerOutput, tool *ToolResult) string {
	body := candidate
	retryHint := ""
	for i := 0; i < maxPolisherIterations; i++ {
		reason := OutboundGatekeeperReject(body, gctx)
		if reason == "" {
			return body
		}
		retryHint = reason
		body = llm.DegradeOnFailure(ctx,
			func(ctx context.Context) (string, error) {
				prompt := buildResponsePrompt(state, planned, tool, retryHint)
				raw, err := client.Generate(ctx, llm.Request{SystemPrompt: responseSystemPrompt, UserPrompt: prompt})
				if err != nil {
					return "", err
				}
				return strings.Trim(string(raw), "\""), nil
			},
			func(err error) string { return body },
		)
	}
	if reason := OutboundGatekeeperReject(body, gctx); reason == "" {
		return body
	}

	limit := outboundMaxChars
	if gctx.IsFirstMessage {
		limit = outboundMaxCharsFirstMsg
	}
	return trimToBoundary(fallbackTemplate(state, planned, tool), limit)
}

func buildResponsePrompt(state *models.SMSConversationState, planned *PlannerOutput, tool *ToolResult, retryHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase=%s intent=%s action=%s\n", state.Phase, planned.Intent, planned.Action)
	fmt.Fprintf(&b, "matches=%+v\n", tool.Matches)
	fmt.Fprintf(&b, "property_answers=%+v\n", tool.PropertyAnswers)
	fmt.Fprintf(&b, "response_hint=%s\n", tool.ResponseHint)
	if retryHint != "" {
		fmt.Fprintf(&b, "retry_hint=%s\n", retryHint)
	}
	if tool.NameCapturePrompt {
		b.WriteString("name_capture_prompt=true\n")
	}
	for _, msg := range lastN(state.Transcript, 6) {
		fmt.Fprintf(&b, "%s: %s\n", msg.Direction, msg.Body)
	}
	return b.String()
}

func greetingFallback(state *models.SMSConversationState) string {
	return "Hi! I help find warehouse space. What city, size, and use are you looking for?"
}

// fallbackTemplate is the deterministic reply used when the response
// agent's LLM pass fails entirely or the polisher loop exhausts its
// retries (§4.3 step 7-8).
func fallbackTemplate(state *models.SMSConversationState, planned *PlannerOutput, tool *ToolResult) string {
	if len(tool.Matches) > 0 {
		return fmt.Sprintf("I found %d properties that match what you're looking for. Want details on any of them?", len(tool.Matches))
	}
	if tool.ResponseHint != "" {
		return tool.ResponseHint
	}
	return "Got it — let me know the city, size, and use, and I'll start looking."
}

func lastN(msgs []models.SMSMessage, n int) []models.SMSMessage {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
