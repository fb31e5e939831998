// Package llm defines the narrow, black-box contract every LLM-backed
// pass in this service calls through: the feature-alignment re-scoring
// pass (pkg/scoring), and the SMS criteria planner and response agent
// (pkg/sms). Every caller treats the provider as "a text/JSON generator
// with a defined failure mode" (§1) — it never streams, never exposes
// provider-specific types, and always has a documented degrade path.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wex-clearinghouse/core/pkg/config"
)

// Client is the Go-side interface every LLM-backed pass calls through.
// Generate blocks until the provider responds, times out, or the caller's
// context is cancelled — there is no streaming surface to this service.
type Client interface {
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
}

// Request is a single-shot prompt/response exchange. ResponseSchema, when
// set, is passed to providers that support constrained/structured output;
// callers that don't need it may leave it nil and parse Generate's raw
// JSON themselves.
type Request struct {
	SystemPrompt   string
	UserPrompt     string
	ResponseSchema json.RawMessage
}

// httpClient is the default Client implementation: a thin JSON-over-HTTP
// caller against an OpenAI-compatible chat completions endpoint, the
// simplest concrete shape that satisfies "black-box generator" for every
// provider in config.LLMConfig.Provider.
type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a Client from LLM configuration. The per-call timeout
// is cfg.TimeoutSeconds clamped to [30,90]. If cfg.BaseURL is empty the
// returned client's Generate always returns a plain error immediately —
// refusing to dial an unconfigured provider rather than blocking on a DNS
// failure.
func NewClient(cfg config.LLMConfig, apiKey string) Client {
	timeout := cfg.TimeoutSeconds
	if timeout < 30 {
		timeout = 30
	} else if timeout > 90 {
		timeout = 90
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate issues one request and returns the provider's raw JSON content.
// Any of {BaseURL unset, network error, non-2xx status, body not JSON} is
// surfaced as a plain Go error; callers decide for themselves whether that
// warrants a degrade path (see DegradeOnFailure).
func (c *httpClient) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("llm: no provider configured")
	}

	body, err := json.Marshal(chatRequest{Messages: []chatMessage{
		{Role: "system", Content: req.SystemPrompt},
		{Role: "user", Content: req.UserPrompt},
	}})
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm: provider returned status %d: %s", resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("llm: parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("llm: empty response")
	}
	return json.RawMessage(parsed.Choices[0].Message.Content), nil
}

// DegradeOnFailure runs generate and, on any error — timeout, cancellation,
// or provider failure alike — calls onDegrade instead of propagating.
// Every LLM-backed pass in this service goes through this so a provider
// outage degrades gracefully rather than failing the request outright
// (§1, §4.1 feature-alignment neutral score, §4.3 response-agent fallback
// template).
func DegradeOnFailure[T any](ctx context.Context, generate func(context.Context) (T, error), onDegrade func(error) T) T {
	result, err := generate(ctx)
	if err != nil {
		return onDegrade(err)
	}
	return result
}
