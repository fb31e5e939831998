package sms

import (
	"regexp"
	"strings"
)

const (
	inboundMaxChars = 1600

	outboundMinChars         = 20
	outboundMaxChars         = 480
	outboundMaxCharsFirstMsg = 800
	maxWordRepeats           = 5
)

// profanityList is a small illustrative block-list — both gatekeepers
// reject on any hit. Not exhaustive; the polisher retry loop exists
// precisely because deterministic rejection doesn't need to catch
// everything to be useful.
var profanityList = []string{"fuck", "shit", "bitch", "asshole"}

var (
	urlPattern   = regexp.MustCompile(`(?i)https?://|www\.`)
	phonePattern = regexp.MustCompile(`\b(?:\+?1[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	emailsPat    = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	repeatCharPat = regexp.MustCompile(`(.)\1{4,}`) // same char 5+ times in a row
)

func containsProfanity(s string) bool {
	lower := strings.ToLower(s)
	for _, word := range profanityList {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// InboundGatekeeperReject reports whether an inbound message must be
// rejected outright before reaching the interpreter (§4.3 step 1).
func InboundGatekeeperReject(body string) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return true
	}
	if len(body) > inboundMaxChars {
		return true
	}
	return containsProfanity(body)
}

// outboundContext carries the information the gatekeeper needs to apply
// its context-specific checks (§4.3 step 8).
type outboundContext struct {
	IsFirstMessage  bool
	IsCommitment    bool
	IsTourRelated   bool
	IsAwaitingAnswer bool
}

// OutboundGatekeeperReject reports the first rule a candidate reply
// violates, or "" if it passes every check.
func OutboundGatekeeperReject(body string, ctx outboundContext) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < outboundMinChars {
		return "too_short"
	}

	limit := outboundMaxChars
	hasURL := urlPattern.MatchString(body)
	if ctx.IsFirstMessage || hasURL {
		limit = outboundMaxCharsFirstMsg
	}
	if len(body) > limit {
		return "too_long"
	}

	if repeatCharPat.MatchString(body) {
		return "repeated_characters"
	}
	if lowLetterRatio(body) {
		return "low_letter_ratio"
	}
	if wordRepetitionExceeds(body, maxWordRepeats) {
		return "word_repetition"
	}
	if len(phonePattern.FindAllString(body, -1)) > 1 {
		return "multiple_phone_numbers"
	}
	if len(emailsPat.FindAllString(body, -1)) > 1 {
		return "multiple_emails"
	}
	if containsProfanity(body) {
		return "profanity"
	}

	if ctx.IsCommitment && !urlPattern.MatchString(body) {
		return "commitment_missing_link"
	}
	if ctx.IsTourRelated && !mentionsScheduling(body) {
		return "tour_missing_scheduling_language"
	}
	if ctx.IsAwaitingAnswer && !acknowledgesPending(body) {
		return "awaiting_answer_not_acknowledged"
	}
	return ""
}

func lowLetterRatio(body string) bool {
	if len(body) == 0 {
		return true
	}
	letters := 0
	for _, r := range body {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	return float64(letters)/float64(len(body)) < 0.4
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "and": true, "of": true,
	"for": true, "is": true, "in": true, "it": true, "you": true, "your": true,
	"at": true, "on": true, "we": true, "i": true, "with": true,
}

func wordRepetitionExceeds(body string, max int) bool {
	counts := map[string]int{}
	for _, w := range strings.Fields(strings.ToLower(body)) {
		w = strings.Trim(w, ".,!?;:'\"")
		if w == "" || stopWords[w] {
			continue
		}
		counts[w]++
		if counts[w] > max {
			return true
		}
	}
	return false
}

func mentionsScheduling(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range []string{"tour", "schedule", "visit", "available", "time works", "what day"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func acknowledgesPending(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range []string{"checking", "reach out to the supplier", "following up", "get back to you", "waiting on"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// trimToBoundary truncates body to at most limit characters, preferring
// the last clean sentence break, then the last word break, to the raw
// limit (§4.3 step 8: "trimmed to the limit at the last clean sentence /
// word boundary").
func trimToBoundary(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	window := body[:limit]
	if idx := strings.LastIndexAny(window, ".!?"); idx > limit/2 {
		return window[:idx+1]
	}
	if idx := strings.LastIndex(window, " "); idx > 0 {
		return window[:idx]
	}
	return window
}
