package sms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInboundGatekeeperReject_EmptyOrTooLong(t *testing.T) {
	assert.True(t, InboundGatekeeperReject(""))
	assert.True(t, InboundGatekeeperReject("   "))
	assert.True(t, InboundGatekeeperReject(strings.Repeat("a", inboundMaxChars+1)))
	assert.False(t, InboundGatekeeperReject("When can I schedule a tour?"))
}

func TestInboundGatekeeperReject_Profanity(t *testing.T) {
	assert.True(t, InboundGatekeeperReject("this place is shit"))
}

// TestOutboundGatekeeperReject_MessageLengthBounds exercises the §8
// universal invariant that every outbound message falls within the
// gatekeeper's stated length bounds: at least outboundMinChars, and at
// most outboundMaxChars (outboundMaxCharsFirstMsg for the first message
// in a thread or any message carrying a link).
func TestOutboundGatekeeperReject_MessageLengthBounds(t *testing.T) {
	tooShort := "ok"
	assert.Equal(t, "too_short", OutboundGatekeeperReject(tooShort, outboundContext{}))

	justRight := strings.Repeat("ab", outboundMinChars/2)
	assert.Equal(t, "", OutboundGatekeeperReject(justRight, outboundContext{}))

	tooLong := strings.Repeat("a", outboundMaxChars+1)
	assert.Equal(t, "too_long", OutboundGatekeeperReject(tooLong, outboundContext{}))

	// The same length is fine on the first message in a thread, which gets
	// the wider ceiling.
	longButFirstMessage := strings.Repeat("a", outboundMaxChars+1)
	assert.NotEqual(t, "too_long", OutboundGatekeeperReject(longButFirstMessage, outboundContext{IsFirstMessage: true}))

	withinFirstMsgCeiling := strings.Repeat("a", outboundMaxCharsFirstMsg)
	assert.NotEqual(t, "too_long", OutboundGatekeeperReject(withinFirstMsgCeiling, outboundContext{IsFirstMessage: true}))

	overFirstMsgCeiling := strings.Repeat("a", outboundMaxCharsFirstMsg+1)
	assert.Equal(t, "too_long", OutboundGatekeeperReject(overFirstMsgCeiling, outboundContext{IsFirstMessage: true}))
}

func TestOutboundGatekeeperReject_RepeatedCharacters(t *testing.T) {
	body := strings.Repeat("a", outboundMinChars) + "aaaaa"
	assert.Equal(t, "repeated_characters", OutboundGatekeeperReject(body, outboundContext{}))
}

func TestOutboundGatekeeperReject_CommitmentRequiresLink(t *testing.T) {
	body := "We would love to have you sign the lease agreement today please"
	assert.Equal(t, "commitment_missing_link", OutboundGatekeeperReject(body, outboundContext{IsCommitment: true}))

	withLink := body + " https://example.com/sign"
	assert.NotEqual(t, "commitment_missing_link", OutboundGatekeeperReject(withLink, outboundContext{IsCommitment: true}))
}

func TestOutboundGatekeeperReject_TourRequiresSchedulingLanguage(t *testing.T) {
	body := "Thanks so much for reaching out, we appreciate your interest greatly"
	assert.Equal(t, "tour_missing_scheduling_language", OutboundGatekeeperReject(body, outboundContext{IsTourRelated: true}))

	withScheduling := "Thanks for reaching out — what day works for a tour this week?"
	assert.NotEqual(t, "tour_missing_scheduling_language", OutboundGatekeeperReject(withScheduling, outboundContext{IsTourRelated: true}))
}

func TestTrimToBoundary_PrefersSentenceThenWordBoundary(t *testing.T) {
	body := "This is a complete sentence. This part runs past the limit entirely."
	trimmed := trimToBoundary(body, 30)
	assert.LessOrEqual(t, len(trimmed), 30)
	assert.True(t, strings.HasSuffix(trimmed, "."), "should cut at the sentence boundary when one exists past the midpoint")
}

func TestTrimToBoundary_NoOpUnderLimit(t *testing.T) {
	body := "short body"
	assert.Equal(t, body, trimToBoundary(body, 100))
}
