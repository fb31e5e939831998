package config

import (
	"time"

	"github.com/wex-clearinghouse/core/pkg/models"
)

// ReengagementTier is one phase's stall-rule: how long to wait before the
// next automatic nudge, and how many nudges to send before giving up.
type ReengagementTier struct {
	Phase       models.ConversationPhase `yaml:"phase"`
	Delay       time.Duration            `yaml:"delay"`
	MaxAttempts int                      `yaml:"max_attempts"`
}

// ReengagementTiers is the phase-keyed stall-rule table computing
// next_reengagement_at (§4.3 step 9), loaded as config-as-data.
type ReengagementTiers struct {
	Tiers map[models.ConversationPhase]ReengagementTier `yaml:"tiers"`
}

// Get returns the tier for a phase, falling back to a conservative
// 24h/1-attempt default for any phase not explicitly configured (in the
// defaults: INTAKE, AWAITING_ANSWER and COMMITMENT).
func (t ReengagementTiers) Get(phase models.ConversationPhase) ReengagementTier {
	if tier, ok := t.Tiers[phase]; ok {
		return tier
	}
	return ReengagementTier{Phase: phase, Delay: 24 * time.Hour, MaxAttempts: 1}
}

// DefaultReengagementTiers gives each stall-prone phase a progressively
// longer backoff; phases that are either terminal (COMMITMENT) or always
// paired with an explicit deadline elsewhere (AWAITING_ANSWER, handled by
// the Q&A scheduler jobs) are intentionally absent so Get's default applies.
func DefaultReengagementTiers() ReengagementTiers {
	return ReengagementTiers{Tiers: map[models.ConversationPhase]ReengagementTier{
		models.PhaseQualifying:       {Phase: models.PhaseQualifying, Delay: 4 * time.Hour, MaxAttempts: 3},
		models.PhasePresenting:       {Phase: models.PhasePresenting, Delay: 6 * time.Hour, MaxAttempts: 3},
		models.PhasePropertyFocused:  {Phase: models.PhasePropertyFocused, Delay: 12 * time.Hour, MaxAttempts: 2},
		models.PhaseCollectingInfo:   {Phase: models.PhaseCollectingInfo, Delay: 2 * time.Hour, MaxAttempts: 4},
		models.PhaseGuaranteePending: {Phase: models.PhaseGuaranteePending, Delay: 24 * time.Hour, MaxAttempts: 2},
		models.PhaseTourScheduling:   {Phase: models.PhaseTourScheduling, Delay: 12 * time.Hour, MaxAttempts: 3},
	}}
}
