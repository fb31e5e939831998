package config

import "github.com/wex-clearinghouse/core/pkg/models"

// GuardName identifies a guard precondition function registered in
// pkg/engagement. Kept as a string here so the transition table stays pure
// data — pkg/engagement owns the actual guard implementations.
type GuardName string

const (
	GuardNone               GuardName = ""
	GuardAgreementFullySigned GuardName = "agreement_fully_signed"
	GuardOnboardingComplete GuardName = "onboarding_complete"
	GuardPathIsTour         GuardName = "path_is_tour"
	GuardPathIsInstantBook  GuardName = "path_is_instant_book"
)

// TransitionRule is one (from_state, actor, target_state) triple, the unit
// the engagement state machine's reachability and actor-permission checks
// are validated against (§4.2).
type TransitionRule struct {
	From  models.EngagementState `yaml:"from"`
	Actor models.Actor            `yaml:"actor"`
	To    models.EngagementState `yaml:"to"`
	Guard GuardName               `yaml:"guard,omitempty"`
}

// TransitionTable is the full fixed set of allowed transitions, loaded
// once at startup as config-as-data (spec.md §9).
type TransitionTable struct {
	Rules []TransitionRule `yaml:"rules"`
}

// DefaultTransitionTable is the engagement lifecycle's transition table.
// spec.md names a handful of transitions explicitly (deal-ping
// accept/decline, the guarantee-sign double transition, the dual-sign
// agreement guard, the onboarding upload-flags guard); every other edge
// below fills in the graph implied by §4.2's state list, §4.4's scheduler
// jobs, and §6's endpoint list, recorded as an Open Question decision in
// DESIGN.md since the source's exhaustive table is not reproduced in the
// distilled spec.
func DefaultTransitionTable() TransitionTable {
	s := models.EngagementState
	a := models.Actor
	_ = s
	r := func(from models.EngagementState, actor models.Actor, to models.EngagementState, guard GuardName) TransitionRule {
		return TransitionRule{From: from, Actor: actor, To: to, Guard: guard}
	}
	return TransitionTable{Rules: []TransitionRule{
		// Settlement → deal ping
		r(models.StateMatched, a(models.ActorSystem), models.StateDealPingSent, GuardNone),

		// Supplier responds to the deal ping
		r(models.StateDealPingSent, a(models.ActorSupplier), models.StateDealPingAccepted, GuardNone),
		r(models.StateDealPingSent, a(models.ActorSupplier), models.StateDealPingDeclined, GuardNone),
		r(models.StateDealPingSent, a(models.ActorSystem), models.StateDealPingExpired, GuardNone),

		// Buyer reviews the accepted match
		r(models.StateDealPingAccepted, a(models.ActorSystem), models.StateBuyerReviewing, GuardNone),
		r(models.StateBuyerReviewing, a(models.ActorBuyer), models.StateBuyerAccepted, GuardNone),
		r(models.StateBuyerReviewing, a(models.ActorBuyer), models.StateDeclinedByBuyer, GuardNone),

		// Contact + account capture
		r(models.StateBuyerAccepted, a(models.ActorSystem), models.StateContactCaptured, GuardNone),
		r(models.StateContactCaptured, a(models.ActorSystem), models.StateAccountCreated, GuardNone),

		// Guarantee sign is an atomic double transition: one call emits two
		// events (guarantee_signed then address_revealed), per spec.md's
		// own Open Question resolution.
		r(models.StateAccountCreated, a(models.ActorBuyer), models.StateGuaranteeSigned, GuardNone),
		r(models.StateGuaranteeSigned, a(models.ActorSystem), models.StateAddressRevealed, GuardNone),

		// Path fork: tour vs instant book
		r(models.StateAddressRevealed, a(models.ActorBuyer), models.StateTourRequested, GuardPathIsTour),
		r(models.StateAddressRevealed, a(models.ActorBuyer), models.StateInstantBookRequested, GuardPathIsInstantBook),

		// Tour path
		r(models.StateTourRequested, a(models.ActorSupplier), models.StateTourConfirmed, GuardNone),
		r(models.StateTourRequested, a(models.ActorSupplier), models.StateDeclinedBySupplier, GuardNone),
		r(models.StateTourRequested, a(models.ActorSystem), models.StateExpired, GuardNone),
		r(models.StateTourConfirmed, a(models.ActorBuyer), models.StateTourRescheduled, GuardNone),
		r(models.StateTourConfirmed, a(models.ActorSupplier), models.StateTourRescheduled, GuardNone),
		r(models.StateTourRescheduled, a(models.ActorSystem), models.StateTourConfirmed, GuardNone),
		r(models.StateTourConfirmed, a(models.ActorSystem), models.StateTourCompleted, GuardNone),
		r(models.StateTourCompleted, a(models.ActorBuyer), models.StateBuyerConfirmed, GuardNone),
		r(models.StateTourCompleted, a(models.ActorSystem), models.StateExpired, GuardNone),

		// Instant-book path
		r(models.StateInstantBookRequested, a(models.ActorSupplier), models.StateInstantBookConfirmed, GuardNone),
		r(models.StateInstantBookRequested, a(models.ActorSupplier), models.StateDeclinedBySupplier, GuardNone),
		r(models.StateInstantBookConfirmed, a(models.ActorSystem), models.StateBuyerConfirmed, GuardNone),

		// Paths converge on agreement
		r(models.StateBuyerConfirmed, a(models.ActorSystem), models.StateAgreementSent, GuardNone),
		r(models.StateAgreementSent, a(models.ActorBuyer), models.StateAgreementSigned, GuardAgreementFullySigned),
		r(models.StateAgreementSent, a(models.ActorSupplier), models.StateAgreementSigned, GuardAgreementFullySigned),

		// Onboarding and activation
		r(models.StateAgreementSigned, a(models.ActorSystem), models.StateOnboarding, GuardNone),
		r(models.StateOnboarding, a(models.ActorSystem), models.StateActive, GuardOnboardingComplete),
		r(models.StateAddressRevealed, a(models.ActorSystem), models.StateExpired, GuardNone),

		// Lease lifecycle
		r(models.StateActive, a(models.ActorSystem), models.StateCompleted, GuardNone),
	}}
}
