package scoring

import "github.com/wex-clearinghouse/core/pkg/models"

// ComputeInstantBookScore builds the 5-factor InstantBookScore persisted
// alongside a Tier-1 Match (§4.1 step 4). Each factor is an independent
// 0-100 read on how much a buyer can trust booking this warehouse
// sight-unseen; none of them feed back into Match.MatchScore.
func ComputeInstantBookScore(matchID string, w *models.Warehouse, tc *models.TruthCore, memories []*models.ContextualMemory, m *models.Match) *models.InstantBookScore {
	return &models.InstantBookScore{
		MatchID:               matchID,
		TruthCoreCompleteness: truthCoreCompleteness(tc, w),
		ContextualMemoryDepth: contextualMemoryDepth(memories),
		SupplierTrustLevel:    supplierTrustLevel(tc.TrustLevel),
		MatchSpecificity:      matchSpecificity(m),
		FeatureAlignment:      int(m.FeatureScore),
	}
}

// truthCoreCompleteness rewards a listing for having filled in the
// optional richness fields beyond the bare required min/max/tier/rate —
// dock doors, clear height, sprinkler, power, and gallery photos.
func truthCoreCompleteness(tc *models.TruthCore, w *models.Warehouse) int {
	filled := 0
	const total = 5
	if tc.DockDoors > 0 {
		filled++
	}
	if tc.ClearHeightFt > 0 {
		filled++
	}
	if tc.HasSprinkler {
		filled++
	}
	if tc.PowerAmps > 0 {
		filled++
	}
	if len(w.Gallery) > 0 {
		filled++
	}
	return filled * 100 / total
}

// contextualMemoryDepth scales with how much routing history exists for
// the warehouse, capped at 100 once 5 or more memories have accumulated.
func contextualMemoryDepth(memories []*models.ContextualMemory) int {
	n := len(memories) * 20
	if n > 100 {
		return 100
	}
	return n
}

func supplierTrustLevel(level models.TrustLevel) int {
	switch level {
	case models.TrustLevelPreferred:
		return 100
	case models.TrustLevelVerified:
		return 70
	default:
		return 40
	}
}

// matchSpecificity reads the size and use-type scores as a proxy for how
// tightly this warehouse actually fits the buyer's stated need, as
// opposed to a generically strong but loosely-fitting candidate.
func matchSpecificity(m *models.Match) int {
	return int((m.SizeScore + m.UseTypeScore) / 2)
}
