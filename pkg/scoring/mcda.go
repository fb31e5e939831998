package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
	"github.com/wex-clearinghouse/core/pkg/pricing"
	"github.com/wex-clearinghouse/core/pkg/usetype"
)

// FeatureScoreNeutral is the feature dimension's placeholder score before
// the LLM feature-alignment pass runs or when it degrades (§4.1 step 2).
const FeatureScoreNeutral = 50

// Candidate is a (BuyerNeed, Warehouse) pair that survived the pre-filter
// (§4.1 step 1) and is ready to be scored.
type Candidate struct {
	Warehouse     *models.Warehouse
	TruthCore     *models.TruthCore
	DistanceMiles float64
	// KNNFallback is set when this candidate was found by the KNN fallback
	// search rather than the strict in-radius filter, selecting the
	// location dimension's alternate denominator (§4.1 step 2).
	KNNFallback bool
}

// Score computes every MCDA dimension for one candidate and returns a
// Match populated with scores, reasoning, and pricing — everything except
// persistence identity (ID, CreatedAt) and the fields the LLM
// feature-alignment pass fills in later (§4.1 steps 2-3).
func Score(weights config.MCDAWeights, matrix config.UseTypeMatrix, pricingCfg config.PricingConfig, need *models.BuyerNeed, c Candidate) *models.Match {
	locationScore := LocationScoreNeutral
	if need.Lat != nil && need.Lng != nil && c.Warehouse.HasCoordinates() {
		locationScore = LocationScore(c.DistanceMiles, need.RadiusMiles, c.KNNFallback)
	}

	sizeScore := SizeScore(need.MinSqft, need.MaxSqft, c.TruthCore.MinSqft, c.TruthCore.MaxSqft)
	useTypeScore, useTypeCallout := usetype.Score(matrix, c.TruthCore.ActivityTier, c.TruthCore.HasOfficeSpace, need.UseType)
	timingScore := TimingScore(daysLate(need.NeededFrom, c.TruthCore.AvailableFrom))

	buyerRate := pricing.BuyerRate(pricingCfg, c.TruthCore.SupplierRatePerSqft)
	budgetScore, withinBudget := pricing.BudgetScore(buyerRate, need.MaxBudgetPerSqft)

	m := &models.Match{
		BuyerNeedID:         need.ID,
		WarehouseID:         c.Warehouse.ID,
		Status:              models.MatchStatusPending,
		LocationScore:       locationScore,
		SizeScore:           sizeScore,
		UseTypeScore:        useTypeScore,
		FeatureScore:        FeatureScoreNeutral,
		TimingScore:         timingScore,
		BudgetScore:         budgetScore,
		Reasoning:           useTypeCallout,
		WithinBudget:        withinBudget,
		BuyerRatePerSqft:    buyerRate,
		SupplierRatePerSqft: c.TruthCore.SupplierRatePerSqft,
		DistanceMiles:       c.DistanceMiles,
	}
	m.MatchScore = Composite(weights, m)
	return m
}

// Composite recomputes the weighted sum from a Match's six dimension
// scores, rounded to one decimal place (§4.1 step 2). Called both at
// initial scoring and after the feature-alignment pass overwrites
// FeatureScore.
func Composite(weights config.MCDAWeights, m *models.Match) float64 {
	sum := weights.Location*m.LocationScore + weights.Size*m.SizeScore + weights.UseType*m.UseTypeScore +
		weights.Feature*m.FeatureScore + weights.Timing*m.TimingScore + weights.Budget*m.BudgetScore
	return math.Round(sum*10) / 10
}

// RankDescending sorts matches by composite score, highest first, and
// truncates to the top n. Used twice in the pipeline: top 6 for the LLM
// feature-alignment pass (§4.1 step 3), and top 3 for persistence
// (§4.1 step 4).
func RankDescending(matches []*models.Match, n int) []*models.Match {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// daysLate returns how many days after neededFrom the warehouse becomes
// available, or 0 (on time or early) when availableFrom is on or before
// neededFrom.
func daysLate(neededFrom, availableFrom time.Time) int {
	d := int(availableFrom.Sub(neededFrom).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
