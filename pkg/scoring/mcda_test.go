package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
)

func coord(v float64) *float64 { return &v }

// TestScore_TierOneExample exercises boundary scenario 1 (§8) end to end:
// coincident coordinates, a size range that brackets the buyer's midpoint,
// a compatible use type, and no stated budget ceiling. Location, size, and
// use-type all land at 100; feature stays at its pre-LLM neutral value.
func TestScore_TierOneExample(t *testing.T) {
	need := &models.BuyerNeed{
		ID: "need-1", Lat: coord(40.0), Lng: coord(-74.0), RadiusMiles: 25,
		MinSqft: 8000, MaxSqft: 12000, UseType: models.UseTypeGeneral,
		NeededFrom: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	warehouse := &models.Warehouse{ID: "wh-1", Lat: coord(40.0), Lng: coord(-74.0)}
	truthCore := &models.TruthCore{
		WarehouseID: "wh-1", MinSqft: 5000, MaxSqft: 20000,
		ActivityTier: models.TierStorageOnly, SupplierRatePerSqft: 5.00,
		ActivationStatus: models.ActivationOn,
		AvailableFrom:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	m := Score(config.DefaultMCDAWeights(), config.DefaultUseTypeMatrix(), config.DefaultPricingConfig(),
		need, Candidate{Warehouse: warehouse, TruthCore: truthCore, DistanceMiles: 0})

	assert.Equal(t, 100.0, m.LocationScore)
	assert.Equal(t, 100.0, m.SizeScore)
	assert.Equal(t, 100.0, m.UseTypeScore)
	assert.Equal(t, 100.0, m.TimingScore)
	assert.InDelta(t, 6.36, m.BuyerRatePerSqft, 0.001)
	assert.True(t, m.WithinBudget)
}

// TestScore_BudgetClampExample exercises boundary scenario 3 (§8): a
// buyer-stated budget ceiling below the computed buyer rate penalizes the
// budget dimension and flips WithinBudget false.
func TestScore_BudgetClampExample(t *testing.T) {
	maxBudget := 6.00
	need := &models.BuyerNeed{
		ID: "need-1", MinSqft: 8000, MaxSqft: 12000, UseType: models.UseTypeGeneral,
		MaxBudgetPerSqft: &maxBudget,
		NeededFrom:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	warehouse := &models.Warehouse{ID: "wh-1"}
	truthCore := &models.TruthCore{
		MinSqft: 5000, MaxSqft: 20000, ActivityTier: models.TierStorageOnly,
		SupplierRatePerSqft: 5.00, ActivationStatus: models.ActivationOn,
		AvailableFrom: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	m := Score(config.DefaultMCDAWeights(), config.DefaultUseTypeMatrix(), config.DefaultPricingConfig(),
		need, Candidate{Warehouse: warehouse, TruthCore: truthCore})

	assert.InDelta(t, 6.36, m.BuyerRatePerSqft, 0.001)
	assert.InDelta(t, 80, m.BudgetScore, 0.5)
	assert.False(t, m.WithinBudget)
}

func TestComposite_WeightedSumRounded(t *testing.T) {
	weights := config.DefaultMCDAWeights()
	m := &models.Match{
		LocationScore: 100, SizeScore: 100, UseTypeScore: 100,
		FeatureScore: 50, TimingScore: 100, BudgetScore: 50,
	}
	got := Composite(weights, m)
	// .20*100 + .15*100 + .15*100 + .20*50 + .10*100 + .20*50 = 80
	assert.InDelta(t, 80, got, 0.1)
}

func TestComposite_BoundedByDimensionRange(t *testing.T) {
	weights := config.DefaultMCDAWeights()
	allZero := Composite(weights, &models.Match{})
	allHundred := Composite(weights, &models.Match{
		LocationScore: 100, SizeScore: 100, UseTypeScore: 100,
		FeatureScore: 100, TimingScore: 100, BudgetScore: 100,
	})
	assert.Equal(t, 0.0, allZero)
	assert.InDelta(t, 100, allHundred, 0.01)
}

func TestRankDescending_TruncatesAndSortsHighestFirst(t *testing.T) {
	matches := []*models.Match{
		{BuyerNeedID: "low", MatchScore: 40},
		{BuyerNeedID: "high", MatchScore: 90},
		{BuyerNeedID: "mid", MatchScore: 65},
	}
	top2 := RankDescending(matches, 2)
	assert.Len(t, top2, 2)
	assert.Equal(t, "high", top2[0].BuyerNeedID)
	assert.Equal(t, "mid", top2[1].BuyerNeedID)
}
