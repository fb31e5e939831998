package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wex-clearinghouse/core/pkg/config"
)

// TestBuyerRate_TruthCoreExample exercises boundary scenario 1 (§8): a
// supplier rate of $5.00 under the default multipliers yields $6.36/sqft.
func TestBuyerRate_TruthCoreExample(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	assert.InDelta(t, 6.36, BuyerRate(cfg, 5.00), 0.001)
}

func TestBuyerRate_AlwaysRoundsUp(t *testing.T) {
	cfg := config.PricingConfig{MarginMultiplier: 1.2, GuaranteeMultiplier: 1.06}
	// 4.00 * 1.2 * 1.06 = 5.088, ceil to cent = 5.09
	assert.InDelta(t, 5.09, BuyerRate(cfg, 4.00), 0.001)
}

// TestBudgetScore_OverBudgetClamp exercises boundary scenario 3 (§8): a
// $6.00 max budget against the $6.36 buyer rate is 6% over, scoring ~80
// and reporting not-within-budget.
func TestBudgetScore_OverBudgetClamp(t *testing.T) {
	max := 6.00
	score, within := BudgetScore(6.36, &max)
	assert.InDelta(t, 80, score, 0.5)
	assert.False(t, within)
}

func TestBudgetScore_WithinBudget(t *testing.T) {
	max := 7.00
	score, within := BudgetScore(6.36, &max)
	assert.Equal(t, 100.0, score)
	assert.True(t, within)
}

func TestBudgetScore_NoBudgetGiven(t *testing.T) {
	score, within := BudgetScore(6.36, nil)
	assert.Equal(t, 50.0, score)
	assert.True(t, within, "no stated budget is never a rejection")
}

func TestBudgetScore_FlooredAtZero(t *testing.T) {
	max := 1.00
	score, within := BudgetScore(10.00, &max)
	assert.Equal(t, 0.0, score)
	assert.False(t, within)
}
