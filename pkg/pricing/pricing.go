// Package pricing implements the buyer-rate markup formula from spec.md
// §4.1's budget row: a fixed margin over the supplier's own rate, plus a
// guarantee surcharge, always rounded up to the cent.
package pricing

import (
	"math"

	"github.com/wex-clearinghouse/core/pkg/config"
)

// BuyerRate computes buyer_rate = ceil(supplier_rate × margin × guarantee × 100) / 100.
func BuyerRate(cfg config.PricingConfig, supplierRatePerSqft float64) float64 {
	raw := supplierRatePerSqft * cfg.MarginMultiplier * cfg.GuaranteeMultiplier
	return math.Ceil(raw*100) / 100
}

// BudgetScore computes the budget dimension score (§4.1 budget row): 100
// when within budget, else linearly penalized by percent over, floored
// at 0; 50 (neutral) when the buyer gave no budget ceiling.
func BudgetScore(buyerRatePerSqft float64, maxBudgetPerSqft *float64) (score float64, withinBudget bool) {
	if maxBudgetPerSqft == nil {
		return 50, true
	}
	if buyerRatePerSqft <= *maxBudgetPerSqft {
		return 100, true
	}
	percentOver := (buyerRatePerSqft - *maxBudgetPerSqft) / *maxBudgetPerSqft * 100
	score = 100 - percentOver*3.33
	if score < 0 {
		score = 0
	}
	return score, false
}
