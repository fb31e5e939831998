// Package scoring implements the Clearing Engine's deterministic MCDA
// scorer (§4.1 step 2) and the LLM feature-alignment re-scoring pass
// (§4.1 step 3), grounded on the teacher's scoring-by-controller pattern
// in pkg/agent/scoring_agent.go.
package scoring

import "math"

// LocationScore implements the location dimension rule (§4.1 step 2).
// With knnFallback false the strict-filter branch applies
// (100×(1−dist/radius)); with it true the KNN fallback branch instead
// divides by the fixed 100-mile ceiling.
// Neutral 50 is returned by the caller when coordinates are missing —
// this function is only called once both sides have coordinates.
func LocationScore(distanceMiles, radiusMiles float64, knnFallback bool) float64 {
	if knnFallback {
		return clip(100 * (1 - distanceMiles/100))
	}
	return clip(100 * (1 - distanceMiles/radiusMiles))
}

// LocationScoreNeutral is the score used when either side lacks
// coordinates (§4.1 step 2 location row).
const LocationScoreNeutral float64 = 50

// SizeScore implements the size dimension rule (§4.1 step 2): the best
// achievable sqft within the warehouse's [min,max] range relative to the
// buyer's target midpoint, penalized asymmetrically for being undersized
// (ratio < 0.8) vs oversized (ratio > 1.2) relative to that target.
//
// The spec names undersized/oversized penalty factors (250, 100) without
// a worked example at the boundary; we apply them to the ratio's distance
// outside the [0.8, 1.2] band, which reproduces the spec's single worked
// example (ratio = 1.0 ⇒ score 100) and degrades smoothly outside it.
func SizeScore(buyerMinSqft, buyerMaxSqft, warehouseMinSqft, warehouseMaxSqft int) float64 {
	buyerTarget := float64(buyerMinSqft+buyerMaxSqft) / 2
	if buyerTarget <= 0 {
		return 0
	}
	bestFit := clampFloat(buyerTarget, float64(warehouseMinSqft), float64(warehouseMaxSqft))
	ratio := bestFit / buyerTarget

	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return 100
	case ratio < 0.8:
		return clip(100 - (0.8-ratio)*250)
	default:
		return clip(100 - (ratio-1.2)*100)
	}
}

// TimingScore implements the timing dimension rule (§4.1 step 2):
// full marks when the warehouse is available on or before the buyer's
// need date, else a linear penalty of 1 point per day late capped at 200
// days.
func TimingScore(daysLate int) float64 {
	if daysLate <= 0 {
		return 100
	}
	if daysLate > 200 {
		daysLate = 200
	}
	return clip(100 - float64(daysLate))
}

func clip(score float64) float64 {
	return clampFloat(score, 0, 100)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
