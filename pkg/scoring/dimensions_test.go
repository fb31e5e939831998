package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLocationScore_TierOneExample exercises boundary scenario 1 (§8):
// coincident coordinates inside the strict radius score 100.
func TestLocationScore_TierOneExample(t *testing.T) {
	assert.Equal(t, 100.0, LocationScore(0, 25, false))
}

// TestLocationScore_KNNFallback exercises boundary scenario 2 (§8): a
// warehouse 45 miles out, outside a 25-mile radius, only reachable via the
// KNN fallback pool, scores against the fixed 100-mile ceiling.
func TestLocationScore_KNNFallback(t *testing.T) {
	assert.InDelta(t, 55.0, LocationScore(45, 25, true), 0.01)
}

func TestLocationScore_ClampedAtZero(t *testing.T) {
	assert.Equal(t, 0.0, LocationScore(500, 25, false))
}

// TestSizeScore_TierOneExample exercises boundary scenario 1 (§8): a
// buyer need of [8000,12000] sqft against a warehouse range of
// [5000,20000] sqft lands the buyer's own midpoint squarely inside, so it
// scores full marks.
func TestSizeScore_TierOneExample(t *testing.T) {
	assert.Equal(t, 100.0, SizeScore(8000, 12000, 5000, 20000))
}

func TestSizeScore_UndersizedPenalized(t *testing.T) {
	// buyer target 10000, warehouse caps out at 6000: ratio 0.6, below the
	// [0.8,1.2] band, penalized more steeply than oversized.
	score := SizeScore(8000, 12000, 1000, 6000)
	assert.Less(t, score, 100.0)
	assert.Greater(t, score, 0.0)
}

func TestSizeScore_NoBuyerTarget(t *testing.T) {
	assert.Equal(t, 0.0, SizeScore(0, 0, 5000, 20000))
}

func TestTimingScore_OnTime(t *testing.T) {
	assert.Equal(t, 100.0, TimingScore(0))
	assert.Equal(t, 100.0, TimingScore(-5))
}

func TestTimingScore_LatePenalized(t *testing.T) {
	assert.Equal(t, 70.0, TimingScore(30))
}

func TestTimingScore_CappedAt200Days(t *testing.T) {
	assert.Equal(t, 0.0, TimingScore(500))
}
