package usetype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// TestScore_IncompatibleExample exercises boundary scenario 4 (§8): a
// cold_storage buyer need against a storage_only warehouse has zero
// capability overlap, scoring 0 and callout Unknown-free but explicit
// about the incompatibility.
func TestScore_IncompatibleExample(t *testing.T) {
	matrix := config.DefaultUseTypeMatrix()
	score, callout := Score(matrix, models.TierStorageOnly, false, models.UseTypeColdStorage)
	assert.Equal(t, 0.0, score)
	assert.Contains(t, callout, "Incompatible")
}

func TestScore_FullMatch(t *testing.T) {
	matrix := config.DefaultUseTypeMatrix()
	score, _ := Score(matrix, models.TierStorageOnly, false, models.UseTypeStorage)
	assert.Equal(t, 100.0, score)
}

func TestScore_OfficeBonus(t *testing.T) {
	matrix := config.DefaultUseTypeMatrix()
	score, callout := Score(matrix, models.TierStorageOnly, true, models.UseTypeStorage)
	assert.Equal(t, 100.0, score)
	assert.Contains(t, callout, "Bonus")
}

func TestScore_PartialMatch(t *testing.T) {
	matrix := config.DefaultUseTypeMatrix()
	// ecommerce_fulfillment needs {storage, light_assembly}; storage_only
	// only grants {storage} — one of two needs met, an even split.
	score, callout := Score(matrix, models.TierStorageOnly, false, models.UseTypeEcommerceFulfillment)
	assert.Equal(t, 60.0, score)
	assert.Contains(t, callout, "Partial match")
}

func TestScore_UnknownTierOrUseType(t *testing.T) {
	matrix := config.DefaultUseTypeMatrix()
	score, callout := Score(matrix, models.ActivityTier("bogus"), false, models.UseTypeStorage)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, Unknown, callout)
}
