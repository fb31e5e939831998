package clearing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// TestFilterUseTypeCompatible_IncompatibleExcluded exercises boundary
// scenario 4 (§8): a cold_storage buyer need against a storage_only
// warehouse has zero use-type overlap and is dropped before scoring —
// it never becomes a Match, Tier-1 or otherwise.
func TestFilterUseTypeCompatible_IncompatibleExcluded(t *testing.T) {
	need := &models.BuyerNeed{UseType: models.UseTypeColdStorage}
	candidates := []candidate{
		{
			warehouse: &models.Warehouse{ID: "wh-1"},
			truthCore: &models.TruthCore{WarehouseID: "wh-1", ActivityTier: models.TierStorageOnly},
		},
	}

	out := filterUseTypeCompatible(config.DefaultUseTypeMatrix(), need, candidates)
	assert.Empty(t, out, "incompatible use type must not survive the pre-filter")
}

func TestFilterUseTypeCompatible_CompatibleSurvives(t *testing.T) {
	need := &models.BuyerNeed{UseType: models.UseTypeGeneral}
	candidates := []candidate{
		{
			warehouse: &models.Warehouse{ID: "wh-1"},
			truthCore: &models.TruthCore{WarehouseID: "wh-1", ActivityTier: models.TierStorageOnly},
		},
	}

	out := filterUseTypeCompatible(config.DefaultUseTypeMatrix(), need, candidates)
	assert.Len(t, out, 1)
}

func TestFilterUseTypeCompatible_WeakMatchSurvives(t *testing.T) {
	// 30/60-scored candidates are weak, not zero — they still survive the
	// pre-filter and get ranked on their merits.
	need := &models.BuyerNeed{UseType: models.UseTypeEcommerceFulfillment}
	candidates := []candidate{
		{
			warehouse: &models.Warehouse{ID: "wh-1"},
			truthCore: &models.TruthCore{WarehouseID: "wh-1", ActivityTier: models.TierStorageOnly},
		},
	}

	out := filterUseTypeCompatible(config.DefaultUseTypeMatrix(), need, candidates)
	assert.Len(t, out, 1)
}
