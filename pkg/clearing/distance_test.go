package clearing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wex-clearinghouse/core/pkg/models"
)

func latlng(lat, lng float64) (*float64, *float64) { return &lat, &lng }

func TestHaversineMiles_KnownDistance(t *testing.T) {
	// New York City to Newark, NJ is roughly 9 miles great-circle.
	d := haversineMiles(40.7128, -74.0060, 40.7357, -74.1724)
	assert.InDelta(t, 8.9, d, 2.0)
}

// TestPartitionByRadius_OutsideRadiusFallsToKNNPool exercises boundary
// scenario 2 (§8): a warehouse 45 miles from the buyer need, outside its
// stated 25-mile radius, falls entirely into the outside-radius pool so
// the caller can fall back to KNN scoring against it.
func TestPartitionByRadius_OutsideRadiusFallsToKNNPool(t *testing.T) {
	lat, lng := latlng(40.0, -74.0)
	need := &models.BuyerNeed{Lat: lat, Lng: lng, RadiusMiles: 25}

	// ~45 miles north along a meridian: 1 degree latitude is about 69 miles.
	whLat, whLng := latlng(40.0+45.0/69.0, -74.0)
	candidates := []candidate{
		{warehouse: &models.Warehouse{ID: "wh-far", Lat: whLat, Lng: whLng}},
	}

	within, knnPool := partitionByRadius(need, candidates)
	assert.Empty(t, within)
	assert.Len(t, knnPool, 1)
}

// TestPartitionByRadius_MissingCoordinatesFallsBackToStateMatch exercises
// the §4.1 step 1 geo-gate fallback: when either side lacks coordinates,
// an exact state match still lands the candidate in range.
func TestPartitionByRadius_MissingCoordinatesFallsBackToStateMatch(t *testing.T) {
	need := &models.BuyerNeed{RadiusMiles: 25, State: "TX"}
	candidates := []candidate{{warehouse: &models.Warehouse{ID: "wh-1", State: "tx"}}}

	within, knnPool := partitionByRadius(need, candidates)
	assert.Len(t, within, 1)
	assert.Empty(t, knnPool)
}

// TestPartitionByRadius_NoCoordinatesAndStateMismatchRejected exercises
// the reject branch: a candidate with no coordinates whose state doesn't
// match the buyer's is excluded entirely, not treated as in-radius.
func TestPartitionByRadius_NoCoordinatesAndStateMismatchRejected(t *testing.T) {
	need := &models.BuyerNeed{RadiusMiles: 25, State: "TX"}
	candidates := []candidate{{warehouse: &models.Warehouse{ID: "wh-1", State: "NY"}}}

	within, knnPool := partitionByRadius(need, candidates)
	assert.Empty(t, within)
	assert.Empty(t, knnPool)
}

// TestPartitionByRadius_NoCoordinatesAndNoStateRejected covers the case
// where neither side has coordinates nor a usable state value at all.
func TestPartitionByRadius_NoCoordinatesAndNoStateRejected(t *testing.T) {
	need := &models.BuyerNeed{RadiusMiles: 25}
	candidates := []candidate{{warehouse: &models.Warehouse{ID: "wh-1"}}}

	within, knnPool := partitionByRadius(need, candidates)
	assert.Empty(t, within)
	assert.Empty(t, knnPool)
}

// TestPartitionByRadius_CapsAtFiftyMiles exercises the Tier-1 ceiling:
// a buyer's stated radius of 80 miles is still capped at 50, so a
// warehouse 60 miles away does not land in the within-radius pool.
func TestPartitionByRadius_CapsAtFiftyMiles(t *testing.T) {
	lat, lng := latlng(40.0, -74.0)
	need := &models.BuyerNeed{Lat: lat, Lng: lng, RadiusMiles: 80}

	whLat, whLng := latlng(40.0+60.0/69.0, -74.0)
	candidates := []candidate{
		{warehouse: &models.Warehouse{ID: "wh-60mi", Lat: whLat, Lng: whLng}},
	}

	within, knnPool := partitionByRadius(need, candidates)
	assert.Empty(t, within)
	assert.Len(t, knnPool, 1)
}
