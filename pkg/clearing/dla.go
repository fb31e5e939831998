package clearing

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
	"github.com/wex-clearinghouse/core/pkg/usetype"
)

// runDLAOutreach sources Tier-2 candidates (warehouses not yet in_network
// but listed, geographically plausible, and use-type compatible) and
// issues a Demand-Led Activation invite to each one that has a phone
// number, hasn't been contacted for any need in the cooldown window, and
// doesn't already have a live invite for this exact (warehouse, need)
// pair — stopping once the per-need outreach cap is reached (§4.1.2).
func (e *Engine) runDLAOutreach(ctx context.Context, need *models.BuyerNeed) (int, error) {
	alreadyOutreached, err := e.dlaTokens.CountOutreachesForBuyerNeed(ctx, need.ID)
	if err != nil {
		return 0, err
	}
	remaining := e.dla.MaxOutreachesPerNeed - alreadyOutreached
	if remaining <= 0 {
		return 0, nil
	}

	pool, err := e.tier2Candidates(ctx, need)
	if err != nil {
		return 0, err
	}

	sent := 0
	cooldown := time.Duration(e.dla.OutreachCooldownDays) * 24 * time.Hour
	now := time.Now().UTC()
	for _, c := range pool {
		if sent >= remaining {
			break
		}
		if c.warehouse.Phone == "" {
			continue
		}
		if c.warehouse.LastOutreachAt != nil && now.Sub(*c.warehouse.LastOutreachAt) < cooldown {
			continue
		}
		exists, err := e.dlaTokens.ExistsActiveForPair(ctx, c.warehouse.ID, need.ID)
		if err != nil {
			return sent, err
		}
		if exists {
			continue
		}

		suggestedRate, err := e.suggestedRate(ctx, need, c.warehouse)
		if err != nil {
			return sent, err
		}

		token := &models.DLAToken{
			Token:                newDLAToken(),
			WarehouseID:          c.warehouse.ID,
			BuyerNeedID:          need.ID,
			Status:               models.DLATokenPending,
			SuggestedRatePerSqft: suggestedRate,
			ExpiresAt:            now.Add(time.Duration(e.dla.TokenTTLHours) * time.Hour),
		}
		if err := e.dlaTokens.Create(ctx, token); err != nil {
			return sent, err
		}
		if err := e.warehouses.UpdateSupplierStatus(ctx, c.warehouse.ID, models.SupplierStatusInterested); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// tier2Candidates loads warehouses outside the network that are still
// use-type compatible with need and, when the need has coordinates,
// within the buyer's radius. Only warehouses with coordinates are loaded
// (ListOutreachCandidatesWithCoordinates filters the rest out); a need
// without coordinates skips the radius check.
func (e *Engine) tier2Candidates(ctx context.Context, need *models.BuyerNeed) ([]candidate, error) {
	warehouses, err := e.warehouses.ListOutreachCandidatesWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(warehouses))
	for _, w := range warehouses {
		tc, err := e.truthCores.Get(ctx, w.ID)
		if err != nil {
			continue // no listing data yet, nothing to score against
		}
		if score, _ := usetype.Score(e.matrix, tc.ActivityTier, tc.HasOfficeSpace, need.UseType); score == 0 {
			continue
		}
		if need.Lat != nil && need.Lng != nil && w.HasCoordinates() {
			if haversineMiles(*need.Lat, *need.Lng, *w.Lat, *w.Lng) > need.RadiusMiles {
				continue
			}
		}
		out = append(out, candidate{warehouse: w, truthCore: tc})
	}
	return out, nil
}

// suggestedRate blends the buyer's budget ceiling with the midpoint of the
// warehouse zipcode's cached market range and clamps to that range
// (§4.1.2 step 2). In-network rates of other warehouses in the state are
// not consulted. Either input may be absent; the blend degrades to
// whichever side is available, and to the warehouse's own asking rate if
// neither is.
func (e *Engine) suggestedRate(ctx context.Context, need *models.BuyerNeed, w *models.Warehouse) (float64, error) {
	cache, err := e.marketRate(ctx, w.Zipcode, need.UseType)
	if err != nil {
		return 0, err
	}

	switch {
	case need.MaxBudgetPerSqft != nil && cache != nil:
		marketMid := (cache.RateLow + cache.RateHigh) / 2
		budget := *need.MaxBudgetPerSqft
		rate := e.dla.BudgetBlendWeight*budget + e.dla.MarketBlendWeight*marketMid
		return clampRate(rate, cache.RateLow, cache.RateHigh), nil
	case need.MaxBudgetPerSqft != nil:
		return *need.MaxBudgetPerSqft, nil
	case cache != nil:
		return (cache.RateLow + cache.RateHigh) / 2, nil
	default:
		tc, err := e.truthCores.Get(ctx, w.ID)
		if err != nil {
			return 0, nil
		}
		return tc.SupplierRatePerSqft, nil
	}
}

// marketRate fetches the cached rate range for (zipcode, useType),
// treating "not found" and "expired" identically as "no usable cache" —
// the blend falls back to whatever other input is available rather than
// failing the outreach.
func (e *Engine) marketRate(ctx context.Context, zipcode string, useType models.UseType) (*models.MarketRateCache, error) {
	cache, err := e.marketRates.Get(ctx, zipcode, useType)
	if err != nil {
		if errors.Is(err, apierr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if cache.IsExpired(time.Now().UTC()) {
		return nil, nil
	}
	return cache, nil
}

func clampRate(rate, low, high float64) float64 {
	if low > 0 && rate < low {
		return low
	}
	if high > 0 && rate > high {
		return high
	}
	return rate
}

func newDLAToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
