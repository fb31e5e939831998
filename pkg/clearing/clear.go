// Package clearing implements the Clearing Engine's Clear operation
// (§4.1): pre-filter candidates by geography and use-type compatibility,
// score survivors with the MCDA scorer, re-score the best few with the
// LLM feature-alignment pass, persist the top 3 as Tier-1 Matches, and —
// when fewer than 3 Tier-1 matches result — fall through to Tier-2
// candidate selection and Demand-Led Activation outreach. Tier-2
// candidates are filtered by use type and radius only; they are not
// MCDA-scored or ranked.
package clearing

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/llm"
	"github.com/wex-clearinghouse/core/pkg/models"
	"github.com/wex-clearinghouse/core/pkg/scoring"
	"github.com/wex-clearinghouse/core/pkg/usetype"
)

// tier1Target is the number of Tier-1 matches that, if not reached,
// triggers the Tier-2/DLA fallback (§4.1 step 5).
const tier1Target = 3

// llmCandidatePoolSize is how many top-scored candidates are sent to the
// feature-alignment pass before truncating to tier1Target (§4.1 step 3).
const llmCandidatePoolSize = 6

// tier1RadiusCapMiles is the hard ceiling on the Tier-1 geo gate (§4.1
// step 1): a buyer's stated radius never admits matches past this, no
// matter how wide the need itself is.
const tier1RadiusCapMiles = 50

// knnFallbackMaxMiles and knnFallbackMaxCandidates bound the KNN fallback
// pool (§4.1 step 1): when the strict geo gate is empty, the nearest
// candidates up to this distance and count are scored instead.
const (
	knnFallbackMaxMiles      = 100
	knnFallbackMaxCandidates = 5
)

// Engine runs the Clear pipeline against persisted demand and supply.
type Engine struct {
	buyerNeeds   *database.BuyerNeedRepository
	warehouses   *database.WarehouseRepository
	truthCores   *database.TruthCoreRepository
	matches      *database.MatchRepository
	memories     *database.ContextualMemoryRepository
	dlaTokens    *database.DLATokenRepository
	marketRates  *database.MarketRateCacheRepository

	llmClient llm.Client
	weights   config.MCDAWeights
	matrix    config.UseTypeMatrix
	pricing   config.PricingConfig
	dla       config.DLAConfig
}

// NewEngine constructs a clearing Engine from its repository and
// configuration dependencies.
func NewEngine(
	buyerNeeds *database.BuyerNeedRepository,
	warehouses *database.WarehouseRepository,
	truthCores *database.TruthCoreRepository,
	matches *database.MatchRepository,
	memories *database.ContextualMemoryRepository,
	dlaTokens *database.DLATokenRepository,
	marketRates *database.MarketRateCacheRepository,
	llmClient llm.Client,
	weights config.MCDAWeights,
	matrix config.UseTypeMatrix,
	pricingCfg config.PricingConfig,
	dlaCfg config.DLAConfig,
) *Engine {
	return &Engine{
		buyerNeeds: buyerNeeds, warehouses: warehouses, truthCores: truthCores,
		matches: matches, memories: memories, dlaTokens: dlaTokens, marketRates: marketRates,
		llmClient: llmClient, weights: weights, matrix: matrix, pricing: pricingCfg, dla: dlaCfg,
	}
}

// Result is the outcome of one Clear call.
type Result struct {
	Tier1           []*models.Match
	DLAOutreachSent int
}

// candidate pairs a Warehouse with its TruthCore as it moves through the
// pre-filter and scoring steps.
type candidate struct {
	warehouse *models.Warehouse
	truthCore *models.TruthCore
}

// Clear runs the full pipeline for one buyer need. A database error at
// any step aborts the operation and is returned; the steps do not share
// one transaction, so Matches and DLA tokens written before the failing
// step stay persisted. An LLM failure degrades the feature dimension
// instead of failing the call; zero Tier-1 matches is a valid, successful
// result.
func (e *Engine) Clear(ctx context.Context, buyerNeedID string) (*Result, error) {
	need, err := e.buyerNeeds.Get(ctx, buyerNeedID)
	if err != nil {
		return nil, err
	}

	eligible, err := e.tier1Candidates(ctx)
	if err != nil {
		return nil, err
	}

	compatible := filterUseTypeCompatible(e.matrix, need, eligible)
	scored := e.scoreAndRank(ctx, need, compatible)

	tier1 := scoring.RankDescending(scored, tier1Target)
	if err := e.persistTier1(ctx, tier1); err != nil {
		return nil, err
	}

	result := &Result{Tier1: tier1}
	if len(tier1) >= tier1Target {
		return result, nil
	}

	sent, err := e.runDLAOutreach(ctx, need)
	if err != nil {
		return nil, err
	}
	result.DLAOutreachSent = sent
	return result, nil
}

// tier1Candidates loads every warehouse whose TruthCore is eligible for
// Tier-1 (activation on, supplier in_network — §3).
func (e *Engine) tier1Candidates(ctx context.Context) ([]candidate, error) {
	cores, err := e.truthCores.ListActiveEligibleForTier1(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(cores))
	for _, tc := range cores {
		w, err := e.warehouses.Get(ctx, tc.WarehouseID)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate{warehouse: w, truthCore: tc})
	}
	return out, nil
}

// filterUseTypeCompatible implements the §4.1 step 1 requirements gate:
// a candidate must have a size range overlapping the buyer's
// [min_sqft,max_sqft] AND a non-zero use-type compatibility score
// (the boundary between "weakly compatible but still scored" (30/60)
// and "incompatible, not matched at all" — §8 boundary scenario 4).
func filterUseTypeCompatible(matrix config.UseTypeMatrix, need *models.BuyerNeed, candidates []candidate) []candidate {
	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if !sizeRangesOverlap(need, c.truthCore) {
			continue
		}
		score, _ := usetype.Score(matrix, c.truthCore.ActivityTier, c.truthCore.HasOfficeSpace, need.UseType)
		if score > 0 {
			out = append(out, c)
		}
	}
	return out
}

// sizeRangesOverlap is the §4.1 step 1 size gate: the buyer's
// [min_sqft,max_sqft] range must overlap the warehouse's.
func sizeRangesOverlap(need *models.BuyerNeed, tc *models.TruthCore) bool {
	return need.MinSqft <= tc.MaxSqft && need.MaxSqft >= tc.MinSqft
}

// scoreAndRank applies the strict-radius filter, falls back to KNN when
// that filter is empty, scores every survivor with the MCDA composite,
// and runs the LLM feature-alignment pass over the top candidates
// (§4.1 steps 1-3).
func (e *Engine) scoreAndRank(ctx context.Context, need *models.BuyerNeed, candidates []candidate) []*models.Match {
	withinRadius, knnPool := partitionByRadius(need, candidates)

	pool := withinRadius
	knnFallback := false
	if len(pool) == 0 && need.Lat != nil && need.Lng != nil && len(knnPool) > 0 {
		pool = nearestCandidates(need, knnPool, knnFallbackMaxCandidates)
		knnFallback = true
	}

	matches := make([]*models.Match, 0, len(pool))
	byWarehouse := make(map[string][]*models.ContextualMemory, len(pool))
	for _, c := range pool {
		dist := distanceOrZero(need, c.warehouse)
		m := scoring.Score(e.weights, e.matrix, e.pricing, need, scoring.Candidate{
			Warehouse:     c.warehouse,
			TruthCore:     c.truthCore,
			DistanceMiles: dist,
			KNNFallback:   knnFallback,
		})
		matches = append(matches, m)
	}

	topCandidates := scoring.RankDescending(matches, llmCandidatePoolSize)
	for _, m := range topCandidates {
		mem, err := e.memories.ListByWarehouse(ctx, m.WarehouseID)
		if err == nil {
			byWarehouse[m.WarehouseID] = mem
		}
	}
	return scoring.ApplyFeatureAlignment(ctx, e.llmClient, e.weights, need, byWarehouse, topCandidates)
}

// partitionByRadius implements the §4.1 step 1 geo gate: within the
// lesser of the buyer's stated radius and the Tier-1 cap when both sides
// have coordinates, falling back to an exact state match when either
// side doesn't. A candidate with neither usable coordinates nor a usable
// state comparison is rejected outright — it lands in neither slice.
// Candidates with coordinates that clear the radius cap but sit within
// knnFallbackMaxMiles feed the KNN fallback pool.
func partitionByRadius(need *models.BuyerNeed, candidates []candidate) (within, knnPool []candidate) {
	radius := math.Min(need.RadiusMiles, tier1RadiusCapMiles)
	for _, c := range candidates {
		if need.Lat != nil && need.Lng != nil && c.warehouse.HasCoordinates() {
			dist := haversineMiles(*need.Lat, *need.Lng, *c.warehouse.Lat, *c.warehouse.Lng)
			switch {
			case dist <= radius:
				within = append(within, c)
			case dist <= knnFallbackMaxMiles:
				knnPool = append(knnPool, c)
			}
			continue
		}
		if need.State != "" && c.warehouse.State != "" && strings.EqualFold(need.State, c.warehouse.State) {
			within = append(within, c)
		}
		// Neither coordinates nor a usable state comparison: rejected.
	}
	return within, knnPool
}

// nearestCandidates sorts candidates (all of which have coordinates on
// both sides, per partitionByRadius) by distance from need and returns
// the closest n.
func nearestCandidates(need *models.BuyerNeed, candidates []candidate, n int) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return distanceOrZero(need, candidates[i].warehouse) < distanceOrZero(need, candidates[j].warehouse)
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func distanceOrZero(need *models.BuyerNeed, w *models.Warehouse) float64 {
	if need.Lat == nil || need.Lng == nil || !w.HasCoordinates() {
		return 0
	}
	return haversineMiles(*need.Lat, *need.Lng, *w.Lat, *w.Lng)
}

// persistTier1 writes each Tier-1 Match and its InstantBookScore. Matches
// are created with fresh IDs at persist time, not during scoring, so a
// scored-but-not-selected candidate never touches the database.
func (e *Engine) persistTier1(ctx context.Context, tier1 []*models.Match) error {
	for _, m := range tier1 {
		m.ID = uuid.NewString()
		m.Status = models.MatchStatusPresented
		if err := e.matches.Create(ctx, m); err != nil {
			return err
		}

		w, err := e.warehouses.Get(ctx, m.WarehouseID)
		if err != nil {
			return err
		}
		tc, err := e.truthCores.Get(ctx, m.WarehouseID)
		if err != nil {
			return err
		}
		mem, err := e.memories.ListByWarehouse(ctx, m.WarehouseID)
		if err != nil {
			return err
		}
		ibs := scoring.ComputeInstantBookScore(m.ID, w, tc, mem, m)
		ibs.ComputedAt = time.Now().UTC()
		if err := e.matches.CreateInstantBookScore(ctx, ibs); err != nil {
			return err
		}
	}
	return nil
}
