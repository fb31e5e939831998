package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/llm"
	"github.com/wex-clearinghouse/core/pkg/models"
)

const featureAlignmentSystemPrompt = `You score how well each candidate warehouse's features match a buyer's stated requirements.
Respond with JSON only: {"results":[{"warehouse_id":"...","feature_score":0-100,"reasoning":"...","instant_book_eligible":true|false}]}.
Score every candidate provided. feature_score is an integer 0-100.`

// FeatureAlignmentResult is one candidate's LLM-assigned feature score.
type FeatureAlignmentResult struct {
	WarehouseID         string `json:"warehouse_id"`
	FeatureScore        int    `json:"feature_score"`
	Reasoning           string `json:"reasoning"`
	InstantBookEligible bool   `json:"instant_book_eligible"`
}

type featureAlignmentResponse struct {
	Results []FeatureAlignmentResult `json:"results"`
}

// ApplyFeatureAlignment sends the top candidates (already sorted and
// truncated by the caller, typically to 6 — §4.1 step 3) to the LLM for
// feature-level re-scoring, recomputes each candidate's composite, and
// re-sorts. On any failure — timeout, malformed JSON, empty result — every
// candidate keeps its FeatureScoreNeutral placeholder and the use-type
// callout Score put in Reasoning; matching proceeds with the degraded scores rather than
// failing the clear (§4.1 step 3, §1 failure semantics).
func ApplyFeatureAlignment(ctx context.Context, client llm.Client, weights config.MCDAWeights, need *models.BuyerNeed, memories map[string][]*models.ContextualMemory, candidates []*models.Match) []*models.Match {
	if len(candidates) == 0 {
		return candidates
	}

	results := llm.DegradeOnFailure(ctx,
		func(ctx context.Context) ([]FeatureAlignmentResult, error) {
			raw, err := client.Generate(ctx, llm.Request{
				SystemPrompt: featureAlignmentSystemPrompt,
				UserPrompt:   buildFeatureAlignmentPrompt(need, memories, candidates),
			})
			if err != nil {
				return nil, err
			}
			var parsed featureAlignmentResponse
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return nil, fmt.Errorf("scoring: parse feature-alignment response: %w", err)
			}
			if len(parsed.Results) == 0 {
				return nil, fmt.Errorf("scoring: empty feature-alignment response")
			}
			return parsed.Results, nil
		},
		func(error) []FeatureAlignmentResult { return nil },
	)

	byWarehouse := make(map[string]FeatureAlignmentResult, len(results))
	for _, r := range results {
		byWarehouse[r.WarehouseID] = r
	}

	for _, m := range candidates {
		r, ok := byWarehouse[m.WarehouseID]
		if !ok {
			continue // placeholder score and use-type callout stand
		}
		m.FeatureScore = clip(float64(r.FeatureScore))
		m.Reasoning = r.Reasoning
		m.InstantBookEligible = r.InstantBookEligible
		m.MatchScore = Composite(weights, m)
	}

	return RankDescending(candidates, len(candidates))
}

func buildFeatureAlignmentPrompt(need *models.BuyerNeed, memories map[string][]*models.ContextualMemory, candidates []*models.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Buyer requirements: use_type=%s, sqft=%d-%d, needed_from=%s.\n",
		need.UseType, need.MinSqft, need.MaxSqft, need.NeededFrom.Format("2006-01-02"))
	if need.Requirements != "" {
		fmt.Fprintf(&b, "Free-text requirements: %s\n", need.Requirements)
	}
	b.WriteString("Candidates:\n")
	for _, m := range candidates {
		fmt.Fprintf(&b, "- warehouse_id=%s distance_miles=%.1f\n", m.WarehouseID, m.DistanceMiles)
		for _, mem := range memories[m.WarehouseID] {
			fmt.Fprintf(&b, "  memory: %s %s\n", mem.Kind, mem.Note)
		}
	}
	return b.String()
}
