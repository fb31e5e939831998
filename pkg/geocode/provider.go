package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wex-clearinghouse/core/pkg/models"
)

// censusProvider resolves addresses through the US Census Bureau's public
// geocoding API — free, keyless, and good enough for commercial-address
// resolution at BuyerNeed/Warehouse creation time. Mirrors pkg/llm's
// httpClient shape: a thin JSON-over-HTTP caller with its own timeout,
// treated by Client as just another pluggable Provider.
type censusProvider struct {
	baseURL string
	http    *http.Client
}

// NewCensusProvider builds the default Provider used in production. baseURL
// is normally https://geocoding.geo.census.gov/geocoder, overridable for
// tests against a local stub server.
func NewCensusProvider(baseURL string, timeout time.Duration) Provider {
	return &censusProvider{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			MatchedAddress string `json:"matchedAddress"`
			Coordinates    struct {
				X float64 `json:"x"` // longitude
				Y float64 `json:"y"` // latitude
			} `json:"coordinates"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// Resolve implements Provider. A query with zero matches is ErrNotFound;
// the Census API carries no commercial/residential classification, so
// ErrNotCommercial is never returned here — callers that need that
// distinction layer it in themselves.
func (p *censusProvider) Resolve(ctx context.Context, query string) (models.GeocodeResult, error) {
	u := fmt.Sprintf("%s/locations/onelineaddress?address=%s&benchmark=Public_AR_Current&format=json",
		p.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.GeocodeResult{}, fmt.Errorf("geocode: provider returned status %d", resp.StatusCode)
	}

	var parsed censusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.GeocodeResult{}, fmt.Errorf("geocode: parse response: %w", err)
	}
	if len(parsed.Result.AddressMatches) == 0 {
		return models.GeocodeResult{}, ErrNotFound
	}

	m := parsed.Result.AddressMatches[0]
	return models.GeocodeResult{
		Query:     query,
		Lat:       m.Coordinates.Y,
		Lng:       m.Coordinates.X,
		Formatted: m.MatchedAddress,
	}, nil
}
