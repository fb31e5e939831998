// Package geocode resolves free-text addresses to coordinates for
// BuyerNeed and Warehouse creation (§5). It wraps a pluggable provider
// behind an in-process LRU cache, sized and TTL'd per spec.md §5, grounded
// on the teacher's pkg/runbook.Cache (lazy-expiring map under sync.RWMutex)
// generalized to also evict by size and to distinguish two negative-result
// outcomes from a positive hit.
package geocode

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// ErrNotFound is returned when the provider has no match for the query.
// Cached for the configured NotFoundTTLMinutes so repeated typos don't
// hammer the provider.
var ErrNotFound = fmt.Errorf("geocode: address not found")

// ErrNotCommercial is returned when the provider resolves the address but
// flags it as residential/non-commercial. Cached for the longer
// NotCommercialTTLMin window since this classification is stable.
var ErrNotCommercial = fmt.Errorf("geocode: address is not zoned commercial")

// Provider is the pluggable geocoding backend. Implementations call out to
// a real geocoding API; Resolve returns ErrNotFound or ErrNotCommercial as
// plain sentinel errors so Client can distinguish them for negative
// caching.
type Provider interface {
	Resolve(ctx context.Context, query string) (models.GeocodeResult, error)
}

// Client resolves addresses through a Provider with a bounded LRU cache
// for hits and short-TTL caches for the two negative outcomes.
type Client struct {
	provider Provider

	mu         sync.Mutex
	maxEntries int
	ll         *list.List
	hits       map[string]*list.Element

	notFoundTTL     time.Duration
	notCommercialTTL time.Duration
	negative        map[string]negativeEntry
}

type hitEntry struct {
	query  string
	result models.GeocodeResult
}

type negativeEntry struct {
	err    error
	expiry time.Time
}

// New builds a Client over provider, sized and timed from config.
func New(provider Provider, geocodeCfg config.GeocodeConfig, limiterCfg config.SearchLimiterConfig) *Client {
	maxEntries := geocodeCfg.CacheMaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &Client{
		provider:         provider,
		maxEntries:       maxEntries,
		ll:               list.New(),
		hits:             make(map[string]*list.Element),
		notFoundTTL:      time.Duration(limiterCfg.NotFoundTTLMinutes) * time.Minute,
		notCommercialTTL: time.Duration(limiterCfg.NotCommercialTTLMin) * time.Minute,
		negative:         make(map[string]negativeEntry),
	}
}

// Resolve looks up query, consulting the LRU cache and the two negative
// caches before calling through to the provider. A fresh provider error
// that is ErrNotFound or ErrNotCommercial is cached under its own TTL; any
// other error is not cached.
func (c *Client) Resolve(ctx context.Context, query string) (models.GeocodeResult, error) {
	c.mu.Lock()
	if el, ok := c.hits[query]; ok {
		c.ll.MoveToFront(el)
		result := el.Value.(*hitEntry).result
		c.mu.Unlock()
		return result, nil
	}
	if neg, ok := c.negative[query]; ok {
		if time.Now().Before(neg.expiry) {
			c.mu.Unlock()
			return models.GeocodeResult{}, neg.err
		}
		delete(c.negative, query)
	}
	c.mu.Unlock()

	result, err := c.provider.Resolve(ctx, query)
	if err != nil {
		ttl, cacheable := c.negativeTTL(err)
		if cacheable {
			c.mu.Lock()
			c.negative[query] = negativeEntry{err: err, expiry: time.Now().Add(ttl)}
			c.mu.Unlock()
		}
		return models.GeocodeResult{}, err
	}

	result.CachedAt = time.Now()
	c.put(query, result)
	return result, nil
}

func (c *Client) negativeTTL(err error) (time.Duration, bool) {
	switch err {
	case ErrNotFound:
		return c.notFoundTTL, true
	case ErrNotCommercial:
		return c.notCommercialTTL, true
	default:
		return 0, false
	}
}

func (c *Client) put(query string, result models.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.hits[query]; ok {
		el.Value.(*hitEntry).result = result
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&hitEntry{query: query, result: result})
	c.hits[query] = el

	for c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.hits, oldest.Value.(*hitEntry).query)
	}
}
