package models

import "time"

// GeocodeResult is the in-process LRU cache value for pkg/geocode. Never
// persisted — spec.md keeps geocoding caches per-process, in memory only.
type GeocodeResult struct {
	Query     string
	Lat       float64
	Lng       float64
	Formatted string
	CachedAt  time.Time
}
