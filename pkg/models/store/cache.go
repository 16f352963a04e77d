package store

import "time"

// CacheKey identifies one cached analysis snapshot.
type CacheKey struct {
	CabinetID string
	DateFrom  string // YYYY-MM-DD
	DateTo    string // YYYY-MM-DD
}

// AnalyticsCacheEntry is one cache row: the full serialized response payload
// for a (cabinet, window) key, overwritten wholesale on recompute.
type AnalyticsCacheEntry struct {
	Key         CacheKey
	Payload     []byte // serialized api.ComprehensiveData
	GeneratedAt time.Time
	ExpiresAt   time.Time
}
