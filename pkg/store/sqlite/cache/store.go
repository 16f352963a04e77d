// Package cache is the analytics result cache: one row per
// (cabinet, dateFrom, dateTo) key, overwritten wholesale on recompute.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wb-tools/seller-atlas/pkg/models/store"
)

// DefaultTTL is how long a completed analysis snapshot stays servable.
const DefaultTTL = 6 * time.Hour

type Store interface {
	// Get returns the entry for key, or nil when absent or expired.
	Get(ctx context.Context, key store.CacheKey) (*store.AnalyticsCacheEntry, error)
	// Put overwrites the entry for its key.
	Put(ctx context.Context, entry store.AnalyticsCacheEntry) error
	// Prune deletes expired rows and reports how many went away.
	Prune(ctx context.Context) (int64, error)
}

type cacheStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &cacheStore{db: db, now: time.Now}, nil
}

func (s *cacheStore) Get(ctx context.Context, key store.CacheKey) (*store.AnalyticsCacheEntry, error) {
	query := `
		SELECT payload, generated_at, expires_at
		FROM analytics_cache
		WHERE cabinet_id = ? AND date_from = ? AND date_to = ?`

	entry := store.AnalyticsCacheEntry{Key: key}
	err := s.db.QueryRowContext(ctx, query, key.CabinetID, key.DateFrom, key.DateTo).
		Scan(&entry.Payload, &entry.GeneratedAt, &entry.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	if !entry.ExpiresAt.After(s.now().UTC()) {
		return nil, nil
	}
	return &entry, nil
}

func (s *cacheStore) Put(ctx context.Context, entry store.AnalyticsCacheEntry) error {
	query := `
		INSERT INTO analytics_cache (cabinet_id, date_from, date_to, payload, generated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (cabinet_id, date_from, date_to) DO UPDATE SET
			payload      = excluded.payload,
			generated_at = excluded.generated_at,
			expires_at   = excluded.expires_at`

	_, err := s.db.ExecContext(ctx, query,
		entry.Key.CabinetID, entry.Key.DateFrom, entry.Key.DateTo,
		entry.Payload, entry.GeneratedAt.UTC(), entry.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (s *cacheStore) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analytics_cache WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return res.RowsAffected()
}
