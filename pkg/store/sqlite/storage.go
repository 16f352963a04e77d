// Package sqlite owns the service's persistent state: the analytics result
// cache. Pure-Go driver, no CGo.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
	CREATE TABLE IF NOT EXISTS analytics_cache (
		cabinet_id   TEXT NOT NULL,
		date_from    TEXT NOT NULL,
		date_to      TEXT NOT NULL,
		payload      BLOB NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		expires_at   TIMESTAMP NOT NULL,
		PRIMARY KEY (cabinet_id, date_from, date_to)
	);
	CREATE INDEX IF NOT EXISTS idx_cache_expires ON analytics_cache(expires_at);
`

var bootQueries = []string{
	cacheSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens (or creates) the database and applies the boot schema.
func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", settings.DbPath, err)
	}

	// SQLite is single-writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return db, nil
}
