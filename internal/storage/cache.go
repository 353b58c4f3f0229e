package storage

import (
	"database/sql"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// QueryCache stores JSON-encoded query results keyed by (query key,
// snapshot fingerprint). Entries expire by TTL; a small in-process LRU sits
// in front of the database so repeated queries in one process skip SQLite.
type QueryCache struct {
	db  *DB
	lru *lru.Cache[string, cachedValue]
}

type cachedValue struct {
	valueJSON string
	expiresAt time.Time
}

// NewQueryCache creates a query cache with the given LRU capacity.
func NewQueryCache(db *DB, lruSize int) (*QueryCache, error) {
	if lruSize <= 0 {
		lruSize = 128
	}
	front, err := lru.New[string, cachedValue](lruSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &QueryCache{db: db, lru: front}, nil
}

func cacheKey(key, fingerprint string) string {
	return key + "@" + fingerprint
}

// Get retrieves a cached value. Expired entries are deleted on read.
func (c *QueryCache) Get(key, fingerprint string) (string, bool, error) {
	full := cacheKey(key, fingerprint)

	if v, ok := c.lru.Get(full); ok {
		if time.Now().Before(v.expiresAt) {
			return v.valueJSON, true, nil
		}
		c.lru.Remove(full)
	}

	var valueJSON, expiresAt string
	err := c.db.QueryRow(`
		SELECT value_json, expires_at
		FROM query_cache
		WHERE key = ? AND fingerprint = ?
	`, key, fingerprint).Scan(&valueJSON, &expiresAt)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query cache lookup failed: %w", err)
	}

	expiresAtTime, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return "", false, fmt.Errorf("invalid expires_at format: %w", err)
	}

	if time.Now().After(expiresAtTime) {
		_, _ = c.db.Exec("DELETE FROM query_cache WHERE key = ? AND fingerprint = ?", key, fingerprint)
		return "", false, nil
	}

	c.lru.Add(full, cachedValue{valueJSON: valueJSON, expiresAt: expiresAtTime})
	return valueJSON, true, nil
}

// Set stores a value with the given TTL.
func (c *QueryCache) Set(key, fingerprint, valueJSON string, ttlSeconds int) error {
	now := time.Now()
	expiresAt := now.Add(time.Duration(ttlSeconds) * time.Second)

	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO query_cache (key, fingerprint, value_json, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, fingerprint, valueJSON, expiresAt.Format(time.RFC3339), now.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to set query cache: %w", err)
	}

	c.lru.Add(cacheKey(key, fingerprint), cachedValue{valueJSON: valueJSON, expiresAt: expiresAt})
	return nil
}

// Invalidate removes all entries that do not match the given fingerprint,
// typically after a new snapshot is recorded.
func (c *QueryCache) Invalidate(currentFingerprint string) (int, error) {
	c.lru.Purge()

	res, err := c.db.Exec("DELETE FROM query_cache WHERE fingerprint != ?", currentFingerprint)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate query cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
