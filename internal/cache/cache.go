// Package cache keeps finished reports keyed by dataset and configuration,
// in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/clausius/internal/model"
)

// Cache stores opaque values with an expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a namespaced cache key from its parts
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "clausius:v1:" + hex.EncodeToString(hash[:])
}

// Reports is a typed view of a Cache holding model.Report values
type Reports struct {
	cache Cache
	ttl   time.Duration
}

// NewReports wraps c. A zero ttl defers to the cache's own default.
func NewReports(c Cache, ttl time.Duration) *Reports {
	return &Reports{cache: c, ttl: ttl}
}

// Get returns the cached report for key. Undecodable entries count as misses.
func (r *Reports) Get(key string) (*model.Report, bool) {
	data, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	var rep model.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		_ = r.cache.Delete(key)
		return nil, false
	}
	return &rep, true
}

// Set stores a report under key
func (r *Reports) Set(key string, rep *model.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return r.cache.Set(key, data, r.ttl)
}
