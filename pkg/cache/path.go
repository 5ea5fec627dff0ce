package cache

import (
	"context"
	"encoding/json"
	"time"
)

// PathCache specializes a Cache for shortest-path BFS results, keyed by
// (source, sink) actor code pairs.
type PathCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedPathResult is the cached outcome of one BFS query.
type CachedPathResult struct {
	Found      bool      `json:"found"`
	Path       []int32   `json:"path,omitempty"` // actor/movie codes in traversal order
	Length     int       `json:"length"`
	ComputedAt time.Time `json:"computed_at"`
}

// NewPathCache creates a path-result cache wrapping the given backend.
func NewPathCache(cache Cache, defaultTTL time.Duration) *PathCache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &PathCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached result for a (source, sink) pair, if present.
func (pc *PathCache) Get(ctx context.Context, sourceCode, sinkCode int32) (*CachedPathResult, bool, error) {
	key := PathKey(sourceCode, sinkCode)

	data, err := pc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedPathResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = pc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup of corrupt entry
		return nil, false, nil
	}

	return &result, true, nil
}

// Set stores a BFS result for a (source, sink) pair.
func (pc *PathCache) Set(ctx context.Context, sourceCode, sinkCode int32, result *CachedPathResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = pc.defaultTTL
	}

	key := PathKey(sourceCode, sinkCode)
	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return pc.cache.Set(ctx, key, data, ttl)
}

// Invalidate removes the cached result for a (source, sink) pair.
func (pc *PathCache) Invalidate(ctx context.Context, sourceCode, sinkCode int32) error {
	return pc.cache.Delete(ctx, PathKey(sourceCode, sinkCode))
}
