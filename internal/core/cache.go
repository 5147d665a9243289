// Package core provides the ports and caching services shared by the jobadmin API and console.
package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/giraone/jobadmin/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// The core defines the interface and the data layer provides the implementation.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// ProcessOptionsKey is the cache key holding the process option list of the console forms.
const ProcessOptionsKey = "jobadmin:process-options"

// ProcessLoader fetches the full process option list from its source of truth.
type ProcessLoader func(ctx context.Context) ([]model.Process, error)

// ProcessOptionsCache caches the process option list used by job record forms and filters.
// Cache failures are logged and never fail the caller; the loader result is used instead.
type ProcessOptionsCache struct {
	cache  CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// ProcessOptionsCacheOptions bundles dependencies for NewProcessOptionsCache.
type ProcessOptionsCacheOptions struct {
	Cache  CacheRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// DefaultProcessOptionsTTL is used when no TTL is configured.
const DefaultProcessOptionsTTL = time.Minute

// NewProcessOptionsCache creates a new ProcessOptionsCache.
func NewProcessOptionsCache(opts ProcessOptionsCacheOptions) *ProcessOptionsCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultProcessOptionsTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessOptionsCache{
		cache:  opts.Cache,
		ttl:    ttl,
		logger: logger.With("component", "process_options_cache"),
	}
}

// Get returns the cached option list, calling load on a miss and storing its result.
func (c *ProcessOptionsCache) Get(ctx context.Context, load ProcessLoader) ([]model.Process, error) {
	if c == nil || c.cache == nil {
		return load(ctx)
	}

	if cached, err := c.cache.Get(ctx, ProcessOptionsKey); err != nil {
		c.logger.WarnContext(ctx, "process options cache read failed", "error", err)
	} else if cached != nil {
		procs, decodeErr := decodeProcesses(cached)
		if decodeErr == nil {
			return procs, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable process options", "error", decodeErr)
	}

	procs, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := encodeProcesses(procs)
	if err != nil {
		c.logger.WarnContext(ctx, "process options encode failed", "error", err)
		return procs, nil
	}
	if setErr := c.cache.Set(ctx, ProcessOptionsKey, payload, c.ttl); setErr != nil {
		c.logger.WarnContext(ctx, "process options cache write failed", "error", setErr)
	}
	return procs, nil
}

// Invalidate drops the cached option list. Called after any process write.
func (c *ProcessOptionsCache) Invalidate(ctx context.Context) {
	if c == nil || c.cache == nil {
		return
	}
	if _, err := c.cache.Delete(ctx, ProcessOptionsKey); err != nil {
		c.logger.WarnContext(ctx, "process options cache invalidation failed", "error", err)
	}
}

func encodeProcesses(procs []model.Process) ([]byte, error) {
	wire := make([]model.ProcessWire, len(procs))
	for i, p := range procs {
		wire[i] = model.ProcessToWire(p)
	}
	return json.Marshal(wire)
}

func decodeProcesses(data []byte) ([]model.Process, error) {
	var wire []model.ProcessWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	procs := make([]model.Process, 0, len(wire))
	for _, w := range wire {
		p, err := model.ProcessFromWire(w)
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	return procs, nil
}
