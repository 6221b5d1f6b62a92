package pubstatic

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

// BuildFunc produces a fresh build.
type BuildFunc func(ctx context.Context) (*BuildResult, error)

// SiteCache is an in-memory cache of the last build with TTL. The preview
// server reads through it so content edits show up without a restart.
type SiteCache struct {
	mu      sync.RWMutex
	result  *BuildResult
	fetched time.Time
	ttl     time.Duration
	build   BuildFunc
	logger  *log.Logger
}

// NewSiteCache creates a SiteCache backed by build. Failed rebuilds are
// reported to logger when it is non-nil.
func NewSiteCache(build BuildFunc, ttl time.Duration, logger *log.Logger) *SiteCache {
	return &SiteCache{build: build, ttl: ttl, logger: logger}
}

func (c *SiteCache) valid() bool {
	return c.result != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate marks the cache stale so the next read triggers a rebuild.
// The previous result is kept as a fallback.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.fetched = time.Time{}
	c.mu.Unlock()
}

// Get returns the cached build after ensuring it is fresh. It tries a read
// lock first; only takes a write lock if a rebuild is needed. When a rebuild
// fails and an older result exists, the older result is served.
func (c *SiteCache) Get(ctx context.Context) (*BuildResult, error) {
	c.mu.RLock()
	if c.valid() {
		res := c.result
		c.mu.RUnlock()
		return res, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.result, nil
	}
	res, err := c.build(ctx)
	if err != nil {
		if c.result != nil {
			if c.logger != nil {
				c.logger.Errorf("rebuild failed, serving previous build: %v", err)
			}
			return c.result, nil
		}
		return nil, err
	}
	c.result = res
	c.fetched = time.Now()
	return res, nil
}
