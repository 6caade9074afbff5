package middleware

import (
	"context"
	"sync"
	"time"
)

const (
	tenantCacheTTL     = 5 * time.Minute
	inactiveCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

type cachedTenant struct {
	active    bool
	fetchedAt time.Time
}

// ttl returns how long this entry stays valid.
func (ct cachedTenant) ttl() time.Duration {
	if ct.active {
		return tenantCacheTTL
	}
	return inactiveCacheTTL
}

// CachedTenantChecker wraps a TenantChecker with a bounded in-memory cache. Inactive
// answers are cached briefly; lookup errors are not cached.
type CachedTenantChecker struct {
	inner TenantChecker
	mu    sync.RWMutex
	cache map[string]cachedTenant
}

// NewCachedTenantChecker creates a caching wrapper around inner.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedTenantChecker(ctx context.Context, inner TenantChecker) *CachedTenantChecker {
	c := &CachedTenantChecker{
		inner: inner,
		cache: make(map[string]cachedTenant),
	}
	go c.evictLoop(ctx)
	return c
}

func (c *CachedTenantChecker) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.evictExpired(time.Now())
			c.mu.Unlock()
		}
	}
}

// evictExpired drops stale entries. Caller must hold c.mu.
func (c *CachedTenantChecker) evictExpired(now time.Time) {
	for k, v := range c.cache {
		if now.Sub(v.fetchedAt) >= v.ttl() {
			delete(c.cache, k)
		}
	}
}

// TenantActive returns the cached answer or asks the inner checker.
func (c *CachedTenantChecker) TenantActive(ctx context.Context, tenantID string) (bool, error) {
	c.mu.RLock()
	entry, ok := c.cache[tenantID]
	c.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		return entry.active, nil
	}

	active, err := c.inner.TenantActive(ctx, tenantID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		c.evictExpired(time.Now())
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	c.cache[tenantID] = cachedTenant{active: active, fetchedAt: time.Now()}
	c.mu.Unlock()

	return active, nil
}
