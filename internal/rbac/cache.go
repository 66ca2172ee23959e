package rbac

import (
	"sync"
	"time"
)

// DefaultCacheTTL is the expiration window for cached role permissions.
const DefaultCacheTTL = 5 * time.Minute

// Cache holds materialized permission sets per role key, guarded by a single
// shared refresh timestamp. When the window elapses every role goes stale at
// once, and any successful refresh revalidates every entry again. That
// coarse granularity is deliberate: staleness behavior under concurrent
// multi-role usage depends on it.
type Cache struct {
	mu          sync.Mutex
	ttl         time.Duration
	perms       map[string][]Permission
	lastRefresh time.Time
	now         func() time.Time
}

// NewCache constructs a Cache. A non-positive ttl falls back to
// DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:   ttl,
		perms: make(map[string][]Permission),
		now:   time.Now,
	}
}

// Get returns the cached permissions for a role key. The second result is
// false when the role is absent or the shared window has expired.
func (c *Cache) Get(roleKey string) ([]Permission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRefresh.IsZero() || c.now().Sub(c.lastRefresh) > c.ttl {
		return nil, false
	}
	perms, ok := c.perms[roleKey]
	if !ok {
		return nil, false
	}
	return clonePermissions(perms), true
}

// Set stores permissions for a role key and resets the shared timestamp.
func (c *Cache) Set(roleKey string, perms []Permission) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perms[roleKey] = clonePermissions(perms)
	c.lastRefresh = c.now()
}

// Invalidate drops every cached role.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perms = make(map[string][]Permission)
	c.lastRefresh = time.Time{}
}

func clonePermissions(perms []Permission) []Permission {
	if perms == nil {
		return nil
	}
	clone := make([]Permission, len(perms))
	copy(clone, perms)
	return clone
}
