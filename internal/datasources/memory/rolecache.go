package memory

import (
	"context"
	"sync"
	"time"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// CachedRoleGetter wraps a UserRoleGetter with a TTL cache so that
// role-gated endpoints don't hit the users table on every request.
// Entries expire after the TTL; the map is capped, evicting expired and
// then oldest entries when full. Lookup errors are never cached.
type CachedRoleGetter struct {
	inner      datasources.UserRoleGetter
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]roleEntry
}

type roleEntry struct {
	role      domain.UserRole
	expiresAt time.Time
}

var _ datasources.UserRoleGetter = (*CachedRoleGetter)(nil)

func NewCachedRoleGetter(
	inner datasources.UserRoleGetter, ttl time.Duration, maxEntries int,
) *CachedRoleGetter {
	return &CachedRoleGetter{
		inner:      inner,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]roleEntry),
	}
}

func (c *CachedRoleGetter) GetUserRole(ctx context.Context, userID string) (domain.UserRole, error) {
	now := time.Now()

	c.mu.Lock()
	if entry, ok := c.entries[userID]; ok && now.Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.role, nil
	}
	c.mu.Unlock()

	role, err := c.inner.GetUserRole(ctx, userID)
	if err != nil {
		return domain.RoleNone, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[userID] = roleEntry{role: role, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return role, nil
}

// evictLocked drops expired entries, then the soonest-to-expire entry if
// the map is still full. Caller holds the mutex.
func (c *CachedRoleGetter) evictLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) < c.maxEntries {
		return
	}

	var oldestKey string
	var oldestExpiry time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
