package uielement

import (
	"sync"
	"time"

	"github.com/hintmouse/hintmouse/winmodel"
)

// SubtreeFetcher is the accessibility capability the cache pulls fresh
// elements from (spec.md §6's accessibility_subtree), scoped to the small
// slice uielement needs.
type SubtreeFetcher interface {
	AccessibilitySubtree(window winmodel.Handle) ([]RawElement, error)
}

type cacheEntry struct {
	elements []Element
	expiry   time.Time
}

// Cache is the per-window TTL cache from spec.md §4.5. The map-swap idiom
// below (read under lock, write a full replacement entry) follows the
// resourceCache pattern in gioui's gpu/caches.go, adapted from
// generation-based eviction to wall-clock TTL eviction.
type Cache struct {
	mu       sync.Mutex
	entries  map[winmodel.Handle]cacheEntry
	ttl      time.Duration
	fetcher  SubtreeFetcher
	resolver TypeResolver
	now      func() time.Time
}

// NewCache builds a Cache with the given TTL, sourcing fresh elements from
// fetcher and classifying raw control types through resolver.
func NewCache(ttl time.Duration, fetcher SubtreeFetcher, resolver TypeResolver) *Cache {
	return &Cache{
		entries:  make(map[winmodel.Handle]cacheEntry),
		ttl:      ttl,
		fetcher:  fetcher,
		resolver: resolver,
		now:      time.Now,
	}
}

// Get returns the cached elements for window if present and not expired.
func (c *Cache) Get(window winmodel.Handle) ([]Element, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[window]
	if !ok || c.now().After(entry.expiry) {
		return nil, false
	}
	return entry.elements, true
}

// Refresh performs a synchronous fetch-and-collect for window and installs
// the result in the cache with a fresh expiry, matching spec.md §4.5's
// get_cached_elements fallback path. On fetch failure it caches an empty
// result (the CacheMiss error kind in spec.md §7) rather than leaving the
// stale entry in place, since a failed fetch means the window state is
// unknown, not unchanged.
func (c *Cache) Refresh(window winmodel.Handle) []Element {
	raws, err := c.fetcher.AccessibilitySubtree(window)
	var elements []Element
	if err == nil {
		elements = Collect(window, raws, c.resolver)
	}
	c.mu.Lock()
	c.entries[window] = cacheEntry{elements: elements, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return elements
}

// GetOrRefresh returns the cached elements for window, fetching
// synchronously if the cache has no unexpired entry.
func (c *Cache) GetOrRefresh(window winmodel.Handle) []Element {
	if elements, ok := c.Get(window); ok {
		return elements
	}
	return c.Refresh(window)
}

// Put installs elements for window directly, used by the background
// refresher to publish a completed asynchronous fetch.
func (c *Cache) Put(window winmodel.Handle, elements []Element) {
	c.mu.Lock()
	c.entries[window] = cacheEntry{elements: elements, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// SweepExpired removes expired entries, as invoked at the start of each
// session (spec.md §4.5).
func (c *Cache) SweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for handle, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, handle)
		}
	}
}
