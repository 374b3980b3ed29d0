package validate

import (
	"sort"
	"sync"
)

// LinkCache is the shared external-link cache for one run. Entries are
// replaced atomically per URL; contention is low (one entry per unique URL),
// so a single mutex coordinates all access.
type LinkCache struct {
	mu      sync.Mutex
	entries map[string]Link
}

// NewLinkCache creates an empty LinkCache.
func NewLinkCache() *LinkCache {
	return &LinkCache{entries: make(map[string]Link)}
}

// Get returns the entry for a URL, if present.
func (c *LinkCache) Get(url string) (Link, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[url]
	return l, ok
}

// PutIfAbsent stores the entry unless one already exists for its URL, and
// returns the entry that is now in the cache.
func (c *LinkCache) PutIfAbsent(l Link) Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[l.URL]; ok {
		return existing
	}
	c.entries[l.URL] = l
	return l
}

// Update applies fn to the entry for url under the cache lock. Missing URLs
// are ignored.
func (c *LinkCache) Update(url string, fn func(*Link)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.entries[url]; ok {
		fn(&l)
		c.entries[url] = l
	}
}

// WithStatus returns all entries currently in the given status.
func (c *LinkCache) WithStatus(status LinkStatus) []Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Link
	for _, l := range c.entries {
		if l.Status == status {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Snapshot returns all entries sorted by URL.
func (c *LinkCache) Snapshot() []Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Link, 0, len(c.entries))
	for _, l := range c.entries {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Len returns the number of cached entries.
func (c *LinkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
