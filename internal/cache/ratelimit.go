package cache

import "github.com/stahnma/gh-repofeed/internal/ratelimit"

func rateLimitKey(host string) string {
	return "ratelimit:" + host
}

// SaveRateLimit stores the budget for host until its window resets.
// Borrowed tokens are not persisted.
func (c *Cache) SaveRateLimit(host string, s ratelimit.State) {
	s.Borrowed = 0
	c.SetUntil(rateLimitKey(host), s, s.Reset)
}

// RateLimit returns the stored budget for host while its window is open.
func (c *Cache) RateLimit(host string) (ratelimit.State, bool) {
	v, ok := c.Get(rateLimitKey(host))
	if !ok {
		return ratelimit.State{}, false
	}
	s, ok := v.(ratelimit.State)
	return s, ok
}
