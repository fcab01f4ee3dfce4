package guard

import (
	"container/list"
	"time"
)

// tokenCache is a time-ordered cache of recently seen idempotency
// tokens. Recency order is kept in a list (most recent at the front)
// with a map for O(1) lookup. It is only ever accessed by the holder of
// the owning entry's lock.
type tokenCache struct {
	order *list.List
	index map[string]*list.Element
}

type tokenEntry struct {
	token string
	seen  time.Time
}

func newTokenCache() *tokenCache {
	return &tokenCache{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

func (c *tokenCache) len() int {
	return c.order.Len()
}

// prune drops every token last seen before cutoff.
func (c *tokenCache) prune(cutoff time.Time) {
	for e := c.order.Back(); e != nil; {
		entry := e.Value.(*tokenEntry)
		if !entry.seen.Before(cutoff) {
			break
		}
		prev := e.Prev()
		c.order.Remove(e)
		delete(c.index, entry.token)
		e = prev
	}
}

// contains reports whether token is cached, refreshing its recency and
// last-seen time when it is.
func (c *tokenCache) contains(token string, now time.Time) bool {
	e, ok := c.index[token]
	if !ok {
		return false
	}
	e.Value.(*tokenEntry).seen = now
	c.order.MoveToFront(e)
	return true
}

// record inserts token at the front, evicting the least recently seen
// entry when the cache exceeds max.
func (c *tokenCache) record(token string, now time.Time, max int) {
	c.index[token] = c.order.PushFront(&tokenEntry{token: token, seen: now})
	for max > 0 && c.order.Len() > max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*tokenEntry).token)
	}
}

// remove drops token from the cache, if present.
func (c *tokenCache) remove(token string) {
	e, ok := c.index[token]
	if !ok {
		return
	}
	c.order.Remove(e)
	delete(c.index, token)
}
