package guard

import "time"

type Opt func(*Guard)

// WithTokenTTL sets how long a seen idempotency token suppresses
// duplicates.
func WithTokenTTL(d time.Duration) Opt {
	return func(g *Guard) {
		g.tokenTTL = d
	}
}

// WithMaxTokens bounds the per-entity token cache; the least recently
// seen token is evicted past the bound.
func WithMaxTokens(n int) Opt {
	return func(g *Guard) {
		g.maxTokens = n
	}
}
