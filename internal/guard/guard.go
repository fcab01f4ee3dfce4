package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultTokenTTL  = 30 * time.Second
	DefaultMaxTokens = 64
)

// Guard serializes mutations per entity key and suppresses duplicate
// requests carrying a previously seen idempotency token. Entity state is
// created lazily on first acquire and reclaimed once its token cache is
// empty and no mutation is in flight.
type Guard struct {
	mu      sync.Mutex
	entries map[string]*entry

	tokenTTL  time.Duration
	maxTokens int

	// now is replaceable for tests.
	now func() time.Time
}

// entry is the per-entity state. The cap-1 channel is the entity lock:
// sending acquires, receiving releases. The same channel serves both the
// blocking and the context-aware acquire, so callers in either
// scheduling model serialize on one identity space.
type entry struct {
	sem    chan struct{}
	tokens *tokenCache
	refs   int
}

func New(opts ...Opt) *Guard {
	g := &Guard{
		entries:   make(map[string]*entry),
		tokenTTL:  DefaultTokenTTL,
		maxTokens: DefaultMaxTokens,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Scope is a held mutation scope. The caller must check ShouldApply
// before mutating and must call Release when done, typically deferred.
type Scope struct {
	// ShouldApply is true when the caller should perform the mutation.
	ShouldApply bool

	// Duplicate is true when the supplied token was already seen within
	// the TTL window and the mutation was suppressed.
	Duplicate bool

	g        *Guard
	e        *entry
	key      string
	token    string
	released bool
}

// Acquire takes the mutation scope for key, blocking while another
// caller holds it. If token is non-empty and was already seen within the
// TTL, the returned scope reports Duplicate and the token is not
// re-recorded. Contention never fails; the call blocks until the scope
// is available.
func (g *Guard) Acquire(key, token string) *Scope {
	e := g.checkout(key)
	e.sem <- struct{}{}
	return g.decide(e, key, token)
}

// AcquireContext is Acquire for cooperatively scheduled callers: it
// suspends on ctx rather than blocking the thread, and gives up with
// ctx.Err() if the context ends first.
func (g *Guard) AcquireContext(ctx context.Context, key, token string) (*Scope, error) {
	e := g.checkout(key)
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		g.checkin(key, e)
		return nil, ctx.Err()
	}
	return g.decide(e, key, token), nil
}

// Release exits the mutation scope. Safe to call more than once.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true

	<-s.e.sem
	s.g.checkin(s.key, s.e)
}

// Forget withdraws the token recorded by this acquire so a retry is not
// suppressed as a duplicate. Callers use it when the guarded operation
// itself failed and the client is entitled to try again. Must be called
// before Release.
func (s *Scope) Forget() {
	if s.released || s.token == "" || !s.ShouldApply {
		return
	}
	s.e.tokens.remove(s.token)
}

// checkout pins the entry for key, creating it on first use.
func (g *Guard) checkout(key string) *entry {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[key]
	if !ok {
		e = &entry{
			sem:    make(chan struct{}, 1),
			tokens: newTokenCache(),
		}
		g.entries[key] = e
	}
	e.refs++
	return e
}

// checkin unpins the entry, reclaiming it when idle and token-free.
func (g *Guard) checkin(key string, e *entry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e.refs--
	if e.refs == 0 && e.tokens.len() == 0 {
		delete(g.entries, key)
	}
}

// decide runs with the entity lock held: prunes expired tokens, checks
// for a duplicate, and records new tokens.
func (g *Guard) decide(e *entry, key, token string) *Scope {
	now := g.now()
	e.tokens.prune(now.Add(-g.tokenTTL))

	s := &Scope{g: g, e: e, key: key, token: token}

	if token != "" && e.tokens.contains(token, now) {
		s.Duplicate = true
		slog.Info("duplicate mutation suppressed", "entity", key, "token", token)
		return s
	}

	if token != "" {
		e.tokens.record(token, now, g.maxTokens)
	}
	s.ShouldApply = true
	return s
}
