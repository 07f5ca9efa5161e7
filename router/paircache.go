// router/paircache.go
package router

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// PairPools is one cached pair entry: the sorted token pair and the pools
// connecting it directly.
type PairPools struct {
	A     types.TokenID
	B     types.TokenID
	Pools []types.PoolID
}

// PairCache maps a sorted token pair onto its resolved pool ids so repeated
// routing calls skip the ListPools/PoolTokens round-trips. It is an
// explicitly-scoped, injected object rather than process-wide state: the
// owner must call Invalidate on a network or configuration switch.
type PairCache struct {
	mu      sync.RWMutex
	entries map[string]PairPools
	logger  *zap.Logger
}

// NewPairCache returns an empty cache.
func NewPairCache(logger *zap.Logger) *PairCache {
	return &PairCache{
		entries: make(map[string]PairPools),
		logger:  logger.Named("pair-cache"),
	}
}

func pairKey(a, b types.TokenID) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + ":" + string(b)
}

// Put stores the pools resolved for a pair.
func (c *PairCache) Put(a, b types.TokenID, pools []types.PoolID) {
	c.mu.Lock()
	c.entries[pairKey(a, b)] = PairPools{A: a, B: b, Pools: pools}
	c.mu.Unlock()
}

// Get returns the cached pools for a pair.
func (c *PairCache) Get(a, b types.TokenID) ([]types.PoolID, bool) {
	c.mu.RLock()
	entry, ok := c.entries[pairKey(a, b)]
	c.mu.RUnlock()
	return entry.Pools, ok
}

// Warm reports whether the cache holds any entries.
func (c *PairCache) Warm() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries) > 0
}

// Snapshot returns a copy of all entries, for graph rebuilds.
func (c *PairCache) Snapshot() []PairPools {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PairPools, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Invalidate drops every entry. Must be called when the underlying network
// or pool configuration changes.
func (c *PairCache) Invalidate() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]PairPools)
	c.mu.Unlock()
	c.logger.Debug("Pair cache invalidated", zap.Int("dropped", n))
}
