// router/graph.go
package router

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// Graph is an undirected token-adjacency view over the known pool set.
// It is rebuilt from scratch on every path-finding invocation: pool counts
// are small relative to the RPC cost of pricing candidates, so incremental
// maintenance is not worth the state.
type Graph struct {
	adj map[types.TokenID]map[types.TokenID][]types.PoolID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[types.TokenID]map[types.TokenID][]types.PoolID)}
}

// AddPool registers a pool as an edge between its two tokens.
func (g *Graph) AddPool(id types.PoolID, a, b types.TokenID) {
	if a == b {
		return
	}
	g.addEdge(a, b, id)
	g.addEdge(b, a, id)
}

func (g *Graph) addEdge(from, to types.TokenID, id types.PoolID) {
	if g.adj[from] == nil {
		g.adj[from] = make(map[types.TokenID][]types.PoolID)
	}
	g.adj[from][to] = append(g.adj[from][to], id)
}

// Neighbors returns the tokens directly reachable from t, sorted for
// deterministic traversal order.
func (g *Graph) Neighbors(t types.TokenID) []types.TokenID {
	edges := g.adj[t]
	if len(edges) == 0 {
		return nil
	}
	out := make([]types.TokenID, 0, len(edges))
	for n := range edges {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pools returns the pools connecting a and b directly.
func (g *Graph) Pools(a, b types.TokenID) []types.PoolID {
	return g.adj[a][b]
}

// BuildGraph constructs the adjacency view from the oracle's pool set.
// A pool whose token pair cannot be read is excluded from the graph, not
// treated as fatal. When a warm pair cache is supplied the oracle round-trip
// is skipped entirely and the graph is rebuilt from the cache.
func BuildGraph(ctx context.Context, oracle PoolOracle, cache *PairCache, logger *zap.Logger) (*Graph, error) {
	g := NewGraph()

	if cache != nil && cache.Warm() {
		for _, entry := range cache.Snapshot() {
			for _, id := range entry.Pools {
				g.AddPool(id, entry.A, entry.B)
			}
		}
		return g, nil
	}

	ids, err := oracle.ListPools(ctx)
	if err != nil {
		return nil, err
	}

	pairs := make(map[string]*PairPools)
	for _, id := range ids {
		a, b, err := oracle.PoolTokens(ctx, id)
		if err != nil {
			logger.Debug("Skipping unreadable pool",
				zap.String("pool", string(id)),
				zap.Error(err))
			continue
		}
		g.AddPool(id, a, b)

		key := pairKey(a, b)
		if pairs[key] == nil {
			pairs[key] = &PairPools{A: a, B: b}
		}
		pairs[key].Pools = append(pairs[key].Pools, id)
	}

	if cache != nil {
		for _, p := range pairs {
			cache.Put(p.A, p.B, p.Pools)
		}
	}
	return g, nil
}
