// router/pathfinder.go
package router

import "github.com/rovshanmuradov/solana-dex-sdk/types"

// DefaultMaxHops bounds path enumeration at three pool traversals, i.e. at
// most two intermediate tokens.
const DefaultMaxHops = 3

// FindPaths enumerates ALL simple paths from src to dst within maxHops pool
// traversals, not just the shortest: paths of different lengths between the
// same pair are all candidates for pricing. Breadth-first: each queue entry
// carries its partial path, a token already on the path is never revisited,
// and a partial path is discarded once it exhausts the hop budget.
//
// Worst-case exponential for dense graphs, but bounded in practice by the
// hop limit and by pool counts being small next to the RPC cost of pricing
// each candidate.
func (g *Graph) FindPaths(src, dst types.TokenID, maxHops int) [][]types.TokenID {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	if src == dst {
		return nil
	}

	var found [][]types.TokenID
	queue := [][]types.TokenID{{src}}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		last := path[len(path)-1]
		if last == dst {
			found = append(found, path)
			continue
		}
		if len(path)-1 >= maxHops {
			continue
		}

		for _, next := range g.Neighbors(last) {
			if contains(path, next) {
				continue
			}
			branch := make([]types.TokenID, len(path), len(path)+1)
			copy(branch, path)
			queue = append(queue, append(branch, next))
		}
	}
	return found
}

func contains(path []types.TokenID, t types.TokenID) bool {
	for _, p := range path {
		if p == t {
			return true
		}
	}
	return false
}
