// router/selector_test.go
package router

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/errs"
	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// stubPool is one pool's full state for the stub oracle.
type stubPool struct {
	tokenA, tokenB types.TokenID
	reserveA       *big.Int
	reserveB       *big.Int
	feeBps         uint16
	reservesErr    error
	feeErr         error
}

type stubOracle struct {
	pools map[types.PoolID]*stubPool
}

func (o *stubOracle) ListPools(ctx context.Context) ([]types.PoolID, error) {
	ids := make([]types.PoolID, 0, len(o.pools))
	for id := range o.pools {
		ids = append(ids, id)
	}
	return ids, nil
}

func (o *stubOracle) PoolTokens(ctx context.Context, id types.PoolID) (types.TokenID, types.TokenID, error) {
	p, ok := o.pools[id]
	if !ok {
		return "", "", errors.New("pool not found")
	}
	return p.tokenA, p.tokenB, nil
}

func (o *stubOracle) PoolReserves(ctx context.Context, id types.PoolID, tokenIn types.TokenID) (*types.Reserves, error) {
	p, ok := o.pools[id]
	if !ok {
		return nil, errors.New("pool not found")
	}
	if p.reservesErr != nil {
		return nil, p.reservesErr
	}
	if tokenIn == p.tokenA {
		return &types.Reserves{In: p.reserveA, Out: p.reserveB}, nil
	}
	return &types.Reserves{In: p.reserveB, Out: p.reserveA}, nil
}

func (o *stubOracle) PoolDynamicFee(ctx context.Context, id types.PoolID) (uint16, error) {
	p, ok := o.pools[id]
	if !ok {
		return 0, errors.New("pool not found")
	}
	if p.feeErr != nil {
		return 0, p.feeErr
	}
	return p.feeBps, nil
}

func balancedPool(a, b types.TokenID, reserve int64, feeBps uint16) *stubPool {
	return &stubPool{
		tokenA:   a,
		tokenB:   b,
		reserveA: big.NewInt(reserve),
		reserveB: big.NewInt(reserve),
		feeBps:   feeBps,
	}
}

// A shallow direct pool loses to a two-hop route through deep pools: 5000
// into 10000/10000 at 30bps pays 3326, while two 1M/1M hops pay 4920.
func TestBestRoutePrefersDeeperIndirect(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"direct": balancedPool(tid("A"), tid("C"), 10000, 30),
		"hop1":   balancedPool(tid("A"), tid("B"), 1000000, 30),
		"hop2":   balancedPool(tid("B"), tid("C"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("C"), big.NewInt(5000))
	require.NoError(t, err)
	require.NotNil(t, rq)

	assert.Equal(t, []types.TokenID{tid("A"), tid("B"), tid("C")}, rq.Quote.Path)
	assert.Equal(t, int64(4920), rq.Quote.AmountOut.Int64())
	assert.IsType(t, Chained{}, rq.Route)
	require.Len(t, rq.Quote.Hops, 2)
	assert.Equal(t, int64(4960), rq.Quote.Hops[0].AmountOut.Int64())
}

func TestBestRouteDirect(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"p1": balancedPool(tid("A"), tid("B"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("B"), big.NewInt(5000))
	require.NoError(t, err)
	require.NotNil(t, rq)

	assert.Equal(t, int64(4960), rq.Quote.AmountOut.Int64())
	assert.IsType(t, Direct{}, rq.Route)
	assert.Equal(t, uint16(30), rq.Quote.FeeBps)
	assert.Equal(t, int64(15), rq.Quote.FeeAmount.Int64())
}

// Among several pools for the same pair the one paying the most wins.
func TestBestRoutePicksBestPoolForPair(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"shallow": balancedPool(tid("A"), tid("B"), 10000, 30),
		"deep":    balancedPool(tid("A"), tid("B"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("B"), big.NewInt(5000))
	require.NoError(t, err)
	require.NotNil(t, rq)
	assert.Equal(t, types.PoolID("deep"), rq.Quote.Hops[0].Pool)
}

func TestBestRouteNoRoute(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"p1": balancedPool(tid("A"), tid("B"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("X"), big.NewInt(5000))
	require.NoError(t, err)
	assert.Nil(t, rq)
}

// One candidate failing to price must not abort the search.
func TestBestRouteToleratesFailingCandidate(t *testing.T) {
	broken := balancedPool(tid("A"), tid("C"), 10000, 30)
	broken.reservesErr = errors.New("account not found")

	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"direct": broken,
		"hop1":   balancedPool(tid("A"), tid("B"), 1000000, 30),
		"hop2":   balancedPool(tid("B"), tid("C"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("C"), big.NewInt(5000))
	require.NoError(t, err)
	require.NotNil(t, rq)
	assert.Equal(t, []types.TokenID{tid("A"), tid("B"), tid("C")}, rq.Quote.Path)
}

// Every candidate failing yields the no-route result, not an error.
func TestBestRouteAllCandidatesFail(t *testing.T) {
	broken := balancedPool(tid("A"), tid("B"), 10000, 30)
	broken.feeErr = errors.New("fee state unreadable")

	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{"p1": broken}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("B"), big.NewInt(5000))
	require.NoError(t, err)
	assert.Nil(t, rq)
}

func TestBestRouteValidation(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{}}
	s := NewSelector(oracle, zap.NewNop())

	_, err := s.BestRoute(context.Background(), tid("A"), tid("A"), big.NewInt(5000))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = s.BestRoute(context.Background(), tid("A"), tid("B"), big.NewInt(0))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = s.BestRoute(context.Background(), tid("A"), tid("B"), nil)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestBestRouteHonorsMaxHops(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"p1": balancedPool(tid("A"), tid("B"), 1000000, 30),
		"p2": balancedPool(tid("B"), tid("C"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop(), WithMaxHops(1))

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("C"), big.NewInt(5000))
	require.NoError(t, err)
	assert.Nil(t, rq)
}

// Aggregate fee compounds multiplicatively across hops:
// 10000 - 9970*9970/10000 = 60 for two 30bps hops (integer floor).
func TestBestRouteAggregateFee(t *testing.T) {
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"hop1": balancedPool(tid("A"), tid("B"), 1000000, 30),
		"hop2": balancedPool(tid("B"), tid("C"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop())

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("C"), big.NewInt(5000))
	require.NoError(t, err)
	require.NotNil(t, rq)
	assert.Equal(t, uint16(60), rq.Quote.FeeBps)
}

func TestCompoundBps(t *testing.T) {
	assert.Equal(t, uint16(0), compoundBps(nil))
	assert.Equal(t, uint16(30), compoundBps([]uint16{30}))
	// floor(9970*9970/10000) = 9940, so 60.
	assert.Equal(t, uint16(60), compoundBps([]uint16{30, 30}))
	assert.Equal(t, uint16(10000), compoundBps([]uint16{10000, 30}))
}

func TestBestRouteUsesWarmCache(t *testing.T) {
	cache := NewPairCache(zap.NewNop())
	cache.Put(tid("A"), tid("B"), []types.PoolID{"p1"})

	// The oracle knows a second pool that the warm cache does not. The warm
	// cache wins until invalidated.
	oracle := &stubOracle{pools: map[types.PoolID]*stubPool{
		"p1": balancedPool(tid("A"), tid("B"), 1000000, 30),
		"p2": balancedPool(tid("B"), tid("C"), 1000000, 30),
	}}
	s := NewSelector(oracle, zap.NewNop(), WithPairCache(cache))

	rq, err := s.BestRoute(context.Background(), tid("A"), tid("C"), big.NewInt(5000))
	require.NoError(t, err)
	assert.Nil(t, rq)

	cache.Invalidate()
	rq, err = s.BestRoute(context.Background(), tid("A"), tid("C"), big.NewInt(5000))
	require.NoError(t, err)
	require.NotNil(t, rq)
	assert.Equal(t, []types.TokenID{tid("A"), tid("B"), tid("C")}, rq.Quote.Path)
}
