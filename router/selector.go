// router/selector.go
package router

import (
	"context"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-dex-sdk/amm"
	"github.com/rovshanmuradov/solana-dex-sdk/errs"
	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

var errNoPoolForHop = errors.New("no usable pool for hop")

// RouteQuote pairs the winning route with its quote. The quote's slippage
// bound and deadline are left for the caller to fill in: the selector only
// prices.
type RouteQuote struct {
	Route Route
	Quote *types.Quote
}

// Selector turns candidate paths into the single best exact-input quote.
type Selector struct {
	oracle  PoolOracle
	logger  *zap.Logger
	maxHops int
	cache   *PairCache
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithMaxHops overrides the hop limit used for path enumeration.
func WithMaxHops(n int) SelectorOption {
	return func(s *Selector) {
		if n > 0 {
			s.maxHops = n
		}
	}
}

// WithPairCache injects a pair cache so repeated calls skip pool discovery.
func WithPairCache(c *PairCache) SelectorOption {
	return func(s *Selector) { s.cache = c }
}

// NewSelector builds a route selector over the given oracle.
func NewSelector(oracle PoolOracle, logger *zap.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		oracle:  oracle,
		logger:  logger.Named("router"),
		maxHops: DefaultMaxHops,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BestRoute prices every candidate path and keeps the one with strictly
// greater output; ties keep the first found. Candidates are priced
// concurrently since they are independent, while hops inside one path stay
// strictly sequential (each hop's input is the previous hop's output).
// An individual path failing to price (dry pool, zero reserves, unreadable
// fee) drops that candidate without aborting the search. No viable
// candidate yields (nil, nil): a valid negative result, not an error.
func (s *Selector) BestRoute(ctx context.Context, tokenIn, tokenOut types.TokenID, amountIn *big.Int) (*RouteQuote, error) {
	if tokenIn == tokenOut {
		return nil, errs.New(errs.KindValidation, "tokenIn and tokenOut must differ")
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, errs.New(errs.KindValidation, "amountIn must be positive")
	}

	graph, err := BuildGraph(ctx, s.oracle, s.cache, s.logger)
	if err != nil {
		return nil, errs.Classify(err)
	}

	paths := graph.FindPaths(tokenIn, tokenOut, s.maxHops)
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([]*RouteQuote, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		eg.Go(func() error {
			rq, err := s.quotePath(egCtx, graph, path, amountIn)
			if err != nil {
				s.logger.Debug("Candidate path dropped",
					zap.Any("path", path),
					zap.Error(err))
				return nil
			}
			results[i] = rq
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errs.Classify(err)
	}

	var best *RouteQuote
	for _, rq := range results {
		if rq == nil {
			continue
		}
		if best == nil || rq.Quote.AmountOut.Cmp(best.Quote.AmountOut) > 0 {
			best = rq
		}
	}
	if best != nil {
		s.logger.Debug("Route selected",
			zap.Any("path", best.Quote.Path),
			zap.String("amount_out", best.Quote.AmountOut.String()),
			zap.Uint16("fee_bps", best.Quote.FeeBps),
			zap.Uint16("price_impact_bps", best.Quote.PriceImpactBps))
	}
	return best, nil
}

// quotePath prices one candidate path hop by hop, threading each output
// into the next input. Reserves and the dynamic fee are read fresh per hop;
// there is no atomic snapshot across hops, so later hops may observe
// reserves that moved since the first hop was priced.
func (s *Selector) quotePath(ctx context.Context, graph *Graph, path []types.TokenID, amountIn *big.Int) (*RouteQuote, error) {
	hops := make([]types.Hop, 0, len(path)-1)
	amount := amountIn

	for i := 0; i+1 < len(path); i++ {
		hop, err := s.bestHop(ctx, graph.Pools(path[i], path[i+1]), path[i], path[i+1], amount)
		if err != nil {
			return nil, err
		}
		hops = append(hops, *hop)
		amount = hop.AmountOut
	}

	var route Route
	if len(hops) == 1 {
		route = Direct{Hop: hops[0]}
	} else {
		chained, err := NewChained(hops)
		if err != nil {
			return nil, err
		}
		route = chained
	}

	return &RouteQuote{Route: route, Quote: s.buildQuote(route, path)}, nil
}

// bestHop prices one pool traversal across every pool connecting the pair
// and keeps the pool paying the most. Pools that fail to price are skipped.
func (s *Selector) bestHop(ctx context.Context, pools []types.PoolID, tokenIn, tokenOut types.TokenID, amountIn *big.Int) (*types.Hop, error) {
	var best *types.Hop
	for _, id := range pools {
		reserves, err := s.oracle.PoolReserves(ctx, id, tokenIn)
		if err != nil {
			s.logger.Debug("Skipping pool without reserves",
				zap.String("pool", string(id)),
				zap.Error(err))
			continue
		}
		feeBps, err := s.oracle.PoolDynamicFee(ctx, id)
		if err != nil {
			s.logger.Debug("Skipping pool without fee state",
				zap.String("pool", string(id)),
				zap.Error(err))
			continue
		}
		out, err := amm.AmountOut(amountIn, reserves.In, reserves.Out, feeBps)
		if err != nil || out.Sign() <= 0 {
			continue
		}
		if best == nil || out.Cmp(best.AmountOut) > 0 {
			best = &types.Hop{
				Pool:           id,
				TokenIn:        tokenIn,
				TokenOut:       tokenOut,
				AmountIn:       amountIn,
				AmountOut:      out,
				FeeBps:         feeBps,
				FeeAmount:      amm.FeeAmount(amountIn, feeBps),
				PriceImpactBps: amm.PriceImpactBps(amountIn, reserves.In, reserves.Out, out),
			}
		}
	}
	if best == nil {
		return nil, errNoPoolForHop
	}
	return best, nil
}

// buildQuote assembles the aggregate view over a priced route. Per-hop fees
// and impacts compound multiplicatively: the aggregate of rates r_i in bps
// is 10000 - prod(10000-r_i)/10000^(n-1), which reduces to the single rate
// for direct routes. The aggregate fee amount is expressed in the input
// token.
func (s *Selector) buildQuote(route Route, path []types.TokenID) *types.Quote {
	hops := route.Hops()

	feeRates := make([]uint16, len(hops))
	impactRates := make([]uint16, len(hops))
	for i, h := range hops {
		feeRates[i] = h.FeeBps
		impactRates[i] = h.PriceImpactBps
	}
	aggFee := compoundBps(feeRates)

	return &types.Quote{
		TokenIn:        path[0],
		TokenOut:       path[len(path)-1],
		AmountIn:       route.AmountIn(),
		AmountOut:      route.AmountOut(),
		FeeBps:         aggFee,
		FeeAmount:      amm.FeeAmount(route.AmountIn(), aggFee),
		PriceImpactBps: compoundBps(impactRates),
		Path:           path,
		Hops:           hops,
	}
}

// compoundBps folds basis-point rates applied in sequence into one
// effective rate.
func compoundBps(rates []uint16) uint16 {
	if len(rates) == 0 {
		return 0
	}
	prod := big.NewInt(1)
	for _, r := range rates {
		prod.Mul(prod, big.NewInt(int64(amm.BpsDenominator-r)))
	}
	den := new(big.Int).Exp(
		big.NewInt(amm.BpsDenominator),
		big.NewInt(int64(len(rates)-1)),
		nil,
	)
	eff := prod.Quo(prod, den)
	return uint16(amm.BpsDenominator - eff.Int64())
}
