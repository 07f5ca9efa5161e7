// client/client.go
package client

import (
	"context"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/amm"
	"github.com/rovshanmuradov/solana-dex-sdk/errs"
	"github.com/rovshanmuradov/solana-dex-sdk/logger"
	"github.com/rovshanmuradov/solana-dex-sdk/metrics"
	"github.com/rovshanmuradov/solana-dex-sdk/poller"
	"github.com/rovshanmuradov/solana-dex-sdk/retry"
	"github.com/rovshanmuradov/solana-dex-sdk/router"
	"github.com/rovshanmuradov/solana-dex-sdk/storage"
	"github.com/rovshanmuradov/solana-dex-sdk/storage/models"
	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// ErrNoRoute is returned by GetQuote when the pool graph offers no path
// between the requested tokens. Compare with errors.Is.
var ErrNoRoute = errs.New(errs.KindPairNotFound, "no route between token pair")

// DefaultQuoteTTL bounds how long a served quote stays executable.
const DefaultQuoteTTL = 30 * time.Second

// Client is the public entry point of the SDK. It composes the route
// selector, the retry policy and the transaction poller over two
// caller-supplied capabilities: a PoolOracle for market state and a
// SubmissionChannel for execution.
type Client struct {
	oracle    router.PoolOracle
	channel   SubmissionChannel
	selector  *router.Selector
	logger    *logger.Logger
	store     storage.Storage
	slippage  types.SlippageConfig
	quoteTTL  time.Duration
	maxHops   int
	cache     *router.PairCache
	retryOpts retry.Options
	pollOpts  poller.Options
}

// Option configures a Client.
type Option func(*Client)

// WithStore enables persistence of quotes and submission lifecycles.
func WithStore(s storage.Storage) Option {
	return func(c *Client) { c.store = s }
}

// WithSlippage overrides the default bps slippage policy.
func WithSlippage(cfg types.SlippageConfig) Option {
	return func(c *Client) { c.slippage = cfg }
}

// WithQuoteTTL overrides how far in the future quote deadlines are set.
func WithQuoteTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.quoteTTL = ttl
		}
	}
}

// WithMaxHops overrides the route search hop limit.
func WithMaxHops(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxHops = n
		}
	}
}

// WithPairCache injects a shared pair cache so repeated quotes skip pool
// discovery until the cache is explicitly invalidated.
func WithPairCache(cache *router.PairCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithRetryOptions overrides the backoff policy used during submission.
func WithRetryOptions(opts retry.Options) Option {
	return func(c *Client) { c.retryOpts = opts }
}

// WithPollingOptions overrides the confirmation polling policy.
func WithPollingOptions(opts poller.Options) Option {
	return func(c *Client) { c.pollOpts = opts }
}

// New собирает клиента поверх оракула пулов и канала отправки.
func New(oracle router.PoolOracle, channel SubmissionChannel, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		oracle:    oracle,
		channel:   channel,
		logger:    log,
		slippage:  types.SlippageConfig{Type: types.SlippageBps, Value: types.DefaultSlippageBps},
		quoteTTL:  DefaultQuoteTTL,
		maxHops:   router.DefaultMaxHops,
		retryOpts: retry.DefaultOptions(),
		pollOpts:  poller.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.selector = router.NewSelector(oracle, log.Logger,
		router.WithMaxHops(c.maxHops),
		router.WithPairCache(c.cache),
	)
	return c
}

// QuoteOption overrides one knob for a single quote request.
type QuoteOption func(*quoteParams)

type quoteParams struct {
	slippage types.SlippageConfig
	deadline time.Time
}

// WithQuoteSlippage overrides the slippage tolerance for this quote only.
func WithQuoteSlippage(cfg types.SlippageConfig) QuoteOption {
	return func(p *quoteParams) { p.slippage = cfg }
}

// WithQuoteDeadline pins this quote's deadline instead of deriving it from
// the client's TTL.
func WithQuoteDeadline(deadline time.Time) QuoteOption {
	return func(p *quoteParams) { p.deadline = deadline }
}

// GetQuote prices a swap of amount between tokenIn and tokenOut.
//
// For exact-in trades the best route up to the hop limit is selected and
// amount is the input; for exact-out trades amount is the desired output and
// only direct pools are considered, since chained exact-output pricing would
// have to invert every intermediate hop against moving reserves. A connected
// pair with no direct pool is a validation failure for exact-out, not a
// missing route.
//
// The returned quote carries the slippage bound and the deadline; it is
// ready to hand to SubmitWithRetryAndPoll.
func (c *Client) GetQuote(ctx context.Context, tokenIn, tokenOut types.TokenID, amount *big.Int, trade types.TradeType, opts ...QuoteOption) (*types.Quote, error) {
	if err := validateQuoteRequest(tokenIn, tokenOut, amount); err != nil {
		return nil, err
	}

	params := quoteParams{slippage: c.slippage}
	for _, opt := range opts {
		opt(&params)
	}

	var quote *types.Quote
	err := metrics.MeasureQuote(func() error {
		var err error
		switch trade {
		case types.TradeExactOut:
			quote, err = c.exactOutQuote(ctx, tokenIn, tokenOut, amount)
		default:
			quote, err = c.exactInQuote(ctx, tokenIn, tokenOut, amount, params.slippage)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if params.deadline.IsZero() {
		params.deadline = time.Now().Add(c.quoteTTL)
	}
	quote.Deadline = params.deadline
	c.recordQuote(ctx, quote)

	c.logger.Debug("Quote served",
		zap.String("token_in", string(tokenIn)),
		zap.String("token_out", string(tokenOut)),
		zap.String("amount_in", quote.AmountIn.String()),
		zap.String("amount_out", quote.AmountOut.String()),
		zap.Int("hops", len(quote.Hops)))
	return quote, nil
}

// FindOptimalPath returns the best exact-input route with its priced quote,
// or (nil, nil) when the tokens are not connected. Validation failures and
// oracle errors are still reported as errors. The quote carries no slippage
// bound or deadline; GetQuote fills those.
func (c *Client) FindOptimalPath(ctx context.Context, tokenIn, tokenOut types.TokenID, amountIn *big.Int) (*router.RouteQuote, error) {
	return c.selector.BestRoute(ctx, tokenIn, tokenOut, amountIn)
}

// InvalidateCache drops cached pair discovery, forcing the next quote to
// re-enumerate pools. Call it after switching RPC endpoints or networks.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}

func (c *Client) exactInQuote(ctx context.Context, tokenIn, tokenOut types.TokenID, amountIn *big.Int, slippage types.SlippageConfig) (*types.Quote, error) {
	rq, err := c.selector.BestRoute(ctx, tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, err
	}
	if rq == nil {
		return nil, ErrNoRoute
	}
	quote := rq.Quote
	quote.AmountOutMin = slippage.MinAmountOut(quote.AmountOut)
	return quote, nil
}

// exactOutQuote prices a desired output amount against direct pools only,
// keeping the pool demanding the least input.
func (c *Client) exactOutQuote(ctx context.Context, tokenIn, tokenOut types.TokenID, amountOut *big.Int) (*types.Quote, error) {
	graph, err := router.BuildGraph(ctx, c.oracle, c.cache, c.logger.Logger)
	if err != nil {
		return nil, errs.Classify(err)
	}

	pools := graph.Pools(tokenIn, tokenOut)
	if len(pools) == 0 {
		if len(graph.FindPaths(tokenIn, tokenOut, c.maxHops)) > 0 {
			return nil, errs.New(errs.KindValidation,
				"exact-output quoting requires a direct pool").
				WithDetail("token_in", string(tokenIn)).
				WithDetail("token_out", string(tokenOut))
		}
		return nil, ErrNoRoute
	}

	var best *types.Hop
	for _, id := range pools {
		reserves, err := c.oracle.PoolReserves(ctx, id, tokenIn)
		if err != nil {
			c.logger.Debug("Skipping pool without reserves",
				zap.String("pool", string(id)), zap.Error(err))
			continue
		}
		feeBps, err := c.oracle.PoolDynamicFee(ctx, id)
		if err != nil {
			c.logger.Debug("Skipping pool without fee state",
				zap.String("pool", string(id)), zap.Error(err))
			continue
		}
		in, err := amm.AmountIn(amountOut, reserves.In, reserves.Out, feeBps)
		if err != nil {
			continue
		}
		if best == nil || in.Cmp(best.AmountIn) < 0 {
			best = &types.Hop{
				Pool:           id,
				TokenIn:        tokenIn,
				TokenOut:       tokenOut,
				AmountIn:       in,
				AmountOut:      new(big.Int).Set(amountOut),
				FeeBps:         feeBps,
				FeeAmount:      amm.FeeAmount(in, feeBps),
				PriceImpactBps: amm.PriceImpactBps(in, reserves.In, reserves.Out, amountOut),
			}
		}
	}
	if best == nil {
		return nil, errs.New(errs.KindInsufficientLiquidity,
			"no direct pool can fill the requested output").
			WithDetail("amount_out", amountOut.String())
	}

	return &types.Quote{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       best.AmountIn,
		AmountOut:      best.AmountOut,
		AmountOutMin:   new(big.Int).Set(amountOut),
		FeeBps:         best.FeeBps,
		FeeAmount:      best.FeeAmount,
		PriceImpactBps: best.PriceImpactBps,
		Path:           []types.TokenID{tokenIn, tokenOut},
		Hops:           []types.Hop{*best},
	}, nil
}

// recordQuote persists the served quote when storage is configured.
// Best-effort: persistence failure never fails the quote.
func (c *Client) recordQuote(ctx context.Context, quote *types.Quote) {
	if c.store == nil {
		return
	}
	record := &models.QuoteRecord{
		TokenIn:        string(quote.TokenIn),
		TokenOut:       string(quote.TokenOut),
		AmountIn:       quote.AmountIn.String(),
		AmountOut:      quote.AmountOut.String(),
		Path:           joinPath(quote.Path),
		FeeBps:         quote.FeeBps,
		PriceImpactBps: quote.PriceImpactBps,
	}
	if err := c.store.SaveQuote(ctx, record); err != nil {
		c.logger.Warn("Failed to persist quote", zap.Error(err))
	}
}

func validateQuoteRequest(tokenIn, tokenOut types.TokenID, amount *big.Int) error {
	if tokenIn == "" || tokenOut == "" {
		return errs.New(errs.KindValidation, "token identifiers must be non-empty")
	}
	if tokenIn == tokenOut {
		return errs.New(errs.KindValidation, "tokenIn and tokenOut must differ")
	}
	if amount == nil || amount.Sign() <= 0 {
		return errs.New(errs.KindValidation, "amount must be positive")
	}
	return nil
}

func joinPath(path []types.TokenID) string {
	parts := make([]string, len(path))
	for i, t := range path {
		parts[i] = string(t)
	}
	return strings.Join(parts, "->")
}
