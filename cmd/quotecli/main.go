// cmd/quotecli/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/client"
	"github.com/rovshanmuradov/solana-dex-sdk/config"
	"github.com/rovshanmuradov/solana-dex-sdk/logger"
	"github.com/rovshanmuradov/solana-dex-sdk/numeric"
	"github.com/rovshanmuradov/solana-dex-sdk/router"
	sdksolana "github.com/rovshanmuradov/solana-dex-sdk/solana"
	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to the config file")
	tokenIn := flag.String("in", "", "input token mint")
	tokenOut := flag.String("out", "", "output token mint")
	amount := flag.String("amount", "", "input amount in base units")
	flag.Parse()

	if *tokenIn == "" || *tokenOut == "" || *amount == "" {
		fmt.Fprintln(os.Stderr, "usage: quotecli -in <mint> -out <mint> -amount <base units> [-config path]")
		os.Exit(2)
	}

	amountIn, ok := new(big.Int).SetString(*amount, 10)
	if !ok || amountIn.Sign() <= 0 {
		fmt.Fprintln(os.Stderr, "amount must be a positive integer")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	if cfg.DebugLogging {
		logCfg.Development = true
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	registry := sdksolana.NewRegistry(log.Logger)
	if err := registry.LoadPoolsFromFile(cfg.PoolsFile); err != nil {
		log.Fatal("Failed to load pool registry", zap.Error(err))
	}

	rpcClient := rpc.New(cfg.RPCList[0])
	oracle := sdksolana.NewOracle(rpcClient, registry, log.Logger)

	// Квоты не требуют канала отправки: подпись и бродкаст здесь не нужны.
	c := client.New(oracle, nil, log,
		client.WithMaxHops(cfg.MaxHops),
		client.WithQuoteTTL(cfg.QuoteTTL()),
		client.WithSlippage(types.SlippageConfig{
			Type:  types.SlippageBps,
			Value: uint64(cfg.DefaultSlippageBps),
		}),
		client.WithPairCache(router.NewPairCache(log.Logger)),
	)

	quote, err := c.GetQuote(context.Background(),
		types.TokenID(*tokenIn), types.TokenID(*tokenOut), amountIn, types.TradeExactIn)
	if err != nil {
		log.Fatal("Quote failed", zap.Error(err))
	}

	fmt.Printf("path:           %v\n", quote.Path)
	fmt.Printf("amount in:      %s\n", quote.AmountIn)
	fmt.Printf("amount out:     %s\n", quote.AmountOut)
	fmt.Printf("amount out min: %s\n", quote.AmountOutMin)
	fmt.Printf("price:          %s\n", quote.ExecutionPrice().ToSignificant(6, numeric.RoundHalfUp))
	fmt.Printf("fee:            %s%% (%s)\n", quote.FeePercent(), quote.FeeAmount)
	fmt.Printf("price impact:   %s%%\n", quote.PriceImpactPercent())
}
