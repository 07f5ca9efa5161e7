// solana/oracle.go
package solana

import (
	"context"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// feeStateLayout is the on-chain account holding a pool's current fee. The
// trade fee moves with the pool's volatility window; the protocol share is
// informational here.
type feeStateLayout struct {
	Discriminator  [8]byte
	TradeFeeBps    uint16
	ProtocolFeeBps uint16
}

// Oracle serves pool membership and live pricing inputs from the chain.
// Pool membership comes from the registry; reserves and fees are read fresh
// per call.
type Oracle struct {
	client     *rpc.Client
	registry   *Registry
	logger     *zap.Logger
	commitment rpc.CommitmentType
}

// NewOracle собирает оракул поверх RPC клиента и реестра пулов.
func NewOracle(client *rpc.Client, registry *Registry, logger *zap.Logger) *Oracle {
	return &Oracle{
		client:     client,
		registry:   registry,
		logger:     logger.Named("oracle"),
		commitment: rpc.CommitmentConfirmed,
	}
}

// ListPools returns all pool ids known to the registry.
func (o *Oracle) ListPools(ctx context.Context) ([]types.PoolID, error) {
	return o.registry.List(), nil
}

// PoolTokens returns the two constituent mints of a pool.
func (o *Oracle) PoolTokens(ctx context.Context, id types.PoolID) (types.TokenID, types.TokenID, error) {
	spec, ok := o.registry.Get(id)
	if !ok {
		return "", "", fmt.Errorf("pool not found: %s", id)
	}
	return types.TokenID(spec.TokenA), types.TokenID(spec.TokenB), nil
}

// PoolReserves reads both vault balances and orients them so that In is the
// reserve of tokenIn.
func (o *Oracle) PoolReserves(ctx context.Context, id types.PoolID, tokenIn types.TokenID) (*types.Reserves, error) {
	spec, ok := o.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", id)
	}

	vaultIn, vaultOut := spec.VaultA, spec.VaultB
	switch string(tokenIn) {
	case spec.TokenA:
	case spec.TokenB:
		vaultIn, vaultOut = spec.VaultB, spec.VaultA
	default:
		return nil, fmt.Errorf("token %s is not in pool %s", tokenIn, id)
	}

	in, err := o.vaultBalance(ctx, vaultIn)
	if err != nil {
		return nil, fmt.Errorf("failed to read input vault: %w", err)
	}
	out, err := o.vaultBalance(ctx, vaultOut)
	if err != nil {
		return nil, fmt.Errorf("failed to read output vault: %w", err)
	}

	return &types.Reserves{In: in, Out: out}, nil
}

// PoolDynamicFee reads the pool's current fee in basis points. Pools without
// a fee state account carry a static fee from the registry.
func (o *Oracle) PoolDynamicFee(ctx context.Context, id types.PoolID) (uint16, error) {
	spec, ok := o.registry.Get(id)
	if !ok {
		return 0, fmt.Errorf("pool not found: %s", id)
	}
	if spec.FeeState == "" {
		return spec.FeeBps, nil
	}

	account, err := sol.PublicKeyFromBase58(spec.FeeState)
	if err != nil {
		return 0, fmt.Errorf("invalid fee state account: %w", err)
	}

	result, err := o.client.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Encoding:   sol.EncodingBase64,
		Commitment: o.commitment,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read fee state: %w", err)
	}
	if result == nil || result.Value == nil {
		return 0, fmt.Errorf("fee state account %s is empty", spec.FeeState)
	}

	var state feeStateLayout
	if err := bin.NewBinDecoder(result.Value.Data.GetBinary()).Decode(&state); err != nil {
		return 0, fmt.Errorf("failed to decode fee state: %w", err)
	}
	if state.TradeFeeBps >= 10000 {
		return 0, fmt.Errorf("fee state reports invalid fee: %d bps", state.TradeFeeBps)
	}

	o.logger.Debug("Dynamic fee read",
		zap.String("pool", string(id)),
		zap.Uint16("fee_bps", state.TradeFeeBps))
	return state.TradeFeeBps, nil
}

// vaultBalance reads one SPL token vault balance as an exact integer.
func (o *Oracle) vaultBalance(ctx context.Context, vault string) (*big.Int, error) {
	account, err := sol.PublicKeyFromBase58(vault)
	if err != nil {
		return nil, fmt.Errorf("invalid vault address: %w", err)
	}

	result, err := o.client.GetTokenAccountBalance(ctx, account, o.commitment)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("no balance for vault %s", vault)
	}

	// Amount приходит строкой: баланс может не помещаться в uint64 без
	// потерь после десериализации через float.
	amount, ok := new(big.Int).SetString(result.Value.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("unparseable vault balance: %q", result.Value.Amount)
	}
	return amount, nil
}
