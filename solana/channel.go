// solana/channel.go
package solana

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// InstructionBuilder encodes a swap intent into program instructions. Each
// pool program has its own account layout, so encoding stays behind this
// interface and the channel only assembles, signs and ships transactions.
type InstructionBuilder interface {
	BuildSwapInstructions(ctx context.Context, intent *types.SwapIntent) ([]sol.Instruction, error)
}

// Channel executes swap intents against the chain: simulation, signing,
// broadcast and status probes.
type Channel struct {
	client     *rpc.Client
	builder    InstructionBuilder
	wallet     sol.PrivateKey
	logger     *zap.Logger
	commitment rpc.CommitmentType
}

// NewChannel собирает канал отправки поверх RPC клиента, кошелька и
// построителя инструкций.
func NewChannel(client *rpc.Client, builder InstructionBuilder, wallet sol.PrivateKey, logger *zap.Logger) *Channel {
	return &Channel{
		client:     client,
		builder:    builder,
		wallet:     wallet,
		logger:     logger.Named("channel"),
		commitment: rpc.CommitmentConfirmed,
	}
}

// Simulate dry-runs the intent against the current bank state.
func (ch *Channel) Simulate(ctx context.Context, intent *types.SwapIntent) error {
	tx, err := ch.buildSigned(ctx, intent)
	if err != nil {
		return err
	}

	result, err := ch.client.SimulateTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("simulation request failed: %w", err)
	}
	if result.Value.Err != nil {
		ch.logger.Debug("Simulation rejected transaction",
			zap.Any("err", result.Value.Err),
			zap.Strings("logs", result.Value.Logs))
		return fmt.Errorf("simulation failed: %v", result.Value.Err)
	}

	var units uint64
	if result.Value.UnitsConsumed != nil {
		units = *result.Value.UnitsConsumed
	}
	ch.logger.Debug("Simulation passed", zap.Uint64("units_consumed", units))
	return nil
}

// Sign builds and signs a broadcast-ready transaction for the intent. The
// payload is the wire-encoded transaction, так что Broadcast не зависит от
// состояния канала между вызовами.
func (ch *Channel) Sign(ctx context.Context, intent *types.SwapIntent) (*types.SignedIntent, error) {
	tx, err := ch.buildSigned(ctx, intent)
	if err != nil {
		return nil, err
	}

	payload, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return &types.SignedIntent{Intent: intent, Payload: payload}, nil
}

// Broadcast submits a signed transaction and returns its signature.
func (ch *Channel) Broadcast(ctx context.Context, signed *types.SignedIntent) (string, error) {
	tx, err := sol.TransactionFromDecoder(bin.NewBinDecoder(signed.Payload))
	if err != nil {
		return "", fmt.Errorf("failed to decode signed payload: %w", err)
	}

	// Preflight уже выполнен отдельным шагом симуляции.
	sig, err := ch.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: ch.commitment,
	})
	if err != nil {
		return "", err
	}

	ch.logger.Info("Transaction sent", zap.String("signature", sig.String()))
	return sig.String(), nil
}

// CheckStatus probes the transaction's confirmation state. A signature the
// cluster has not seen yet reports pending.
func (ch *Channel) CheckStatus(ctx context.Context, hash string) (*types.TxStatus, error) {
	sig, err := sol.SignatureFromBase58(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}

	response, err := ch.client.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}
	if response == nil || len(response.Value) == 0 || response.Value[0] == nil {
		return &types.TxStatus{State: types.TxPending}, nil
	}

	status := response.Value[0]
	result := &types.TxStatus{
		State: types.TxPending,
		Slot:  status.Slot,
	}
	if status.Confirmations != nil {
		result.Confirmations = *status.Confirmations
	}

	if status.Err != nil {
		result.State = types.TxFailed
		result.Err = fmt.Sprintf("%v", status.Err)
		return result, nil
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		result.State = types.TxSucceeded
	}
	return result, nil
}

// buildSigned assembles a fresh transaction for the intent: instructions
// from the builder, the latest blockhash and the wallet's signature.
func (ch *Channel) buildSigned(ctx context.Context, intent *types.SwapIntent) (*sol.Transaction, error) {
	instructions, err := ch.builder.BuildSwapInstructions(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("failed to build instructions: %w", err)
	}

	recent, err := ch.client.GetLatestBlockhash(ctx, ch.commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := sol.NewTransaction(instructions,
		recent.Value.Blockhash,
		sol.TransactionPayer(ch.wallet.PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if _, err := tx.Sign(func(key sol.PublicKey) *sol.PrivateKey {
		if ch.wallet.PublicKey().Equals(key) {
			return &ch.wallet
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}
