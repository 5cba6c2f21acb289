// Package soulwallet is the UserOperation lifecycle engine: it derives
// counterfactual wallet addresses, builds deploy and execute operations,
// estimates gas through a bundler, packs signatures, and submits operations
// with a local hash cross-check.
package soulwallet

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mamad-1373/soulwalletlib/core/chainio/soulwallet"
	"github.com/mamad-1373/soulwalletlib/core/config"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/bundler"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/userop"
	"github.com/mamad-1373/soulwalletlib/pkg/logger"
)

// ChainReader is the read-only chain-state oracle the SDK depends on.
// *ethclient.Client satisfies it.
type ChainReader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// BundlerRPC is the bundler facade the SDK submits through.
// *bundler.BundlerClient satisfies it.
type BundlerRPC interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SupportedEntryPoints(ctx context.Context) ([]common.Address, error)
	EstimateUserOperationGas(ctx context.Context, op *userop.UserOperation, entryPoint common.Address) (*bundler.GasEstimation, error)
	SendUserOperation(ctx context.Context, op *userop.UserOperation, entryPoint common.Address) (string, error)
}

// SoulWallet is the SDK entry object. It is safe for concurrent use: all
// state apart from the read-shared config cache is per-call.
type SoulWallet struct {
	cfg      *config.WalletConfig
	chain    ChainReader
	bundler  BundlerRPC
	resolver *Resolver
	logger   logger.Logger
}

// New wires a SoulWallet from a validated config and the two transport
// collaborators. The config cache is created here and torn down by Close.
func New(cfg *config.WalletConfig, chain ChainReader, bundlerClient BundlerRPC, lgr logger.Logger) (*SoulWallet, error) {
	cache, err := NewConfigCache()
	if err != nil {
		return nil, err
	}

	lgr = logger.EnsureLogger(lgr)
	return &SoulWallet{
		cfg:      cfg,
		chain:    chain,
		bundler:  bundlerClient,
		resolver: NewResolver(chain, bundlerClient, cache, lgr),
		logger:   lgr,
	}, nil
}

// Close releases the config cache.
func (w *SoulWallet) Close() error {
	return w.resolver.Close()
}

// resolveConfig reads the provider chain id, validates it, and resolves the
// on-chain config for this SDK's factory on that chain.
func (w *SoulWallet) resolveConfig(ctx context.Context) (*OnChainConfig, error) {
	chainID, err := w.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	id, err := safeChainID(chainID)
	if err != nil {
		return nil, err
	}
	return w.resolver.Resolve(ctx, w.cfg.FactoryAddress, id)
}

// GetNonce reads the sender's entry point nonce for the given key (nil means
// key 0).
func (w *SoulWallet) GetNonce(ctx context.Context, sender common.Address, key *big.Int) (*big.Int, error) {
	cfg, err := w.resolveConfig(ctx)
	if err != nil {
		return nil, err
	}
	return soulwallet.GetNonce(ctx, w.chain, cfg.EntryPoint, sender, key)
}

// UserOpHash computes the operation's entry point hash under the resolved
// (entryPoint, chainId) domain.
func (w *SoulWallet) UserOpHash(ctx context.Context, op *userop.UserOperation) (common.Hash, error) {
	cfg, err := w.resolveConfig(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	return op.Hash(cfg.EntryPoint, big.NewInt(cfg.ChainID))
}
