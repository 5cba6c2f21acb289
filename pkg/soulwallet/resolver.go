package soulwallet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/mamad-1373/soulwalletlib/core/chainio/soulwallet"
	"github.com/mamad-1373/soulwalletlib/pkg/logger"
)

// OnChainConfig is the resolved wallet-stack configuration for one
// (factory, chain) pair. Immutable once resolved.
type OnChainConfig struct {
	ChainID     int64          `json:"chainId"`
	EntryPoint  common.Address `json:"entryPoint"`
	WalletLogic common.Address `json:"walletLogic"`
}

// ConfigCache memoizes fully validated OnChainConfigs. Values never change
// for a given key, so concurrent writers racing on the same key are
// harmless: whoever wins writes the same value.
type ConfigCache struct {
	store *bigcache.BigCache
}

// NewConfigCache builds the cache backing a Resolver. Entries are meant to
// live for the process lifetime; the ten year life window is bigcache's way
// of saying "no TTL".
func NewConfigCache() (*ConfigCache, error) {
	store, err := bigcache.New(context.Background(), bigcache.DefaultConfig(10*365*24*time.Hour))
	if err != nil {
		return nil, err
	}
	return &ConfigCache{store: store}, nil
}

func cacheKey(factory common.Address, chainID int64) string {
	return fmt.Sprintf("%s|%d", factory.Hex(), chainID)
}

func (c *ConfigCache) Get(factory common.Address, chainID int64) (*OnChainConfig, bool) {
	body, err := c.store.Get(cacheKey(factory, chainID))
	if err != nil {
		return nil, false
	}

	var cfg OnChainConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

func (c *ConfigCache) Put(factory common.Address, cfg *OnChainConfig) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.store.Set(cacheKey(factory, cfg.ChainID), body)
}

func (c *ConfigCache) Close() error {
	return c.store.Close()
}

// Resolver resolves and memoizes the on-chain config for (factory, chain)
// pairs, cross-checking the bundler against the node provider.
type Resolver struct {
	chain   ChainReader
	bundler BundlerRPC
	cache   *ConfigCache
	logger  logger.Logger
}

func NewResolver(chain ChainReader, bundlerClient BundlerRPC, cache *ConfigCache, lgr logger.Logger) *Resolver {
	return &Resolver{
		chain:   chain,
		bundler: bundlerClient,
		cache:   cache,
		logger:  logger.EnsureLogger(lgr),
	}
}

func (r *Resolver) Close() error {
	return r.cache.Close()
}

// safeChainID rejects chain ids that are nil, zero, or too wide for an
// int64; everything downstream keys and hashes on an exactly representable
// integer.
func safeChainID(chainID *big.Int) (int64, error) {
	if chainID == nil || chainID.Sign() == 0 {
		return 0, &ConfigError{Kind: ConfigInvalidChainID, Detail: "chain id is zero"}
	}
	if !chainID.IsInt64() {
		return 0, &ConfigError{Kind: ConfigInvalidChainID, Detail: fmt.Sprintf("chain id %s is not exactly representable", chainID)}
	}
	return chainID.Int64(), nil
}

// Resolve returns the on-chain config for (factory, chainID). Cache hits
// return without any network traffic and without re-validation. On a miss it
// reads walletImpl() from the factory and entryPoint() from the wallet logic
// contract, verifies provider and bundler agree on the chain, verifies the
// bundler supports the entry point, and only then caches. Failures are
// surfaced immediately and never cached.
func (r *Resolver) Resolve(ctx context.Context, factory common.Address, chainID int64) (*OnChainConfig, error) {
	if cfg, ok := r.cache.Get(factory, chainID); ok {
		return cfg, nil
	}

	walletLogic, err := soulwallet.WalletImpl(ctx, r.chain, factory)
	if err != nil {
		return nil, err
	}

	entryPoint, err := soulwallet.EntryPoint(ctx, r.chain, walletLogic)
	if err != nil {
		return nil, err
	}

	providerChainID, err := r.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	providerID, err := safeChainID(providerChainID)
	if err != nil {
		return nil, err
	}
	if providerID != chainID {
		return nil, &ConfigError{
			Kind:   ConfigInvalidChainID,
			Detail: fmt.Sprintf("provider reports chain %d, resolution requested chain %d", providerID, chainID),
		}
	}

	bundlerChainID, err := r.bundler.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	bundlerID, err := safeChainID(bundlerChainID)
	if err != nil {
		return nil, err
	}
	if bundlerID != providerID {
		return nil, &ConfigError{
			Kind:   ConfigBundlerChainMismatch,
			Detail: fmt.Sprintf("provider chain %d, bundler chain %d", providerID, bundlerID),
		}
	}

	supported, err := r.bundler.SupportedEntryPoints(ctx)
	if err != nil {
		return nil, err
	}
	if !lo.ContainsBy(supported, func(a common.Address) bool { return a == entryPoint }) {
		return nil, &ConfigError{
			Kind:   ConfigUnsupportedEntryPoint,
			Detail: fmt.Sprintf("entry point %s not in bundler's supported list %v", entryPoint.Hex(), supported),
		}
	}

	cfg := &OnChainConfig{
		ChainID:     chainID,
		EntryPoint:  entryPoint,
		WalletLogic: walletLogic,
	}
	if err := r.cache.Put(factory, cfg); err != nil {
		// Best effort; the next call re-resolves.
		r.logger.Warnf("config cache write failed for %s: %v", factory.Hex(), err)
	}

	r.logger.Debugf("resolved on-chain config: factory=%s chain=%d entryPoint=%s walletLogic=%s",
		factory.Hex(), chainID, entryPoint.Hex(), walletLogic.Hex())
	return cfg, nil
}
