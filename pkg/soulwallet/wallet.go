package soulwallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mamad-1373/soulwalletlib/core/chainio/soulwallet"
)

// WalletInit describes the identity a new wallet is initialized with.
type WalletInit struct {
	// Index selects the CREATE2 salt; the same (Index, key, guardian data)
	// always derives the same address.
	Index *big.Int
	// InitialKey is the wallet's first signing key commitment.
	InitialKey common.Hash
	// GuardianHash commits to the initial guardian set for social recovery.
	GuardianHash common.Hash
	// GuardianSafePeriod in seconds; 0 means the configured default.
	GuardianSafePeriod uint64
}

func (w *SoulWallet) guardianSafePeriod(requested uint64) uint64 {
	if requested != 0 {
		return requested
	}
	return w.cfg.GuardianSafePeriod
}

// initializerPayload encodes the wallet's initialize call: the initial key,
// the default callback handler, then the security control module and the
// key-store module in that order. Module order matters on-chain.
func (w *SoulWallet) initializerPayload(init WalletInit) ([]byte, error) {
	securityInit, err := soulwallet.EncodeSecurityControlInit(w.cfg.SecurityControlModuleDelay)
	if err != nil {
		return nil, err
	}

	keyStoreInit, err := soulwallet.EncodeKeyStoreInit(init.InitialKey, init.GuardianHash, w.guardianSafePeriod(init.GuardianSafePeriod))
	if err != nil {
		return nil, err
	}

	modules := [][]byte{
		soulwallet.EncodeModuleInstall(w.cfg.SecurityControlModule, securityInit),
		soulwallet.EncodeModuleInstall(w.cfg.KeyStoreModule, keyStoreInit),
	}
	return soulwallet.EncodeInitializer(init.InitialKey, w.cfg.DefaultCallbackHandler, modules)
}

// WalletAddress derives the counterfactual wallet address for the given
// identity. Deterministic: identical inputs always derive the same address,
// whether or not the wallet is deployed yet.
func (w *SoulWallet) WalletAddress(ctx context.Context, init WalletInit) (common.Address, error) {
	initializer, err := w.initializerPayload(init)
	if err != nil {
		return common.Address{}, err
	}
	return soulwallet.GetWalletAddress(ctx, w.chain, w.cfg.FactoryAddress, initializer, soulwallet.Salt(init.Index))
}

// IsWalletDeployed reports whether code exists at the wallet address.
func (w *SoulWallet) IsWalletDeployed(ctx context.Context, wallet common.Address) (bool, error) {
	code, err := w.chain.CodeAt(ctx, wallet, nil)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}
