package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/mamad-1373/soulwalletlib/pkg/soulwallet"
)

// Wallet identity flags shared by the commands that derive an address.
var (
	walletIndex        int64
	initialKeyHex      string
	guardianHashHex    string
	guardianSafePeriod uint64
)

func registerWalletInitFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&walletIndex, "index", 0, "CREATE2 salt index")
	cmd.Flags().StringVar(&initialKeyHex, "initial-key", "", "Initial signing key commitment (bytes32 hex)")
	cmd.Flags().StringVar(&guardianHashHex, "guardian-hash", "0x0000000000000000000000000000000000000000000000000000000000000000", "Guardian set commitment (bytes32 hex)")
	cmd.Flags().Uint64Var(&guardianSafePeriod, "safe-period", 0, "Guardian safe period in seconds, 0 uses the configured default")

	_ = cmd.MarkFlagRequired("initial-key")
}

func walletInitFromFlags() (soulwallet.WalletInit, error) {
	initialKey, err := parseHash("initial-key", initialKeyHex)
	if err != nil {
		return soulwallet.WalletInit{}, err
	}
	guardianHash, err := parseHash("guardian-hash", guardianHashHex)
	if err != nil {
		return soulwallet.WalletInit{}, err
	}

	return soulwallet.WalletInit{
		Index:              big.NewInt(walletIndex),
		InitialKey:         initialKey,
		GuardianHash:       guardianHash,
		GuardianSafePeriod: guardianSafePeriod,
	}, nil
}

func parseHash(flag, value string) (common.Hash, error) {
	if len(common.FromHex(value)) != common.HashLength {
		return common.Hash{}, fmt.Errorf("flag --%s: expected 32 byte hex value, got %q", flag, value)
	}
	return common.HexToHash(value), nil
}
