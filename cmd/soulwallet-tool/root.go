package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/mamad-1373/soulwalletlib/core/config"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/bundler"
	"github.com/mamad-1373/soulwalletlib/pkg/soulwallet"
)

var (
	configPath = "./config/wallet.yaml"

	rootCmd = &cobra.Command{
		Use:   "soulwallet-tool",
		Short: "SoulWallet operations tool",
		Long: `Operational helper around the soulwalletlib SDK.

Each sub command performs a single task, such as deriving a wallet's
counterfactual address or inspecting the prefund a pending operation needs.
`,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to wallet config file")
}

// newSDK builds the SDK from the config file. The returned cleanup closes
// every client it opened.
func newSDK() (*soulwallet.SoulWallet, *ethclient.Client, func(), error) {
	cfg, err := config.NewWalletConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	conn, err := ethclient.Dial(cfg.EthRpcUrl)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot dial eth rpc %s: %w", cfg.EthRpcUrl, err)
	}

	bundlerClient, err := bundler.NewBundlerClient(cfg.BundlerUrl)
	if err != nil {
		conn.Close()
		return nil, nil, nil, err
	}

	sdk, err := soulwallet.New(cfg, conn, bundlerClient, cfg.Logger)
	if err != nil {
		conn.Close()
		bundlerClient.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		sdk.Close()
		bundlerClient.Close()
		conn.Close()
	}
	return sdk, conn, cleanup, nil
}
