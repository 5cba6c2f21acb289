package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive the counterfactual wallet address for an identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		init, err := walletInitFromFlags()
		if err != nil {
			return err
		}

		sdk, _, cleanup, err := newSDK()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		addr, err := sdk.WalletAddress(ctx, init)
		if err != nil {
			return err
		}

		deployed, err := sdk.IsWalletDeployed(ctx, addr)
		if err != nil {
			return err
		}

		fmt.Printf("address:  %s\n", addr.Hex())
		fmt.Printf("deployed: %v\n", deployed)
		return nil
	},
}

func init() {
	registerWalletInitFlags(addressCmd)
	rootCmd.AddCommand(addressCmd)
}
