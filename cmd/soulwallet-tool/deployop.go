package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamad-1373/soulwalletlib/pkg/eip1559"
)

var deployCallData string

var deployOpCmd = &cobra.Command{
	Use:   "deploy-op",
	Short: "Build a gas-estimated wallet deploy operation and print it as JSON",
	Long: `Builds the UserOperation that deploys the wallet for the given identity,
fills in current network fees, asks the bundler for gas estimates, and prints
the wire-format operation. The signature field is left empty for the caller
to fill in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		init, err := walletInitFromFlags()
		if err != nil {
			return err
		}

		sdk, conn, cleanup, err := newSDK()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		op, err := sdk.BuildDeployOp(ctx, init, deployCallData)
		if err != nil {
			return err
		}

		op.MaxFeePerGas, op.MaxPriorityFeePerGas, err = eip1559.SuggestFee(ctx, conn)
		if err != nil {
			return err
		}

		if err := sdk.EstimateGas(ctx, op, nil); err != nil {
			return err
		}

		out, err := json.MarshalIndent(op.ToWire(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	registerWalletInitFlags(deployOpCmd)
	deployOpCmd.Flags().StringVar(&deployCallData, "call-data", "", "Optional calldata the wallet executes on deploy (0x hex)")
	rootCmd.AddCommand(deployOpCmd)
}
