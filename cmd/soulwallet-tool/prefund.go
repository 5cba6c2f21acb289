package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mamad-1373/soulwalletlib/pkg/eip1559"
)

var prefundCmd = &cobra.Command{
	Use:   "prefund",
	Short: "Report the prefund a wallet deploy operation needs",
	Long: `Builds and estimates the deploy operation for the given identity, then
compares the required entry point prefund against the wallet's current
deposit.`,
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
		op, err := sdk.BuildDeployOp(ctx, init, "")
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

		result, err := sdk.ComputePrefund(ctx, op)
		if err != nil {
			return err
		}

		fmt.Printf("wallet:   %s\n", op.Sender.Hex())
		fmt.Printf("deposit:  %s ETH\n", formatEth(result.Deposit))
		fmt.Printf("required: %s ETH\n", formatEth(result.RequiredPrefund))
		fmt.Printf("missing:  %s ETH\n", formatEth(result.MissingFund))
		return nil
	},
}

// formatEth renders a 0x-hex wei quantity as a decimal ETH amount.
func formatEth(weiHex string) string {
	wei, err := hexutil.DecodeBig(weiHex)
	if err != nil {
		return weiHex
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

func init() {
	registerWalletInitFlags(prefundCmd)
	rootCmd.AddCommand(prefundCmd)
}
