package eip1559

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	// Minimum tip so bundlers still find the operation profitable.
	minPriorityFee = big.NewInt(1_500_000_000) // 1.5 gwei

	// Tip buffer in percent, to absorb fee spikes between estimation and inclusion.
	tipBufferPercent = big.NewInt(13)
)

// SuggestFee returns (maxFeePerGas, maxPriorityFeePerGas) for a UserOperation.
// The tip is the node's suggestion plus a buffer, floored at minPriorityFee.
// maxFeePerGas is 2x the next block's base fee plus the tip, so the operation
// survives a full base fee increase between blocks. On pre-EIP-1559 chains the
// tip alone is used.
func SuggestFee(ctx context.Context, client *ethclient.Client) (*big.Int, *big.Int, error) {
	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, err
	}

	buffer := new(big.Int).Div(new(big.Int).Mul(tipCap, tipBufferPercent), big.NewInt(100))
	maxPriorityFeePerGas := new(big.Int).Add(tipCap, buffer)
	if maxPriorityFeePerGas.Cmp(minPriorityFee) < 0 {
		maxPriorityFeePerGas = new(big.Int).Set(minPriorityFee)
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, err
	}

	if header.BaseFee == nil {
		return new(big.Int).Set(maxPriorityFeePerGas), maxPriorityFeePerGas, nil
	}

	maxFeePerGas := new(big.Int).Add(
		new(big.Int).Mul(header.BaseFee, big.NewInt(2)),
		maxPriorityFeePerGas,
	)
	return maxFeePerGas, maxPriorityFeePerGas, nil
}
