// Package bundler is a thin client for the EIP-4337 bundler RPC namespace.
// Bundler RPC is stateless; every method is a single round trip.
package bundler

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/userop"
)

// RPCError wraps a bundler or node failure verbatim, tagged with the RPC
// method that produced it. No retry happens at this layer.
type RPCError struct {
	Method string
	Err    error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("bundler rpc %s: %v", e.Method, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

// BundlerClient talks to an EIP-4337 bundler RPC endpoint.
type BundlerClient struct {
	client *rpc.Client
}

// NewBundlerClient connects to the given URL. DialHTTP is used as it is the
// most compatible with HTTP-based bundler endpoints while still supporting
// WebSocket URLs.
func NewBundlerClient(url string) (*BundlerClient, error) {
	c, err := rpc.DialHTTP(url)
	if err != nil {
		return nil, fmt.Errorf("error creating bundler client: %w", err)
	}
	return &BundlerClient{client: c}, nil
}

func (bc *BundlerClient) Close() {
	bc.client.Close()
}

// ChainID returns the chain id the bundler reports via eth_chainId.
func (bc *BundlerClient) ChainID(ctx context.Context) (*big.Int, error) {
	var result hexutil.Big
	if err := bc.client.CallContext(ctx, &result, "eth_chainId"); err != nil {
		return nil, &RPCError{Method: "eth_chainId", Err: err}
	}
	return (*big.Int)(&result), nil
}

// SupportedEntryPoints returns the entry point contracts the bundler accepts
// operations for, in the bundler's own order.
func (bc *BundlerClient) SupportedEntryPoints(ctx context.Context) ([]common.Address, error) {
	var result []common.Address
	if err := bc.client.CallContext(ctx, &result, "eth_supportedEntryPoints"); err != nil {
		return nil, &RPCError{Method: "eth_supportedEntryPoints", Err: err}
	}
	return result, nil
}

// EstimateUserOperationGas asks the bundler to simulate the operation and
// return gas values. The signature field is not verified for validity by the
// bundler, but it must have a realistic length so the simulation walks the
// full verification path.
func (bc *BundlerClient) EstimateUserOperationGas(
	ctx context.Context,
	op *userop.UserOperation,
	entryPoint common.Address,
) (*GasEstimation, error) {
	var result struct {
		PreVerificationGas   *hexutil.Big `json:"preVerificationGas"`
		VerificationGasLimit *hexutil.Big `json:"verificationGasLimit"`
		CallGasLimit         *hexutil.Big `json:"callGasLimit"`
	}

	err := bc.client.CallContext(ctx, &result, "eth_estimateUserOperationGas", op.ToWire(), entryPoint.Hex())
	if err != nil {
		return nil, &RPCError{Method: "eth_estimateUserOperationGas", Err: err}
	}
	if result.PreVerificationGas == nil || result.VerificationGasLimit == nil || result.CallGasLimit == nil {
		return nil, &RPCError{
			Method: "eth_estimateUserOperationGas",
			Err:    fmt.Errorf("incomplete estimation result: %+v", result),
		}
	}

	return &GasEstimation{
		PreVerificationGas:   (*big.Int)(result.PreVerificationGas),
		VerificationGasLimit: (*big.Int)(result.VerificationGasLimit),
		CallGasLimit:         (*big.Int)(result.CallGasLimit),
	}, nil
}

// SendUserOperation submits the operation and returns the bundler-reported
// userOpHash.
func (bc *BundlerClient) SendUserOperation(
	ctx context.Context,
	op *userop.UserOperation,
	entryPoint common.Address,
) (string, error) {
	var opHash string
	err := bc.client.CallContext(ctx, &opHash, "eth_sendUserOperation", op.ToWire(), entryPoint.Hex())
	if err != nil {
		return "", &RPCError{Method: "eth_sendUserOperation", Err: err}
	}
	return opHash, nil
}
