package soulwallet

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ContractCaller is the read-only chain access these helpers need.
// *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func callView(ctx context.Context, caller ContractCaller, to common.Address, calldata []byte) ([]byte, error) {
	return caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: calldata}, nil)
}

// GetWalletAddress asks the factory for the counterfactual wallet address of
// (initializer, salt). The factory replicates its own CREATE2 derivation, so
// the result matches the address the wallet will deploy at.
func GetWalletAddress(ctx context.Context, caller ContractCaller, factory common.Address, initializer []byte, salt [32]byte) (common.Address, error) {
	calldata, err := factoryABI.Pack("getWalletAddress", initializer, salt)
	if err != nil {
		return common.Address{}, err
	}

	ret, err := callView(ctx, caller, factory, calldata)
	if err != nil {
		return common.Address{}, fmt.Errorf("factory getWalletAddress call failed: %w", err)
	}

	out, err := factoryABI.Unpack("getWalletAddress", ret)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// WalletImpl reads the wallet logic contract address from the factory.
func WalletImpl(ctx context.Context, caller ContractCaller, factory common.Address) (common.Address, error) {
	calldata, err := factoryABI.Pack("walletImpl")
	if err != nil {
		return common.Address{}, err
	}

	ret, err := callView(ctx, caller, factory, calldata)
	if err != nil {
		return common.Address{}, fmt.Errorf("factory walletImpl call failed: %w", err)
	}

	out, err := factoryABI.Unpack("walletImpl", ret)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// EntryPoint reads the entry point address the wallet logic contract is
// bound to.
func EntryPoint(ctx context.Context, caller ContractCaller, walletLogic common.Address) (common.Address, error) {
	calldata, err := walletABI.Pack("entryPoint")
	if err != nil {
		return common.Address{}, err
	}

	ret, err := callView(ctx, caller, walletLogic, calldata)
	if err != nil {
		return common.Address{}, fmt.Errorf("wallet entryPoint call failed: %w", err)
	}

	out, err := walletABI.Unpack("entryPoint", ret)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// ListGuardHook returns the wallet's registered guard hooks in on-chain
// registration order. The order is load bearing for signature verification
// and must never be sorted or deduplicated.
func ListGuardHook(ctx context.Context, caller ContractCaller, wallet common.Address) ([]common.Address, error) {
	calldata, err := walletABI.Pack("listGuardHook")
	if err != nil {
		return nil, err
	}

	ret, err := callView(ctx, caller, wallet, calldata)
	if err != nil {
		return nil, fmt.Errorf("wallet listGuardHook call failed: %w", err)
	}

	out, err := walletABI.Unpack("listGuardHook", ret)
	if err != nil {
		return nil, err
	}
	return out[0].([]common.Address), nil
}

// GetNonce reads the sender's current nonce for the given key from the entry
// point. A nil key means key 0, the default sequence.
func GetNonce(ctx context.Context, caller ContractCaller, entryPoint common.Address, sender common.Address, key *big.Int) (*big.Int, error) {
	if key == nil {
		key = new(big.Int)
	}

	calldata, err := entryPointABI.Pack("getNonce", sender, key)
	if err != nil {
		return nil, err
	}

	ret, err := callView(ctx, caller, entryPoint, calldata)
	if err != nil {
		return nil, fmt.Errorf("entry point getNonce call failed: %w", err)
	}

	out, err := entryPointABI.Unpack("getNonce", ret)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// BalanceOf reads the sender's current deposit at the entry point.
func BalanceOf(ctx context.Context, caller ContractCaller, entryPoint common.Address, account common.Address) (*big.Int, error) {
	calldata, err := entryPointABI.Pack("balanceOf", account)
	if err != nil {
		return nil, err
	}

	ret, err := callView(ctx, caller, entryPoint, calldata)
	if err != nil {
		return nil, fmt.Errorf("entry point balanceOf call failed: %w", err)
	}

	out, err := entryPointABI.Unpack("balanceOf", ret)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}
