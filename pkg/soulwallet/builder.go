package soulwallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"

	"github.com/mamad-1373/soulwalletlib/core/chainio/soulwallet"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/userop"
)

// deployPreVerificationGas is the floor for a deploy operation's
// preVerificationGas: enough to cover the factory calldata before the
// bundler refines the value during estimation.
var deployPreVerificationGas = big.NewInt(60_000)

// Transaction is one call a wallet should execute. To and Data arrive as
// hex strings and are validated individually; a nil GasLimit means "let the
// network estimate".
type Transaction struct {
	To       string
	Value    *big.Int
	Data     string
	GasLimit *big.Int
}

// BuildDeployOp assembles the operation that deploys a wallet
// counterfactually. Gas price and limit fields are zero placeholders for
// estimation, preVerificationGas starts at the deploy floor, and the nonce
// is always 0: an operation carrying initCode is by construction the
// wallet's first.
func (w *SoulWallet) BuildDeployOp(ctx context.Context, init WalletInit, callData string) (*userop.UserOperation, error) {
	callDataBytes, err := decodeHexField("callData", callData)
	if err != nil {
		return nil, err
	}

	initializer, err := w.initializerPayload(init)
	if err != nil {
		return nil, err
	}

	salt := soulwallet.Salt(init.Index)
	initCode, err := soulwallet.GetInitCode(w.cfg.FactoryAddress, initializer, salt)
	if err != nil {
		return nil, err
	}

	sender, err := soulwallet.GetWalletAddress(ctx, w.chain, w.cfg.FactoryAddress, initializer, salt)
	if err != nil {
		return nil, err
	}

	return &userop.UserOperation{
		Sender:               sender,
		Nonce:                new(big.Int),
		InitCode:             initCode,
		CallData:             callDataBytes,
		CallGasLimit:         userop.AutoGasLimit(nil),
		VerificationGasLimit: new(big.Int),
		PreVerificationGas:   new(big.Int).Set(deployPreVerificationGas),
		MaxFeePerGas:         new(big.Int),
		MaxPriorityFeePerGas: new(big.Int),
		PaymasterAndData:     []byte{},
		Signature:            []byte{},
	}, nil
}

// BuildExecuteOp assembles an operation executing one or more transactions
// from a deployed wallet. The calldata encoding depends on the batch shape:
// a single transaction uses execute, a batch with any nonzero value uses
// executeBatch with values, and an all-zero-value batch omits the value
// array. The summed caller gas limits become an auto-managed call gas limit;
// if any transaction omits its limit the total falls back to zero, an
// explicit "let the network estimate" signal.
func (w *SoulWallet) BuildExecuteOp(
	ctx context.Context,
	maxFeePerGas *big.Int,
	maxPriorityFeePerGas *big.Int,
	sender string,
	txs []Transaction,
	nonceKey *big.Int,
) (*userop.UserOperation, error) {
	if len(txs) == 0 {
		return nil, &ValidationError{Field: "transactions", Reason: "empty transaction list"}
	}
	if !common.IsHexAddress(sender) {
		return nil, &ValidationError{Field: "sender", Reason: fmt.Sprintf("malformed address %q", sender)}
	}
	senderAddr := common.HexToAddress(sender)

	dest := make([]common.Address, len(txs))
	values := make([]*big.Int, len(txs))
	datas := make([][]byte, len(txs))
	for i, tx := range txs {
		if !common.IsHexAddress(tx.To) {
			return nil, &ValidationError{Field: fmt.Sprintf("transactions[%d].to", i), Reason: fmt.Sprintf("malformed address %q", tx.To)}
		}
		data, err := decodeHexField(fmt.Sprintf("transactions[%d].data", i), tx.Data)
		if err != nil {
			return nil, err
		}

		dest[i] = common.HexToAddress(tx.To)
		datas[i] = data
		values[i] = tx.Value
		if values[i] == nil {
			values[i] = new(big.Int)
		}
	}

	callGasLimit := sumGasLimits(txs)

	callData, err := packCallData(dest, values, datas)
	if err != nil {
		return nil, err
	}

	cfg, err := w.resolveConfig(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := soulwallet.GetNonce(ctx, w.chain, cfg.EntryPoint, senderAddr, nonceKey)
	if err != nil {
		return nil, err
	}

	return &userop.UserOperation{
		Sender:               senderAddr,
		Nonce:                nonce,
		InitCode:             []byte{},
		CallData:             callData,
		CallGasLimit:         userop.AutoGasLimit(callGasLimit),
		VerificationGasLimit: new(big.Int),
		PreVerificationGas:   new(big.Int),
		MaxFeePerGas:         maxFeePerGas,
		MaxPriorityFeePerGas: maxPriorityFeePerGas,
		PaymasterAndData:     []byte{},
		Signature:            []byte{},
	}, nil
}

// sumGasLimits totals the caller-supplied per-transaction limits. Any
// missing limit collapses the total to zero so the bundler estimates the
// whole batch.
func sumGasLimits(txs []Transaction) *big.Int {
	if lo.SomeBy(txs, func(tx Transaction) bool { return tx.GasLimit == nil }) {
		return new(big.Int)
	}

	total := new(big.Int)
	for _, tx := range txs {
		total.Add(total, tx.GasLimit)
	}
	return total
}

func packCallData(dest []common.Address, values []*big.Int, datas [][]byte) ([]byte, error) {
	if len(dest) == 1 {
		return soulwallet.PackExecute(dest[0], values[0], datas[0])
	}
	if lo.SomeBy(values, func(v *big.Int) bool { return v.Sign() > 0 }) {
		return soulwallet.PackExecuteBatchWithValues(dest, values, datas)
	}
	return soulwallet.PackExecuteBatch(dest, datas)
}

// decodeHexField decodes 0x-prefixed byte data, treating "" as empty.
func decodeHexField(field, value string) ([]byte, error) {
	if value == "" || value == "0x" {
		return []byte{}, nil
	}

	data, err := hexutil.Decode(value)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("malformed hex data %q: %v", value, err)}
	}
	return data, nil
}
