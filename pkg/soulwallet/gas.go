package soulwallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mamad-1373/soulwalletlib/core/chainio/soulwallet"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/userop"
)

// preVerificationGasOverhead is the fixed protocol overhead added on top of
// the bundler's preVerificationGas estimate.
var preVerificationGasOverhead = big.NewInt(5_000)

// paymasterVerificationMultiplier reserves extra verification gas when a
// paymaster is attached: its post-operation hook may run up to twice.
const paymasterVerificationMultiplier = 3

// PrefundResult mirrors the entry point's required-prefund math. All values
// are 0x-hex encoded uint256 strings.
type PrefundResult struct {
	Deposit         string `json:"deposit"`
	RequiredPrefund string `json:"prefund"`
	MissingFund     string `json:"missfund"`
}

// ComputePrefund replicates the entry point's required-prefund formula for
// the operation and compares it against the sender's current deposit.
// maxFeePerGas, preVerificationGas and verificationGasLimit must all be
// nonzero; estimation has to run first.
func (w *SoulWallet) ComputePrefund(ctx context.Context, op *userop.UserOperation) (*PrefundResult, error) {
	if op.MaxFeePerGas == nil || op.MaxFeePerGas.Sign() == 0 {
		return nil, &ValidationError{Field: "maxFeePerGas", Reason: "must be nonzero to compute prefund"}
	}
	if op.PreVerificationGas == nil || op.PreVerificationGas.Sign() == 0 {
		return nil, &ValidationError{Field: "preVerificationGas", Reason: "must be nonzero to compute prefund"}
	}
	if op.VerificationGasLimit == nil || op.VerificationGasLimit.Sign() == 0 {
		return nil, &ValidationError{Field: "verificationGasLimit", Reason: "must be nonzero to compute prefund"}
	}

	multiplier := big.NewInt(1)
	if len(op.PaymasterAndData) > 0 {
		multiplier = big.NewInt(paymasterVerificationMultiplier)
	}

	// requiredGas = callGasLimit + verificationGasLimit*multiplier + preVerificationGas
	requiredGas := new(big.Int).Mul(op.VerificationGasLimit, multiplier)
	requiredGas.Add(requiredGas, op.CallGasLimit.Wire())
	requiredGas.Add(requiredGas, op.PreVerificationGas)

	requiredPrefund := new(big.Int).Mul(requiredGas, op.MaxFeePerGas)

	cfg, err := w.resolveConfig(ctx)
	if err != nil {
		return nil, err
	}

	deposit, err := soulwallet.BalanceOf(ctx, w.chain, cfg.EntryPoint, op.Sender)
	if err != nil {
		return nil, err
	}

	missing := new(big.Int).Sub(requiredPrefund, deposit)
	if missing.Sign() < 0 {
		missing = new(big.Int)
	}

	return &PrefundResult{
		Deposit:         hexutil.EncodeBig(deposit),
		RequiredPrefund: hexutil.EncodeBig(requiredPrefund),
		MissingFund:     hexutil.EncodeBig(missing),
	}, nil
}

// EstimateGas round-trips the operation through the bundler's estimate
// endpoint and folds the result back into the operation. When the operation
// carries no signature yet, a maximal-length placeholder signature encoding
// an all-time-valid window is installed for the simulation and removed again
// on every exit path. preVerificationGas and verificationGasLimit are
// overwritten unconditionally; the call gas limit only if it is
// auto-managed, and then with the bundler's value forced even.
func (w *SoulWallet) EstimateGas(ctx context.Context, op *userop.UserOperation, hookInput *GuardHookInputData) error {
	if hookInput != nil {
		if hookInput.Sender != op.Sender {
			return &ValidationError{
				Field:  "guardHookInput.sender",
				Reason: "does not match the operation sender",
			}
		}
		if len(op.InitCode) == 0 {
			return &ValidationError{
				Field:  "guardHookInput",
				Reason: "hook-assisted estimation requires an operation with initCode",
			}
		}
	}

	cfg, err := w.resolveConfig(ctx)
	if err != nil {
		return err
	}

	if len(op.Signature) == 0 {
		sig, err := semiValidSignature(hookInput)
		if err != nil {
			return err
		}
		op.Signature = sig
		defer func() { op.Signature = []byte{} }()
	}

	est, err := w.bundler.EstimateUserOperationGas(ctx, op, cfg.EntryPoint)
	if err != nil {
		return err
	}

	op.PreVerificationGas = new(big.Int).Add(est.PreVerificationGas, preVerificationGasOverhead)
	op.VerificationGasLimit = new(big.Int).Set(est.VerificationGasLimit)

	if op.CallGasLimit.Auto() {
		callGas := new(big.Int).Set(est.CallGasLimit)
		if callGas.Bit(0) == 1 {
			callGas.Add(callGas, big.NewInt(1))
		}
		op.CallGasLimit = userop.AutoGasLimit(callGas)
	}

	return nil
}
