package soulwallet

import (
	"bytes"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mamad-1373/soulwalletlib/core/chainio/soulwallet"
)

// maxUint48 is the widest expressible validUntil: effectively forever.
var maxUint48 = new(big.Int).SetUint64(1<<48 - 1)

// GuardHookInputData is the transient input for guard-hook-aware signature
// packing: which wallet to look hooks up for, and the opaque bytes those
// hooks consume.
type GuardHookInputData struct {
	Sender    common.Address
	InputData []byte
}

// HookInputData is the resolved form packed into the signature: the wallet's
// guard hooks in on-chain registration order, plus the opaque input bytes.
type HookInputData struct {
	GuardHooks []common.Address
	InputData  []byte
}

// GuardHooks resolves a GuardHookInputData against the chain. The returned
// hook order is exactly the on-chain registration order; the verifier
// consults hooks in that order, so it is never sorted or deduplicated.
func (w *SoulWallet) GuardHooks(ctx context.Context, input GuardHookInputData) (*HookInputData, error) {
	hooks, err := soulwallet.ListGuardHook(ctx, w.chain, input.Sender)
	if err != nil {
		return nil, err
	}
	return &HookInputData{GuardHooks: hooks, InputData: input.InputData}, nil
}

func mustNewType(t string) abi.Type {
	ty, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return ty
}

var (
	bytes32T   = mustNewType("bytes32")
	uint256T   = mustNewType("uint256")
	bytesT     = mustNewType("bytes")
	addressesT = mustNewType("address[]")

	validityArgs = abi.Arguments{
		{Type: bytes32T}, // userOp hash
		{Type: uint256T}, // validationData
	}

	signatureArgs = abi.Arguments{
		{Type: uint256T}, // validationData
		{Type: bytesT},   // raw signature
	}

	hookSignatureArgs = abi.Arguments{
		{Type: uint256T},   // validationData
		{Type: bytesT},     // raw signature
		{Type: addressesT}, // guard hooks, registration order
		{Type: bytesT},     // hook input
	}
)

// PackValidityWindow folds a validity window into a single validationData
// word (validAfter in the top 48 bits, validUntil in the next 48, the low
// 160 bits reserved for the aggregator slot) and binds it to the operation
// hash. Zero bounds default to a wide-open window.
func PackValidityWindow(opHash common.Hash, validAfter, validUntil uint64) (common.Hash, *big.Int, error) {
	until := new(big.Int).SetUint64(validUntil)
	if validUntil == 0 {
		until = new(big.Int).Set(maxUint48)
	}

	validationData := new(big.Int).Lsh(new(big.Int).SetUint64(validAfter), 208)
	validationData.Or(validationData, new(big.Int).Lsh(until, 160))

	packed, err := validityArgs.Pack(opHash, validationData)
	if err != nil {
		return common.Hash{}, nil, err
	}
	return crypto.Keccak256Hash(packed), validationData, nil
}

// PackSignature assembles the final signature blob the wallet's on-chain
// verifier decodes: validationData and the raw signature, extended with the
// hook address list and hook input when guard hooks participate. The field
// order is fixed by the verifier.
func PackSignature(signature []byte, validationData *big.Int, hookData *HookInputData) ([]byte, error) {
	if validationData == nil {
		validationData = new(big.Int)
	}
	if signature == nil {
		signature = []byte{}
	}

	if hookData == nil {
		return signatureArgs.Pack(validationData, signature)
	}

	hooks := hookData.GuardHooks
	if hooks == nil {
		hooks = []common.Address{}
	}
	input := hookData.InputData
	if input == nil {
		input = []byte{}
	}
	return hookSignatureArgs.Pack(validationData, signature, hooks, input)
}

// semiValidSignature builds the estimation placeholder: a maximal-length
// dummy ECDSA signature under a wide-open validity window, so the bundler's
// simulation pays for the full verification path. For a deploy operation the
// wallet starts with no plugins, so hook input is packed with an empty hook
// list.
func semiValidSignature(hookInput *GuardHookInputData) ([]byte, error) {
	_, validationData, err := PackValidityWindow(common.Hash{}, 0, 0)
	if err != nil {
		return nil, err
	}

	dummySig := bytes.Repeat([]byte{0xff}, 65)

	var hookData *HookInputData
	if hookInput != nil {
		hookData = &HookInputData{InputData: hookInput.InputData}
	}
	return PackSignature(dummySig, validationData, hookData)
}
