// Package userop models EIP-4337 user operations: the builder-facing value
// object, the hex-quantity wire form bundler RPCs expect, and the entry point
// hash the signature is bound to.
package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// UserOperation is a builder artifact: fields are filled progressively
// (sender and calldata first, gas fields after estimation, signature last)
// before submission to a bundler.
type UserOperation struct {
	Sender               common.Address
	Nonce                *big.Int
	InitCode             []byte
	CallData             []byte
	CallGasLimit         GasLimit
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
	Signature            []byte
}

// Wire is the JSON form of a UserOperation for bundler RPC calls. All
// quantities are 0x-hex strings, all byte fields 0x-prefixed data.
type Wire struct {
	Sender               string `json:"sender"`
	Nonce                string `json:"nonce"`
	InitCode             string `json:"initCode"`
	CallData             string `json:"callData"`
	CallGasLimit         string `json:"callGasLimit"`
	VerificationGasLimit string `json:"verificationGasLimit"`
	PreVerificationGas   string `json:"preVerificationGas"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	PaymasterAndData     string `json:"paymasterAndData"`
	Signature            string `json:"signature"`
}

// ToWire serializes the operation for a bundler RPC call. This is the only
// point where the Auto/Pinned call gas tag collapses to the parity encoding.
func (op *UserOperation) ToWire() Wire {
	return Wire{
		Sender:               op.Sender.Hex(),
		Nonce:                encodeQuantity(op.Nonce),
		InitCode:             hexutil.Encode(op.InitCode),
		CallData:             hexutil.Encode(op.CallData),
		CallGasLimit:         encodeQuantity(op.CallGasLimit.Wire()),
		VerificationGasLimit: encodeQuantity(op.VerificationGasLimit),
		PreVerificationGas:   encodeQuantity(op.PreVerificationGas),
		MaxFeePerGas:         encodeQuantity(op.MaxFeePerGas),
		MaxPriorityFeePerGas: encodeQuantity(op.MaxPriorityFeePerGas),
		PaymasterAndData:     hexutil.Encode(op.PaymasterAndData),
		Signature:            hexutil.Encode(op.Signature),
	}
}

func encodeQuantity(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return hexutil.EncodeBig(v)
}

var (
	addressTy = abi.Type{T: abi.AddressTy}
	uint256Ty = abi.Type{T: abi.UintTy, Size: 256}
	bytes32Ty = abi.Type{T: abi.FixedBytesTy, Size: 32}

	packArgs = abi.Arguments{
		{Type: addressTy}, // sender
		{Type: uint256Ty}, // nonce
		{Type: bytes32Ty}, // keccak(initCode)
		{Type: bytes32Ty}, // keccak(callData)
		{Type: uint256Ty}, // callGasLimit
		{Type: uint256Ty}, // verificationGasLimit
		{Type: uint256Ty}, // preVerificationGas
		{Type: uint256Ty}, // maxFeePerGas
		{Type: uint256Ty}, // maxPriorityFeePerGas
		{Type: bytes32Ty}, // keccak(paymasterAndData)
	}

	hashArgs = abi.Arguments{
		{Type: bytes32Ty}, // packed op hash
		{Type: addressTy}, // entry point
		{Type: uint256Ty}, // chain id
	}
)

// PackForSignature abi-encodes the operation's fields with dynamic members
// replaced by their keccak hashes, the inner encoding of the entry point's
// getUserOpHash. The signature is excluded.
func (op *UserOperation) PackForSignature() ([]byte, error) {
	return packArgs.Pack(
		op.Sender,
		orZero(op.Nonce),
		crypto.Keccak256Hash(op.InitCode),
		crypto.Keccak256Hash(op.CallData),
		op.CallGasLimit.Wire(),
		orZero(op.VerificationGasLimit),
		orZero(op.PreVerificationGas),
		orZero(op.MaxFeePerGas),
		orZero(op.MaxPriorityFeePerGas),
		crypto.Keccak256Hash(op.PaymasterAndData),
	)
}

// Hash computes the EntryPoint v0.6 userOpHash:
// keccak(abi.encode(keccak(packedOp), entryPoint, chainID)). It must match
// the hash the entry point computes on-chain, bit for bit; the domain
// separation by entry point address and chain id prevents cross-chain and
// cross-contract replay.
func (op *UserOperation) Hash(entryPoint common.Address, chainID *big.Int) (common.Hash, error) {
	packed, err := op.PackForSignature()
	if err != nil {
		return common.Hash{}, err
	}

	enc, err := hashArgs.Pack(crypto.Keccak256Hash(packed), entryPoint, orZero(chainID))
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
