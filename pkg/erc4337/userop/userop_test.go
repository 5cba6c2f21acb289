package userop

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEntryPoint = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")

func sampleOp() *UserOperation {
	return &UserOperation{
		Sender:               common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Nonce:                big.NewInt(7),
		InitCode:             []byte{},
		CallData:             common.FromHex("0xb61d27f6"),
		CallGasLimit:         AutoGasLimit(big.NewInt(50000)),
		VerificationGasLimit: big.NewInt(100000),
		PreVerificationGas:   big.NewInt(21000),
		MaxFeePerGas:         big.NewInt(2_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		PaymasterAndData:     []byte{},
		Signature:            []byte{},
	}
}

func TestHashIsDeterministic(t *testing.T) {
	op := sampleOp()
	chainID := big.NewInt(1)

	h1, err := op.Hash(testEntryPoint, chainID)
	require.NoError(t, err)
	h2, err := op.Hash(testEntryPoint, chainID)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHashBindsEveryField(t *testing.T) {
	base := sampleOp()
	baseHash, err := base.Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)

	mutations := map[string]func(op *UserOperation){
		"sender":               func(op *UserOperation) { op.Sender = common.HexToAddress("0x2222222222222222222222222222222222222222") },
		"nonce":                func(op *UserOperation) { op.Nonce = big.NewInt(8) },
		"initCode":             func(op *UserOperation) { op.InitCode = []byte{0x01} },
		"callData":             func(op *UserOperation) { op.CallData = []byte{0x01} },
		"callGasLimit":         func(op *UserOperation) { op.CallGasLimit = AutoGasLimit(big.NewInt(60000)) },
		"verificationGasLimit": func(op *UserOperation) { op.VerificationGasLimit = big.NewInt(100002) },
		"preVerificationGas":   func(op *UserOperation) { op.PreVerificationGas = big.NewInt(21002) },
		"maxFeePerGas":         func(op *UserOperation) { op.MaxFeePerGas = big.NewInt(3_000_000_000) },
		"maxPriorityFeePerGas": func(op *UserOperation) { op.MaxPriorityFeePerGas = big.NewInt(2_000_000_000) },
		"paymasterAndData":     func(op *UserOperation) { op.PaymasterAndData = []byte{0x01} },
	}
	for name, mutate := range mutations {
		op := sampleOp()
		mutate(op)
		h, err := op.Hash(testEntryPoint, big.NewInt(1))
		require.NoError(t, err)
		assert.NotEqual(t, baseHash, h, "changing %s must change the hash", name)
	}
}

func TestHashExcludesSignature(t *testing.T) {
	signed := sampleOp()
	signed.Signature = []byte{0xde, 0xad}

	baseHash, err := sampleOp().Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)
	signedHash, err := signed.Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, baseHash, signedHash)
}

func TestHashDomainSeparation(t *testing.T) {
	op := sampleOp()
	mainnet, err := op.Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)

	otherChain, err := op.Hash(testEntryPoint, big.NewInt(10))
	require.NoError(t, err)
	assert.NotEqual(t, mainnet, otherChain)

	otherEntryPoint, err := op.Hash(common.HexToAddress("0x3333333333333333333333333333333333333333"), big.NewInt(1))
	require.NoError(t, err)
	assert.NotEqual(t, mainnet, otherEntryPoint)
}

func TestToWire(t *testing.T) {
	op := sampleOp()
	op.CallGasLimit = AutoGasLimit(big.NewInt(3))

	wire := op.ToWire()
	assert.Equal(t, "0x1111111111111111111111111111111111111111", wire.Sender)
	assert.Equal(t, "0x7", wire.Nonce)
	assert.Equal(t, "0x", wire.InitCode)
	assert.Equal(t, "0xb61d27f6", wire.CallData)
	assert.Equal(t, "0x4", wire.CallGasLimit, "auto limits round up to even on the wire")
	assert.Equal(t, "0x186a0", wire.VerificationGasLimit)
	assert.Equal(t, "0x", wire.PaymasterAndData)
	assert.Equal(t, "0x", wire.Signature)
}

func TestToWirePinnedLimitIsVerbatim(t *testing.T) {
	op := sampleOp()
	op.CallGasLimit = PinnedGasLimit(big.NewInt(3))
	assert.Equal(t, "0x3", op.ToWire().CallGasLimit)
}

func TestToWireZeroFields(t *testing.T) {
	wire := (&UserOperation{}).ToWire()
	assert.Equal(t, "0x0", wire.Nonce)
	assert.Equal(t, "0x0", wire.CallGasLimit)
	assert.Equal(t, "0x0", wire.MaxFeePerGas)
	assert.Equal(t, "0x", wire.InitCode)
}
