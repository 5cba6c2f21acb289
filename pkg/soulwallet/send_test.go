package soulwallet

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendUserOperation(t *testing.T) {
	op := estimatableOp()
	expected, err := op.Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)

	b := newMatchingBundler()
	b.sendHash = expected.Hex()
	w := newTestWallet(t, newResolvableChain(), b)

	got, err := w.SendUserOperation(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
	assert.Equal(t, 1, b.sendCalls)
}

func TestSendUserOperationHashComparisonIsCaseInsensitive(t *testing.T) {
	op := estimatableOp()
	expected, err := op.Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)

	b := newMatchingBundler()
	b.sendHash = strings.ToUpper(expected.Hex())
	w := newTestWallet(t, newResolvableChain(), b)

	got, err := w.SendUserOperation(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestSendUserOperationHashMismatch(t *testing.T) {
	b := newMatchingBundler()
	b.sendHash = "0x00000000000000000000000000000000000000000000000000000000deadbeef"
	w := newTestWallet(t, newResolvableChain(), b)

	_, err := w.SendUserOperation(context.Background(), estimatableOp())

	var fault *ConsistencyFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, b.sendHash, fault.Remote)
}

func TestUserOpHashUsesResolvedDomain(t *testing.T) {
	w := newTestWallet(t, newResolvableChain(), newMatchingBundler())

	op := estimatableOp()
	got, err := w.UserOpHash(context.Background(), op)
	require.NoError(t, err)

	expected, err := op.Hash(testEntryPoint, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestGetNonce(t *testing.T) {
	chain := newResolvableChain()
	chain.stub(testEntryPoint, "getNonce(address,uint192)", padUint(big.NewInt(9)))
	w := newTestWallet(t, chain, newMatchingBundler())

	nonce, err := w.GetNonce(context.Background(), testSender, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(9), nonce)
}
