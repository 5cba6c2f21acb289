package soulwallet

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/mamad-1373/soulwalletlib/core/config"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/bundler"
	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/userop"
	"github.com/mamad-1373/soulwalletlib/pkg/logger"
)

var (
	testFactory         = common.HexToAddress("0xf1f1F1F1f1f1f1F1F1F1F1f1F1F1F1f1F1F1f1F1")
	testWalletLogic     = common.HexToAddress("0x4444444444444444444444444444444444444444")
	testEntryPoint      = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")
	testSender          = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testCallbackHandler = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testSecurityModule  = common.HexToAddress("0x3333333333333333333333333333333333333333")
	testKeyStoreModule  = common.HexToAddress("0x5555555555555555555555555555555555555555")
)

// fakeChain answers scripted view calls keyed by contract address and method
// selector, and counts every network round trip.
type fakeChain struct {
	chainID *big.Int
	code    map[common.Address][]byte
	views   map[string][]byte

	viewCalls    int
	chainIDCalls int
}

func newResolvableChain() *fakeChain {
	f := &fakeChain{
		chainID: big.NewInt(1),
		code:    map[common.Address][]byte{},
		views:   map[string][]byte{},
	}
	f.stub(testFactory, "walletImpl()", padAddress(testWalletLogic))
	f.stub(testWalletLogic, "entryPoint()", padAddress(testEntryPoint))
	return f
}

func viewKey(to common.Address, calldata []byte) string {
	return to.Hex() + "|" + hexutil.Encode(calldata[:4])
}

func (f *fakeChain) stub(to common.Address, methodSig string, ret []byte) {
	key := to.Hex() + "|" + hexutil.Encode(crypto.Keccak256([]byte(methodSig))[:4])
	f.views[key] = ret
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.viewCalls++
	ret, ok := f.views[viewKey(*msg.To, msg.Data)]
	if !ok {
		return nil, fmt.Errorf("unexpected view call %s", viewKey(*msg.To, msg.Data))
	}
	return ret, nil
}

func (f *fakeChain) ChainID(ctx context.Context) (*big.Int, error) {
	f.chainIDCalls++
	return f.chainID, nil
}

func (f *fakeChain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return f.code[account], nil
}

func (f *fakeChain) calls() int {
	return f.viewCalls + f.chainIDCalls
}

func padAddress(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}

func padUint(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

// fakeBundler is a scripted BundlerRPC that counts calls and captures the
// signature present on the operation at estimation time.
type fakeBundler struct {
	chainID     *big.Int
	entryPoints []common.Address
	estimate    *bundler.GasEstimation
	estimateErr error
	sendHash    string
	sendErr     error

	chainIDCalls      int
	supportedCalls    int
	estimateCalls     int
	sendCalls         int
	estimateSignature []byte
}

func newMatchingBundler() *fakeBundler {
	return &fakeBundler{
		chainID:     big.NewInt(1),
		entryPoints: []common.Address{testEntryPoint},
		estimate: &bundler.GasEstimation{
			PreVerificationGas:   big.NewInt(46_000),
			VerificationGasLimit: big.NewInt(200_000),
			CallGasLimit:         big.NewInt(33_333),
		},
	}
}

func (f *fakeBundler) ChainID(ctx context.Context) (*big.Int, error) {
	f.chainIDCalls++
	return f.chainID, nil
}

func (f *fakeBundler) SupportedEntryPoints(ctx context.Context) ([]common.Address, error) {
	f.supportedCalls++
	return f.entryPoints, nil
}

func (f *fakeBundler) EstimateUserOperationGas(ctx context.Context, op *userop.UserOperation, entryPoint common.Address) (*bundler.GasEstimation, error) {
	f.estimateCalls++
	f.estimateSignature = append([]byte(nil), op.Signature...)
	if f.estimateErr != nil {
		return nil, f.estimateErr
	}
	return f.estimate, nil
}

func (f *fakeBundler) SendUserOperation(ctx context.Context, op *userop.UserOperation, entryPoint common.Address) (string, error) {
	f.sendCalls++
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.sendHash, nil
}

func (f *fakeBundler) calls() int {
	return f.chainIDCalls + f.supportedCalls + f.estimateCalls + f.sendCalls
}

func newTestWallet(t *testing.T, chain ChainReader, b BundlerRPC) *SoulWallet {
	t.Helper()

	cfg := &config.WalletConfig{
		EthRpcUrl:                  "http://localhost:8545",
		BundlerUrl:                 "http://localhost:4337",
		FactoryAddress:             testFactory,
		DefaultCallbackHandler:     testCallbackHandler,
		SecurityControlModule:      testSecurityModule,
		KeyStoreModule:             testKeyStoreModule,
		SecurityControlModuleDelay: 172_800,
		GuardianSafePeriod:         config.GuardianSafePeriodDefault,
	}

	w, err := New(cfg, chain, b, logger.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}
