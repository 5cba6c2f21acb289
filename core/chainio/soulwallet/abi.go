// Package soulwallet holds the ABI surface of the wallet stack: the wallet
// factory, the wallet logic contract, and the entry point views the SDK
// reads. Calldata is packed with go-ethereum's abi package from the inline
// ABI fragments below.
package soulwallet

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const factoryABIJSON = `[
	{"type":"function","name":"createWallet","stateMutability":"nonpayable","inputs":[{"name":"_initializer","type":"bytes"},{"name":"_salt","type":"bytes32"}],"outputs":[{"name":"proxy","type":"address"}]},
	{"type":"function","name":"getWalletAddress","stateMutability":"view","inputs":[{"name":"_initializer","type":"bytes"},{"name":"_salt","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"walletImpl","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

const walletABIJSON = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"anOwner","type":"bytes32"},{"name":"defaultCallbackHandler","type":"address"},{"name":"modules","type":"bytes[]"},{"name":"plugins","type":"bytes[]"}],"outputs":[]},
	{"type":"function","name":"execute","stateMutability":"nonpayable","inputs":[{"name":"dest","type":"address"},{"name":"value","type":"uint256"},{"name":"func","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"executeBatch","stateMutability":"nonpayable","inputs":[{"name":"dest","type":"address[]"},{"name":"func","type":"bytes[]"}],"outputs":[]},
	{"type":"function","name":"executeBatch","stateMutability":"nonpayable","inputs":[{"name":"dest","type":"address[]"},{"name":"value","type":"uint256[]"},{"name":"func","type":"bytes[]"}],"outputs":[]},
	{"type":"function","name":"entryPoint","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"listGuardHook","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]}
]`

const entryPointABIJSON = `[
	{"type":"function","name":"getNonce","stateMutability":"view","inputs":[{"name":"sender","type":"address"},{"name":"key","type":"uint192"}],"outputs":[{"name":"nonce","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	factoryABI    abi.ABI
	walletABI     abi.ABI
	entryPointABI abi.ABI
)

func init() {
	factoryABI = mustParseABI(factoryABIJSON)
	walletABI = mustParseABI(walletABIJSON)
	entryPointABI = mustParseABI(entryPointABIJSON)
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Errorf("invalid contract ABI: %w", err))
	}
	return parsed
}

// Salt derives the CREATE2 salt for a wallet index: the index zero-padded to
// 32 bytes.
func Salt(index *big.Int) [32]byte {
	var salt [32]byte
	if index != nil {
		index.FillBytes(salt[:])
	}
	return salt
}

// EncodeModuleInstall builds one entry of the initializer's module list: the
// module address followed by its abi-encoded init data.
func EncodeModuleInstall(module common.Address, initData []byte) []byte {
	out := make([]byte, 0, common.AddressLength+len(initData))
	out = append(out, module.Bytes()...)
	out = append(out, initData...)
	return out
}

// EncodeSecurityControlInit encodes the security control module's init data:
// a single delay in seconds.
func EncodeSecurityControlInit(delay uint64) ([]byte, error) {
	args := abi.Arguments{{Type: abi.Type{T: abi.UintTy, Size: 64}}}
	return args.Pack(delay)
}

// EncodeKeyStoreInit encodes the key-store module's init data:
// (key, guardianHash, guardianSafePeriod).
func EncodeKeyStoreInit(key common.Hash, guardianHash common.Hash, guardianSafePeriod uint64) ([]byte, error) {
	args := abi.Arguments{
		{Type: abi.Type{T: abi.FixedBytesTy, Size: 32}},
		{Type: abi.Type{T: abi.FixedBytesTy, Size: 32}},
		{Type: abi.Type{T: abi.UintTy, Size: 64}},
	}
	return args.Pack(key, guardianHash, guardianSafePeriod)
}

// EncodeInitializer packs the wallet's initialize call: owner key, default
// callback handler, the ordered module install list, and an empty plugin
// list. Module order is significant on-chain and preserved as given.
func EncodeInitializer(key common.Hash, defaultCallbackHandler common.Address, modules [][]byte) ([]byte, error) {
	return walletABI.Pack("initialize", key, defaultCallbackHandler, modules, [][]byte{})
}

// PackCreateWallet packs the factory's createWallet(initializer, salt) call.
func PackCreateWallet(initializer []byte, salt [32]byte) ([]byte, error) {
	return factoryABI.Pack("createWallet", initializer, salt)
}

// GetInitCode builds a deploy operation's initCode: the factory address
// immediately followed by the createWallet calldata.
func GetInitCode(factory common.Address, initializer []byte, salt [32]byte) ([]byte, error) {
	calldata, err := PackCreateWallet(initializer, salt)
	if err != nil {
		return nil, err
	}

	initCode := make([]byte, 0, common.AddressLength+len(calldata))
	initCode = append(initCode, factory.Bytes()...)
	initCode = append(initCode, calldata...)
	return initCode, nil
}

// PackExecute packs execute(dest, value, func) for a single transaction.
func PackExecute(dest common.Address, value *big.Int, data []byte) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	if data == nil {
		data = make([]byte, 0)
	}
	return walletABI.Pack("execute", dest, value, data)
}

// PackExecuteBatch packs executeBatch(dest[], func[]) for batches where every
// transaction carries zero value.
func PackExecuteBatch(dest []common.Address, data [][]byte) ([]byte, error) {
	return walletABI.Pack("executeBatch", dest, data)
}

// PackExecuteBatchWithValues packs executeBatch(dest[], value[], func[]) for
// batches where at least one transaction transfers ETH. abi.JSON normalizes
// the overloaded executeBatch to "executeBatch0".
func PackExecuteBatchWithValues(dest []common.Address, values []*big.Int, data [][]byte) ([]byte, error) {
	return walletABI.Pack("executeBatch0", dest, values, data)
}
