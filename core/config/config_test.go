package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfig = `
eth_rpc_url: http://localhost:8545
bundler_url: http://localhost:4337
factory_address: "0xf1f1F1F1f1f1f1F1F1F1F1f1F1F1F1f1F1F1f1F1"
default_callback_handler: "0x2222222222222222222222222222222222222222"
security_control_module: "0x3333333333333333333333333333333333333333"
key_store_module: "0x5555555555555555555555555555555555555555"
security_control_module_delay: 172800
`

func TestNewWalletConfig(t *testing.T) {
	cfg, err := NewWalletConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.EthRpcUrl)
	assert.Equal(t, "http://localhost:4337", cfg.BundlerUrl)
	assert.Equal(t, common.HexToAddress("0xf1f1F1F1f1f1f1F1F1F1F1f1F1F1F1f1F1F1f1F1"), cfg.FactoryAddress)
	assert.Equal(t, uint64(172800), cfg.SecurityControlModuleDelay)
	assert.Equal(t, GuardianSafePeriodDefault, cfg.GuardianSafePeriod, "unset safe period falls back to the default")
	assert.NotNil(t, cfg.Logger)
}

func TestNewWalletConfigExplicitSafePeriod(t *testing.T) {
	cfg, err := NewWalletConfig(writeConfig(t, validConfig+"guardian_safe_period: 3600\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), cfg.GuardianSafePeriod)
}

func TestNewWalletConfigRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"missing factory": `
eth_rpc_url: http://localhost:8545
bundler_url: http://localhost:4337
default_callback_handler: "0x2222222222222222222222222222222222222222"
security_control_module: "0x3333333333333333333333333333333333333333"
key_store_module: "0x5555555555555555555555555555555555555555"
`,
		"malformed address": `
eth_rpc_url: http://localhost:8545
bundler_url: http://localhost:4337
factory_address: "not-an-address"
default_callback_handler: "0x2222222222222222222222222222222222222222"
security_control_module: "0x3333333333333333333333333333333333333333"
key_store_module: "0x5555555555555555555555555555555555555555"
`,
		"missing bundler url": `
eth_rpc_url: http://localhost:8545
factory_address: "0xf1f1F1F1f1f1f1F1F1F1F1f1F1F1F1f1F1F1f1F1"
default_callback_handler: "0x2222222222222222222222222222222222222222"
security_control_module: "0x3333333333333333333333333333333333333333"
key_store_module: "0x5555555555555555555555555555555555555555"
`,
		"not yaml": "{{{{",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewWalletConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestNewWalletConfigMissingFile(t *testing.T) {
	_, err := NewWalletConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
