// Package config loads and validates the SDK configuration: RPC endpoints
// and the addresses of the wallet stack contracts.
package config

import (
	"fmt"
	"os"
	"time"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// GuardianSafePeriodDefault is the fallback social-recovery safe period
// applied when a config or caller does not set one.
const GuardianSafePeriodDefault = uint64(2 * 24 * time.Hour / time.Second) // 2 days

// WalletConfig carries everything the SDK needs to build and submit user
// operations for one wallet deployment family.
type WalletConfig struct {
	EthRpcUrl  string
	BundlerUrl string

	FactoryAddress         common.Address
	DefaultCallbackHandler common.Address
	SecurityControlModule  common.Address
	KeyStoreModule         common.Address

	// Delay in seconds the security control module enforces on privileged
	// wallet changes.
	SecurityControlModuleDelay uint64

	// Default guardian safe period in seconds for new wallets.
	GuardianSafePeriod uint64

	Logger sdklogging.Logger
}

// These are read from the yaml config file.
type WalletConfigRaw struct {
	Environment sdklogging.LogLevel `yaml:"environment"`
	EthRpcUrl   string              `yaml:"eth_rpc_url" validate:"required,url"`
	BundlerUrl  string              `yaml:"bundler_url" validate:"required,url"`

	FactoryAddress         string `yaml:"factory_address" validate:"required,eth_addr"`
	DefaultCallbackHandler string `yaml:"default_callback_handler" validate:"required,eth_addr"`
	SecurityControlModule  string `yaml:"security_control_module" validate:"required,eth_addr"`
	KeyStoreModule         string `yaml:"key_store_module" validate:"required,eth_addr"`

	SecurityControlModuleDelay uint64 `yaml:"security_control_module_delay"`
	GuardianSafePeriod         uint64 `yaml:"guardian_safe_period"`
}

// NewWalletConfig reads the yaml file at configFilePath, validates it, and
// parses the addresses. The guardian safe period falls back to
// GuardianSafePeriodDefault when unset.
func NewWalletConfig(configFilePath string) (*WalletConfig, error) {
	body, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", configFilePath, err)
	}

	var raw WalletConfigRaw
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", configFilePath, err)
	}

	if err := validator.New().Struct(&raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if raw.Environment == "" {
		raw.Environment = sdklogging.Production
	}
	logger, err := sdklogging.NewZapLogger(raw.Environment)
	if err != nil {
		return nil, err
	}

	cfg := &WalletConfig{
		EthRpcUrl:                  raw.EthRpcUrl,
		BundlerUrl:                 raw.BundlerUrl,
		FactoryAddress:             common.HexToAddress(raw.FactoryAddress),
		DefaultCallbackHandler:     common.HexToAddress(raw.DefaultCallbackHandler),
		SecurityControlModule:      common.HexToAddress(raw.SecurityControlModule),
		KeyStoreModule:             common.HexToAddress(raw.KeyStoreModule),
		SecurityControlModuleDelay: raw.SecurityControlModuleDelay,
		GuardianSafePeriod:         raw.GuardianSafePeriod,
		Logger:                     logger,
	}
	if cfg.GuardianSafePeriod == 0 {
		cfg.GuardianSafePeriod = GuardianSafePeriodDefault
	}

	return cfg, nil
}
