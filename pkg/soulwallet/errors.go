package soulwallet

import "fmt"

// ValidationError reports malformed caller input: a bad address, non-hex
// byte data, or a zero field where a nonzero one is required. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigErrorKind classifies on-chain config resolution failures.
type ConfigErrorKind int

const (
	// ConfigInvalidChainID: the provider reported a chain id that is zero or
	// not exactly representable as an int64.
	ConfigInvalidChainID ConfigErrorKind = iota
	// ConfigBundlerChainMismatch: the bundler reports a different chain than
	// the node provider.
	ConfigBundlerChainMismatch
	// ConfigUnsupportedEntryPoint: the resolved entry point is not in the
	// bundler's supported list.
	ConfigUnsupportedEntryPoint
)

func (k ConfigErrorKind) String() string {
	switch k {
	case ConfigInvalidChainID:
		return "invalid chain id"
	case ConfigBundlerChainMismatch:
		return "bundler chain mismatch"
	case ConfigUnsupportedEntryPoint:
		return "unsupported entry point"
	default:
		return "unknown config error"
	}
}

// ConfigError is a failed on-chain config resolution. Failed resolutions are
// never cached; the next call re-resolves from scratch.
type ConfigError struct {
	Kind   ConfigErrorKind
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config resolution failed: %s: %s", e.Kind, e.Detail)
}

// ConsistencyFault means the bundler-reported userOpHash disagrees with the
// locally recomputed one: either the bundler altered the operation or the
// two sides disagree on the hash formula. This is a broken invariant, not a
// recoverable condition.
type ConsistencyFault struct {
	Local  string
	Remote string
}

func (e *ConsistencyFault) Error() string {
	return fmt.Sprintf("userOpHash mismatch: local %s, bundler reported %s", e.Local, e.Remote)
}
