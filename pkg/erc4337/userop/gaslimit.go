package userop

import "math/big"

// GasLimit is a call gas limit that is either auto-managed (the bundler's
// estimate may replace it) or pinned by the caller (estimation must not touch
// it). The distinction travels on the wire through the value's parity: even
// values are auto-managed, odd values are pinned. That convention is load
// bearing for interop, so it is kept at the serialization boundary only;
// everywhere else code checks the explicit tag.
type GasLimit struct {
	pinned bool
	value  *big.Int
}

// AutoGasLimit returns an auto-managed limit. Serialization rounds the value
// up to the nearest even number so the wire parity matches the tag.
func AutoGasLimit(v *big.Int) GasLimit {
	return GasLimit{value: v}
}

// PinnedGasLimit returns a caller-pinned limit, serialized verbatim. A pinned
// even value is indistinguishable from an auto-managed one after a wire round
// trip; callers pinning a limit use odd values, as the on-chain convention
// requires.
func PinnedGasLimit(v *big.Int) GasLimit {
	return GasLimit{pinned: true, value: v}
}

// GasLimitFromWire decodes the parity convention: even means auto-managed,
// odd means pinned.
func GasLimitFromWire(v *big.Int) GasLimit {
	if v != nil && v.Bit(0) == 1 {
		return PinnedGasLimit(v)
	}
	return AutoGasLimit(v)
}

// Auto reports whether estimation is allowed to replace this limit.
func (g GasLimit) Auto() bool {
	return !g.pinned
}

// Value returns the raw limit without wire encoding. Never nil.
func (g GasLimit) Value() *big.Int {
	if g.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(g.value)
}

// Wire returns the on-wire value: pinned limits verbatim, auto-managed limits
// rounded up to even.
func (g GasLimit) Wire() *big.Int {
	v := g.Value()
	if !g.pinned && v.Bit(0) == 1 {
		v.Add(v, big.NewInt(1))
	}
	return v
}
