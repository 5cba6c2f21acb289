package soulwallet

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mamad-1373/soulwalletlib/pkg/erc4337/userop"
)

// SendUserOperation submits a fully built, signed operation to the bundler
// and returns its hash. The hash is recomputed locally and compared against
// the bundler's answer; a disagreement means the bundler altered the
// operation or the two sides disagree on the hash formula, and is returned
// as a *ConsistencyFault rather than accepted.
func (w *SoulWallet) SendUserOperation(ctx context.Context, op *userop.UserOperation) (common.Hash, error) {
	cfg, err := w.resolveConfig(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	remote, err := w.bundler.SendUserOperation(ctx, op, cfg.EntryPoint)
	if err != nil {
		return common.Hash{}, err
	}

	local, err := w.UserOpHash(ctx, op)
	if err != nil {
		return common.Hash{}, err
	}

	if !strings.EqualFold(remote, local.Hex()) {
		w.logger.Errorf("bundler returned mismatching userOpHash: local=%s remote=%s sender=%s",
			local.Hex(), remote, op.Sender.Hex())
		return common.Hash{}, &ConsistencyFault{Local: local.Hex(), Remote: remote}
	}

	w.logger.Infof("userOp submitted: hash=%s sender=%s nonce=%s", local.Hex(), op.Sender.Hex(), op.Nonce)
	return local, nil
}
