// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"bytes"
	"context"
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/crypto/signature"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
)

// checks that a deploy may run at all; a failure here is reported as bad input and nothing is executed
func (s *service) verifyDeploy(ctx context.Context, deploy *Deploy, deployHash primitives.Sha256, blockTimestamp primitives.TimestampNano, batchTransientState *transientState) error {
	header := &deploy.Header

	if header.ChainId != s.config.VirtualChainId() {
		return errors.Wrapf(types.API_ERROR_INVALID_ARGUMENT, "deploy chain id %d does not match virtual chain %d", header.ChainId, s.config.VirtualChainId())
	}

	if err := s.verifyDeployTimestamp(header.Timestamp, blockTimestamp); err != nil {
		return err
	}

	accountHash, err := digest.CalcAccountHashOfEd25519PublicKey(header.PublicKey)
	if err != nil {
		return errors.Wrap(types.API_ERROR_PERMISSION_DENIED, err.Error())
	}
	if !bytes.Equal(accountHash, header.Account) {
		return errors.Wrapf(types.API_ERROR_PERMISSION_DENIED, "public key does not belong to account %s", header.Account)
	}

	if !signature.VerifyEd25519(header.PublicKey, deployHash, deploy.Signature) {
		return errors.Wrap(types.API_ERROR_PERMISSION_DENIED, "deploy signature mismatch")
	}

	_, executed, err := readStoredValue(ctx, s.stateStorage, types.NewDeployKey(deployHash), batchTransientState)
	if err != nil {
		return err
	}
	if executed {
		return errors.Wrapf(types.API_ERROR_INVALID_ARGUMENT, "deploy %s was already executed", deployHash)
	}

	stored, found, err := readStoredValue(ctx, s.stateStorage, types.NewAccountKey(header.Account), batchTransientState)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(types.API_ERROR_VALUE_NOT_FOUND, "account %s does not exist", header.Account)
	}
	if _, ok := stored.AsAccount(); !ok {
		return errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "%s is not an account", header.Account)
	}

	return nil
}

func (s *service) verifyDeployTimestamp(deployTimestamp primitives.TimestampNano, blockTimestamp primitives.TimestampNano) error {
	grace := primitives.TimestampNano(s.config.DeployFutureTimestampGrace().Nanoseconds())
	if deployTimestamp > blockTimestamp+grace {
		return errors.Wrapf(types.API_ERROR_INVALID_ARGUMENT, "deploy timestamp %d is ahead of block timestamp %d by more than %s", deployTimestamp, blockTimestamp, s.config.DeployFutureTimestampGrace())
	}
	return nil
}
