// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
)

// queries read committed state only

func (l *Ledger) Query(ctx context.Context, base types.Key, path ...string) (*types.StoredValue, error) {
	return l.stateStorage.Query(ctx, base, path...)
}

func (l *Ledger) GetAccount(ctx context.Context, accountHash primitives.Sha256) (*types.Account, error) {
	key := types.NewAccountKey(accountHash)
	value, err := l.Query(ctx, key)
	if err != nil {
		return nil, err
	}
	account, ok := value.AsAccount()
	if !ok {
		return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "%s holds a %s", key, value.Tag)
	}
	return account, nil
}

func (l *Ledger) GetContract(ctx context.Context, contractHash primitives.Keccak256) (*types.Contract, error) {
	key := types.NewHashKey(contractHash)
	value, err := l.Query(ctx, key)
	if err != nil {
		return nil, err
	}
	contract, ok := value.AsContract()
	if !ok {
		return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "%s holds a %s", key, value.Tag)
	}
	return contract, nil
}

func (l *Ledger) GetPackage(ctx context.Context, packageHash primitives.Keccak256) (*types.ContractPackage, error) {
	key := types.NewPackageKey(packageHash)
	value, err := l.Query(ctx, key)
	if err != nil {
		return nil, err
	}
	contractPackage, ok := value.AsContractPackage()
	if !ok {
		return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "%s holds a %s", key, value.Tag)
	}
	return contractPackage, nil
}

func (l *Ledger) ReadCell(ctx context.Context, cell types.Key) (*types.CLValue, error) {
	value, err := l.Query(ctx, cell)
	if err != nil {
		return nil, err
	}
	clValue, ok := value.AsCLValue()
	if !ok {
		return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "%s holds a %s", cell, value.Tag)
	}
	return clValue, nil
}
