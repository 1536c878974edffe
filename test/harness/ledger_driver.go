// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package harness

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/bootstrap"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/repository/Counter"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/virtualmachine"
	"github.com/orbs-network/orbs-counter-go/test/builders"
	"github.com/orbs-network/orbs-counter-go/test/crypto/keys"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type LedgerDriver struct {
	t      *testing.T
	Ledger *bootstrap.Ledger
}

// InstalledCounter is what one install left behind, resolved through the installer's named keys
type InstalledCounter struct {
	ContractHash primitives.Keccak256
	PackageHash  primitives.Keccak256
	AccessKey    types.Key
	Cell         types.Key
}

// Exec runs deploys as one block and commits it
func (d *LedgerDriver) Exec(ctx context.Context, deploys ...*virtualmachine.Deploy) []*virtualmachine.Receipt {
	receipts, err := d.Ledger.ExecuteAndCommit(ctx, deploys...)
	require.NoError(d.t, err, "block should be executed and committed")
	require.Len(d.t, receipts, len(deploys), "every deploy should get a receipt")
	return receipts
}

func (d *LedgerDriver) ExpectSuccess(ctx context.Context, deploy *builders.DeployBuilder) *virtualmachine.Receipt {
	receipt := d.Exec(ctx, deploy.Build())[0]
	require.True(d.t, receipt.Succeeded(), "deploy should succeed: %s", receipt)
	return receipt
}

func (d *LedgerDriver) ExpectFailure(ctx context.Context, deploy *builders.DeployBuilder, result protocol.ExecutionResult, code types.ApiError) *virtualmachine.Receipt {
	receipt := d.Exec(ctx, deploy.Build())[0]
	require.Equal(d.t, result, receipt.ExecutionResult, "unexpected execution result: %s", receipt)
	require.Equal(d.t, code, receipt.ErrorCode, "unexpected error code: %s", receipt)
	require.Zero(d.t, receipt.Effects.Len(), "a failed deploy should leave no effects")
	return receipt
}

// Install runs the counter install session as the test account of accountIndex
func (d *LedgerDriver) Install(ctx context.Context, accountIndex int) *InstalledCounter {
	d.ExpectSuccess(ctx, builders.Deploy().WithSigner(keys.Ed25519KeyPairForTests(accountIndex)))
	return d.InstalledCounterOf(ctx, accountIndex)
}

func (d *LedgerDriver) Increment(ctx context.Context, accountIndex int, contractHash primitives.Keccak256) *virtualmachine.Receipt {
	return d.ExpectSuccess(ctx, builders.IncrementDeploy(contractHash).WithSigner(keys.Ed25519KeyPairForTests(accountIndex)))
}

func (d *LedgerDriver) Account(ctx context.Context, accountIndex int) *types.Account {
	account, err := d.Ledger.GetAccount(ctx, AccountHashForTests(accountIndex))
	require.NoError(d.t, err, "account %d should exist", accountIndex)
	return account
}

// InstalledCounterOf reads the keys the last install put in the account of accountIndex
func (d *LedgerDriver) InstalledCounterOf(ctx context.Context, accountIndex int) *InstalledCounter {
	account := d.Account(ctx, accountIndex)

	contractHashKey, found := account.NamedKeys.Get(counter.CONTRACT_HASH_KEY)
	require.True(d.t, found, "%s should be in the account", counter.CONTRACT_HASH_KEY)
	contractHash, err := contractHashKey.IntoHash()
	require.NoError(d.t, err)

	packageKey, found := account.NamedKeys.Get(counter.PACKAGE_NAME)
	require.True(d.t, found, "%s should be in the account", counter.PACKAGE_NAME)
	packageHash, err := packageKey.IntoPackageHash()
	require.NoError(d.t, err)

	accessKey, found := account.NamedKeys.Get(counter.ACCESS_KEY_NAME)
	require.True(d.t, found, "%s should be in the account", counter.ACCESS_KEY_NAME)

	contract, err := d.Ledger.GetContract(ctx, contractHash)
	require.NoError(d.t, err, "contract should be stored")
	cell, found := contract.NamedKeys.Get(counter.COUNT_KEY)
	require.True(d.t, found, "%s should be in the contract", counter.COUNT_KEY)

	return &InstalledCounter{
		ContractHash: contractHash,
		PackageHash:  packageHash,
		AccessKey:    accessKey,
		Cell:         cell,
	}
}

func (d *LedgerDriver) Count(ctx context.Context, cell types.Key) uint32 {
	value, err := d.Ledger.ReadCell(ctx, cell)
	require.NoError(d.t, err, "cell should be readable")
	count, err := value.ToUint32()
	require.NoError(d.t, err, "cell should hold a u32")
	return count
}

// ReplaceContractNamedKey commits a block that rewrites the registry of a stored contract.
// A nil key removes the name. Programs cannot do this, it simulates corrupted state.
func (d *LedgerDriver) ReplaceContractNamedKey(ctx context.Context, contractHash primitives.Keccak256, name string, key *types.Key) {
	contract, err := d.Ledger.GetContract(ctx, contractHash)
	require.NoError(d.t, err)

	namedKeys := contract.NamedKeys.Clone()
	if key == nil {
		namedKeys.Remove(name)
	} else {
		namedKeys.Insert(name, *key)
	}
	corrupted := &types.Contract{
		PackageHash: contract.PackageHash,
		ProgramName: contract.ProgramName,
		Version:     contract.Version,
		EntryPoints: contract.EntryPoints,
		NamedKeys:   namedKeys,
	}

	d.commitWrites(ctx, types.NewWriteTransform(types.NewHashKey(contractHash), types.StoredContract(corrupted)))
}

// WriteCell commits a block that overwrites a cell with any value
func (d *LedgerDriver) WriteCell(ctx context.Context, cell types.Key, value *types.CLValue) {
	d.commitWrites(ctx, types.NewWriteTransform(cell, types.StoredCLValue(value)))
}

func (d *LedgerDriver) commitWrites(ctx context.Context, transforms ...*types.Transform) {
	height, err := d.Ledger.BlockHeight(ctx)
	require.NoError(d.t, err)

	effects := types.NewEffects()
	for _, transform := range transforms {
		require.NoError(d.t, effects.Apply(transform))
	}

	err = d.Ledger.Commit(ctx, &bootstrap.ExecutionResult{
		BlockHeight:    height + 1,
		BlockTimestamp: primitives.TimestampNano(time.Now().UnixNano()),
		Effects:        effects,
	})
	require.NoError(d.t, err, "direct state write should be committed")
}
