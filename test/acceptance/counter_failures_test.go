// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package acceptance

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/repository/Counter"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/test/builders"
	"github.com/orbs-network/orbs-counter-go/test/crypto/keys"
	"github.com/orbs-network/orbs-counter-go/test/harness"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestIncrement_FailsWithKeyNotFoundWhenCountKeyIsGone(t *testing.T) {
	harness.InMemoryLedger(t).Start(func(ctx context.Context, ledger *harness.LedgerDriver) {
		installed := ledger.Install(ctx, 0)
		ledger.Increment(ctx, 0, installed.ContractHash)

		ledger.ReplaceContractNamedKey(ctx, installed.ContractHash, counter.COUNT_KEY, nil)

		ledger.ExpectFailure(ctx, builders.IncrementDeploy(installed.ContractHash),
			protocol.EXECUTION_RESULT_ERROR_SMART_CONTRACT, types.API_ERROR_MISSING_KEY)
		require.EqualValues(t, 1, ledger.Count(ctx, installed.Cell), "the cell should be unchanged")
	})
}

func TestIncrement_FailsWithTypeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(ctx context.Context, ledger *harness.LedgerDriver, installed *harness.InstalledCounter)
	}{
		{
			name: "CountKeyIsNotACell",
			corrupt: func(ctx context.Context, ledger *harness.LedgerDriver, installed *harness.InstalledCounter) {
				hashKey := types.NewHashKey(installed.ContractHash)
				ledger.ReplaceContractNamedKey(ctx, installed.ContractHash, counter.COUNT_KEY, &hashKey)
			},
		},
		{
			name: "CellHoldsAString",
			corrupt: func(ctx context.Context, ledger *harness.LedgerDriver, installed *harness.InstalledCounter) {
				ledger.WriteCell(ctx, installed.Cell, types.CLValueString("seven"))
			},
		},
		{
			name: "CellHoldsAU64",
			corrupt: func(ctx context.Context, ledger *harness.LedgerDriver, installed *harness.InstalledCounter) {
				ledger.WriteCell(ctx, installed.Cell, types.CLValueUint64(7))
			},
		},
	}
	for i := range tests {
		cTest := tests[i]
		t.Run(cTest.name, func(t *testing.T) {
			harness.InMemoryLedger(t).Start(func(ctx context.Context, ledger *harness.LedgerDriver) {
				installed := ledger.Install(ctx, 0)
				cTest.corrupt(ctx, ledger, installed)
				before, err := ledger.Ledger.ReadCell(ctx, installed.Cell)
				require.NoError(t, err)

				ledger.ExpectFailure(ctx, builders.IncrementDeploy(installed.ContractHash),
					protocol.EXECUTION_RESULT_ERROR_SMART_CONTRACT, types.API_ERROR_TYPE_MISMATCH)

				after, err := ledger.Ledger.ReadCell(ctx, installed.Cell)
				require.NoError(t, err)
				require.True(t, before.Equal(after), "the cell should be unchanged, was %s and now %s", before, after)
			})
		})
	}
}

func TestIncrement_FailureInABlockDoesNotAffectOtherDeploys(t *testing.T) {
	harness.InMemoryLedger(t).Start(func(ctx context.Context, ledger *harness.LedgerDriver) {
		healthy := ledger.Install(ctx, 0)
		broken := ledger.Install(ctx, 1)
		ledger.ReplaceContractNamedKey(ctx, broken.ContractHash, counter.COUNT_KEY, nil)

		receipts := ledger.Exec(ctx,
			builders.IncrementDeploy(healthy.ContractHash).Build(),
			builders.IncrementDeploy(broken.ContractHash).Build(),
			builders.IncrementDeploy(healthy.ContractHash).Build(),
		)

		require.True(t, receipts[0].Succeeded())
		require.Equal(t, types.API_ERROR_MISSING_KEY, receipts[1].ErrorCode)
		require.True(t, receipts[2].Succeeded())
		require.EqualValues(t, 2, ledger.Count(ctx, healthy.Cell))
		require.EqualValues(t, 0, ledger.Count(ctx, broken.Cell))
	})
}

func TestIncrement_IsRefusedBeforeRunning(t *testing.T) {
	tests := []struct {
		name           string
		buildDeploy    func(installed *harness.InstalledCounter) *builders.DeployBuilder
		expectedResult protocol.ExecutionResult
		expectedCode   types.ApiError
	}{
		{
			name: "MissingEntryPoint",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.Deploy().WithStoredContract(installed.ContractHash, "decrement_count")
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			expectedCode:   types.API_ERROR_INVALID_ENTRY_POINT,
		},
		{
			name: "UnexpectedArgument",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.IncrementDeploy(installed.ContractHash).WithStoredContract(installed.ContractHash, counter.ENTRY_POINT_INCREMENT, "amount", uint32(2))
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			expectedCode:   types.API_ERROR_INVALID_ARGUMENT,
		},
		{
			name: "UnknownContract",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.IncrementDeploy(hash.CalcKeccak256([]byte("no such contract")))
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED,
			expectedCode:   types.API_ERROR_CONTRACT_NOT_FOUND,
		},
		{
			name: "UnknownProgram",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.Deploy().WithProgram("no_such_program")
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED,
			expectedCode:   types.API_ERROR_CONTRACT_NOT_FOUND,
		},
		{
			name: "BadSignature",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.IncrementDeploy(installed.ContractHash).WithInvalidSignature()
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			expectedCode:   types.API_ERROR_PERMISSION_DENIED,
		},
		{
			name: "WrongChain",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.IncrementDeploy(installed.ContractHash).WithChainId(builders.DEFAULT_TEST_VIRTUAL_CHAIN_ID + 1)
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			expectedCode:   types.API_ERROR_INVALID_ARGUMENT,
		},
		{
			name: "AccountNotInGenesis",
			buildDeploy: func(installed *harness.InstalledCounter) *builders.DeployBuilder {
				return builders.IncrementDeploy(installed.ContractHash).WithSigner(keys.Ed25519KeyPairForTests(7))
			},
			expectedResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			expectedCode:   types.API_ERROR_VALUE_NOT_FOUND,
		},
	}
	for i := range tests {
		cTest := tests[i]
		t.Run(cTest.name, func(t *testing.T) {
			harness.InMemoryLedger(t).Start(func(ctx context.Context, ledger *harness.LedgerDriver) {
				installed := ledger.Install(ctx, 0)

				ledger.ExpectFailure(ctx, cTest.buildDeploy(installed), cTest.expectedResult, cTest.expectedCode)

				require.EqualValues(t, 0, ledger.Count(ctx, installed.Cell), "the cell should be unchanged")
			})
		})
	}
}

func TestInstall_ReplayedDeployIsRefusedAndKeepsTheCount(t *testing.T) {
	harness.InMemoryLedger(t).Start(func(ctx context.Context, ledger *harness.LedgerDriver) {
		install := builders.Deploy().Build()
		receipts := ledger.Exec(ctx, install)
		require.True(t, receipts[0].Succeeded(), "install should succeed: %s", receipts[0])
		installed := ledger.InstalledCounterOf(ctx, 0)

		for i := 0; i < 3; i++ {
			ledger.Increment(ctx, 0, installed.ContractHash)
		}

		receipts = ledger.Exec(ctx, install)
		require.Equal(t, protocol.EXECUTION_RESULT_ERROR_INPUT, receipts[0].ExecutionResult, "a deploy should not run twice: %s", receipts[0])
		require.Equal(t, types.API_ERROR_INVALID_ARGUMENT, receipts[0].ErrorCode)
		require.Zero(t, receipts[0].Effects.Len())

		require.EqualValues(t, 3, ledger.Count(ctx, installed.Cell), "the live counter should keep its count")
		require.Equal(t, installed, ledger.InstalledCounterOf(ctx, 0), "the account should still point at the same install")
	})
}
