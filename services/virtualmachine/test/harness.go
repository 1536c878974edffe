// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/crypto/keys"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/statestorage"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/orbs-counter-go/services/virtualmachine"
	"github.com/orbs-network/orbs-counter-go/test/builders"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type harness struct {
	processor    *types.MockProcessor
	stateStorage statestorage.StateStorage
	service      virtualmachine.VirtualMachine
	lastHeight   primitives.BlockHeight
}

func newHarness(logger log.Logger) *harness {
	processor := &types.MockProcessor{}
	processor.When("RegisterSdkCallHandler", mock.Any).Return().Times(1)

	stateStorage := statestorage.NewStateStorage(config.ForStateStorageTests(""), memory.NewStatePersistence(metric.NewRegistry()), logger, metric.NewRegistry())

	service := virtualmachine.NewVirtualMachine(
		config.ForVirtualMachineTests(builders.DEFAULT_TEST_VIRTUAL_CHAIN_ID, 10),
		stateStorage,
		processor,
		logger,
		metric.NewRegistry(),
	)

	return &harness{
		processor:    processor,
		stateStorage: stateStorage,
		service:      service,
	}
}

func (h *harness) commit(ctx context.Context, t *testing.T, effects *types.Effects) {
	h.lastHeight++
	out, err := h.stateStorage.CommitEffects(ctx, &statestorage.CommitEffectsInput{
		BlockHeight:    h.lastHeight,
		BlockTimestamp: primitives.TimestampNano(time.Now().UnixNano()),
		Effects:        effects,
	})
	require.NoError(t, err, "commit should not fail")
	require.EqualValues(t, h.lastHeight+1, out.NextDesiredBlockHeight, "commit should advance the height")
}

func (h *harness) commitWrites(ctx context.Context, t *testing.T, transforms ...*types.Transform) {
	effects := types.NewEffects()
	for _, transform := range transforms {
		require.NoError(t, effects.Apply(transform))
	}
	h.commit(ctx, t, effects)
}

func (h *harness) createAccount(ctx context.Context, t *testing.T, keyPair *keys.Ed25519KeyPair, namedKeys types.NamedKeys) types.Key {
	accountHash, err := digest.CalcAccountHashOfEd25519PublicKey(keyPair.PublicKey())
	require.NoError(t, err)
	if namedKeys == nil {
		namedKeys = types.NewNamedKeys()
	}

	accountKey := types.NewAccountKey(accountHash)
	h.commitWrites(ctx, t, types.NewWriteTransform(accountKey, types.StoredAccount(&types.Account{
		AccountHash: accountHash,
		PublicKey:   keyPair.PublicKey(),
		NamedKeys:   namedKeys,
	})))
	return accountKey
}

func (h *harness) processDeploys(ctx context.Context, t *testing.T, deploys ...*virtualmachine.Deploy) *virtualmachine.ProcessDeploySetOutput {
	out, err := h.service.ProcessDeploySet(ctx, &virtualmachine.ProcessDeploySetInput{
		BlockHeight:    h.lastHeight + 1,
		BlockTimestamp: primitives.TimestampNano(time.Now().UnixNano()),
		Deploys:        deploys,
	})
	require.NoError(t, err, "ProcessDeploySet should not fail")
	require.Len(t, out.Receipts, len(deploys), "every deploy should get a receipt")
	return out
}

func (h *harness) handleSdkCall(ctx context.Context, contextId types.ExecutionContextId, operationName string, methodName string, args ...*types.CLValue) ([]*types.CLValue, error) {
	output, err := h.service.HandleSdkCall(ctx, &types.SdkCallInput{
		ContextId:      contextId,
		OperationName:  operationName,
		MethodName:     methodName,
		InputArguments: args,
	})
	if err != nil {
		return nil, err
	}
	return output.OutputArguments, nil
}

// f plays the part of the program: it runs inside ProcessCall and may call back into the virtual machine
func (h *harness) expectProcessorCalled(programName string, symbolName string, f func(contextId types.ExecutionContextId) (protocol.ExecutionResult, types.ApiError, error)) {
	matcher := func(i interface{}) bool {
		input, ok := i.(*types.ProcessCallInput)
		return ok && input.ProgramName == programName && input.SymbolName == symbolName
	}

	h.processor.When("ProcessCall", mock.Any, mock.AnyIf(fmt.Sprintf("ProcessCall of %s.%s", programName, symbolName), matcher)).Call(func(ctx context.Context, input *types.ProcessCallInput) (*types.ProcessCallOutput, error) {
		callResult, errorCode, err := f(input.ContextId)
		return &types.ProcessCallOutput{
			CallResult:  callResult,
			ErrorCode:   errorCode,
			ReturnValue: types.CLValueUnit(),
		}, err
	}).Times(1)
}

func (h *harness) expectProcessorNotCalled() {
	h.processor.Never("ProcessCall", mock.Any, mock.Any)
}

func (h *harness) verifyProcessorCalled(t *testing.T) {
	ok, err := h.processor.Verify()
	require.True(t, ok, "processor should be called as expected: %v", err)
}

func (h *harness) readStored(ctx context.Context, t *testing.T, key types.Key) *types.StoredValue {
	value, found, err := h.stateStorage.ReadStoredValue(ctx, key)
	require.NoError(t, err)
	require.True(t, found, "expected a committed value at %s", key)
	return value
}

func (h *harness) readAccount(ctx context.Context, t *testing.T, accountKey types.Key) *types.Account {
	account, ok := h.readStored(ctx, t, accountKey).AsAccount()
	require.True(t, ok, "expected an account at %s", accountKey)
	return account
}

func requireReceipt(t *testing.T, receipt *virtualmachine.Receipt, expectedResult protocol.ExecutionResult, expectedCode types.ApiError) {
	require.Equal(t, expectedResult, receipt.ExecutionResult, "unexpected execution result: %s", receipt)
	require.Equal(t, expectedCode, receipt.ErrorCode, "unexpected error code: %s", receipt)
}

func exampleEntryPoints() *types.EntryPoints {
	entryPoints := types.NewEntryPoints()
	_ = entryPoints.AddEntryPoint(types.NewEntryPoint("increment", nil, types.CL_TYPE_UNIT, types.ENTRY_POINT_ACCESS_PUBLIC, types.ENTRY_POINT_TYPE_CONTRACT))
	_ = entryPoints.AddEntryPoint(types.NewEntryPoint("incrementBy", []types.Parameter{{Name: "amount", Type: types.CL_TYPE_U32}}, types.CL_TYPE_UNIT, types.ENTRY_POINT_ACCESS_PUBLIC, types.ENTRY_POINT_TYPE_CONTRACT))
	_ = entryPoints.AddEntryPoint(types.NewEntryPoint("restricted", nil, types.CL_TYPE_UNIT, types.ENTRY_POINT_ACCESS_RESTRICTED, types.ENTRY_POINT_TYPE_CONTRACT))
	_ = entryPoints.AddEntryPoint(types.NewEntryPoint("inSession", nil, types.CL_TYPE_UNIT, types.ENTRY_POINT_ACCESS_PUBLIC, types.ENTRY_POINT_TYPE_SESSION))
	return entryPoints
}

type storedContract struct {
	contractHash primitives.Keccak256
	packageHash  primitives.Keccak256
	cell         types.Key
}

// storeContract commits a package with a single version of programName, its registry holding one u32 cell under "cell"
func (h *harness) storeContract(ctx context.Context, t *testing.T, programName string, disabledVersions ...uint32) *storedContract {
	res := &storedContract{
		contractHash: hash.CalcKeccak256([]byte(programName), []byte("contract")),
		packageHash:  hash.CalcKeccak256([]byte(programName), []byte("package")),
		cell:         types.NewURefKey(types.CellAddress(hash.CalcKeccak256([]byte(programName), []byte("cell")))),
	}

	namedKeys := types.NewNamedKeys()
	namedKeys.Insert("cell", res.cell)

	contractPackage := &types.ContractPackage{Name: programName + "_package", AccessKey: types.CellAddress(hash.CalcKeccak256([]byte(programName), []byte("access")))}
	contractPackage.AddVersion(res.contractHash)
	contractPackage.Disabled = disabledVersions

	h.commitWrites(ctx, t,
		types.NewWriteTransform(res.cell, types.StoredCLValue(types.CLValueUint32(0))),
		types.NewWriteTransform(types.NewPackageKey(res.packageHash), types.StoredContractPackage(contractPackage)),
		types.NewWriteTransform(types.NewHashKey(res.contractHash), types.StoredContract(&types.Contract{
			PackageHash: res.packageHash,
			ProgramName: programName,
			Version:     1,
			EntryPoints: exampleEntryPoints(),
			NamedKeys:   namedKeys,
		})),
	)
	return res
}

func (h *harness) readCell(ctx context.Context, t *testing.T, cell types.Key) *types.CLValue {
	value, ok := h.readStored(ctx, t, cell).AsCLValue()
	require.True(t, ok, "expected a cell at %s", cell)
	return value
}

func encodeRlp(t *testing.T, value interface{}) []byte {
	encoded, err := rlp.EncodeToBytes(value)
	require.NoError(t, err)
	return encoded
}
