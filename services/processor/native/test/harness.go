// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/processor/native"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/testkit"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"testing"
)

const EXAMPLE_CONTEXT_ID = types.ExecutionContextId(17)

type harness struct {
	sdkCallHandler *types.MockSdkCallHandler
	repository     *testkit.ManualRepository
	service        types.Processor
}

func newHarness(logger log.Logger) *harness {
	repository := testkit.NewRepository()
	sdkCallHandler := &types.MockSdkCallHandler{}

	service := native.NewNativeProcessor(
		&native.CompositeRepository{Nested: []native.Repository{native.NewPrebuiltRepository(), repository}},
		config.ForNativeProcessorTests(42),
		logger,
		metric.NewRegistry(),
	)
	service.RegisterSdkCallHandler(sdkCallHandler)

	return &harness{
		sdkCallHandler: sdkCallHandler,
		repository:     repository,
		service:        service,
	}
}

func (h *harness) processCall(ctx context.Context, programName string, symbolName string, args ...types.NamedArg) (*types.ProcessCallOutput, error) {
	return h.service.ProcessCall(ctx, &types.ProcessCallInput{
		ContextId:   EXAMPLE_CONTEXT_ID,
		ProgramName: programName,
		SymbolName:  symbolName,
		Args:        args,
	})
}

func sdkCallMatcher(operationName string, methodName string, argsMatch func(args []*types.CLValue) bool) func(i interface{}) bool {
	return func(i interface{}) bool {
		input, ok := i.(*types.SdkCallInput)
		return ok &&
			input.ContextId == EXAMPLE_CONTEXT_ID &&
			input.OperationName == operationName &&
			input.MethodName == methodName &&
			argsMatch(input.InputArguments)
	}
}

func returning(values ...*types.CLValue) *types.SdkCallOutput {
	return &types.SdkCallOutput{OutputArguments: values}
}

func (h *harness) expectSdkCallMadeWithStorageNewCell(expectedInitial *types.CLValue, returnCell types.CellAddress) {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_STORAGE, "newCell", func(args []*types.CLValue) bool {
		return len(args) == 1 && args[0].Equal(expectedInitial)
	})

	h.sdkCallHandler.When("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Storage, method equals newCell and initial value matches", matcher)).Return(returning(types.CLValueKey(types.NewURefKey(returnCell))), nil).Times(1)
}

// the registries travel rlp encoded, the matcher decodes them and hands them to verify
func (h *harness) expectSdkCallMadeWithStorageNewContract(verify func(entryPoints *types.EntryPoints, namedKeys types.NamedKeys, packageName string, accessKeyName string) bool, returnHash primitives.Keccak256) {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_STORAGE, "newContract", func(args []*types.CLValue) bool {
		if len(args) != 4 {
			return false
		}
		entryPoints := types.NewEntryPoints()
		namedKeys := types.NewNamedKeys()
		if rlp.DecodeBytes(args[0].Bytes, entryPoints) != nil || rlp.DecodeBytes(args[1].Bytes, &namedKeys) != nil {
			return false
		}
		packageName, err1 := args[2].ToString()
		accessKeyName, err2 := args[3].ToString()
		return err1 == nil && err2 == nil && verify(entryPoints, namedKeys, packageName, accessKeyName)
	})

	h.sdkCallHandler.When("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Storage, method equals newContract and registries match", matcher)).Return(returning(types.CLValueKey(types.NewHashKey(returnHash)), types.CLValueUint32(1)), nil).Times(1)
}

func (h *harness) expectSdkCallMadeWithStorageAdd(expectedCell types.CellAddress, expectedDelta *types.CLValue, returnError error) {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_STORAGE, "add", func(args []*types.CLValue) bool {
		return len(args) == 2 && args[0].Equal(types.CLValueKey(types.NewURefKey(expectedCell))) && args[1].Equal(expectedDelta)
	})

	h.sdkCallHandler.When("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Storage, method equals add and 2 args match", matcher)).Return(returning(), returnError).Times(1)
}

func (h *harness) expectSdkCallNeverMadeWithStorageAdd() {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_STORAGE, "add", func(args []*types.CLValue) bool {
		return true
	})

	h.sdkCallHandler.Never("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Storage, method equals add", matcher))
}

func (h *harness) expectSdkCallMadeWithRuntimeGetKey(expectedName string, returnKey types.Key, returnError error) {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_RUNTIME, "getKey", func(args []*types.CLValue) bool {
		return len(args) == 1 && args[0].Equal(types.CLValueString(expectedName))
	})

	var output *types.SdkCallOutput
	if returnError == nil {
		output = returning(types.CLValueKey(returnKey))
	}
	h.sdkCallHandler.When("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Runtime, method equals getKey and name matches", matcher)).Return(output, returnError).Times(1)
}

func (h *harness) expectSdkCallMadeWithRuntimePutKey(expectedName string, expectedKey types.Key) {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_RUNTIME, "putKey", func(args []*types.CLValue) bool {
		return len(args) == 2 && args[0].Equal(types.CLValueString(expectedName)) && args[1].Equal(types.CLValueKey(expectedKey))
	})

	h.sdkCallHandler.When("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Runtime, method equals putKey and 2 args match", matcher)).Return(returning(), nil).Times(1)
}

func (h *harness) expectSdkCallMadeWithRuntimeCaller(returnAccountHash primitives.Sha256) {
	matcher := sdkCallMatcher(types.SDK_OPERATION_NAME_RUNTIME, "caller", func(args []*types.CLValue) bool {
		return len(args) == 0
	})

	h.sdkCallHandler.When("HandleSdkCall", mock.Any, mock.AnyIf("Operation equals Sdk.Runtime, method equals caller", matcher)).Return(returning(types.CLValueKey(types.NewAccountKey(returnAccountHash))), nil).Times(1)
}

func (h *harness) verifySdkCallMade(t *testing.T) {
	_, err := h.sdkCallHandler.Verify()
	require.NoError(t, err, "sdkCallHandler should be called as expected")
}

func address(b byte) []byte {
	res := make([]byte, 32)
	for i := range res {
		res[i] = b
	}
	return res
}
