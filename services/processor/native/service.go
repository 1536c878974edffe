// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"context"
	"fmt"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/instrumentation/trace"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"sync"
	"time"
)

var LogTag = log.Service("processor-native")

type service struct {
	logger     log.Logger
	config     config.NativeProcessorConfig
	sdkHandler types.SdkCallHandler

	repository Repository

	instances struct {
		sync.Mutex
		byName map[string]types.Program
	}

	// execution context id -> the context.Context of the ProcessCall currently running it
	contexts struct {
		sync.RWMutex
		byId map[types.ExecutionContextId]context.Context
	}

	metrics *metrics
}

type metrics struct {
	processCallTime *metric.Histogram
	loadedPrograms  *metric.Gauge
}

func getMetrics(m metric.Factory) *metrics {
	return &metrics{
		processCallTime: m.NewLatency("Processor.Native.ProcessCallTime.Millis", 10*time.Second),
		loadedPrograms:  m.NewGauge("Processor.Native.LoadedPrograms.Count"),
	}
}

func NewNativeProcessor(repository Repository, config config.NativeProcessorConfig, parentLogger log.Logger, metricFactory metric.Factory) types.Processor {
	s := &service{
		repository: repository,
		config:     config,
		logger:     parentLogger.WithTags(LogTag),
		metrics:    getMetrics(metricFactory),
	}
	s.instances.byName = make(map[string]types.Program)
	s.contexts.byId = make(map[types.ExecutionContextId]context.Context)

	return s
}

// runs once on system initialization (called by the virtual machine constructor)
func (s *service) RegisterSdkCallHandler(handler types.SdkCallHandler) {
	s.sdkHandler = handler
}

func (s *service) ProcessCall(ctx context.Context, input *types.ProcessCallInput) (*types.ProcessCallOutput, error) {
	logger := s.logger.WithTags(trace.LogFieldFrom(ctx))

	// retrieve code
	programInfo, err := s.repository.ProgramInfo(ctx, input.ProgramName)
	if err != nil {
		return &types.ProcessCallOutput{
			CallResult: protocol.EXECUTION_RESULT_ERROR_UNEXPECTED,
		}, err
	}
	if programInfo == nil {
		return &types.ProcessCallOutput{
			CallResult: protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED,
			ErrorCode:  types.API_ERROR_CONTRACT_NOT_FOUND,
		}, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "program '%s' is not known to the processor", input.ProgramName)
	}

	// get the exported symbol
	symbol, found := programInfo.Symbols[input.SymbolName]
	if !found {
		return &types.ProcessCallOutput{
			CallResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			ErrorCode:  types.API_ERROR_INVALID_ENTRY_POINT,
		}, errors.Wrapf(types.API_ERROR_INVALID_ENTRY_POINT, "symbol '%s' not found on program '%s'", input.SymbolName, input.ProgramName)
	}
	programInstance := s.getProgramInstance(programInfo)

	// setup context for the sdk adapters
	s.pushContext(input.ContextId, ctx)
	defer s.popContext(input.ContextId)

	start := time.Now()
	defer s.metrics.processCallTime.RecordSince(start)

	// execute
	logger.Info("processor executing program", log.String("program", input.ProgramName), log.String("symbol", input.SymbolName))

	functionNameForErrors := fmt.Sprintf("%s.%s", input.ProgramName, input.SymbolName)
	returnValue, programErr, err := s.processSymbolCall(input.ContextId, programInstance, symbol, input.Args, functionNameForErrors)
	if err != nil {
		logger.Info("program call rejected", log.String("program", input.ProgramName), log.String("symbol", input.SymbolName), log.Error(err))

		return &types.ProcessCallOutput{
			CallResult: protocol.EXECUTION_RESULT_ERROR_INPUT,
			ErrorCode:  types.API_ERROR_INVALID_ARGUMENT,
		}, errors.Wrap(types.API_ERROR_INVALID_ARGUMENT, err.Error())
	}

	// result
	if programErr != nil {
		return s.failedCallOutput(logger, input, programErr), programErr
	}
	if returnValue == nil {
		returnValue = types.CLValueUnit()
	}
	return &types.ProcessCallOutput{
		CallResult:  protocol.EXECUTION_RESULT_SUCCESS,
		ReturnValue: returnValue,
	}, nil
}

func (s *service) failedCallOutput(logger log.Logger, input *types.ProcessCallInput, programErr error) *types.ProcessCallOutput {
	if _, panicked := errors.Cause(programErr).(*programPanic); panicked {
		logger.Info("program panicked", log.String("program", input.ProgramName), log.String("symbol", input.SymbolName), log.Error(programErr))
		return &types.ProcessCallOutput{CallResult: protocol.EXECUTION_RESULT_ERROR_SMART_CONTRACT}
	}

	code, isApiError := types.ApiErrorOf(programErr)
	if !isApiError {
		logger.Error("host fault during program call", log.String("program", input.ProgramName), log.String("symbol", input.SymbolName), log.Error(programErr))
		return &types.ProcessCallOutput{CallResult: protocol.EXECUTION_RESULT_ERROR_UNEXPECTED}
	}

	logger.Info("program returned error", log.String("program", input.ProgramName), log.String("symbol", input.SymbolName), log.Error(programErr))
	return &types.ProcessCallOutput{
		CallResult: protocol.EXECUTION_RESULT_ERROR_SMART_CONTRACT,
		ErrorCode:  code,
	}
}

func (s *service) getProgramInstance(programInfo *types.ProgramInfo) types.Program {
	s.instances.Lock()
	defer s.instances.Unlock()

	if instance, found := s.instances.byName[programInfo.Name]; found {
		return instance
	}

	instance := programInfo.InitSingleton(types.NewBaseProgram(&storageSdk{s}, &runtimeSdk{s}))
	s.instances.byName[programInfo.Name] = instance
	s.metrics.loadedPrograms.Inc()
	return instance
}

func (s *service) pushContext(contextId types.ExecutionContextId, ctx context.Context) {
	s.contexts.Lock()
	defer s.contexts.Unlock()
	s.contexts.byId[contextId] = ctx
}

func (s *service) popContext(contextId types.ExecutionContextId) {
	s.contexts.Lock()
	defer s.contexts.Unlock()
	delete(s.contexts.byId, contextId)
}

func (s *service) contextFor(contextId types.Context) (context.Context, error) {
	s.contexts.RLock()
	defer s.contexts.RUnlock()

	ctx, found := s.contexts.byId[types.ExecutionContextId(contextId)]
	if !found {
		return nil, errors.Errorf("execution context %d is not running on the processor", contextId)
	}
	return ctx, nil
}

func (s *service) callSdk(ctx types.Context, operationName string, methodName string, args ...*types.CLValue) ([]*types.CLValue, error) {
	goCtx, err := s.contextFor(ctx)
	if err != nil {
		return nil, err
	}
	output, err := s.sdkHandler.HandleSdkCall(goCtx, &types.SdkCallInput{
		ContextId:      types.ExecutionContextId(ctx),
		OperationName:  operationName,
		MethodName:     methodName,
		InputArguments: args,
	})
	if err != nil {
		return nil, err
	}
	return output.OutputArguments, nil
}
