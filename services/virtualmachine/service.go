// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/statestorage"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"time"
)

var LogTag = log.Service("virtual-machine")

// VirtualMachine executes deploys against committed state and serves the SDK calls of the programs they run.
type VirtualMachine interface {
	types.SdkCallHandler
	ProcessDeploySet(ctx context.Context, input *ProcessDeploySetInput) (*ProcessDeploySetOutput, error)
}

type ProcessDeploySetInput struct {
	BlockHeight    primitives.BlockHeight
	BlockTimestamp primitives.TimestampNano
	Deploys        []*Deploy
}

type ProcessDeploySetOutput struct {
	Receipts []*Receipt
	// the effects of every successful deploy in the set, in order
	Effects *types.Effects
}

type metrics struct {
	executeDeployTime *metric.Histogram
	deploysPerSecond  *metric.Rate
	succeeded         *metric.Gauge
	failed            *metric.Gauge
	rejected          *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		executeDeployTime: m.NewLatency("VirtualMachine.ExecuteDeployTime.Millis", 10*time.Second),
		deploysPerSecond:  m.NewRate("VirtualMachine.DeploysPerSecond"),
		succeeded:         m.NewGauge("VirtualMachine.Deploys.Succeeded.Count"),
		failed:            m.NewGauge("VirtualMachine.Deploys.Failed.Count"),
		rejected:          m.NewGauge("VirtualMachine.Deploys.Rejected.Count"),
	}
}

type service struct {
	config       config.VirtualMachineConfig
	stateStorage statestorage.StateStorage
	processor    types.Processor
	logger       log.Logger
	metrics      *metrics

	contexts *executionContextProvider
}

func NewVirtualMachine(
	config config.VirtualMachineConfig,
	stateStorage statestorage.StateStorage,
	processor types.Processor,
	parentLogger log.Logger,
	metricFactory metric.Factory,
) VirtualMachine {

	s := &service{
		config:       config,
		stateStorage: stateStorage,
		processor:    processor,
		logger:       parentLogger.WithTags(LogTag),
		metrics:      newMetrics(metricFactory),
		contexts:     newExecutionContextProvider(),
	}

	processor.RegisterSdkCallHandler(s)

	return s
}

func (s *service) HandleSdkCall(ctx context.Context, input *types.SdkCallInput) (*types.SdkCallOutput, error) {
	var output []*types.CLValue
	var err error

	executionContext := s.contexts.loadExecutionContext(input.ContextId)
	if executionContext == nil {
		return nil, errors.Errorf("invalid execution context %d", input.ContextId)
	}

	switch input.OperationName {
	case types.SDK_OPERATION_NAME_STORAGE:
		output, err = s.handleSdkStorageCall(ctx, executionContext, input.MethodName, input.InputArguments)
	case types.SDK_OPERATION_NAME_RUNTIME:
		output, err = s.handleSdkRuntimeCall(ctx, executionContext, input.MethodName, input.InputArguments)
	default:
		return nil, errors.Errorf("unknown SDK call operation: %s", input.OperationName)
	}

	if err != nil {
		return nil, err
	}

	return &types.SdkCallOutput{
		OutputArguments: output,
	}, nil
}

func (s *service) read(ctx context.Context, executionContext *executionContext, key types.Key) (*types.StoredValue, bool, error) {
	return readStoredValue(ctx, s.stateStorage, key, executionContext.batchTransientState, executionContext.transientState)
}
