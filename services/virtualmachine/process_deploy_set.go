// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-counter-go/instrumentation/trace"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"time"
)

// a deploy that could not be dispatched to a program
type rejection struct {
	result protocol.ExecutionResult
	err    error
}

func reject(result protocol.ExecutionResult, err error) *rejection {
	return &rejection{result: result, err: err}
}

func (s *service) ProcessDeploySet(ctx context.Context, input *ProcessDeploySetInput) (*ProcessDeploySetOutput, error) {
	if max := s.config.BlockMaximumDeploys(); max > 0 && uint32(len(input.Deploys)) > max {
		return nil, errors.Errorf("block %d has %d deploys, maximum is %d", input.BlockHeight, len(input.Deploys), max)
	}

	logger := s.logger.WithTags(trace.LogFieldFrom(ctx), logfields.BlockHeight(input.BlockHeight))

	// create batch transient state
	batchTransientState := newTransientState()

	// receipts for result
	receipts := make([]*Receipt, 0, len(input.Deploys))

	for _, deploy := range input.Deploys {
		receipt, err := s.executeDeploy(ctx, logger, input, deploy, batchTransientState)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d aborted", input.BlockHeight)
		}
		receipts = append(receipts, receipt)
	}

	s.metrics.deploysPerSecond.Measure(int64(len(input.Deploys)))

	return &ProcessDeploySetOutput{
		Receipts: receipts,
		Effects:  batchTransientState.effects,
	}, nil
}

func (s *service) executeDeploy(ctx context.Context, logger log.Logger, input *ProcessDeploySetInput, deploy *Deploy, batchTransientState *transientState) (*Receipt, error) {
	start := time.Now()
	defer s.metrics.executeDeployTime.RecordSince(start)

	deployHash, err := deploy.Hash()
	if err != nil {
		return s.rejectedReceipt(logger, nil, reject(protocol.EXECUTION_RESULT_ERROR_INPUT, errors.Wrap(types.API_ERROR_INVALID_ARGUMENT, err.Error()))), nil
	}
	logger = logger.WithTags(logfields.Deploy(deployHash))

	if err := s.verifyDeploy(ctx, deploy, deployHash, input.BlockTimestamp, batchTransientState); err != nil {
		if _, isApiError := types.ApiErrorOf(err); !isApiError {
			return nil, err
		}
		return s.rejectedReceipt(logger, deployHash, reject(protocol.EXECUTION_RESULT_ERROR_INPUT, err)), nil
	}

	// create execution context
	contextId, executionContext := s.contexts.allocateExecutionContext(input.BlockHeight, input.BlockTimestamp, deployHash, deploy.Header.Account)
	defer s.contexts.destroyExecutionContext(contextId)
	executionContext.batchTransientState = batchTransientState

	symbol, rejected := s.resolveSession(ctx, executionContext, &deploy.Session)
	if rejected != nil {
		return s.rejectedReceipt(logger, deployHash, rejected), nil
	}

	logger.Info("executing deploy", log.String("program", executionContext.programName), log.String("symbol", symbol), logfields.Account(deploy.Header.Account))

	// execute the call
	output, err := s.processor.ProcessCall(ctx, &types.ProcessCallInput{
		ContextId:   contextId,
		ProgramName: executionContext.programName,
		SymbolName:  symbol,
		Args:        deploy.Session.Args,
	})
	if output == nil {
		output = &types.ProcessCallOutput{CallResult: protocol.EXECUTION_RESULT_ERROR_UNEXPECTED}
		if err == nil {
			err = errors.New("processor returned no output")
		}
	}

	if output.CallResult != protocol.EXECUTION_RESULT_SUCCESS {
		if err == nil {
			err = errors.Wrapf(output.ErrorCode, "program call failed")
		}
		s.metrics.failed.Inc()
		logger.Info("deploy execution failed, all of its effects are reverted", log.Stringable("result", output.CallResult), log.Error(err))
		return &Receipt{
			DeployHash:      deployHash,
			ExecutionResult: output.CallResult,
			ErrorCode:       output.ErrorCode,
			ErrorMessage:    err.Error(),
			Effects:         types.NewEffects(),
		}, nil
	}

	if err := executionContext.transientState.mergeInto(batchTransientState); err != nil {
		return nil, errors.Wrapf(err, "failed merging effects of deploy %s", deployHash)
	}
	// addresses are derived from the deploy hash, running it again would recreate them
	batchTransientState.write(types.NewDeployKey(deployHash), types.StoredCLValue(types.CLValueUint64(uint64(input.BlockHeight))))

	s.metrics.succeeded.Inc()
	return &Receipt{
		DeployHash:      deployHash,
		ExecutionResult: protocol.EXECUTION_RESULT_SUCCESS,
		Effects:         executionContext.transientState.effects,
		ReturnValue:     output.ReturnValue,
	}, nil
}

func (s *service) rejectedReceipt(logger log.Logger, deployHash primitives.Sha256, rejected *rejection) *Receipt {
	s.metrics.rejected.Inc()
	logger.Info("deploy rejected", log.Stringable("result", rejected.result), log.Error(rejected.err))

	code, _ := types.ApiErrorOf(rejected.err)
	return &Receipt{
		DeployHash:      deployHash,
		ExecutionResult: rejected.result,
		ErrorCode:       code,
		ErrorMessage:    rejected.err.Error(),
		Effects:         types.NewEffects(),
	}
}

// resolveSession points the execution context at the program to run and returns the symbol to call
func (s *service) resolveSession(ctx context.Context, executionContext *executionContext, item *ExecutableItem) (string, *rejection) {
	switch item.Kind {
	case ITEM_KIND_PROGRAM:
		if item.ProgramName == "" {
			return "", reject(protocol.EXECUTION_RESULT_ERROR_INPUT, errors.Wrap(types.API_ERROR_INVALID_ARGUMENT, "session program name is empty"))
		}
		executionContext.programName = item.ProgramName
		return types.SYMBOL_NAME_CALL, nil

	case ITEM_KIND_STORED_CONTRACT_BY_HASH:
		contract, rejected := s.loadContract(ctx, executionContext, item.Hash)
		if rejected != nil {
			return "", rejected
		}
		contractPackage, rejected := s.loadContractPackage(ctx, executionContext, contract.PackageHash)
		if rejected != nil {
			return "", rejected
		}
		if contractPackage.IsDisabled(contract.Version) {
			return "", reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "version %d of package %s is disabled", contract.Version, contractPackage.Name))
		}
		return s.enterContract(executionContext, item, contract, item.Hash)

	case ITEM_KIND_STORED_PACKAGE_BY_HASH:
		contractPackage, rejected := s.loadContractPackage(ctx, executionContext, item.Hash)
		if rejected != nil {
			return "", rejected
		}
		entry, rejected := selectVersion(contractPackage, item.Version)
		if rejected != nil {
			return "", rejected
		}
		contract, rejected := s.loadContract(ctx, executionContext, entry.ContractHash)
		if rejected != nil {
			return "", rejected
		}
		return s.enterContract(executionContext, item, contract, entry.ContractHash)
	}

	return "", reject(protocol.EXECUTION_RESULT_ERROR_INPUT, errors.Wrapf(types.API_ERROR_INVALID_ARGUMENT, "unknown session kind %s", item.Kind))
}

func selectVersion(contractPackage *types.ContractPackage, version uint32) (types.ContractVersionEntry, *rejection) {
	if version == 0 {
		entry, found := contractPackage.LatestEnabledVersion()
		if !found {
			return entry, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "package %s has no enabled version", contractPackage.Name))
		}
		return entry, nil
	}

	entry, found := contractPackage.Version(version)
	if !found {
		return entry, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "package %s has no version %d", contractPackage.Name, version))
	}
	if contractPackage.IsDisabled(version) {
		return entry, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "version %d of package %s is disabled", version, contractPackage.Name))
	}
	return entry, nil
}

func (s *service) loadContract(ctx context.Context, executionContext *executionContext, contractHash primitives.Keccak256) (*types.Contract, *rejection) {
	stored, found, err := s.read(ctx, executionContext, types.NewHashKey(contractHash))
	if err != nil {
		return nil, reject(protocol.EXECUTION_RESULT_ERROR_UNEXPECTED, err)
	}
	if !found {
		return nil, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "no contract at %x", []byte(contractHash)))
	}
	contract, ok := stored.AsContract()
	if !ok {
		return nil, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "%x holds a %s, not a contract", []byte(contractHash), stored.Tag))
	}
	return contract, nil
}

func (s *service) loadContractPackage(ctx context.Context, executionContext *executionContext, packageHash primitives.Keccak256) (*types.ContractPackage, *rejection) {
	stored, found, err := s.read(ctx, executionContext, types.NewPackageKey(packageHash))
	if err != nil {
		return nil, reject(protocol.EXECUTION_RESULT_ERROR_UNEXPECTED, err)
	}
	if !found {
		return nil, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "no package at %x", []byte(packageHash)))
	}
	contractPackage, ok := stored.AsContractPackage()
	if !ok {
		return nil, reject(protocol.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, errors.Wrapf(types.API_ERROR_CONTRACT_NOT_FOUND, "%x holds a %s, not a package", []byte(packageHash), stored.Tag))
	}
	return contractPackage, nil
}

// only public contract-typed entry points of a stored version can be called by a deploy, with exactly the declared args
func (s *service) enterContract(executionContext *executionContext, item *ExecutableItem, contract *types.Contract, contractHash primitives.Keccak256) (string, *rejection) {
	entryPoint, found := contract.EntryPoints.Get(item.EntryPoint)
	if !found {
		return "", reject(protocol.EXECUTION_RESULT_ERROR_INPUT, errors.Wrapf(types.API_ERROR_INVALID_ENTRY_POINT, "contract %x has no entry point '%s'", []byte(contractHash), item.EntryPoint))
	}
	if !entryPoint.IsPublic() {
		return "", reject(protocol.EXECUTION_RESULT_ERROR_INPUT, errors.Wrapf(types.API_ERROR_PERMISSION_DENIED, "entry point '%s' is not public", item.EntryPoint))
	}
	if entryPoint.Type != types.ENTRY_POINT_TYPE_CONTRACT {
		return "", reject(protocol.EXECUTION_RESULT_ERROR_INPUT, errors.Wrapf(types.API_ERROR_INVALID_ENTRY_POINT, "entry point '%s' is a %s entry point", item.EntryPoint, entryPoint.Type))
	}
	if err := matchArgs(entryPoint, item.Args); err != nil {
		return "", reject(protocol.EXECUTION_RESULT_ERROR_INPUT, err)
	}

	executionContext.programName = contract.ProgramName
	executionContext.contract = contract
	executionContext.contractHash = contractHash
	return entryPoint.Name, nil
}

func matchArgs(entryPoint *types.EntryPoint, args []types.NamedArg) error {
	if len(args) != len(entryPoint.Args) {
		return errors.Wrapf(types.API_ERROR_INVALID_ARGUMENT, "entry point '%s' takes %d args, got %d", entryPoint.Name, len(entryPoint.Args), len(args))
	}
	for i, param := range entryPoint.Args {
		arg := args[i]
		if arg.Name != param.Name || arg.Value == nil || arg.Value.Type != param.Type {
			return errors.Wrapf(types.API_ERROR_INVALID_ARGUMENT, "arg %d of entry point '%s' should be %s of type %s", i, entryPoint.Name, param.Name, param.Type)
		}
	}
	return nil
}
