// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/orbs-counter-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-counter-go/instrumentation/trace"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

func (s *service) handleSdkStorageCall(ctx context.Context, executionContext *executionContext, methodName string, args []*types.CLValue) ([]*types.CLValue, error) {
	switch methodName {
	case "newCell":
		return s.handleSdkStorageNewCell(ctx, executionContext, args)
	case "add":
		return s.handleSdkStorageAdd(ctx, executionContext, args)
	case "read":
		return s.handleSdkStorageRead(ctx, executionContext, args)
	case "newContract":
		return s.handleSdkStorageNewContract(ctx, executionContext, args)
	default:
		return nil, errors.Errorf("unknown SDK storage call method: %s", methodName)
	}
}

func requireArgTypes(methodName string, args []*types.CLValue, expected ...types.CLType) error {
	if len(args) != len(expected) {
		return errors.Errorf("invalid SDK %s args: expected %d, got %d", methodName, len(expected), len(args))
	}
	for i, arg := range args {
		if arg == nil || arg.Type != expected[i] {
			return errors.Errorf("invalid SDK %s args: argument %d is not %s", methodName, i, expected[i])
		}
	}
	return nil
}

// inputArg: initial value (any type but unit)
// outputArg: the key of the new cell
func (s *service) handleSdkStorageNewCell(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if len(args) != 1 || args[0] == nil || args[0].Type == types.CL_TYPE_UNIT {
		return nil, errors.Errorf("invalid SDK storage newCell args: %v", args)
	}

	cell := types.NewURefKey(types.CellAddress(executionContext.nextGeneratedAddress()))
	if err := s.requireUnused(ctx, executionContext, cell); err != nil {
		return nil, err
	}
	executionContext.transientState.write(cell, types.StoredCLValue(args[0]))

	return []*types.CLValue{types.CLValueKey(cell)}, nil
}

// inputArg: cell key, delta of the same numeric type as the cell
// the sum is never computed here, the add is recorded and resolved on commit
func (s *service) handleSdkStorageAdd(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if len(args) != 2 || args[0] == nil || args[0].Type != types.CL_TYPE_KEY || args[1] == nil {
		return nil, errors.Errorf("invalid SDK storage add args: %v", args)
	}
	key, err := args[0].ToKey()
	if err != nil {
		return nil, err
	}
	if _, err := key.IntoURef(); err != nil {
		return nil, err
	}

	current, err := s.readCell(ctx, executionContext, key)
	if err != nil {
		return nil, err
	}
	if current.Type != args[1].Type {
		return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "cannot add %s to the %s cell at %s", args[1].Type, current.Type, key)
	}

	if err := executionContext.transientState.add(key, args[1]); err != nil {
		return nil, err
	}
	return nil, nil
}

// inputArg: cell key
// outputArg: the cell value as seen by the running deploy
func (s *service) handleSdkStorageRead(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if err := requireArgTypes("storage read", args, types.CL_TYPE_KEY); err != nil {
		return nil, err
	}
	key, err := args[0].ToKey()
	if err != nil {
		return nil, err
	}
	if _, err := key.IntoURef(); err != nil {
		return nil, err
	}

	value, err := s.readCell(ctx, executionContext, key)
	if err != nil {
		return nil, err
	}
	return []*types.CLValue{value}, nil
}

// generated addresses are never reused, a value already there means the address derivation collided
func (s *service) requireUnused(ctx context.Context, executionContext *executionContext, key types.Key) error {
	_, found, err := s.read(ctx, executionContext, key)
	if err != nil {
		return err
	}
	if found {
		return errors.Errorf("generated address %s already holds a value", key)
	}
	return nil
}

func (s *service) readCell(ctx context.Context, executionContext *executionContext, key types.Key) (*types.CLValue, error) {
	stored, found, err := s.read(ctx, executionContext, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(types.API_ERROR_VALUE_NOT_FOUND, "no cell at %s", key)
	}
	value, isCell := stored.AsCLValue()
	if !isCell {
		return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "%s holds a %s, not a cell", key, stored.Tag)
	}
	return value, nil
}

// inputArg: rlp entry points, rlp named keys, package name, access key name
// outputArg: contract hash key, version
func (s *service) handleSdkStorageNewContract(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if err := requireArgTypes("storage newContract", args, types.CL_TYPE_BYTES, types.CL_TYPE_BYTES, types.CL_TYPE_STRING, types.CL_TYPE_STRING); err != nil {
		return nil, err
	}

	entryPoints := types.NewEntryPoints()
	if err := rlp.DecodeBytes(args[0].Bytes, entryPoints); err != nil {
		return nil, errors.Wrap(types.API_ERROR_INVALID_ENTRY_POINT, err.Error())
	}
	namedKeys := types.NewNamedKeys()
	if err := rlp.DecodeBytes(args[1].Bytes, &namedKeys); err != nil {
		return nil, errors.Wrapf(err, "invalid named keys for new contract")
	}
	packageName, _ := args[2].ToString()
	accessKeyName, _ := args[3].ToString()

	// published versions are immutable, so only session code may record names for the new package
	if !executionContext.isSession() && (packageName != "" || accessKeyName != "") {
		return nil, errors.Wrap(types.API_ERROR_PERMISSION_DENIED, "contract code cannot put keys for a new package")
	}

	packageHash := executionContext.nextGeneratedAddress()
	accessCell := types.CellAddress(executionContext.nextGeneratedAddress())
	contractHash := executionContext.nextGeneratedAddress()

	for _, key := range []types.Key{types.NewPackageKey(packageHash), types.NewURefKey(accessCell), types.NewHashKey(contractHash)} {
		if err := s.requireUnused(ctx, executionContext, key); err != nil {
			return nil, err
		}
	}

	contractPackage := &types.ContractPackage{
		Name:      packageName,
		AccessKey: accessCell,
	}
	version := contractPackage.AddVersion(contractHash)

	contract := &types.Contract{
		PackageHash: packageHash,
		ProgramName: executionContext.programName,
		Version:     version,
		EntryPoints: entryPoints,
		NamedKeys:   namedKeys,
	}

	executionContext.transientState.write(types.NewURefKey(accessCell), types.StoredCLValue(types.CLValueUnit()))
	executionContext.transientState.write(types.NewPackageKey(packageHash), types.StoredContractPackage(contractPackage))
	executionContext.transientState.write(types.NewHashKey(contractHash), types.StoredContract(contract))

	if packageName != "" {
		if err := s.putAccountKey(ctx, executionContext, packageName, types.NewPackageKey(packageHash)); err != nil {
			return nil, err
		}
	}
	if accessKeyName != "" {
		if err := s.putAccountKey(ctx, executionContext, accessKeyName, types.NewURefKey(accessCell)); err != nil {
			return nil, err
		}
	}

	s.logger.Info("published new contract package", trace.LogFieldFrom(ctx), logfields.Deploy(executionContext.deployHash),
		log.String("program", contract.ProgramName), logfields.ContractHash(contractHash), log.String("package", packageName))

	return []*types.CLValue{types.CLValueKey(types.NewHashKey(contractHash)), types.CLValueUint32(version)}, nil
}
