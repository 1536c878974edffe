// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/pkg/errors"
)

func (s *service) handleSdkRuntimeCall(ctx context.Context, executionContext *executionContext, methodName string, args []*types.CLValue) ([]*types.CLValue, error) {
	switch methodName {
	case "getKey":
		return s.handleSdkRuntimeGetKey(ctx, executionContext, args)
	case "hasKey":
		return s.handleSdkRuntimeHasKey(ctx, executionContext, args)
	case "putKey":
		return s.handleSdkRuntimePutKey(ctx, executionContext, args)
	case "caller":
		return s.handleSdkRuntimeCaller(ctx, executionContext, args)
	default:
		return nil, errors.Errorf("unknown SDK runtime call method: %s", methodName)
	}
}

// the registry in scope: the account in session code, the contract version otherwise
func (s *service) namedKeysInScope(ctx context.Context, executionContext *executionContext) (types.NamedKeys, error) {
	if !executionContext.isSession() {
		return executionContext.contract.NamedKeys, nil
	}
	account, err := s.readAccount(ctx, executionContext)
	if err != nil {
		return nil, err
	}
	return account.NamedKeys, nil
}

func (s *service) readAccount(ctx context.Context, executionContext *executionContext) (*types.Account, error) {
	stored, found, err := s.read(ctx, executionContext, executionContext.accountKey())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Errorf("account %s of the running deploy does not exist", executionContext.caller)
	}
	account, ok := stored.AsAccount()
	if !ok {
		return nil, errors.Errorf("%s holds a %s, not an account", executionContext.accountKey(), stored.Tag)
	}
	return account, nil
}

func (s *service) putAccountKey(ctx context.Context, executionContext *executionContext, name string, key types.Key) error {
	account, err := s.readAccount(ctx, executionContext)
	if err != nil {
		return err
	}
	updated := account.Clone()
	updated.NamedKeys.Insert(name, key)
	executionContext.transientState.write(executionContext.accountKey(), types.StoredAccount(updated))
	return nil
}

// inputArg: name
// outputArg: key
func (s *service) handleSdkRuntimeGetKey(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if err := requireArgTypes("runtime getKey", args, types.CL_TYPE_STRING); err != nil {
		return nil, err
	}
	name, _ := args[0].ToString()

	namedKeys, err := s.namedKeysInScope(ctx, executionContext)
	if err != nil {
		return nil, err
	}
	key, found := namedKeys.Get(name)
	if !found {
		return nil, errors.Wrapf(types.API_ERROR_MISSING_KEY, "'%s' is not in the named keys in scope", name)
	}
	return []*types.CLValue{types.CLValueKey(key)}, nil
}

// inputArg: name
// outputArg: 1 when found, 0 otherwise
func (s *service) handleSdkRuntimeHasKey(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if err := requireArgTypes("runtime hasKey", args, types.CL_TYPE_STRING); err != nil {
		return nil, err
	}
	name, _ := args[0].ToString()

	namedKeys, err := s.namedKeysInScope(ctx, executionContext)
	if err != nil {
		return nil, err
	}
	if namedKeys.Contains(name) {
		return []*types.CLValue{types.CLValueUint32(1)}, nil
	}
	return []*types.CLValue{types.CLValueUint32(0)}, nil
}

// inputArg: name, key
func (s *service) handleSdkRuntimePutKey(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if err := requireArgTypes("runtime putKey", args, types.CL_TYPE_STRING, types.CL_TYPE_KEY); err != nil {
		return nil, err
	}
	name, _ := args[0].ToString()
	key, err := args[1].ToKey()
	if err != nil {
		return nil, err
	}

	if !executionContext.isSession() {
		return nil, errors.Wrapf(types.API_ERROR_PERMISSION_DENIED, "cannot put '%s' in the named keys of a published contract version", name)
	}
	if err := s.putAccountKey(ctx, executionContext, name, key); err != nil {
		return nil, err
	}
	return nil, nil
}

// outputArg: account key of the deploy signer
func (s *service) handleSdkRuntimeCaller(ctx context.Context, executionContext *executionContext, args []*types.CLValue) ([]*types.CLValue, error) {
	if len(args) != 0 {
		return nil, errors.Errorf("invalid SDK runtime caller args: %v", args)
	}
	return []*types.CLValue{types.CLValueKey(executionContext.accountKey())}, nil
}
