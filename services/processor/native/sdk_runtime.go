// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
)

type runtimeSdk struct {
	*service
}

func (s *runtimeSdk) GetKey(ctx types.Context, name string) (types.Key, error) {
	out, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_RUNTIME, "getKey", types.CLValueString(name))
	if err != nil {
		return types.Key{}, err
	}
	if len(out) != 1 {
		return types.Key{}, errors.Errorf("getKey Sdk.Runtime returned corrupt output value")
	}
	return out[0].ToKey()
}

func (s *runtimeSdk) HasKey(ctx types.Context, name string) (bool, error) {
	out, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_RUNTIME, "hasKey", types.CLValueString(name))
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, errors.Errorf("hasKey Sdk.Runtime returned corrupt output value")
	}
	found, err := out[0].ToUint32()
	if err != nil {
		return false, errors.Wrap(err, "hasKey Sdk.Runtime returned corrupt output value")
	}
	return found != 0, nil
}

func (s *runtimeSdk) PutKey(ctx types.Context, name string, key types.Key) error {
	_, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_RUNTIME, "putKey", types.CLValueString(name), types.CLValueKey(key))
	return err
}

func (s *runtimeSdk) Caller(ctx types.Context) (primitives.Sha256, error) {
	out, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_RUNTIME, "caller")
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, errors.Errorf("caller Sdk.Runtime returned corrupt output value")
	}
	key, err := out[0].ToKey()
	if err != nil {
		return nil, errors.Wrap(err, "caller Sdk.Runtime returned corrupt output value")
	}
	return key.IntoAccountHash()
}
