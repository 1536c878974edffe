// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
)

type storageSdk struct {
	*service
}

func (s *storageSdk) NewCell(ctx types.Context, initial *types.CLValue) (types.CellAddress, error) {
	out, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_STORAGE, "newCell", initial)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, errors.Errorf("newCell Sdk.Storage returned corrupt output value")
	}
	key, err := out[0].ToKey()
	if err != nil {
		return nil, errors.Wrap(err, "newCell Sdk.Storage returned corrupt output value")
	}
	return key.IntoURef()
}

func (s *storageSdk) Add(ctx types.Context, address types.CellAddress, delta *types.CLValue) error {
	_, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_STORAGE, "add", types.CLValueKey(types.NewURefKey(address)), delta)
	return err
}

func (s *storageSdk) Read(ctx types.Context, address types.CellAddress) (*types.CLValue, error) {
	out, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_STORAGE, "read", types.CLValueKey(types.NewURefKey(address)))
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, errors.Errorf("read Sdk.Storage returned corrupt output value")
	}
	return out[0], nil
}

func (s *storageSdk) NewContract(ctx types.Context, entryPoints *types.EntryPoints, namedKeys types.NamedKeys, packageName string, accessKeyName string) (primitives.Keccak256, uint32, error) {
	encodedEntryPoints, err := rlp.EncodeToBytes(entryPoints)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed encoding entry points")
	}
	encodedNamedKeys, err := rlp.EncodeToBytes(namedKeys)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed encoding named keys")
	}

	out, err := s.callSdk(ctx, types.SDK_OPERATION_NAME_STORAGE, "newContract",
		types.CLValueBytes(encodedEntryPoints),
		types.CLValueBytes(encodedNamedKeys),
		types.CLValueString(packageName),
		types.CLValueString(accessKeyName),
	)
	if err != nil {
		return nil, 0, err
	}
	if len(out) != 2 {
		return nil, 0, errors.Errorf("newContract Sdk.Storage returned corrupt output value")
	}
	hashKey, err := out[0].ToKey()
	if err != nil {
		return nil, 0, errors.Wrap(err, "newContract Sdk.Storage returned corrupt output value")
	}
	contractHash, err := hashKey.IntoHash()
	if err != nil {
		return nil, 0, err
	}
	version, err := out[1].ToUint32()
	if err != nil {
		return nil, 0, errors.Wrap(err, "newContract Sdk.Storage returned corrupt output value")
	}
	return contractHash, version, nil
}
