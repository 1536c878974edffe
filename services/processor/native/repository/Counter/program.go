// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/pkg/errors"
)

const (
	PROGRAM_NAME = "counter"

	COUNT_KEY             = "count_key"
	ENTRY_POINT_INCREMENT = "increment_count"
	PACKAGE_NAME          = "counter_package"
	ACCESS_KEY_NAME       = "counter_access_uref"
	CONTRACT_HASH_KEY     = "counter_contract_hash"
)

// program error enum, reported through types.UserError
const (
	ERROR_KEY_ALREADY_EXISTS uint16 = 0 // reserved, never raised
	ERROR_KEY_MISMATCH       uint16 = 1 // reserved, never raised
)

var PROGRAM = types.ProgramInfo{
	Name: PROGRAM_NAME,
	Symbols: map[string]types.SymbolInfo{
		SYMBOL_CALL.Name:            SYMBOL_CALL,
		SYMBOL_INCREMENT_COUNT.Name: SYMBOL_INCREMENT_COUNT,
	},
	InitSingleton: newProgram,
}

func newProgram(base *types.BaseProgram) types.Program {
	return &program{base}
}

type program struct{ *types.BaseProgram }

///////////////////////////////////////////////////////////////////////////

var SYMBOL_CALL = types.SymbolInfo{
	Name:           types.SYMBOL_NAME_CALL,
	Implementation: (*program).call,
}

// install: one fresh cell at 0 per call, published as version 1 of a new package
func (p *program) call(ctx types.Context) error {
	countCell, err := p.Storage.NewCell(ctx, types.CLValueUint32(0))
	if err != nil {
		return err
	}

	namedKeys := types.NewNamedKeys()
	namedKeys.Insert(COUNT_KEY, types.NewURefKey(countCell))

	entryPoints := types.NewEntryPoints()
	err = entryPoints.AddEntryPoint(types.NewEntryPoint(
		ENTRY_POINT_INCREMENT,
		nil,
		types.CL_TYPE_UNIT,
		types.ENTRY_POINT_ACCESS_PUBLIC,
		types.ENTRY_POINT_TYPE_CONTRACT,
	))
	if err != nil {
		return errors.Wrap(types.API_ERROR_INVALID_ENTRY_POINT, err.Error())
	}

	contractHash, _, err := p.Storage.NewContract(ctx, entryPoints, namedKeys, PACKAGE_NAME, ACCESS_KEY_NAME)
	if err != nil {
		return err
	}

	return p.Runtime.PutKey(ctx, CONTRACT_HASH_KEY, types.NewHashKey(contractHash))
}

///////////////////////////////////////////////////////////////////////////

var SYMBOL_INCREMENT_COUNT = types.SymbolInfo{
	Name:           ENTRY_POINT_INCREMENT,
	Implementation: (*program).incrementCount,
}

func (p *program) incrementCount(ctx types.Context) error {
	countKey, err := p.Runtime.GetKey(ctx, COUNT_KEY)
	if err != nil {
		return err
	}

	countCell, err := countKey.IntoURef()
	if err != nil {
		return err
	}

	return p.Storage.Add(ctx, countCell, types.CLValueUint32(1))
}
