// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/stretchr/testify/require"
	"reflect"
	"testing"
)

type argsProgram struct{}

func (p *argsProgram) echoUint64(ctx types.Context, a uint64) (uint64, error) { return a, nil }
func (p *argsProgram) echoString(ctx types.Context, a string) (string, error) { return a, nil }
func (p *argsProgram) echoBytes(ctx types.Context, a []byte) ([]byte, error)  { return a, nil }
func (p *argsProgram) echoKey(ctx types.Context, a types.Key) (types.Key, error) {
	return a, nil
}
func (p *argsProgram) contextId(ctx types.Context) (uint32, error) { return uint32(ctx), nil }
func (p *argsProgram) takesMap(ctx types.Context, m map[string]string) error {
	return nil
}

func symbol(implementation interface{}) types.SymbolInfo {
	return types.SymbolInfo{Name: "symbol", Implementation: implementation}
}

func callSymbol(t *testing.T, implementation interface{}, args ...types.NamedArg) *types.CLValue {
	s := &service{}
	inValues, err := s.prepareSymbolInputArgsForCall(12, &argsProgram{}, symbol(implementation), args, "funcName")
	require.NoError(t, err)

	outValues := reflect.ValueOf(implementation).Call(inValues)
	returnValue, programErr, err := s.createSymbolReturnValue(outValues, "funcName")
	require.NoError(t, err)
	require.NoError(t, programErr)
	return returnValue
}

func TestPrepareSymbolArgumentsForCall_PassesTypedValues(t *testing.T) {
	tests := []struct {
		name           string
		implementation interface{}
		arg            *types.CLValue
	}{
		{"Uint64", (*argsProgram).echoUint64, types.CLValueUint64(1997)},
		{"String", (*argsProgram).echoString, types.CLValueString("hello")},
		{"Bytes", (*argsProgram).echoBytes, types.CLValueBytes([]byte{0x01, 0x02})},
		{"Key", (*argsProgram).echoKey, types.CLValueKey(types.NewURefKey([]byte{0x05, 0x06}))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			returnValue := callSymbol(t, tt.implementation, types.NamedArg{Name: "a", Value: tt.arg})
			require.True(t, tt.arg.Equal(returnValue), "expected %s to come back but got %s", tt.arg, returnValue)
		})
	}
}

func TestPrepareSymbolArgumentsForCall_PassesContextId(t *testing.T) {
	returnValue := callSymbol(t, (*argsProgram).contextId)
	require.True(t, types.CLValueUint32(12).Equal(returnValue))
}

func TestPrepareSymbolArgumentsForCall_Rejects(t *testing.T) {
	tests := []struct {
		name           string
		implementation interface{}
		args           []types.NamedArg
	}{
		{"MissingArg", (*argsProgram).echoUint64, nil},
		{"WrongType", (*argsProgram).echoUint64, []types.NamedArg{{Name: "a", Value: types.CLValueUint32(1)}}},
		{"NilValue", (*argsProgram).echoString, []types.NamedArg{{Name: "a"}}},
		{"UnsupportedType", (*argsProgram).takesMap, []types.NamedArg{{Name: "m", Value: types.CLValueBytes(nil)}}},
		{"NotAFunction", "echo", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &service{}
			_, err := s.prepareSymbolInputArgsForCall(12, &argsProgram{}, symbol(tt.implementation), tt.args, "funcName")
			require.Error(t, err)
		})
	}
}

func TestCreateSymbolReturnValue_RequiresTrailingError(t *testing.T) {
	s := &service{}
	_, _, err := s.createSymbolReturnValue([]reflect.Value{reflect.ValueOf(uint32(3))}, "funcName")
	require.Error(t, err)
}
