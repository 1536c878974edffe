// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package builders

import (
	"fmt"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
)

/// Test builders for: types.CLValue, []types.NamedArg

func CLValue(arg interface{}) *types.CLValue {
	switch arg := arg.(type) {
	case *types.CLValue:
		return arg
	case uint32:
		return types.CLValueUint32(arg)
	case uint64:
		return types.CLValueUint64(arg)
	case string:
		return types.CLValueString(arg)
	case []byte:
		return types.CLValueBytes(arg)
	case types.Key:
		return types.CLValueKey(arg)
	}
	panic(fmt.Sprintf("unsupported test argument type %T", arg))
}

// NamedArgs takes alternating names and values: NamedArgs("amount", uint32(3), "to", key)
func NamedArgs(namesAndValues ...interface{}) (res []types.NamedArg) {
	if len(namesAndValues)%2 != 0 {
		panic("NamedArgs expects pairs of name and value")
	}
	res = []types.NamedArg{}
	for i := 0; i < len(namesAndValues); i += 2 {
		res = append(res, types.NamedArg{Name: namesAndValues[i].(string), Value: CLValue(namesAndValues[i+1])})
	}
	return
}
