// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"fmt"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/pkg/errors"
	"reflect"
)

var (
	contextType = reflect.TypeOf(types.Context(0))
	keyType     = reflect.TypeOf(types.Key{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

type programPanic struct {
	recovered interface{}
}

func (p *programPanic) Error() string {
	return fmt.Sprintf("program panicked: %v", p.recovered)
}

func (s *service) processSymbolCall(executionContextId types.ExecutionContextId, programInstance types.Program, symbol types.SymbolInfo, args []types.NamedArg, functionNameForErrors string) (returnValue *types.CLValue, programErr error, err error) {

	defer func() {
		if r := recover(); r != nil {
			returnValue = nil
			programErr = errors.WithStack(&programPanic{r})
		}
	}()

	// verify input args
	inValues, err := s.prepareSymbolInputArgsForCall(executionContextId, programInstance, symbol, args, functionNameForErrors)
	if err != nil {
		return nil, nil, err
	}

	// execute the call
	outValues := reflect.ValueOf(symbol.Implementation).Call(inValues)

	// create output
	return s.createSymbolReturnValue(outValues, functionNameForErrors)
}

// symbols are method expressions: (receiver, types.Context, args...) -> ([value,] error)
func (s *service) prepareSymbolInputArgsForCall(executionContextId types.ExecutionContextId, programInstance types.Program, symbol types.SymbolInfo, args []types.NamedArg, functionNameForErrors string) ([]reflect.Value, error) {
	symbolValue := reflect.ValueOf(symbol.Implementation)
	if symbolValue.Kind() != reflect.Func {
		return nil, errors.Errorf("symbol '%s' is not a function", functionNameForErrors)
	}
	symbolType := symbolValue.Type()

	receiver := reflect.ValueOf(programInstance)
	if symbolType.NumIn() < 2 || !receiver.Type().AssignableTo(symbolType.In(0)) || symbolType.In(1) != contextType {
		return nil, errors.Errorf("symbol '%s' does not have the (program, context, args...) signature", functionNameForErrors)
	}
	res := []reflect.Value{receiver, reflect.ValueOf(types.Context(executionContextId))}

	expectedArgs := symbolType.NumIn() - 2
	if len(args) != expectedArgs {
		return nil, errors.Errorf("symbol '%s' takes %d args but received %d", functionNameForErrors, expectedArgs, len(args))
	}

	for i, arg := range args {
		argType := symbolType.In(i + 2)
		if arg.Value == nil {
			return nil, errors.Errorf("symbol '%s' arg %d ('%s') has no value", functionNameForErrors, i, arg.Name)
		}

		if argType == keyType {
			key, err := arg.Value.ToKey()
			if err != nil {
				return nil, errors.Wrapf(err, "symbol '%s' expects arg %d ('%s') to be a key", functionNameForErrors, i, arg.Name)
			}
			res = append(res, reflect.ValueOf(key))
			continue
		}

		// translate argument type
		switch argType.Kind() {
		case reflect.Uint32:
			v, err := arg.Value.ToUint32()
			if err != nil {
				return nil, errors.Wrapf(err, "symbol '%s' expects arg %d ('%s') to be uint32", functionNameForErrors, i, arg.Name)
			}
			res = append(res, reflect.ValueOf(v))
		case reflect.Uint64:
			v, err := arg.Value.ToUint64()
			if err != nil {
				return nil, errors.Wrapf(err, "symbol '%s' expects arg %d ('%s') to be uint64", functionNameForErrors, i, arg.Name)
			}
			res = append(res, reflect.ValueOf(v))
		case reflect.String:
			v, err := arg.Value.ToString()
			if err != nil {
				return nil, errors.Wrapf(err, "symbol '%s' expects arg %d ('%s') to be string", functionNameForErrors, i, arg.Name)
			}
			res = append(res, reflect.ValueOf(v))
		case reflect.Slice:
			if argType.Elem().Kind() != reflect.Uint8 {
				return nil, errors.Errorf("symbol '%s' arg %d slice type is not byte", functionNameForErrors, i)
			}
			v, err := arg.Value.ToBytes()
			if err != nil {
				return nil, errors.Wrapf(err, "symbol '%s' expects arg %d ('%s') to be bytes", functionNameForErrors, i, arg.Name)
			}
			res = append(res, reflect.ValueOf(v))
		default:
			return nil, errors.Errorf("symbol '%s' arg %d is of unsupported type %s", functionNameForErrors, i, argType)
		}
	}

	return res, nil
}

func (s *service) createSymbolReturnValue(outValues []reflect.Value, functionNameForErrors string) (*types.CLValue, error, error) {
	if len(outValues) == 0 || len(outValues) > 2 || !outValues[len(outValues)-1].Type().Implements(errorType) {
		return nil, nil, errors.Errorf("symbol '%s' must return an optional value followed by an error", functionNameForErrors)
	}

	var programErr error
	if last := outValues[len(outValues)-1]; !last.IsNil() {
		programErr = last.Interface().(error)
	}
	if len(outValues) == 1 || programErr != nil {
		return nil, programErr, nil
	}

	out := outValues[0]
	if out.Type() == keyType {
		return types.CLValueKey(out.Interface().(types.Key)), nil, nil
	}
	switch out.Kind() {
	case reflect.Uint32:
		return types.CLValueUint32(uint32(out.Uint())), nil, nil
	case reflect.Uint64:
		return types.CLValueUint64(out.Uint()), nil, nil
	case reflect.String:
		return types.CLValueString(out.String()), nil, nil
	case reflect.Slice:
		if out.Type().Elem().Kind() != reflect.Uint8 {
			return nil, nil, errors.Errorf("symbol '%s' return value slice type is not byte", functionNameForErrors)
		}
		return types.CLValueBytes(out.Bytes()), nil, nil
	default:
		return nil, nil, errors.Errorf("symbol '%s' return value is of unsupported type", functionNameForErrors)
	}
}
