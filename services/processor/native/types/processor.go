// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"context"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
)

type NamedArg struct {
	Name  string
	Value *CLValue
}

type ProcessCallInput struct {
	ContextId   ExecutionContextId
	ProgramName string
	SymbolName  string
	Args        []NamedArg
}

type ProcessCallOutput struct {
	CallResult  protocol.ExecutionResult
	ErrorCode   ApiError
	ReturnValue *CLValue
}

// Processor runs program symbols on behalf of the host.
type Processor interface {
	ProcessCall(ctx context.Context, input *ProcessCallInput) (*ProcessCallOutput, error)
	RegisterSdkCallHandler(handler SdkCallHandler)
}
