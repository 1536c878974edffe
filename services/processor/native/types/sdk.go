// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"context"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
)

type StorageSdk interface {
	// create_cell
	NewCell(ctx Context, initial *CLValue) (CellAddress, error)
	// atomic add, performed by the host, never a read-modify-write in the program
	Add(ctx Context, address CellAddress, delta *CLValue) error
	Read(ctx Context, address CellAddress) (*CLValue, error)
	// publishes version 1 of a new package and returns its hash and version number
	NewContract(ctx Context, entryPoints *EntryPoints, namedKeys NamedKeys, packageName string, accessKeyName string) (primitives.Keccak256, uint32, error)
}

type RuntimeSdk interface {
	// resolves a name in the registry of the running program (account in session, contract version otherwise)
	GetKey(ctx Context, name string) (Key, error)
	HasKey(ctx Context, name string) (bool, error)
	PutKey(ctx Context, name string, key Key) error
	Caller(ctx Context) (primitives.Sha256, error)
}

const (
	SDK_OPERATION_NAME_STORAGE = "Sdk.Storage"
	SDK_OPERATION_NAME_RUNTIME = "Sdk.Runtime"
)

type SdkCallInput struct {
	ContextId      ExecutionContextId
	OperationName  string
	MethodName     string
	InputArguments []*CLValue
}

type SdkCallOutput struct {
	OutputArguments []*CLValue
}

// SdkCallHandler is implemented by the host, the native processor forwards every SDK call to it.
type SdkCallHandler interface {
	HandleSdkCall(ctx context.Context, input *SdkCallInput) (*SdkCallOutput, error)
}
