// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

// Program receiver for repository programs (instantiated once per processor)
type Program interface{}

type BaseProgram struct {
	Storage StorageSdk
	Runtime RuntimeSdk
}

func NewBaseProgram(storage StorageSdk, runtime RuntimeSdk) *BaseProgram {
	return &BaseProgram{
		Storage: storage,
		Runtime: runtime,
	}
}

// ProgramInfo describes a compiled artifact: the symbols it exports to the host loader.
type ProgramInfo struct {
	Name          string
	Symbols       map[string]SymbolInfo
	InitSingleton func(*BaseProgram) Program
}

type SymbolInfo struct {
	Name           string
	Implementation interface{}
}

// the session symbol every installable artifact exports
const SYMBOL_NAME_CALL = "call"
