// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"io"
)

type EntryPointAccess uint8

const (
	ENTRY_POINT_ACCESS_PUBLIC     EntryPointAccess = 0
	ENTRY_POINT_ACCESS_RESTRICTED EntryPointAccess = 1
)

type EntryPointType uint8

const (
	// runs in the caller's namespace
	ENTRY_POINT_TYPE_SESSION EntryPointType = 0
	// runs with the named keys of the contract version that owns it
	ENTRY_POINT_TYPE_CONTRACT EntryPointType = 1
)

func (t EntryPointType) String() string {
	if t == ENTRY_POINT_TYPE_CONTRACT {
		return "contract"
	}
	return "session"
}

type Parameter struct {
	Name string
	Type CLType
}

type EntryPoint struct {
	Name   string
	Args   []Parameter
	Ret    CLType
	Access EntryPointAccess
	Type   EntryPointType
}

func NewEntryPoint(name string, args []Parameter, ret CLType, access EntryPointAccess, entryPointType EntryPointType) *EntryPoint {
	if args == nil {
		args = []Parameter{}
	}
	return &EntryPoint{
		Name:   name,
		Args:   args,
		Ret:    ret,
		Access: access,
		Type:   entryPointType,
	}
}

func (e *EntryPoint) IsPublic() bool {
	return e.Access == ENTRY_POINT_ACCESS_PUBLIC
}

// EntryPoints is an ordered registry of entry points with unique names.
type EntryPoints struct {
	entries []*EntryPoint
}

func NewEntryPoints() *EntryPoints {
	return &EntryPoints{}
}

func (e *EntryPoints) AddEntryPoint(entryPoint *EntryPoint) error {
	if _, found := e.Get(entryPoint.Name); found {
		return errors.Wrapf(ErrDuplicateEntryPoint, "entry point %s", entryPoint.Name)
	}
	e.entries = append(e.entries, entryPoint)
	return nil
}

func (e *EntryPoints) Get(name string) (*EntryPoint, bool) {
	for _, entryPoint := range e.entries {
		if entryPoint.Name == name {
			return entryPoint, true
		}
	}
	return nil, false
}

func (e *EntryPoints) Names() []string {
	names := make([]string, 0, len(e.entries))
	for _, entryPoint := range e.entries {
		names = append(names, entryPoint.Name)
	}
	return names
}

func (e *EntryPoints) All() []*EntryPoint {
	return append([]*EntryPoint{}, e.entries...)
}

func (e *EntryPoints) Len() int {
	return len(e.entries)
}

func (e *EntryPoints) EncodeRLP(w io.Writer) error {
	if e == nil {
		return rlp.Encode(w, []*EntryPoint{})
	}
	return rlp.Encode(w, e.entries)
}

func (e *EntryPoints) DecodeRLP(s *rlp.Stream) error {
	var entries []*EntryPoint
	if err := s.Decode(&entries); err != nil {
		return err
	}
	decoded := &EntryPoints{}
	for _, entryPoint := range entries {
		if err := decoded.AddEntryPoint(entryPoint); err != nil {
			return err
		}
	}
	*e = *decoded
	return nil
}
