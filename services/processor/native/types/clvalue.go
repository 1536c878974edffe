// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"bytes"
	"fmt"
	"github.com/orbs-network/membuffers/go"
	"github.com/pkg/errors"
)

type CLType uint8

const (
	CL_TYPE_UNIT   CLType = 0
	CL_TYPE_U32    CLType = 1
	CL_TYPE_U64    CLType = 2
	CL_TYPE_STRING CLType = 3
	CL_TYPE_KEY    CLType = 4
	CL_TYPE_BYTES  CLType = 5
)

func (t CLType) String() string {
	switch t {
	case CL_TYPE_UNIT:
		return "Unit"
	case CL_TYPE_U32:
		return "U32"
	case CL_TYPE_U64:
		return "U64"
	case CL_TYPE_STRING:
		return "String"
	case CL_TYPE_KEY:
		return "Key"
	case CL_TYPE_BYTES:
		return "Bytes"
	}
	return fmt.Sprintf("CLType(%d)", uint8(t))
}

// CLValue is a typed value as stored in a cell or passed as a runtime argument.
type CLValue struct {
	Type  CLType
	Bytes []byte
}

func CLValueUnit() *CLValue {
	return &CLValue{Type: CL_TYPE_UNIT}
}

func CLValueUint32(v uint32) *CLValue {
	b := make([]byte, 4)
	membuffers.WriteUint32(b, v)
	return &CLValue{Type: CL_TYPE_U32, Bytes: b}
}

func CLValueUint64(v uint64) *CLValue {
	b := make([]byte, 8)
	membuffers.WriteUint64(b, v)
	return &CLValue{Type: CL_TYPE_U64, Bytes: b}
}

func CLValueString(v string) *CLValue {
	return &CLValue{Type: CL_TYPE_STRING, Bytes: []byte(v)}
}

func CLValueKey(k Key) *CLValue {
	b := make([]byte, 0, 1+len(k.Address))
	b = append(b, byte(k.Tag))
	b = append(b, k.Address...)
	return &CLValue{Type: CL_TYPE_KEY, Bytes: b}
}

func CLValueBytes(b []byte) *CLValue {
	return &CLValue{Type: CL_TYPE_BYTES, Bytes: b}
}

func (v *CLValue) mismatch(expected CLType) error {
	return errors.Wrapf(API_ERROR_TYPE_MISMATCH, "expected %s value but found %s", expected, v.Type)
}

func (v *CLValue) ToUint32() (uint32, error) {
	if v.Type != CL_TYPE_U32 || len(v.Bytes) != 4 {
		return 0, v.mismatch(CL_TYPE_U32)
	}
	return membuffers.GetUint32(v.Bytes), nil
}

func (v *CLValue) ToUint64() (uint64, error) {
	if v.Type != CL_TYPE_U64 || len(v.Bytes) != 8 {
		return 0, v.mismatch(CL_TYPE_U64)
	}
	return membuffers.GetUint64(v.Bytes), nil
}

func (v *CLValue) ToString() (string, error) {
	if v.Type != CL_TYPE_STRING {
		return "", v.mismatch(CL_TYPE_STRING)
	}
	return string(v.Bytes), nil
}

func (v *CLValue) ToKey() (Key, error) {
	if v.Type != CL_TYPE_KEY || len(v.Bytes) == 0 {
		return Key{}, v.mismatch(CL_TYPE_KEY)
	}
	return Key{Tag: KeyTag(v.Bytes[0]), Address: append([]byte{}, v.Bytes[1:]...)}, nil
}

func (v *CLValue) ToBytes() ([]byte, error) {
	if v.Type != CL_TYPE_BYTES {
		return nil, v.mismatch(CL_TYPE_BYTES)
	}
	return v.Bytes, nil
}

func (v *CLValue) Equal(other *CLValue) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Type == other.Type && bytes.Equal(v.Bytes, other.Bytes)
}

func (v *CLValue) String() string {
	switch v.Type {
	case CL_TYPE_UNIT:
		return "()"
	case CL_TYPE_U32:
		if n, err := v.ToUint32(); err == nil {
			return fmt.Sprintf("%d", n)
		}
	case CL_TYPE_U64:
		if n, err := v.ToUint64(); err == nil {
			return fmt.Sprintf("%d", n)
		}
	case CL_TYPE_STRING:
		return fmt.Sprintf("%q", string(v.Bytes))
	case CL_TYPE_KEY:
		if k, err := v.ToKey(); err == nil {
			return k.String()
		}
	}
	return fmt.Sprintf("%s(%x)", v.Type, v.Bytes)
}

// AddWrapping returns v + delta, both must be of the same integer type. Overflow wraps around.
func (v *CLValue) AddWrapping(delta *CLValue) (*CLValue, error) {
	switch delta.Type {
	case CL_TYPE_U32:
		current, err := v.ToUint32()
		if err != nil {
			return nil, err
		}
		d, err := delta.ToUint32()
		if err != nil {
			return nil, err
		}
		return CLValueUint32(current + d), nil
	case CL_TYPE_U64:
		current, err := v.ToUint64()
		if err != nil {
			return nil, err
		}
		d, err := delta.ToUint64()
		if err != nil {
			return nil, err
		}
		return CLValueUint64(current + d), nil
	}
	return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "cannot add a %s value", delta.Type)
}
