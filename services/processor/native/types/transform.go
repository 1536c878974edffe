// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"fmt"
	"github.com/pkg/errors"
)

type TransformKind uint8

const (
	TRANSFORM_WRITE      TransformKind = 1
	TRANSFORM_ADD_UINT32 TransformKind = 2
	TRANSFORM_ADD_UINT64 TransformKind = 3
)

func (k TransformKind) String() string {
	switch k {
	case TRANSFORM_WRITE:
		return "Write"
	case TRANSFORM_ADD_UINT32:
		return "AddUInt32"
	case TRANSFORM_ADD_UINT64:
		return "AddUInt64"
	}
	return fmt.Sprintf("TransformKind(%d)", uint8(k))
}

// Transform is the effect of execution on a single key.
type Transform struct {
	Key   Key
	Kind  TransformKind
	Value *StoredValue // TRANSFORM_WRITE only
	Delta *CLValue     // adds only
}

func NewWriteTransform(key Key, value *StoredValue) *Transform {
	return &Transform{Key: key, Kind: TRANSFORM_WRITE, Value: value}
}

func NewAddTransform(key Key, delta *CLValue) (*Transform, error) {
	switch delta.Type {
	case CL_TYPE_U32:
		return &Transform{Key: key, Kind: TRANSFORM_ADD_UINT32, Delta: delta}, nil
	case CL_TYPE_U64:
		return &Transform{Key: key, Kind: TRANSFORM_ADD_UINT64, Delta: delta}, nil
	}
	return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "cannot add a %s value to %s", delta.Type, key)
}

func (t *Transform) String() string {
	if t.Kind == TRANSFORM_WRITE {
		return fmt.Sprintf("%s %s %s", t.Kind, t.Key, t.Value)
	}
	return fmt.Sprintf("%s %s %s", t.Kind, t.Key, t.Delta)
}

// ApplyTo returns the stored value after the transform, given the value before it.
func (t *Transform) ApplyTo(current *StoredValue) (*StoredValue, error) {
	if t.Kind == TRANSFORM_WRITE {
		return t.Value, nil
	}
	if current == nil {
		return nil, errors.Wrapf(API_ERROR_VALUE_NOT_FOUND, "cannot add to missing value at %s", t.Key)
	}
	clValue, ok := current.AsCLValue()
	if !ok {
		return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "cannot add to %s at %s", current.Tag, t.Key)
	}
	sum, err := clValue.AddWrapping(t.Delta)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot add at %s", t.Key)
	}
	return StoredCLValue(sum), nil
}

// composes next on top of t: a write absorbs anything before it, adds of the same width accumulate
func (t *Transform) compose(next *Transform) (*Transform, error) {
	switch {
	case next.Kind == TRANSFORM_WRITE:
		return next, nil
	case t.Kind == TRANSFORM_WRITE:
		value, err := next.ApplyTo(t.Value)
		if err != nil {
			return nil, err
		}
		return NewWriteTransform(t.Key, value), nil
	case t.Kind == next.Kind:
		sum, err := t.Delta.AddWrapping(next.Delta)
		if err != nil {
			return nil, err
		}
		return &Transform{Key: t.Key, Kind: t.Kind, Delta: sum}, nil
	}
	return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "cannot compose %s with %s at %s", t.Kind, next.Kind, t.Key)
}

// Effects is the ordered set of transforms produced by execution, at most one per key.
type Effects struct {
	order []string
	byKey map[string]*Transform
}

func NewEffects() *Effects {
	return &Effects{byKey: make(map[string]*Transform)}
}

func (e *Effects) Apply(t *Transform) error {
	addr := t.Key.String()
	existing, found := e.byKey[addr]
	if !found {
		e.order = append(e.order, addr)
		e.byKey[addr] = t
		return nil
	}
	composed, err := existing.compose(t)
	if err != nil {
		return err
	}
	e.byKey[addr] = composed
	return nil
}

// Merge applies every transform of other on top of e, in order.
func (e *Effects) Merge(other *Effects) error {
	for _, t := range other.Transforms() {
		if err := e.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

func (e *Effects) Get(key Key) (*Transform, bool) {
	t, found := e.byKey[key.String()]
	return t, found
}

func (e *Effects) Transforms() []*Transform {
	res := make([]*Transform, 0, len(e.order))
	for _, addr := range e.order {
		res = append(res, e.byKey[addr])
	}
	return res
}

func (e *Effects) Len() int {
	return len(e.order)
}
