// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/pkg/errors"
)

// transientState tracks the effects of one deploy (or of the deploys of a block that already succeeded)
// on top of committed state. Nothing here is visible to other blocks until committed.
type transientState struct {
	effects *types.Effects
}

func newTransientState() *transientState {
	return &transientState{effects: types.NewEffects()}
}

func (t *transientState) write(key types.Key, value *types.StoredValue) {
	// a write composes with anything before it
	_ = t.effects.Apply(types.NewWriteTransform(key, value))
}

func (t *transientState) add(key types.Key, delta *types.CLValue) error {
	transform, err := types.NewAddTransform(key, delta)
	if err != nil {
		return err
	}
	return t.effects.Apply(transform)
}

// applyOn resolves the tracked transform for key (if any) on top of a value read from the layer below
func (t *transientState) applyOn(key types.Key, below *types.StoredValue) (*types.StoredValue, error) {
	transform, found := t.effects.Get(key)
	if !found {
		return below, nil
	}
	return transform.ApplyTo(below)
}

func (t *transientState) mergeInto(other *transientState) error {
	return other.effects.Merge(t.effects)
}

type committedStateReader interface {
	ReadStoredValue(ctx context.Context, key types.Key) (*types.StoredValue, bool, error)
}

// readStoredValue sees committed state, then the block so far, then the running deploy
func readStoredValue(ctx context.Context, committed committedStateReader, key types.Key, layers ...*transientState) (*types.StoredValue, bool, error) {
	value, found, err := committed.ReadStoredValue(ctx, key)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed reading committed value at %s", key)
	}
	if !found {
		value = nil
	}

	for _, layer := range layers {
		if layer == nil {
			continue
		}
		value, err = layer.applyOn(key, value)
		if err != nil {
			return nil, false, err
		}
	}
	return value, value != nil, nil
}
