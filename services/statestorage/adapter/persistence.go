// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"bytes"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
)

// ChainState maps a global state address (Key.String()) to its encoded stored value.
// An empty value removes the address.
type ChainState map[string][]byte

type StatePersistence interface {
	Write(height primitives.BlockHeight, ts primitives.TimestampNano, diff ChainState) error
	Read(key string) ([]byte, bool, error)
	ReadMetadata() (primitives.BlockHeight, primitives.TimestampNano, error)
}

func IsZeroValue(value []byte) bool {
	return bytes.Equal(value, []byte{})
}
