// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package keys

import (
	"fmt"
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/crypto/keys"
)

const NUM_OF_TEST_ACCOUNTS = 10

// Ed25519KeyPairForTests returns the same key pair for the same index on every run.
func Ed25519KeyPairForTests(setIndex int) *keys.Ed25519KeyPair {
	if setIndex < 0 || setIndex >= NUM_OF_TEST_ACCOUNTS {
		return nil
	}

	seed := hash.CalcSha256([]byte(fmt.Sprintf("orbs-counter-test-account-%d", setIndex)))
	kp, err := keys.Ed25519KeyPairFromSeed(seed)
	if err != nil {
		return nil
	}
	return kp
}
