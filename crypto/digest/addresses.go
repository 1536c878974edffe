// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package digest

import (
	"github.com/orbs-network/membuffers/go"
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/crypto/keys"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
)

const (
	ACCOUNT_HASH_SIZE_BYTES      = hash.SHA256_HASH_SIZE_BYTES
	GENERATED_ADDRESS_SIZE_BYTES = hash.KECCAK256_HASH_SIZE_BYTES
)

var ed25519AccountTag = []byte("ed25519")

func CalcAccountHashOfEd25519PublicKey(publicKey primitives.Ed25519PublicKey) (primitives.Sha256, error) {
	if len(publicKey) != keys.ED25519_PUBLIC_KEY_SIZE_BYTES {
		return nil, errors.New("account public key is not a valid ed25519 public key")
	}
	return hash.CalcSha256(ed25519AccountTag, []byte{0}, publicKey), nil
}

// CalcGeneratedAddress derives the index-th address of a deploy. Every cell, contract and
// package created while executing a deploy gets its own index, so the same (seed, index)
// pair is never handed out twice.
func CalcGeneratedAddress(seed primitives.Sha256, index uint32) primitives.Keccak256 {
	indexBytes := make([]byte, 4)
	membuffers.WriteUint32(indexBytes, index)
	return hash.CalcKeccak256(seed, indexBytes)
}

func CalcDeployHash(encodedHeader []byte, encodedSession []byte) primitives.Sha256 {
	return hash.CalcSha256(hash.CalcSha256(encodedHeader), hash.CalcSha256(encodedSession))
}
