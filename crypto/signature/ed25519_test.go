// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package signature

import (
	"github.com/orbs-network/orbs-counter-go/test/crypto/keys"
	"github.com/stretchr/testify/require"
	"testing"
)

var someDataToSign = []byte("this is what we want to sign")

func TestSignAndVerifyEd25519(t *testing.T) {
	kp := keys.Ed25519KeyPairForTests(1)

	sig, err := SignEd25519(kp.PrivateKey(), someDataToSign)
	require.NoError(t, err)
	require.True(t, VerifyEd25519(kp.PublicKey(), someDataToSign, sig), "signature should verify with the signing key")
}

func TestSignEd25519InvalidPrivateKey(t *testing.T) {
	_, err := SignEd25519([]byte{0}, someDataToSign)
	require.Error(t, err, "sign should fail with invalid private key")
}

func TestVerifyEd25519_WrongKeyOrData(t *testing.T) {
	kp0 := keys.Ed25519KeyPairForTests(0)
	kp1 := keys.Ed25519KeyPairForTests(1)

	sig, err := SignEd25519(kp0.PrivateKey(), someDataToSign)
	require.NoError(t, err)

	require.False(t, VerifyEd25519(kp1.PublicKey(), someDataToSign, sig), "signature should not verify with another key")
	require.False(t, VerifyEd25519(kp0.PublicKey(), []byte("other data"), sig), "signature should not verify other data")
	require.False(t, VerifyEd25519([]byte{1, 2, 3}, someDataToSign, sig), "malformed public key should not verify")
}
