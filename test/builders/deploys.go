// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package builders

import (
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	cryptokeys "github.com/orbs-network/orbs-counter-go/crypto/keys"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/repository/Counter"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/virtualmachine"
	"github.com/orbs-network/orbs-counter-go/test/crypto/keys"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"sync/atomic"
	"time"
)

const (
	DEFAULT_TEST_VIRTUAL_CHAIN_ID = primitives.VirtualChainId(42)
	DEFAULT_TEST_ACCOUNT_INDEX    = 0
)

// virtualmachine.Deploy

// two deploys built in the same nanosecond with the same session must still hash differently
var lastTimestampOffset uint64

func uniqueTimestamp() primitives.TimestampNano {
	return primitives.TimestampNano(uint64(time.Now().UnixNano()) + atomic.AddUint64(&lastTimestampOffset, 1))
}

type DeployBuilder struct {
	keyPair          *cryptokeys.Ed25519KeyPair
	header           virtualmachine.DeployHeader
	session          virtualmachine.ExecutableItem
	invalidSignature bool
}

// Deploy is an install of the counter program signed by the default test account
func Deploy() *DeployBuilder {
	keyPair := keys.Ed25519KeyPairForTests(DEFAULT_TEST_ACCOUNT_INDEX)
	d := &DeployBuilder{
		header: virtualmachine.DeployHeader{
			Timestamp: uniqueTimestamp(),
			ChainId:   DEFAULT_TEST_VIRTUAL_CHAIN_ID,
		},
		session: virtualmachine.ExecutableItem{
			Kind:        virtualmachine.ITEM_KIND_PROGRAM,
			ProgramName: counter.PROGRAM_NAME,
			Args:        []types.NamedArg{},
		},
	}
	return d.WithSigner(keyPair)
}

// IncrementDeploy calls increment_count on a stored counter contract
func IncrementDeploy(contractHash primitives.Keccak256) *DeployBuilder {
	return Deploy().WithStoredContract(contractHash, counter.ENTRY_POINT_INCREMENT)
}

func (d *DeployBuilder) WithSigner(keyPair *cryptokeys.Ed25519KeyPair) *DeployBuilder {
	accountHash, err := digest.CalcAccountHashOfEd25519PublicKey(keyPair.PublicKey())
	if err != nil {
		panic(err)
	}
	d.keyPair = keyPair
	d.header.Account = accountHash
	d.header.PublicKey = keyPair.PublicKey()
	return d
}

// WithAccount claims an account that does not belong to the signing key
func (d *DeployBuilder) WithAccount(accountHash primitives.Sha256) *DeployBuilder {
	d.header.Account = accountHash
	return d
}

func (d *DeployBuilder) WithInvalidSignature() *DeployBuilder {
	d.invalidSignature = true
	return d
}

func (d *DeployBuilder) WithChainId(chainId primitives.VirtualChainId) *DeployBuilder {
	d.header.ChainId = chainId
	return d
}

func (d *DeployBuilder) WithTimestamp(timestamp primitives.TimestampNano) *DeployBuilder {
	d.header.Timestamp = timestamp
	return d
}

func (d *DeployBuilder) WithProgram(programName string, args ...interface{}) *DeployBuilder {
	d.session = virtualmachine.ExecutableItem{
		Kind:        virtualmachine.ITEM_KIND_PROGRAM,
		ProgramName: programName,
		Args:        NamedArgs(args...),
	}
	return d
}

func (d *DeployBuilder) WithStoredContract(contractHash primitives.Keccak256, entryPoint string, args ...interface{}) *DeployBuilder {
	d.session = virtualmachine.ExecutableItem{
		Kind:       virtualmachine.ITEM_KIND_STORED_CONTRACT_BY_HASH,
		Hash:       contractHash,
		EntryPoint: entryPoint,
		Args:       NamedArgs(args...),
	}
	return d
}

// version 0 calls the latest enabled version
func (d *DeployBuilder) WithStoredPackage(packageHash primitives.Keccak256, version uint32, entryPoint string, args ...interface{}) *DeployBuilder {
	d.session = virtualmachine.ExecutableItem{
		Kind:       virtualmachine.ITEM_KIND_STORED_PACKAGE_BY_HASH,
		Hash:       packageHash,
		Version:    version,
		EntryPoint: entryPoint,
		Args:       NamedArgs(args...),
	}
	return d
}

func (d *DeployBuilder) Build() *virtualmachine.Deploy {
	res := &virtualmachine.Deploy{
		Header:  d.header,
		Session: d.session,
	}
	privateKey := d.keyPair.PrivateKey()
	if d.invalidSignature {
		// ed25519 private keys carry the public key, flipping a seed byte signs with a different key
		privateKey = append([]byte{}, privateKey...)
		privateKey[0] ^= 0xff
	}
	if err := res.Sign(privateKey); err != nil {
		panic(err)
	}
	return res
}
