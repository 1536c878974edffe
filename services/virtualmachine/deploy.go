// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"fmt"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/crypto/signature"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/orbs-spec/types/go/protocol"
	"github.com/pkg/errors"
)

type ExecutableItemKind uint8

const (
	ITEM_KIND_RESERVED                ExecutableItemKind = 0
	ITEM_KIND_PROGRAM                 ExecutableItemKind = 1
	ITEM_KIND_STORED_CONTRACT_BY_HASH ExecutableItemKind = 2
	ITEM_KIND_STORED_PACKAGE_BY_HASH  ExecutableItemKind = 3
)

func (k ExecutableItemKind) String() string {
	switch k {
	case ITEM_KIND_PROGRAM:
		return "ITEM_KIND_PROGRAM"
	case ITEM_KIND_STORED_CONTRACT_BY_HASH:
		return "ITEM_KIND_STORED_CONTRACT_BY_HASH"
	case ITEM_KIND_STORED_PACKAGE_BY_HASH:
		return "ITEM_KIND_STORED_PACKAGE_BY_HASH"
	}
	return "ITEM_KIND_RESERVED"
}

// ExecutableItem is the code a deploy runs.
// A program artifact runs its call symbol in the account's namespace; stored items run one contract entry point.
type ExecutableItem struct {
	Kind        ExecutableItemKind
	ProgramName string              // ITEM_KIND_PROGRAM
	Hash        primitives.Keccak256 // contract hash or package hash
	Version     uint32               // ITEM_KIND_STORED_PACKAGE_BY_HASH, 0 for the latest enabled version
	EntryPoint  string
	Args        []types.NamedArg
}

func (i *ExecutableItem) String() string {
	switch i.Kind {
	case ITEM_KIND_PROGRAM:
		return fmt.Sprintf("program %s", i.ProgramName)
	case ITEM_KIND_STORED_CONTRACT_BY_HASH:
		return fmt.Sprintf("contract %x.%s", []byte(i.Hash), i.EntryPoint)
	case ITEM_KIND_STORED_PACKAGE_BY_HASH:
		return fmt.Sprintf("package %x@%d.%s", []byte(i.Hash), i.Version, i.EntryPoint)
	}
	return i.Kind.String()
}

type DeployHeader struct {
	Account   primitives.Sha256
	PublicKey primitives.Ed25519PublicKey
	Timestamp primitives.TimestampNano
	ChainId   primitives.VirtualChainId
}

type Deploy struct {
	Header    DeployHeader
	Session   ExecutableItem
	Signature primitives.Ed25519Sig
}

func (d *Deploy) String() string {
	return fmt.Sprintf("{account: %s, session: %s, ts: %d}", d.Header.Account, d.Session.String(), d.Header.Timestamp)
}

// Hash is the digest signed by the account key; the signature itself is not part of it.
func (d *Deploy) Hash() (primitives.Sha256, error) {
	encodedHeader, err := rlp.EncodeToBytes(&d.Header)
	if err != nil {
		return nil, errors.Wrap(err, "failed encoding deploy header")
	}
	encodedSession, err := rlp.EncodeToBytes(&d.Session)
	if err != nil {
		return nil, errors.Wrap(err, "failed encoding deploy session")
	}
	return digest.CalcDeployHash(encodedHeader, encodedSession), nil
}

func (d *Deploy) Sign(privateKey primitives.Ed25519PrivateKey) error {
	deployHash, err := d.Hash()
	if err != nil {
		return err
	}
	d.Signature, err = signature.SignEd25519(privateKey, deployHash)
	return err
}

type Receipt struct {
	DeployHash      primitives.Sha256
	ExecutionResult protocol.ExecutionResult
	ErrorCode       types.ApiError
	ErrorMessage    string
	Effects         *types.Effects
	ReturnValue     *types.CLValue
}

func (r *Receipt) Succeeded() bool {
	return r.ExecutionResult == protocol.EXECUTION_RESULT_SUCCESS
}

func (r *Receipt) String() string {
	if r.Succeeded() {
		return fmt.Sprintf("{deploy: %s, result: %s, return: %s}", r.DeployHash, r.ExecutionResult, r.ReturnValue)
	}
	return fmt.Sprintf("{deploy: %s, result: %s, error: %s (%s)}", r.DeployHash, r.ExecutionResult, r.ErrorCode, r.ErrorMessage)
}
