// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"fmt"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
)

type Account struct {
	AccountHash primitives.Sha256
	PublicKey   primitives.Ed25519PublicKey
	NamedKeys   NamedKeys
}

func (a *Account) Clone() *Account {
	return &Account{
		AccountHash: append(primitives.Sha256{}, a.AccountHash...),
		PublicKey:   append(primitives.Ed25519PublicKey{}, a.PublicKey...),
		NamedKeys:   a.NamedKeys.Clone(),
	}
}

type ContractVersionEntry struct {
	Version      uint32
	ContractHash primitives.Keccak256
}

// ContractPackage groups the immutable versions of a program, an update publishes a new version.
type ContractPackage struct {
	Name      string
	AccessKey CellAddress
	Versions  []ContractVersionEntry
	Disabled  []uint32
}

func (p *ContractPackage) NextVersion() uint32 {
	return uint32(len(p.Versions)) + 1
}

func (p *ContractPackage) AddVersion(contractHash primitives.Keccak256) uint32 {
	version := p.NextVersion()
	p.Versions = append(p.Versions, ContractVersionEntry{Version: version, ContractHash: contractHash})
	return version
}

func (p *ContractPackage) IsDisabled(version uint32) bool {
	for _, disabled := range p.Disabled {
		if disabled == version {
			return true
		}
	}
	return false
}

func (p *ContractPackage) Version(version uint32) (ContractVersionEntry, bool) {
	for _, entry := range p.Versions {
		if entry.Version == version {
			return entry, true
		}
	}
	return ContractVersionEntry{}, false
}

func (p *ContractPackage) LatestEnabledVersion() (ContractVersionEntry, bool) {
	for i := len(p.Versions) - 1; i >= 0; i-- {
		if !p.IsDisabled(p.Versions[i].Version) {
			return p.Versions[i], true
		}
	}
	return ContractVersionEntry{}, false
}

// Contract is one published version of a program package.
type Contract struct {
	PackageHash primitives.Keccak256
	ProgramName string
	Version     uint32
	EntryPoints *EntryPoints
	NamedKeys   NamedKeys
}

type StoredValueTag uint8

const (
	STORED_VALUE_RESERVED         StoredValueTag = 0
	STORED_VALUE_CL_VALUE         StoredValueTag = 1
	STORED_VALUE_ACCOUNT          StoredValueTag = 2
	STORED_VALUE_CONTRACT         StoredValueTag = 3
	STORED_VALUE_CONTRACT_PACKAGE StoredValueTag = 4
)

func (t StoredValueTag) String() string {
	switch t {
	case STORED_VALUE_CL_VALUE:
		return "CLValue"
	case STORED_VALUE_ACCOUNT:
		return "Account"
	case STORED_VALUE_CONTRACT:
		return "Contract"
	case STORED_VALUE_CONTRACT_PACKAGE:
		return "ContractPackage"
	}
	return fmt.Sprintf("StoredValueTag(%d)", uint8(t))
}

// StoredValue is anything that lives under a Key in global state.
type StoredValue struct {
	Tag             StoredValueTag
	clValue         *CLValue
	account         *Account
	contract        *Contract
	contractPackage *ContractPackage
}

func StoredCLValue(v *CLValue) *StoredValue {
	return &StoredValue{Tag: STORED_VALUE_CL_VALUE, clValue: v}
}

func StoredAccount(a *Account) *StoredValue {
	return &StoredValue{Tag: STORED_VALUE_ACCOUNT, account: a}
}

func StoredContract(c *Contract) *StoredValue {
	return &StoredValue{Tag: STORED_VALUE_CONTRACT, contract: c}
}

func StoredContractPackage(p *ContractPackage) *StoredValue {
	return &StoredValue{Tag: STORED_VALUE_CONTRACT_PACKAGE, contractPackage: p}
}

func (v *StoredValue) AsCLValue() (*CLValue, bool) {
	return v.clValue, v.Tag == STORED_VALUE_CL_VALUE
}

func (v *StoredValue) AsAccount() (*Account, bool) {
	return v.account, v.Tag == STORED_VALUE_ACCOUNT
}

func (v *StoredValue) AsContract() (*Contract, bool) {
	return v.contract, v.Tag == STORED_VALUE_CONTRACT
}

func (v *StoredValue) AsContractPackage() (*ContractPackage, bool) {
	return v.contractPackage, v.Tag == STORED_VALUE_CONTRACT_PACKAGE
}

// NamedKeys of an account or contract, nil for anything else.
func (v *StoredValue) NamedKeys() NamedKeys {
	switch v.Tag {
	case STORED_VALUE_ACCOUNT:
		return v.account.NamedKeys
	case STORED_VALUE_CONTRACT:
		return v.contract.NamedKeys
	}
	return nil
}

func (v *StoredValue) String() string {
	switch v.Tag {
	case STORED_VALUE_CL_VALUE:
		return "CLValue(" + v.clValue.String() + ")"
	case STORED_VALUE_ACCOUNT:
		return fmt.Sprintf("Account(%s, keys=%v)", v.account.AccountHash, v.account.NamedKeys.Names())
	case STORED_VALUE_CONTRACT:
		return fmt.Sprintf("Contract(%s v%d, entry-points=%v)", v.contract.ProgramName, v.contract.Version, v.contract.EntryPoints.Names())
	case STORED_VALUE_CONTRACT_PACKAGE:
		return fmt.Sprintf("ContractPackage(%s, versions=%d)", v.contractPackage.Name, len(v.contractPackage.Versions))
	}
	return v.Tag.String()
}

type storedValueEnvelope struct {
	Tag     StoredValueTag
	Payload []byte
}

func (v *StoredValue) payload() interface{} {
	switch v.Tag {
	case STORED_VALUE_CL_VALUE:
		return v.clValue
	case STORED_VALUE_ACCOUNT:
		return v.account
	case STORED_VALUE_CONTRACT:
		return v.contract
	case STORED_VALUE_CONTRACT_PACKAGE:
		return v.contractPackage
	}
	return nil
}

func (v *StoredValue) Encode() ([]byte, error) {
	payload := v.payload()
	if payload == nil {
		return nil, errors.Errorf("cannot encode stored value with tag %s", v.Tag)
	}
	encodedPayload, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed encoding %s", v.Tag)
	}
	return rlp.EncodeToBytes(&storedValueEnvelope{Tag: v.Tag, Payload: encodedPayload})
}

func DecodeStoredValue(encoded []byte) (*StoredValue, error) {
	var envelope storedValueEnvelope
	if err := rlp.DecodeBytes(encoded, &envelope); err != nil {
		return nil, errors.Wrap(err, "stored value envelope is corrupt")
	}

	res := &StoredValue{Tag: envelope.Tag}
	var err error
	switch envelope.Tag {
	case STORED_VALUE_CL_VALUE:
		res.clValue = &CLValue{}
		err = rlp.DecodeBytes(envelope.Payload, res.clValue)
	case STORED_VALUE_ACCOUNT:
		res.account = &Account{}
		err = rlp.DecodeBytes(envelope.Payload, res.account)
	case STORED_VALUE_CONTRACT:
		res.contract = &Contract{}
		err = rlp.DecodeBytes(envelope.Payload, res.contract)
	case STORED_VALUE_CONTRACT_PACKAGE:
		res.contractPackage = &ContractPackage{}
		err = rlp.DecodeBytes(envelope.Payload, res.contractPackage)
	default:
		return nil, errors.Errorf("unknown stored value tag %d", envelope.Tag)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "stored %s is corrupt", envelope.Tag)
	}
	return res, nil
}
