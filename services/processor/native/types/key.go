// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
	"strings"
)

// CellAddress is the host-issued address of a storage cell.
type CellAddress []byte

func (a CellAddress) String() string {
	return hex.EncodeToString(a)
}

func (a CellAddress) Equal(other CellAddress) bool {
	return bytes.Equal(a, other)
}

type KeyTag uint8

const (
	KEY_TAG_RESERVED KeyTag = 0
	KEY_TAG_UREF     KeyTag = 1
	KEY_TAG_HASH     KeyTag = 2
	KEY_TAG_PACKAGE  KeyTag = 3
	KEY_TAG_ACCOUNT  KeyTag = 4
	KEY_TAG_DEPLOY   KeyTag = 5
)

var keyTagPrefixes = map[KeyTag]string{
	KEY_TAG_UREF:    "uref-",
	KEY_TAG_HASH:    "hash-",
	KEY_TAG_PACKAGE: "package-",
	KEY_TAG_ACCOUNT: "account-hash-",
	KEY_TAG_DEPLOY:  "deploy-",
}

func (t KeyTag) String() string {
	switch t {
	case KEY_TAG_UREF:
		return "KEY_TAG_UREF"
	case KEY_TAG_HASH:
		return "KEY_TAG_HASH"
	case KEY_TAG_PACKAGE:
		return "KEY_TAG_PACKAGE"
	case KEY_TAG_ACCOUNT:
		return "KEY_TAG_ACCOUNT"
	case KEY_TAG_DEPLOY:
		return "KEY_TAG_DEPLOY"
	}
	return "KEY_TAG_RESERVED"
}

// Key references an entry in global state: a storage cell, a contract version, a package, an account
// or the marker of an executed deploy.
type Key struct {
	Tag     KeyTag
	Address []byte
}

func NewURefKey(address CellAddress) Key {
	return Key{Tag: KEY_TAG_UREF, Address: address}
}

func NewHashKey(contractHash primitives.Keccak256) Key {
	return Key{Tag: KEY_TAG_HASH, Address: contractHash}
}

func NewPackageKey(packageHash primitives.Keccak256) Key {
	return Key{Tag: KEY_TAG_PACKAGE, Address: packageHash}
}

func NewAccountKey(accountHash primitives.Sha256) Key {
	return Key{Tag: KEY_TAG_ACCOUNT, Address: accountHash}
}

// NewDeployKey addresses the marker the host keeps for every deploy whose effects were committed.
func NewDeployKey(deployHash primitives.Sha256) Key {
	return Key{Tag: KEY_TAG_DEPLOY, Address: deployHash}
}

// String is also the address of the stored value in global state.
func (k Key) String() string {
	prefix, ok := keyTagPrefixes[k.Tag]
	if !ok {
		return fmt.Sprintf("unknown-%d-%x", k.Tag, k.Address)
	}
	return prefix + hex.EncodeToString(k.Address)
}

func (k Key) Equal(other Key) bool {
	return k.Tag == other.Tag && bytes.Equal(k.Address, other.Address)
}

func (k Key) IsZero() bool {
	return k.Tag == KEY_TAG_RESERVED && len(k.Address) == 0
}

func (k Key) IntoURef() (CellAddress, error) {
	if k.Tag != KEY_TAG_UREF {
		return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "key %s is not a storage cell reference", k)
	}
	return CellAddress(k.Address), nil
}

func (k Key) IntoHash() (primitives.Keccak256, error) {
	if k.Tag != KEY_TAG_HASH {
		return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "key %s is not a contract hash", k)
	}
	return primitives.Keccak256(k.Address), nil
}

func (k Key) IntoPackageHash() (primitives.Keccak256, error) {
	if k.Tag != KEY_TAG_PACKAGE {
		return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "key %s is not a package hash", k)
	}
	return primitives.Keccak256(k.Address), nil
}

func (k Key) IntoAccountHash() (primitives.Sha256, error) {
	if k.Tag != KEY_TAG_ACCOUNT {
		return nil, errors.Wrapf(API_ERROR_TYPE_MISMATCH, "key %s is not an account hash", k)
	}
	return primitives.Sha256(k.Address), nil
}

// ParseKey reads back the output of Key.String.
func ParseKey(s string) (Key, error) {
	for _, tag := range []KeyTag{KEY_TAG_ACCOUNT, KEY_TAG_PACKAGE, KEY_TAG_HASH, KEY_TAG_UREF, KEY_TAG_DEPLOY} {
		prefix := keyTagPrefixes[tag]
		if strings.HasPrefix(s, prefix) {
			address, err := hex.DecodeString(strings.TrimPrefix(s, prefix))
			if err != nil {
				return Key{}, errors.Wrapf(err, "invalid key address in %s", s)
			}
			return Key{Tag: tag, Address: address}, nil
		}
	}
	return Key{}, errors.Errorf("unrecognized key format %s", s)
}
