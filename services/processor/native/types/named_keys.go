// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"io"
	"sort"
)

// NamedKeys maps human readable names to keys. Names are unique, inserting an existing name replaces its key.
type NamedKeys map[string]Key

func NewNamedKeys() NamedKeys {
	return make(NamedKeys)
}

func (n NamedKeys) Insert(name string, key Key) {
	n[name] = key
}

func (n NamedKeys) Get(name string) (Key, bool) {
	k, ok := n[name]
	return k, ok
}

func (n NamedKeys) Contains(name string) bool {
	_, ok := n[name]
	return ok
}

func (n NamedKeys) Remove(name string) {
	delete(n, name)
}

func (n NamedKeys) Len() int {
	return len(n)
}

func (n NamedKeys) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n NamedKeys) Clone() NamedKeys {
	res := make(NamedKeys, len(n))
	for name, key := range n {
		res[name] = Key{Tag: key.Tag, Address: append([]byte{}, key.Address...)}
	}
	return res
}

type namedKeyEntry struct {
	Name string
	Key  Key
}

// rlp has no map support, entries are written sorted by name so equal registries encode equally
func (n NamedKeys) EncodeRLP(w io.Writer) error {
	entries := make([]namedKeyEntry, 0, len(n))
	for _, name := range n.Names() {
		entries = append(entries, namedKeyEntry{Name: name, Key: n[name]})
	}
	return rlp.Encode(w, entries)
}

func (n *NamedKeys) DecodeRLP(s *rlp.Stream) error {
	var entries []namedKeyEntry
	if err := s.Decode(&entries); err != nil {
		return err
	}
	res := make(NamedKeys, len(entries))
	for _, entry := range entries {
		if res.Contains(entry.Name) {
			return errors.Wrapf(ErrDuplicateNamedKey, "named key %s", entry.Name)
		}
		res[entry.Name] = entry.Key
	}
	*n = res
	return nil
}
