// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"math"
	"strings"
	"testing"
)

func address(b byte) []byte {
	res := make([]byte, 32)
	for i := range res {
		res[i] = b
	}
	return res
}

func TestKey_StringRendersTagPrefixAndParsesBack(t *testing.T) {
	tests := []struct {
		key    Key
		prefix string
	}{
		{NewURefKey(address(1)), "uref-"},
		{NewHashKey(address(2)), "hash-"},
		{NewPackageKey(address(3)), "package-"},
		{NewAccountKey(address(4)), "account-hash-"},
		{NewDeployKey(address(5)), "deploy-"},
	}
	for _, tt := range tests {
		t.Run(tt.key.Tag.String(), func(t *testing.T) {
			s := tt.key.String()
			require.True(t, strings.HasPrefix(s, tt.prefix), "%s should start with %s", s, tt.prefix)
			require.Len(t, s, len(tt.prefix)+64)

			parsed, err := ParseKey(s)
			require.NoError(t, err)
			require.True(t, tt.key.Equal(parsed), "parsed key %s differs from %s", parsed, tt.key)
		})
	}
}

func TestKey_IntoURefFailsWithTypeMismatchForOtherTags(t *testing.T) {
	_, err := NewHashKey(address(2)).IntoURef()
	require.Error(t, err)

	code, ok := ApiErrorOf(err)
	require.True(t, ok)
	require.Equal(t, API_ERROR_TYPE_MISMATCH, code)

	cell, err := NewURefKey(address(1)).IntoURef()
	require.NoError(t, err)
	require.True(t, cell.Equal(address(1)))
}

func TestKey_IntoHashFailsWithTypeMismatchForOtherTags(t *testing.T) {
	_, err := NewURefKey(address(1)).IntoHash()
	code, _ := ApiErrorOf(err)
	require.Equal(t, API_ERROR_TYPE_MISMATCH, code)
}

func TestParseKey_RejectsGarbage(t *testing.T) {
	_, err := ParseKey("nonsense-00")
	require.Error(t, err)

	_, err = ParseKey("uref-zz")
	require.Error(t, err)
}

func TestCLValue_ConversionsCheckType(t *testing.T) {
	v, err := CLValueUint32(17).ToUint32()
	require.NoError(t, err)
	require.EqualValues(t, 17, v)

	_, err = CLValueUint64(17).ToUint32()
	code, _ := ApiErrorOf(err)
	require.Equal(t, API_ERROR_TYPE_MISMATCH, code)

	s, err := CLValueString("hello").ToString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	k, err := CLValueKey(NewHashKey(address(9))).ToKey()
	require.NoError(t, err)
	require.True(t, k.Equal(NewHashKey(address(9))))
}

func TestCLValue_AddWrapsOnOverflow(t *testing.T) {
	sum, err := CLValueUint32(math.MaxUint32).AddWrapping(CLValueUint32(1))
	require.NoError(t, err)
	require.True(t, sum.Equal(CLValueUint32(0)), "got %s", sum)

	sum64, err := CLValueUint64(math.MaxUint64).AddWrapping(CLValueUint64(2))
	require.NoError(t, err)
	require.True(t, sum64.Equal(CLValueUint64(1)), "got %s", sum64)
}

func TestCLValue_AddRejectsMixedWidths(t *testing.T) {
	_, err := CLValueUint64(1).AddWrapping(CLValueUint32(1))
	code, _ := ApiErrorOf(err)
	require.Equal(t, API_ERROR_TYPE_MISMATCH, code)

	_, err = CLValueString("x").AddWrapping(CLValueString("y"))
	code, _ = ApiErrorOf(err)
	require.Equal(t, API_ERROR_TYPE_MISMATCH, code)
}

func TestNamedKeys_NamesAreUniqueAndSorted(t *testing.T) {
	keys := NewNamedKeys()
	keys.Insert("b", NewURefKey(address(1)))
	keys.Insert("a", NewURefKey(address(2)))
	keys.Insert("b", NewURefKey(address(3)))

	require.Equal(t, 2, keys.Len())
	require.Equal(t, []string{"a", "b"}, keys.Names())

	b, found := keys.Get("b")
	require.True(t, found)
	require.True(t, b.Equal(NewURefKey(address(3))), "insert replaces an existing name")

	clone := keys.Clone()
	clone.Remove("a")
	require.True(t, keys.Contains("a"), "clone must not share storage with the original")
	require.False(t, clone.Contains("a"))
}

func TestNamedKeys_DecodeRejectsDuplicateNames(t *testing.T) {
	encoded, err := rlp.EncodeToBytes([]namedKeyEntry{
		{Name: "count", Key: NewURefKey(address(1))},
		{Name: "count", Key: NewURefKey(address(2))},
	})
	require.NoError(t, err)

	var decoded NamedKeys
	err = rlp.DecodeBytes(encoded, &decoded)
	require.Equal(t, ErrDuplicateNamedKey, errors.Cause(err))
	require.Nil(t, decoded, "a rejected registry should not be assigned")

	encoded, err = rlp.EncodeToBytes(NamedKeys{"count": NewURefKey(address(1)), "other": NewURefKey(address(2))})
	require.NoError(t, err)
	require.NoError(t, rlp.DecodeBytes(encoded, &decoded))
	require.Equal(t, []string{"count", "other"}, decoded.Names())
}

func TestEntryPoints_RejectsDuplicateNames(t *testing.T) {
	entryPoints := NewEntryPoints()
	require.NoError(t, entryPoints.AddEntryPoint(NewEntryPoint("increment_count", nil, CL_TYPE_UNIT, ENTRY_POINT_ACCESS_PUBLIC, ENTRY_POINT_TYPE_CONTRACT)))

	err := entryPoints.AddEntryPoint(NewEntryPoint("increment_count", nil, CL_TYPE_U32, ENTRY_POINT_ACCESS_PUBLIC, ENTRY_POINT_TYPE_CONTRACT))
	require.Equal(t, ErrDuplicateEntryPoint, errors.Cause(err))
	require.Equal(t, 1, entryPoints.Len())

	entryPoint, found := entryPoints.Get("increment_count")
	require.True(t, found)
	require.Equal(t, CL_TYPE_UNIT, entryPoint.Ret, "the first registration wins")
}

func TestApiError_UserErrorsAreOffset(t *testing.T) {
	require.EqualValues(t, 65536, UserError(0))
	require.EqualValues(t, 65537, UserError(1))
	require.True(t, UserError(1).IsUserError())
	require.False(t, API_ERROR_MISSING_KEY.IsUserError())
	require.Equal(t, "user error 1", UserError(1).Error())
}

func TestApiErrorOf_FindsCodeInWrappedChain(t *testing.T) {
	err := errors.Wrap(errors.Wrap(API_ERROR_MISSING_KEY, "inner"), "outer")

	code, ok := ApiErrorOf(err)
	require.True(t, ok)
	require.Equal(t, API_ERROR_MISSING_KEY, code)

	_, ok = ApiErrorOf(errors.New("host fault"))
	require.False(t, ok)
}

func TestStoredValue_EncodeDecodeContract(t *testing.T) {
	entryPoints := NewEntryPoints()
	require.NoError(t, entryPoints.AddEntryPoint(NewEntryPoint("increment_count", nil, CL_TYPE_UNIT, ENTRY_POINT_ACCESS_PUBLIC, ENTRY_POINT_TYPE_CONTRACT)))
	require.NoError(t, entryPoints.AddEntryPoint(NewEntryPoint("set", []Parameter{{Name: "value", Type: CL_TYPE_U32}}, CL_TYPE_UNIT, ENTRY_POINT_ACCESS_RESTRICTED, ENTRY_POINT_TYPE_CONTRACT)))
	namedKeys := NewNamedKeys()
	namedKeys.Insert("count_key", NewURefKey(address(7)))

	encoded, err := StoredContract(&Contract{
		PackageHash: primitives.Keccak256(address(5)),
		ProgramName: "counter",
		Version:     1,
		EntryPoints: entryPoints,
		NamedKeys:   namedKeys,
	}).Encode()
	require.NoError(t, err)

	decoded, err := DecodeStoredValue(encoded)
	require.NoError(t, err)
	contract, ok := decoded.AsContract()
	require.True(t, ok)

	require.Equal(t, "counter", contract.ProgramName)
	require.EqualValues(t, 1, contract.Version)
	require.True(t, contract.PackageHash.Equal(address(5)))
	require.Equal(t, []string{"increment_count", "set"}, contract.EntryPoints.Names())
	set, _ := contract.EntryPoints.Get("set")
	require.Equal(t, []Parameter{{Name: "value", Type: CL_TYPE_U32}}, set.Args)
	require.Equal(t, ENTRY_POINT_ACCESS_RESTRICTED, set.Access)
	countKey, found := contract.NamedKeys.Get("count_key")
	require.True(t, found)
	require.True(t, countKey.Equal(NewURefKey(address(7))))
}

func TestStoredValue_EncodingIsDeterministic(t *testing.T) {
	first := NewNamedKeys()
	second := NewNamedKeys()
	for _, name := range []string{"x", "y", "z"} {
		first.Insert(name, NewURefKey(address(1)))
	}
	for _, name := range []string{"z", "x", "y"} {
		second.Insert(name, NewURefKey(address(1)))
	}

	a, err := StoredAccount(&Account{AccountHash: address(1), NamedKeys: first}).Encode()
	require.NoError(t, err)
	b, err := StoredAccount(&Account{AccountHash: address(1), NamedKeys: second}).Encode()
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestStoredValue_DecodeRejectsUnknownTag(t *testing.T) {
	_, err := DecodeStoredValue([]byte{0xc2, 0x09, 0x80})
	require.Error(t, err)

	_, err = DecodeStoredValue([]byte("garbage"))
	require.Error(t, err)
}

func TestContractPackage_LatestEnabledVersionSkipsDisabled(t *testing.T) {
	pkg := &ContractPackage{Name: "counter_package"}
	require.EqualValues(t, 1, pkg.AddVersion(address(1)))
	require.EqualValues(t, 2, pkg.AddVersion(address(2)))

	latest, found := pkg.LatestEnabledVersion()
	require.True(t, found)
	require.EqualValues(t, 2, latest.Version)

	pkg.Disabled = append(pkg.Disabled, 2)
	latest, found = pkg.LatestEnabledVersion()
	require.True(t, found)
	require.EqualValues(t, 1, latest.Version)

	pkg.Disabled = append(pkg.Disabled, 1)
	_, found = pkg.LatestEnabledVersion()
	require.False(t, found)
}
