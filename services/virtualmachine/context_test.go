// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestExecutionContextProvider_AllocatesDistinctContexts(t *testing.T) {
	cp := newExecutionContextProvider()

	id1, ec1 := cp.allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy1")), hash.CalcSha256([]byte("caller")))
	id2, ec2 := cp.allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy2")), hash.CalcSha256([]byte("caller")))

	require.NotEqual(t, id1, id2, "context ids should not repeat")
	require.Same(t, ec1, cp.loadExecutionContext(id1))
	require.Same(t, ec2, cp.loadExecutionContext(id2))
	require.True(t, ec1.isSession(), "a new context should run session code")

	cp.destroyExecutionContext(id1)
	require.Nil(t, cp.loadExecutionContext(id1), "destroyed context should not load")
	require.Same(t, ec2, cp.loadExecutionContext(id2), "other contexts should survive")
}

func TestExecutionContextProvider_IdsAreConsecutiveNumbers(t *testing.T) {
	cp := newExecutionContextProvider()
	caller := hash.CalcSha256([]byte("caller"))

	id1, _ := cp.allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy1")), caller)
	id2, _ := cp.allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy2")), caller)
	require.Equal(t, id1+1, id2, "ids should be handed out in order")

	seen := map[types.ExecutionContextId]bool{id1: true, id2: true}
	require.Len(t, seen, 2)
	require.Equal(t, id2, types.ExecutionContextId(types.Context(id2)), "a program context should carry the id unchanged")
}

func TestExecutionContext_GeneratedAddressesDependOnTheDeploy(t *testing.T) {
	cp := newExecutionContextProvider()
	caller := hash.CalcSha256([]byte("caller"))

	_, ec1 := cp.allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy1")), caller)
	_, ec2 := cp.allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy2")), caller)

	first := ec1.nextGeneratedAddress()
	second := ec1.nextGeneratedAddress()
	require.NotEqual(t, first, second, "addresses within a deploy should not repeat")
	require.NotEqual(t, first, ec2.nextGeneratedAddress(), "addresses of different deploys should not collide")

	_, again := cp.allocateExecutionContext(2, 0, hash.CalcSha256([]byte("deploy1")), caller)
	require.Equal(t, first, again.nextGeneratedAddress(), "addresses should be deterministic")
}

func TestExecutionContext_AccountKeyIsTheCaller(t *testing.T) {
	caller := primitives.Sha256(hash.CalcSha256([]byte("caller")))
	_, ec := newExecutionContextProvider().allocateExecutionContext(1, 0, hash.CalcSha256([]byte("deploy")), caller)

	accountHash, err := ec.accountKey().IntoAccountHash()
	require.NoError(t, err)
	require.Equal(t, caller, accountHash)
}
