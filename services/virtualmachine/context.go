// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package virtualmachine

import (
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"sync"
)

type executionContext struct {
	blockHeight    primitives.BlockHeight
	blockTimestamp primitives.TimestampNano
	deployHash     primitives.Sha256
	caller         primitives.Sha256

	programName string
	// nil while running session code in the caller's account
	contract     *types.Contract
	contractHash primitives.Keccak256

	generatedAddresses uint32

	transientState      *transientState
	batchTransientState *transientState
}

func (c *executionContext) isSession() bool {
	return c.contract == nil
}

func (c *executionContext) accountKey() types.Key {
	return types.NewAccountKey(c.caller)
}

// every address is derived from the deploy hash, so two deploys never collide
func (c *executionContext) nextGeneratedAddress() primitives.Keccak256 {
	address := digest.CalcGeneratedAddress(c.deployHash, c.generatedAddresses)
	c.generatedAddresses++
	return address
}

type executionContextProvider struct {
	mutex          sync.RWMutex
	activeContexts map[types.ExecutionContextId]*executionContext
	lastContextId  types.ExecutionContextId
}

func newExecutionContextProvider() *executionContextProvider {
	return &executionContextProvider{
		activeContexts: make(map[types.ExecutionContextId]*executionContext),
	}
}

func (cp *executionContextProvider) allocateExecutionContext(blockHeight primitives.BlockHeight, blockTimestamp primitives.TimestampNano, deployHash primitives.Sha256, caller primitives.Sha256) (types.ExecutionContextId, *executionContext) {
	cp.mutex.Lock()
	defer cp.mutex.Unlock()

	newContext := &executionContext{
		blockHeight:    blockHeight,
		blockTimestamp: blockTimestamp,
		deployHash:     deployHash,
		caller:         caller,
		transientState: newTransientState(),
	}

	// TODO: ids wrap around after 2^32 deploys on a long running node
	cp.lastContextId++
	cp.activeContexts[cp.lastContextId] = newContext
	return cp.lastContextId, newContext
}

func (cp *executionContextProvider) destroyExecutionContext(contextId types.ExecutionContextId) {
	cp.mutex.Lock()
	defer cp.mutex.Unlock()

	delete(cp.activeContexts, contextId)
}

func (cp *executionContextProvider) loadExecutionContext(contextId types.ExecutionContextId) *executionContext {
	cp.mutex.RLock()
	defer cp.mutex.RUnlock()

	return cp.activeContexts[contextId]
}
