// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

// ExecutionContextId is issued by the host for every call it hands to a program.
type ExecutionContextId uint32

// Context identifies the execution context a program entry point runs in. Programs keep no
// state of their own, everything is reached through SDK calls carrying this id.
type Context ExecutionContextId
