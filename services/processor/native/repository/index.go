// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package repository

import (
	"github.com/orbs-network/orbs-counter-go/services/processor/native/repository/Counter"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
)

func PrebuiltPrograms() map[string]*types.ProgramInfo {
	return map[string]*types.ProgramInfo{
		counter.PROGRAM.Name: &counter.PROGRAM,
		// add new prebuilt programs here
	}
}
