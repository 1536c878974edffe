// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package testkit

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"sync"
)

type ManualRepository struct {
	sync.Mutex
	programs map[string]*types.ProgramInfo
}

func NewRepository() *ManualRepository {
	return &ManualRepository{programs: make(map[string]*types.ProgramInfo)}
}

func (r *ManualRepository) ProgramInfo(ctx context.Context, programName string) (*types.ProgramInfo, error) {
	r.Lock()
	defer r.Unlock()
	return r.programs[programName], nil
}

func (r *ManualRepository) Register(programInfo *types.ProgramInfo) {
	r.Lock()
	defer r.Unlock()
	r.programs[programInfo.Name] = programInfo
}
