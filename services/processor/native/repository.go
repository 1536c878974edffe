// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package native

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/repository"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
)

// Repository resolves an artifact name to the program the host loads; nil when unknown.
type Repository interface {
	ProgramInfo(ctx context.Context, programName string) (*types.ProgramInfo, error)
}

type PrebuiltRepository struct {
	programs map[string]*types.ProgramInfo
}

func NewPrebuiltRepository() *PrebuiltRepository {
	return &PrebuiltRepository{programs: repository.PrebuiltPrograms()}
}

func (r *PrebuiltRepository) ProgramInfo(ctx context.Context, programName string) (*types.ProgramInfo, error) {
	return r.programs[programName], nil
}

type CompositeRepository struct {
	Nested []Repository
}

func (c *CompositeRepository) ProgramInfo(ctx context.Context, programName string) (*types.ProgramInfo, error) {
	for _, repo := range c.Nested {
		programInfo, err := repo.ProgramInfo(ctx, programName)
		if err != nil {
			return nil, err
		}
		if programInfo != nil {
			return programInfo, nil
		}
	}

	return nil, nil
}
