// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"context"
	"github.com/orbs-network/go-mock"
)

type MockSdkCallHandler struct {
	mock.Mock
}

func (h *MockSdkCallHandler) HandleSdkCall(ctx context.Context, input *SdkCallInput) (*SdkCallOutput, error) {
	ret := h.Called(ctx, input)
	if out := ret.Get(0); out != nil {
		return out.(*SdkCallOutput), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

type MockProcessor struct {
	mock.Mock
}

func (p *MockProcessor) ProcessCall(ctx context.Context, input *ProcessCallInput) (*ProcessCallOutput, error) {
	ret := p.Called(ctx, input)
	if out := ret.Get(0); out != nil {
		return out.(*ProcessCallOutput), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

func (p *MockProcessor) RegisterSdkCallHandler(handler SdkCallHandler) {
	p.Called(handler)
}
