// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"time"
)

func ForStateStorageTests(dataDir string) StateStorageConfig {
	cfg := emptyConfig()
	cfg.SetString(STATE_STORAGE_DATA_DIR, dataDir)
	return cfg
}

func ForNativeProcessorTests(id primitives.VirtualChainId) NativeProcessorConfig {
	cfg := emptyConfig()
	cfg.SetUint32(VIRTUAL_CHAIN_ID, uint32(id))
	return cfg
}

func ForVirtualMachineTests(id primitives.VirtualChainId, maximumDeploys uint32) VirtualMachineConfig {
	cfg := emptyConfig()
	cfg.SetUint32(VIRTUAL_CHAIN_ID, uint32(id))
	cfg.SetUint32(BLOCK_MAXIMUM_DEPLOYS, maximumDeploys)
	cfg.SetDuration(DEPLOY_FUTURE_TIMESTAMP_GRACE, 3*time.Minute)
	return cfg
}
