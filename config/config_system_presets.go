// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

// all other configs are variations from the production one
func defaultProductionConfig() mutableNodeConfig {
	cfg := emptyConfig()

	cfg.SetUint32(VIRTUAL_CHAIN_ID, 42)

	// one deploy per block would be too slow for a demo, 100 keeps a block well under a second
	cfg.SetUint32(BLOCK_MAXIMUM_DEPLOYS, 100)

	// clock skew between the submitting client and the node
	cfg.SetDuration(DEPLOY_FUTURE_TIMESTAMP_GRACE, 1*time.Minute)

	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)

	cfg.SetString(STATE_STORAGE_DATA_DIR, DefaultStateDataDir())

	cfg.SetDuration(LOGGER_FILE_TRUNCATION_INTERVAL, 24*time.Hour)
	cfg.SetBool(LOGGER_FULL_LOG, false)

	return cfg
}

// config for a production node, an empty dataDir keeps the default
func ForProduction(dataDir string) mutableNodeConfig {
	cfg := defaultProductionConfig()

	if dataDir != "" {
		cfg.SetString(STATE_STORAGE_DATA_DIR, dataDir)
	}
	return cfg
}

// config for a node running on a developer machine, state is kept in memory
func ForDevelopment() mutableNodeConfig {
	cfg := defaultProductionConfig()

	cfg.SetString(STATE_STORAGE_DATA_DIR, "")
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 5*time.Second)
	cfg.SetBool(LOGGER_FULL_LOG, true)

	return cfg
}

// config for in-memory ledger tests, metric reporting is off
func ForLedgerTests(virtualChainId uint32) mutableNodeConfig {
	cfg := defaultProductionConfig()

	cfg.SetUint32(VIRTUAL_CHAIN_ID, virtualChainId)
	cfg.SetString(STATE_STORAGE_DATA_DIR, "")
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 0)
	cfg.SetBool(LOGGER_FULL_LOG, true)

	return cfg
}
