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

const (
	VIRTUAL_CHAIN_ID = "VIRTUAL_CHAIN_ID"

	BLOCK_MAXIMUM_DEPLOYS   = "BLOCK_MAXIMUM_DEPLOYS"
	METRICS_REPORT_INTERVAL = "METRICS_REPORT_INTERVAL"

	DEPLOY_FUTURE_TIMESTAMP_GRACE = "DEPLOY_FUTURE_TIMESTAMP_GRACE"

	STATE_STORAGE_DATA_DIR = "STATE_STORAGE_DATA_DIR"

	LOGGER_FILE_TRUNCATION_INTERVAL = "LOGGER_FILE_TRUNCATION_INTERVAL"
	LOGGER_FULL_LOG                 = "LOGGER_FULL_LOG"
)

type config struct {
	kv map[string]NodeConfigValue
}

func emptyConfig() mutableNodeConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) mutableNodeConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetString(key string, value string) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) VirtualChainId() primitives.VirtualChainId {
	return primitives.VirtualChainId(c.kv[VIRTUAL_CHAIN_ID].Uint32Value)
}

func (c *config) BlockMaximumDeploys() uint32 {
	return c.kv[BLOCK_MAXIMUM_DEPLOYS].Uint32Value
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) DeployFutureTimestampGrace() time.Duration {
	return c.kv[DEPLOY_FUTURE_TIMESTAMP_GRACE].DurationValue
}

func (c *config) StateStorageDataDir() string {
	return c.kv[STATE_STORAGE_DATA_DIR].StringValue
}

func (c *config) LoggerFileTruncationInterval() time.Duration {
	return c.kv[LOGGER_FILE_TRUNCATION_INTERVAL].DurationValue
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}
