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

type NodeConfig interface {
	// shared
	VirtualChainId() primitives.VirtualChainId

	// ledger
	BlockMaximumDeploys() uint32
	MetricsReportInterval() time.Duration

	// virtual machine
	DeployFutureTimestampGrace() time.Duration

	// state storage
	StateStorageDataDir() string

	// logger
	LoggerFileTruncationInterval() time.Duration
	LoggerFullLog() bool
}

type mutableNodeConfig interface {
	NodeConfig
	Set(key string, value NodeConfigValue) mutableNodeConfig
	SetDuration(key string, value time.Duration) mutableNodeConfig
	SetUint32(key string, value uint32) mutableNodeConfig
	SetString(key string, value string) mutableNodeConfig
	SetBool(key string, value bool) mutableNodeConfig
	Modify(newValues ...NodeConfigKeyValue)
}

type StateStorageConfig interface {
	StateStorageDataDir() string
}

type NativeProcessorConfig interface {
	VirtualChainId() primitives.VirtualChainId
}

type VirtualMachineConfig interface {
	VirtualChainId() primitives.VirtualChainId
	BlockMaximumDeploys() uint32
	DeployFutureTimestampGrace() time.Duration
}

type LedgerConfig interface {
	VirtualMachineConfig
	StateStorageConfig
	MetricsReportInterval() time.Duration
}

type LoggerConfig interface {
	LoggerFileTruncationInterval() time.Duration
	LoggerFullLog() bool
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

type NodeConfigValue struct {
	Uint32Value   uint32
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}
