// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/pkg/errors"
	"reflect"
	"runtime"
	"strings"
	"time"
)

func Validate(cfg NodeConfig) error {
	if cfg.VirtualChainId() == 0 {
		return errors.New("virtual chain id must be set")
	}
	if cfg.BlockMaximumDeploys() == 0 {
		return errors.New("block must be allowed to hold at least one deploy")
	}
	if err := requireNonNegative(cfg.DeployFutureTimestampGrace); err != nil {
		return err
	}
	if err := requireNonNegative(cfg.MetricsReportInterval); err != nil {
		return err
	}
	return requireNonNegative(cfg.LoggerFileTruncationInterval)
}

func requireNonNegative(d func() time.Duration) error {
	if d() < 0 {
		return errors.Errorf("%s must not be negative, got %s", funcName(d), d())
	}
	return nil
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
