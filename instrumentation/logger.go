// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package instrumentation

import (
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/scribe/log"
	"os"
)

// log lines carrying this field pass the filter even when full logging is off
var CommitLogTag = log.String("flow", "commit")

const bootstrapLogPath = "./counter-node-bootstrap.log"

// GetBootstrapCrashLogger is used before the config is read, it writes human readable lines to stderr and a local file.
func GetBootstrapCrashLogger() log.Logger {
	fileWriter := log.NewTruncatingFileWriter(mustOpenForAppend(bootstrapLogPath))

	return log.GetLogger(log.Node("counter-node")).WithOutput(
		log.NewFormattingOutput(fileWriter, log.NewHumanReadableFormatter()),
		log.NewFormattingOutput(os.Stderr, log.NewHumanReadableFormatter()),
	)
}

// GetLogger writes json lines to stdout unless silent, and to path when one is given.
// Unless the config asks for full logs only errors and commit lines are kept.
func GetLogger(path string, silent bool, cfg config.LoggerConfig) log.Logger {
	var outputs []log.Output
	if !silent {
		outputs = append(outputs, log.NewFormattingOutput(os.Stdout, log.NewJsonFormatter()))
	}
	if path != "" {
		fileWriter := log.NewTruncatingFileWriter(mustOpenForAppend(path), cfg.LoggerFileTruncationInterval())
		outputs = append(outputs, log.NewFormattingOutput(fileWriter, log.NewJsonFormatter()))
	}

	filter := log.NewConditionalFilter(false, nil)
	if !cfg.LoggerFullLog() {
		filter = log.NewConditionalFilter(true, log.Or(log.OnlyErrors(), log.MatchField(CommitLogTag)))
	}

	return log.GetLogger(log.Node("counter-node")).WithOutput(outputs...).WithFilters(filter)
}

func mustOpenForAppend(path string) *os.File {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		panic(err)
	}
	return file
}
