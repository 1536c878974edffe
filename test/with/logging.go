// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package with

import (
	"github.com/orbs-network/scribe/log"
	"testing"
)

// LoggingHarness collects log lines of a single test, any error logged that was not explicitly allowed fails it.
type LoggingHarness struct {
	Logger log.Logger
	T      testing.TB
	output *log.TestOutput
}

// AllowErrorsMatching is for tests that provoke failures on purpose, such as a deploy that must revert.
func (h *LoggingHarness) AllowErrorsMatching(pattern string) {
	h.output.AllowErrorsMatching(pattern)
}

func Logging(tb testing.TB, f func(harness *LoggingHarness)) {
	output := log.NewTestOutput(tb, log.NewHumanReadableFormatter())
	defer output.TestTerminated()

	f(&LoggingHarness{
		Logger: log.GetLogger(log.String("test", tb.Name())).WithOutput(output),
		T:      tb,
		output: output,
	})

	if output.HasErrors() {
		tb.Fatal("test logged unexpected errors")
	}
}
