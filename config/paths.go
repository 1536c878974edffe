// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"path/filepath"
	"runtime"
)

// DefaultStateDataDir is where a node keeps its leveldb state when no config file overrides it.
// It sits under _tmp in the source tree so local runs never write outside the checkout.
func DefaultStateDataDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	sourceRoot := filepath.Dir(filepath.Dir(thisFile))
	return filepath.Join(sourceRoot, "_tmp", "counter-state")
}
