// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"testing"
)

// RequireCmpEqual compares with cmp, so values with an Equal method (CLValue, Key) are compared by it
// and a failure prints a structural diff.
func RequireCmpEqual(t testing.TB, expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	if diff := cmp.Diff(expected, actual); diff != "" {
		require.FailNow(t, "values differ (-expected +actual):\n"+diff, msgAndArgs...)
	}
}
