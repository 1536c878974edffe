// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import "time"

const pollAttempts = 100
const pollInterval = 5 * time.Millisecond

// Eventually polls f until it holds, giving up after half a second
func Eventually(f func() bool) bool {
	for i := 0; i < pollAttempts; i++ {
		if f() {
			return true
		}
		time.Sleep(pollInterval)
	}
	return false
}

func Consistently(f func() bool) bool {
	for i := 0; i < pollAttempts/10; i++ {
		if !f() {
			return false
		}
		time.Sleep(pollInterval)
	}
	return true
}
