// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/bootstrap"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/crypto/keys"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/test"
	"github.com/orbs-network/orbs-counter-go/test/with"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/stretchr/testify/require"
	"testing"
)

const virtualChainIdForTests = primitives.VirtualChainId(42)

func keyPairForTests(t *testing.T, seed string) *keys.Ed25519KeyPair {
	keyPair, err := keys.Ed25519KeyPairFromSeed(hash.CalcSha256([]byte(seed)))
	require.NoError(t, err)
	return keyPair
}

func newLedgerForTests(ctx context.Context, t *testing.T, harness *with.LoggingHarness) *bootstrap.Ledger {
	ledger, err := bootstrap.NewLedger(ctx, config.ForLedgerTests(uint32(virtualChainIdForTests)), harness.Logger, metric.NewRegistry())
	require.NoError(t, err)
	return ledger
}

func TestRun_InstallsOnceAndKeepsCounting(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			ledger := newLedgerForTests(ctx, t, harness)
			defer ledger.Shutdown()
			keyPair := keyPairForTests(t, "counter-node")

			count, err := run(ctx, ledger, virtualChainIdForTests, keyPair, 2)
			require.NoError(t, err)
			require.EqualValues(t, 2, count)

			height, err := ledger.BlockHeight(ctx)
			require.NoError(t, err)
			require.EqualValues(t, 4, height, "genesis, install and two increments should each commit a block")

			count, err = run(ctx, ledger, virtualChainIdForTests, keyPair, 3)
			require.NoError(t, err)
			require.EqualValues(t, 5, count, "a second run should reuse the installed counter")

			height, err = ledger.BlockHeight(ctx)
			require.NoError(t, err)
			require.EqualValues(t, 7, height, "a second run should not install again")
		})
	})
}

func TestRun_ZeroIncrementsReportsAFreshCounter(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			ledger := newLedgerForTests(ctx, t, harness)
			defer ledger.Shutdown()

			count, err := run(ctx, ledger, virtualChainIdForTests, keyPairForTests(t, "counter-node"), 0)
			require.NoError(t, err)
			require.Zero(t, count)
		})
	})
}

func TestRun_FailsForAnAccountOutsideTheLedger(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			ledger := newLedgerForTests(ctx, t, harness)
			defer ledger.Shutdown()
			require.NoError(t, ledger.RunGenesis(ctx, keyPairForTests(t, "someone-else").PublicKey()))

			_, err := run(ctx, ledger, virtualChainIdForTests, keyPairForTests(t, "counter-node"), 1)
			require.Error(t, err, "only genesis accounts can install")
		})
	})
}
