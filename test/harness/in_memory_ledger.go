// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package harness

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/bootstrap"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/test"
	"github.com/orbs-network/orbs-counter-go/test/builders"
	"github.com/orbs-network/orbs-counter-go/test/crypto/keys"
	"github.com/orbs-network/orbs-counter-go/test/with"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/stretchr/testify/require"
	"testing"
)

type inMemoryLedgerBuilder struct {
	t             *testing.T
	numAccounts   int
	dataDir       string
	allowedErrors []string
}

// InMemoryLedger runs a test against a fresh ledger whose genesis holds the test accounts.
func InMemoryLedger(t *testing.T) *inMemoryLedgerBuilder {
	return &inMemoryLedgerBuilder{t: t, numAccounts: 2}
}

func (b *inMemoryLedgerBuilder) WithAccounts(numAccounts int) *inMemoryLedgerBuilder {
	b.numAccounts = numAccounts
	return b
}

// WithDataDir keeps state in a leveldb under dataDir instead of memory
func (b *inMemoryLedgerBuilder) WithDataDir(dataDir string) *inMemoryLedgerBuilder {
	b.dataDir = dataDir
	return b
}

func (b *inMemoryLedgerBuilder) AllowingErrors(patterns ...string) *inMemoryLedgerBuilder {
	b.allowedErrors = append(b.allowedErrors, patterns...)
	return b
}

func (b *inMemoryLedgerBuilder) Start(f func(ctx context.Context, ledger *LedgerDriver)) {
	with.Logging(b.t, func(h *with.LoggingHarness) {
		for _, pattern := range b.allowedErrors {
			h.AllowErrorsMatching(pattern)
		}

		test.WithContext(func(ctx context.Context) {
			cfg := config.ForLedgerTests(uint32(builders.DEFAULT_TEST_VIRTUAL_CHAIN_ID))
			if b.dataDir != "" {
				cfg.SetString(config.STATE_STORAGE_DATA_DIR, b.dataDir)
			}

			ledger, err := bootstrap.NewLedger(ctx, cfg, h.Logger, metric.NewRegistry())
			require.NoError(b.t, err, "ledger should start")
			defer ledger.Shutdown()

			publicKeys := make([]primitives.Ed25519PublicKey, b.numAccounts)
			for i := range publicKeys {
				publicKeys[i] = keys.Ed25519KeyPairForTests(i).PublicKey()
			}
			require.NoError(b.t, ledger.RunGenesis(ctx, publicKeys...), "genesis should be committed")

			f(ctx, &LedgerDriver{t: b.t, Ledger: ledger})
		})
	})
}

func AccountHashForTests(index int) primitives.Sha256 {
	accountHash, err := digest.CalcAccountHashOfEd25519PublicKey(keys.Ed25519KeyPairForTests(index).PublicKey())
	if err != nil {
		panic(err)
	}
	return accountHash
}
