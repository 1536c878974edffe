// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/instrumentation"
	"github.com/orbs-network/orbs-counter-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/instrumentation/trace"
	"github.com/orbs-network/orbs-counter-go/services/processor/native"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/statestorage"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter/filesystem"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/orbs-counter-go/services/virtualmachine"
	"github.com/orbs-network/orbs-counter-go/synchronization"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"io"
	"sync"
	"time"
)

var LogTag = log.Service("ledger")

// ExecutionResult is a block that was executed on top of committed state but not committed yet.
type ExecutionResult struct {
	BlockHeight    primitives.BlockHeight
	BlockTimestamp primitives.TimestampNano
	Receipts       []*virtualmachine.Receipt
	Effects        *types.Effects
}

type Ledger struct {
	config         config.LedgerConfig
	logger         log.Logger
	stateStorage   statestorage.StateStorage
	virtualMachine virtualmachine.VirtualMachine

	persistence    adapter.StatePersistence
	metricReporter *synchronization.PeriodicalTrigger
	ctxCancel      context.CancelFunc

	// blocks are executed and committed one at a time
	blockMutex sync.Mutex
}

func NewLedger(parentCtx context.Context, cfg config.LedgerConfig, parentLogger log.Logger, metricRegistry metric.Registry) (*Ledger, error) {
	logger := parentLogger.WithTags(LogTag, logfields.VirtualChainId(cfg.VirtualChainId()))

	persistence, err := newStatePersistence(cfg, metricRegistry)
	if err != nil {
		return nil, err
	}

	stateStorage := statestorage.NewStateStorage(cfg, persistence, logger, metricRegistry)
	processor := native.NewNativeProcessor(native.NewPrebuiltRepository(), cfg, logger, metricRegistry)
	virtualMachine := virtualmachine.NewVirtualMachine(cfg, stateStorage, processor, logger, metricRegistry)

	ctx, cancel := context.WithCancel(parentCtx)
	l := &Ledger{
		config:         cfg,
		logger:         logger,
		stateStorage:   stateStorage,
		virtualMachine: virtualMachine,
		persistence:    persistence,
		ctxCancel:      cancel,
	}

	if cfg.MetricsReportInterval() > 0 {
		l.metricReporter = metricRegistry.PeriodicallyReport(ctx, cfg.MetricsReportInterval(), logger)
	}

	return l, nil
}

// an empty data dir keeps state in memory only
func newStatePersistence(cfg config.StateStorageConfig, metricFactory metric.Factory) (adapter.StatePersistence, error) {
	if cfg.StateStorageDataDir() == "" {
		return memory.NewStatePersistence(metricFactory), nil
	}
	persistence, err := filesystem.NewStatePersistence(cfg.StateStorageDataDir(), metricFactory)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening state at %s", cfg.StateStorageDataDir())
	}
	return persistence, nil
}

func (l *Ledger) Shutdown() {
	l.ctxCancel()
	if l.metricReporter != nil {
		l.metricReporter.Stop()
	}
	if closer, ok := l.persistence.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			l.logger.Error("failed closing state persistence", log.Error(err))
		}
	}
}

func (l *Ledger) BlockHeight(ctx context.Context) (primitives.BlockHeight, error) {
	height, _, err := l.stateStorage.GetStateStorageBlockHeight(ctx)
	return height, err
}

// RunGenesis commits block 1 holding one account (with no named keys) for every public key.
func (l *Ledger) RunGenesis(ctx context.Context, publicKeys ...primitives.Ed25519PublicKey) error {
	l.blockMutex.Lock()
	defer l.blockMutex.Unlock()

	height, _, err := l.stateStorage.GetStateStorageBlockHeight(ctx)
	if err != nil {
		return err
	}
	if height != 0 {
		return errors.Errorf("genesis already committed, state is at block %d", height)
	}

	effects := types.NewEffects()
	for _, publicKey := range publicKeys {
		accountHash, err := digest.CalcAccountHashOfEd25519PublicKey(publicKey)
		if err != nil {
			return errors.Wrap(err, "invalid genesis account")
		}
		account := &types.Account{
			AccountHash: accountHash,
			PublicKey:   publicKey,
			NamedKeys:   types.NewNamedKeys(),
		}
		if err := effects.Apply(types.NewWriteTransform(types.NewAccountKey(accountHash), types.StoredAccount(account))); err != nil {
			return err
		}
	}

	return l.commit(ctx, &ExecutionResult{
		BlockHeight:    1,
		BlockTimestamp: primitives.TimestampNano(time.Now().UnixNano()),
		Effects:        effects,
	})
}

// Execute runs deploys as the next block on top of committed state, nothing is committed.
func (l *Ledger) Execute(ctx context.Context, deploys ...*virtualmachine.Deploy) (*ExecutionResult, error) {
	l.blockMutex.Lock()
	defer l.blockMutex.Unlock()

	return l.execute(ctx, deploys)
}

// Commit refuses a result that was not executed on top of the current state.
func (l *Ledger) Commit(ctx context.Context, result *ExecutionResult) error {
	l.blockMutex.Lock()
	defer l.blockMutex.Unlock()

	return l.commit(ctx, result)
}

func (l *Ledger) ExecuteAndCommit(ctx context.Context, deploys ...*virtualmachine.Deploy) ([]*virtualmachine.Receipt, error) {
	l.blockMutex.Lock()
	defer l.blockMutex.Unlock()

	result, err := l.execute(ctx, deploys)
	if err != nil {
		return nil, err
	}
	if err := l.commit(ctx, result); err != nil {
		return nil, err
	}
	return result.Receipts, nil
}

func (l *Ledger) execute(ctx context.Context, deploys []*virtualmachine.Deploy) (*ExecutionResult, error) {
	height, _, err := l.stateStorage.GetStateStorageBlockHeight(ctx)
	if err != nil {
		return nil, err
	}

	ctx = trace.NewContext(ctx, "ExecuteBlock")
	blockHeight := height + 1
	blockTimestamp := primitives.TimestampNano(time.Now().UnixNano())

	out, err := l.virtualMachine.ProcessDeploySet(ctx, &virtualmachine.ProcessDeploySetInput{
		BlockHeight:    blockHeight,
		BlockTimestamp: blockTimestamp,
		Deploys:        deploys,
	})
	if err != nil {
		return nil, err
	}

	return &ExecutionResult{
		BlockHeight:    blockHeight,
		BlockTimestamp: blockTimestamp,
		Receipts:       out.Receipts,
		Effects:        out.Effects,
	}, nil
}

func (l *Ledger) commit(ctx context.Context, result *ExecutionResult) error {
	height, _, err := l.stateStorage.GetStateStorageBlockHeight(ctx)
	if err != nil {
		return err
	}
	if result.BlockHeight != height+1 {
		return errors.Errorf("block %d is stale, state is at block %d", result.BlockHeight, height)
	}

	out, err := l.stateStorage.CommitEffects(ctx, &statestorage.CommitEffectsInput{
		BlockHeight:    result.BlockHeight,
		BlockTimestamp: result.BlockTimestamp,
		Effects:        result.Effects,
	})
	if err != nil {
		return err
	}
	if out.NextDesiredBlockHeight != result.BlockHeight+1 {
		return errors.Errorf("block %d was not committed, state expects block %d", result.BlockHeight, out.NextDesiredBlockHeight)
	}

	l.logger.Info("committed block", instrumentation.CommitLogTag, trace.LogFieldFrom(ctx), logfields.BlockHeight(result.BlockHeight), log.Int("deploys", len(result.Receipts)))
	return nil
}
