// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package statestorage

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/instrumentation/trace"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"sync"
	"time"
)

var LogTag = log.Service("state-storage")

// StateStorage is the committed global state: stored values addressed by Key.
type StateStorage interface {
	ReadStoredValue(ctx context.Context, key types.Key) (*types.StoredValue, bool, error)
	Query(ctx context.Context, base types.Key, path ...string) (*types.StoredValue, error)
	GetStateStorageBlockHeight(ctx context.Context) (primitives.BlockHeight, primitives.TimestampNano, error)
	CommitEffects(ctx context.Context, input *CommitEffectsInput) (*CommitEffectsOutput, error)
}

type CommitEffectsInput struct {
	BlockHeight    primitives.BlockHeight
	BlockTimestamp primitives.TimestampNano
	Effects        *types.Effects
}

type CommitEffectsOutput struct {
	NextDesiredBlockHeight primitives.BlockHeight
}

type metrics struct {
	commitTime       *metric.Histogram
	blockHeight      *metric.Gauge
	transformsPerSec *metric.Rate
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		commitTime:       m.NewLatency("StateStorage.CommitTime.Millis", 5*time.Second),
		blockHeight:      m.NewGauge("StateStorage.BlockHeight"),
		transformsPerSec: m.NewRate("StateStorage.TransformsPerSecond"),
	}
}

type service struct {
	config  config.StateStorageConfig
	logger  log.Logger
	metrics *metrics

	mutex   sync.RWMutex
	persist adapter.StatePersistence
}

func NewStateStorage(config config.StateStorageConfig, persistence adapter.StatePersistence, parentLogger log.Logger, metricFactory metric.Factory) StateStorage {
	s := &service{
		config:  config,
		logger:  parentLogger.WithTags(LogTag),
		metrics: newMetrics(metricFactory),
		persist: persistence,
	}

	if height, _, err := persistence.ReadMetadata(); err == nil {
		s.metrics.blockHeight.Update(int64(height))
	}

	return s
}

func (s *service) CommitEffects(ctx context.Context, input *CommitEffectsInput) (*CommitEffectsOutput, error) {
	logger := s.logger.WithTags(trace.LogFieldFrom(ctx))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	defer s.metrics.commitTime.RecordSince(start)

	currentHeight, _, err := s.persist.ReadMetadata()
	if err != nil {
		return nil, err
	}
	if currentHeight+1 != input.BlockHeight {
		logger.Info("trying to commit a block that is not the next one", logfields.BlockHeight(input.BlockHeight), log.Uint64("current-height", uint64(currentHeight)))
		return &CommitEffectsOutput{NextDesiredBlockHeight: currentHeight + 1}, nil
	}

	diff, err := s.applyEffects(input.Effects)
	if err != nil {
		return nil, errors.Wrapf(err, "block %d was not committed", input.BlockHeight)
	}

	if err := s.persist.Write(input.BlockHeight, input.BlockTimestamp, diff); err != nil {
		return nil, errors.Wrapf(err, "failed writing state of block %d", input.BlockHeight)
	}

	s.metrics.blockHeight.Update(int64(input.BlockHeight))
	s.metrics.transformsPerSec.Measure(int64(len(diff)))
	logger.Info("state storage committed block", logfields.BlockHeight(input.BlockHeight), log.Int("transforms", len(diff)))

	return &CommitEffectsOutput{NextDesiredBlockHeight: input.BlockHeight + 1}, nil
}

// every transform is resolved against committed state before anything is written; adds are applied here, by the host
func (s *service) applyEffects(effects *types.Effects) (adapter.ChainState, error) {
	diff := adapter.ChainState{}
	if effects == nil {
		return diff, nil
	}

	for _, transform := range effects.Transforms() {
		var current *types.StoredValue
		if transform.Kind != types.TRANSFORM_WRITE {
			value, found, err := s.readStoredValue(transform.Key)
			if err != nil {
				return nil, err
			}
			if found {
				current = value
			}
		}

		next, err := transform.ApplyTo(current)
		if err != nil {
			return nil, err
		}
		encoded, err := next.Encode()
		if err != nil {
			return nil, err
		}
		diff[transform.Key.String()] = encoded
	}

	return diff, nil
}

func (s *service) ReadStoredValue(ctx context.Context, key types.Key) (*types.StoredValue, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.readStoredValue(key)
}

func (s *service) readStoredValue(key types.Key) (*types.StoredValue, bool, error) {
	encoded, found, err := s.persist.Read(key.String())
	if err != nil || !found {
		return nil, false, err
	}

	value, err := types.DecodeStoredValue(encoded)
	if err != nil {
		return nil, false, errors.Wrapf(err, "stored value at %s is corrupt", key)
	}
	return value, true, nil
}

// Query reads base and then follows each name of path through the named keys of the value reached so far.
func (s *service) Query(ctx context.Context, base types.Key, path ...string) (*types.StoredValue, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	key := base
	value, found, err := s.readStoredValue(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(types.API_ERROR_VALUE_NOT_FOUND, "no value at %s", key)
	}

	for _, name := range path {
		namedKeys := value.NamedKeys()
		if namedKeys == nil {
			return nil, errors.Wrapf(types.API_ERROR_TYPE_MISMATCH, "value at %s has no named keys to resolve '%s'", key, name)
		}
		next, found := namedKeys.Get(name)
		if !found {
			return nil, errors.Wrapf(types.API_ERROR_MISSING_KEY, "'%s' not found in named keys of %s", name, key)
		}

		key = next
		value, found, err = s.readStoredValue(key)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Wrapf(types.API_ERROR_VALUE_NOT_FOUND, "no value at %s (reached through '%s')", key, name)
		}
	}

	return value, nil
}

func (s *service) GetStateStorageBlockHeight(ctx context.Context) (primitives.BlockHeight, primitives.TimestampNano, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.persist.ReadMetadata()
}
