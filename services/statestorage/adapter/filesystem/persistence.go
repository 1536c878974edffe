// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package filesystem

import (
	"github.com/orbs-network/membuffers/go"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"sync"
	"time"
)

const (
	STATE_PREFIX         = "state/"
	LAST_BLOCK_HEIGHT    = "meta/height"
	LAST_BLOCK_TIMESTAMP = "meta/timestamp"
)

type metrics struct {
	numberOfKeys *metric.Gauge
	writeTime    *metric.Histogram
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		numberOfKeys: m.NewGauge("StateStoragePersistence.TotalNumberOfKeys.Count"),
		writeTime:    m.NewLatency("StateStoragePersistence.WriteTime.Millis", 5*time.Second),
	}
}

type LevelDbStatePersistence struct {
	sync.RWMutex
	db      *leveldb.DB
	metrics *metrics
}

func NewStatePersistence(dataDir string, metricFactory metric.Factory) (*LevelDbStatePersistence, error) {
	db, err := leveldb.OpenFile(dataDir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening state database at %s", dataDir)
	}

	sp := &LevelDbStatePersistence{
		db:      db,
		metrics: newMetrics(metricFactory),
	}
	sp.metrics.numberOfKeys.Update(int64(sp.countKeys()))
	return sp, nil
}

func (sp *LevelDbStatePersistence) Close() error {
	return sp.db.Close()
}

// a block is written in a single batch so a crash never leaves half a block on disk
func (sp *LevelDbStatePersistence) Write(height primitives.BlockHeight, ts primitives.TimestampNano, diff adapter.ChainState) error {
	sp.Lock()
	defer sp.Unlock()

	start := time.Now()
	defer sp.metrics.writeTime.RecordSince(start)

	batch := new(leveldb.Batch)
	for key, value := range diff {
		if adapter.IsZeroValue(value) {
			batch.Delete([]byte(STATE_PREFIX + key))
		} else {
			batch.Put([]byte(STATE_PREFIX+key), value)
		}
	}
	batch.Put([]byte(LAST_BLOCK_HEIGHT), encodeUint64(uint64(height)))
	batch.Put([]byte(LAST_BLOCK_TIMESTAMP), encodeUint64(uint64(ts)))

	if err := sp.db.Write(batch, nil); err != nil {
		return errors.Wrapf(err, "failed writing state of block %d", height)
	}

	sp.metrics.numberOfKeys.Update(int64(sp.countKeys()))
	return nil
}

func (sp *LevelDbStatePersistence) Read(key string) ([]byte, bool, error) {
	sp.RLock()
	defer sp.RUnlock()

	value, err := sp.db.Get([]byte(STATE_PREFIX+key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed reading state key %s", key)
	}
	return value, true, nil
}

func (sp *LevelDbStatePersistence) ReadMetadata() (primitives.BlockHeight, primitives.TimestampNano, error) {
	sp.RLock()
	defer sp.RUnlock()

	height, err := sp.readUint64(LAST_BLOCK_HEIGHT)
	if err != nil {
		return 0, 0, err
	}
	ts, err := sp.readUint64(LAST_BLOCK_TIMESTAMP)
	if err != nil {
		return 0, 0, err
	}
	return primitives.BlockHeight(height), primitives.TimestampNano(ts), nil
}

// missing metadata means an empty database at height 0
func (sp *LevelDbStatePersistence) readUint64(key string) (uint64, error) {
	value, err := sp.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed reading %s", key)
	}
	if len(value) != 8 {
		return 0, errors.Errorf("corrupt %s record of %d bytes", key, len(value))
	}
	return membuffers.GetUint64(value), nil
}

func (sp *LevelDbStatePersistence) countKeys() int {
	iter := sp.db.NewIterator(util.BytesPrefix([]byte(STATE_PREFIX)), nil)
	defer iter.Release()

	count := 0
	for iter.Next() {
		count++
	}
	return count
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	membuffers.WriteUint64(b, v)
	return b
}
