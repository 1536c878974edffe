// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"encoding/hex"
	"fmt"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"sort"
	"strings"
	"sync"
)

type metrics struct {
	numberOfKeys *metric.Gauge
	sizeInBytes  *metric.Gauge
}

// InMemoryStatePersistence keeps the global state in a map, it is lost when the process exits.
type InMemoryStatePersistence struct {
	metrics *metrics

	mu struct {
		sync.RWMutex
		state          adapter.ChainState
		blockHeight    primitives.BlockHeight
		blockTimestamp primitives.TimestampNano
	}
}

func NewStatePersistence(metricFactory metric.Factory) *InMemoryStatePersistence {
	sp := &InMemoryStatePersistence{
		metrics: &metrics{
			numberOfKeys: metricFactory.NewGauge("StateStoragePersistence.TotalNumberOfKeys.Count"),
			sizeInBytes:  metricFactory.NewGauge("StateStoragePersistence.TotalSize.Bytes"),
		},
	}
	sp.mu.state = adapter.ChainState{}
	return sp
}

func (sp *InMemoryStatePersistence) Write(height primitives.BlockHeight, ts primitives.TimestampNano, diff adapter.ChainState) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	for address, value := range diff {
		if adapter.IsZeroValue(value) {
			delete(sp.mu.state, address)
		} else {
			sp.mu.state[address] = append([]byte{}, value...)
		}
	}
	sp.mu.blockHeight = height
	sp.mu.blockTimestamp = ts

	totalBytes := 0
	for address, value := range sp.mu.state {
		totalBytes += len(address) + len(value)
	}
	sp.metrics.numberOfKeys.Update(int64(len(sp.mu.state)))
	sp.metrics.sizeInBytes.Update(int64(totalBytes))
	return nil
}

func (sp *InMemoryStatePersistence) Read(address string) ([]byte, bool, error) {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	value, found := sp.mu.state[address]
	return value, found, nil
}

func (sp *InMemoryStatePersistence) ReadMetadata() (primitives.BlockHeight, primitives.TimestampNano, error) {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	return sp.mu.blockHeight, sp.mu.blockTimestamp, nil
}

// Dump prints every address with its hex encoded value, sorted by address.
func (sp *InMemoryStatePersistence) Dump() string {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	addresses := make([]string, 0, len(sp.mu.state))
	for address := range sp.mu.state {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	var b strings.Builder
	fmt.Fprintf(&b, "block %d\n", sp.mu.blockHeight)
	for _, address := range addresses {
		fmt.Fprintf(&b, "%s = %s\n", address, hex.EncodeToString(sp.mu.state[address]))
	}
	return b.String()
}
