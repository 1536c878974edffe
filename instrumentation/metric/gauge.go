// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"github.com/orbs-network/scribe/log"
	"sync/atomic"
)

// Gauge is a point in time value, like the current block height or the number of stored keys.
// It is safe for concurrent use.
type Gauge struct {
	namedMetric
	value int64
}

type gaugeExport struct {
	Name  string
	Value int64
}

func (g *Gauge) Inc() {
	g.Add(1)
}

func (g *Gauge) Add(delta int64) {
	atomic.AddInt64(&g.value, delta)
}

// Update overwrites the value, for gauges that mirror a size computed elsewhere.
func (g *Gauge) Update(value int64) {
	atomic.StoreInt64(&g.value, value)
}

func (g *Gauge) Value() int64 {
	return atomic.LoadInt64(&g.value)
}

func (g *Gauge) Export() exportedMetric {
	return gaugeExport{Name: g.name, Value: g.Value()}
}

func (g *Gauge) String() string {
	return fmt.Sprintf("metric %s: %d\n", g.name, g.Value())
}

func (e gaugeExport) LogRow() []*log.Field {
	return []*log.Field{
		log.String("metric", e.Name),
		log.String("metric-type", "gauge"),
		log.Int64("gauge", e.Value),
	}
}
