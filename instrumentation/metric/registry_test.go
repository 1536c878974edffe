// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"github.com/orbs-network/orbs-counter-go/test/with"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func TestInMemoryRegistry_ExportAll(t *testing.T) {
	registry := NewRegistry()
	gauge := registry.NewGauge("hello")
	gauge.Add(1)

	gaugeValue := registry.ExportAll()["hello"].(gaugeExport)
	require.EqualValues(t, 1, gaugeValue.Value)
}

func TestInMemoryRegistry_LatencyIsExportedInMillis(t *testing.T) {
	registry := NewRegistry()
	latency := registry.NewLatency("Ledger.Commit.Time.Millis", 10*time.Second)
	latency.Record(20 * time.Millisecond)

	exported := registry.ExportAll()["Ledger.Commit.Time.Millis"].(histogramExport)
	require.EqualValues(t, 1, exported.Samples)
	require.InDelta(t, 20, exported.Max, 1)
}

func TestInMemoryRegistry_StringListsEveryMetric(t *testing.T) {
	registry := NewRegistry()
	registry.NewGauge("b-gauge").Update(2)
	registry.NewRate("a-rate")

	s := registry.String()
	require.True(t, strings.Index(s, "a-rate") < strings.Index(s, "b-gauge"), "rows should be sorted")
	require.Contains(t, s, "metric b-gauge: 2")
}

func TestInMemoryRegistry_PeriodicallyReportRotatesHistograms(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		registry := NewRegistry()
		latency := registry.NewLatency("rotated", time.Second)
		latency.Record(time.Millisecond)

		trigger := registry.PeriodicallyReport(context.Background(), time.Millisecond, harness.Logger)
		defer trigger.Stop()

		require.Eventually(t, func() bool {
			return trigger.TimesTriggered() > 0 && latency.Samples() == 0
		}, time.Second, time.Millisecond, "a report tick should rotate the current histogram window")
	})
}
