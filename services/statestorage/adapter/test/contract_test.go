// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter/filesystem"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter/memory"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"testing"
)

func withEachAdapter(t *testing.T, testFunc func(t *testing.T, persistence adapter.StatePersistence)) {
	t.Run("LevelDb Persistence", func(t *testing.T) {
		dir := newTempDir(t)
		defer os.RemoveAll(dir)

		persistence, err := filesystem.NewStatePersistence(dir, metric.NewRegistry())
		require.NoError(t, err)
		defer persistence.Close()

		testFunc(t, persistence)
	})

	t.Run("In-Memory Persistence", func(t *testing.T) {
		testFunc(t, memory.NewStatePersistence(metric.NewRegistry()))
	})
}

func newTempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "contract_test_state_persist")
	require.NoError(t, err)
	return dir
}

func TestStatePersistenceContract_EmptyStateIsAtHeightZero(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, persistence adapter.StatePersistence) {
		height, ts, err := persistence.ReadMetadata()
		require.NoError(t, err)
		require.EqualValues(t, 0, height)
		require.EqualValues(t, 0, ts)

		_, found, err := persistence.Read("uref-00")
		require.NoError(t, err)
		require.False(t, found)
	})
}

func TestStatePersistenceContract_WritesAndReadsBack(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, persistence adapter.StatePersistence) {
		err := persistence.Write(1, 1000, adapter.ChainState{"uref-01": []byte("v1"), "uref-02": []byte("v2")})
		require.NoError(t, err)

		value, found, err := persistence.Read("uref-01")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("v1"), value)

		height, ts, err := persistence.ReadMetadata()
		require.NoError(t, err)
		require.EqualValues(t, 1, height)
		require.EqualValues(t, 1000, ts)
	})
}

func TestStatePersistenceContract_LaterWritesOverrideAndZeroValuesRemove(t *testing.T) {
	withEachAdapter(t, func(t *testing.T, persistence adapter.StatePersistence) {
		require.NoError(t, persistence.Write(1, 1000, adapter.ChainState{"uref-01": []byte("v1"), "uref-02": []byte("v2")}))
		require.NoError(t, persistence.Write(2, 2000, adapter.ChainState{"uref-01": []byte("v3"), "uref-02": []byte{}}))

		value, found, err := persistence.Read("uref-01")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("v3"), value)

		_, found, err = persistence.Read("uref-02")
		require.NoError(t, err)
		require.False(t, found, "writing a zero value should remove the key")
	})
}

func TestLevelDbPersistence_StateSurvivesReopen(t *testing.T) {
	dir := newTempDir(t)
	defer os.RemoveAll(dir)

	persistence, err := filesystem.NewStatePersistence(dir, metric.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, persistence.Write(7, 7000, adapter.ChainState{"uref-01": []byte("v1")}))
	require.NoError(t, persistence.Close())

	reopened, err := filesystem.NewStatePersistence(dir, metric.NewRegistry())
	require.NoError(t, err)
	defer reopened.Close()

	height, ts, err := reopened.ReadMetadata()
	require.NoError(t, err)
	require.EqualValues(t, 7, height)
	require.EqualValues(t, 7000, ts)

	value, found, err := reopened.Read("uref-01")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("v1"), value)
}

func TestInMemoryPersistence_DumpIsSortedByKey(t *testing.T) {
	persistence := memory.NewStatePersistence(metric.NewRegistry())
	require.NoError(t, persistence.Write(1, 0, adapter.ChainState{"uref-02": []byte{0x02}, "uref-01": []byte{0x01}}))

	require.Equal(t, "block 1\nuref-01 = 01\nuref-02 = 02\n", persistence.Dump())
}
