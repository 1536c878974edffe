// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package statestorage

import (
	"context"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-counter-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/orbs-counter-go/test"
	"github.com/orbs-network/orbs-counter-go/test/with"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func address(b byte) []byte {
	res := make([]byte, 32)
	for i := range res {
		res[i] = b
	}
	return res
}

type driver struct {
	service     StateStorage
	persistence *memory.InMemoryStatePersistence
}

func newDriver(logger log.Logger) *driver {
	persistence := memory.NewStatePersistence(metric.NewRegistry())
	return &driver{
		service:     NewStateStorage(config.ForStateStorageTests(""), persistence, logger, metric.NewRegistry()),
		persistence: persistence,
	}
}

func (d *driver) commit(ctx context.Context, t *testing.T, height primitives.BlockHeight, transforms ...*types.Transform) *CommitEffectsOutput {
	effects := types.NewEffects()
	for _, transform := range transforms {
		require.NoError(t, effects.Apply(transform))
	}
	out, err := d.service.CommitEffects(ctx, &CommitEffectsInput{BlockHeight: height, BlockTimestamp: primitives.TimestampNano(height * 1000), Effects: effects})
	require.NoError(t, err)
	return out
}

func (d *driver) readCell(ctx context.Context, t *testing.T, key types.Key) *types.CLValue {
	value, found, err := d.service.ReadStoredValue(ctx, key)
	require.NoError(t, err)
	require.True(t, found, "expected a value at %s", key)
	clValue, ok := value.AsCLValue()
	require.True(t, ok, "expected a cell at %s", key)
	return clValue
}

func addTransform(t *testing.T, key types.Key, delta *types.CLValue) *types.Transform {
	transform, err := types.NewAddTransform(key, delta)
	require.NoError(t, err)
	return transform
}

func TestCommitEffects_WritesThenAddsOnCommittedValue(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			d := newDriver(harness.Logger)
			cell := types.NewURefKey(address(1))

			out := d.commit(ctx, t, 1, types.NewWriteTransform(cell, types.StoredCLValue(types.CLValueUint32(0))))
			require.EqualValues(t, 2, out.NextDesiredBlockHeight)

			d.commit(ctx, t, 2, addTransform(t, cell, types.CLValueUint32(1)))
			d.commit(ctx, t, 3, addTransform(t, cell, types.CLValueUint32(2)))

			test.RequireCmpEqual(t, types.CLValueUint32(3), d.readCell(ctx, t, cell))

			height, ts, err := d.service.GetStateStorageBlockHeight(ctx)
			require.NoError(t, err)
			require.EqualValues(t, 3, height)
			require.EqualValues(t, 3000, ts)
		})
	})
}

func TestCommitEffects_IgnoresBlocksOutOfOrder(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			d := newDriver(harness.Logger)
			cell := types.NewURefKey(address(1))

			d.commit(ctx, t, 1, types.NewWriteTransform(cell, types.StoredCLValue(types.CLValueUint32(5))))

			out := d.commit(ctx, t, 3, types.NewWriteTransform(cell, types.StoredCLValue(types.CLValueUint32(7))))
			require.EqualValues(t, 2, out.NextDesiredBlockHeight, "unexpected NextDesiredBlockHeight")

			out = d.commit(ctx, t, 1, types.NewWriteTransform(cell, types.StoredCLValue(types.CLValueUint32(9))))
			require.EqualValues(t, 2, out.NextDesiredBlockHeight, "unexpected NextDesiredBlockHeight")

			test.RequireCmpEqual(t, types.CLValueUint32(5), d.readCell(ctx, t, cell))
		})
	})
}

func TestCommitEffects_FailedAddAbortsTheWholeBlock(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			d := newDriver(harness.Logger)
			cell := types.NewURefKey(address(1))
			text := types.NewURefKey(address(2))

			d.commit(ctx, t, 1,
				types.NewWriteTransform(cell, types.StoredCLValue(types.CLValueUint32(1))),
				types.NewWriteTransform(text, types.StoredCLValue(types.CLValueString("not a number"))),
			)

			effects := types.NewEffects()
			require.NoError(t, effects.Apply(addTransform(t, cell, types.CLValueUint32(1))))
			require.NoError(t, effects.Apply(addTransform(t, text, types.CLValueUint32(1))))
			_, err := d.service.CommitEffects(ctx, &CommitEffectsInput{BlockHeight: 2, Effects: effects})
			require.Error(t, err)
			code, _ := types.ApiErrorOf(err)
			require.Equal(t, types.API_ERROR_TYPE_MISMATCH, code)

			test.RequireCmpEqual(t, types.CLValueUint32(1), d.readCell(ctx, t, cell), "no part of a failed block is written")
			height, _, err := d.service.GetStateStorageBlockHeight(ctx)
			require.NoError(t, err)
			require.EqualValues(t, 1, height)
		})
	})
}

func TestCommitEffects_AddOnMissingValueFails(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			d := newDriver(harness.Logger)

			effects := types.NewEffects()
			require.NoError(t, effects.Apply(addTransform(t, types.NewURefKey(address(1)), types.CLValueUint32(1))))
			_, err := d.service.CommitEffects(ctx, &CommitEffectsInput{BlockHeight: 1, Effects: effects})

			code, _ := types.ApiErrorOf(err)
			require.Equal(t, types.API_ERROR_VALUE_NOT_FOUND, code)
		})
	})
}

func TestQuery_FollowsNamedKeys(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			d := newDriver(harness.Logger)
			accountKey := types.NewAccountKey(address(1))
			contractKey := types.NewHashKey(address(2))
			cell := types.NewURefKey(address(3))

			accountKeys := types.NewNamedKeys()
			accountKeys.Insert("counter_contract_hash", contractKey)
			contractKeys := types.NewNamedKeys()
			contractKeys.Insert("count_key", cell)

			d.commit(ctx, t, 1,
				types.NewWriteTransform(accountKey, types.StoredAccount(&types.Account{AccountHash: address(1), NamedKeys: accountKeys})),
				types.NewWriteTransform(contractKey, types.StoredContract(&types.Contract{ProgramName: "counter", Version: 1, EntryPoints: types.NewEntryPoints(), NamedKeys: contractKeys})),
				types.NewWriteTransform(cell, types.StoredCLValue(types.CLValueUint32(4))),
			)

			value, err := d.service.Query(ctx, accountKey, "counter_contract_hash", "count_key")
			require.NoError(t, err)
			clValue, ok := value.AsCLValue()
			require.True(t, ok)
			test.RequireCmpEqual(t, types.CLValueUint32(4), clValue)

			_, err = d.service.Query(ctx, accountKey, "missing")
			code, _ := types.ApiErrorOf(err)
			require.Equal(t, types.API_ERROR_MISSING_KEY, code)

			_, err = d.service.Query(ctx, accountKey, "counter_contract_hash", "count_key", "deeper")
			code, _ = types.ApiErrorOf(err)
			require.Equal(t, types.API_ERROR_TYPE_MISMATCH, code)

			_, err = d.service.Query(ctx, types.NewAccountKey(address(9)))
			code, _ = types.ApiErrorOf(err)
			require.Equal(t, types.API_ERROR_VALUE_NOT_FOUND, code)
		})
	})
}

type persistenceMock struct {
	mock.Mock
}

func (p *persistenceMock) Write(height primitives.BlockHeight, ts primitives.TimestampNano, diff adapter.ChainState) error {
	return p.Called(height, ts, diff).Error(0)
}

func (p *persistenceMock) Read(key string) ([]byte, bool, error) {
	ret := p.Called(key)
	if out := ret.Get(0); out != nil {
		return out.([]byte), ret.Bool(1), ret.Error(2)
	} else {
		return nil, ret.Bool(1), ret.Error(2)
	}
}

func (p *persistenceMock) ReadMetadata() (primitives.BlockHeight, primitives.TimestampNano, error) {
	ret := p.Called()
	return ret.Get(0).(primitives.BlockHeight), ret.Get(1).(primitives.TimestampNano), ret.Error(2)
}

func TestCommitEffects_ReportsPersistenceFailure(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		with.Logging(t, func(harness *with.LoggingHarness) {
			persistence := &persistenceMock{}
			persistence.When("ReadMetadata").Return(primitives.BlockHeight(4), primitives.TimestampNano(0), nil)
			persistence.When("Write", primitives.BlockHeight(5), mock.Any, mock.Any).Return(errors.New("disk full")).Times(1)

			service := NewStateStorage(config.ForStateStorageTests(""), persistence, harness.Logger, metric.NewRegistry())
			_, err := service.CommitEffects(ctx, &CommitEffectsInput{BlockHeight: 5, Effects: types.NewEffects()})
			require.Error(t, err)

			_, err = persistence.Verify()
			require.NoError(t, err)
		})
	})
}
