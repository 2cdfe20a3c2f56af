// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/logging"
)

func TestPollerStartsFromPersisted(t *testing.T) {
	require := require.New(t)

	store := NewStore(logging.NoLog{}, filepath.Join(t.TempDir(), "cups"))
	persisted := newSignedCUP(7, 2)
	_, err := store.Persist(persisted)
	require.NoError(err)

	var (
		ctx, cancel = context.WithCancel(context.Background())
		subnetID    = ids.GenerateTestID()
		latest      = &Latest{}
		locals      []*cup.CatchUpPackage
	)
	defer cancel()

	poller := NewPoller(
		logging.NoLog{},
		reconcilerFunc(func(_ context.Context, local *cup.CatchUpPackage, got ids.ID) (*cup.CatchUpPackage, error) {
			require.Equal(subnetID, got)
			locals = append(locals, local)
			next := newSignedCUP(local.Height+1, 2)
			if len(locals) == 3 {
				cancel()
			}
			return next, nil
		}),
		store,
		subnetID,
		time.Millisecond,
		latest,
	)
	require.NoError(poller.Run(ctx))

	require.Len(locals, 3)
	require.Equal(persisted.Bytes(), locals[0].Bytes())
	require.Equal(uint64(8), locals[1].Height)
	require.Equal(uint64(9), locals[2].Height)
	require.Equal(uint64(10), latest.Load().Height)
}

func TestPollerStartsEmpty(t *testing.T) {
	require := require.New(t)

	var (
		ctx, cancel = context.WithCancel(context.Background())
		latest      = &Latest{}
		selected    = newUnsignedCUP(0, 1)
	)
	defer cancel()

	poller := NewPoller(
		logging.NoLog{},
		reconcilerFunc(func(_ context.Context, local *cup.CatchUpPackage, _ ids.ID) (*cup.CatchUpPackage, error) {
			require.Nil(local)
			cancel()
			return selected, nil
		}),
		NewStore(logging.NoLog{}, t.TempDir()),
		ids.GenerateTestID(),
		time.Hour,
		latest,
	)
	require.NoError(poller.Run(ctx))
	require.Equal(selected, latest.Load())
}

func TestPollerReturnsFatalError(t *testing.T) {
	require := require.New(t)

	latest := &Latest{}
	poller := NewPoller(
		logging.NoLog{},
		reconcilerFunc(func(context.Context, *cup.CatchUpPackage, ids.ID) (*cup.CatchUpPackage, error) {
			return nil, ErrNoCUP
		}),
		NewStore(logging.NoLog{}, t.TempDir()),
		ids.GenerateTestID(),
		time.Millisecond,
		latest,
	)
	err := poller.Run(context.Background())
	require.ErrorIs(err, ErrNoCUP)
	require.Nil(latest.Load())
}

func TestPollerIgnoresErrorAfterCancel(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(
		logging.NoLog{},
		reconcilerFunc(func(context.Context, *cup.CatchUpPackage, ids.ID) (*cup.CatchUpPackage, error) {
			cancel()
			return nil, errors.New("interrupted")
		}),
		NewStore(logging.NoLog{}, t.TempDir()),
		ids.GenerateTestID(),
		time.Millisecond,
		&Latest{},
	)
	require.NoError(poller.Run(ctx))
}

func TestLatestHealthCheck(t *testing.T) {
	require := require.New(t)

	latest := &Latest{}
	_, err := latest.HealthCheck(context.Background())
	require.ErrorIs(err, errNoCUPAccepted)

	pkg := newSignedCUP(3, 1)
	latest.Store(pkg)
	details, err := latest.HealthCheck(context.Background())
	require.NoError(err)
	require.Equal(map[string]interface{}{
		"id":              pkg.ID(),
		"height":          uint64(3),
		"registryVersion": uint64(1),
		"signed":          true,
	}, details)
}

func TestPollerHealthCheck(t *testing.T) {
	require := require.New(t)

	poller := NewPoller(
		logging.NoLog{},
		reconcilerFunc(func(context.Context, *cup.CatchUpPackage, ids.ID) (*cup.CatchUpPackage, error) {
			return newUnsignedCUP(0, 1), nil
		}),
		NewStore(logging.NoLog{}, t.TempDir()),
		ids.GenerateTestID(),
		time.Minute,
		&Latest{},
	)

	_, err := poller.HealthCheck(context.Background())
	require.ErrorIs(err, errReconciliationLag)

	require.NoError(poller.reconcile(context.Background()))
	_, err = poller.HealthCheck(context.Background())
	require.NoError(err)

	poller.lastSuccess.Store(time.Now().Add(-livenessPeriods * time.Minute).Add(-time.Second).UnixNano())
	_, err = poller.HealthCheck(context.Background())
	require.ErrorIs(err, errReconciliationLag)
}
