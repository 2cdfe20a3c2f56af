// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/registry"
	"github.com/ava-labs/orchestrator/thresholdsig"
	"github.com/ava-labs/orchestrator/utils/logging"
)

func persistCount(env *testEnv) int {
	r := env.reconciler.(*reconciler)
	return int(testutil.ToFloat64(r.metrics.persists))
}

// Local height 10 in the store, one peer offering a verified height 12.
func TestReconcileAdoptsNewerPeerCUP(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	local := newSignedCUP(10, 3)
	_, err := env.store.Persist(local)
	require.NoError(err)
	local = env.store.Load()
	require.NotNil(local)

	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	offered := newSignedCUP(12, 4)

	env.directory.EXPECT().GetLatestVersion().Return(uint64(4))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(4)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), &cup.Param{Height: 10, RegistryVersion: 3}).Return(offered.Bytes(), nil)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), offered.Signature, offered.ContentBytes(), env.subnetID, uint64(4)).Return(nil)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(4), env.subnetID).Return(newUnsignedCUP(0, 1), nil)

	got, err := env.reconciler.Reconcile(context.Background(), local, env.subnetID)
	require.NoError(err)
	require.Equal(uint64(12), got.Height)
	require.Equal(offered.Bytes(), got.Bytes())

	loaded := env.store.Load()
	require.NotNil(loaded)
	require.Equal(uint64(12), loaded.Height)
	require.Equal(offered.Bytes(), loaded.Bytes())
	require.Equal(1, persistCount(env))
}

// No local package, an unsigned registry package at height 0 and no peers.
func TestReconcileBootstrapsFromRegistry(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	registryCUP := newUnsignedCUP(0, 1)

	env.directory.EXPECT().GetLatestVersion().Return(uint64(1))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(1)).Return(nil, nil)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(1), env.subnetID).Return(registryCUP, nil)

	got, err := env.reconciler.Reconcile(context.Background(), nil, env.subnetID)
	require.NoError(err)
	require.Zero(got.Height)
	require.False(got.IsSigned())

	loaded := env.store.Load()
	require.NotNil(loaded)
	require.Equal(registryCUP.Bytes(), loaded.Bytes())
}

// A local package exists, the single sampled peer is unreachable and this
// node is not a member of the subnet.
func TestReconcileKeepsLocalWhenPeerUnreachable(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	local := newSignedCUP(10, 3)
	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)

	env.directory.EXPECT().GetLatestVersion().Return(uint64(3))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(3)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), local.Param()).Return(nil, errUnreachable)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(3), env.subnetID).Return(newUnsignedCUP(0, 1), nil)

	got, err := env.reconciler.Reconcile(context.Background(), local, env.subnetID)
	require.NoError(err)
	require.Same(local, got)

	// The local package was never written by this call.
	_, err = os.Stat(env.store.Path())
	require.ErrorIs(err, os.ErrNotExist)
	require.Zero(persistCount(env))
}

func TestReconcileNeverSelectsUnverifiedPeerCUP(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	local := newSignedCUP(10, 3)
	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	forged := newSignedCUP(1_000_000, 3)

	env.directory.EXPECT().GetLatestVersion().Return(uint64(3))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(3)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), local.Param()).Return(forged.Bytes(), nil)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), gomock.Any(), gomock.Any(), env.subnetID, uint64(3)).Return(thresholdsig.ErrInvalidSignature)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(3), env.subnetID).Return(nil, registry.ErrNoRegistryCUP)

	got, err := env.reconciler.Reconcile(context.Background(), local, env.subnetID)
	require.NoError(err)
	require.Same(local, got)
	require.Nil(env.store.Load())
}

// An unsigned package that remains the best candidate is rewritten on every
// call, even though its height did not change.
func TestReconcileRewritesUnsignedAtSameHeight(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	registryCUP := newUnsignedCUP(0, 1)
	env.directory.EXPECT().GetLatestVersion().Return(uint64(1)).Times(3)
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(1)).Return(nil, nil).Times(3)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(1), env.subnetID).Return(registryCUP, nil).Times(3)

	var local *cup.CatchUpPackage
	for i := 1; i <= 3; i++ {
		got, err := env.reconciler.Reconcile(context.Background(), local, env.subnetID)
		require.NoError(err)
		require.Equal(registryCUP.Bytes(), got.Bytes())

		onDisk, err := os.ReadFile(env.store.Path())
		require.NoError(err)
		require.Equal(registryCUP.Bytes(), onDisk)
		require.Equal(i, persistCount(env))

		// Remove the file so the next write is observable.
		require.NoError(os.Remove(env.store.Path()))
		local = got
	}
}

func TestReconcileNoCandidates(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	env.directory.EXPECT().GetLatestVersion().Return(uint64(1))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(1)).Return(nil, nil)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(1), env.subnetID).Return(nil, registry.ErrNoRegistryCUP)

	_, err := env.reconciler.Reconcile(context.Background(), nil, env.subnetID)
	require.ErrorIs(err, ErrNoCUP)
}

func TestReconcilePersistFailureIsFatal(t *testing.T) {
	require := require.New(t)

	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(os.WriteFile(blocker, nil, 0o600))

	env := newTestEnv(t)
	r := env.reconciler.(*reconciler)
	r.store = NewStore(logging.NoLog{}, filepath.Join(blocker, "cups"))

	env.directory.EXPECT().GetLatestVersion().Return(uint64(1))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(1)).Return(nil, nil)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(1), env.subnetID).Return(newUnsignedCUP(0, 1), nil)

	_, err := env.reconciler.Reconcile(context.Background(), nil, env.subnetID)
	require.ErrorIs(err, ErrPersist)
}

func TestReconcileSameHeightSignedNotRewritten(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	local := newSignedCUP(10, 3)
	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	// Same height at a newer registry version is strictly newer than the
	// floor, so it is selected, but it does not advance the height.
	offered := newSignedCUP(10, 4)

	env.directory.EXPECT().GetLatestVersion().Return(uint64(4))
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(4)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), local.Param()).Return(offered.Bytes(), nil)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), gomock.Any(), gomock.Any(), env.subnetID, uint64(4)).Return(nil)
	env.directory.EXPECT().GetRegistryCUP(gomock.Any(), uint64(4), env.subnetID).Return(newUnsignedCUP(0, 1), nil)

	got, err := env.reconciler.Reconcile(context.Background(), local, env.subnetID)
	require.NoError(err)
	require.Equal(offered.Bytes(), got.Bytes())
	require.Zero(persistCount(env))
}

func TestSelectLatest(t *testing.T) {
	var (
		local10    = candidate{source: LocalSource, pkg: newSignedCUP(10, 3)}
		registry0  = candidate{source: RegistrySource, pkg: newUnsignedCUP(0, 1)}
		registry10 = candidate{source: RegistrySource, pkg: newUnsignedCUP(10, 3)}
		registry11 = candidate{source: RegistrySource, pkg: newUnsignedCUP(11, 1)}
		peer10v2   = candidate{source: PeerSource, pkg: newSignedCUP(10, 2)}
		peer10v3   = candidate{source: PeerSource, pkg: newSignedCUP(10, 3)}
		peer12     = candidate{source: PeerSource, pkg: newSignedCUP(12, 3)}
		absentPeer = candidate{source: PeerSource}
	)

	tests := []struct {
		name       string
		candidates []candidate
		expected   candidate
		found      bool
	}{
		{
			name:       "none",
			candidates: []candidate{{source: LocalSource}, {source: RegistrySource}, absentPeer},
			found:      false,
		},
		{
			name:       "only local",
			candidates: []candidate{local10, {source: RegistrySource}, absentPeer},
			expected:   local10,
			found:      true,
		},
		{
			name:       "highest height wins",
			candidates: []candidate{local10, registry0, peer12},
			expected:   peer12,
			found:      true,
		},
		{
			name:       "unsigned registry above local",
			candidates: []candidate{local10, registry11, absentPeer},
			expected:   registry11,
			found:      true,
		},
		{
			name:       "registry version breaks height tie",
			candidates: []candidate{local10, {source: RegistrySource}, peer10v2},
			expected:   local10,
			found:      true,
		},
		{
			name:       "peer wins full tie",
			candidates: []candidate{local10, registry10, peer10v3},
			expected:   peer10v3,
			found:      true,
		},
		{
			name:       "registry wins tie with local",
			candidates: []candidate{local10, registry10, absentPeer},
			expected:   registry10,
			found:      true,
		},
		{
			name:       "independent of order",
			candidates: []candidate{peer10v3, registry10, local10},
			expected:   peer10v3,
			found:      true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			got, found := selectLatest(test.candidates...)
			require.Equal(test.found, found)
			require.Equal(test.expected, got)
		})
	}
}

func TestShouldPersist(t *testing.T) {
	tests := []struct {
		name     string
		selected *cup.CatchUpPackage
		local    *cup.CatchUpPackage
		expected bool
	}{
		{
			name:     "no local",
			selected: newSignedCUP(1, 1),
			local:    nil,
			expected: true,
		},
		{
			name:     "higher",
			selected: newSignedCUP(11, 1),
			local:    newSignedCUP(10, 1),
			expected: true,
		},
		{
			name:     "same height signed",
			selected: newSignedCUP(10, 2),
			local:    newSignedCUP(10, 1),
			expected: false,
		},
		{
			name:     "same height unsigned",
			selected: newUnsignedCUP(10, 1),
			local:    newUnsignedCUP(10, 1),
			expected: true,
		},
		{
			name:     "unchanged signed",
			selected: newSignedCUP(10, 1),
			local:    newSignedCUP(10, 1),
			expected: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, shouldPersist(test.selected, test.local))
		})
	}
}

func TestSourceString(t *testing.T) {
	require := require.New(t)

	require.Equal("local", LocalSource.String())
	require.Equal("registry", RegistrySource.String())
	require.Equal("peer", PeerSource.String())
	require.Equal("unknown", Source(255).String())
}

func TestNewReconcilerDuplicateMetrics(t *testing.T) {
	registerer := prometheus.NewRegistry()
	_, err := NewReconciler(logging.NoLog{}, nil, nil, nil, registerer)
	require.NoError(t, err)

	_, err = NewReconciler(logging.NoLog{}, nil, nil, nil, registerer)
	require.Error(t, err) //nolint:forbidigo // error is from prometheus
}
