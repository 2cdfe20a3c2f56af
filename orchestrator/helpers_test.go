// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/orchestrator/api/catchup/catchupmock"
	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/registry"
	"github.com/ava-labs/orchestrator/registry/registrymock"
	"github.com/ava-labs/orchestrator/thresholdsig/thresholdsigmock"
	"github.com/ava-labs/orchestrator/utils/logging"
	"github.com/ava-labs/orchestrator/utils/sampler"
)

type testEnv struct {
	nodeID     ids.NodeID
	subnetID   ids.ID
	registry   *prometheus.Registry
	directory  *registrymock.Directory
	transport  *catchupmock.Transport
	verifier   *thresholdsigmock.Verifier
	store      *Store
	selector   *Selector
	reconciler Reconciler
}

func newTestEnv(t *testing.T) *testEnv {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	env := &testEnv{
		nodeID:    ids.GenerateTestNodeID(),
		subnetID:  ids.GenerateTestID(),
		registry:  prometheus.NewRegistry(),
		directory: registrymock.NewDirectory(ctrl),
		transport: catchupmock.NewTransport(ctrl),
		verifier:  thresholdsigmock.NewVerifier(ctrl),
		store:     NewStore(logging.NoLog{}, filepath.Join(t.TempDir(), "cups")),
	}

	uniform := sampler.NewUniform()
	uniform.Seed(0)

	var err error
	env.selector, err = NewSelector(
		logging.NoLog{},
		env.nodeID,
		env.directory,
		env.transport,
		env.verifier,
		uniform,
		env.registry,
	)
	require.NoError(err)

	env.reconciler, err = NewReconciler(
		logging.NoLog{},
		env.directory,
		env.selector,
		env.store,
		env.registry,
	)
	require.NoError(err)
	return env
}

func newNode(nodeID ids.NodeID, ip string, port uint16) *registry.NodeRecord {
	return &registry.NodeRecord{
		NodeID: nodeID,
		HTTP: &registry.ConnectionEndpoint{
			IPAddr: ip,
			Port:   port,
		},
	}
}

func nodeURL(t *testing.T, node *registry.NodeRecord) *url.URL {
	u, err := endpointURL(node.HTTP)
	require.NoError(t, err)
	return u
}

func newSignedCUP(height, version uint64) *cup.CatchUpPackage {
	return cup.New(
		cup.Content{
			Height:          height,
			RegistryVersion: version,
			StateHash:       []byte{byte(height)},
		},
		[]byte("signature"),
	)
}

func newUnsignedCUP(height, version uint64) *cup.CatchUpPackage {
	return cup.New(
		cup.Content{
			Height:          height,
			RegistryVersion: version,
		},
		nil,
	)
}

type transportFunc func(context.Context, *url.URL, *cup.Param) ([]byte, error)

func (f transportFunc) FetchCUP(ctx context.Context, endpoint *url.URL, floor *cup.Param) ([]byte, error) {
	return f(ctx, endpoint, floor)
}

type verifierFunc func(signature, content []byte, version uint64) error

func (f verifierFunc) VerifyCombinedThresholdSig(_ context.Context, signature, content []byte, _ ids.ID, version uint64) error {
	return f(signature, content, version)
}

type reconcilerFunc func(context.Context, *cup.CatchUpPackage, ids.ID) (*cup.CatchUpPackage, error)

func (f reconcilerFunc) Reconcile(ctx context.Context, local *cup.CatchUpPackage, subnetID ids.ID) (*cup.CatchUpPackage, error) {
	return f(ctx, local, subnetID)
}
