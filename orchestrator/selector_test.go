// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/registry"
	"github.com/ava-labs/orchestrator/thresholdsig"
)

var errUnreachable = errors.New("connection refused")

func fetchCount(env *testEnv, result string) int {
	return int(testutil.ToFloat64(env.selector.metrics.fetches.WithLabelValues(result)))
}

func TestGetPeerCUPColdStartQueriesEveryPeer(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	nodes := []*registry.NodeRecord{
		newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080),
		newNode(ids.GenerateTestNodeID(), "10.0.0.2", 8080),
		newNode(ids.GenerateTestNodeID(), "10.0.0.3", 8080),
	}
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return(nodes, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), gomock.Any(), nil).Return(nil, nil).Times(3)

	require.Nil(env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, nil))
	require.Equal(3, fetchCount(env, fetchNothingNewer))
}

func TestGetPeerCUPColdStartReturnsFirstVerified(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	honest := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	byzantine := newNode(ids.GenerateTestNodeID(), "10.0.0.2", 8080)
	offline := newNode(ids.GenerateTestNodeID(), "10.0.0.3", 8080)
	nodes := []*registry.NodeRecord{honest, byzantine, offline}

	expected := newSignedCUP(12, 4)
	forged := newSignedCUP(1000, 4)

	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return(nodes, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), gomock.Any(), nil).DoAndReturn(
		func(_ context.Context, endpoint *url.URL, _ *cup.Param) ([]byte, error) {
			switch endpoint.String() {
			case nodeURL(t, honest).String():
				return expected.Bytes(), nil
			case nodeURL(t, byzantine).String():
				return forged.Bytes(), nil
			default:
				return nil, errUnreachable
			}
		},
	).MinTimes(1).MaxTimes(3)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), gomock.Any(), expected.ContentBytes(), env.subnetID, uint64(4)).Return(nil).MaxTimes(1)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), gomock.Any(), forged.ContentBytes(), env.subnetID, uint64(4)).Return(thresholdsig.ErrInvalidSignature).MaxTimes(1)

	got := env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, nil)
	require.NotNil(got)
	require.Equal(expected.Bytes(), got.Bytes())
	require.Equal(1, fetchCount(env, fetchSucceeded))
}

func TestGetPeerCUPWithFloorQueriesSinglePeer(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	nodes := []*registry.NodeRecord{
		newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080),
		newNode(ids.GenerateTestNodeID(), "10.0.0.2", 8080),
		newNode(ids.GenerateTestNodeID(), "10.0.0.3", 8080),
	}
	floor := &cup.Param{Height: 10, RegistryVersion: 5}

	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return(nodes, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), gomock.Any(), floor).Return(nil, errUnreachable).Times(1)

	require.Nil(env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, floor))
	require.Equal(1, fetchCount(env, fetchFailed))
}

func TestGetPeerCUPEmptyRoster(t *testing.T) {
	tests := []struct {
		name  string
		floor *cup.Param
	}{
		{
			name:  "cold start",
			floor: nil,
		},
		{
			name:  "with floor",
			floor: &cup.Param{Height: 1},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(1)).Return(nil, nil)

			require.Nil(t, env.selector.GetPeerCUP(context.Background(), env.subnetID, 1, test.floor))
		})
	}
}

func TestGetPeerCUPDirectoryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(1)).Return(nil, registry.ErrUnknownSubnet)

	require.Nil(t, env.selector.GetPeerCUP(context.Background(), env.subnetID, 1, nil))
}

func TestGetPeerCUPQueriesSelfFirst(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	self := newNode(env.nodeID, "127.0.0.1", 4444)
	nodes := []*registry.NodeRecord{
		newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080),
		self,
		newNode(ids.GenerateTestNodeID(), "10.0.0.2", 8080),
	}
	floor := &cup.Param{Height: 10, RegistryVersion: 5}
	expected := newSignedCUP(11, 5)

	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return(nodes, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, self), floor).Return(expected.Bytes(), nil).Times(1)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), expected.Signature, expected.ContentBytes(), env.subnetID, uint64(5)).Return(nil)

	got := env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, floor)
	require.NotNil(got)
	require.Equal(expected.Bytes(), got.Bytes())
}

func TestGetPeerCUPSelfThenPeer(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	self := newNode(env.nodeID, "127.0.0.1", 4444)
	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	expected := newSignedCUP(11, 5)

	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return([]*registry.NodeRecord{self, peer}, nil)
	gomock.InOrder(
		env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, self), nil).Return(nil, errUnreachable).MinTimes(1).MaxTimes(2),
		env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), nil).Return(expected.Bytes(), nil),
	)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), gomock.Any(), gomock.Any(), env.subnetID, uint64(5)).Return(nil)

	// On a cold start [self] is also part of the shuffled roster, so it may
	// be queried twice before [peer].
	got := env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, nil)
	require.NotNil(got)
	require.Equal(expected.Bytes(), got.Bytes())
}

func TestGetPeerCUPRejectsUnverified(t *testing.T) {
	tests := []struct {
		name      string
		offered   *cup.CatchUpPackage
		verifyErr error
	}{
		{
			name:      "invalid signature",
			offered:   newSignedCUP(1000, 5),
			verifyErr: thresholdsig.ErrInvalidSignature,
		},
		{
			name:      "unsigned",
			offered:   newUnsignedCUP(1000, 5),
			verifyErr: thresholdsig.ErrMissingSignature,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			env := newTestEnv(t)

			peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
			floor := &cup.Param{Height: 10, RegistryVersion: 5}

			env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return([]*registry.NodeRecord{peer}, nil)
			env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), floor).Return(test.offered.Bytes(), nil)
			env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), test.offered.Signature, test.offered.ContentBytes(), env.subnetID, uint64(5)).Return(test.verifyErr)

			require.Nil(env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, floor))
			require.Equal(1, fetchCount(env, fetchInvalidSignature))
		})
	}
}

func TestGetPeerCUPVerifiesAtEmbeddedRegistryVersion(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	offered := newSignedCUP(20, 9)

	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), nil).Return(offered.Bytes(), nil)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), offered.Signature, offered.ContentBytes(), env.subnetID, uint64(9)).Return(nil)

	got := env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, nil)
	require.NotNil(got)
	require.Equal(uint64(9), got.RegistryVersion)
}

func TestGetPeerCUPMalformedResponse(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), nil).Return([]byte{0xff, 0xff}, nil)

	require.Nil(env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, nil))
	require.Equal(1, fetchCount(env, fetchMalformed))
}

func TestGetPeerCUPIgnoresStaleResponse(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	peer := newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080)
	floor := &cup.Param{Height: 10, RegistryVersion: 5}
	stale := newSignedCUP(10, 5)

	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return([]*registry.NodeRecord{peer}, nil)
	env.transport.EXPECT().FetchCUP(gomock.Any(), nodeURL(t, peer), floor).Return(stale.Bytes(), nil)
	env.verifier.EXPECT().VerifyCombinedThresholdSig(gomock.Any(), gomock.Any(), gomock.Any(), env.subnetID, uint64(5)).Return(nil)

	require.Nil(env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, floor))
}

func TestGetPeerCUPUnusableEndpoints(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t)

	nodes := []*registry.NodeRecord{
		{NodeID: ids.GenerateTestNodeID()},
		newNode(ids.GenerateTestNodeID(), "not-an-ip", 8080),
		newNode(ids.GenerateTestNodeID(), "10.0.0.1", 0),
		nil,
	}
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return(nodes, nil)

	require.Nil(env.selector.GetPeerCUP(context.Background(), env.subnetID, 5, nil))
	require.Equal(4, fetchCount(env, fetchUnusableEndpoint))
}

func TestGetPeerCUPCancelled(t *testing.T) {
	env := newTestEnv(t)

	nodes := []*registry.NodeRecord{
		newNode(ids.GenerateTestNodeID(), "10.0.0.1", 8080),
		newNode(ids.GenerateTestNodeID(), "10.0.0.2", 8080),
	}
	env.directory.EXPECT().GetSubnetPeers(gomock.Any(), env.subnetID, uint64(5)).Return(nodes, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Nil(t, env.selector.GetPeerCUP(ctx, env.subnetID, 5, nil))
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name        string
		endpoint    *registry.ConnectionEndpoint
		expected    string
		expectedErr error
	}{
		{
			name:     "ipv4",
			endpoint: &registry.ConnectionEndpoint{IPAddr: "10.0.0.1", Port: 8080},
			expected: "http://10.0.0.1:8080",
		},
		{
			name:     "ipv6",
			endpoint: &registry.ConnectionEndpoint{IPAddr: "2001:db8::1", Port: 8080},
			expected: "http://[2001:db8::1]:8080",
		},
		{
			name:        "missing",
			endpoint:    nil,
			expectedErr: errMissingEndpoint,
		},
		{
			name:        "hostname",
			endpoint:    &registry.ConnectionEndpoint{IPAddr: "localhost", Port: 8080},
			expectedErr: errInvalidIP,
		},
		{
			name:        "zero port",
			endpoint:    &registry.ConnectionEndpoint{IPAddr: "10.0.0.1"},
			expectedErr: errZeroPort,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			u, err := endpointURL(test.endpoint)
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				return
			}
			require.Equal(test.expected, u.String())
		})
	}
}
