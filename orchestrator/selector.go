// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/orchestrator/api/catchup"
	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/registry"
	"github.com/ava-labs/orchestrator/thresholdsig"
	"github.com/ava-labs/orchestrator/utils/logging"
	"github.com/ava-labs/orchestrator/utils/sampler"
)

var (
	errMissingEndpoint = errors.New("missing http endpoint")
	errInvalidIP       = errors.New("invalid ip address")
	errZeroPort        = errors.New("zero port")
)

// Selector fetches verified catch-up packages from the members of a subnet.
type Selector struct {
	log       logging.Logger
	nodeID    ids.NodeID
	directory registry.Directory
	transport catchup.Transport
	verifier  thresholdsig.Verifier
	sampler   sampler.Uniform
	metrics   *selectorMetrics
}

func NewSelector(
	log logging.Logger,
	nodeID ids.NodeID,
	directory registry.Directory,
	transport catchup.Transport,
	verifier thresholdsig.Verifier,
	uniform sampler.Uniform,
	registerer prometheus.Registerer,
) (*Selector, error) {
	metrics, err := newSelectorMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Selector{
		log:       log,
		nodeID:    nodeID,
		directory: directory,
		transport: transport,
		verifier:  verifier,
		sampler:   uniform,
		metrics:   metrics,
	}, nil
}

// GetPeerCUP returns a verified catch-up package strictly newer than [floor],
// or nil if none was found.
//
// With a nil [floor] every member of the subnet is queried. Otherwise a
// single random member is queried, relying on the caller to poll repeatedly
// until an honest peer is reached. If this node is a member of the subnet its
// own endpoint is always queried first.
func (s *Selector) GetPeerCUP(
	ctx context.Context,
	subnetID ids.ID,
	registryVersion uint64,
	floor *cup.Param,
) *cup.CatchUpPackage {
	log := s.log.With(
		zap.Stringer("subnetID", subnetID),
		zap.Uint64("registryVersion", registryVersion),
	)

	nodes, err := s.directory.GetSubnetPeers(ctx, subnetID, registryVersion)
	if err != nil {
		log.Warn("failed to get subnet peers",
			zap.Error(err),
		)
		nodes = nil
	}
	nodes, err = sampler.Shuffle(s.sampler, nodes)
	if err != nil {
		log.Warn("failed to shuffle subnet peers",
			zap.Error(err),
		)
		return nil
	}

	var self *registry.NodeRecord
	for _, node := range nodes {
		if node != nil && node.NodeID == s.nodeID {
			self = node
			break
		}
	}

	candidates := make([]*registry.NodeRecord, 0, len(nodes)+1)
	if floor == nil {
		candidates = append(candidates, nodes...)
	} else {
		if len(nodes) == 0 {
			log.Warn("empty peer list")
			return nil
		}
		candidates = append(candidates, nodes[len(nodes)-1])
	}
	if self != nil {
		candidates = append(candidates, self)
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			log.Debug("stopping peer queries",
				zap.Error(err),
			)
			return nil
		}

		pkg := s.fetchVerifyAndParse(ctx, log, candidates[i], floor, subnetID)
		if cup.Compare(cup.ParamOf(pkg), floor) > 0 {
			return pkg
		}
	}
	return nil
}

// fetchVerifyAndParse queries [node] for a catch-up package newer than
// [floor]. The package is only returned if its signature verifies against the
// key material of its own registry version.
func (s *Selector) fetchVerifyAndParse(
	ctx context.Context,
	log logging.Logger,
	node *registry.NodeRecord,
	floor *cup.Param,
	subnetID ids.ID,
) *cup.CatchUpPackage {
	if node == nil {
		s.metrics.fetches.WithLabelValues(fetchUnusableEndpoint).Inc()
		return nil
	}

	log = log.With(
		zap.Stringer("nodeID", node.NodeID),
	)
	endpoint, err := endpointURL(node.HTTP)
	if err != nil {
		log.Warn("unusable peer endpoint",
			zap.Error(err),
		)
		s.metrics.fetches.WithLabelValues(fetchUnusableEndpoint).Inc()
		return nil
	}

	log = log.With(
		zap.Stringer("endpoint", endpoint),
	)
	b, err := s.transport.FetchCUP(ctx, endpoint, floor)
	if err != nil {
		log.Warn("failed to query catch-up package endpoint",
			zap.Error(err),
		)
		s.metrics.fetches.WithLabelValues(fetchFailed).Inc()
		return nil
	}
	if len(b) == 0 {
		log.Debug("peer has no newer catch-up package",
			zap.Stringer("floor", floor),
		)
		s.metrics.fetches.WithLabelValues(fetchNothingNewer).Inc()
		return nil
	}

	pkg, err := cup.Parse(b)
	if err != nil {
		log.Warn("failed to parse catch-up package from peer",
			zap.Error(err),
		)
		s.metrics.fetches.WithLabelValues(fetchMalformed).Inc()
		return nil
	}

	err = s.verifier.VerifyCombinedThresholdSig(
		ctx,
		pkg.Signature,
		pkg.ContentBytes(),
		subnetID,
		pkg.RegistryVersion,
	)
	if err != nil {
		log.Warn("failed to verify catch-up package signature",
			zap.Uint64("height", pkg.Height),
			zap.Uint64("cupRegistryVersion", pkg.RegistryVersion),
			zap.Error(err),
		)
		s.metrics.fetches.WithLabelValues(fetchInvalidSignature).Inc()
		return nil
	}

	log.Debug("fetched catch-up package from peer",
		zap.Stringer("cup", pkg),
	)
	s.metrics.fetches.WithLabelValues(fetchSucceeded).Inc()
	return pkg
}

func endpointURL(endpoint *registry.ConnectionEndpoint) (*url.URL, error) {
	if endpoint == nil {
		return nil, errMissingEndpoint
	}
	addr, err := netip.ParseAddr(endpoint.IPAddr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errInvalidIP, endpoint.IPAddr, err)
	}
	if endpoint.Port == 0 {
		return nil, errZeroPort
	}
	return &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(addr.String(), strconv.FormatUint(uint64(endpoint.Port), 10)),
	}, nil
}
