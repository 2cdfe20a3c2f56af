// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"errors"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
)

var (
	ErrUnknownVersion = errors.New("unknown registry version")
	ErrUnknownSubnet  = errors.New("unknown subnet")
	ErrNoRegistryCUP  = errors.New("no catch-up package contents recorded")
)

// Directory is a versioned view of subnet membership and of the parameters a
// subnet was created or recovered with.
type Directory interface {
	// GetLatestVersion returns the newest registry version known locally.
	GetLatestVersion() uint64

	// GetSubnetPeers returns the nodes of [subnetID] as of [version].
	GetSubnetPeers(ctx context.Context, subnetID ids.ID, version uint64) ([]*NodeRecord, error)

	// GetRegistryCUP deterministically rebuilds the unsigned catch-up package
	// of [subnetID] from the registry contents as of [version].
	GetRegistryCUP(ctx context.Context, version uint64, subnetID ids.ID) (*cup.CatchUpPackage, error)
}

// ConnectionEndpoint is an advertised network address of a node.
type ConnectionEndpoint struct {
	IPAddr string `json:"ipAddr"`
	Port   uint16 `json:"port"`
}

// NodeRecord describes a member of a subnet. HTTP may be nil if the node did
// not advertise an endpoint.
type NodeRecord struct {
	NodeID ids.NodeID          `json:"nodeID"`
	HTTP   *ConnectionEndpoint `json:"http,omitempty"`
}
