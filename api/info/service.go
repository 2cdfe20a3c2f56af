// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package info

import (
	"errors"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/orchestrator/api/catchup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/formatting"
	"github.com/ava-labs/orchestrator/utils/logging"

	avajson "github.com/ava-labs/orchestrator/utils/json"
)

// Path is the endpoint the info API is served on.
const Path = "/ext/info"

var errNoCatchUpPackage = errors.New("no catch-up package accepted yet")

// Info is the API service for unprivileged info on a node
type Info struct {
	log      logging.Logger
	nodeID   ids.NodeID
	subnetID ids.ID
	source   catchup.Source
}

// NewService returns a new info API service
func NewService(
	log logging.Logger,
	nodeID ids.NodeID,
	subnetID ids.ID,
	source catchup.Source,
) (http.Handler, error) {
	server := rpc.NewServer()
	codec := avajson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(
		&Info{
			log:      log,
			nodeID:   nodeID,
			subnetID: subnetID,
			source:   source,
		},
		"info",
	)
}

// GetNodeIDReply are the results from calling GetNodeID
type GetNodeIDReply struct {
	NodeID   ids.NodeID `json:"nodeID"`
	SubnetID ids.ID     `json:"subnetID"`
}

// GetNodeID returns the node ID of this node and the subnet it catches up
func (i *Info) GetNodeID(_ *http.Request, _ *struct{}, reply *GetNodeIDReply) error {
	i.log.Debug("API called",
		zap.String("service", "info"),
		zap.String("method", "getNodeID"),
	)

	reply.NodeID = i.nodeID
	reply.SubnetID = i.subnetID
	return nil
}

// GetCatchUpPackageReply are the results from calling GetCatchUpPackage
type GetCatchUpPackageReply struct {
	ID              ids.ID         `json:"id"`
	Height          avajson.Uint64 `json:"height"`
	RegistryVersion avajson.Uint64 `json:"registryVersion"`
	Signed          bool           `json:"signed"`
	// Bytes is the cb58 encoding of the serialized package
	Bytes string `json:"bytes"`
}

// GetCatchUpPackage returns the catch-up package this node currently trusts
func (i *Info) GetCatchUpPackage(_ *http.Request, _ *struct{}, reply *GetCatchUpPackageReply) error {
	i.log.Debug("API called",
		zap.String("service", "info"),
		zap.String("method", "getCatchUpPackage"),
	)

	c := i.source.Load()
	if c == nil {
		return errNoCatchUpPackage
	}

	bytes, err := formatting.EncodeWithChecksum(c.Bytes())
	if err != nil {
		return err
	}
	reply.ID = c.ID()
	reply.Height = avajson.Uint64(c.Height)
	reply.RegistryVersion = avajson.Uint64(c.RegistryVersion)
	reply.Signed = c.IsSigned()
	reply.Bytes = bytes
	return nil
}
