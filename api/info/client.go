// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package info

import (
	"context"
	"net/url"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/formatting"
	"github.com/ava-labs/orchestrator/utils/rpc"
)

// Client interface for an Info API Endpoint
type Client struct {
	uri string
}

// NewClient returns a new Info API Client
func NewClient(uri string) *Client {
	return &Client{
		uri: uri + Path,
	}
}

func (c *Client) GetNodeID(ctx context.Context) (ids.NodeID, ids.ID, error) {
	uri, err := url.Parse(c.uri)
	if err != nil {
		return ids.NodeID{}, ids.Empty, err
	}
	res := &GetNodeIDReply{}
	err = rpc.SendJSONRequest(ctx, uri, "info.getNodeID", struct{}{}, res)
	return res.NodeID, res.SubnetID, err
}

// GetCatchUpPackage returns the catch-up package the node currently trusts.
func (c *Client) GetCatchUpPackage(ctx context.Context) (*cup.CatchUpPackage, error) {
	uri, err := url.Parse(c.uri)
	if err != nil {
		return nil, err
	}
	res := &GetCatchUpPackageReply{}
	if err := rpc.SendJSONRequest(ctx, uri, "info.getCatchUpPackage", struct{}{}, res); err != nil {
		return nil, err
	}
	bytes, err := formatting.Decode(res.Bytes)
	if err != nil {
		return nil, err
	}
	return cup.Parse(bytes)
}
