// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catchup

import (
	"context"
	"net/url"

	"github.com/ava-labs/orchestrator/cup"
)

const (
	// Path is the endpoint a node serves its catch-up package on.
	Path = "/api/v1/catch_up_package"

	ContentType = "application/x-protobuf"

	heightParam          = "height"
	registryVersionParam = "registry_version"
)

// Transport queries a node for its catch-up package.
type Transport interface {
	// FetchCUP returns the raw catch-up package served at [endpoint]. If
	// [floor] is non-nil, the node is asked to reply only with a package
	// strictly newer than [floor]. A nil result with a nil error means the
	// node had nothing to offer.
	FetchCUP(ctx context.Context, endpoint *url.URL, floor *cup.Param) ([]byte, error)
}
