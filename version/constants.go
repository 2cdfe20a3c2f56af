// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

const Client = "orchestrator"

// GitCommit is set at build time with
// -ldflags "-X github.com/ava-labs/orchestrator/version.GitCommit=$(git rev-parse HEAD)"
var (
	GitCommit string

	Current = &Semantic{
		Major: 0,
		Minor: 3,
		Patch: 0,
	}
)
