// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catchup

//go:generate go run go.uber.org/mock/mockgen@v0.5 -package=${GOPACKAGE}mock -source=catchup.go -destination=${GOPACKAGE}mock/transport.go -mock_names=Transport=Transport
