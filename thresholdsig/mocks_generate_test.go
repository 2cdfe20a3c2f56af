// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package thresholdsig

//go:generate go run go.uber.org/mock/mockgen@v0.5 -package=${GOPACKAGE}mock -source=verifier.go -destination=${GOPACKAGE}mock/verifier.go -mock_names=Verifier=Verifier -exclude_interfaces=PublicKeyGetter
