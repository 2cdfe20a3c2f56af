// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/ava-labs/orchestrator/utils/hashing"
)

var offset atomic.Uint64

// GenerateTestID returns a new ID that should only be used for testing
func GenerateTestID() ID {
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], offset.Add(1))
	return hashing.ComputeHash256Array(seed[:])
}

// GenerateTestNodeID returns a new NodeID that should only be used for testing
func GenerateTestNodeID() NodeID {
	id := GenerateTestID()
	return NodeID(id[:NodeIDLen])
}

// BuildTestNodeID is an utility to build NodeID from bytes in UTs
// It must not be used in production code. In production code we should
// use ToNodeID, which performs proper length checking.
func BuildTestNodeID(src []byte) NodeID {
	res := NodeID{}
	copy(res[:], src)
	return res
}
