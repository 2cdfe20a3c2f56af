// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/orchestrator/utils/formatting"
	"github.com/ava-labs/orchestrator/utils/hashing"
)

const (
	NodeIDPrefix = "NodeID-"
	NodeIDLen    = hashing.AddrLen
)

var (
	EmptyNodeID = NodeID{}

	errShortNodeID   = errors.New("insufficient NodeID length")
	errNodeIDLen     = errors.New("invalid NodeID length")
	errMissingPrefix = errors.New("missing prefix")
)

type NodeID [NodeIDLen]byte

// Any modification to Bytes will be lost since id is passed-by-value
// Directly access NodeID[:] if you need to modify the NodeID
func (id NodeID) Bytes() []byte {
	return id[:]
}

// ToNodeID attempt to convert a byte slice into a node id
func ToNodeID(bytes []byte) (NodeID, error) {
	if len(bytes) != NodeIDLen {
		return NodeID{}, fmt.Errorf("%w: expected %d bytes but got %d", errNodeIDLen, NodeIDLen, len(bytes))
	}
	return NodeID(bytes), nil
}

// NodeIDFromPublicKey derives the NodeID owning [pkBytes].
func NodeIDFromPublicKey(pkBytes []byte) NodeID {
	return hashing.PubkeyBytesToAddress(pkBytes)
}

func (id NodeID) String() string {
	s, _ := formatting.EncodeWithChecksum(id[:])
	return NodeIDPrefix + s
}

// NodeIDFromString is the inverse of NodeID.String()
func NodeIDFromString(nodeIDStr string) (NodeID, error) {
	if !strings.HasPrefix(nodeIDStr, NodeIDPrefix) {
		return NodeID{}, fmt.Errorf("%w: %q is missing %q", errMissingPrefix, nodeIDStr, NodeIDPrefix)
	}
	bytes, err := formatting.Decode(strings.TrimPrefix(nodeIDStr, NodeIDPrefix))
	if err != nil {
		return NodeID{}, err
	}
	return ToNodeID(bytes)
}

func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

func (id *NodeID) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == nullStr { // If "null", do nothing
		return nil
	} else if len(str) <= 2+len(NodeIDPrefix) {
		return fmt.Errorf("%w: expected to be > %d", errShortNodeID, 2+len(NodeIDPrefix))
	}

	lastIndex := len(str) - 1
	if str[0] != '"' || str[lastIndex] != '"' {
		return errMissingQuotes
	}

	var err error
	*id, err = NodeIDFromString(str[1:lastIndex])
	return err
}

func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *NodeID) UnmarshalText(text []byte) error {
	return id.UnmarshalJSON([]byte(`"` + string(text) + `"`))
}

func (id NodeID) Compare(other NodeID) int {
	return bytes.Compare(id[:], other[:])
}
