// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cup

import (
	"fmt"

	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/hashing"
)

// Content is the signed portion of a catch-up package.
type Content struct {
	Height          uint64
	RegistryVersion uint64
	StateHash       []byte
	Block           []byte
}

// CatchUpPackage is an immutable checkpoint describing the height and state a
// node resumes from. It always carries the exact bytes it was built from so
// that signatures are checked against what was transmitted or stored.
type CatchUpPackage struct {
	Content
	Signature []byte

	contentBytes []byte
	bytes        []byte
	id           ids.ID
}

// New creates a *CatchUpPackage and encodes it.
func New(content Content, signature []byte) *CatchUpPackage {
	contentBytes := encodeContent(&content)
	bytes := encodeEnvelope(contentBytes, signature)
	return &CatchUpPackage{
		Content:      content,
		Signature:    signature,
		contentBytes: contentBytes,
		bytes:        bytes,
		id:           hashing.ComputeHash256Array(bytes),
	}
}

// Parse converts a slice of bytes into a *CatchUpPackage. The returned package
// retains [b] as its original serialization.
func Parse(b []byte) (*CatchUpPackage, error) {
	contentBytes, signature, err := decodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	c := &CatchUpPackage{
		Signature:    signature,
		contentBytes: contentBytes,
		bytes:        b,
		id:           hashing.ComputeHash256Array(b),
	}
	if err := decodeContent(contentBytes, &c.Content); err != nil {
		return nil, err
	}
	return c, nil
}

// Bytes returns the binary representation of this package.
func (c *CatchUpPackage) Bytes() []byte {
	return c.bytes
}

// ContentBytes returns the exact bytes the signature was produced over.
func (c *CatchUpPackage) ContentBytes() []byte {
	return c.contentBytes
}

// ID returns the hash of Bytes().
func (c *CatchUpPackage) ID() ids.ID {
	return c.id
}

func (c *CatchUpPackage) IsSigned() bool {
	return len(c.Signature) > 0
}

// Param returns the freshness comparator of this package.
func (c *CatchUpPackage) Param() *Param {
	return &Param{
		Height:          c.Height,
		RegistryVersion: c.RegistryVersion,
	}
}

func (c *CatchUpPackage) String() string {
	return fmt.Sprintf(
		"CatchUpPackage(Height = %d, RegistryVersion = %d, StateHash = %x, Signed = %t)",
		c.Height,
		c.RegistryVersion,
		c.StateHash,
		c.IsSigned(),
	)
}
