// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cup

import (
	"cmp"
	"fmt"
)

// Param is the freshness comparator of a catch-up package.
type Param struct {
	Height          uint64
	RegistryVersion uint64
}

// ParamOf returns the comparator of [c], or nil if [c] is nil.
func ParamOf(c *CatchUpPackage) *Param {
	if c == nil {
		return nil
	}
	return c.Param()
}

// Compare returns
//
//	-1 if a < b
//	 0 if a == b
//	+1 if a > b
//
// A nil Param is less than every non-nil Param. Non-nil Params are ordered by
// height and then by registry version.
func Compare(a, b *Param) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(a.Height, b.Height); c != 0 {
		return c
	}
	return cmp.Compare(a.RegistryVersion, b.RegistryVersion)
}

func (p *Param) String() string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("(height=%d, registryVersion=%d)", p.Height, p.RegistryVersion)
}
