// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:gosec
)

const (
	HashLen = sha256.Size
	AddrLen = ripemd160.Size
)

// ComputeHash256Array returns the sha256 digest of [buf].
func ComputeHash256Array(buf []byte) [HashLen]byte {
	return sha256.Sum256(buf)
}

// PubkeyBytesToAddress returns ripemd160(sha256(key)).
func PubkeyBytesToAddress(key []byte) [AddrLen]byte {
	digest := sha256.Sum256(key)
	ripe := ripemd160.New() //nolint:gosec
	_, _ = ripe.Write(digest[:])

	var addr [AddrLen]byte
	copy(addr[:], ripe.Sum(nil))
	return addr
}

// Checksum returns the last [length] bytes of the sha256 digest of [buf].
// Panics if length > HashLen.
func Checksum(buf []byte, length int) []byte {
	digest := sha256.Sum256(buf)
	return digest[HashLen-length:]
}
