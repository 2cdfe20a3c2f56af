// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/mr-tron/base58/base58"

	"github.com/ava-labs/orchestrator/utils/hashing"
)

const checksumLen = 4

var (
	ErrEncodingOverFlow = errors.New("encoding overflow")
	ErrMissingChecksum  = errors.New("input string is smaller than the checksum size")
	ErrBadChecksum      = errors.New("invalid input checksum")
)

// EncodeWithChecksum returns [bytes] in checksummed base-58 encoding.
func EncodeWithChecksum(bytes []byte) (string, error) {
	bytesLen := len(bytes)
	if bytesLen > math.MaxInt32-checksumLen {
		return "", fmt.Errorf("%w: %d", ErrEncodingOverFlow, bytesLen)
	}
	checked := make([]byte, bytesLen+checksumLen)
	copy(checked, bytes)
	copy(checked[bytesLen:], hashing.Checksum(bytes, checksumLen))
	return base58.Encode(checked), nil
}

// Decode is the inverse of EncodeWithChecksum.
func Decode(str string) ([]byte, error) {
	if len(str) == 0 {
		return nil, nil
	}
	decodedBytes, err := base58.Decode(str)
	if err != nil {
		return nil, err
	}
	if len(decodedBytes) < checksumLen {
		return nil, ErrMissingChecksum
	}

	rawBytes := decodedBytes[:len(decodedBytes)-checksumLen]
	checksum := decodedBytes[len(decodedBytes)-checksumLen:]
	if !bytes.Equal(checksum, hashing.Checksum(rawBytes, checksumLen)) {
		return nil, ErrBadChecksum
	}
	return rawBytes, nil
}
