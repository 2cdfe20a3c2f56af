// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package thresholdsig

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/crypto/bls"
)

var errUnknownKey = errors.New("unknown key")

type keyMap map[uint64]*bls.PublicKey

func (k keyMap) GetThresholdPublicKey(_ context.Context, _ ids.ID, version uint64) (*bls.PublicKey, error) {
	pk, ok := k[version]
	if !ok {
		return nil, errUnknownKey
	}
	return pk, nil
}

func TestVerifyCombinedThresholdSig(t *testing.T) {
	sk, err := bls.NewSecretKey()
	require.NoError(t, err)
	otherSK, err := bls.NewSecretKey()
	require.NoError(t, err)

	keys := keyMap{
		1: bls.PublicFromSecretKey(sk),
		2: bls.PublicFromSecretKey(otherSK),
	}
	content := []byte("content")
	subnetID := ids.GenerateTestID()

	tests := []struct {
		name        string
		signature   []byte
		content     []byte
		version     uint64
		expectedErr error
	}{
		{
			name:      "valid",
			signature: Sign(sk, content),
			content:   content,
			version:   1,
		},
		{
			name:        "missing signature",
			signature:   nil,
			content:     content,
			version:     1,
			expectedErr: ErrMissingSignature,
		},
		{
			name:        "malformed signature",
			signature:   []byte{1, 2, 3},
			content:     content,
			version:     1,
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "wrong content",
			signature:   Sign(sk, content),
			content:     []byte("other content"),
			version:     1,
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "key rotated",
			signature:   Sign(sk, content),
			content:     content,
			version:     2,
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "unknown version",
			signature:   Sign(sk, content),
			content:     content,
			version:     3,
			expectedErr: errUnknownKey,
		},
		{
			name:        "signature without domain separator",
			signature:   bls.SignatureToBytes(bls.Sign(sk, content)),
			content:     content,
			version:     1,
			expectedErr: ErrInvalidSignature,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := NewBLSVerifier(keys)
			err := v.VerifyCombinedThresholdSig(context.Background(), test.signature, test.content, subnetID, test.version)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}
