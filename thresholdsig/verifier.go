// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package thresholdsig

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/crypto/bls"
)

const domainSeparator = "catch_up_content"

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")

	_ Verifier = (*blsVerifier)(nil)
)

// Verifier checks combined threshold signatures produced by a subnet.
type Verifier interface {
	// VerifyCombinedThresholdSig verifies that [signature] was produced by a
	// threshold of [subnetID] over [content] with the key material recorded
	// at [version].
	VerifyCombinedThresholdSig(
		ctx context.Context,
		signature []byte,
		content []byte,
		subnetID ids.ID,
		version uint64,
	) error
}

// PublicKeyGetter returns the combined threshold public key of a subnet.
type PublicKeyGetter interface {
	GetThresholdPublicKey(ctx context.Context, subnetID ids.ID, version uint64) (*bls.PublicKey, error)
}

type blsVerifier struct {
	keys PublicKeyGetter
}

// NewBLSVerifier returns a Verifier for BLS threshold signatures whose public
// keys are provided by [keys].
func NewBLSVerifier(keys PublicKeyGetter) Verifier {
	return &blsVerifier{
		keys: keys,
	}
}

func (v *blsVerifier) VerifyCombinedThresholdSig(
	ctx context.Context,
	signature []byte,
	content []byte,
	subnetID ids.ID,
	version uint64,
) error {
	if len(signature) == 0 {
		return ErrMissingSignature
	}

	sig, err := bls.SignatureFromBytes(signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	pk, err := v.keys.GetThresholdPublicKey(ctx, subnetID, version)
	if err != nil {
		return fmt.Errorf("couldn't get public key of subnet %s at version %d: %w", subnetID, version, err)
	}

	if !bls.Verify(pk, sig, message(content)) {
		return fmt.Errorf("%w for subnet %s at version %d", ErrInvalidSignature, subnetID, version)
	}
	return nil
}

// Sign returns the signature of [sk] over [content]. When [sk] is the
// combined key of a subnet the result verifies with
// VerifyCombinedThresholdSig.
func Sign(sk *bls.SecretKey, content []byte) []byte {
	return bls.SignatureToBytes(bls.Sign(sk, message(content)))
}

// message prefixes [content] with the length-prefixed domain separator.
func message(content []byte) []byte {
	msg := make([]byte, 0, 1+len(domainSeparator)+len(content))
	msg = append(msg, byte(len(domainSeparator)))
	msg = append(msg, domainSeparator...)
	return append(msg, content...)
}
