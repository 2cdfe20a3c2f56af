// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cup

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the CatchUpPackage envelope.
const (
	contentField   protowire.Number = 1
	signatureField protowire.Number = 2
)

// Field numbers of the CatchUpContent message.
const (
	heightField          protowire.Number = 1
	registryVersionField protowire.Number = 2
	stateHashField       protowire.Number = 3
	blockField           protowire.Number = 4
)

var (
	ErrMalformed      = errors.New("malformed catch-up package")
	ErrMissingContent = errors.New("missing catch-up package content")
)

func encodeContent(c *Content) []byte {
	var b []byte
	if c.Height != 0 {
		b = protowire.AppendTag(b, heightField, protowire.VarintType)
		b = protowire.AppendVarint(b, c.Height)
	}
	if c.RegistryVersion != 0 {
		b = protowire.AppendTag(b, registryVersionField, protowire.VarintType)
		b = protowire.AppendVarint(b, c.RegistryVersion)
	}
	b = appendBytesField(b, stateHashField, c.StateHash)
	return appendBytesField(b, blockField, c.Block)
}

// encodeEnvelope always emits the content field, even when empty, so that a
// package built from zero-valued content parses back successfully.
func encodeEnvelope(content, signature []byte) []byte {
	b := protowire.AppendTag(nil, contentField, protowire.BytesType)
	b = protowire.AppendBytes(b, content)
	return appendBytesField(b, signatureField, signature)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func decodeEnvelope(b []byte) ([]byte, []byte, error) {
	var (
		content    []byte
		signature  []byte
		hasContent bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case contentField, signatureField:
			if typ != protowire.BytesType {
				return nil, nil, fmt.Errorf("%w: field %d has wire type %d", ErrMalformed, num, typ)
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
			if num == contentField {
				content = v
				hasContent = true
			} else {
				signature = v
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if !hasContent {
		return nil, nil, ErrMissingContent
	}
	return content, signature, nil
}

func decodeContent(b []byte, c *Content) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case heightField, registryVersionField:
			if typ != protowire.VarintType {
				return fmt.Errorf("%w: content field %d has wire type %d", ErrMalformed, num, typ)
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
			if num == heightField {
				c.Height = v
			} else {
				c.RegistryVersion = v
			}
		case stateHashField, blockField:
			if typ != protowire.BytesType {
				return fmt.Errorf("%w: content field %d has wire type %d", ErrMalformed, num, typ)
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
			if num == stateHashField {
				c.StateHash = v
			} else {
				c.Block = v
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
