// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/rpc/v2/json2"
)

// SendJSONRequest calls [method] on the JSON-RPC 2.0 endpoint at [uri] and
// decodes the result into [reply].
func SendJSONRequest(
	ctx context.Context,
	uri *url.URL,
	method string,
	params interface{},
	reply interface{},
) error {
	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, uri.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	return Do(http.DefaultClient, request, func(resp *http.Response) error {
		if err := CheckStatus(resp); err != nil {
			return err
		}
		if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
			return fmt.Errorf("failed to decode %s reply: %w", method, err)
		}
		return nil
	})
}
