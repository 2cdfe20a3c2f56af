// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catchup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/utils/rpc"
	"github.com/ava-labs/orchestrator/utils/units"
)

// MaxResponseSize bounds the size of a served catch-up package.
const MaxResponseSize = 64 * units.MiB

var (
	ErrUnexpectedStatus = rpc.ErrUnexpectedStatus
	ErrResponseTooLarge = errors.New("response too large")

	_ Transport = (*httpTransport)(nil)
)

type httpTransport struct {
	client  *http.Client
	maxSize int64
}

// NewHTTPTransport returns a Transport that issues each query with the given
// [timeout].
func NewHTTPTransport(timeout time.Duration) Transport {
	return &httpTransport{
		client: &http.Client{
			Timeout: timeout,
		},
		maxSize: MaxResponseSize,
	}
}

func (t *httpTransport) FetchCUP(ctx context.Context, endpoint *url.URL, floor *cup.Param) ([]byte, error) {
	uri := endpoint.JoinPath(Path)
	if floor != nil {
		query := url.Values{}
		query.Set(heightParam, strconv.FormatUint(floor.Height, 10))
		query.Set(registryVersionParam, strconv.FormatUint(floor.RegistryVersion, 10))
		uri.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		uri.String(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", ContentType)

	var b []byte
	err = rpc.Do(t.client, request, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusNoContent:
			return nil
		case http.StatusOK:
		default:
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		b, err = io.ReadAll(io.LimitReader(resp.Body, t.maxSize+1))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if int64(len(b)) > t.maxSize {
			return fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, t.maxSize)
		}
		return nil
	})
	if err != nil || len(b) == 0 {
		return nil, err
	}
	return b, nil
}
