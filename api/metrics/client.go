// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/common/expfmt"

	"github.com/ava-labs/orchestrator/utils/rpc"

	dto "github.com/prometheus/client_model/go"
)

// Client scrapes the metrics endpoint of a running orchestrator.
type Client struct {
	uri string
}

func NewClient(uri string) *Client {
	return &Client{
		uri: uri + Path,
	}
}

// GetMetrics returns the scraped metric families keyed by name.
func (c *Client) GetMetrics(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var families map[string]*dto.MetricFamily
	err = rpc.Do(http.DefaultClient, request, func(resp *http.Response) error {
		if err := rpc.CheckStatus(resp); err != nil {
			return err
		}
		var parser expfmt.TextParser
		families, err = parser.TextToMetricFamilies(resp.Body)
		return err
	})
	return families, err
}
