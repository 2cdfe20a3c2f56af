// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import "github.com/prometheus/client_golang/prometheus"

const kindLabel = "kind"

type metrics struct {
	// failingChecks keeps track of the number of check failing
	failingChecks *prometheus.GaugeVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		failingChecks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "health_checks_failing",
				Help: "number of currently failing health checks",
			},
			[]string{kindLabel},
		),
	}
	return m, registerer.Register(m.failingChecks)
}
