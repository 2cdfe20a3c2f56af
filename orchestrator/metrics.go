// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLabel = "result"
	sourceLabel = "source"
)

// Outcomes of querying a single peer.
const (
	fetchUnusableEndpoint = "unusable_endpoint"
	fetchFailed           = "failed"
	fetchNothingNewer     = "nothing_newer"
	fetchMalformed        = "malformed"
	fetchInvalidSignature = "invalid_signature"
	fetchSucceeded        = "success"
)

type selectorMetrics struct {
	fetches *prometheus.CounterVec
}

func newSelectorMetrics(registerer prometheus.Registerer) (*selectorMetrics, error) {
	m := &selectorMetrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peer_cup_fetches",
				Help: "number of catch-up package queries issued to peers, by outcome",
			},
			[]string{resultLabel},
		),
	}
	return m, registerer.Register(m.fetches)
}

type reconcilerMetrics struct {
	reconciliations prometheus.Counter
	persists        prometheus.Counter
	persistedHeight prometheus.Gauge
	selected        *prometheus.CounterVec
}

func newReconcilerMetrics(registerer prometheus.Registerer) (*reconcilerMetrics, error) {
	m := &reconcilerMetrics{
		reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconciliations",
			Help: "number of catch-up package reconciliations",
		}),
		persists: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cup_persists",
			Help: "number of times the accepted catch-up package was written to disk",
		}),
		persistedHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "persisted_cup_height",
			Help: "height of the most recently persisted catch-up package",
		}),
		selected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selected_cups",
				Help: "number of reconciliations won by each catch-up package source",
			},
			[]string{sourceLabel},
		),
	}
	err := errors.Join(
		registerer.Register(m.reconciliations),
		registerer.Register(m.persists),
		registerer.Register(m.persistedHeight),
		registerer.Register(m.selected),
	)
	return m, err
}
