// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/orchestrator/utils/logging"
)

// Path is the endpoint the health API is served on.
const Path = "/ext/health"

const (
	readinessKind = "readiness"
	livenessKind  = "liveness"
)

var _ Health = (*health)(nil)

// Health defines the full health service interface for registering, reporting
// and refreshing health checks.
type Health interface {
	Registerer
	Reporter

	// Run refreshes the checks every [freq] until [ctx] is cancelled.
	Run(ctx context.Context, freq time.Duration)
}

// Registerer defines how to register new components to check the health of.
type Registerer interface {
	// RegisterReadinessCheck registers a check that is expected to fail until
	// the node has finished starting up. Once it passes it is never run again.
	RegisterReadinessCheck(name string, checker Checker) error
	RegisterLivenessCheck(name string, checker Checker) error
}

// Reporter returns the current health status.
type Reporter interface {
	Readiness() (map[string]Result, bool)
	Liveness() (map[string]Result, bool)
}

// APIReply is the response for the health endpoints.
type APIReply struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

type health struct {
	log       logging.Logger
	readiness *worker
	liveness  *worker
}

func New(log logging.Logger, registerer prometheus.Registerer) (Health, error) {
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &health{
		log:       log,
		readiness: newWorker(readinessKind, metrics),
		liveness:  newWorker(livenessKind, metrics),
	}, nil
}

func (h *health) RegisterReadinessCheck(name string, checker Checker) error {
	return h.readiness.RegisterMonotonicCheck(name, checker)
}

func (h *health) RegisterLivenessCheck(name string, checker Checker) error {
	return h.liveness.RegisterCheck(name, checker)
}

func (h *health) Readiness() (map[string]Result, bool) {
	results, healthy := h.readiness.Results()
	if !healthy {
		h.log.Warn("failing readiness check",
			zap.Reflect("reason", results),
		)
	}
	return results, healthy
}

func (h *health) Liveness() (map[string]Result, bool) {
	results, healthy := h.liveness.Results()
	if !healthy {
		h.log.Warn("failing liveness check",
			zap.Reflect("reason", results),
		)
	}
	return results, healthy
}

func (h *health) Run(ctx context.Context, freq time.Duration) {
	var eg errgroup.Group
	eg.Go(func() error {
		h.readiness.Run(ctx, freq)
		return nil
	})
	eg.Go(func() error {
		h.liveness.Run(ctx, freq)
		return nil
	})
	_ = eg.Wait()
}

// NewHandler returns the http.Handler serving [reporter] on Path. The
// readiness and liveness results are served on the readiness and liveness
// sub-paths. Path itself reports both. Unhealthy results are served with
// status 503.
func NewHandler(log logging.Logger, reporter Reporter) http.Handler {
	router := mux.NewRouter()
	router.Handle(Path, newGetHandler(log, func() (map[string]Result, bool) {
		readiness, ready := reporter.Readiness()
		liveness, live := reporter.Liveness()

		checks := make(map[string]Result, len(readiness)+len(liveness))
		for name, result := range readiness {
			checks[readinessKind+"/"+name] = result
		}
		for name, result := range liveness {
			checks[livenessKind+"/"+name] = result
		}
		return checks, ready && live
	})).Methods(http.MethodGet)
	router.Handle(Path+"/"+readinessKind, newGetHandler(log, reporter.Readiness)).Methods(http.MethodGet)
	router.Handle(Path+"/"+livenessKind, newGetHandler(log, reporter.Liveness)).Methods(http.MethodGet)
	return router
}

func newGetHandler(log logging.Logger, reply func() (map[string]Result, bool)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, healthy := reply()

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		err := json.NewEncoder(w).Encode(APIReply{
			Checks:  checks,
			Healthy: healthy,
		})
		if err != nil {
			log.Debug("failed to encode the health check response",
				zap.Error(err),
			)
		}
	})
}
