// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package catchup

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/utils/logging"
)

var errPartialFloor = errors.New("both height and registry_version must be provided")

// Source provides the catch-up package a node currently trusts.
type Source interface {
	// Load returns the current catch-up package, or nil if there is none.
	Load() *cup.CatchUpPackage
}

type handler struct {
	log     logging.Logger
	source  Source
	limiter *rate.Limiter
}

// NewHandler returns the http.Handler that serves [source] on Path. Requests
// beyond [limit] per second, with bursts of [burst], are rejected. A
// non-positive [limit] disables rate limiting.
func NewHandler(log logging.Logger, source Source, limit float64, burst int) http.Handler {
	h := &handler{
		log:    log,
		source: source,
	}
	if limit > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}

	router := mux.NewRouter()
	router.HandleFunc(Path, h.serveCUP).Methods(http.MethodGet)
	return router
}

func (h *handler) serveCUP(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	floor, err := parseFloor(r.URL.Query())
	if err != nil {
		h.log.Debug("rejecting catch-up package request",
			zap.String("remoteAddr", r.RemoteAddr),
			zap.Error(err),
		)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	local := h.source.Load()
	if cup.Compare(cup.ParamOf(local), floor) <= 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(local.Bytes())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(local.Bytes()); err != nil {
		h.log.Debug("failed to write catch-up package",
			zap.String("remoteAddr", r.RemoteAddr),
			zap.Error(err),
		)
	}
}

func parseFloor(query url.Values) (*cup.Param, error) {
	heightStr := query.Get(heightParam)
	versionStr := query.Get(registryVersionParam)
	switch {
	case heightStr == "" && versionStr == "":
		return nil, nil
	case heightStr == "" || versionStr == "":
		return nil, errPartialFloor
	}

	height, err := strconv.ParseUint(heightStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", heightParam, err)
	}
	version, err := strconv.ParseUint(versionStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", registryVersionParam, err)
	}
	return &cup.Param{
		Height:          height,
		RegistryVersion: version,
	}, nil
}
