// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/logging"
)

const (
	NodeIDHeader = "node-id"

	readHeaderTimeout = 10 * time.Second
)

// Server serves the node's HTTP endpoints.
type Server struct {
	log      logging.Logger
	listener net.Listener
	router   *mux.Router
	srv      *http.Server
}

// New returns a Server that listens on [listener]. Every response carries
// [nodeID] in the NodeIDHeader header. Access logs of every route are
// written to [accessLog].
func New(
	log logging.Logger,
	listener net.Listener,
	nodeID ids.NodeID,
	allowedOrigins []string,
	accessLog io.Writer,
) *Server {
	router := mux.NewRouter()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router)
	gzipHandler := gziphandler.GzipHandler(corsHandler)
	loggingHandler := handlers.CombinedLoggingHandler(accessLog, gzipHandler)

	nodeIDStr := nodeID.String()
	return &Server{
		log:      log,
		listener: listener,
		router:   router,
		srv: &http.Server{
			Handler: http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					// Attach this node's ID as a header
					w.Header().Set(NodeIDHeader, nodeIDStr)
					loggingHandler.ServeHTTP(w, r)
				},
			),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// AddRoute registers [handler] for every request whose path starts with
// [prefix].
func (s *Server) AddRoute(prefix string, handler http.Handler) {
	s.log.Info("adding route",
		zap.String("prefix", prefix),
	)
	s.router.PathPrefix(prefix).Handler(handler)
}

// Dispatch starts serving and blocks until the server is shut down.
func (s *Server) Dispatch() error {
	s.log.Info("HTTP API server listening",
		zap.Stringer("address", s.listener.Addr()),
	)
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server. Dispatch returns nil once the
// server has stopped.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
