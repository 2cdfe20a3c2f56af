// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/orchestrator/api/catchup"
	"github.com/ava-labs/orchestrator/api/health"
	"github.com/ava-labs/orchestrator/api/info"
	"github.com/ava-labs/orchestrator/api/metrics"
	"github.com/ava-labs/orchestrator/api/server"
	"github.com/ava-labs/orchestrator/config"
	"github.com/ava-labs/orchestrator/orchestrator"
	"github.com/ava-labs/orchestrator/registry"
	"github.com/ava-labs/orchestrator/thresholdsig"
	"github.com/ava-labs/orchestrator/trace"
	"github.com/ava-labs/orchestrator/utils/logging"
	"github.com/ava-labs/orchestrator/utils/sampler"
	"github.com/ava-labs/orchestrator/version"
)

const (
	metricsNamespace = "orchestrator"
	shutdownTimeout  = 10 * time.Second
)

var _ App = (*orchestratorApp)(nil)

type orchestratorApp struct {
	config     config.Config
	logFactory logging.Factory
	log        logging.Logger
	tracer     trace.Tracer
	health     health.Health
	server     *server.Server
	poller     *orchestrator.Poller

	cancel context.CancelFunc
	eg     *errgroup.Group
}

// New builds the orchestrator described by [config]. The returned App owns
// [logFactory] and closes it once it exits.
func New(config config.Config, logFactory logging.Factory) (App, error) {
	log, err := logFactory.Make("main")
	if err != nil {
		logFactory.Close()
		return nil, fmt.Errorf("couldn't create main logger: %w", err)
	}

	a := &orchestratorApp{
		config:     config,
		logFactory: logFactory,
		log:        log,
	}
	if err := a.initialize(); err != nil {
		log.Fatal("couldn't initialize orchestrator",
			zap.Error(err),
		)
		if a.tracer != nil {
			_ = a.tracer.Close()
		}
		logFactory.Close()
		return nil, err
	}
	return a, nil
}

func (a *orchestratorApp) initialize() error {
	a.log.Info("initializing orchestrator",
		zap.Stringer("version", version.Current),
		zap.Stringer("nodeID", a.config.NodeID),
		zap.Stringer("subnetID", a.config.SubnetID),
		zap.Reflect("config", a.config),
	)

	directory, err := registry.LoadStatic(a.config.CatchUpConfig.RegistryFile)
	if err != nil {
		return fmt.Errorf("couldn't load registry: %w", err)
	}

	metricsRegistry, metricsHandler, err := metrics.NewService()
	if err != nil {
		return fmt.Errorf("couldn't initialize metrics: %w", err)
	}
	registerer := prometheus.WrapRegistererWithPrefix(metricsNamespace+"_", metricsRegistry)

	a.tracer, err = trace.New(a.config.TraceConfig)
	if err != nil {
		return fmt.Errorf("couldn't initialize tracer: %w", err)
	}

	selector, err := orchestrator.NewSelector(
		a.log,
		a.config.NodeID,
		directory,
		catchup.NewHTTPTransport(a.config.CatchUpConfig.FetchTimeout),
		thresholdsig.NewBLSVerifier(directory),
		sampler.NewUniform(),
		registerer,
	)
	if err != nil {
		return fmt.Errorf("couldn't initialize selector: %w", err)
	}

	store := orchestrator.NewStore(a.log, a.config.CatchUpConfig.Dir)
	reconciler, err := orchestrator.NewReconciler(
		a.log,
		directory,
		selector,
		store,
		registerer,
	)
	if err != nil {
		return fmt.Errorf("couldn't initialize reconciler: %w", err)
	}

	latest := &orchestrator.Latest{}
	a.poller = orchestrator.NewPoller(
		a.log,
		orchestrator.Trace(reconciler, a.tracer),
		store,
		a.config.SubnetID,
		a.config.CatchUpConfig.PollFrequency,
		latest,
	)

	a.health, err = health.New(a.log, registerer)
	if err != nil {
		return fmt.Errorf("couldn't initialize health: %w", err)
	}
	if err := a.health.RegisterReadinessCheck("cup", latest); err != nil {
		return err
	}
	if err := a.health.RegisterLivenessCheck("reconciliation", a.poller); err != nil {
		return err
	}

	return a.initializeServer(latest, metricsHandler)
}

func (a *orchestratorApp) initializeServer(latest *orchestrator.Latest, metricsHandler http.Handler) error {
	var accessLog io.Writer = io.Discard
	if a.config.HTTPConfig.AccessLogEnabled {
		httpLog, err := a.logFactory.Make("http")
		if err != nil {
			return fmt.Errorf("couldn't create http logger: %w", err)
		}
		accessLog = httpLog
	}

	address := listenAddress(a.config.HTTPConfig)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("couldn't listen on %s: %w", address, err)
	}

	a.server = server.New(
		a.log,
		listener,
		a.config.NodeID,
		a.config.HTTPConfig.AllowedOrigins,
		accessLog,
	)
	a.server.AddRoute(catchup.Path, catchup.NewHandler(
		a.log,
		latest,
		a.config.CatchUpConfig.EndpointRateLimit,
		a.config.CatchUpConfig.EndpointBurst,
	))

	infoHandler, err := info.NewService(a.log, a.config.NodeID, a.config.SubnetID, latest)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("couldn't initialize info API: %w", err)
	}
	a.server.AddRoute(info.Path, infoHandler)
	a.server.AddRoute(metrics.Path, metricsHandler)
	a.server.AddRoute(health.Path, health.NewHandler(a.log, a.health))
	return nil
}

// Start serves the HTTP APIs and begins polling for catch-up packages.
func (a *orchestratorApp) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.eg, ctx = errgroup.WithContext(ctx)
	a.eg.Go(a.server.Dispatch)
	a.eg.Go(func() error {
		return a.poller.Run(ctx)
	})
	a.eg.Go(func() error {
		a.health.Run(ctx, a.config.HealthCheckFreq)
		return nil
	})
	a.eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return nil
}

func (a *orchestratorApp) Stop() error {
	a.log.Info("stopping orchestrator")
	a.cancel()
	return nil
}

func (a *orchestratorApp) ExitCode() (int, error) {
	err := a.eg.Wait()
	a.cancel()

	if closeErr := a.tracer.Close(); closeErr != nil {
		a.log.Warn("failed to close tracer",
			zap.Error(closeErr),
		)
	}

	exitCode := 0
	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Fatal("orchestrator stopped",
			zap.Error(err),
		)
		exitCode = 1
	} else {
		a.log.Info("orchestrator stopped")
	}
	a.logFactory.Close()
	return exitCode, err
}

func listenAddress(config config.HTTPConfig) string {
	return net.JoinHostPort(config.Host, strconv.FormatUint(uint64(config.Port), 10))
}
