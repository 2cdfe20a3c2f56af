// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/logging"
)

// livenessPeriods is the number of poll periods without a successful
// reconciliation after which the poller is reported unhealthy.
const livenessPeriods = 3

var (
	errNoCUPAccepted     = errors.New("no catch-up package accepted")
	errReconciliationLag = errors.New("no recent successful reconciliation")
)

// Latest holds the catch-up package this node currently trusts. It is safe
// for concurrent use.
type Latest struct {
	pkg atomic.Pointer[cup.CatchUpPackage]
}

// Load returns the trusted catch-up package, or nil if there is none yet.
func (l *Latest) Load() *cup.CatchUpPackage {
	return l.pkg.Load()
}

func (l *Latest) Store(pkg *cup.CatchUpPackage) {
	l.pkg.Store(pkg)
}

// HealthCheck passes once a catch-up package has been accepted.
func (l *Latest) HealthCheck(context.Context) (interface{}, error) {
	pkg := l.Load()
	if pkg == nil {
		return nil, errNoCUPAccepted
	}
	return map[string]interface{}{
		"id":              pkg.ID(),
		"height":          pkg.Height,
		"registryVersion": pkg.RegistryVersion,
		"signed":          pkg.IsSigned(),
	}, nil
}

// Poller repeatedly reconciles the catch-up package of a subnet.
type Poller struct {
	log        logging.Logger
	reconciler Reconciler
	store      *Store
	subnetID   ids.ID
	frequency  time.Duration
	latest     *Latest

	// unix nanoseconds of the last successful reconciliation
	lastSuccess atomic.Int64
}

func NewPoller(
	log logging.Logger,
	reconciler Reconciler,
	store *Store,
	subnetID ids.ID,
	frequency time.Duration,
	latest *Latest,
) *Poller {
	return &Poller{
		log:        log,
		reconciler: reconciler,
		store:      store,
		subnetID:   subnetID,
		frequency:  frequency,
		latest:     latest,
	}
}

// Run loads the persisted catch-up package and then reconciles every
// frequency until [ctx] is cancelled. Calls to the reconciler are never
// concurrent. A fatal reconciliation error stops the loop and is returned.
func (p *Poller) Run(ctx context.Context) error {
	local := p.store.Load()
	if local != nil {
		p.log.Info("loaded persisted catch-up package",
			zap.Stringer("cup", local),
			zap.String("path", p.store.Path()),
		)
	}
	p.latest.Store(local)

	ticker := time.NewTicker(p.frequency)
	defer ticker.Stop()

	for ctx.Err() == nil {
		if err := p.reconcile(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
	return nil
}

func (p *Poller) reconcile(ctx context.Context) error {
	previous := p.latest.Load()
	accepted, err := p.reconciler.Reconcile(ctx, previous, p.subnetID)
	if err != nil {
		p.log.Error("failed to reconcile catch-up package",
			zap.Stringer("subnetID", p.subnetID),
			zap.Error(err),
		)
		return err
	}

	if cup.Compare(cup.ParamOf(accepted), cup.ParamOf(previous)) != 0 {
		p.log.Info("accepted new catch-up package",
			zap.Stringer("subnetID", p.subnetID),
			zap.Stringer("previous", cup.ParamOf(previous)),
			zap.Stringer("cup", accepted),
			zap.Stringer("id", accepted.ID()),
		)
	}
	p.latest.Store(accepted)
	p.lastSuccess.Store(time.Now().UnixNano())
	return nil
}

// HealthCheck fails if no reconciliation has succeeded in the last few poll
// periods.
func (p *Poller) HealthCheck(context.Context) (interface{}, error) {
	lastSuccess := p.lastSuccess.Load()
	if lastSuccess == 0 {
		return nil, fmt.Errorf("%w: never reconciled", errReconciliationLag)
	}

	last := time.Unix(0, lastSuccess)
	since := time.Since(last)
	details := map[string]interface{}{
		"lastSuccess": last,
	}
	if maxLag := livenessPeriods * p.frequency; since > maxLag {
		return details, fmt.Errorf("%w: last success %s ago exceeds %s", errReconciliationLag, since, maxLag)
	}
	return details, nil
}
