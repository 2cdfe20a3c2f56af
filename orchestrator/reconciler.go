// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/registry"
	"github.com/ava-labs/orchestrator/utils/logging"
)

var (
	ErrNoCUP = errors.New("no catch-up package available")

	_ Reconciler = (*reconciler)(nil)
)

// Reconciler determines the catch-up package a node resumes from.
type Reconciler interface {
	// Reconcile returns the newest catch-up package among [local], the one
	// derived from the registry and one fetched from the peers of
	// [subnetID]. The result is persisted if it advances past [local], or if
	// it is an unsigned package at the height of [local].
	//
	// An error is returned if no catch-up package is available or if the
	// result could not be persisted. Both are fatal.
	Reconcile(ctx context.Context, local *cup.CatchUpPackage, subnetID ids.ID) (*cup.CatchUpPackage, error)
}

// Source identifies where a catch-up package candidate came from.
type Source byte

// Sources in increasing order of precedence when candidates are otherwise
// equal.
const (
	LocalSource Source = iota
	RegistrySource
	PeerSource
)

func (s Source) String() string {
	switch s {
	case LocalSource:
		return "local"
	case RegistrySource:
		return "registry"
	case PeerSource:
		return "peer"
	default:
		return "unknown"
	}
}

type candidate struct {
	source Source
	pkg    *cup.CatchUpPackage
}

type reconciler struct {
	log       logging.Logger
	directory registry.Directory
	selector  *Selector
	store     *Store
	metrics   *reconcilerMetrics
}

func NewReconciler(
	log logging.Logger,
	directory registry.Directory,
	selector *Selector,
	store *Store,
	registerer prometheus.Registerer,
) (Reconciler, error) {
	metrics, err := newReconcilerMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		log:       log,
		directory: directory,
		selector:  selector,
		store:     store,
		metrics:   metrics,
	}, nil
}

func (r *reconciler) Reconcile(
	ctx context.Context,
	local *cup.CatchUpPackage,
	subnetID ids.ID,
) (*cup.CatchUpPackage, error) {
	r.metrics.reconciliations.Inc()

	version := r.directory.GetLatestVersion()
	floor := cup.ParamOf(local)

	peerCUP := r.selector.GetPeerCUP(ctx, subnetID, version, floor)

	registryCUP, err := r.directory.GetRegistryCUP(ctx, version, subnetID)
	if err != nil {
		r.log.Warn("failed to retrieve registry catch-up package",
			zap.Stringer("subnetID", subnetID),
			zap.Uint64("registryVersion", version),
			zap.Error(err),
		)
		registryCUP = nil
	}

	selected, ok := selectLatest(
		candidate{source: LocalSource, pkg: local},
		candidate{source: RegistrySource, pkg: registryCUP},
		candidate{source: PeerSource, pkg: peerCUP},
	)
	if !ok {
		return nil, fmt.Errorf("%w for subnet %s at registry version %d",
			ErrNoCUP,
			subnetID,
			version,
		)
	}
	r.metrics.selected.WithLabelValues(selected.source.String()).Inc()

	r.log.Debug("selected catch-up package",
		zap.Stringer("source", selected.source),
		zap.Stringer("cup", selected.pkg),
	)

	if shouldPersist(selected.pkg, local) {
		if _, err := r.store.Persist(selected.pkg); err != nil {
			return nil, err
		}
		r.metrics.persists.Inc()
		r.metrics.persistedHeight.Set(float64(selected.pkg.Height))
	}
	return selected.pkg, nil
}

// selectLatest returns the candidate with the greatest (height, registry
// version). Remaining ties are broken by source precedence. Absent candidates
// are ignored.
func selectLatest(candidates ...candidate) (candidate, bool) {
	var (
		best  candidate
		found bool
	)
	for _, c := range candidates {
		if c.pkg == nil {
			continue
		}
		if !found {
			best = c
			found = true
			continue
		}
		switch cmp := cup.Compare(c.pkg.Param(), best.pkg.Param()); {
		case cmp > 0, cmp == 0 && c.source > best.source:
			best = c
		}
	}
	return best, found
}

// shouldPersist reports whether [selected] must be written to disk given the
// currently persisted [local].
//
// Unsigned packages are rewritten even at the same height. They must always
// be the one rebuilt from the current registry, never an earlier copy.
func shouldPersist(selected, local *cup.CatchUpPackage) bool {
	if local == nil {
		return true
	}
	return selected.Height > local.Height ||
		selected.Height == local.Height && !selected.IsSigned()
}
