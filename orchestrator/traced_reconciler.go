// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ Reconciler = (*tracedReconciler)(nil)

type tracedReconciler struct {
	reconciler Reconciler
	tracer     oteltrace.Tracer
}

// Trace returns a Reconciler that records a span for every reconciliation.
func Trace(reconciler Reconciler, tracer oteltrace.Tracer) Reconciler {
	return &tracedReconciler{
		reconciler: reconciler,
		tracer:     tracer,
	}
}

func (r *tracedReconciler) Reconcile(
	ctx context.Context,
	local *cup.CatchUpPackage,
	subnetID ids.ID,
) (*cup.CatchUpPackage, error) {
	attrs := []attribute.KeyValue{
		attribute.Stringer("subnetID", subnetID),
	}
	if local != nil {
		attrs = append(attrs,
			attribute.Int64("localHeight", int64(local.Height)),
			attribute.Int64("localRegistryVersion", int64(local.RegistryVersion)),
		)
	}
	ctx, span := r.tracer.Start(ctx, "Reconciler.Reconcile", oteltrace.WithAttributes(attrs...))
	defer span.End()

	pkg, err := r.reconciler.Reconcile(ctx, local, subnetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("height", int64(pkg.Height)),
		attribute.Int64("registryVersion", int64(pkg.RegistryVersion)),
		attribute.Bool("signed", pkg.IsSigned()),
	)
	return pkg, nil
}
