// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var errDuplicateCheck = errors.New("duplicated check")

type worker struct {
	failingChecks prometheus.Gauge

	checksLock sync.RWMutex
	checks     map[string]Checker

	resultsLock sync.RWMutex
	results     map[string]Result
}

func newWorker(kind string, metrics *metrics) *worker {
	failingChecks := metrics.failingChecks.WithLabelValues(kind)
	failingChecks.Set(0)
	return &worker{
		failingChecks: failingChecks,
		checks:        make(map[string]Checker),
		results:       make(map[string]Result),
	}
}

func (w *worker) RegisterCheck(name string, checker Checker) error {
	w.checksLock.Lock()
	defer w.checksLock.Unlock()

	if _, ok := w.checks[name]; ok {
		return fmt.Errorf("%w: %q", errDuplicateCheck, name)
	}

	w.resultsLock.Lock()
	defer w.resultsLock.Unlock()

	w.checks[name] = checker
	w.results[name] = notYetRunResult

	// Whenever a new check is added - it is failing
	w.failingChecks.Inc()
	return nil
}

// RegisterMonotonicCheck registers a check that keeps passing once it has
// passed.
func (w *worker) RegisterMonotonicCheck(name string, checker Checker) error {
	var passed atomic.Pointer[interface{}]
	return w.RegisterCheck(name, CheckerFunc(func(ctx context.Context) (interface{}, error) {
		if details := passed.Load(); details != nil {
			return *details, nil
		}

		details, err := checker.HealthCheck(ctx)
		if err == nil {
			passed.Store(&details)
		}
		return details, err
	}))
}

func (w *worker) Results() (map[string]Result, bool) {
	w.resultsLock.RLock()
	defer w.resultsLock.RUnlock()

	results := make(map[string]Result, len(w.results))
	healthy := true
	for name, result := range w.results {
		results[name] = result
		healthy = healthy && result.Error == nil
	}
	return results, healthy
}

// Run executes the checks every [freq] until [ctx] is cancelled.
func (w *worker) Run(ctx context.Context, freq time.Duration) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	w.runChecks(ctx)
	for {
		select {
		case <-ticker.C:
			w.runChecks(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *worker) runChecks(ctx context.Context) {
	w.checksLock.RLock()
	// Checks registered during this iteration are run on the next one.
	checks := maps.Clone(w.checks)
	w.checksLock.RUnlock()

	var wg sync.WaitGroup
	wg.Add(len(checks))
	for name, check := range checks {
		go w.runCheck(ctx, &wg, name, check)
	}
	wg.Wait()
}

func (w *worker) runCheck(ctx context.Context, wg *sync.WaitGroup, name string, check Checker) {
	defer wg.Done()

	start := time.Now()

	// No locks are held while the check runs, so a check may register other
	// checks.
	details, err := check.HealthCheck(ctx)
	end := time.Now()

	result := Result{
		Details:   details,
		Timestamp: end,
		Duration:  end.Sub(start),
	}

	w.resultsLock.Lock()
	defer w.resultsLock.Unlock()
	prevResult := w.results[name]
	if err != nil {
		errString := err.Error()
		result.Error = &errString

		result.ContiguousFailures = prevResult.ContiguousFailures + 1
		if prevResult.ContiguousFailures > 0 {
			result.TimeOfFirstFailure = prevResult.TimeOfFirstFailure
		} else {
			result.TimeOfFirstFailure = &end
		}

		if prevResult.Error == nil {
			w.failingChecks.Inc()
		}
	} else if prevResult.Error != nil {
		w.failingChecks.Dec()
	}
	w.results[name] = result
}
