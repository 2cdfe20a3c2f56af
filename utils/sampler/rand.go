// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mathext/prng"
)

var globalRNG = newRNG()

// rng is a MT19937 generator safe for concurrent use. Peer order only needs
// to be unpredictable enough to spread load, not cryptographically random.
type rng struct {
	lock   sync.Mutex
	source *prng.MT19937
}

func newRNG() *rng {
	source := prng.NewMT19937()
	source.Seed(uint64(time.Now().UnixNano()))
	return &rng{source: source}
}

func (r *rng) Seed(seed int64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.source.Seed(uint64(seed))
}

// Uint64Inclusive returns a uniformly distributed value in [0, n].
func (r *rng) Uint64Inclusive(n uint64) uint64 {
	if n == math.MaxUint64 {
		return r.next()
	}

	bound := n + 1
	// Draws above the largest multiple of bound would skew the modulo.
	skip := (math.MaxUint64%bound + 1) % bound
	for {
		if v := r.next(); v <= math.MaxUint64-skip {
			return v % bound
		}
	}
}

func (r *rng) next() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.source.Uint64()
}
