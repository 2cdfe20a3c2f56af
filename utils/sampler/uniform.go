// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import "errors"

var ErrOutOfRange = errors.New("out of range")

// Uniform samples values without replacement in the provided range
type Uniform interface {
	Initialize(sampleRange uint64)
	// Sample returns length numbers in the range [0,sampleRange). If there
	// aren't enough numbers in the range, an error is returned. If length is
	// negative the implementation may panic.
	Sample(length int) ([]uint64, error)

	Seed(int64)
	ClearSeed()

	Reset()
	Next() (uint64, error)
}

// NewUniform returns a new sampler
func NewUniform() Uniform {
	return &uniformReplacer{}
}

// Shuffle returns the elements of [elements] in a uniformly random order
// drawn from [s]. [elements] is not modified.
func Shuffle[T any](s Uniform, elements []T) ([]T, error) {
	s.Initialize(uint64(len(elements)))
	indices, err := s.Sample(len(elements))
	if err != nil {
		return nil, err
	}
	shuffled := make([]T, len(indices))
	for i, index := range indices {
		shuffled[i] = elements[index]
	}
	return shuffled, nil
}
