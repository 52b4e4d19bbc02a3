// Copyright 2018 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License. See the AUTHORS file
// for names of contributors.

package randvar

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

// Uniform draws values from a uniform distribution over [min, max]. It is
// not safe for concurrent use; give each worker its own generator.
type Uniform struct {
	rng      *rand.Rand
	min, max uint64
}

var _ Generator = (*Uniform)(nil)

// NewUniform constructs a Uniform generator. A nil rng uses a randomly seeded
// one.
func NewUniform(rng *rand.Rand, min, max uint64) (*Uniform, error) {
	if min > max {
		return nil, errors.Errorf("min %d > max %d", min, max)
	}
	return &Uniform{rng: ensureRand(rng), min: min, max: max}, nil
}

// Uint64 returns a random value between min and max inclusive.
func (g *Uniform) Uint64() uint64 {
	n := g.max - g.min + 1
	if n == 0 {
		// The range covers every uint64.
		return g.rng.Uint64()
	}
	return g.rng.Uint64N(n) + g.min
}
