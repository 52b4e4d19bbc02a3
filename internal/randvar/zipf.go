// Copyright 2017 The Cockroach Authors.
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
//
// Zipf implements the Zipfian generator from "Quickly Generating
// Billion-Record Synthetic Databases" by Gray, Sundaresan, Englert, Baclawski,
// and Weinberger, SIGMOD 1994.

package randvar

import (
	"math"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

const defaultTheta = 0.99

// Zipf draws values from a Zipf distribution over [min, max], skewed towards
// min. Unlike rand.Zipf it supports any theta other than 1. It is not safe
// for concurrent use.
type Zipf struct {
	rng        *rand.Rand
	theta      float64
	min, max   uint64
	alpha      float64
	eta, zetaN float64
}

var _ Generator = (*Zipf)(nil)

// NewZipf constructs a Zipf generator. A nil rng uses a randomly seeded one.
// Construction is O(max-min).
func NewZipf(rng *rand.Rand, min, max uint64, theta float64) (*Zipf, error) {
	if min > max {
		return nil, errors.Errorf("min %d > max %d", min, max)
	}
	if theta <= 0 || theta == 1 {
		return nil, errors.Errorf("theta must be positive and not 1, got %g", theta)
	}
	if max-min < 1 {
		return nil, errors.Errorf("zipf requires at least two values, got [%d, %d]", min, max)
	}
	z := &Zipf{
		rng:   ensureRand(rng),
		theta: theta,
		min:   min,
		max:   max,
		alpha: 1 / (1 - theta),
	}
	zeta2 := zeta(2, theta)
	z.zetaN = zeta(max+1-min, theta)
	z.eta = (1 - math.Pow(2/float64(max+1-min), 1-theta)) / (1 - zeta2/z.zetaN)
	return z, nil
}

// zeta computes (1/1)^theta + (1/2)^theta + ... + (1/n)^theta.
func zeta(n uint64, theta float64) float64 {
	var sum float64
	for i := uint64(1); i <= n; i++ {
		sum += 1 / math.Pow(float64(i), theta)
	}
	return sum
}

// Uint64 draws a value between min and max inclusive.
func (z *Zipf) Uint64() uint64 {
	u := z.rng.Float64()
	uz := u * z.zetaN
	switch {
	case uz < 1:
		return z.min
	case uz < 1+math.Pow(0.5, z.theta):
		return z.min + 1
	default:
		spread := float64(z.max + 1 - z.min)
		v := z.min + uint64(spread*math.Pow(z.eta*u-z.eta+1, z.alpha))
		return min(v, z.max)
	}
}
